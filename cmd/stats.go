package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/flanksource/clicky"
	"github.com/spf13/cobra"

	"github.com/flanksource/bounty-hunter/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display findings database statistics",
	Long: `Show an aggregate snapshot of the findings database: totals by
severity and status, repositories scanned, submissions and earnings.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	stats, err := s.Statistics()
	if err != nil {
		return err
	}

	if jsonOutput {
		output, err := clicky.Format(stats, clicky.FormatOptions{Format: "json"})
		if err != nil {
			return fmt.Errorf("failed to format statistics: %w", err)
		}
		fmt.Print(output)
		return nil
	}

	fmt.Println("Findings Database Statistics")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Total Findings:        %s\n", color.GreenString("%d", stats.TotalFindings))
	fmt.Printf("Recent (7 days):       %d\n", stats.RecentFindings)
	fmt.Printf("Repositories Scanned:  %d\n", stats.TotalRepositoriesScanned)
	fmt.Printf("Total Scans:           %d\n", stats.TotalScans)
	fmt.Printf("Submissions:           %d\n", stats.Submissions)
	fmt.Printf("Estimated Earnings:    %s\n", color.GreenString("$%.2f", stats.EstimatedEarnings))

	fmt.Println("\nBy Severity:")
	for _, sev := range models.Severities {
		if count, ok := stats.BySeverity[sev]; ok {
			fmt.Printf("  %-15s %d\n", sev.Colored(), count)
		}
	}

	fmt.Println("\nBy Status:")
	for _, st := range models.Statuses {
		if count, ok := stats.ByStatus[st]; ok {
			fmt.Printf("  %-15s %d\n", st.Colored(), count)
		}
	}

	if len(stats.TopRepositories) > 0 {
		fmt.Println("\nTop Repositories:")
		for _, repo := range stats.TopRepositories {
			fmt.Printf("  %s: %d findings\n", repo.RepoName, repo.Count)
		}
	}

	return nil
}
