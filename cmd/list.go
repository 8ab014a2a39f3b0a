package cmd

import (
	"fmt"

	"github.com/flanksource/clicky"
	"github.com/spf13/cobra"

	"github.com/flanksource/bounty-hunter/internal/store"
	"github.com/flanksource/bounty-hunter/models"
)

var (
	listSeverity      string
	listStatus        string
	listRepo          string
	listMinConfidence int
	listLimit         int
	listPending       bool
	listMinSeverity   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List findings",
	Long: `List findings newest first, optionally filtered by status, severity,
repository (exact name or glob) and minimum confidence.

Examples:
  # All pending Critical findings
  bounty-hunter list --status Pending --severity Critical

  # Review queue ordered by severity then confidence
  bounty-hunter list --pending --min-severity High

  # Everything from solana-labs repositories
  bounty-hunter list --repo 'solana-labs/*'`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listSeverity, "severity", "", "Filter by severity")
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&listRepo, "repo", "", "Filter by repository name or glob")
	listCmd.Flags().IntVar(&listMinConfidence, "min-confidence", 0, "Minimum confidence (0-100)")
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "Maximum results")
	listCmd.Flags().BoolVar(&listPending, "pending", false, "Show the review queue (pending findings by severity, then confidence)")
	listCmd.Flags().StringVar(&listMinSeverity, "min-severity", string(models.SeverityHigh), "Minimum severity for --pending")
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	var findings []models.Finding
	if listPending {
		minSeverity, err := models.ParseSeverity(listMinSeverity)
		if err != nil {
			return err
		}
		findings, err = s.ListPending(minSeverity)
		if err != nil {
			return err
		}
	} else {
		filter := store.FindingFilter{
			Repo:          listRepo,
			MinConfidence: listMinConfidence,
			Limit:         listLimit,
		}
		if listSeverity != "" {
			if filter.Severity, err = models.ParseSeverity(listSeverity); err != nil {
				return err
			}
		}
		if listStatus != "" {
			if filter.Status, err = models.ParseStatus(listStatus); err != nil {
				return err
			}
		}
		findings, err = s.ListFindings(filter)
		if err != nil {
			return err
		}
	}

	if jsonOutput {
		output, err := clicky.Format(findings, clicky.FormatOptions{Format: "json"})
		if err != nil {
			return fmt.Errorf("failed to format findings: %w", err)
		}
		fmt.Print(output)
		return nil
	}

	if len(findings) == 0 {
		fmt.Println("No findings found.")
		return nil
	}

	fmt.Printf("Found %d findings:\n\n", len(findings))
	for _, f := range findings {
		printFinding(f)
	}
	return nil
}

func printFinding(f models.Finding) {
	fmt.Printf("%s  %s  %s\n", f.Severity.Colored(), f.ID, f.Title)
	fmt.Printf("   %s  %s:%d  %s", f.RepoName, f.FilePath, f.Line, f.Status.Colored())
	if f.Confidence > 0 {
		fmt.Printf("  (%d%% confidence)", f.Confidence)
	}
	fmt.Println()
}
