package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/flanksource/clicky"
	"github.com/spf13/cobra"

	"github.com/flanksource/bounty-hunter/models"
)

var (
	historyRepo  string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the scan-history ledger",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scan-history entries, newest first",
	RunE:  runHistoryList,
}

var historyAddCmd = &cobra.Command{
	Use:   "add <record.json>",
	Short: "Append a scan-history record",
	Long: `Append one immutable ledger entry for a scan run. Entries are
append-only; there is no update or delete.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryAdd,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyAddCmd)
	historyListCmd.Flags().StringVar(&historyRepo, "repo", "", "Filter by repository name")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 50, "Maximum results")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	records, err := s.ListScanHistory(historyRepo, historyLimit)
	if err != nil {
		return err
	}

	if jsonOutput {
		output, err := clicky.Format(records, clicky.FormatOptions{Format: "json"})
		if err != nil {
			return fmt.Errorf("failed to format scan history: %w", err)
		}
		fmt.Print(output)
		return nil
	}

	if len(records) == 0 {
		fmt.Println("No scan history found.")
		return nil
	}

	for _, r := range records {
		fmt.Printf("%s  %s  %s  semgrep=%d cargo=%d files=%d lines=%d\n",
			r.ScanDate.Format("2006-01-02 15:04:05"), r.ScanID, r.Status,
			r.SemgrepFindings, r.CargoVulnerabilities, r.FilesScanned, r.LinesScanned)
		if r.ErrorMessage != "" {
			fmt.Printf("   error: %s\n", r.ErrorMessage)
		}
	}
	return nil
}

func runHistoryAdd(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read scan record: %w", err)
	}

	var record models.ScanHistory
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("failed to parse scan record: %w", err)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.AppendScanHistory(&record); err != nil {
		return err
	}

	fmt.Printf("Recorded scan %s\n", record.ScanID)
	return nil
}
