package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/flanksource/bounty-hunter/ingest"
)

var (
	ingestScanID       string
	ingestRepo         string
	ingestRepoURL      string
	ingestOwner        string
	ingestSemgrepFile  string
	ingestCargoFile    string
	ingestMappingFile  string
	ingestFilesScanned int
	ingestLinesScanned int
	ingestDuration     time.Duration
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest analyzer output for one scan run",
	Long: `Ingest the raw output of a completed scan: semgrep --json and/or
cargo-audit --json files. Hits are normalized, fingerprinted and upserted so
re-scanning unchanged code never creates duplicates; the repository row and
an immutable scan-history entry are recorded as the final step.

Example:
  bounty-hunter ingest --repo solana-labs/example \
    --repo-url https://github.com/solana-labs/example \
    --semgrep semgrep.json --cargo-audit audit.json \
    --files 120 --lines 18000`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVar(&ingestScanID, "scan-id", "", "Scan identifier (generated when empty)")
	ingestCmd.Flags().StringVar(&ingestRepo, "repo", "", "Repository name (required)")
	ingestCmd.Flags().StringVar(&ingestRepoURL, "repo-url", "", "Repository URL (required)")
	ingestCmd.Flags().StringVar(&ingestOwner, "owner", "", "Repository owner")
	ingestCmd.Flags().StringVar(&ingestSemgrepFile, "semgrep", "", "semgrep --json output file")
	ingestCmd.Flags().StringVar(&ingestCargoFile, "cargo-audit", "", "cargo-audit --json output file")
	ingestCmd.Flags().StringVar(&ingestMappingFile, "severity-mapping", "", "YAML file overriding severities per category")
	ingestCmd.Flags().IntVar(&ingestFilesScanned, "files", 0, "Number of files scanned")
	ingestCmd.Flags().IntVar(&ingestLinesScanned, "lines", 0, "Number of lines scanned")
	ingestCmd.Flags().DurationVar(&ingestDuration, "duration", 0, "Scan duration")

	_ = ingestCmd.MarkFlagRequired("repo")
	_ = ingestCmd.MarkFlagRequired("repo-url")
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestSemgrepFile == "" && ingestCargoFile == "" {
		return fmt.Errorf("at least one of --semgrep or --cargo-audit is required")
	}

	input := ingest.ScanInput{
		ScanID:       ingestScanID,
		RepoName:     ingestRepo,
		RepoURL:      ingestRepoURL,
		Owner:        ingestOwner,
		FilesScanned: ingestFilesScanned,
		LinesScanned: ingestLinesScanned,
		Duration:     ingestDuration,
	}
	if input.ScanID == "" {
		input.ScanID = ingest.NewScanID(ingestRepo, time.Now())
	}

	var err error
	if ingestSemgrepFile != "" {
		if input.SemgrepOutput, err = os.ReadFile(ingestSemgrepFile); err != nil {
			return fmt.Errorf("failed to read semgrep output: %w", err)
		}
	}
	if ingestCargoFile != "" {
		if input.CargoAuditOutput, err = os.ReadFile(ingestCargoFile); err != nil {
			return fmt.Errorf("failed to read cargo-audit output: %w", err)
		}
	}

	var mapping *ingest.SeverityMapping
	if ingestMappingFile != "" {
		if mapping, err = ingest.LoadSeverityMapping(ingestMappingFile); err != nil {
			return err
		}
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	result, err := ingest.New(s, mapping).Run(input)
	if err != nil {
		return err
	}

	fmt.Printf("Scan %s ingested: %d new findings, %d updated (%d semgrep, %d cargo-audit)\n",
		result.ScanID, result.Inserted, result.Updated,
		result.SemgrepFindings, result.CargoVulnerabilities)
	return nil
}
