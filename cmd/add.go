package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flanksource/bounty-hunter/models"
)

var addCmd = &cobra.Command{
	Use:   "add <finding.json>",
	Short: "Add a finding from a JSON file",
	Long: `Ingest a single finding record. The identifier is derived from the
repository, file, line and vulnerability category; adding the same finding
twice updates its descriptive fields instead of creating a duplicate.

Example finding.json:
  {
    "repo_name": "solana-labs/example",
    "repo_url": "https://github.com/solana-labs/example",
    "file_path": "programs/vault/src/lib.rs",
    "line": 42,
    "category": "missing-signer-check",
    "title": "Missing signer check on withdraw",
    "severity": "High",
    "confidence": 80
  }`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read finding file: %w", err)
	}

	var finding models.Finding
	if err := json.Unmarshal(data, &finding); err != nil {
		return fmt.Errorf("failed to parse finding file: %w", err)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	result, err := s.UpsertFinding(&finding)
	if err != nil {
		return err
	}

	fmt.Printf("%s finding %s\n", result, finding.ID)
	return nil
}
