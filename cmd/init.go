package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/flanksource/bounty-hunter/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the findings database",
	Long: `Create the findings database and its schema. Initialization is
idempotent; running it against an existing database is a no-op.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	path := dbPath
	if path == "" {
		dir, err := store.DefaultDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "findings.db")
	}

	fmt.Printf("Database initialized at %s\n", path)
	return nil
}
