package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flanksource/bounty-hunter/models"
)

var updateStatusCmd = &cobra.Command{
	Use:   "update-status <finding-id> <status>",
	Short: "Move a finding through the approval lifecycle",
	Long: `Transition a finding to a new status. Only the lifecycle edges are
permitted:

  Pending   -> Approved | Rejected
  Approved  -> Submitted
  Submitted -> Paid

Rejected and Paid are terminal. Any other transition is refused and leaves
the finding unchanged.`,
	Args: cobra.ExactArgs(2),
	RunE: runUpdateStatus,
}

func init() {
	rootCmd.AddCommand(updateStatusCmd)
}

func runUpdateStatus(cmd *cobra.Command, args []string) error {
	id := args[0]
	target, err := models.ParseStatus(args[1])
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.Transition(id, target); err != nil {
		return err
	}

	fmt.Printf("Updated %s to %s\n", id, target.Colored())
	return nil
}

var deleteCmd = &cobra.Command{
	Use:    "delete <finding-id>",
	Short:  "Delete a finding (administrative)",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		if err := s.DeleteFinding(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
