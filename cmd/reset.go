package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the database: question bank, quizzes and LLM history",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		if !yes {
			return fmt.Errorf("this deletes %s; run again with --yes to confirm", dbPath)
		}

		removed := 0
		for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
			err := os.Remove(p)
			switch {
			case err == nil:
				removed++
			case errors.Is(err, os.ErrNotExist):
			default:
				return fmt.Errorf("remove %s: %w", p, err)
			}
		}

		if removed == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Nothing to delete at %s.\n", dbPath)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", dbPath)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
