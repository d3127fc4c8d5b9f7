package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/kuisku/kuisku/internal/logger"
	"github.com/kuisku/kuisku/internal/store"
	"github.com/spf13/cobra"
)

// appLog is configured from --log-mode before any subcommand runs.
var appLog = logger.Nop()

var rootCmd = &cobra.Command{
	Use:   "kuisku",
	Short: "Verified multiple-choice quizzes",
	Long: "Kuisku builds arithmetic and definition quizzes whose answers are computed,\n" +
		"not trusted: LLM output and datasets are repaired, re-derived and given four valid options.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("log-mode")
		if mode == "" {
			mode = os.Getenv("KUISKU_LOG_MODE")
		}
		l, err := logger.New(mode)
		if err != nil {
			return err
		}
		appLog = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		appLog.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. ctx is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides KUISKU_DB env var)")
	rootCmd.PersistentFlags().String("log-mode", "", "Log mode: dev, prod or empty for warnings only (overrides KUISKU_LOG_MODE)")

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then KUISKU_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore resolves the database path and opens the store.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
