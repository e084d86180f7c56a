package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"bodhini/config"

	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bodhini",
	Short: "BODHINI community site backend",
	Long:  `API server for events, accounts, media and the contact form, plus the standalone email syntax checker.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger = config.NewLogger(cfg.Environment, cfg.LogLevel, os.Stdout)
		slog.SetDefault(logger)
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
