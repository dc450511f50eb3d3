package main

import (
	"fmt"
	"os"

	"github.com/Freeeeeet/testdrive_bot/internal/app"
	"github.com/Freeeeeet/testdrive_bot/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:          "testdrive",
		Short:        "Test-drive booking assistant",
		Long:         "Books dealership test drives through a conversation, over Telegram or the console.",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at the configured LOG_LEVEL in CLI commands")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newChatCmd(&verbose))
	cmd.AddCommand(newSlotsCmd(&verbose))
	cmd.AddCommand(newBookingsCmd(&verbose))
	cmd.AddCommand(newVehiclesCmd(&verbose))
	cmd.AddCommand(newMigrateCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "testdrive %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

// loadRuntime конфигурация и логгер. В CLI-командах без verbose пишем только предупреждения.
func loadRuntime(quiet bool) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if quiet {
		level = "warn"
	}
	logger := app.NewLogger(cfg.IsProduction(), level)

	if cfg.EnvFileLoaded {
		logger.Debug("Loaded configuration from .env file")
	}

	return cfg, logger, nil
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
