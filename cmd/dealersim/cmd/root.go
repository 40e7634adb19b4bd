package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dealersim",
	Short: "An agent-based dealer market simulator",
	Long: `Dealersim runs populations of trading agents against a dealer who turns
their net order flow into a price through an exponential impact law.

It provides tools for:
  - Running value, momentum and noise agent experiments from a config file
  - Parallel replications with reproducible seeds
  - Journaling price paths to CSV or SQLite
  - Inspecting and exporting recorded runs`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

var (
	logLevel string
	envFiles []string
	logger   = slog.Default()
)

// Execute adds all child commands to the root command and sets flags appropriately.
// An interrupt cancels the running command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env", nil, "dotenv files to load (default ./.env if present)")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	lvl, err := parseLevel(logLevel)
	if err != nil {
		return err
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
