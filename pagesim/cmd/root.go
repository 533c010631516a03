// Package cmd provides the command-line interface of pagesim.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/sarchlab/pagesim/config"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var (
	limits = config.DefaultLimits()
	logger = slog.Default()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pagesim",
	Short: "pagesim steps reference strings through FIFO, LRU and OPT page replacement.",
	Long: `pagesim steps reference strings through a fixed number of frames ` +
		`under the FIFO, LRU and OPT page-replacement policies. It can play ` +
		`a run step by step, compare the policies, sweep frame counts to ` +
		`expose Belady's anomaly, and record runs for later replay.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringSlice("env-file", nil,
		"Env files to load before reading the environment (default .env).")
	rootCmd.PersistentFlags().String("log-level", "",
		"Log level: debug, info, warn or error (overrides "+
			config.EnvLogLevel+").")
}

func setup(cmd *cobra.Command, _ []string) error {
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")

	loaded, err := config.Load(envFiles...)
	if err != nil {
		return err
	}

	limits = loaded

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		limits.LogLevel = level
	}

	logger = config.NewLogger(os.Stderr, limits.LogLevel)
	slog.SetDefault(logger)

	return nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		if errors.Is(err, config.ErrOutOfRange) {
			fmt.Fprintln(os.Stderr, "Inputs out of range!")
		}

		stop()
		atexit.Exit(1)
	}

	stop()
	atexit.Exit(0)
}
