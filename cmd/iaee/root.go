package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/iaee/internal/cli"
	"github.com/aretw0/iaee/internal/config"
	"github.com/spf13/cobra"
)

// errReported marks failures whose details were already printed.
var errReported = errors.New("failed")

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "iaee",
	Short: "IAEE validates interactive experiences and compiles their results",
	Long: `IAEE (Interactive Experience Engine) validates experience documents written in
JSON or YAML, serves them to the review UI and compiles the collected results
into a Markdown report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")

		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		logger, err = cli.CreateLogger(cfg.Log, debug)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default: iaee.yaml, iaee.yml or iaee.json if present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// newRuntime builds the engine for commands that compile or serve.
func newRuntime(cmd *cobra.Command) (*cli.Runtime, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.NewRuntime(cmdContext(cmd), cfg, logger, debug)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
