package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/iaee"
	"github.com/aretw0/iaee/internal/cli"
	"github.com/aretw0/iaee/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <experience>...",
	Short: "Check experience documents against the section schemas",
	Long: `Validates each experience file (.json, .yaml, .yml) and reports every issue
with the path of the offending value. Exits non-zero if any file is invalid.

With --watch, files are validated again whenever they change until interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")
		eng := iaee.New(iaee.WithLogger(logger))
		stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

		failed := 0
		for _, path := range args {
			if !validateFile(cmd, eng, path, stdout, stderr) {
				failed++
			}
		}

		if watch {
			ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(stderr, "Watching %d file(s) for changes. Press Ctrl+C to stop.\n", len(args))
			return cli.Watch(ctx, args, cli.DefaultDebounce, logger, func(path string) {
				validateFile(cmd, eng, path, stdout, stderr)
			})
		}

		if failed > 0 {
			return errReported
		}
		return nil
	},
}

func validateFile(cmd *cobra.Command, eng *iaee.Engine, path string, stdout, stderr io.Writer) bool {
	exp, err := eng.Load(cmdContext(cmd), path)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidExperience) {
			cli.PrintIssues(stderr, path, err)
		} else {
			fmt.Fprintf(stderr, "❌ %s: %v\n", path, err)
		}
		return false
	}
	fmt.Fprintf(stdout, "✅ %s is valid (%d sections)\n", path, len(exp.Sections))
	return true
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolP("watch", "w", false, "Validate again whenever a file changes")
}
