package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httpAdapter "github.com/aretw0/iaee/internal/adapters/http"
	"github.com/aretw0/iaee/internal/adapters/process"
	"github.com/aretw0/iaee/internal/cli"
	"github.com/aretw0/iaee/internal/presentation/tui"
	"github.com/aretw0/iaee/pkg/domain"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:     "serve <experience>",
	Aliases: []string{"run"},
	Short:   "Serve an experience to the review UI and compile the submission",
	Long: `Validates the experience and starts the runtime server. The UI posts its
results to /api/submit; the compiled report is printed to stdout and stored in
every configured sink. The server stops after the first submission unless
--stay is set.

Without --port, up to 20 consecutive ports are tried starting at the
configured one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetInt("port")
		uiDir, _ := cmd.Flags().GetString("ui")
		open, _ := cmd.Flags().GetBool("open")
		stay, _ := cmd.Flags().GetBool("stay")
		if !cmd.Flags().Changed("host") {
			host = cfg.Server.Host
		}
		if !cmd.Flags().Changed("port") {
			port = cfg.Server.Port
		}
		if !cmd.Flags().Changed("ui") {
			uiDir = cfg.Server.UIDir
		}
		if !cmd.Flags().Changed("open") {
			open = cfg.Server.Open
		}
		if !cmd.Flags().Changed("stay") {
			stay = cfg.Server.Stay
		}
		stderr := cmd.ErrOrStderr()

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		fmt.Fprintf(stderr, "Loading experience from: %s\n", args[0])
		exp, err := rt.Engine.Load(cmdContext(cmd), args[0])
		if err != nil {
			if errors.Is(err, domain.ErrInvalidExperience) {
				cli.PrintIssues(stderr, args[0], err)
				return errReported
			}
			return err
		}

		ln, actualPort, err := httpAdapter.Listen(host, port, cmd.Flags().Changed("port"))
		if err != nil {
			return err
		}
		if actualPort != port {
			fmt.Fprintf(stderr, "Port %d in use, using %d\n", port, actualPort)
		}

		// Closed after the first submission unless --stay.
		done := make(chan struct{})
		var once sync.Once

		handler := httpAdapter.NewHandler(&httpAdapter.Server{
			Engine:       rt.Engine,
			Experience:   exp,
			SectionTypes: rt.Engine.Registry().Types(),
			Reports:      rt.Reports,
			Metrics:      rt.Metrics.Handler(),
			UI:           os.DirFS(uiDir),
			Logger:       logger,
			OnSubmit: func(report *domain.Report) {
				cli.PrintReport(cmd.OutOrStdout(), report.Markdown)
				if !stay {
					once.Do(func() { close(done) })
				}
			},
		})

		srv := &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			serverErrors <- srv.Serve(ln)
		}()

		url := fmt.Sprintf("http://%s:%d", host, actualPort)
		if tui.IsTerminal(os.Stderr) {
			tui.PrintBanner(stderr)
		}
		fmt.Fprintf(stderr, "IAEE running at %s\n", url)
		fmt.Fprintln(stderr, "Press Ctrl+C to exit manually")

		if open {
			opener := &process.Opener{}
			if err := opener.Open(context.Background(), url); err != nil {
				logger.Warn("could not open browser", "error", err)
			}
		}

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)
		case sig := <-shutdown:
			logger.Info("shutdown signal received", "signal", sig.String())
		case <-done:
			logger.Debug("submission received, stopping server")
		}

		// Give outstanding requests (the submit response) a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown did not complete", "error", err)
			return srv.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "localhost", "Host to bind")
	serveCmd.Flags().IntP("port", "p", 3000, "Port to listen on (disables port retry when set)")
	serveCmd.Flags().String("ui", "ui/dist", "Directory with the built review UI")
	serveCmd.Flags().Bool("open", true, "Open the browser once the server is listening")
	serveCmd.Flags().Bool("stay", false, "Keep serving after the first submission")
}
