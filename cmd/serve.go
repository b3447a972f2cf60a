package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/tempo/internal/adapters/httpapi"
)

var serveAddr string

// serveCmd exposes the statistics over a read-only HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve statistics over a read-only HTTP API",
	Long: `Start an HTTP server exposing statistics, goals, achievements, recent sessions
and report exports as JSON. The address defaults to server.addr in the config.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = app.settings.Config().Server.Addr
		}

		srv := &http.Server{
			Addr:         addr,
			Handler:      httpapi.NewRouter(app.stats, app.logger),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		ctx, stop := setupSignalHandler()
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			app.logger.Info("stats server starting", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()
		fmt.Fprintf(cmd.ErrOrStderr(), "Serving stats on http://%s, press Ctrl+C to stop\n", addr)

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		app.logger.Info("shutting down stats server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		app.logger.Info("stats server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr from config)")
	rootCmd.AddCommand(serveCmd)
}
