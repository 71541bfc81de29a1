package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/softmesh/graphql/handler"
	"github.com/softmesh/graphql/internal/cli/config"
	"github.com/softmesh/graphql/internal/telemetry"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the diagnostics HTTP server",
		Long: `Serve document diagnostics over HTTP and WebSocket.

POST /check accepts {"source": "..."} and responds with parse and
validation diagnostics as JSON. GET /check/ws upgrades to a WebSocket
that answers every received request with one diagnostics payload.`,
		Example: `  # Serve on the configured address
  gqlint serve

  # Serve on a specific port with tracing enabled
  gqlint serve --addr :9090 --otlp-endpoint localhost:4317`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}
	return cmd
}

func runServe(cmd *cobra.Command) error {
	cfg := config.Get()
	if cfg == nil {
		var err error
		cfg, err = config.Load("", nil)
		if err != nil {
			return err
		}
	}

	shutdown, err := telemetry.Setup(cfg.Server.OTLPEndpoint, cfg.Server.ServiceName)
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			slog.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/check", handler.Check)
	mux.HandleFunc("/check/ws", handler.Socket)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("starting diagnostics server", "addr", cfg.Server.Addr)

	eg, egctx := errgroup.WithContext(cmd.Context())

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		slog.Info("shutting down diagnostics server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
