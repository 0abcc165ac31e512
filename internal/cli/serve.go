package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds graceful shutdown of the server
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the validation adapter over HTTP",
		Long: `Serve job requests over HTTP until interrupted.

Routes:
  POST /                  run a job ({"id": ..., "data": {"domain", "drcAddress"}})
  POST /jobs              same as POST /
  GET  /bindings/{domain} current binding of a domain
  GET  /healthz           liveness probe
  GET  /metrics           Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              app.Config.Listen,
				Handler:           app.Handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				app.Log.Info("listening", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				app.Log.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			return g.Wait()
		},
	}

	cmd.Flags().String("listen", "", "Address to listen on (default :8080)")

	return cmd
}
