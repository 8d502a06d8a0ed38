package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/statewise/flume"
	httpAdapter "github.com/statewise/flume/internal/adapters/http"
	"github.com/statewise/flume/internal/cli"
	"github.com/statewise/flume/pkg/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a live counter store over HTTP",
	Long: `Starts a counter store that dispatches an async increment on a fixed
interval and exposes it for observation: GET /state for the current commit,
GET /watch for a server-sent-events stream, and GET /metrics for Prometheus.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		port, _ := cmd.Flags().GetString("port")
		interval, _ := cmd.Flags().GetDuration("interval")

		logger := cli.NewLogger(debug)

		registry := prometheus.NewRegistry()
		store := flume.New(0,
			flume.WithLogger[int](logger),
			flume.WithMiddleware[int](
				middleware.NewLogging[int](logger),
				middleware.NewMetrics[int](registry, "flume"),
			),
		)
		defer store.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					_ = store.Dispatch(ctx, flume.AsyncAction[int]{
						Name: "tick",
						Reduce: func(ctx context.Context, s int) (int, error) {
							return s + 1, nil
						},
					})
				}
			}
		}()

		r := chi.NewRouter()
		r.Mount("/", httpAdapter.NewHandler(store))
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: r,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("serving store", "addr", srv.Addr, "interval", interval)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)
		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())
			cancel()
			store.Wait()
			// Closing the store ends every /watch stream, letting Shutdown
			// drain the SSE connections.
			_ = store.Close()

			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				_ = srv.Close()
				return fmt.Errorf("graceful shutdown: %w", err)
			}
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("port", "8080", "Port to listen on")
	serveCmd.Flags().Duration("interval", time.Second, "Tick dispatch interval")
	rootCmd.AddCommand(serveCmd)
}
