package root

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"garden/internal/engine"
	"garden/internal/logfields"
	"garden/internal/metrics"
	"garden/internal/ui"
)

func newMetricsCmd(opts *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Serve garden metrics for Prometheus",
		Long: `Serve /metrics in the Prometheus exposition format.

Gauges are refreshed from the store on every scrape, so changes made by other
garden commands show up without a restart. This process never mutates the
garden, so only the gauges are exported; event and plant counters live on the
board's --metrics-addr endpoint.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			rec := metrics.NewPrometheusRecorder(nil)
			s, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if addr == "" {
				addr = s.cfg.Metrics.Addr
			}
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Good.Render("Serving metrics on"), ui.Key.Render("http://"+ln.Addr().String()+"/metrics"))
			return serveMetrics(ctx, ln, scrapeHandler(s.svc, rec, s.logger), s.logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, 127.0.0.1:9464)")

	return cmd
}

// scrapeHandler reloads the garden and refreshes the gauges before each scrape.
func scrapeHandler(svc *engine.Service, rec *metrics.PrometheusRecorder, logger *slog.Logger) http.Handler {
	next := rec.Handler()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Load(r.Context()); err != nil {
			logger.Warn("metrics reload failed", logfields.Error(err))
		}
		metrics.Observe(rec, svc)
		next.ServeHTTP(w, r)
	})
}

// serveMetrics serves h at /metrics on ln until ctx is done.
func serveMetrics(ctx context.Context, ln net.Listener, h http.Handler, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Handler: mux, ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, IdleTimeout: 60 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	logger.Info("metrics server started", slog.String("addr", ln.Addr().String()))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
