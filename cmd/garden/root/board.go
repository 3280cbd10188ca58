package root

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"garden/internal/config"
	"garden/internal/engine"
	"garden/internal/logfields"
	"garden/internal/metrics"
	"garden/internal/tui"
)

func newBoardCmd(opts *globalOptions) *cobra.Command {
	var metricsAddr string
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the interactive garden board",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
			defer cancel()

			var sinks []engine.EventSink
			var rec *metrics.PrometheusRecorder
			if metricsAddr != "" {
				var sink engine.EventSink
				rec, sink = metricsSink()
				sinks = append(sinks, sink)
			}

			s, err := openSession(ctx, opts, sinks...)
			if err != nil {
				return err
			}
			defer s.Close()

			boardOpts := tui.BoardOptions{Logger: s.logger}
			if !noWatch && s.cfg.Store.Kind != config.StoreMemory {
				boardOpts.WatchPath = s.path
			}

			if rec != nil {
				ln, err := net.Listen("tcp", metricsAddr)
				if err != nil {
					return fmt.Errorf("listen %s: %w", metricsAddr, err)
				}
				go func() {
					if err := serveMetrics(ctx, ln, rec.Handler(), s.logger); err != nil {
						s.logger.Warn("metrics server stopped", logfields.Error(err))
					}
				}()
				boardOpts.OnChange = func() { metrics.Observe(rec, s.svc) }
			}

			return tui.RunBoard(ctx, s.svc, cmd.OutOrStdout(), boardOpts)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Also serve Prometheus metrics on this address")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload when the data file changes")

	return cmd
}
