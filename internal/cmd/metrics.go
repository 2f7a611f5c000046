package cmd

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/padprobe/padprobe/internal/metrics"
)

// Metrics configures the optional Prometheus endpoint shared by the sink and
// source commands.
type Metrics struct {
	Addr string `help:"Serve Prometheus metrics on this address (default: disabled)" env:"PADPROBE_METRICS_ADDR"`
}

// setup registers a fresh instrument set. When an address is configured the
// exposition server runs in the background until ctx is cancelled.
func (m Metrics) setup(ctx context.Context, logger *slog.Logger) *metrics.Set {
	reg := prometheus.NewRegistry()
	set := metrics.New(reg)
	if m.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, m.Addr, reg, logger); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}
	return set
}
