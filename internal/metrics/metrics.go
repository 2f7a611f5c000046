// Package metrics defines the Prometheus instruments shared by all engines
// and an optional HTTP endpoint to scrape them.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "padprobe"

// Set holds the instruments engines record into. Vec labels are the transport
// ("tcp" or "udp") plus a short reason for drops and errors; reasons stay a
// small fixed vocabulary to keep cardinality down.
type Set struct {
	FramesReceived *prometheus.CounterVec
	FramesSent     *prometheus.CounterVec
	FramesDropped  *prometheus.CounterVec
	FrameErrors    *prometheus.CounterVec
	ActiveConns    prometheus.Gauge
	Reconnects     prometheus.Counter
}

// New registers the instrument set with reg and returns it.
func New(reg prometheus.Registerer) *Set {
	factory := promauto.With(reg)
	return &Set{
		FramesReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_received_total",
			Help:      "Frames received and decoded, by transport",
		}, []string{"transport"}),
		FramesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_sent_total",
			Help:      "Frames sent, by transport",
		}, []string{"transport"}),
		FramesDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_dropped_total",
			Help:      "Frames dropped before decoding, by transport and reason",
		}, []string{"transport", "reason"}),
		FrameErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frame_errors_total",
			Help:      "Frame level errors, by transport and reason",
		}, []string{"transport", "reason"}),
		ActiveConns: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_connections",
			Help:      "Open TCP sink connections",
		}),
		Reconnects: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconnects_total",
			Help:      "TCP source reconnect attempts",
		}),
	}
}

// Serve exposes g on addr under /metrics until ctx is canceled, plus a
// minimal identity response under /healthz. A clean shutdown returns nil.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	logger.Info("metrics listening", "addr", ln.Addr().String())

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"server":"padprobe","status":"ok"}` + "\n"))
	})
	srv := &http.Server{Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
