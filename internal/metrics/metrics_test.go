package metrics_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padprobe/padprobe/internal/metrics"
	th "github.com/padprobe/padprobe/internal/testing"
)

func TestNewRegistersInstruments(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.FramesReceived.WithLabelValues("tcp").Inc()
	m.FramesDropped.WithLabelValues("udp", "oversize").Add(2)
	m.ActiveConns.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FramesReceived.WithLabelValues("tcp")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FramesDropped.WithLabelValues("udp", "oversize")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveConns))
}

func TestServeExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.FramesSent.WithLabelValues("udp").Inc()

	addr := th.FreeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- metrics.Serve(ctx, addr, reg, slog.Default()) }()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return false
		}
		body = string(b)
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	assert.Contains(t, body, "padprobe_frames_sent_total")

	resp, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	health, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"server":"padprobe","status":"ok"}`, string(health))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not stop")
	}
}
