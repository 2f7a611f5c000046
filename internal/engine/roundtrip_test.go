package engine_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padprobe/padprobe/internal/engine"
	"github.com/padprobe/padprobe/internal/log"
	"github.com/padprobe/padprobe/internal/metrics"
	th "github.com/padprobe/padprobe/internal/testing"
)

func TestTCPSourceToSinkRoundTrip(t *testing.T) {
	addr := th.FreeAddr(t)
	logger := slog.Default()
	sinkM := metrics.New(prometheus.NewRegistry())
	srcM := metrics.New(prometheus.NewRegistry())

	sink := engine.NewTCPSink(engine.TCPSinkConfig{Addr: addr, ReadTimeout: 5 * time.Second}, logger, log.NewRaw(nil), sinkM)
	src := engine.NewTCPSource(engine.TCPSourceConfig{
		Target:         addr,
		Rate:           200,
		MsgType:        1,
		Version:        1,
		BackoffInitial: 50 * time.Millisecond,
		BackoffMax:     200 * time.Millisecond,
	}, logger, log.NewRaw(nil), srcM)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- engine.Run(ctx, logger, sink, src) }()

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(sinkM.FramesReceived.WithLabelValues("tcp")) >= 20
	}, 5*time.Second, 20*time.Millisecond)
	assert.Zero(t, testutil.ToFloat64(sinkM.FramesDropped.WithLabelValues("tcp", "invalid_length")))
	assert.Zero(t, testutil.ToFloat64(sinkM.FrameErrors.WithLabelValues("tcp", "size_mismatch")))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("engines did not stop")
	}
}

func TestUDPSourceToSinkRoundTrip(t *testing.T) {
	addr, sinkM, shutdown := startUDPSink(t)
	defer shutdown()

	srcM := metrics.New(prometheus.NewRegistry())
	src := engine.NewUDPSource(engine.UDPSourceConfig{
		Target:  addr,
		Rate:    200,
		MsgType: 1,
		Version: 1,
	}, slog.Default(), log.NewRaw(nil), srcM)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- src.Run(ctx) }()

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(sinkM.FramesReceived.WithLabelValues("udp")) >= 10
	}, 5*time.Second, 20*time.Millisecond)
	assert.Zero(t, testutil.ToFloat64(sinkM.FramesDropped.WithLabelValues("udp", "short")))

	cancel()
	require.NoError(t, <-done)
}
