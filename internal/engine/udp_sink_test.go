package engine_test

import (
	"context"
	"log/slog"
	"net"
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
	"github.com/padprobe/padprobe/pkg/synth"
	"github.com/padprobe/padprobe/pkg/wire"
)

func startUDPSink(t *testing.T) (addr string, m *metrics.Set, shutdown func()) {
	t.Helper()
	addr = th.FreeUDPAddr(t)
	m = metrics.New(prometheus.NewRegistry())
	sink := engine.NewUDPSink(engine.UDPSinkConfig{Addr: addr}, slog.Default(), log.NewRaw(nil), m)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sink.Run(ctx) }()

	// The sink binds asynchronously; wait until it holds the port.
	require.Eventually(t, func() bool {
		pc, err := net.ListenPacket("udp", addr)
		if err != nil {
			return true
		}
		_ = pc.Close()
		return false
	}, 2*time.Second, 10*time.Millisecond)

	shutdown = func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("sink did not stop")
		}
	}
	return addr, m, shutdown
}

func TestUDPSinkCountsValidFrames(t *testing.T) {
	addr, m, shutdown := startUDPSink(t)
	defer shutdown()

	conn, err := net.Dial("udp", addr)
	require.NoError(t, err)
	defer conn.Close()

	for seq := uint32(0); seq < 3; seq++ {
		_, err := conn.Write(th.StateFrame(t, seq))
		require.NoError(t, err)
	}
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.FramesReceived.WithLabelValues("udp")) == 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUDPSinkDropsMalformedDatagrams(t *testing.T) {
	addr, m, shutdown := startUDPSink(t)
	defer shutdown()

	conn, err := net.Dial("udp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte{0x01, 0x02, 0x03})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.FramesDropped.WithLabelValues("udp", "short")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	env := wire.Envelope{MsgType: 1, Version: 1, Length: 0, Seq: 1}
	hdr, err := env.MarshalBinary()
	require.NoError(t, err)
	_, err = conn.Write(hdr)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.FramesDropped.WithLabelValues("udp", "invalid_length")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	full := th.FrameBytes(t, 2, make([]byte, wire.GamepadStateSize))
	_, err = conn.Write(full[:wire.EnvelopeSize+10])
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.FramesDropped.WithLabelValues("udp", "truncated")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// The socket is still alive for well-formed traffic.
	_, err = conn.Write(th.StateFrame(t, 3))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.FramesReceived.WithLabelValues("udp")) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUDPSinkSizeMismatchAndDecodeErrors(t *testing.T) {
	addr, m, shutdown := startUDPSink(t)
	defer shutdown()

	conn, err := net.Dial("udp", addr)
	require.NoError(t, err)
	defer conn.Close()

	// Payload longer than a state: mismatch warning, frame still decodes.
	st := synth.State(5)
	payload, err := st.MarshalBinary()
	require.NoError(t, err)
	_, err = conn.Write(th.FrameBytes(t, 5, append(payload, 0, 0, 0, 0)))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.FramesReceived.WithLabelValues("udp")) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FrameErrors.WithLabelValues("udp", "size_mismatch")))

	// Payload shorter than a state: decode failure, nothing counted as received.
	_, err = conn.Write(th.FrameBytes(t, 6, make([]byte, 10)))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.FrameErrors.WithLabelValues("udp", "decode")) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FramesReceived.WithLabelValues("udp")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FrameErrors.WithLabelValues("udp", "size_mismatch")))
}
