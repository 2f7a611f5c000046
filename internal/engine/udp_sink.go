package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/padprobe/padprobe/internal/log"
	"github.com/padprobe/padprobe/internal/metrics"
	"github.com/padprobe/padprobe/pkg/wire"
)

// UDPSinkConfig configures a UDP sink engine.
type UDPSinkConfig struct {
	Addr string
}

// UDPSink receives datagrams and validates each one independently. Malformed
// datagrams are dropped and counted; the socket stays open no matter what a
// peer sends.
type UDPSink struct {
	cfg     UDPSinkConfig
	logger  *slog.Logger
	raw     log.RawLogger
	metrics *metrics.Set
}

func NewUDPSink(cfg UDPSinkConfig, logger *slog.Logger, raw log.RawLogger, m *metrics.Set) *UDPSink {
	return &UDPSink{cfg: cfg, logger: logger, raw: raw, metrics: m}
}

func (s *UDPSink) Name() string { return "udp-sink" }

// Run binds the configured address and processes datagrams until ctx is
// canceled.
func (s *UDPSink) Run(ctx context.Context) error {
	var lc net.ListenConfig
	pc, err := lc.ListenPacket(ctx, "udp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	stop := context.AfterFunc(ctx, func() { _ = pc.Close() })
	defer stop()
	s.logger.Info("UDP sink listening", "addr", pc.LocalAddr().String())

	buf := make([]byte, 64*1024)
	for {
		n, addr, err := pc.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				s.logger.Info("UDP sink stopped")
				return nil
			}
			s.logger.Error("read failed", "error", err)
			continue
		}
		s.handleDatagram(buf[:n], addr)
	}
}

func (s *UDPSink) handleDatagram(b []byte, addr net.Addr) {
	peer := addr.String()
	logger := s.logger.With("remote", peer)
	s.raw.Frame(log.DirRecv, peer, b)

	env, payload, err := wire.SplitDatagram(b)
	switch {
	case errors.Is(err, wire.ErrMalformedHeader):
		logger.Warn("short datagram", "bytes", len(b))
		s.metrics.FramesDropped.WithLabelValues("udp", "short").Inc()
		return
	case errors.Is(err, wire.ErrInvalidLength):
		logger.Warn("invalid length, dropping datagram", "length", env.Length, "seq", env.Seq)
		s.metrics.FramesDropped.WithLabelValues("udp", "invalid_length").Inc()
		return
	case errors.Is(err, wire.ErrTruncatedPayload):
		logger.Warn("truncated payload", "length", env.Length, "bytes", len(b)-wire.EnvelopeSize, "seq", env.Seq)
		s.metrics.FramesDropped.WithLabelValues("udp", "truncated").Inc()
		return
	case err != nil:
		logger.Error("datagram parse failed", "error", err)
		s.metrics.FramesDropped.WithLabelValues("udp", "parse").Inc()
		return
	}

	if int(env.Length) != wire.GamepadStateSize {
		logger.Warn("length mismatch", "length", env.Length, "want", wire.GamepadStateSize, "seq", env.Seq)
		s.metrics.FrameErrors.WithLabelValues("udp", "size_mismatch").Inc()
	}
	var st wire.GamepadState
	if err := st.UnmarshalBinary(payload); err != nil {
		logger.Error("payload decode failed", "length", env.Length, "seq", env.Seq, "error", err)
		s.metrics.FrameErrors.WithLabelValues("udp", "decode").Inc()
		return
	}
	s.metrics.FramesReceived.WithLabelValues("udp").Inc()
	logger.Debug("frame", "seq", env.Seq, "version", env.Version, "ts_us", env.Timestamp, "state", st)
}
