package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/padprobe/padprobe/internal/log"
	"github.com/padprobe/padprobe/internal/metrics"
	"github.com/padprobe/padprobe/pkg/wire"
)

// TCPSinkConfig configures a TCP sink engine.
type TCPSinkConfig struct {
	Addr        string
	ReadTimeout time.Duration
}

// TCPSink accepts connections and validates every incoming frame. Each
// connection runs in its own goroutine so one misbehaving peer cannot stall
// the others. An envelope declaring an invalid length means the byte stream
// is no longer trustworthy, so that connection is dropped; all other frame
// problems are logged and counted without closing anything.
type TCPSink struct {
	cfg     TCPSinkConfig
	logger  *slog.Logger
	raw     log.RawLogger
	metrics *metrics.Set
}

func NewTCPSink(cfg TCPSinkConfig, logger *slog.Logger, raw log.RawLogger, m *metrics.Set) *TCPSink {
	return &TCPSink{cfg: cfg, logger: logger, raw: raw, metrics: m}
}

func (s *TCPSink) Name() string { return "tcp-sink" }

// Run listens on the configured address and serves connections until ctx is
// canceled.
func (s *TCPSink) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()
	s.logger.Info("TCP sink listening", "addr", ln.Addr().String())

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.logger.Info("TCP sink stopped")
				return nil
			}
			s.logger.Error("accept failed", "error", err)
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

func (s *TCPSink) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	peer := conn.RemoteAddr().String()
	logger := s.logger.With("remote", peer)
	logger.Info("client connected")
	defer logger.Info("client disconnected")
	s.metrics.ActiveConns.Inc()
	defer s.metrics.ActiveConns.Dec()

	hdr := make([]byte, wire.EnvelopeSize)
	payload := make([]byte, wire.MaxFrameLen)
	for {
		if n, err := s.readFull(conn, hdr); err != nil {
			if n > 0 {
				s.raw.Frame(log.DirRecv, peer, hdr[:n])
			}
			s.logReadEnd(ctx, logger, err, "header")
			return
		}
		var env wire.Envelope
		if err := env.UnmarshalBinary(hdr); err != nil {
			logger.Error("header decode failed", "error", err)
			return
		}
		if err := wire.CheckLength(env.Length); err != nil {
			s.raw.Frame(log.DirRecv, peer, hdr)
			logger.Warn("invalid length, dropping connection", "length", env.Length, "seq", env.Seq)
			s.metrics.FramesDropped.WithLabelValues("tcp", "invalid_length").Inc()
			return
		}

		body := payload[:env.Length]
		if n, err := s.readFull(conn, body); err != nil {
			s.raw.Frame(log.DirRecv, peer, hdr, body[:n])
			s.logReadEnd(ctx, logger, err, "payload")
			return
		}
		s.raw.Frame(log.DirRecv, peer, hdr, body)

		if int(env.Length) != wire.GamepadStateSize {
			logger.Warn("length mismatch", "length", env.Length, "want", wire.GamepadStateSize, "seq", env.Seq)
			s.metrics.FrameErrors.WithLabelValues("tcp", "size_mismatch").Inc()
		}
		var st wire.GamepadState
		if err := st.UnmarshalBinary(body); err != nil {
			logger.Error("payload decode failed", "length", env.Length, "seq", env.Seq, "error", err)
			s.metrics.FrameErrors.WithLabelValues("tcp", "decode").Inc()
			continue
		}
		s.metrics.FramesReceived.WithLabelValues("tcp").Inc()
		logger.Debug("frame", "seq", env.Seq, "version", env.Version, "ts_us", env.Timestamp, "state", st)
	}
}

// readFull reports how many bytes arrived so failed reads can still be fed
// to the raw frame dump.
func (s *TCPSink) readFull(conn net.Conn, buf []byte) (int, error) {
	if s.cfg.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	}
	return io.ReadFull(conn, buf)
}

// logReadEnd classifies the error that ended a connection's read loop. A
// clean close at a frame boundary is quiet; everything else warns and counts.
func (s *TCPSink) logReadEnd(ctx context.Context, logger *slog.Logger, err error, stage string) {
	if ctx.Err() != nil {
		return
	}
	var nerr net.Error
	switch {
	case errors.Is(err, io.EOF) && stage == "header":
		logger.Debug("stream closed by peer")
	case errors.As(err, &nerr) && nerr.Timeout():
		logger.Warn("read timeout, dropping connection", "stage", stage, "timeout", s.cfg.ReadTimeout)
		s.metrics.FrameErrors.WithLabelValues("tcp", "timeout").Inc()
	case errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF):
		logger.Warn("partial frame before close", "stage", stage)
		s.metrics.FrameErrors.WithLabelValues("tcp", "partial").Inc()
	case strings.Contains(err.Error(), "connection reset"):
		logger.Warn("peer reset")
		s.metrics.FrameErrors.WithLabelValues("tcp", "reset").Inc()
	default:
		logger.Error("read failed", "stage", stage, "error", err)
		s.metrics.FrameErrors.WithLabelValues("tcp", "read").Inc()
	}
}
