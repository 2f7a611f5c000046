package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/padprobe/padprobe/internal/log"
	"github.com/padprobe/padprobe/internal/metrics"
)

// TCPSourceConfig configures a TCP source engine. Zero values fall back to
// the defaults: 5s dial and write timeouts, 1s initial backoff capped at 10s.
type TCPSourceConfig struct {
	Target         string
	Rate           int
	MsgType        uint8
	Version        uint8
	PayloadPad     int
	DialTimeout    time.Duration
	WriteTimeout   time.Duration
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// TCPSource dials the target and streams generated frames at a fixed rate,
// reconnecting with exponential backoff when the peer is unreachable or a
// write fails. The sequence number advances only on frames the connection
// accepted and survives reconnects, so a sink observes one strictly
// increasing stream per source process.
type TCPSource struct {
	cfg     TCPSourceConfig
	logger  *slog.Logger
	raw     log.RawLogger
	metrics *metrics.Set

	seq uint32
}

func NewTCPSource(cfg TCPSourceConfig, logger *slog.Logger, raw log.RawLogger, m *metrics.Set) *TCPSource {
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if cfg.BackoffInitial <= 0 {
		cfg.BackoffInitial = time.Second
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = 10 * time.Second
	}
	return &TCPSource{cfg: cfg, logger: logger, raw: raw, metrics: m}
}

func (s *TCPSource) Name() string { return "tcp-source" }

// Run connects and streams until ctx is canceled. Each successful connect
// resets the backoff to its initial value.
func (s *TCPSource) Run(ctx context.Context) error {
	backoff := s.cfg.BackoffInitial
	for {
		if ctx.Err() != nil {
			return nil
		}
		s.logger.Info("TCP source connecting", "target", s.cfg.Target)
		d := net.Dialer{Timeout: s.cfg.DialTimeout}
		conn, err := d.DialContext(ctx, "tcp", s.cfg.Target)
		if err == nil {
			s.logger.Info("connected", "target", s.cfg.Target, "rate", s.cfg.Rate)
			backoff = s.cfg.BackoffInitial
			err = s.stream(ctx, conn)
			_ = conn.Close()
		}
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			s.metrics.Reconnects.Inc()
			s.logger.Warn("connect/send error, reconnecting", "error", err, "backoff", backoff)
			if !sleepCtx(ctx, backoff) {
				return nil
			}
			backoff = min(backoff*2, s.cfg.BackoffMax)
		}
	}
}

func (s *TCPSource) stream(ctx context.Context, conn net.Conn) error {
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	peer := conn.RemoteAddr().String()
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.Rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		frame, err := buildFrame(s.seq, s.cfg.MsgType, s.cfg.Version, s.cfg.PayloadPad)
		if err != nil {
			return err
		}
		if s.cfg.WriteTimeout > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		}
		if _, err := conn.Write(frame); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("write seq %d: %w", s.seq, err)
		}
		s.raw.Frame(log.DirSend, peer, frame)
		s.metrics.FramesSent.WithLabelValues("tcp").Inc()
		s.logger.Log(ctx, log.LevelTrace, "frame sent", "seq", s.seq, "bytes", len(frame))
		s.seq++
	}
}
