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

// MaxDatagramPayload is the largest frame the UDP source will emit: the usual
// 1500-byte Ethernet MTU minus IP and UDP headers. Larger frames are dropped
// rather than fragmented.
const MaxDatagramPayload = 1472

// UDPSourceConfig configures a UDP source engine. Bind optionally pins the
// local address; empty or 0.0.0.0 leaves the choice to the kernel.
type UDPSourceConfig struct {
	Target     string
	Bind       string
	Rate       int
	MsgType    uint8
	Version    uint8
	PayloadPad int
}

// UDPSource emits generated frames as datagrams at a fixed rate. There is no
// connection state to recover: send failures and oversized frames are counted
// and the sequence number advances every tick regardless.
type UDPSource struct {
	cfg     UDPSourceConfig
	logger  *slog.Logger
	raw     log.RawLogger
	metrics *metrics.Set

	seq uint32
}

func NewUDPSource(cfg UDPSourceConfig, logger *slog.Logger, raw log.RawLogger, m *metrics.Set) *UDPSource {
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	return &UDPSource{cfg: cfg, logger: logger, raw: raw, metrics: m}
}

func (s *UDPSource) Name() string { return "udp-source" }

// Run resolves the target once and sends frames until ctx is canceled.
func (s *UDPSource) Run(ctx context.Context) error {
	raddr, err := net.ResolveUDPAddr("udp", s.cfg.Target)
	if err != nil {
		return fmt.Errorf("resolve target: %w", err)
	}
	var laddr *net.UDPAddr
	if s.cfg.Bind != "" && s.cfg.Bind != "0.0.0.0" {
		laddr, err = net.ResolveUDPAddr("udp", net.JoinHostPort(s.cfg.Bind, "0"))
		if err != nil {
			return fmt.Errorf("resolve bind: %w", err)
		}
	}
	conn, err := net.DialUDP("udp", laddr, raddr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	peer := raddr.String()
	s.logger.Info("UDP source sending", "target", peer, "rate", s.cfg.Rate)

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
		if len(frame) > MaxDatagramPayload {
			s.logger.Warn("frame exceeds max datagram size, dropping", "bytes", len(frame), "seq", s.seq)
			s.metrics.FramesDropped.WithLabelValues("udp", "oversize").Inc()
		} else if _, err := conn.Write(frame); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Warn("send failed", "seq", s.seq, "error", err)
			s.metrics.FrameErrors.WithLabelValues("udp", "send").Inc()
		} else {
			s.raw.Frame(log.DirSend, peer, frame)
			s.metrics.FramesSent.WithLabelValues("udp").Inc()
			s.logger.Log(ctx, log.LevelTrace, "frame sent", "seq", s.seq, "bytes", len(frame))
		}
		s.seq++
	}
}
