package cmd

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/padprobe/padprobe/internal/engine"
	"github.com/padprobe/padprobe/internal/log"
)

// Sink listens for frames on the selected transports and validates them.
type Sink struct {
	Mode        string        `help:"Transport to run: tcp, udp, or both" enum:"tcp,udp,both" default:"tcp" env:"PADPROBE_MODE"`
	Bind        string        `help:"Address to listen on" default:"0.0.0.0" env:"PADPROBE_BIND"`
	Port        int           `help:"Port to listen on" default:"26543" env:"PADPROBE_PORT"`
	ReadTimeout time.Duration `help:"Per-read timeout for TCP connections" default:"10s" env:"PADPROBE_READ_TIMEOUT"`
}

// Run is called by Kong when the sink command is executed.
func (s *Sink) Run(logger *slog.Logger, rawLogger log.RawLogger, mc Metrics) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := net.JoinHostPort(s.Bind, strconv.Itoa(s.Port))
	m := mc.setup(ctx, logger)

	var engines []engine.Engine
	if s.Mode == "tcp" || s.Mode == "both" {
		engines = append(engines, engine.NewTCPSink(engine.TCPSinkConfig{
			Addr:        addr,
			ReadTimeout: s.ReadTimeout,
		}, logger, rawLogger, m))
	}
	if s.Mode == "udp" || s.Mode == "both" {
		engines = append(engines, engine.NewUDPSink(engine.UDPSinkConfig{
			Addr: addr,
		}, logger, rawLogger, m))
	}

	logger.Info("Starting padprobe sink", "mode", s.Mode, "addr", addr)
	return engine.Run(ctx, logger, engines...)
}
