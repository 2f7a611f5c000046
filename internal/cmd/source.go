package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/padprobe/padprobe/internal/engine"
	"github.com/padprobe/padprobe/internal/log"
	"github.com/padprobe/padprobe/pkg/wire"
)

// Source generates synthetic frames and streams them to a target.
type Source struct {
	Mode         string        `help:"Transport to run: tcp, udp, or both" enum:"tcp,udp,both" default:"tcp" env:"PADPROBE_MODE"`
	Target       string        `help:"host:port to send frames to" required:"" env:"PADPROBE_TARGET"`
	Bind         string        `help:"Local address for the UDP sender (default: kernel chooses)" env:"PADPROBE_BIND"`
	Rate         int           `help:"Send rate in frames per second" default:"120" env:"PADPROBE_RATE"`
	MsgType      uint8         `help:"Envelope msg_type value to stamp on frames" default:"1" env:"PADPROBE_MSG_TYPE"`
	Version      uint8         `help:"Envelope version value to stamp on frames" default:"1" env:"PADPROBE_VERSION"`
	Pad          int           `help:"Extra zero bytes appended to each payload" default:"0" env:"PADPROBE_PAD"`
	DialTimeout  time.Duration `help:"TCP dial timeout" default:"5s" env:"PADPROBE_DIAL_TIMEOUT"`
	WriteTimeout time.Duration `help:"TCP write timeout" default:"5s" env:"PADPROBE_WRITE_TIMEOUT"`
}

// Validate is called by Kong after parsing.
func (s *Source) Validate() error {
	if s.Rate < 1 || s.Rate > 10000 {
		return fmt.Errorf("rate must be between 1 and 10000, got %d", s.Rate)
	}
	const maxPad = 65535 - wire.GamepadStateSize
	if s.Pad < 0 || s.Pad > maxPad {
		return fmt.Errorf("pad must be between 0 and %d, got %d", maxPad, s.Pad)
	}
	return nil
}

// Run is called by Kong when the source command is executed.
func (s *Source) Run(logger *slog.Logger, rawLogger log.RawLogger, mc Metrics) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := mc.setup(ctx, logger)

	var engines []engine.Engine
	if s.Mode == "tcp" || s.Mode == "both" {
		engines = append(engines, engine.NewTCPSource(engine.TCPSourceConfig{
			Target:       s.Target,
			Rate:         s.Rate,
			MsgType:      s.MsgType,
			Version:      s.Version,
			PayloadPad:   s.Pad,
			DialTimeout:  s.DialTimeout,
			WriteTimeout: s.WriteTimeout,
		}, logger, rawLogger, m))
	}
	if s.Mode == "udp" || s.Mode == "both" {
		engines = append(engines, engine.NewUDPSource(engine.UDPSourceConfig{
			Target:     s.Target,
			Bind:       s.Bind,
			Rate:       s.Rate,
			MsgType:    s.MsgType,
			Version:    s.Version,
			PayloadPad: s.Pad,
		}, logger, rawLogger, m))
	}

	logger.Info("Starting padprobe source", "mode", s.Mode, "target", s.Target, "rate", s.Rate)
	return engine.Run(ctx, logger, engines...)
}
