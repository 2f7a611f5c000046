// Package config defines the CLI structure and configuration for padprobe.
package config

import (
	"github.com/padprobe/padprobe/internal/cmd"
)

type Log struct {
	Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"PADPROBE_LOG_LEVEL"`
	File    string `help:"Log file path (default: none; logs only to console)" env:"PADPROBE_LOG_FILE"`
	RawFile string `help:"Raw frame dump file path (default: none)" env:"PADPROBE_LOG_RAW_FILE"`
}

// CLI is the root command structure for Kong CLI parsing.
type CLI struct {
	Log         `embed:"" prefix:"log."`
	cmd.Metrics `embed:"" prefix:"metrics."`

	Config string `help:"Explicit config file path (json, yaml, or toml)" env:"PADPROBE_CONFIG" type:"path"`

	Sink     cmd.Sink     `cmd:"" help:"Listen for gamepad frames and validate them"`
	Source   cmd.Source   `cmd:"" help:"Generate synthetic gamepad frames and send them"`
	Defaults cmd.Defaults `cmd:"" help:"Print a configuration file with every option at its default"`
}
