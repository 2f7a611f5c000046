package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Defaults prints a starting configuration file with every option at its
// default value, ready to drop into the user config directory.
type Defaults struct {
	Format string `help:"Output format: yaml, toml, or json" enum:"yaml,toml,json" default:"yaml"`
}

// Run is called by Kong when the defaults command is executed.
func (d *Defaults) Run() error {
	out, err := d.Render()
	if err != nil {
		return fmt.Errorf("render defaults: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}

// Render returns the defaults document in the selected format. Each format
// follows the layout its config loader resolves: YAML and TOML nest options
// under one section per command, JSON is flat.
func (d *Defaults) Render() ([]byte, error) {
	switch d.Format {
	case "json":
		b, err := json.MarshalIndent(jsonTree(), "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case "toml":
		t, err := toml.TreeFromMap(defaultTree())
		if err != nil {
			return nil, err
		}
		s, err := t.ToTomlString()
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	default:
		return yaml.Marshal(defaultTree())
	}
}

// defaultTree lays out every option at its default the way the YAML and TOML
// loaders resolve them: the log/metrics groups for the global flags, one
// section per command for the rest.
func defaultTree() map[string]any {
	return map[string]any{
		"log": map[string]any{
			"level":    "info",
			"file":     "",
			"raw-file": "",
		},
		"metrics": map[string]any{
			"addr": "",
		},
		"sink": map[string]any{
			"mode":         "tcp",
			"bind":         "0.0.0.0",
			"port":         26543,
			"read-timeout": "10s",
		},
		"source": map[string]any{
			"mode":          "tcp",
			"target":        "",
			"bind":          "",
			"rate":          120,
			"msg-type":      1,
			"version":       1,
			"pad":           0,
			"dial-timeout":  "5s",
			"write-timeout": "5s",
		},
	}
}

// jsonTree lays out the same defaults for the JSON loader, which matches
// bare flag names (hyphens as underscores) with no command scoping. mode and
// bind exist on both commands and get a single shared entry; a 0.0.0.0 bind
// means "listen everywhere" to the sink and "no local bind" to the source.
func jsonTree() map[string]any {
	return map[string]any{
		"log": map[string]any{
			"level":    "info",
			"file":     "",
			"raw_file": "",
		},
		"metrics": map[string]any{
			"addr": "",
		},
		"mode":          "tcp",
		"bind":          "0.0.0.0",
		"port":          26543,
		"read_timeout":  "10s",
		"target":        "",
		"rate":          120,
		"msg_type":      1,
		"version":       1,
		"pad":           0,
		"dial_timeout":  "5s",
		"write_timeout": "5s",
	}
}
