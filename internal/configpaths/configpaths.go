// Package configpaths resolves where padprobe looks for configuration files.
package configpaths

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultConfigDir returns the per-user configuration directory,
// e.g. ~/.config/padprobe on Linux.
func DefaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "padprobe"), nil
}

// ConfigCandidatePaths returns the config files probed at startup, grouped by
// format. Within each group the user config dir comes first and the working
// directory second; an explicit userPath is appended to the group matching
// its extension. Kong gives later sources precedence, so the explicit path
// wins over everything else.
func ConfigCandidatePaths(userPath string) (jsonPaths, yamlPaths, tomlPaths []string) {
	if dir, err := DefaultConfigDir(); err == nil {
		jsonPaths = append(jsonPaths, filepath.Join(dir, "config.json"))
		yamlPaths = append(yamlPaths, filepath.Join(dir, "config.yaml"), filepath.Join(dir, "config.yml"))
		tomlPaths = append(tomlPaths, filepath.Join(dir, "config.toml"))
	}

	jsonPaths = append(jsonPaths, "padprobe.json")
	yamlPaths = append(yamlPaths, "padprobe.yaml", "padprobe.yml")
	tomlPaths = append(tomlPaths, "padprobe.toml")

	if userPath != "" {
		switch strings.ToLower(filepath.Ext(userPath)) {
		case ".json":
			jsonPaths = append(jsonPaths, userPath)
		case ".toml":
			tomlPaths = append(tomlPaths, userPath)
		default:
			yamlPaths = append(yamlPaths, userPath)
		}
	}
	return jsonPaths, yamlPaths, tomlPaths
}
