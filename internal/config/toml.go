// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Data    DataConfig    `toml:"data"`
	Serve   ServeConfig   `toml:"serve"`
	Summary SummaryConfig `toml:"summary"`
}

// DataConfig selects the dataset source.
type DataConfig struct {
	// Source is a CSV or SQLite path, or an http(s) URL.
	Source *string `toml:"source"`
}

// ServeConfig maps web server settings.
type ServeConfig struct {
	Addr *string `toml:"addr"`
}

// SummaryConfig maps summary command settings.
type SummaryConfig struct {
	Format *string `toml:"format"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Template is written when the config command creates a new file.
const Template = `# launchdash configuration

[data]
# CSV or SQLite path, or an http(s) URL.
# source = "spacex_launch_dash.csv"

[serve]
# addr = "127.0.0.1:8050"

[summary]
# format = "text"
`
