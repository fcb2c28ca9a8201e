package config

import (
	"os"
	"path/filepath"
)

const appName = "launchdash"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

// DefaultCacheDir returns the directory for downloaded datasets.
func DefaultCacheDir() string {
	return filepath.Join(XDGDataHome(), appName, "cache")
}

// DefaultDBPath returns the default output path for imported datasets.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appName, "launches.db")
}
