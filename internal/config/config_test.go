package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Data.Source != nil || cfg.Serve.Addr != nil || cfg.Summary.Format != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[data]
source = "launches.csv"

[serve]
addr = ":9000"

[summary]
format = "yaml"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Data.Source == nil || *cfg.Data.Source != "launches.csv" {
		t.Fatalf("data.source = %v", cfg.Data.Source)
	}
	if cfg.Serve.Addr == nil || *cfg.Serve.Addr != ":9000" {
		t.Fatalf("serve.addr = %v", cfg.Serve.Addr)
	}
	if cfg.Summary.Format == nil || *cfg.Summary.Format != "yaml" {
		t.Fatalf("summary.format = %v", cfg.Summary.Format)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[serve]\nport = 80\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(Template), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err != nil {
		t.Fatalf("template does not decode: %v", err)
	}
}

func TestDefaultPathsHonorXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")

	if got, want := DefaultConfigPath(), filepath.Join("/cfg", "launchdash", "config.toml"); got != want {
		t.Fatalf("DefaultConfigPath = %q, want %q", got, want)
	}
	if got, want := DefaultCacheDir(), filepath.Join("/data", "launchdash", "cache"); got != want {
		t.Fatalf("DefaultCacheDir = %q, want %q", got, want)
	}
	if got, want := DefaultDBPath(), filepath.Join("/data", "launchdash", "launches.db"); got != want {
		t.Fatalf("DefaultDBPath = %q, want %q", got, want)
	}
}
