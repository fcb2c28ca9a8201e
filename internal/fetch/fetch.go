// Package fetch downloads remote datasets into a local cache.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const defaultName = "dataset.csv"

// Download describes a cached dataset file.
type Download struct {
	URL    string
	Path   string
	Cached bool
}

// IsRemote reports whether source names an http(s) URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// CachePath returns the cache file used for rawURL. The name keeps the
// URL's base name, so the file extension still selects the loader.
func CachePath(cacheDir, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid dataset url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("dataset url has no host")
	}
	sum := sha256.Sum256([]byte(rawURL))
	return filepath.Join(cacheDir, hex.EncodeToString(sum[:6])+"-"+baseName(u)), nil
}

func baseName(u *url.URL) string {
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return defaultName
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	return name
}

// Fetch downloads rawURL into cacheDir unless a cached copy exists and
// force is false.
func Fetch(ctx context.Context, rawURL, cacheDir string, force bool) (Download, error) {
	if cacheDir == "" {
		return Download{}, fmt.Errorf("cache directory is required")
	}
	destPath, err := CachePath(cacheDir, rawURL)
	if err != nil {
		return Download{}, err
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return Download{}, fmt.Errorf("failed to create cache dir: %w", err)
	}

	if !force {
		if _, err := os.Stat(destPath); err == nil {
			return Download{URL: rawURL, Path: destPath, Cached: true}, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return Download{}, fmt.Errorf("failed to stat cached dataset: %w", err)
		}
	}

	tmpFile, err := os.CreateTemp(cacheDir, "download-*.tmp")
	if err != nil {
		return Download{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	resp, err := httpRequest(ctx, rawURL)
	if err != nil {
		return Download{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return Download{}, fmt.Errorf("unexpected dataset status: %s", resp.Status)
	}

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return Download{}, fmt.Errorf("failed to download dataset: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return Download{}, fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return Download{}, fmt.Errorf("failed to move dataset into cache: %w", err)
	}
	return Download{URL: rawURL, Path: destPath}, nil
}

func httpRequest(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
