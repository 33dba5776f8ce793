// Package config loads the client's optional YAML configuration file
// (SPEC_FULL.md section A, "Configuration"): a handful of non-binding knobs
// — region path override, attach retry interval, whether the background
// heap tracker runs, and the zap log level. None of these may ever touch a
// wire-format binding constant (internal/wire's Magic/ProtocolVersion/
// NumEntries/...); those stay compile-time constants on purpose, since they
// must match an independent out-of-process reader built against the same
// protocol version.
//
// Loading is modeled on dsmmcken-dh-cli's internal/config package (its
// Load/DefaultX/EnsureDir shape) swapped from TOML to YAML, since
// sakateka-yanet2 in the retrieved pack reaches for gopkg.in/yaml.v3 rather
// than github.com/pelletier/go-toml/v2 for this kind of small settings file.
//
// © 2026 temporal-lens authors. MIT License.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every ambient (non-wire-binding) knob a deployment may want
// to override.
type Config struct {
	// RegionPath, if set, overrides the well-known shared-region path
	// (normally resolved by internal/shmbacking.Path). Intended for
	// sandboxes/containers where the default per-user data directory isn't
	// writable or shared between the client and collector processes.
	RegionPath string `yaml:"region_path,omitempty"`

	// AttachRetrySeconds overrides how often a failed attach attempt may be
	// retried. Zero (the zero value) means "use the built-in default"
	// (internal/wire.AttachRetryIntervalSeconds); this is purely a local
	// throttle, not part of the wire protocol.
	AttachRetrySeconds int `yaml:"attach_retry_seconds,omitempty"`

	// HeapTrackerEnabled toggles the runtime/metrics-sampling background
	// goroutine described in SPEC_FULL.md's "Go-native redesign" section.
	// Defaults to true; set false to opt out entirely.
	HeapTrackerEnabled *bool `yaml:"heap_tracker_enabled,omitempty"`

	// LogLevel is a zap level name ("debug", "info", "warn", "error"). It is
	// parsed and returned as-is; nothing in this module builds a logger from
	// it.
	LogLevel string `yaml:"log_level,omitempty"`
}

// AttachRetryInterval returns AttachRetrySeconds as a time.Duration, or
// fallback if unset.
func (c *Config) AttachRetryInterval(fallback time.Duration) time.Duration {
	if c == nil || c.AttachRetrySeconds <= 0 {
		return fallback
	}
	return time.Duration(c.AttachRetrySeconds) * time.Second
}

// HeapTrackerWanted reports whether the heap tracker should start,
// defaulting to true when unset.
func (c *Config) HeapTrackerWanted() bool {
	if c == nil || c.HeapTrackerEnabled == nil {
		return true
	}
	return *c.HeapTrackerEnabled
}

// dirOverride lets tests (and embedders that also manage their own config
// directory layout) redirect DefaultPath without touching environment
// variables.
var dirOverride string

// SetDirOverride sets the directory DefaultPath resolves config.yaml
// relative to. Empty restores the default resolution via os.UserConfigDir.
func SetDirOverride(dir string) { dirOverride = dir }

// DefaultPath returns <user-config-dir>/temporal-lens/config.yaml, or
// <dirOverride>/config.yaml if SetDirOverride was called.
func DefaultPath() (string, error) {
	if dirOverride != "" {
		return filepath.Join(dirOverride, "config.yaml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "temporal-lens", "config.yaml"), nil
}

// Load reads and parses the config file at path. A missing file is not an
// error: it yields a zero-value Config, i.e. every knob takes its built-in
// default (spec: "the client behaves identically whether or not this file
// exists").
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault loads the config file at DefaultPath, tolerating a missing
// file exactly like Load.
func LoadDefault() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}
