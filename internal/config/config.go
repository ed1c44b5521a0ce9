// Package config holds retenet's process-wide settings: the
// duplication policy default, the garbage-collection pass interval,
// the oversize-beta-memory diagnostic threshold, and the developer-mode
// toggle that gates the §6 dev commands. Adapted from the teacher's
// internal/config/config.go (DefaultConfig/Load/Save/env-override
// shape), trimmed to the handful of settings this engine actually has
// — retenet has no LLM provider, shard, or embedding configuration to
// carry.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds every process-wide tunable.
type Settings struct {
	// Duplication, when true, disables the duplicate-fact short-circuit
	// (spec.md §4.4): every assertion installs a new fact even if one
	// with an identical template/slot tuple already exists.
	Duplication bool `yaml:"duplication"`

	// OversizeBetaThreshold is the entry count above which
	// beta.Network.Oversize flags a join's memory for the diagnostic
	// inspector (spec.md §4.6, §9 Open Question: left configurable
	// rather than the teacher's fixed constant — see DESIGN.md).
	OversizeBetaThreshold int `yaml:"oversize_beta_threshold"`

	// GCInterval is the period between automatic gc.Queue sweeps, as a
	// Go duration string (e.g. "5s").
	GCInterval string `yaml:"gc_interval"`

	// DeveloperMode gates the §6 dev commands (show-fpn, show-fht,
	// validate-fact-integrity, primitives-info/usage). It does not change
	// the log level.
	DeveloperMode bool `yaml:"developer_mode"`

	Logging LoggingConfig `yaml:"logging"`
}

// DefaultSettings returns retenet's out-of-the-box configuration.
func DefaultSettings() *Settings {
	return &Settings{
		Duplication:           false,
		OversizeBetaThreshold: 10000,
		GCInterval:            "5s",
		DeveloperMode:         false,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads settings from a YAML file at path, falling back to
// DefaultSettings if the file does not exist. Environment variables
// always take precedence over either source.
func Load(path string) (*Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.applyEnvOverrides()
			return s, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	s.applyEnvOverrides()
	return s, nil
}

// Save writes s to path as YAML, creating parent directories as
// needed.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir %s: %w", filepath.Dir(path), err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Settings) applyEnvOverrides() {
	if v := os.Getenv("RETENET_DEVELOPER_MODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			s.DeveloperMode = b
		}
	}
	if v := os.Getenv("RETENET_DUPLICATION"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			s.Duplication = b
		}
	}
	if v := os.Getenv("RETENET_LOG_LEVEL"); v != "" {
		s.Logging.Level = v
	}
	if v := os.Getenv("RETENET_GC_INTERVAL"); v != "" {
		s.GCInterval = v
	}
}

// GCIntervalDuration parses GCInterval, falling back to 5s on a
// malformed value rather than failing construction over it.
func (s *Settings) GCIntervalDuration() time.Duration {
	d, err := time.ParseDuration(s.GCInterval)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// Validate reports a configuration error for values that would make
// the engine misbehave (negative thresholds, nonsensical intervals).
func (s *Settings) Validate() error {
	if s.OversizeBetaThreshold < 1 {
		return fmt.Errorf("config: oversize_beta_threshold must be >= 1")
	}
	if _, err := time.ParseDuration(s.GCInterval); err != nil {
		return fmt.Errorf("config: gc_interval: %w", err)
	}
	return nil
}
