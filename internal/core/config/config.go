// Package config handles configuration loading and validation for inkpdf.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration. Every field has a default; the
// config file is optional.
type Config struct {
	// DebounceMS is the quiet window in milliseconds after a filesystem
	// change before the document reloads. Editors save in bursts; one
	// reload per burst.
	DebounceMS int `yaml:"debounce_ms"`

	// RenderHeight is the rasterization target height in pixels.
	RenderHeight int `yaml:"render_height"`

	// Viewer is the command used to open the document externally.
	Viewer string `yaml:"viewer"`

	// LogLevel is the zerolog level name.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		DebounceMS:   2000,
		RenderHeight: 1920,
		Viewer:       defaultViewer(),
		LogLevel:     "info",
	}
}

func defaultViewer() string {
	if runtime.GOOS == "darwin" {
		return "open"
	}
	return "xdg-open"
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "inkpdf", "inkpdf.yml")
}

// Load reads the config file at configPath, falling back to defaults when
// the file does not exist.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Debounce returns the debounce window as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// applyDefaults sets default values for any unset configuration options.
// Zero-valued fields are indistinguishable from absent ones, so an explicit
// 0 or "" in the file also means "use the default".
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.DebounceMS == 0 {
		c.DebounceMS = defaults.DebounceMS
	}
	if c.RenderHeight == 0 {
		c.RenderHeight = defaults.RenderHeight
	}
	if c.Viewer == "" {
		c.Viewer = defaults.Viewer
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
}

// Validate checks that the configuration is valid. It runs after defaulting,
// so zero values are already resolved and only negatives can remain.
func (c *Config) Validate() error {
	if c.DebounceMS < 0 {
		return fmt.Errorf("debounce_ms must not be negative, got %d", c.DebounceMS)
	}
	if c.RenderHeight < 0 {
		return fmt.Errorf("render_height must not be negative, got %d", c.RenderHeight)
	}
	return nil
}
