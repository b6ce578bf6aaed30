// Package config loads causeway configuration from YAML with sensible
// defaults and environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all causeway configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Engine tunables for the graph storage and reasoning core.
	Engine EngineConfig `yaml:"engine"`

	// Logging controls the categorized file logger.
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig configures the storage and reasoning engine.
type EngineConfig struct {
	// RadixSortThreshold is the row fan-out at which freeze switches from
	// a comparison sort to a radix sort. 0 keeps the built-in default.
	RadixSortThreshold int `yaml:"radix_sort_threshold"`

	// DefaultThreshold is the decision threshold handed to threshold-based
	// aggregation when a model does not set its own.
	DefaultThreshold float64 `yaml:"default_threshold"`
}

// LoggingConfig configures the categorized file logger. It is read again by
// internal/logging through its own mirror struct to avoid an import cycle.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	JSONFormat bool            `yaml:"json_format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "causeway",
		Version: "0.3.0",
		Engine: EngineConfig{
			RadixSortThreshold: 0, // engine default (128)
			DefaultThreshold:   0.5,
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Path returns the config file location inside a workspace.
func Path(workspace string) string {
	return filepath.Join(workspace, ".causeway", "config.yaml")
}

// Load loads configuration from a YAML file, falling back to defaults when
// the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets environment variables win over file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CAUSEWAY_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = b
		}
	}
	if v := os.Getenv("CAUSEWAY_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CAUSEWAY_RADIX_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Engine.RadixSortThreshold = n
		}
	}
}
