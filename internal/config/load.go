package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority over the search locations
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the core cannot run with.
func (c *Config) Validate() error {
	if c.Selection.Subdivisions <= 0 {
		return fmt.Errorf("selection.subdivisions must be positive, got %d", c.Selection.Subdivisions)
	}
	if c.Sphere.Radius <= 0 {
		return fmt.Errorf("sphere.radius must be positive, got %v", c.Sphere.Radius)
	}
	if c.Handoff.RequestTimeout <= 0 {
		return fmt.Errorf("handoff.timeout must be positive, got %v", c.Handoff.RequestTimeout)
	}
	if c.Ingest.MaxReconnectAttempts < 0 {
		return fmt.Errorf("ingest.max_reconnect_attempts must not be negative, got %d", c.Ingest.MaxReconnectAttempts)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "PanoSelect")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "PanoSelect")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "panoselect")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "panoselect")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
