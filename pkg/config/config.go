// Package config handles loading and saving amlv configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/amlv/config.yaml
//   - State:   ~/.local/state/amlv/ (session store)
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ServiceConfig names the aml-monitoring service the console talks to.
type ServiceConfig struct {
	URL     string `yaml:"url,omitempty"`     // e.g. http://localhost:8000/api
	Timeout int    `yaml:"timeout,omitempty"` // seconds, 0 = default
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	CatalogLimit int `yaml:"catalog_limit,omitempty"` // clusters fetched for the list
}

// Config is the top-level configuration for amlv.
type Config struct {
	Service ServiceConfig `yaml:"service,omitempty"`
	UI      UIConfig      `yaml:"ui,omitempty"`
}

// DefaultServiceURL is used when no service is configured.
const DefaultServiceURL = "http://localhost:8000/api"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Service: ServiceConfig{URL: DefaultServiceURL},
		UI:      UIConfig{CatalogLimit: 10},
	}
}

// ConfigDir returns the XDG config directory for amlv.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "amlv")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "amlv")
}

// StateDir returns the XDG state directory for amlv.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "amlv")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "amlv")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Service.URL == "" {
		cfg.Service.URL = DefaultServiceURL
	}
	if cfg.UI.CatalogLimit <= 0 {
		cfg.UI.CatalogLimit = 10
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
