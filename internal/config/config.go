// Package config loads SIGPesq client configuration from
// ~/.sigpesq/config.yaml with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all SIGPesq client configuration.
type Config struct {
	// API server connection
	API APIConfig `yaml:"api"`

	// Interactive UI settings
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the REST API connection.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// UIConfig configures the terminal interface.
type UIConfig struct {
	DarkMode   bool `yaml:"dark_mode"`
	DebounceMS int  `yaml:"debounce_ms"` // search input quiet window
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	Categories map[string]bool `yaml:"categories"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: "30s",
		},
		UI: UIConfig{
			DarkMode:   false,
			DebounceMS: 300,
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Dir returns the SIGPesq home directory (~/.sigpesq), creating it if needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".sigpesq")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return dir, nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
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

// applyEnvOverrides lets environment variables win over the config file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SIGPESQ_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("SIGPESQ_TIMEOUT"); v != "" {
		c.API.Timeout = v
	}
	if os.Getenv("SIGPESQ_DARK_MODE") == "1" {
		c.UI.DarkMode = true
	}
	if os.Getenv("SIGPESQ_DEBUG") == "1" {
		c.Logging.DebugMode = true
		if c.Logging.Level == "" {
			c.Logging.Level = "debug"
		}
	}
}

// RequestTimeout parses API.Timeout, falling back to 30s on bad input.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Debounce returns the search debounce window.
func (c *Config) Debounce() time.Duration {
	if c.UI.DebounceMS <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(c.UI.DebounceMS) * time.Millisecond
}
