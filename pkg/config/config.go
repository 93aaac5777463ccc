// Package config loads service configuration from YAML with environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/teampulse/teampulse/pkg/errors"
)

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
	Narration NarrationConfig `yaml:"narration"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig configures the SQLite activity store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures the structured JSONL logger. An empty Dir
// disables file logging entirely.
type LoggingConfig struct {
	Dir      string `yaml:"dir"`
	MinLevel string `yaml:"min_level"`
}

// NarrationConfig configures the optional LLM narration layer.
type NarrationConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"api_key"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
}

// TracingConfig toggles the stdout trace exporter.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:         ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "teampulse.db",
		},
		Logging: LoggingConfig{
			MinLevel: "info",
		},
		Narration: NarrationConfig{
			Provider: "ollama",
			Timeout:  10 * time.Second,
		},
	}
}

// Load builds configuration from defaults, an optional YAML file, and
// environment overrides. An empty path skips the file step.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigLoad, "read config file").
				WithContext("path", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigParse, "parse config file").
				WithContext("path", path)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TEAMPULSE_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("TEAMPULSE_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("TEAMPULSE_LOG_DIR"); v != "" {
		cfg.Logging.Dir = v
	}
	if v := os.Getenv("TEAMPULSE_LOG_LEVEL"); v != "" {
		cfg.Logging.MinLevel = v
	}
	if v := os.Getenv("TEAMPULSE_NARRATION_ENABLED"); v != "" {
		cfg.Narration.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("TEAMPULSE_NARRATION_PROVIDER"); v != "" {
		cfg.Narration.Provider = v
	}
	if v := os.Getenv("TEAMPULSE_NARRATION_MODEL"); v != "" {
		cfg.Narration.Model = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && strings.EqualFold(cfg.Narration.Provider, "openai") {
		cfg.Narration.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && strings.EqualFold(cfg.Narration.Provider, "anthropic") {
		cfg.Narration.APIKey = v
	}
	if v := os.Getenv("TEAMPULSE_TRACING_ENABLED"); v != "" {
		cfg.Tracing.Enabled = v == "true" || v == "1"
	}
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "server address is required")
	}
	if c.Database.Path == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "database path is required")
	}

	switch c.Logging.MinLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("unknown log level %q", c.Logging.MinLevel))
	}

	if c.Narration.Enabled {
		switch strings.ToLower(c.Narration.Provider) {
		case "openai", "anthropic":
			if c.Narration.APIKey == "" {
				return errors.New(errors.ErrCodeConfigInvalid,
					fmt.Sprintf("%s narration requires an API key", c.Narration.Provider))
			}
		case "ollama":
		default:
			return errors.New(errors.ErrCodeConfigInvalid,
				fmt.Sprintf("unknown narration provider %q", c.Narration.Provider))
		}
		if c.Narration.Timeout < 0 {
			return errors.New(errors.ErrCodeConfigInvalid, "narration timeout must not be negative")
		}
	}

	return nil
}
