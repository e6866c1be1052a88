// Package config defines the rating tool configuration and its loading hooks.
//
// Conventions:
//   - New() returns a Config populated with defaults.
//   - Load(ctx) layers .env, an optional YAML file and ELO_* env vars on top.
//   - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"strings"

	"github.com/okian/elo/pkg/elo"
	"github.com/okian/elo/pkg/logger"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// DefaultCategory applies to games whose category is not given.
	DefaultCategory string `koanf:"default_category"`

	// MetricsTextfile, when set, receives the Prometheus exposition text
	// after every command.
	MetricsTextfile string `koanf:"metrics_textfile"`

	// MetricsNamespace prefixes every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        logger.FormatText,
		DefaultCategory:  string(elo.Standard),
		MetricsTextfile:  "",
		MetricsNamespace: "elo",
	}
}

// Category returns the parsed default category.
func (c *Config) Category() (elo.Category, error) {
	return elo.ParseCategory(c.DefaultCategory)
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if _, err := c.Category(); err != nil {
		return fmt.Errorf("%w: default_category: %w", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case logger.FormatText, logger.FormatJSON:
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.MetricsNamespace == "" {
		return fmt.Errorf("%w: metrics_namespace must not be empty", ErrInvalidConfig)
	}
	return nil
}
