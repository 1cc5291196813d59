// Package config defines the psenrich configuration and its layered loader.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/psenrich/ai"
	"github.com/poiesic/psenrich/enrichment"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DBPath is the badger directory holding enriched records.
	DBPath string `koanf:"db_path"`

	// Catalog is the default candidate file for run and one.
	Catalog string `koanf:"catalog"`

	// Report, when set, receives the JSON run summary.
	Report string `koanf:"report"`

	// Pacing is the delay between consecutive batch items.
	Pacing time.Duration `koanf:"pacing"`

	// CallTimeout bounds a single analysis call. Zero disables it.
	CallTimeout time.Duration `koanf:"call_timeout"`

	AIProvider          string `koanf:"ai_provider"`
	AIHost              string `koanf:"ai_host"`
	AIModel             string `koanf:"ai_model"`
	AIAPIKey            string `koanf:"ai_api_key"`
	AIMaxAttempts       int    `koanf:"ai_max_attempts"`
	AIRequestsPerMinute int    `koanf:"ai_requests_per_minute"`
}

// New returns a Config populated with defaults.
func New() *Config {
	def := ai.DefaultConfig()
	return &Config{
		LogLevel:            "info",
		DBPath:              "psenrich.db",
		Pacing:              enrichment.DefaultPacing,
		CallTimeout:         enrichment.DefaultCallTimeout,
		AIProvider:          def.Provider,
		AIHost:              def.Host,
		AIModel:             def.Model,
		AIMaxAttempts:       def.MaxAttempts,
		AIRequestsPerMinute: def.RequestsPerMinute,
	}
}

// ToAIConfig builds the analyzer configuration.
func (c *Config) ToAIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithProvider(c.AIProvider),
		ai.WithHost(c.AIHost),
		ai.WithModel(c.AIModel),
		ai.WithAPIKey(c.AIAPIKey),
		ai.WithMaxAttempts(c.AIMaxAttempts),
		ai.WithRequestsPerMinute(c.AIRequestsPerMinute),
	)
}

// SlogLevel maps LogLevel to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	return ParseLevel(c.LogLevel)
}

// ParseLevel maps debug, info, warn or error to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, s)
	}
}

// Validate checks the configuration, including the AI settings.
func (c *Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	}
	if c.Pacing < 0 {
		return fmt.Errorf("%w: pacing cannot be negative", ErrInvalidConfig)
	}
	if c.CallTimeout < 0 {
		return fmt.Errorf("%w: call_timeout cannot be negative", ErrInvalidConfig)
	}
	if err := c.ToAIConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
