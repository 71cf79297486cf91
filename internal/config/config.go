// Package config defines the service configuration and how it is loaded.
package config

import (
	"context"
	"fmt"
	"runtime"

	"github.com/okian/stationkpi/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log records.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory sample queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ingest workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many sample event ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /competition?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// DatasetPath points at a YAML dataset used to seed participants.
	DatasetPath string `koanf:"dataset_path"`

	// TemplatesPath points at a YAML role catalog. Empty uses the built-in
	// station manager role.
	TemplatesPath string `koanf:"templates_path"`

	// DefaultWindow is the reporting window at startup.
	DefaultWindow string `koanf:"default_window"`

	// ActiveMonth is the month selected at startup, YYYY-MM. Empty picks the
	// latest month present in the dataset.
	ActiveMonth string `koanf:"active_month"`
}

// New returns a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		QueueSize:           10_000,
		WorkerCount:         runtime.NumCPU(),
		DedupeSize:          50_000,
		MaxLeaderboardLimit: 100,
		DefaultWindow:       string(model.Monthly),
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	}
	if c.MaxLeaderboardLimit <= 0 {
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if _, err := model.ParseWindow(c.DefaultWindow); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.ActiveMonth != "" {
		if _, err := model.ParseMonth(c.ActiveMonth); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}
