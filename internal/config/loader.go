package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override, e.g. STATIONKPI_ADDR.
	EnvPrefix = "STATIONKPI_"
	// EnvConfigFile names an optional YAML file loaded before env vars.
	EnvConfigFile = EnvPrefix + "CONFIG"
)

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (New)
//  2. the YAML file named by STATIONKPI_CONFIG, if set
//  3. STATIONKPI_* environment variables
func Load(ctx context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// STATIONKPI_QUEUE_SIZE -> queue_size. Keys are flat, so underscores stay.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := New(ctx)
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
