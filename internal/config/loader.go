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
	envPrefix  = "MGI_"
	envConfig  = "MGI_CONFIG"
	legacyGrid = "GRID_CENTRAL_DATA_URL"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MGI_CONFIG is set
//  3. env (prefix MGI_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// MGI_FIGHT_GAP_SECONDS -> fight_gap_seconds
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "mgi_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// The bare variable predates the MGI_ prefix.
	if !k.Exists("grid_central_data_url") {
		if v := strings.TrimSpace(os.Getenv(legacyGrid)); v != "" {
			cfg.GridCentralDataURL = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings every command depends on. Window sizes are
// deliberately left unchecked.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log_format must be console or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
