// Package config defines the mgi configuration and its loading.
//
// Values are layered, lowest precedence first: defaults from New, an optional
// YAML file named by MGI_CONFIG, MGI_* environment variables, and finally
// command-line flags applied by the cmd package.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pable/go-lol-mgi/internal/engine"
	"github.com/pable/go-lol-mgi/internal/gravity"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is "console" or "json".
	LogFormat string `koanf:"log_format"`

	// DataDir holds raw/series_<id> inputs and derived/series_<id> outputs.
	DataDir string `koanf:"data_dir"`
	// DBPath is the SQLite database storing analyses.
	DBPath string `koanf:"db_path"`

	GridAPIKey            string  `koanf:"grid_api_key"`
	GridCentralDataURL    string  `koanf:"grid_central_data_url"`
	GridFileDownloadURL   string  `koanf:"grid_file_download_url"`
	GridRequestsPerSecond float64 `koanf:"grid_requests_per_second"`

	FightGapSeconds                int `koanf:"fight_gap_seconds"`
	ObjectiveAnswerWindowSeconds   int `koanf:"objective_answer_window_seconds"`
	PressureObjectiveWindowSeconds int `koanf:"pressure_objective_window_seconds"`
	ContextObjectiveWindowSeconds  int `koanf:"context_objective_window_seconds"`
	Top                            int `koanf:"top"`

	AnthropicModel string `koanf:"anthropic_model"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "console",
		DataDir:   "data",
		DBPath:    filepath.Join(userHome(), ".mgi", "mgi.db"),

		GridCentralDataURL:    "https://api-op.grid.gg/central-data/graphql",
		GridFileDownloadURL:   "https://api.grid.gg/",
		GridRequestsPerSecond: 2,

		FightGapSeconds:                engine.DefaultFightGapSeconds,
		ObjectiveAnswerWindowSeconds:   engine.DefaultAnswerWindowSeconds,
		PressureObjectiveWindowSeconds: engine.DefaultPressureWindowSeconds,
		ContextObjectiveWindowSeconds:  engine.DefaultContextWindowSeconds,
		Top:                            engine.DefaultTop,

		AnthropicModel: "claude-haiku-4-5-20251001",
	}
}

// EngineParams converts the window settings into pipeline parameters.
func (c *Config) EngineParams() engine.Params {
	return engine.Params{
		FightGap:       seconds(c.FightGapSeconds),
		AnswerWindow:   seconds(c.ObjectiveAnswerWindowSeconds),
		PressureWindow: seconds(c.PressureObjectiveWindowSeconds),
		ContextWindow:  seconds(c.ContextObjectiveWindowSeconds),
		Top:            c.Top,
		Gravity:        gravity.DefaultParams(),
	}
}

// RawDir returns the raw input directory of a series.
func (c *Config) RawDir(seriesID string) string {
	return filepath.Join(c.DataDir, "raw", "series_"+seriesID)
}

// DerivedDir returns the output directory of a series.
func (c *Config) DerivedDir(seriesID string) string {
	return filepath.Join(c.DataDir, "derived", "series_"+seriesID)
}

// RequireGridKey resolves the GRID API key. Besides the layered config it
// honours the bare GRID_API_KEY variable and ~/.mgi/grid_api_key.
func (c *Config) RequireGridKey() (string, error) {
	if c.GridAPIKey != "" {
		return c.GridAPIKey, nil
	}
	if v := strings.TrimSpace(os.Getenv("GRID_API_KEY")); v != "" {
		c.GridAPIKey = v
		return v, nil
	}
	data, err := os.ReadFile(filepath.Join(userHome(), ".mgi", "grid_api_key"))
	if err == nil {
		if v := strings.TrimSpace(string(data)); v != "" {
			c.GridAPIKey = v
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: GRID API key not found: set MGI_GRID_API_KEY, GRID_API_KEY or create ~/.mgi/grid_api_key", ErrInvalidConfig)
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
