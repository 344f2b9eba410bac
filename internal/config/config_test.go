package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/pable/go-lol-mgi/internal/config"
)

var configEnvVars = []string{
	"MGI_CONFIG",
	"MGI_DATA_DIR",
	"MGI_LOG_FORMAT",
	"MGI_FIGHT_GAP_SECONDS",
	"MGI_TOP",
	"MGI_GRID_REQUESTS_PER_SECOND",
	"MGI_GRID_CENTRAL_DATA_URL",
	"MGI_GRID_API_KEY",
	"GRID_CENTRAL_DATA_URL",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DataDir, convey.ShouldEqual, "data")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "console")
				convey.So(cfg.FightGapSeconds, convey.ShouldEqual, 45)
				convey.So(cfg.ObjectiveAnswerWindowSeconds, convey.ShouldEqual, 90)
				convey.So(cfg.PressureObjectiveWindowSeconds, convey.ShouldEqual, 30)
				convey.So(cfg.ContextObjectiveWindowSeconds, convey.ShouldEqual, 90)
				convey.So(cfg.Top, convey.ShouldEqual, 10)
				convey.So(cfg.GridCentralDataURL, convey.ShouldEqual, "https://api-op.grid.gg/central-data/graphql")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars()
			_ = os.Setenv("MGI_DATA_DIR", "/tmp/mgi")
			_ = os.Setenv("MGI_FIGHT_GAP_SECONDS", "30")
			_ = os.Setenv("MGI_TOP", "25")
			_ = os.Setenv("MGI_GRID_REQUESTS_PER_SECOND", "0.5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DataDir, convey.ShouldEqual, "/tmp/mgi")
				convey.So(cfg.FightGapSeconds, convey.ShouldEqual, 30)
				convey.So(cfg.Top, convey.ShouldEqual, 25)
				convey.So(cfg.GridRequestsPerSecond, convey.ShouldEqual, 0.5)
				convey.So(cfg.EngineParams().FightGap, convey.ShouldEqual, 30*time.Second)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			clearConfigEnvVars()
			yamlContent := `
data_dir: "/srv/mgi"
fight_gap_seconds: 60
pressure_objective_window_seconds: 20
log_format: json
`
			path := filepath.Join(t.TempDir(), "mgi.yaml")
			_ = os.WriteFile(path, []byte(yamlContent), 0o644)
			_ = os.Setenv("MGI_CONFIG", path)
			_ = os.Setenv("MGI_FIGHT_GAP_SECONDS", "50")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values apply and env still wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DataDir, convey.ShouldEqual, "/srv/mgi")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.PressureObjectiveWindowSeconds, convey.ShouldEqual, 20)
				convey.So(cfg.FightGapSeconds, convey.ShouldEqual, 50)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			clearConfigEnvVars()
			_ = os.Setenv("MGI_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail with ErrLoadConfig", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the log format is invalid", func() {
			clearConfigEnvVars()
			_ = os.Setenv("MGI_LOG_FORMAT", "xml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail with ErrInvalidConfig", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When only the legacy central data variable is set", func() {
			clearConfigEnvVars()
			_ = os.Setenv("GRID_CENTRAL_DATA_URL", "http://localhost:9999/graphql")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should be honoured", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.GridCentralDataURL, convey.ShouldEqual, "http://localhost:9999/graphql")
			})
		})
	})
}

func TestConfigPaths(t *testing.T) {
	convey.Convey("Given a config with a data dir", t, func() {
		cfg := config.New()
		cfg.DataDir = "data"

		convey.Convey("Then series directories are derived from it", func() {
			convey.So(cfg.RawDir("42"), convey.ShouldEqual, filepath.Join("data", "raw", "series_42"))
			convey.So(cfg.DerivedDir("42"), convey.ShouldEqual, filepath.Join("data", "derived", "series_42"))
		})
	})
}

func TestRequireGridKey(t *testing.T) {
	convey.Convey("Given a config with an explicit GRID key", t, func() {
		cfg := config.New()
		cfg.GridAPIKey = "from-config"

		key, err := cfg.RequireGridKey()

		convey.Convey("Then that key is used", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(key, convey.ShouldEqual, "from-config")
		})
	})

	convey.Convey("Given the bare GRID_API_KEY variable", t, func() {
		t.Setenv("GRID_API_KEY", "from-env")
		cfg := config.New()

		key, err := cfg.RequireGridKey()

		convey.Convey("Then it is used as a fallback", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(key, convey.ShouldEqual, "from-env")
		})
	})

	convey.Convey("Given no key anywhere", t, func() {
		t.Setenv("GRID_API_KEY", "")
		t.Setenv("HOME", t.TempDir())
		cfg := config.New()

		_, err := cfg.RequireGridKey()

		convey.Convey("Then it fails with ErrInvalidConfig", func() {
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
