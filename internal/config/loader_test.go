package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/elo/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("ELO_LOG_LEVEL", "debug")
			_ = os.Setenv("ELO_LOG_FORMAT", "json")
			_ = os.Setenv("ELO_DEFAULT_CATEGORY", "rapid")
			_ = os.Setenv("ELO_METRICS_TEXTFILE", "/tmp/elo.prom")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.DefaultCategory, convey.ShouldEqual, "rapid")
				convey.So(cfg.MetricsTextfile, convey.ShouldEqual, "/tmp/elo.prom")
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "elo")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			path := writeTemp(t, "elo.yaml", `
log_level: warn
default_category: blitz
metrics_namespace: club
`)
			_ = os.Setenv("ELO_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
				convey.So(cfg.DefaultCategory, convey.ShouldEqual, "blitz")
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "club")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			path := writeTemp(t, "elo.yaml", `
log_level: warn
default_category: blitz
`)
			_ = os.Setenv("ELO_CONFIG", path)
			_ = os.Setenv("ELO_DEFAULT_CATEGORY", "standard")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
				convey.So(cfg.DefaultCategory, convey.ShouldEqual, "standard")
			})
		})

		convey.Convey("When loading config with a dotenv file", func() {
			path := writeTemp(t, "elo.env", "ELO_DEFAULT_CATEGORY=rapid\nELO_LOG_LEVEL=error\n")
			_ = os.Setenv("ELO_ENV_FILE", path)
			_ = os.Setenv("ELO_LOG_LEVEL", "debug")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it fills unset variables only", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DefaultCategory, convey.ShouldEqual, "rapid")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When the dotenv file is unreadable", func() {
			_ = os.Setenv("ELO_ENV_FILE", t.TempDir())

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			path := writeTemp(t, "bad.yaml", `invalid: yaml: content: [`)
			_ = os.Setenv("ELO_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("ELO_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown category", func() {
			_ = os.Setenv("ELO_DEFAULT_CATEGORY", "bullet")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "bullet")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with YAML file containing comments", func() {
			path := writeTemp(t, "elo.yaml", `
# This is a comment
log_format: json  # Inline comment
`)
			_ = os.Setenv("ELO_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should parse YAML with comments", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"ELO_CONFIG",
		"ELO_ENV_FILE",
		"ELO_LOG_LEVEL",
		"ELO_LOG_FORMAT",
		"ELO_DEFAULT_CATEGORY",
		"ELO_METRICS_TEXTFILE",
		"ELO_METRICS_NAMESPACE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
