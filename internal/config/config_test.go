package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	config "github.com/ratmirov/tatami/internal/config"
)

func TestDefaults(t *testing.T) {
	Convey("Given a fresh Config", t, func() {
		c := config.New()

		Convey("Then the defaults are sane", func() {
			So(c.LogLevel, ShouldEqual, "info")
			So(c.Addr, ShouldNotBeEmpty)
			So(c.QueueSize, ShouldBeGreaterThan, 0)
			So(c.WorkerCount, ShouldBeGreaterThan, 0)
			So(c.DedupeSize, ShouldBeGreaterThan, 0)
			So(c.MaxRatingLimit, ShouldBeGreaterThan, 0)
			So(c.DefaultAgeCategory, ShouldEqual, "adults")
		})
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given a clean environment", t, func() {
		t.Setenv("TATAMI_CONFIG", "")

		Convey("When loading with no overrides", func() {
			cfg, err := config.Load(ctx)

			Convey("Then the defaults come back", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9090")
			})
		})

		Convey("When environment variables override fields", func() {
			t.Setenv("TATAMI_ADDR", ":7000")
			t.Setenv("TATAMI_QUEUE_SIZE", "123")
			t.Setenv("TATAMI_LOG_LEVEL", "debug")

			cfg, err := config.Load(ctx)

			Convey("Then env wins over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7000")
				So(cfg.QueueSize, ShouldEqual, 123)
				So(cfg.LogLevel, ShouldEqual, "debug")
			})
		})

		Convey("When a config file is provided", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			body := "addr: \":8500\"\nworker_count: 3\n"
			So(os.WriteFile(path, []byte(body), 0o600), ShouldBeNil)
			t.Setenv("TATAMI_CONFIG", path)

			Convey("Then file values override defaults", func() {
				cfg, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8500")
				So(cfg.WorkerCount, ShouldEqual, 3)
			})

			Convey("And env still wins over the file", func() {
				t.Setenv("TATAMI_ADDR", ":8600")
				cfg, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8600")
			})
		})

		Convey("When the config file is missing", func() {
			t.Setenv("TATAMI_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

			_, err := config.Load(ctx)
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})

		Convey("When an override is invalid", func() {
			t.Setenv("TATAMI_WORKER_COUNT", "0")

			_, err := config.Load(ctx)
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
