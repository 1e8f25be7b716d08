package logger_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	logger "github.com/ratmirov/tatami/pkg/logger"
)

func TestLogger(t *testing.T) {
	Convey("Given the global logger", t, func() {
		So(logger.Init(), ShouldBeNil)
		log := logger.Get()

		Convey("Then logging at every level does not panic", func() {
			ctx := context.Background()
			So(func() {
				log.Debug(ctx, "debug", logger.String("k", "v"))
				log.Info(ctx, "info", logger.Int("n", 1))
				log.Warn(ctx, "warn", logger.Bool("flag", true))
				log.Error(ctx, "error", logger.Error(errors.New("boom")))
			}, ShouldNotPanic)
		})

		Convey("Then named sub-loggers work", func() {
			named := log.Named("import")
			So(named, ShouldNotBeNil)
			So(func() { named.Info(context.Background(), "msg") }, ShouldNotPanic)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		Convey("Then known levels parse", func() {
			for _, lvl := range []string{"debug", "info", "WARN", "warning", "error", ""} {
				So(logger.SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("Then unknown levels are rejected", func() {
			So(logger.SetLevelString("loud"), ShouldNotBeNil)
		})
	})
}
