package config_test

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/okian/stationkpi/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.DefaultWindow, convey.ShouldEqual, "monthly")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one bad setting each", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = "" }},
			{"zero queue", func(c *config.Config) { c.QueueSize = 0 }},
			{"zero workers", func(c *config.Config) { c.WorkerCount = 0 }},
			{"zero limit", func(c *config.Config) { c.MaxLeaderboardLimit = 0 }},
			{"unknown format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"unknown window", func(c *config.Config) { c.DefaultWindow = "weekly" }},
			{"malformed month", func(c *config.Config) { c.ActiveMonth = "11/2025" }},
		}

		for _, tc := range cases {
			cfg := config.New(context.Background())
			tc.mutate(cfg)

			convey.Convey("Then validation rejects "+tc.name, func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
