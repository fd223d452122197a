package config_test

import (
	"testing"
	"time"

	"github.com/okian/blast/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigNew(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.DBPath, convey.ShouldEqual, "blast.db")
			convey.So(cfg.Capacity, convey.ShouldEqual, 5)
			convey.So(cfg.Player, convey.ShouldBeEmpty)
			convey.So(cfg.BusyTimeout(), convey.ShouldEqual, 5*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
