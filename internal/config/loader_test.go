package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/statline/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given no configuration sources", t, func() {
		cfg, err := config.Load(ctx)

		Convey("Then defaults should apply", func() {
			So(err, ShouldBeNil)
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.FeatureSchemaVersion, ShouldEqual, "fs2")
			So(cfg.RollingWindowSizes, ShouldResemble, []int{3, 5, 10})
			So(cfg.MinWindowFraction, ShouldEqual, 0.25)
			So(cfg.OutputDir, ShouldEqual, "datasets")
			So(cfg.CompressionLevel, ShouldEqual, 2)
		})
	})

	Convey("Given environment overrides", t, func() {
		t.Setenv("STATLINE_OUTPUT_DIR", "/tmp/out")
		t.Setenv("STATLINE_FEATURE_SCHEMA_VERSION", "fs1")
		t.Setenv("STATLINE_LOG_LEVEL", "debug")

		cfg, err := config.Load(ctx)

		Convey("Then env values should win over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.OutputDir, ShouldEqual, "/tmp/out")
			So(cfg.FeatureSchemaVersion, ShouldEqual, "fs1")
			So(cfg.LogLevel, ShouldEqual, "debug")
			So(cfg.ShardCount, ShouldEqual, 8)
		})
	})

	Convey("Given a YAML config file", t, func() {
		path := filepath.Join(t.TempDir(), "statline.yaml")
		So(os.WriteFile(path, []byte("worker_count: 3\ncompression_level: 4\n"), 0o644), ShouldBeNil)
		t.Setenv("STATLINE_CONFIG", path)

		Convey("When no env overrides are present", func() {
			cfg, err := config.Load(ctx)

			Convey("Then file values should win over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.WorkerCount, ShouldEqual, 3)
				So(cfg.CompressionLevel, ShouldEqual, 4)
			})
		})

		Convey("When an env override is also present", func() {
			t.Setenv("STATLINE_WORKER_COUNT", "5")
			cfg, err := config.Load(ctx)

			Convey("Then env should win over the file", func() {
				So(err, ShouldBeNil)
				So(cfg.WorkerCount, ShouldEqual, 5)
			})
		})
	})

	Convey("Given invalid configuration", t, func() {
		Convey("When the feature schema version is unknown", func() {
			t.Setenv("STATLINE_FEATURE_SCHEMA_VERSION", "fs99")
			_, err := config.Load(ctx)

			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("When the window fraction is out of range", func() {
			t.Setenv("STATLINE_MIN_WINDOW_FRACTION", "1.5")
			_, err := config.Load(ctx)

			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("When the config file is missing", func() {
			t.Setenv("STATLINE_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
			_, err := config.Load(ctx)

			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})
	})
}
