package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/statline/internal/adapters/cache"
	"github.com/okian/statline/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func vector(entity, version string) model.FeatureVector {
	return model.FeatureVector{
		EntityID:      entity,
		AsOf:          time.Date(2023, time.March, 4, 0, 0, 0, 0, time.UTC),
		SchemaVersion: version,
		Features: map[string]model.Value{
			"points_sma3": model.Number(81),
			"points_cma":  model.InsufficientHistory(),
		},
	}
}

func TestBadgerCache(t *testing.T) {
	Convey("Given an in-memory feature cache", t, func() {
		ctx := context.Background()
		c, err := cache.New(ctx, cache.WithInMemory(true))
		So(err, ShouldBeNil)
		defer c.Close()

		fv := vector("team-a", "fs2")

		Convey("When getting a vector that was never stored", func() {
			_, ok, err := c.Get(ctx, "team-a", "team-b", fv.AsOf, "fs2")

			Convey("Then it should miss without error", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When storing and retrieving a vector", func() {
			So(c.Put(ctx, fv, "team-b"), ShouldBeNil)
			got, ok, err := c.Get(ctx, "team-a", "team-b", fv.AsOf, "fs2")

			Convey("Then the vector should come back intact, markers included", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(got.EntityID, ShouldEqual, "team-a")
				So(got.Features["points_sma3"], ShouldResemble, model.Number(81))
				So(got.Features["points_cma"].Kind, ShouldEqual, model.KindInsufficientHistory)
			})

			Convey("And a different opponent should be a separate entry", func() {
				_, ok, err := c.Get(ctx, "team-a", "team-c", fv.AsOf, "fs2")
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})

			Convey("And a different version should be a separate entry", func() {
				_, ok, err := c.Get(ctx, "team-a", "team-b", fv.AsOf, "fs1")
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When invalidating a feature-schema version", func() {
			other := vector("team-a", "fs1")
			So(c.Put(ctx, fv, "team-b"), ShouldBeNil)
			So(c.Put(ctx, other, "team-b"), ShouldBeNil)
			So(c.Invalidate(ctx, "fs2"), ShouldBeNil)

			Convey("Then fs2 entries should be gone and fs1 entries kept", func() {
				_, ok, err := c.Get(ctx, "team-a", "team-b", fv.AsOf, "fs2")
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)

				_, ok, err = c.Get(ctx, "team-a", "team-b", other.AsOf, "fs1")
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
			})
		})
	})
}
