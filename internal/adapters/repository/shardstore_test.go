package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/statline/internal/adapters/repository"
	"github.com/okian/statline/internal/domain/model"
	"github.com/okian/statline/internal/domain/schema"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(entity string, day int) model.CanonicalRecord {
	return model.CanonicalRecord{
		EntityID:  entity,
		Timestamp: time.Date(2023, time.January, day, 0, 0, 0, 0, time.UTC),
		Attrs: map[string]model.Value{
			schema.AttrPoints: model.Number(float64(day)),
		},
	}
}

func TestShardedStore(t *testing.T) {
	Convey("Given a sharded store", t, func() {
		ctx := context.Background()
		store := repository.NewShardedStore(ctx, repository.WithShardCount(4))

		Convey("When adding records before the freeze", func() {
			So(store.Add(ctx, rec("team-a", 3)), ShouldBeNil)
			So(store.Add(ctx, rec("team-a", 1)), ShouldBeNil)
			So(store.Add(ctx, rec("team-b", 2)), ShouldBeNil)

			Convey("Then entities and counts should reflect pending state", func() {
				So(store.Count(ctx), ShouldEqual, 2)
				So(store.Entities(ctx), ShouldResemble, []string{"team-a", "team-b"})
			})

			Convey("And reading a timeline before the freeze should fail", func() {
				_, err := store.Timeline(ctx, "team-a")
				So(errors.Is(err, repository.ErrNotFrozen), ShouldBeTrue)
			})

			Convey("And after freezing", func() {
				store.Freeze(ctx)

				Convey("Then timelines should come back sorted", func() {
					tl, err := store.Timeline(ctx, "team-a")
					So(err, ShouldBeNil)
					So(tl.Len(), ShouldEqual, 2)
					records := tl.Records()
					So(records[0].Timestamp.Before(records[1].Timestamp), ShouldBeTrue)
				})

				Convey("And adding should be refused", func() {
					So(errors.Is(store.Add(ctx, rec("team-c", 4)), repository.ErrFrozen), ShouldBeTrue)
				})

				Convey("And an unknown entity should report not found", func() {
					_, err := store.Timeline(ctx, "team-zz")
					So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				})

				Convey("And freezing again should be a no-op", func() {
					store.Freeze(ctx)
					So(store.Count(ctx), ShouldEqual, 2)
				})
			})
		})

		Convey("When many goroutines add concurrently", func() {
			const entities = 20
			var wg sync.WaitGroup
			for i := 0; i < entities; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					id := fmt.Sprintf("team-%02d", i)
					for d := 1; d <= 5; d++ {
						_ = store.Add(ctx, rec(id, d))
					}
				}(i)
			}
			wg.Wait()
			store.Freeze(ctx)

			Convey("Then every entity should have a full timeline", func() {
				So(store.Count(ctx), ShouldEqual, entities)
				for i := 0; i < entities; i++ {
					tl, err := store.Timeline(ctx, fmt.Sprintf("team-%02d", i))
					So(err, ShouldBeNil)
					So(tl.Len(), ShouldEqual, 5)
				}
			})
		})
	})
}
