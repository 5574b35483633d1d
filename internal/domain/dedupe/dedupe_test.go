package dedupe_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/okian/statline/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGuard(t *testing.T) {
	Convey("Given a fresh in-memory guard", t, func() {
		ctx := context.Background()
		g := dedupe.NewInMemoryGuard()
		ts := time.Date(2023, time.January, 5, 0, 0, 0, 0, time.UTC)

		Convey("When recording a pair for the first time", func() {
			seen := g.SeenAndRecord(ctx, "team-a", ts)

			Convey("Then it should not be reported as seen", func() {
				So(seen, ShouldBeFalse)
				So(g.Size(), ShouldEqual, 1)
			})

			Convey("And recording it again should report a duplicate", func() {
				So(g.SeenAndRecord(ctx, "team-a", ts), ShouldBeTrue)
				So(g.Size(), ShouldEqual, 1)
			})
		})

		Convey("When recording the same timestamp for another entity", func() {
			g.SeenAndRecord(ctx, "team-a", ts)
			seen := g.SeenAndRecord(ctx, "team-b", ts)

			Convey("Then it should be admitted independently", func() {
				So(seen, ShouldBeFalse)
				So(g.Size(), ShouldEqual, 2)
			})
		})

		Convey("When many goroutines record the same pair", func() {
			const workers = 32
			var wg sync.WaitGroup
			dupes := make(chan bool, workers)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					dupes <- g.SeenAndRecord(ctx, "team-a", ts)
				}()
			}
			wg.Wait()
			close(dupes)

			Convey("Then exactly one should win the insert", func() {
				fresh := 0
				for seen := range dupes {
					if !seen {
						fresh++
					}
				}
				So(fresh, ShouldEqual, 1)
				So(g.Size(), ShouldEqual, 1)
			})
		})
	})
}
