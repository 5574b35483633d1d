package model_test

import (
	"testing"
	"time"

	"github.com/okian/statline/internal/domain/model"
	"github.com/okian/statline/internal/domain/schema"
	. "github.com/smartystreets/goconvey/convey"
)

func day(n int) time.Time {
	return time.Date(2023, time.January, n, 0, 0, 0, 0, time.UTC)
}

func rec(entity string, ts time.Time, points float64) model.CanonicalRecord {
	return model.CanonicalRecord{
		EntityID:  entity,
		Timestamp: ts,
		Attrs: map[string]model.Value{
			schema.AttrPoints: model.Number(points),
		},
	}
}

func TestTimeline(t *testing.T) {
	Convey("Given records in arbitrary order", t, func() {
		tl := model.NewTimeline("team-a", []model.CanonicalRecord{
			rec("team-a", day(3), 15),
			rec("team-a", day(1), 10),
			rec("team-a", day(2), 20),
		})

		Convey("When reading the records back", func() {
			records := tl.Records()

			Convey("Then they should be sorted ascending by timestamp", func() {
				So(tl.Len(), ShouldEqual, 3)
				So(records[0].Timestamp, ShouldEqual, day(1))
				So(records[1].Timestamp, ShouldEqual, day(2))
				So(records[2].Timestamp, ShouldEqual, day(3))
			})
		})

		Convey("When taking a prefix strictly before a date", func() {
			Convey("Then a same-day record should be excluded", func() {
				prefix := tl.Before(day(3))
				So(len(prefix), ShouldEqual, 2)
				So(prefix[1].Timestamp, ShouldEqual, day(2))
			})

			Convey("And a date before all records should yield nothing", func() {
				So(tl.Before(day(1)), ShouldHaveLength, 0)
			})

			Convey("And a date after all records should yield everything", func() {
				So(tl.Before(day(9)), ShouldHaveLength, 3)
			})
		})
	})
}
