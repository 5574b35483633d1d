package normalize_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/statline/internal/domain/model"
	"github.com/okian/statline/internal/domain/normalize"
	"github.com/okian/statline/internal/domain/schema"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given a table normalizer", t, func() {
		n := normalize.New()
		ctx := context.Background()
		gameDay := time.Date(2021, time.February, 6, 0, 0, 0, 0, time.UTC)

		Convey("When normalizing a v0 record", func() {
			raw := model.RawRecord{
				EntityID:      "uconn",
				Timestamp:     gameDay,
				SchemaVersion: "v0",
				Attrs: map[string]float64{
					"pts":     78,
					"opp_pts": 60,
					"fgm":     28,
					"fga":     61,
					"ftm":     14,
					"fta":     19,
					"reb":     39,
					"ast":     15,
					"to":      11,
					"stl":     7,
					"blk":     4,
				},
			}
			rec, err := n.Normalize(ctx, raw)

			Convey("Then mapped attributes should carry their values", func() {
				So(err, ShouldBeNil)
				So(rec.EntityID, ShouldEqual, "uconn")
				So(rec.Attrs[schema.AttrPoints], ShouldResemble, model.Number(78))
				So(rec.Attrs[schema.AttrFieldGoalsAttempted], ShouldResemble, model.Number(61))
			})

			Convey("And fields introduced after v0 should be unavailable, not zero", func() {
				So(err, ShouldBeNil)
				So(rec.Attrs[schema.AttrThreePointsMade].Kind, ShouldEqual, model.KindUnavailable)
				So(rec.Attrs[schema.AttrOffensiveRebounds].Kind, ShouldEqual, model.KindUnavailable)
				_, ok := rec.Attrs[schema.AttrThreePointsMade].Float()
				So(ok, ShouldBeFalse)
			})

			Convey("And every canonical attribute should be present", func() {
				So(err, ShouldBeNil)
				So(len(rec.Attrs), ShouldEqual, len(schema.Canonical()))
			})
		})

		Convey("When normalizing a record with an unrecognized schema version", func() {
			raw := model.RawRecord{
				EntityID:      "duke",
				Timestamp:     gameDay,
				SchemaVersion: "v1999",
				Attrs:         map[string]float64{"pts": 70},
			}
			_, err := n.Normalize(ctx, raw)

			Convey("Then it should reject with a schema error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, normalize.ErrUnknownSchema), ShouldBeTrue)

				var schemaErr *normalize.SchemaError
				So(errors.As(err, &schemaErr), ShouldBeTrue)
				So(schemaErr.Version, ShouldEqual, "v1999")
			})
		})

		Convey("When a mapped legacy field is absent from one record", func() {
			raw := model.RawRecord{
				EntityID:      "uconn",
				Timestamp:     gameDay,
				SchemaVersion: "v0",
				Attrs:         map[string]float64{"pts": 66},
			}
			rec, err := n.Normalize(ctx, raw)

			Convey("Then that field should be unavailable rather than inferred", func() {
				So(err, ShouldBeNil)
				So(rec.Attrs[schema.AttrPoints], ShouldResemble, model.Number(66))
				So(rec.Attrs[schema.AttrRebounds].Kind, ShouldEqual, model.KindUnavailable)
			})
		})
	})
}
