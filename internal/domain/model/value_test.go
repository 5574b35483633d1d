package model_test

import (
	"testing"

	"github.com/okian/statline/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestValueMarkers(t *testing.T) {
	Convey("Given the value marker kinds", t, func() {
		Convey("When constructing a plain number", func() {
			v := model.Number(12.5)

			Convey("Then it should carry its payload", func() {
				So(v.IsNumber(), ShouldBeTrue)
				f, ok := v.Float()
				So(ok, ShouldBeTrue)
				So(f, ShouldEqual, 12.5)
				So(v.Incomplete, ShouldBeFalse)
			})
		})

		Convey("When constructing an incomplete number", func() {
			v := model.IncompleteNumber(7)

			Convey("Then it should stay numeric but flagged", func() {
				So(v.IsNumber(), ShouldBeTrue)
				So(v.Incomplete, ShouldBeTrue)
			})
		})

		Convey("When reading markers as numbers", func() {
			Convey("Then none of them should yield a float", func() {
				for _, v := range []model.Value{
					model.Unavailable(),
					model.InsufficientHistory(),
					model.Undefined(),
				} {
					_, ok := v.Float()
					So(ok, ShouldBeFalse)
				}
			})
		})

		Convey("When reading a missing map entry", func() {
			attrs := map[string]model.Value{}

			Convey("Then the zero value should be unavailable, not zero", func() {
				v := attrs["points"]
				So(v.Kind, ShouldEqual, model.KindUnavailable)
				_, ok := v.Float()
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestValueSerialization(t *testing.T) {
	Convey("Given serialized value forms", t, func() {
		Convey("When round-tripping every kind", func() {
			values := []model.Value{
				model.Number(15),
				model.Number(0.3333333333333333),
				model.IncompleteNumber(-2.5),
				model.Unavailable(),
				model.InsufficientHistory(),
				model.Undefined(),
			}

			Convey("Then parsing the string form should reproduce the value", func() {
				for _, v := range values {
					parsed, err := model.ParseValue(v.String())
					So(err, ShouldBeNil)
					So(parsed, ShouldResemble, v)
				}
			})
		})

		Convey("When parsing garbage", func() {
			_, err := model.ParseValue("not-a-number")

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
