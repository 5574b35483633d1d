package gen_test

import (
	"context"
	"testing"

	"github.com/okian/statline/internal/domain/schema"
	"github.com/okian/statline/internal/gen"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given a generator for a small league", t, func() {
		ctx := context.Background()
		g := gen.New(gen.WithSeed(7), gen.WithTeamCount(4), gen.WithSeasons(3))

		records, instances := g.Generate(ctx)

		Convey("Then every game should yield two records and one instance", func() {
			So(len(records), ShouldEqual, 2*len(instances))
			So(len(instances), ShouldBeGreaterThan, 0)
		})

		Convey("And every record should carry a known source schema", func() {
			versions := make(map[string]int)
			for _, r := range records {
				versions[r.SchemaVersion]++
				_, ok := schema.Lookup(r.SchemaVersion)
				So(ok, ShouldBeTrue)
			}
			So(len(versions), ShouldEqual, 3)
		})

		Convey("And old-schema records should omit stats they predate", func() {
			for _, r := range records {
				_, hasTPM := r.Attrs["tpm"]
				if r.SchemaVersion == "v0" {
					So(hasTPM, ShouldBeFalse)
				}
				if r.SchemaVersion == "v2" {
					_, canonical := r.Attrs["points"]
					So(canonical, ShouldBeTrue)
				}
			}
		})

		Convey("And every instance should carry a label", func() {
			for _, inst := range instances {
				So(inst.Label, ShouldNotBeNil)
			}
		})

		Convey("And the same seed should reproduce the batch exactly", func() {
			again, moreInstances := gen.New(gen.WithSeed(7), gen.WithTeamCount(4), gen.WithSeasons(3)).Generate(ctx)
			So(again, ShouldResemble, records)
			So(moreInstances, ShouldResemble, instances)
		})
	})
}
