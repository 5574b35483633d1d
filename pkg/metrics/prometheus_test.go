package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/okian/statline/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		reg := prometheus.NewRegistry()
		metrics.NewManager(
			metrics.WithNamespace("statline_test"),
			metrics.WithPrometheusRegistry(reg),
		)

		Convey("When gathering", func() {
			families, err := reg.Gather()

			Convey("Then the pipeline metric families should be registered", func() {
				So(err, ShouldBeNil)
				names := make(map[string]struct{}, len(families))
				for _, f := range families {
					names[f.GetName()] = struct{}{}
				}
				for _, want := range []string{
					"statline_test_pipeline_records_normalized_total",
					"statline_test_pipeline_feature_vectors_built_total",
					"statline_test_pipeline_undefined_rates_total",
					"statline_test_pipeline_datasets_exported_total",
					"statline_test_pipeline_worker_latency_milliseconds",
				} {
					_, ok := names[want]
					So(ok, ShouldBeTrue)
				}
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording through the package helpers", func() {
			metrics.RecordRecordNormalized()
			metrics.AddUnavailableFields(3)
			metrics.UpdateShardCount(8)

			Convey("Then the global registry should reflect the updates", func() {
				n := testutil.ToFloat64(metricFromRegistry(t, "statline_pipeline_store_shard_count"))
				So(n, ShouldEqual, 8)
			})
		})
	})
}

// metricFromRegistry pulls a single collector's current value out of
// the global registry by gathering and rebuilding a gauge.
func metricFromRegistry(t *testing.T, name string) prometheus.Collector {
	t.Helper()
	families, err := metrics.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range families {
		if f.GetName() == name && len(f.GetMetric()) > 0 {
			g := prometheus.NewGauge(prometheus.GaugeOpts{Name: name})
			g.Set(f.GetMetric()[0].GetGauge().GetValue())
			return g
		}
	}
	t.Fatalf("metric %s not found", name)
	return nil
}
