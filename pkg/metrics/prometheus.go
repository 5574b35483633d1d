// Package metrics provides Prometheus metrics for the statline
// feature pipeline. The counters double as the run's data-quality
// report: unavailable fields, incomplete windows, and undefined rates
// are what a model owner inspects before trusting a dataset.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Normalization metrics.
	recordsNormalized prometheus.Counter
	recordsSkipped    prometheus.Counter
	recordsDuplicate  prometheus.Counter
	unavailableFields prometheus.Counter

	// Feature computation metrics.
	vectorsBuilt      prometheus.Counter
	incompleteWindows prometheus.Counter
	undefinedRates    prometheus.Counter
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter

	// Assembly and export metrics.
	instancesAssembled prometheus.Counter
	instancesRejected  prometheus.Counter
	datasetsExported   prometheus.Counter
	exportDuration     prometheus.Histogram

	// Operational metrics.
	queueCapacity prometheus.Gauge
	queueSize     prometheus.Gauge
	workerCount   prometheus.Gauge
	workerLatency prometheus.Histogram
	workerErrors  prometheus.Counter
	shardCount    prometheus.Gauge
	entityCount   prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Registry returns the registry the global manager registers on.
func Registry() *prometheus.Registry {
	return customRegistry
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "statline",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recordsNormalized = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_normalized_total",
		Help:      "Raw records successfully mapped onto the canonical schema",
	})
	m.recordsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_skipped_total",
		Help:      "Raw records rejected for an unrecognized source schema version",
	})
	m.recordsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_duplicate_total",
		Help:      "Raw records dropped as duplicate (entity, timestamp) pairs",
	})
	m.unavailableFields = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unavailable_fields_total",
		Help:      "Canonical attributes marked unavailable during normalization",
	})

	m.vectorsBuilt = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feature_vectors_built_total",
		Help:      "Feature vectors computed (cache hits excluded)",
	})
	m.incompleteWindows = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "incomplete_windows_total",
		Help:      "Windowed features computed over fewer games than the window asked for",
	})
	m.undefinedRates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "undefined_rates_total",
		Help:      "Rate features that hit a zero denominator",
	})
	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feature_cache_hits_total",
		Help:      "Feature vectors served from the cache",
	})
	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feature_cache_misses_total",
		Help:      "Feature vector cache lookups that required computation",
	})

	m.instancesAssembled = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "instances_assembled_total",
		Help:      "Instances joined into dataset rows",
	})
	m.instancesRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "instances_rejected_total",
		Help:      "Instances rejected, e.g. for feature-schema version mismatch",
	})
	m.datasetsExported = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "datasets_exported_total",
		Help:      "Datasets atomically materialized",
	})
	m.exportDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "export_duration_milliseconds",
		Help:      "Histogram of dataset export duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Configured job queue capacity",
	})
	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Jobs currently queued",
	})
	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Workers in the instance-build pool",
	})
	m.workerLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_latency_milliseconds",
		Help:      "Histogram of per-instance build latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})
	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Instance builds that failed before assembly",
	})
	m.shardCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_shard_count",
		Help:      "Shards in the timeline store",
	})
	m.entityCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_entity_count",
		Help:      "Entities with frozen timelines",
	})
}

// Package-level helpers against the global manager.

func RecordRecordNormalized()          { globalManager.recordsNormalized.Inc() }
func RecordRecordSkipped()             { globalManager.recordsSkipped.Inc() }
func RecordRecordDuplicate()           { globalManager.recordsDuplicate.Inc() }
func AddUnavailableFields(n int)       { globalManager.unavailableFields.Add(float64(n)) }
func RecordVectorBuilt()               { globalManager.vectorsBuilt.Inc() }
func RecordIncompleteWindow()          { globalManager.incompleteWindows.Inc() }
func RecordUndefinedRate()             { globalManager.undefinedRates.Inc() }
func RecordCacheHit()                  { globalManager.cacheHits.Inc() }
func RecordCacheMiss()                 { globalManager.cacheMisses.Inc() }
func RecordInstanceAssembled()         { globalManager.instancesAssembled.Inc() }
func RecordInstanceRejected()          { globalManager.instancesRejected.Inc() }
func RecordDatasetExported()           { globalManager.datasetsExported.Inc() }
func ObserveExportDuration(ms float64) { globalManager.exportDuration.Observe(ms) }
func UpdateQueueCapacity(n int)        { globalManager.queueCapacity.Set(float64(n)) }
func UpdateQueueSize(n int)            { globalManager.queueSize.Set(float64(n)) }
func UpdateWorkerCount(n int)          { globalManager.workerCount.Set(float64(n)) }
func ObserveWorkerLatency(ms float64)  { globalManager.workerLatency.Observe(ms) }
func RecordWorkerError()               { globalManager.workerErrors.Inc() }
func UpdateShardCount(n int)           { globalManager.shardCount.Set(float64(n)) }
func UpdateEntityCount(n int)          { globalManager.entityCount.Set(float64(n)) }
