// Package config defines pipeline configuration structures and loading.
//
// Conventions:
// - Defaults come from New; file and env layers override them.
// - External errors are wrapped via this package's sentinel kinds.
package config

import (
	"runtime"

	"github.com/okian/statline/internal/domain/schema"
)

// Config contains process configuration for one pipeline run.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// FeatureSchemaVersion selects which frozen feature set to compute.
	FeatureSchemaVersion string `koanf:"feature_schema_version"`

	// RollingWindowSizes are the trailing-stat window lengths, in games.
	RollingWindowSizes []int `koanf:"rolling_window_sizes"`

	// MinWindowFraction is the minimum fraction of a window that must
	// be present before a feature is computed (and flagged incomplete)
	// instead of resolving to insufficient-history.
	MinWindowFraction float64 `koanf:"min_window_fraction"`

	// WorkerCount sets the number of instance-build workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`

	// ShardCount configures the number of shards in the timeline store.
	ShardCount int `koanf:"shard_count"`

	// CacheDir is the feature-cache directory. Ignored when
	// CacheInMemory is set.
	CacheDir string `koanf:"cache_dir"`

	// CacheInMemory runs the feature cache without touching disk.
	CacheInMemory bool `koanf:"cache_in_memory"`

	// OutputDir is where exported datasets land.
	OutputDir string `koanf:"output_dir"`

	// CompressionLevel is the dataset zstd level, 1 (fastest) to 4.
	CompressionLevel int `koanf:"compression_level"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		FeatureSchemaVersion: schema.DefaultFeatureSetVersion,
		RollingWindowSizes:   []int{3, 5, 10},
		MinWindowFraction:    0.25,
		WorkerCount:          runtime.NumCPU(),
		QueueSize:            65536,
		ShardCount:           8,
		CacheDir:             "cache",
		CacheInMemory:        false,
		OutputDir:            "datasets",
		CompressionLevel:     2,
	}
}
