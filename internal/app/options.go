package app

import (
	"github.com/okian/statline/internal/adapters/cache"
	"github.com/okian/statline/pkg/logger"
)

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithSchemaVersion selects the frozen feature set to compute.
func WithSchemaVersion(version string) Option {
	return func(p *Pipeline) {
		if version != "" {
			p.schemaVersion = version
		}
	}
}

// WithWindows sets the rolling window sizes, in games.
func WithWindows(windows []int) Option {
	return func(p *Pipeline) {
		if len(windows) > 0 {
			p.windows = windows
		}
	}
}

// WithMinWindowFraction sets the incomplete-vs-insufficient boundary.
func WithMinWindowFraction(f float64) Option {
	return func(p *Pipeline) {
		if f > 0 && f <= 1 {
			p.minWindowFraction = f
		}
	}
}

// WithWorkerCount sets the number of instance-build workers.
func WithWorkerCount(count int) Option {
	return func(p *Pipeline) {
		if count > 0 {
			p.workerCount = count
		}
	}
}

// WithQueueSize sets the job queue capacity.
func WithQueueSize(size int) Option {
	return func(p *Pipeline) {
		if size > 0 {
			p.queueSize = size
		}
	}
}

// WithShardCount sets the timeline store shard count.
func WithShardCount(count int) Option {
	return func(p *Pipeline) {
		if count > 0 {
			p.shardCount = count
		}
	}
}

// WithOutputDir sets where exported datasets land.
func WithOutputDir(dir string) Option {
	return func(p *Pipeline) {
		if dir != "" {
			p.outputDir = dir
		}
	}
}

// WithCompressionLevel sets the dataset zstd level, 1 to 4.
func WithCompressionLevel(level int) Option {
	return func(p *Pipeline) {
		if level >= 1 && level <= 4 {
			p.compressionLevel = level
		}
	}
}

// WithCache sets the explicit feature-vector cache. Without one,
// every vector is computed fresh.
func WithCache(c cache.Cache) Option {
	return func(p *Pipeline) {
		p.cache = c
	}
}

// WithCacheInvalidation drops the cached vectors for the run's
// feature-schema version before computing. Use when a version's
// definition was re-minted in place; switching to a new version string
// needs no invalidation.
func WithCacheInvalidation(invalidate bool) Option {
	return func(p *Pipeline) {
		p.invalidateCache = invalidate
	}
}

// WithLogger sets a custom logger for the pipeline.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}
