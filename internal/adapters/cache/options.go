package cache

import "github.com/okian/statline/pkg/logger"

// Option applies a configuration option to the BadgerCache.
type Option func(*BadgerCache)

// WithDir sets the on-disk directory for the cache.
func WithDir(dir string) Option {
	return func(c *BadgerCache) {
		if dir != "" {
			c.dir = dir
		}
	}
}

// WithInMemory runs the cache without touching disk. Used in tests and
// for one-shot runs where cross-run reuse is not wanted.
func WithInMemory(inMemory bool) Option {
	return func(c *BadgerCache) {
		c.inMemory = inMemory
	}
}

// WithLogger sets a custom logger for the cache.
func WithLogger(l logger.Logger) Option {
	return func(c *BadgerCache) {
		if l != nil {
			c.logger = l
		}
	}
}
