package feature

import "github.com/okian/statline/pkg/logger"

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithWindows sets the rolling window sizes, in games.
func WithWindows(windows []int) Option {
	return func(b *Builder) {
		if len(windows) > 0 {
			b.windows = windows
		}
	}
}

// WithMinWindowFraction sets the minimum fraction of a rolling window
// that must be present before a feature is computed (and flagged
// incomplete) instead of resolving to insufficient-history.
func WithMinWindowFraction(f float64) Option {
	return func(b *Builder) {
		if f > 0 && f <= 1 {
			b.minWindowFraction = f
		}
	}
}

// WithLogger sets a custom logger for the builder.
func WithLogger(l logger.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}
