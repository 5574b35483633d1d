package normalize

import "github.com/okian/statline/pkg/logger"

// Option applies a configuration option to the TableNormalizer.
type Option func(*TableNormalizer)

// WithLogger sets a custom logger for the normalizer.
func WithLogger(l logger.Logger) Option {
	return func(n *TableNormalizer) {
		if l != nil {
			n.logger = l
		}
	}
}
