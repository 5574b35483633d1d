package export

import "github.com/okian/statline/pkg/logger"

// Option applies a configuration option to the Writer.
type Option func(*Writer)

// WithOutputDir sets the directory exported datasets land in.
func WithOutputDir(dir string) Option {
	return func(w *Writer) {
		if dir != "" {
			w.outputDir = dir
		}
	}
}

// WithCompressionLevel sets the zstd level, 1 (fastest) to 4 (best).
func WithCompressionLevel(level int) Option {
	return func(w *Writer) {
		if level >= 1 && level <= 4 {
			w.compressionLevel = level
		}
	}
}

// WithLogger sets a custom logger for the writer.
func WithLogger(l logger.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}
