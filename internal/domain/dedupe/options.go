package dedupe

// Option applies a configuration option to the InMemoryGuard.
type Option func(*InMemoryGuard)

// WithSizeHint pre-sizes the seen set for an expected record count.
func WithSizeHint(n int) Option {
	return func(g *InMemoryGuard) {
		if n > 0 {
			g.seen = make(map[recordKey]struct{}, n)
		}
	}
}
