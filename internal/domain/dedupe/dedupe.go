// Package dedupe guards the timeline invariant that no entity carries
// two records with the same timestamp.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/statline/pkg/metrics"
)

// Guard records (entity, timestamp) pairs so duplicate raw records are
// admitted at most once per run.
type Guard interface {
	// SeenAndRecord atomically checks whether the pair was seen and
	// records it if not. Returns true if it was already seen.
	SeenAndRecord(ctx context.Context, entityID string, ts time.Time) bool

	// Size returns the number of recorded pairs.
	Size() int64
}

// InMemoryGuard implements Guard with a mutex-protected set. A fresh
// guard is created per pipeline run; it never persists across runs.
type InMemoryGuard struct {
	mu   sync.Mutex
	seen map[recordKey]struct{}
	size atomic.Int64
}

type recordKey struct {
	entityID string
	unixNano int64
}

// NewInMemoryGuard creates a guard with configuration options.
func NewInMemoryGuard(opts ...Option) *InMemoryGuard {
	g := &InMemoryGuard{
		seen: make(map[recordKey]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SeenAndRecord atomically checks and records the pair.
func (g *InMemoryGuard) SeenAndRecord(ctx context.Context, entityID string, ts time.Time) bool {
	key := recordKey{entityID: entityID, unixNano: ts.UnixNano()}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[key]; ok {
		metrics.RecordRecordDuplicate()
		return true
	}
	g.seen[key] = struct{}{}
	g.size.Add(1)
	return false
}

// Size returns the number of recorded pairs.
func (g *InMemoryGuard) Size() int64 {
	return g.size.Load()
}
