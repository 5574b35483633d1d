package repository

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/okian/statline/internal/domain/model"
	"github.com/okian/statline/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultShardCount = 8
)

// ShardedStore implements Store with per-shard locking so concurrent
// normalization workers do not serialize on one mutex. After Freeze,
// all access is read-only and lock-free.
type ShardedStore struct {
	shardCount int
	shards     []*shard
	frozen     atomic.Bool
}

type shard struct {
	mu        sync.Mutex
	pending   map[string][]model.CanonicalRecord
	timelines map[string]*model.Timeline
}

// NewShardedStore creates a store with configuration options.
func NewShardedStore(ctx context.Context, opts ...Option) *ShardedStore {
	s := &ShardedStore{
		shardCount: defaultShardCount,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{
			pending: make(map[string][]model.CanonicalRecord),
		}
	}
	metrics.UpdateShardCount(s.shardCount)
	return s
}

// shardFor picks the shard for an entity id.
func (s *ShardedStore) shardFor(entityID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(entityID))
	return s.shards[int(h.Sum32())%s.shardCount]
}

// Add appends a canonical record to its entity's pending timeline.
func (s *ShardedStore) Add(ctx context.Context, rec model.CanonicalRecord) error {
	if s.frozen.Load() {
		return ErrFrozen
	}
	sh := s.shardFor(rec.EntityID)
	sh.mu.Lock()
	sh.pending[rec.EntityID] = append(sh.pending[rec.EntityID], rec)
	sh.mu.Unlock()
	return nil
}

// Freeze ends ingestion and sorts every timeline. Idempotent.
func (s *ShardedStore) Freeze(ctx context.Context) {
	if s.frozen.Swap(true) {
		return
	}
	total := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.timelines = make(map[string]*model.Timeline, len(sh.pending))
		for entityID, recs := range sh.pending {
			sh.timelines[entityID] = model.NewTimeline(entityID, recs)
		}
		sh.pending = nil
		total += len(sh.timelines)
		sh.mu.Unlock()
	}
	metrics.UpdateEntityCount(total)
}

// Timeline returns the frozen timeline for an entity.
func (s *ShardedStore) Timeline(ctx context.Context, entityID string) (*model.Timeline, error) {
	if !s.frozen.Load() {
		return nil, ErrNotFrozen
	}
	sh := s.shardFor(entityID)
	tl, ok := sh.timelines[entityID]
	if !ok {
		return nil, ErrNotFound
	}
	return tl, nil
}

// Entities returns all known entity ids in sorted order.
func (s *ShardedStore) Entities(ctx context.Context) []string {
	out := make([]string, 0)
	if s.frozen.Load() {
		for _, sh := range s.shards {
			for entityID := range sh.timelines {
				out = append(out, entityID)
			}
		}
	} else {
		for _, sh := range s.shards {
			sh.mu.Lock()
			for entityID := range sh.pending {
				out = append(out, entityID)
			}
			sh.mu.Unlock()
		}
	}
	sort.Strings(out)
	return out
}

// Count returns the number of entities tracked.
func (s *ShardedStore) Count(ctx context.Context) int {
	n := 0
	if s.frozen.Load() {
		for _, sh := range s.shards {
			n += len(sh.timelines)
		}
		return n
	}
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.pending)
		sh.mu.Unlock()
	}
	return n
}
