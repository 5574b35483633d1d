// Package repository defines the timeline store interface and errors.
package repository

import (
	"context"

	"github.com/okian/statline/internal/domain/model"
)

// Store accumulates canonical records during normalization and serves
// frozen per-entity timelines to feature computation.
//
// The lifecycle has two phases. During ingestion, Add is the only
// valid write. Freeze ends ingestion, sorts every timeline, and makes
// Timeline/Entities available. A timeline must be fully assembled
// before any feature is computed from it; Freeze is that barrier.
type Store interface {
	// Add appends a canonical record to its entity's pending timeline.
	// Returns ErrFrozen after Freeze has been called.
	Add(ctx context.Context, rec model.CanonicalRecord) error

	// Freeze ends ingestion and sorts all timelines. Idempotent.
	Freeze(ctx context.Context)

	// Timeline returns the frozen timeline for an entity.
	// Returns ErrNotFrozen before Freeze, ErrNotFound for unknown
	// entities.
	Timeline(ctx context.Context, entityID string) (*model.Timeline, error)

	// Entities returns all known entity ids in sorted order.
	Entities(ctx context.Context) []string

	// Count returns the number of entities tracked.
	Count(ctx context.Context) int
}
