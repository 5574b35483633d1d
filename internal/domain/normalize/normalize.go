// Package normalize maps raw records of varying historical schemas onto
// the single canonical attribute set.
package normalize

import (
	"context"

	"github.com/okian/statline/internal/domain/model"
	"github.com/okian/statline/internal/domain/schema"
	"github.com/okian/statline/pkg/logger"
	"github.com/okian/statline/pkg/metrics"
)

// Normalizer turns one RawRecord into one CanonicalRecord, or rejects
// it with a *SchemaError when the source-schema version is unknown.
type Normalizer interface {
	Normalize(ctx context.Context, raw model.RawRecord) (model.CanonicalRecord, error)
}

// TableNormalizer implements Normalizer via the versioned mapping
// tables in the schema package.
type TableNormalizer struct {
	logger logger.Logger
}

// New creates a normalizer with configuration options.
func New(opts ...Option) *TableNormalizer {
	n := &TableNormalizer{}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize maps raw onto the canonical attribute set. Attributes the
// source schema never collected are set to the Unavailable marker,
// never inferred and never zero-filled. The per-record unavailable
// count is emitted to metrics for data-quality reporting.
func (n *TableNormalizer) Normalize(ctx context.Context, raw model.RawRecord) (model.CanonicalRecord, error) {
	mapping, ok := schema.Lookup(raw.SchemaVersion)
	if !ok {
		metrics.RecordRecordSkipped()
		if n.logger != nil {
			n.logger.Warn(ctx, "skipping record with unknown schema version",
				logger.String("entity", raw.EntityID),
				logger.String("schema_version", raw.SchemaVersion),
			)
		}
		return model.CanonicalRecord{}, &SchemaError{EntityID: raw.EntityID, Version: raw.SchemaVersion}
	}

	attrs := make(map[string]model.Value, len(schema.Canonical()))
	unavailable := 0
	for _, canonical := range schema.Canonical() {
		v, ok := n.resolve(mapping, canonical, raw.Attrs)
		if !ok {
			attrs[canonical] = model.Unavailable()
			unavailable++
			continue
		}
		attrs[canonical] = model.Number(v)
	}

	metrics.RecordRecordNormalized()
	if unavailable > 0 {
		metrics.AddUnavailableFields(unavailable)
	}

	return model.CanonicalRecord{
		EntityID:  raw.EntityID,
		Timestamp: raw.Timestamp,
		Attrs:     attrs,
	}, nil
}

// resolve tries the mapping's legacy names in order and returns the
// first value present in the raw attributes.
func (n *TableNormalizer) resolve(mapping schema.Mapping, canonical string, attrs map[string]float64) (float64, bool) {
	for _, name := range mapping.LegacyNames(canonical) {
		if v, ok := attrs[name]; ok {
			return v, true
		}
	}
	return 0, false
}
