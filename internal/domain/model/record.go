package model

import (
	"sort"
	"time"
)

// RawRecord is one per-entity observation as delivered by the
// acquisition layer. It is read-only to the pipeline: normalization
// produces fresh CanonicalRecords instead of mutating these.
type RawRecord struct {
	EntityID      string             // team or player identifier
	Timestamp     time.Time          // game date
	SchemaVersion string             // source schema the attr names follow
	Attrs         map[string]float64 // legacy-or-canonical name -> value
	Meta          map[string]string  // non-numeric context, e.g. venue
}

// CanonicalRecord is a RawRecord mapped onto the canonical attribute
// set. Every canonical attribute is present; attributes the source
// schema never collected carry the Unavailable marker.
type CanonicalRecord struct {
	EntityID  string
	Timestamp time.Time
	Attrs     map[string]Value
}

// Timeline is the ordered per-entity history feature computation reads
// from. Records are sorted by timestamp ascending with no duplicate
// timestamps; a Timeline is frozen before any feature is computed from
// it.
type Timeline struct {
	EntityID string
	records  []CanonicalRecord
}

// NewTimeline builds a frozen timeline from records belonging to one
// entity. Input order is irrelevant; the timeline sorts ascending.
// Duplicate-timestamp records must be filtered out before this point.
func NewTimeline(entityID string, records []CanonicalRecord) *Timeline {
	sorted := make([]CanonicalRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return &Timeline{EntityID: entityID, records: sorted}
}

// Len returns the number of records in the timeline.
func (t *Timeline) Len() int {
	return len(t.records)
}

// Records returns the full ordered history. Callers must not mutate it.
func (t *Timeline) Records() []CanonicalRecord {
	return t.records
}

// Before returns the prefix of records with timestamp strictly earlier
// than asOf. Same-day records are excluded: a game's own stats must
// never feed a feature computed for that game.
func (t *Timeline) Before(asOf time.Time) []CanonicalRecord {
	i := sort.Search(len(t.records), func(i int) bool {
		return !t.records[i].Timestamp.Before(asOf)
	})
	return t.records[:i]
}
