package model

import "time"

// FeatureVector holds the features computed for one entity as of one
// point in time, under one frozen feature-schema version. Every
// contributing record's timestamp is strictly earlier than AsOf.
type FeatureVector struct {
	EntityID      string
	AsOf          time.Time
	SchemaVersion string
	Features      map[string]Value
}

// Instance is one prediction unit: a matchup between two entities at a
// target timestamp. Label is present only for historical instances.
type Instance struct {
	ID         string
	HomeEntity string
	AwayEntity string
	Timestamp  time.Time
	Venue      string
	Label      *float64
}

// Row is an assembled instance: the two entities' features joined
// under home_/away_ prefixes plus derived diff_ cross-features, all
// under a single feature-schema version.
type Row struct {
	InstanceID    string
	Timestamp     time.Time
	SchemaVersion string
	Cells         map[string]Value
	Label         *float64
}
