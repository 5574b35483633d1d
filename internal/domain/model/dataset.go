package model

import "time"

// MarkerCounts tallies how often each non-numeric state occurred for
// one feature column across a dataset. Downstream consumers use these
// to decide imputation strategy.
type MarkerCounts struct {
	Unavailable  int `json:"unavailable"`
	Insufficient int `json:"insufficient"`
	Undefined    int `json:"undefined"`
	Incomplete   int `json:"incomplete"`
}

// Metadata is the sidecar record exported next to a dataset.
type Metadata struct {
	RunID             string                  `json:"run_id"`
	SchemaVersion     string                  `json:"feature_schema_version"`
	GeneratedAt       time.Time               `json:"generated_at"`
	RowCount          int                     `json:"row_count"`
	Columns           []string                `json:"columns"`
	Markers           map[string]MarkerCounts `json:"markers"`
	SkippedRecords    int                     `json:"skipped_records"`
	DuplicateRecords  int                     `json:"duplicate_records"`
	RejectedInstances int                     `json:"rejected_instances"`
	Errors            []string                `json:"errors,omitempty"`
}

// Dataset is the exported artifact: ordered rows sharing one
// feature-schema version plus their metadata.
type Dataset struct {
	Rows     []Row
	Metadata Metadata
}
