// Package ingest reads raw records and instances from the JSON files
// the acquisition layer hands over. This is the pipeline's only input
// boundary; records are read-only from here on.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/okian/statline/internal/domain/model"
)

// rawRecordWire mirrors the acquisition layer's record layout.
type rawRecordWire struct {
	EntityID      string             `json:"entity_id"`
	Timestamp     time.Time          `json:"timestamp"`
	SchemaVersion string             `json:"schema_version"`
	Attrs         map[string]float64 `json:"attrs"`
	Meta          map[string]string  `json:"meta,omitempty"`
}

// instanceWire mirrors the prediction-instance layout.
type instanceWire struct {
	ID         string    `json:"id"`
	HomeEntity string    `json:"home_entity"`
	AwayEntity string    `json:"away_entity"`
	Timestamp  time.Time `json:"timestamp"`
	Venue      string    `json:"venue,omitempty"`
	Label      *float64  `json:"label,omitempty"`
}

// LoadRecords reads raw records from a JSON file.
func LoadRecords(ctx context.Context, path string) ([]model.RawRecord, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	var wire []rawRecordWire
	if err := json.Unmarshal(buf, &wire); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadInput, path, err)
	}
	out := make([]model.RawRecord, len(wire))
	for i, w := range wire {
		out[i] = model.RawRecord{
			EntityID:      w.EntityID,
			Timestamp:     w.Timestamp,
			SchemaVersion: w.SchemaVersion,
			Attrs:         w.Attrs,
			Meta:          w.Meta,
		}
	}
	return out, nil
}

// LoadInstances reads prediction instances from a JSON file.
func LoadInstances(ctx context.Context, path string) ([]model.Instance, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	var wire []instanceWire
	if err := json.Unmarshal(buf, &wire); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadInput, path, err)
	}
	out := make([]model.Instance, len(wire))
	for i, w := range wire {
		out[i] = model.Instance{
			ID:         w.ID,
			HomeEntity: w.HomeEntity,
			AwayEntity: w.AwayEntity,
			Timestamp:  w.Timestamp,
			Venue:      w.Venue,
			Label:      w.Label,
		}
	}
	return out, nil
}

// WriteRecords persists raw records as JSON, the same layout
// LoadRecords reads. Used by the generator tool.
func WriteRecords(ctx context.Context, path string, records []model.RawRecord) error {
	wire := make([]rawRecordWire, len(records))
	for i, r := range records {
		wire[i] = rawRecordWire{
			EntityID:      r.EntityID,
			Timestamp:     r.Timestamp,
			SchemaVersion: r.SchemaVersion,
			Attrs:         r.Attrs,
			Meta:          r.Meta,
		}
	}
	return writeJSON(path, wire)
}

// WriteInstances persists instances as JSON.
func WriteInstances(ctx context.Context, path string, instances []model.Instance) error {
	wire := make([]instanceWire, len(instances))
	for i, inst := range instances {
		wire[i] = instanceWire{
			ID:         inst.ID,
			HomeEntity: inst.HomeEntity,
			AwayEntity: inst.AwayEntity,
			Timestamp:  inst.Timestamp,
			Venue:      inst.Venue,
			Label:      inst.Label,
		}
	}
	return writeJSON(path, wire)
}

func writeJSON(path string, v any) error {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
