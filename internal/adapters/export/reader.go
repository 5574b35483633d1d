package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/okian/statline/internal/domain/model"
)

// Load reads a previously exported dataset back from its directory.
// Round-tripping preserves row count, column set, ordering, and all
// values (markers included) exactly.
func Load(ctx context.Context, dir string) (model.Dataset, error) {
	var ds model.Dataset

	metaBuf, err := os.ReadFile(filepath.Join(dir, MetadataFileName))
	if err != nil {
		return ds, fmt.Errorf("%w: %v", ErrDatasetRead, err)
	}
	if err := json.Unmarshal(metaBuf, &ds.Metadata); err != nil {
		return ds, fmt.Errorf("%w: metadata: %v", ErrDatasetRead, err)
	}

	f, err := os.Open(filepath.Join(dir, DataFileName))
	if err != nil {
		return ds, fmt.Errorf("%w: %v", ErrDatasetRead, err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return ds, fmt.Errorf("%w: %v", ErrDatasetRead, err)
	}
	defer dec.Close()

	cr := csv.NewReader(dec)
	records, err := cr.ReadAll()
	if err != nil {
		return ds, fmt.Errorf("%w: %v", ErrDatasetRead, err)
	}
	if len(records) == 0 {
		return ds, fmt.Errorf("%w: empty data file", ErrDatasetRead)
	}

	header := records[0]
	if len(header) < 3 || header[0] != colInstanceID || header[1] != colTimestamp || header[len(header)-1] != colLabel {
		return ds, fmt.Errorf("%w: unexpected header layout", ErrDatasetRead)
	}
	columns := header[2 : len(header)-1]

	ds.Rows = make([]model.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(header) {
			return ds, fmt.Errorf("%w: ragged row", ErrDatasetRead)
		}
		ts, err := time.Parse(time.RFC3339, rec[1])
		if err != nil {
			return ds, fmt.Errorf("%w: timestamp: %v", ErrDatasetRead, err)
		}
		row := model.Row{
			InstanceID:    rec[0],
			Timestamp:     ts,
			SchemaVersion: ds.Metadata.SchemaVersion,
			Cells:         make(map[string]model.Value, len(columns)),
		}
		for i, col := range columns {
			v, err := model.ParseValue(rec[2+i])
			if err != nil {
				return ds, fmt.Errorf("%w: column %s: %v", ErrDatasetRead, col, err)
			}
			row.Cells[col] = v
		}
		if labelCell := rec[len(rec)-1]; labelCell != "" {
			label, err := strconv.ParseFloat(labelCell, 64)
			if err != nil {
				return ds, fmt.Errorf("%w: label: %v", ErrDatasetRead, err)
			}
			row.Label = &label
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}
