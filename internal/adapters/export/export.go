// Package export materializes datasets atomically: a zstd-compressed
// CSV plus a JSON metadata sidecar, staged in a temp directory and
// renamed into place so a partially written dataset is never visible.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/okian/statline/internal/domain/model"
	"github.com/okian/statline/pkg/logger"
	"github.com/okian/statline/pkg/metrics"
)

// Artifact file names inside a dataset directory.
const (
	DataFileName     = "dataset.csv.zst"
	MetadataFileName = "metadata.json"

	stagingPrefix = ".staging-"
)

// Fixed leading and trailing CSV columns around the feature cells.
const (
	colInstanceID = "instance_id"
	colTimestamp  = "timestamp"
	colLabel      = "label"
)

// Default writer configuration constants.
const (
	defaultOutputDir        = "datasets"
	defaultCompressionLevel = 2
	dirPerm                 = 0o755
)

// Writer exports datasets.
type Writer struct {
	outputDir        string
	compressionLevel int
	logger           logger.Logger
}

// NewWriter creates a dataset writer with configuration options.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		outputDir:        defaultOutputDir,
		compressionLevel: defaultCompressionLevel,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Export persists the dataset and returns the directory it landed in.
// All rows must share the dataset's feature-schema version; a mixed
// batch is a bug upstream and fails the export. On any failure the
// staging directory is removed and nothing becomes visible.
func (w *Writer) Export(ctx context.Context, ds model.Dataset) (string, error) {
	start := time.Now()

	for _, row := range ds.Rows {
		if row.SchemaVersion != ds.Metadata.SchemaVersion {
			return "", &DatasetWriteError{
				Path: w.outputDir,
				Err:  fmt.Errorf("row %s carries schema version %q, dataset is %q", row.InstanceID, row.SchemaVersion, ds.Metadata.SchemaVersion),
			}
		}
	}

	columns := columnOrder(ds.Rows)
	ds.Metadata.Columns = columns
	ds.Metadata.RowCount = len(ds.Rows)
	ds.Metadata.Markers = countMarkers(ds.Rows, columns)

	final := filepath.Join(w.outputDir, ds.Metadata.RunID)
	staging := filepath.Join(w.outputDir, stagingPrefix+ds.Metadata.RunID)

	if err := os.MkdirAll(staging, dirPerm); err != nil {
		return "", &DatasetWriteError{Path: staging, Err: err}
	}
	// Staging must not leak on any failure path.
	defer os.RemoveAll(staging)

	if err := w.writeData(staging, ds, columns); err != nil {
		return "", &DatasetWriteError{Path: staging, Err: err}
	}
	if err := w.writeMetadata(staging, ds.Metadata); err != nil {
		return "", &DatasetWriteError{Path: staging, Err: err}
	}

	// The rename is the commit point.
	if err := os.Rename(staging, final); err != nil {
		return "", &DatasetWriteError{Path: final, Err: err}
	}

	metrics.RecordDatasetExported()
	metrics.ObserveExportDuration(float64(time.Since(start).Milliseconds()))
	if w.logger != nil {
		w.logger.Info(ctx, "dataset exported",
			logger.String("path", final),
			logger.Int("rows", len(ds.Rows)),
			logger.Int("columns", len(columns)),
			logger.String("feature_schema_version", ds.Metadata.SchemaVersion),
		)
	}
	return final, nil
}

// writeData writes the compressed CSV.
func (w *Writer) writeData(dir string, ds model.Dataset, columns []string) error {
	f, err := os.Create(filepath.Join(dir, DataFileName))
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(encoderLevel(w.compressionLevel)))
	if err != nil {
		return err
	}

	cw := csv.NewWriter(enc)

	header := make([]string, 0, len(columns)+3)
	header = append(header, colInstanceID, colTimestamp)
	header = append(header, columns...)
	header = append(header, colLabel)
	if err := cw.Write(header); err != nil {
		enc.Close()
		return err
	}

	rec := make([]string, 0, len(header))
	for _, row := range ds.Rows {
		rec = rec[:0]
		rec = append(rec, row.InstanceID, row.Timestamp.UTC().Format(time.RFC3339))
		for _, col := range columns {
			rec = append(rec, row.Cells[col].String())
		}
		if row.Label != nil {
			rec = append(rec, strconv.FormatFloat(*row.Label, 'g', -1, 64))
		} else {
			rec = append(rec, "")
		}
		if err := cw.Write(rec); err != nil {
			enc.Close()
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Sync()
}

// writeMetadata writes the JSON sidecar.
func (w *Writer) writeMetadata(dir string, meta model.Metadata) error {
	buf, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, MetadataFileName), buf, 0o644)
}

// columnOrder collects every cell name across the rows, sorted, so the
// column set is deterministic and independent of map iteration.
func columnOrder(rows []model.Row) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for name := range row.Cells {
			seen[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// countMarkers tallies non-numeric states per feature column.
func countMarkers(rows []model.Row, columns []string) map[string]model.MarkerCounts {
	out := make(map[string]model.MarkerCounts, len(columns))
	for _, col := range columns {
		var mc model.MarkerCounts
		for _, row := range rows {
			v, ok := row.Cells[col]
			if !ok {
				mc.Unavailable++
				continue
			}
			switch v.Kind {
			case model.KindUnavailable:
				mc.Unavailable++
			case model.KindInsufficientHistory:
				mc.Insufficient++
			case model.KindUndefined:
				mc.Undefined++
			case model.KindNumber:
				if v.Incomplete {
					mc.Incomplete++
				}
			}
		}
		out[col] = mc
	}
	return out
}

// encoderLevel maps the 1..4 config scale onto zstd levels.
func encoderLevel(level int) zstd.EncoderLevel {
	switch level {
	case 1:
		return zstd.SpeedFastest
	case 3:
		return zstd.SpeedBetterCompression
	case 4:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}
