// Package app wires the pipeline stages together: normalization into
// frozen timelines, data-parallel feature computation and assembly,
// and atomic dataset export.
package app

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/okian/statline/internal/adapters/cache"
	"github.com/okian/statline/internal/adapters/export"
	"github.com/okian/statline/internal/adapters/mq/queue"
	"github.com/okian/statline/internal/adapters/mq/worker"
	"github.com/okian/statline/internal/adapters/repository"
	"github.com/okian/statline/internal/domain/assemble"
	"github.com/okian/statline/internal/domain/dedupe"
	"github.com/okian/statline/internal/domain/feature"
	"github.com/okian/statline/internal/domain/model"
	"github.com/okian/statline/internal/domain/normalize"
	"github.com/okian/statline/internal/domain/schema"
	"github.com/okian/statline/pkg/logger"
)

// Pipeline runs the full batch transformation. Construct one with New,
// then call Run once per batch; every run produces fresh derived data
// and never patches a previous run's output.
type Pipeline struct {
	schemaVersion     string
	windows           []int
	minWindowFraction float64
	workerCount       int
	queueSize         int
	shardCount        int
	outputDir         string
	compressionLevel  int

	cache           cache.Cache
	invalidateCache bool
	logger          logger.Logger
}

// New constructs a Pipeline with default configuration.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		schemaVersion:     schema.DefaultFeatureSetVersion,
		windows:           []int{3, 5, 10},
		minWindowFraction: 0.25,
		workerCount:       runtime.NumCPU(),
		queueSize:         65536,
		shardCount:        8,
		outputDir:         "datasets",
		compressionLevel:  2,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run transforms raw records and instances into an exported dataset.
// It returns the dataset and the directory it was materialized in.
//
// Per-record and per-instance failures are accumulated into the run
// metadata; only a dataset write failure or an unknown feature-schema
// version aborts the run, and an aborted run leaves nothing visible.
func (p *Pipeline) Run(ctx context.Context, records []model.RawRecord, instances []model.Instance) (model.Dataset, string, error) {
	if p.logger == nil {
		p.logger = logger.Get().Named("pipeline")
	}

	set, ok := schema.LookupFeatureSet(p.schemaVersion)
	if !ok {
		return model.Dataset{}, "", fmt.Errorf("unknown feature schema version %q", p.schemaVersion)
	}

	// A re-minted version definition makes cached vectors stale even
	// though the version string is unchanged; drop them up front.
	if p.cache != nil && p.invalidateCache {
		if err := p.cache.Invalidate(ctx, p.schemaVersion); err != nil {
			return model.Dataset{}, "", err
		}
	}

	p.logger.Info(ctx, "pipeline run starting",
		logger.String("feature_schema_version", p.schemaVersion),
		logger.Int("records", len(records)),
		logger.Int("instances", len(instances)),
	)

	store, report := p.ingest(ctx, records)

	builder := feature.New(set,
		feature.WithWindows(p.windows),
		feature.WithMinWindowFraction(p.minWindowFraction),
		feature.WithLogger(p.logger),
	)
	rows := p.assembleAll(ctx, store, builder, instances, report)

	// A canceled context means workers stopped mid-batch and the row
	// set is truncated. Nothing may become visible from such a run.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return model.Dataset{}, "", fmt.Errorf("run canceled before export: %w", ctxErr)
	}

	meta := model.Metadata{
		RunID:             uuid.NewString(),
		SchemaVersion:     p.schemaVersion,
		GeneratedAt:       time.Now().UTC(),
		SkippedRecords:    report.skippedRecords,
		DuplicateRecords:  report.duplicateRecords,
		RejectedInstances: report.rejectedInstances,
		Errors:            report.errors,
	}
	ds := model.Dataset{Rows: rows, Metadata: meta}

	writer := export.NewWriter(
		export.WithOutputDir(p.outputDir),
		export.WithCompressionLevel(p.compressionLevel),
		export.WithLogger(p.logger),
	)
	path, err := writer.Export(ctx, ds)
	if err != nil {
		return model.Dataset{}, "", err
	}

	p.logger.Info(ctx, "pipeline run finished",
		logger.String("run_id", meta.RunID),
		logger.Int("rows", len(rows)),
		logger.Int("skipped_records", report.skippedRecords),
		logger.Int("rejected_instances", report.rejectedInstances),
	)
	// Exporter fills in columns and marker counts; reload the final
	// metadata so callers see what landed on disk.
	ds.Metadata.Columns = nil
	loaded, loadErr := export.Load(ctx, path)
	if loadErr == nil {
		ds.Metadata = loaded.Metadata
	}
	return ds, path, nil
}

// runReport accumulates non-fatal failures for the run metadata.
type runReport struct {
	skippedRecords    int
	duplicateRecords  int
	rejectedInstances int
	errors            []string
}

// ingest normalizes raw records into a frozen timeline store.
// Unknown-schema and duplicate records are skipped, counted, and the
// run continues.
func (p *Pipeline) ingest(ctx context.Context, records []model.RawRecord) (repository.Store, *runReport) {
	normalizer := normalize.New(normalize.WithLogger(p.logger))
	guard := dedupe.NewInMemoryGuard(dedupe.WithSizeHint(len(records)))
	store := repository.NewShardedStore(ctx, repository.WithShardCount(p.shardCount))
	report := &runReport{}

	for _, raw := range records {
		rec, err := normalizer.Normalize(ctx, raw)
		if err != nil {
			report.skippedRecords++
			report.errors = append(report.errors, err.Error())
			continue
		}
		if guard.SeenAndRecord(ctx, rec.EntityID, rec.Timestamp) {
			report.duplicateRecords++
			continue
		}
		// Add only fails after Freeze, which cannot happen here.
		_ = store.Add(ctx, rec)
	}

	// Timelines must be fully assembled before any feature is
	// computed from them.
	store.Freeze(ctx)
	return store, report
}

// assembleAll fans instances out over the worker pool and reassembles
// the rows in input order so output is deterministic.
func (p *Pipeline) assembleAll(ctx context.Context, store repository.Store, builder *feature.Builder, instances []model.Instance, report *runReport) []model.Row {
	q := queue.NewInMemoryQueue(queue.WithCapacity(p.queueSize))
	results := make(chan worker.Result, len(instances))
	src := &vectorSource{store: store, builder: builder, cache: p.cache, logger: p.logger}
	pool := worker.NewPool(p.workerCount, q, src, assemble.New(p.schemaVersion), results,
		worker.WithLogger(p.logger),
	)
	pool.Start(ctx)

	go func() {
		for i, inst := range instances {
			if !q.Enqueue(ctx, queue.Job{Index: i, Instance: inst}) {
				break
			}
		}
		_ = q.Close()
	}()

	rowByIndex := make([]*model.Row, len(instances))
	errByIndex := make([]error, len(instances))
	for res := range results {
		if res.Err != nil {
			errByIndex[res.Index] = res.Err
			continue
		}
		row := res.Row
		rowByIndex[res.Index] = &row
	}

	rows := make([]model.Row, 0, len(instances))
	for i := range instances {
		if err := errByIndex[i]; err != nil {
			report.rejectedInstances++
			report.errors = append(report.errors, err.Error())
			continue
		}
		if rowByIndex[i] != nil {
			rows = append(rows, *rowByIndex[i])
		}
	}
	return rows
}

// vectorSource serves feature vectors to workers, consulting the
// explicit cache when one was passed in. An entity with no records
// gets an empty timeline: its vector comes back all
// insufficient-history, never fabricated zeros.
type vectorSource struct {
	store   repository.Store
	builder *feature.Builder
	cache   cache.Cache
	logger  logger.Logger
}

func (s *vectorSource) Vector(ctx context.Context, entityID, opponentID string, asOf time.Time) (model.FeatureVector, error) {
	version := s.builder.SchemaVersion()
	if s.cache != nil {
		if fv, ok, err := s.cache.Get(ctx, entityID, opponentID, asOf, version); err == nil && ok {
			return fv, nil
		} else if err != nil {
			s.logger.Warn(ctx, "feature cache read failed; recomputing",
				logger.String("entity", entityID),
				logger.Error(err),
			)
		}
	}

	tl := s.timeline(ctx, entityID)
	opponent, err := s.store.Timeline(ctx, opponentID)
	if err != nil {
		// Missing opponent is routine sparse data: the builder marks
		// opponent-adjusted features unavailable.
		opponent = nil
	}

	fv := s.builder.Build(ctx, tl, opponent, asOf)
	if s.cache != nil {
		if err := s.cache.Put(ctx, fv, opponentID); err != nil {
			s.logger.Warn(ctx, "feature cache write failed",
				logger.String("entity", entityID),
				logger.Error(err),
			)
		}
	}
	return fv, nil
}

func (s *vectorSource) timeline(ctx context.Context, entityID string) *model.Timeline {
	tl, err := s.store.Timeline(ctx, entityID)
	if err != nil && errors.Is(err, repository.ErrNotFound) {
		return model.NewTimeline(entityID, nil)
	}
	if err != nil {
		// ErrNotFrozen would be a programming error; treat as empty.
		return model.NewTimeline(entityID, nil)
	}
	return tl
}
