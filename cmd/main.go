// Command statline runs one batch pipeline pass: raw records and
// instances in, an atomically materialized dataset out.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/statline/internal/adapters/cache"
	"github.com/okian/statline/internal/adapters/ingest"
	app "github.com/okian/statline/internal/app"
	"github.com/okian/statline/internal/config"
	"github.com/okian/statline/pkg/logger"
)

func main() {
	recordsPath := flag.String("records", "records.json", "Path to the raw records JSON file")
	instancesPath := flag.String("instances", "instances.json", "Path to the instances JSON file")
	refreshCache := flag.Bool("refresh-cache", false, "Drop cached feature vectors for the configured feature schema version before running")
	flag.Parse()

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, *recordsPath, *instancesPath, *refreshCache); err != nil {
		log.Error(ctx, "pipeline run failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, recordsPath, instancesPath string, refreshCache bool) error {
	log := logger.Get()

	records, err := ingest.LoadRecords(ctx, recordsPath)
	if err != nil {
		return err
	}
	instances, err := ingest.LoadInstances(ctx, instancesPath)
	if err != nil {
		return err
	}

	featureCache, err := cache.New(ctx,
		cache.WithDir(cfg.CacheDir),
		cache.WithInMemory(cfg.CacheInMemory),
		cache.WithLogger(log),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := featureCache.Close(); err != nil {
			log.Warn(ctx, "closing feature cache", logger.Error(err))
		}
	}()

	pipeline := app.New(
		app.WithLogger(log),
		app.WithSchemaVersion(cfg.FeatureSchemaVersion),
		app.WithWindows(cfg.RollingWindowSizes),
		app.WithMinWindowFraction(cfg.MinWindowFraction),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithShardCount(cfg.ShardCount),
		app.WithOutputDir(cfg.OutputDir),
		app.WithCompressionLevel(cfg.CompressionLevel),
		app.WithCache(featureCache),
		app.WithCacheInvalidation(refreshCache),
	)

	ds, path, err := pipeline.Run(ctx, records, instances)
	if err != nil {
		return err
	}

	log.Info(ctx, "dataset ready",
		logger.String("path", path),
		logger.String("run_id", ds.Metadata.RunID),
		logger.Int("rows", ds.Metadata.RowCount),
		logger.Int("columns", len(ds.Metadata.Columns)),
	)
	return nil
}
