// Command gen-records writes a deterministic synthetic league as raw
// records and labeled instances, for local pipeline runs.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/statline/internal/adapters/ingest"
	"github.com/okian/statline/internal/gen"
	"github.com/okian/statline/pkg/logger"
)

func main() {
	var (
		recordsOut   = flag.String("records", "records.json", "Output path for raw records")
		instancesOut = flag.String("instances", "instances.json", "Output path for instances")
		seed         = flag.Int64("seed", 42, "Random seed")
		teams        = flag.Int("teams", 16, "Number of teams")
		seasons      = flag.Int("seasons", 3, "Number of seasons (max 3, one schema version each)")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g := gen.New(
		gen.WithSeed(*seed),
		gen.WithTeamCount(*teams),
		gen.WithSeasons(*seasons),
	)
	records, instances := g.Generate(ctx)

	if err := ingest.WriteRecords(ctx, *recordsOut, records); err != nil {
		log.Error(ctx, "writing records", logger.Error(err))
		os.Exit(1)
	}
	if err := ingest.WriteInstances(ctx, *instancesOut, instances); err != nil {
		log.Error(ctx, "writing instances", logger.Error(err))
		os.Exit(1)
	}

	log.Info(ctx, "synthetic league written",
		logger.String("records", *recordsOut),
		logger.String("instances", *instancesOut),
		logger.Int("record_count", len(records)),
		logger.Int("instance_count", len(instances)),
	)
}
