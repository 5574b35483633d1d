// Package gen produces synthetic seasons of raw records and matchup
// instances for local runs and load testing. Output is deterministic
// for a given seed so generated fixtures are reproducible.
package gen

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/okian/statline/internal/domain/model"
)

// Default generation constants.
const (
	defaultSeed       = 42
	defaultTeamCount  = 16
	defaultSeasons    = 3
	defaultGamesPerWk = 8

	seasonWeeks = 18
)

// seasonSchemas assigns a source-schema version per season age: the
// oldest generated season uses the oldest scrape layout.
var seasonSchemas = []string{"v0", "v1", "v2"}

// Generator produces synthetic raw records and instances.
type Generator struct {
	seed      int64
	teamCount int
	seasons   int
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSeed sets the random seed.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithTeamCount sets the number of teams in the synthetic league.
func WithTeamCount(n int) Option {
	return func(g *Generator) {
		if n >= 2 {
			g.teamCount = n
		}
	}
}

// WithSeasons sets how many seasons to generate.
func WithSeasons(n int) Option {
	return func(g *Generator) {
		if n > 0 && n <= len(seasonSchemas) {
			g.seasons = n
		}
	}
}

// New creates a generator with configuration options.
func New(opts ...Option) *Generator {
	g := &Generator{
		seed:      defaultSeed,
		teamCount: defaultTeamCount,
		seasons:   defaultSeasons,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces the raw records and labeled instances for the
// configured league. Each game yields two records (one per team) under
// the season's source schema, and one labeled instance.
func (g *Generator) Generate(ctx context.Context) ([]model.RawRecord, []model.Instance) {
	rng := rand.New(rand.NewSource(g.seed))

	teams := make([]string, g.teamCount)
	for i := range teams {
		teams[i] = fmt.Sprintf("team-%02d", i+1)
	}

	var records []model.RawRecord
	var instances []model.Instance

	firstSeason := time.Date(2020, time.November, 1, 0, 0, 0, 0, time.UTC)
	for season := 0; season < g.seasons; season++ {
		schemaVersion := seasonSchemas[len(seasonSchemas)-g.seasons+season]
		seasonStart := firstSeason.AddDate(season, 0, 0)

		for week := 0; week < seasonWeeks; week++ {
			gameDate := seasonStart.AddDate(0, 0, 7*week)
			// Rotate pairings so every team plays weekly.
			perm := rng.Perm(g.teamCount)
			for i := 0; i+1 < g.teamCount; i += 2 {
				home, away := teams[perm[i]], teams[perm[i+1]]
				homeRec, awayRec, margin := g.game(rng, home, away, gameDate, schemaVersion)
				records = append(records, homeRec, awayRec)

				label := margin
				instances = append(instances, model.Instance{
					ID:         fmt.Sprintf("%s_%s_%s", gameDate.Format("20060102"), home, away),
					HomeEntity: home,
					AwayEntity: away,
					Timestamp:  gameDate,
					Label:      &label,
				})
			}
		}
	}
	return records, instances
}

// game generates both teams' stat lines for one game and returns the
// home scoring margin as the label.
func (g *Generator) game(rng *rand.Rand, home, away string, date time.Time, schemaVersion string) (model.RawRecord, model.RawRecord, float64) {
	homeStats := statLine(rng)
	awayStats := statLine(rng)

	homeRec := record(home, date, schemaVersion, homeStats, awayStats)
	awayRec := record(away, date, schemaVersion, awayStats, homeStats)
	return homeRec, awayRec, float64(homeStats.points - awayStats.points)
}

// stats is a full canonical stat line before schema down-translation.
type stats struct {
	points, fgm, fga, tpm, tpa, ftm, fta int
	reb, oreb, ast, to, stl, blk         int
}

// statLine draws a plausible college box score.
func statLine(rng *rand.Rand) stats {
	fgm := 18 + rng.Intn(18)
	tpm := 4 + rng.Intn(10)
	ftm := 8 + rng.Intn(14)
	s := stats{
		fgm:  fgm,
		fga:  fgm + 20 + rng.Intn(25),
		tpm:  tpm,
		tpa:  tpm + 8 + rng.Intn(14),
		ftm:  ftm,
		fta:  ftm + 2 + rng.Intn(8),
		reb:  25 + rng.Intn(20),
		oreb: 6 + rng.Intn(10),
		ast:  8 + rng.Intn(14),
		to:   6 + rng.Intn(12),
		stl:  3 + rng.Intn(8),
		blk:  1 + rng.Intn(6),
	}
	s.points = 2*(s.fgm-s.tpm) + 3*s.tpm + s.ftm
	return s
}

// record emits one team's raw record using the attribute names of the
// given source schema. Older schemas simply never carry the columns
// they predate.
func record(entityID string, date time.Time, schemaVersion string, own, opp stats) model.RawRecord {
	attrs := map[string]float64{
		"pts":     float64(own.points),
		"opp_pts": float64(opp.points),
		"fgm":     float64(own.fgm),
		"fga":     float64(own.fga),
		"ftm":     float64(own.ftm),
		"fta":     float64(own.fta),
		"reb":     float64(own.reb),
		"ast":     float64(own.ast),
		"to":      float64(own.to),
		"stl":     float64(own.stl),
		"blk":     float64(own.blk),
	}
	if schemaVersion != "v0" {
		attrs["tpm"] = float64(own.tpm)
		attrs["tpa"] = float64(own.tpa)
		attrs["oreb"] = float64(own.oreb)
	}
	if schemaVersion == "v2" {
		attrs = canonicalize(attrs)
	}
	return model.RawRecord{
		EntityID:      entityID,
		Timestamp:     date,
		SchemaVersion: schemaVersion,
		Attrs:         attrs,
	}
}

// v2 uses the canonical names on the wire.
var v2Names = map[string]string{
	"pts":     "points",
	"opp_pts": "points_allowed",
	"fgm":     "field_goals_made",
	"fga":     "field_goals_attempted",
	"tpm":     "three_points_made",
	"tpa":     "three_points_attempted",
	"ftm":     "free_throws_made",
	"fta":     "free_throws_attempted",
	"reb":     "rebounds",
	"oreb":    "offensive_rebounds",
	"ast":     "assists",
	"to":      "turnovers",
	"stl":     "steals",
	"blk":     "blocks",
}

func canonicalize(attrs map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(attrs))
	for k, v := range attrs {
		out[v2Names[k]] = v
	}
	return out
}
