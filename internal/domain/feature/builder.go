// Package feature computes temporal features from entity timelines.
//
// Every feature is computed "as of" a timestamp, and only records
// strictly earlier than that timestamp contribute. Sparse-data
// conditions never fail a build: they resolve to in-band markers so
// the builder always returns a well-formed vector.
package feature

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/statline/internal/domain/model"
	"github.com/okian/statline/internal/domain/schema"
	"github.com/okian/statline/pkg/logger"
	"github.com/okian/statline/pkg/metrics"
)

// Default builder configuration constants.
const (
	defaultMinWindowFraction = 0.25
)

// defaultWindows are the rolling window sizes used when configuration
// does not override them.
var defaultWindows = []int{3, 5, 10}

// ratePair names a trailing rate feature and the made/attempted
// attributes its numerator and denominator sum over.
type ratePair struct {
	name string
	made string
	att  string
}

var ratePairs = []ratePair{
	{name: "field_goal_pct", made: schema.AttrFieldGoalsMade, att: schema.AttrFieldGoalsAttempted},
	{name: "three_point_pct", made: schema.AttrThreePointsMade, att: schema.AttrThreePointsAttempted},
	{name: "free_throw_pct", made: schema.AttrFreeThrowsMade, att: schema.AttrFreeThrowsAttempted},
}

// Builder computes FeatureVectors under one frozen feature-schema
// version. A Builder is safe for concurrent use: it holds no mutable
// state and timelines are read-only by the time features are computed.
type Builder struct {
	set               schema.FeatureSet
	windows           []int
	minWindowFraction float64
	logger            logger.Logger
}

// New creates a builder for the given feature set with options.
func New(set schema.FeatureSet, opts ...Option) *Builder {
	b := &Builder{
		set:               set,
		windows:           defaultWindows,
		minWindowFraction: defaultMinWindowFraction,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SchemaVersion returns the feature-schema version this builder is
// frozen to.
func (b *Builder) SchemaVersion() string {
	return b.set.Version
}

// Build computes the feature vector for one entity as of asOf.
// opponent may be nil; opponent-adjusted features then resolve to
// Unavailable. The returned vector is always fully populated.
func (b *Builder) Build(ctx context.Context, tl *model.Timeline, opponent *model.Timeline, asOf time.Time) model.FeatureVector {
	prefix := tl.Before(asOf)

	features := make(map[string]model.Value)
	for _, attr := range schema.Canonical() {
		series := numericSeries(prefix, attr)
		if b.set.SMA {
			for _, w := range b.windows {
				features[fmt.Sprintf("%s_sma%d", attr, w)] = b.windowed(prefix, series, w, mean)
			}
		}
		if b.set.CMA {
			features[attr+"_cma"] = b.expanding(prefix, series)
		}
		if b.set.EMA {
			for _, w := range b.windows {
				features[fmt.Sprintf("%s_ema%d", attr, w)] = b.exponential(prefix, series, w)
			}
		}
	}

	if b.set.Rates {
		for _, rp := range ratePairs {
			for _, w := range b.windows {
				features[fmt.Sprintf("%s%d", rp.name, w)] = b.rate(prefix, rp, w)
			}
		}
	}

	if b.set.OpponentAdjusted {
		for _, w := range b.windows {
			features[fmt.Sprintf("adj_margin%d", w)] = b.adjMargin(prefix, opponent, asOf, w)
		}
	}

	b.observe(features)
	metrics.RecordVectorBuilt()

	return model.FeatureVector{
		EntityID:      tl.EntityID,
		AsOf:          asOf,
		SchemaVersion: b.set.Version,
		Features:      features,
	}
}

// observe feeds data-quality counters from the finished vector.
func (b *Builder) observe(features map[string]model.Value) {
	for _, v := range features {
		switch {
		case v.Kind == model.KindUndefined:
			metrics.RecordUndefinedRate()
		case v.IsNumber() && v.Incomplete:
			metrics.RecordIncompleteWindow()
		}
	}
}

// numericSeries extracts the usable numeric observations of one
// attribute from the prefix, oldest first. Unavailable markers are
// excluded: they represent stats never collected, not zeroes.
func numericSeries(prefix []model.CanonicalRecord, attr string) []float64 {
	out := make([]float64, 0, len(prefix))
	for _, rec := range prefix {
		if f, ok := rec.Attrs[attr].Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// windowed computes an aggregate over the trailing window of a series.
//
// Resolution order: an empty prefix is insufficient history; a prefix
// shorter than minWindowFraction of the window is insufficient
// history; a window with no usable observations is unavailable.
// Otherwise the aggregate is computed over the available observations
// and flagged incomplete when fewer than window games contributed.
func (b *Builder) windowed(prefix []model.CanonicalRecord, series []float64, window int, agg func([]float64) float64) model.Value {
	if len(prefix) == 0 {
		return model.InsufficientHistory()
	}
	if float64(len(prefix)) < b.minWindowFraction*float64(window) {
		return model.InsufficientHistory()
	}
	tail := series
	if len(tail) > window {
		tail = tail[len(tail)-window:]
	}
	if len(tail) == 0 {
		return model.Unavailable()
	}
	v := agg(tail)
	if len(tail) < window {
		return model.IncompleteNumber(v)
	}
	return model.Number(v)
}

// exponential computes the exponential moving average with the given
// span over the full prior history, seeded with the oldest observation.
// The span sets the decay, not a cutoff: every prior observation
// contributes. Gating mirrors windowed: too little history is
// insufficient, no usable observations is unavailable, and fewer than
// span observations flags the value incomplete.
func (b *Builder) exponential(prefix []model.CanonicalRecord, series []float64, span int) model.Value {
	if len(prefix) == 0 {
		return model.InsufficientHistory()
	}
	if float64(len(prefix)) < b.minWindowFraction*float64(span) {
		return model.InsufficientHistory()
	}
	if len(series) == 0 {
		return model.Unavailable()
	}
	v := emaOf(span)(series)
	if len(series) < span {
		return model.IncompleteNumber(v)
	}
	return model.Number(v)
}

// expanding computes the cumulative mean over all prior observations.
func (b *Builder) expanding(prefix []model.CanonicalRecord, series []float64) model.Value {
	if len(prefix) == 0 {
		return model.InsufficientHistory()
	}
	if len(series) == 0 {
		return model.Unavailable()
	}
	return model.Number(mean(series))
}

// rate computes made/attempted over trailing window sums. Only records
// where both sides are usable numbers qualify. A zero attempt total
// resolves to Undefined, never to zero or an error.
func (b *Builder) rate(prefix []model.CanonicalRecord, rp ratePair, window int) model.Value {
	if len(prefix) == 0 {
		return model.InsufficientHistory()
	}
	if float64(len(prefix)) < b.minWindowFraction*float64(window) {
		return model.InsufficientHistory()
	}

	type pair struct{ made, att float64 }
	pairs := make([]pair, 0, len(prefix))
	for _, rec := range prefix {
		made, okM := rec.Attrs[rp.made].Float()
		att, okA := rec.Attrs[rp.att].Float()
		if okM && okA {
			pairs = append(pairs, pair{made, att})
		}
	}
	if len(pairs) > window {
		pairs = pairs[len(pairs)-window:]
	}
	if len(pairs) == 0 {
		return model.Unavailable()
	}

	var made, att float64
	for _, p := range pairs {
		made += p.made
		att += p.att
	}
	if att == 0 {
		return model.Undefined()
	}
	if len(pairs) < window {
		return model.IncompleteNumber(made / att)
	}
	return model.Number(made / att)
}

// adjMargin computes own trailing scoring average minus the opponent's
// trailing points-allowed average. Marker states propagate: a missing
// opponent timeline is Unavailable, and either side lacking history
// makes the whole feature insufficient.
func (b *Builder) adjMargin(prefix []model.CanonicalRecord, opponent *model.Timeline, asOf time.Time, window int) model.Value {
	if opponent == nil {
		return model.Unavailable()
	}
	oppPrefix := opponent.Before(asOf)

	own := b.windowed(prefix, numericSeries(prefix, schema.AttrPoints), window, mean)
	allowed := b.windowed(oppPrefix, numericSeries(oppPrefix, schema.AttrPointsAllowed), window, mean)

	if own.Kind == model.KindInsufficientHistory || allowed.Kind == model.KindInsufficientHistory {
		return model.InsufficientHistory()
	}
	ownF, okOwn := own.Float()
	allowedF, okAllowed := allowed.Float()
	if !okOwn || !okAllowed {
		return model.Unavailable()
	}
	if own.Incomplete || allowed.Incomplete {
		return model.IncompleteNumber(ownF - allowedF)
	}
	return model.Number(ownF - allowedF)
}

// mean is the simple average aggregate.
func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// emaOf returns an exponential moving average aggregate with
// alpha = 2/(span+1), seeded with the oldest observation.
func emaOf(span int) func([]float64) float64 {
	alpha := 2.0 / (float64(span) + 1.0)
	return func(xs []float64) float64 {
		ema := xs[0]
		for _, x := range xs[1:] {
			ema = alpha*x + (1-alpha)*ema
		}
		return ema
	}
}
