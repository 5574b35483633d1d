// Package assemble joins per-entity feature vectors into one row per
// prediction instance.
package assemble

import (
	"context"

	"github.com/okian/statline/internal/domain/model"
	"github.com/okian/statline/pkg/metrics"
)

// Cell name prefixes. The home/away split mirrors how matchup rows are
// laid out for training: one column set per side plus derived diffs.
const (
	homePrefix = "home_"
	awayPrefix = "away_"
	diffPrefix = "diff_"

	// homeCourtCell is the instance-level home-advantage indicator.
	homeCourtCell = "home_court"

	neutralVenue = "neutral"
)

// Assembler joins feature vectors under one frozen feature-schema
// version. It never recomputes features: it only joins and derives
// instance-level cross-features.
type Assembler struct {
	version string
}

// New creates an assembler pinned to a feature-schema version.
func New(version string) *Assembler {
	return &Assembler{version: version}
}

// Assemble builds one row from an instance and its two entities'
// feature vectors. It returns a *SchemaMismatchError when the vectors
// disagree with each other or with the assembler's pinned version.
func (a *Assembler) Assemble(ctx context.Context, inst model.Instance, home, away model.FeatureVector) (model.Row, error) {
	if home.SchemaVersion != a.version || away.SchemaVersion != a.version {
		metrics.RecordInstanceRejected()
		return model.Row{}, &SchemaMismatchError{
			InstanceID:  inst.ID,
			HomeVersion: home.SchemaVersion,
			AwayVersion: away.SchemaVersion,
		}
	}

	cells := make(map[string]model.Value, 2*len(home.Features)+len(home.Features)+1)
	for name, v := range home.Features {
		cells[homePrefix+name] = v
	}
	for name, v := range away.Features {
		cells[awayPrefix+name] = v
	}

	// Cross-features: difference of same-named features, derived only
	// when both sides are plain numbers. Marker states propagate so a
	// model can still observe which side was sparse.
	for name, hv := range home.Features {
		av, ok := away.Features[name]
		if !ok {
			continue
		}
		cells[diffPrefix+name] = diff(hv, av)
	}

	if inst.Venue == neutralVenue {
		cells[homeCourtCell] = model.Number(0)
	} else {
		cells[homeCourtCell] = model.Number(1)
	}

	metrics.RecordInstanceAssembled()
	return model.Row{
		InstanceID:    inst.ID,
		Timestamp:     inst.Timestamp,
		SchemaVersion: a.version,
		Cells:         cells,
		Label:         inst.Label,
	}, nil
}

// diff subtracts away from home, propagating marker states. When the
// sides carry different markers the sparser one wins: insufficient
// history dominates unavailable dominates undefined.
func diff(home, away model.Value) model.Value {
	h, okH := home.Float()
	aw, okA := away.Float()
	if okH && okA {
		if home.Incomplete || away.Incomplete {
			return model.IncompleteNumber(h - aw)
		}
		return model.Number(h - aw)
	}
	for _, kind := range []model.Kind{model.KindInsufficientHistory, model.KindUnavailable, model.KindUndefined} {
		if home.Kind == kind || away.Kind == kind {
			return model.Value{Kind: kind}
		}
	}
	return model.Unavailable()
}
