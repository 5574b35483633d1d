package schema

// FeatureSet is a frozen feature-schema version: it fixes which feature
// families a run computes. Changing any family means minting a new
// version, because vectors from different versions must never be mixed
// in one dataset row.
type FeatureSet struct {
	Version string

	// Trailing simple moving average per rolling window.
	SMA bool
	// Cumulative (expanding) mean over all prior games.
	CMA bool
	// Exponential moving average per rolling window.
	EMA bool
	// Shooting-percentage rates over trailing window sums.
	Rates bool
	// Opponent-adjusted scoring margin; needs the opponent timeline.
	OpponentAdjusted bool
}

// featureSets holds the frozen feature-schema versions. fs1 is the
// original moving-average set; fs2 adds EMA, shooting rates, and the
// opponent-adjusted margin.
var featureSets = map[string]FeatureSet{
	"fs1": {
		Version: "fs1",
		SMA:     true,
		CMA:     true,
	},
	"fs2": {
		Version:          "fs2",
		SMA:              true,
		CMA:              true,
		EMA:              true,
		Rates:            true,
		OpponentAdjusted: true,
	},
}

// DefaultFeatureSetVersion is used when configuration does not pick one.
const DefaultFeatureSetVersion = "fs2"

// LookupFeatureSet returns the frozen feature set for a version.
func LookupFeatureSet(version string) (FeatureSet, bool) {
	fs, ok := featureSets[version]
	return fs, ok
}
