// Package schema owns the two version axes of the pipeline: the
// source-schema mapping tables that translate legacy attribute names
// onto the canonical set, and the feature-schema registry that freezes
// which feature set a run computes.
package schema

import "sort"

// Canonical attribute names. Every CanonicalRecord carries exactly this
// set; attributes a source schema never collected are marked
// unavailable rather than zero-filled.
const (
	AttrPoints               = "points"
	AttrPointsAllowed        = "points_allowed"
	AttrFieldGoalsMade       = "field_goals_made"
	AttrFieldGoalsAttempted  = "field_goals_attempted"
	AttrThreePointsMade      = "three_points_made"
	AttrThreePointsAttempted = "three_points_attempted"
	AttrFreeThrowsMade       = "free_throws_made"
	AttrFreeThrowsAttempted  = "free_throws_attempted"
	AttrRebounds             = "rebounds"
	AttrOffensiveRebounds    = "offensive_rebounds"
	AttrAssists              = "assists"
	AttrTurnovers            = "turnovers"
	AttrSteals               = "steals"
	AttrBlocks               = "blocks"
)

// Mapping resolves one source-schema version. For each canonical
// attribute it lists the legacy names to try, in order. A canonical
// attribute with no entry was not collected under that schema.
type Mapping struct {
	Version string
	legacy  map[string][]string
}

// LegacyNames returns the legacy candidates for a canonical attribute,
// or nil when the attribute is structurally absent from this schema.
func (m Mapping) LegacyNames(canonical string) []string {
	return m.legacy[canonical]
}

// canonicalOrder is the deterministic column order used everywhere a
// record's attributes are iterated.
var canonicalOrder = []string{
	AttrPoints,
	AttrPointsAllowed,
	AttrFieldGoalsMade,
	AttrFieldGoalsAttempted,
	AttrThreePointsMade,
	AttrThreePointsAttempted,
	AttrFreeThrowsMade,
	AttrFreeThrowsAttempted,
	AttrRebounds,
	AttrOffensiveRebounds,
	AttrAssists,
	AttrTurnovers,
	AttrSteals,
	AttrBlocks,
}

// Canonical returns the canonical attribute set in deterministic order.
// Callers must not mutate the returned slice.
func Canonical() []string {
	return canonicalOrder
}

// identity maps every canonical attribute onto itself.
func identity() map[string][]string {
	m := make(map[string][]string, len(canonicalOrder))
	for _, attr := range canonicalOrder {
		m[attr] = []string{attr}
	}
	return m
}

// mappings holds the known source-schema versions.
//
// v0 is the pre-2011 scrape: abbreviated names, no three-point or
// offensive-rebound tracking. v1 adds those columns, still under
// abbreviated names. v2 is the canonical layout.
var mappings = map[string]Mapping{
	"v0": {
		Version: "v0",
		legacy: map[string][]string{
			AttrPoints:              {"pts"},
			AttrPointsAllowed:       {"opp_pts"},
			AttrFieldGoalsMade:      {"fgm", "fg"},
			AttrFieldGoalsAttempted: {"fga"},
			AttrFreeThrowsMade:      {"ftm", "ft"},
			AttrFreeThrowsAttempted: {"fta"},
			AttrRebounds:            {"reb", "trb"},
			AttrAssists:             {"ast"},
			AttrTurnovers:           {"to", "tov"},
			AttrSteals:              {"stl"},
			AttrBlocks:              {"blk"},
		},
	},
	"v1": {
		Version: "v1",
		legacy: map[string][]string{
			AttrPoints:               {"pts"},
			AttrPointsAllowed:        {"opp_pts"},
			AttrFieldGoalsMade:       {"fgm"},
			AttrFieldGoalsAttempted:  {"fga"},
			AttrThreePointsMade:      {"tpm", "fg3"},
			AttrThreePointsAttempted: {"tpa", "fg3a"},
			AttrFreeThrowsMade:       {"ftm"},
			AttrFreeThrowsAttempted:  {"fta"},
			AttrRebounds:             {"reb"},
			AttrOffensiveRebounds:    {"oreb", "orb"},
			AttrAssists:              {"ast"},
			AttrTurnovers:            {"to"},
			AttrSteals:               {"stl"},
			AttrBlocks:               {"blk"},
		},
	},
	"v2": {
		Version: "v2",
		legacy:  identity(),
	},
}

// Lookup returns the mapping table for a source-schema version.
func Lookup(version string) (Mapping, bool) {
	m, ok := mappings[version]
	return m, ok
}

// Versions returns the known source-schema versions, sorted.
func Versions() []string {
	out := make([]string, 0, len(mappings))
	for v := range mappings {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
