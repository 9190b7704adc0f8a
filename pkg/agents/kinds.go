// Package agents defines the closed set of analysis agent kinds, their
// evidence selectors and synthesis base weights, and the reasoning contract
// each kind fulfills to turn evidence into a scored finding.
package agents

import (
	"fmt"

	"github.com/gridironlabs/pregame/pkg/evidence"
)

// Kind identifies one analysis agent.
type Kind string

const (
	KindPerformance Kind = "performance"
	KindInjury      Kind = "injury"
	KindWeather     Kind = "weather"
	KindVenue       Kind = "venue"
	KindMatchup     Kind = "matchup"
	KindRoster      Kind = "roster"
	KindCoaching    Kind = "coaching"
	KindSeasonStats Kind = "season_stats"
)

// profile declares an agent kind's evidence needs and synthesis weight.
type profile struct {
	baseWeight float64
	selectors  []evidence.Source
	optional   map[evidence.Source]bool
}

var profiles = map[Kind]profile{
	KindPerformance: {
		baseWeight: 1.0,
		selectors:  []evidence.Source{evidence.SourceTeamStats},
	},
	KindInjury: {
		baseWeight: 0.9,
		selectors:  []evidence.Source{evidence.SourceInjuries},
	},
	KindWeather: {
		baseWeight: 0.5,
		selectors:  []evidence.Source{evidence.SourceWeather, evidence.SourceVenue},
		optional:   map[evidence.Source]bool{evidence.SourceVenue: true},
	},
	KindVenue: {
		baseWeight: 0.6,
		selectors:  []evidence.Source{evidence.SourceVenue},
	},
	KindMatchup: {
		baseWeight: 1.0,
		selectors:  []evidence.Source{evidence.SourceHeadToHead},
	},
	KindRoster: {
		baseWeight: 0.7,
		selectors:  []evidence.Source{evidence.SourceRoster},
	},
	KindCoaching: {
		baseWeight: 0.6,
		selectors:  []evidence.Source{evidence.SourceCoaching},
	},
	KindSeasonStats: {
		baseWeight: 0.8,
		selectors:  []evidence.Source{evidence.SourceStandings},
	},
}

// Kinds returns every known agent kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindPerformance,
		KindInjury,
		KindWeather,
		KindVenue,
		KindMatchup,
		KindRoster,
		KindCoaching,
		KindSeasonStats,
	}
}

// ParseKind validates a kind string from config or CLI flags.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := profiles[k]; !ok {
		return "", fmt.Errorf("unknown agent kind %q", s)
	}
	return k, nil
}

// BaseWeight returns the kind's declared synthesis weight. Unknown kinds
// weigh zero.
func BaseWeight(k Kind) float64 {
	return profiles[k].baseWeight
}

// Selectors returns the evidence sources the kind reads.
func Selectors(k Kind) []evidence.Source {
	sel := profiles[k].selectors
	out := make([]evidence.Source, len(sel))
	copy(out, sel)
	return out
}

// Optional reports whether the kind can proceed without the given source.
// Missing optional evidence degrades the finding instead of failing it.
func Optional(k Kind, s evidence.Source) bool {
	return profiles[k].optional[s]
}
