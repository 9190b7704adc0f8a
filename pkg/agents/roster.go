package agents

import (
	"fmt"
	"strings"

	"github.com/gridironlabs/pregame/pkg/evidence"
)

// Direction of each transaction type for the team making it.
var rosterChangeSign = map[string]float64{
	"added":      1.0,
	"activated":  1.0,
	"traded_in":  1.0,
	"released":   -1.0,
	"traded_out": -1.0,
}

// analyzeRoster nets out recent transactions per team, weighting by position
// leverage, and scores the difference.
func analyzeRoster(abbrA, abbrB string, ev Evidence) (*RawFinding, error) {
	bundle, ok := ev[evidence.SourceRoster]
	if !ok {
		return nil, fmt.Errorf("%w: roster evidence missing", ErrMalformed)
	}

	var netA, netB float64
	counted := 0
	for _, mv := range bundle.Facts.Moves {
		sign, ok := rosterChangeSign[strings.ToLower(mv.Change)]
		if !ok {
			continue
		}
		weight := injuryPositionWeight[strings.ToUpper(mv.Position)]
		if weight == 0 {
			weight = 1.0
		}
		switch mv.Team {
		case abbrA:
			netA += sign * weight
			counted++
		case abbrB:
			netB += sign * weight
			counted++
		}
	}

	if counted == 0 {
		return &RawFinding{
			ScoreA:     0.5,
			Confidence: 0.35,
			Rationale:  "no recent roster moves for either team",
		}, nil
	}

	return &RawFinding{
		ScoreA:     edgeToScore(netA-netB, 4.0),
		Confidence: 0.55,
		Rationale:  fmt.Sprintf("net roster impact %s %+.1f vs %s %+.1f over %d moves", abbrA, netA, abbrB, netB, counted),
	}, nil
}
