package agents

import (
	"fmt"

	"github.com/gridironlabs/pregame/pkg/evidence"
)

// League-average home advantage, expressed as a score offset.
const homeFieldEdge = 0.07

// analyzeVenue scores home-field advantage: the home side gets the standard
// edge, with a small bump for a dome team playing under its own roof.
func analyzeVenue(abbrA, abbrB string, ev Evidence) (*RawFinding, error) {
	bundle, ok := ev[evidence.SourceVenue]
	if !ok || bundle.Facts.Venue == nil {
		return nil, fmt.Errorf("%w: venue evidence missing", ErrMalformed)
	}
	v := bundle.Facts.Venue

	score := 0.5
	rationale := fmt.Sprintf("neutral site %s (%s)", v.Stadium, v.City)
	switch v.HomeTeam {
	case abbrA:
		score = 0.5 + homeFieldEdge
		rationale = fmt.Sprintf("%s at home in %s", abbrA, v.Stadium)
	case abbrB:
		score = 0.5 - homeFieldEdge
		rationale = fmt.Sprintf("%s at home in %s", abbrB, v.Stadium)
	}

	if v.Dome && v.HomeTeam != "" {
		// Dome teams defend controlled conditions well.
		if v.HomeTeam == abbrA {
			score += 0.02
		} else if v.HomeTeam == abbrB {
			score -= 0.02
		}
		rationale += " (dome)"
	}

	return &RawFinding{
		ScoreA:     clamp01(score),
		Confidence: 0.7,
		Rationale:  rationale,
	}, nil
}
