package agents

import (
	"fmt"
	"math"

	"github.com/gridironlabs/pregame/pkg/evidence"
)

// analyzeSeasonStats blends standings win percentage with a Pythagorean
// expectation from points for/against, which is less noisy than raw record.
func analyzeSeasonStats(abbrA, abbrB string, ev Evidence) (*RawFinding, error) {
	bundle, ok := ev[evidence.SourceStandings]
	if !ok {
		return nil, fmt.Errorf("%w: standings evidence missing", ErrMalformed)
	}

	var recA, recB *evidence.TeamRecord
	for i := range bundle.Facts.Standings {
		r := &bundle.Facts.Standings[i]
		switch r.Team {
		case abbrA:
			recA = r
		case abbrB:
			recB = r
		}
	}
	if recA == nil || recB == nil {
		return nil, fmt.Errorf("%w: standings incomplete", ErrMalformed)
	}

	strengthA := teamStrength(recA)
	strengthB := teamStrength(recB)
	games := recA.Wins + recA.Losses
	// Early-season records say little.
	confidence := clamp01(0.35 + 0.035*float64(games))

	return &RawFinding{
		ScoreA:     edgeToScore(strengthA-strengthB, 0.15),
		Confidence: confidence,
		Rationale: fmt.Sprintf("%s %d-%d (strength %.2f) vs %s %d-%d (strength %.2f)",
			abbrA, recA.Wins, recA.Losses, strengthA,
			abbrB, recB.Wins, recB.Losses, strengthB),
	}, nil
}

// teamStrength is 50/50 actual win pct and Pythagorean expectation with the
// standard football exponent of 2.37.
func teamStrength(r *evidence.TeamRecord) float64 {
	games := r.Wins + r.Losses
	if games == 0 {
		return 0.5
	}
	winPct := float64(r.Wins) / float64(games)

	pf := math.Pow(float64(r.PointsFor), 2.37)
	pa := math.Pow(float64(r.PointsAgainst), 2.37)
	pyth := 0.5
	if pf+pa > 0 {
		pyth = pf / (pf + pa)
	}
	return 0.5*winPct + 0.5*pyth
}
