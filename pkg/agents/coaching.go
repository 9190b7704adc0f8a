package agents

import (
	"fmt"
	"math"

	"github.com/gridironlabs/pregame/pkg/evidence"
)

// analyzeCoaching scores the coaching edge from career win percentage and
// tenure. Experience dampens the gap: a small record edge means more from a
// ten-year coach than a rookie one.
func analyzeCoaching(abbrA, abbrB string, ev Evidence) (*RawFinding, error) {
	bundle, ok := ev[evidence.SourceCoaching]
	if !ok {
		return nil, fmt.Errorf("%w: coaching evidence missing", ErrMalformed)
	}

	var coachA, coachB *evidence.CoachRecord
	for i := range bundle.Facts.Coaches {
		c := &bundle.Facts.Coaches[i]
		switch c.Team {
		case abbrA:
			coachA = c
		case abbrB:
			coachB = c
		}
	}
	if coachA == nil || coachB == nil {
		return nil, fmt.Errorf("%w: coach records incomplete", ErrMalformed)
	}

	gap := coachA.WinPct - coachB.WinPct
	steady := math.Min(float64(coachA.Seasons), float64(coachB.Seasons))
	// Tenure up to 8 seasons scales trust in the win-pct gap.
	trust := math.Min(steady/8.0, 1.0)

	return &RawFinding{
		ScoreA:     edgeToScore(gap*trust, 0.12),
		Confidence: clamp01(0.45 + 0.25*trust),
		Rationale: fmt.Sprintf("%s (%s, %.0f%% over %d seasons) vs %s (%s, %.0f%% over %d seasons)",
			coachA.Coach, abbrA, coachA.WinPct*100, coachA.Seasons,
			coachB.Coach, abbrB, coachB.WinPct*100, coachB.Seasons),
	}, nil
}
