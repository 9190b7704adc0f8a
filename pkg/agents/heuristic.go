package agents

import (
	"context"
	"fmt"
	"math"

	"github.com/gridironlabs/pregame/pkg/evidence"
)

// HeuristicReasoner is the default reasoning backend: deterministic
// statistical rules per agent kind. Runs are reproducible and need no
// network access beyond evidence fetches.
type HeuristicReasoner struct{}

func NewHeuristicReasoner() *HeuristicReasoner {
	return &HeuristicReasoner{}
}

// Analyze implements Reasoner.
func (h *HeuristicReasoner) Analyze(ctx context.Context, kind Kind, m evidence.Matchup, ev Evidence) (*RawFinding, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}

	abbrA, err := evidence.TeamAbbreviation(m.TeamA)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	abbrB, err := evidence.TeamAbbreviation(m.TeamB)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var raw *RawFinding
	switch kind {
	case KindPerformance:
		raw, err = analyzePerformance(abbrA, abbrB, ev)
	case KindInjury:
		raw, err = analyzeInjuries(abbrA, abbrB, ev)
	case KindWeather:
		raw, err = analyzeWeather(abbrA, abbrB, ev)
	case KindVenue:
		raw, err = analyzeVenue(abbrA, abbrB, ev)
	case KindMatchup:
		raw, err = analyzeMatchup(abbrA, abbrB, ev)
	case KindRoster:
		raw, err = analyzeRoster(abbrA, abbrB, ev)
	case KindCoaching:
		raw, err = analyzeCoaching(abbrA, abbrB, ev)
	case KindSeasonStats:
		raw, err = analyzeSeasonStats(abbrA, abbrB, ev)
	default:
		return nil, fmt.Errorf("%w: no analyzer for kind %q", ErrMalformed, kind)
	}
	if err != nil {
		return nil, err
	}
	if err := raw.Valid(); err != nil {
		return nil, err
	}
	return raw, nil
}

// clamp01 bounds v to [0,1].
func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// edgeToScore converts a signed edge for team A (positive favors A) into a
// score in (0,1) via a logistic curve. scale controls how fast the edge
// saturates.
func edgeToScore(edge, scale float64) float64 {
	return 1.0 / (1.0 + math.Exp(-edge/scale))
}

// trend returns the mean first difference of the series: positive when the
// values are improving game over game.
func trend(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for i := 1; i < len(values); i++ {
		sum += values[i] - values[i-1]
	}
	return sum / float64(len(values)-1)
}
