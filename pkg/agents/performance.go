package agents

import (
	"fmt"

	"github.com/gridironlabs/pregame/pkg/evidence"
)

// Momentum factor weights. Scoring trend dominates; yardage and third-down
// efficiency split the remainder.
const (
	momentumYardsWeight      = 0.3
	momentumScoringWeight    = 0.4
	momentumEfficiencyWeight = 0.3
)

// analyzePerformance scores recent form: per-team momentum from game-over-game
// trends in total yards, points, and third-down conversion, then the momentum
// gap converted to an edge for team A.
func analyzePerformance(abbrA, abbrB string, ev Evidence) (*RawFinding, error) {
	bundle, ok := ev[evidence.SourceTeamStats]
	if !ok || bundle.Facts.TeamStats == nil {
		return nil, fmt.Errorf("%w: team stats evidence missing", ErrMalformed)
	}
	stats := bundle.Facts.TeamStats

	gamesA := stats[abbrA]
	gamesB := stats[abbrB]
	if len(gamesA) == 0 || len(gamesB) == 0 {
		return nil, fmt.Errorf("%w: no recent games for %s or %s", ErrMalformed, abbrA, abbrB)
	}

	momA := momentumScore(gamesA)
	momB := momentumScore(gamesB)
	score := edgeToScore(momA-momB, 12.0)

	// More games on both sides means a steadier trend estimate.
	n := min(len(gamesA), len(gamesB))
	confidence := clamp01(0.5 + 0.1*float64(n))

	return &RawFinding{
		ScoreA:     score,
		Confidence: confidence,
		Rationale: fmt.Sprintf("momentum %s %.1f vs %s %.1f over last %d games",
			abbrA, momA, abbrB, momB, n),
	}, nil
}

// momentumScore combines yardage, scoring, and efficiency trends with the
// declared factor weights.
func momentumScore(games []evidence.GameLine) float64 {
	yards := make([]float64, len(games))
	points := make([]float64, len(games))
	thirds := make([]float64, len(games))
	for i, g := range games {
		yards[i] = float64(g.TotalYards)
		points[i] = float64(g.Points)
		thirds[i] = g.ThirdDownRate * 100
	}
	return momentumYardsWeight*trend(yards) +
		momentumScoringWeight*trend(points) +
		momentumEfficiencyWeight*trend(thirds)
}
