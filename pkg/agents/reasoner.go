package agents

import (
	"context"
	"errors"
	"fmt"

	"github.com/gridironlabs/pregame/pkg/evidence"
)

// RawFinding is the unweighted output of one reasoning step. Scores read as
// signal for team A: 0.5 is neutral, above favors A, below favors B.
type RawFinding struct {
	ScoreA     float64 `json:"score_a"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// Valid checks the raw finding's numeric ranges.
func (r *RawFinding) Valid() error {
	if r.ScoreA < 0 || r.ScoreA > 1 {
		return fmt.Errorf("%w: score %.3f outside [0,1]", ErrMalformed, r.ScoreA)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("%w: confidence %.3f outside [0,1]", ErrMalformed, r.Confidence)
	}
	return nil
}

// ErrMalformed marks reasoning output that cannot be used: out-of-range
// scores, unparseable model responses. Not worth retrying with the same
// input, but the executor retries anyway in case the model output varies.
var ErrMalformed = errors.New("malformed agent output")

// ErrTransient marks internal reasoning failures that a retry may clear.
var ErrTransient = errors.New("transient agent error")

// Evidence is the bundle set selected for one task, keyed by source.
type Evidence map[evidence.Source]*evidence.Bundle

// Reasoner runs one bounded analysis step for an agent kind over selected
// evidence. Implementations must respect ctx cancellation; the executor
// applies the per-task timeout.
type Reasoner interface {
	Analyze(ctx context.Context, kind Kind, m evidence.Matchup, ev Evidence) (*RawFinding, error)
}
