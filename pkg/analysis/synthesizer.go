package analysis

import (
	"math"
	"sort"

	"github.com/gridironlabs/pregame/pkg/agents"
	"github.com/gridironlabs/pregame/pkg/workflow"
)

// Squash steepness for the logistic converting the weighted mean score into
// a probability. Chosen so a strong consensus (mean 0.7) lands near 0.77
// rather than saturating.
const squashSteepness = 6.0

// Confidence band bounds: never narrower than the floor even on a perfect
// run, never wider than floor+span.
const (
	bandFloor = 0.05
	bandSpan  = 0.40
)

// degradeFactor is the weight multiplier for findings that completed on
// stale or partial evidence.
const degradeFactor = 0.5

// Contribution pairs a finding with the weight it carried in synthesis.
type Contribution struct {
	workflow.Finding
	Weight float64 `json:"weight"`
}

// Band is the confidence interval around the win probability.
type Band struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Width float64 `json:"width"`
}

// SynthesisResult is the terminal artifact of one run.
type SynthesisResult struct {
	RunID           string         `json:"run_id,omitempty"`
	WinProbabilityA float64        `json:"win_probability_a"`
	WinProbabilityB float64        `json:"win_probability_b"`
	ConfidenceBand  Band           `json:"confidence_band"`
	Contributing    []Contribution `json:"contributing"`
	DegradedInputs  []agents.Kind  `json:"degraded_inputs,omitempty"`
}

// Synthesize merges terminal findings into one win-probability distribution.
//
// Each finding weighs baseWeight(kind) x confidence, halved when Degraded;
// Failed findings weigh zero and are excluded from the average. The weighted
// mean score maps to a probability through a logistic centered at 0.5, and
// the confidence band widens as contributing weight falls short of the
// maximum the task set could have produced. Deterministic: the same finding
// set always yields the identical result.
func Synthesize(findings []workflow.Finding) (*SynthesisResult, error) {
	if len(findings) == 0 {
		return nil, ErrNoEvidence
	}

	var contributions []Contribution
	degraded := make(map[agents.Kind]bool)
	var totalWeight, weightedSum, maxWeight float64

	for _, f := range findings {
		maxWeight += agents.BaseWeight(f.Kind)

		switch f.Status {
		case workflow.StatusFailed:
			degraded[f.Kind] = true
			continue
		case workflow.StatusDegraded:
			degraded[f.Kind] = true
		}

		factor := 1.0
		if f.Status == workflow.StatusDegraded {
			factor = degradeFactor
		}
		weight := agents.BaseWeight(f.Kind) * f.Confidence * factor
		if weight <= 0 {
			continue
		}
		contributions = append(contributions, Contribution{Finding: f, Weight: weight})
		totalWeight += weight
		weightedSum += weight * f.ScoreA
	}

	if totalWeight == 0 {
		return nil, ErrNoEvidence
	}

	mean := weightedSum / totalWeight
	winA := logistic(mean - 0.5)
	winB := 1.0 - winA

	coverage := totalWeight / maxWeight
	halfWidth := bandFloor + bandSpan*(1.0-coverage)

	sort.Slice(contributions, func(i, j int) bool {
		if contributions[i].Weight != contributions[j].Weight {
			return contributions[i].Weight > contributions[j].Weight
		}
		return contributions[i].TaskID < contributions[j].TaskID
	})

	kinds := make([]agents.Kind, 0, len(degraded))
	for k := range degraded {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	return &SynthesisResult{
		WinProbabilityA: winA,
		WinProbabilityB: winB,
		ConfidenceBand: Band{
			Lower: math.Max(0, winA-halfWidth),
			Upper: math.Min(1, winA+halfWidth),
			Width: halfWidth,
		},
		Contributing:   contributions,
		DegradedInputs: kinds,
	}, nil
}

// logistic squashes a signed edge into (0,1), centered so edge 0 maps to 0.5.
func logistic(edge float64) float64 {
	return 1.0 / (1.0 + math.Exp(-squashSteepness*edge))
}
