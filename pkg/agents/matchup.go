package agents

import (
	"fmt"
	"sort"

	"github.com/gridironlabs/pregame/pkg/evidence"
)

// analyzeMatchup scores the head-to-head record with recency weighting: the
// most recent meeting counts full, each older one decays by 20%. Retrieved
// archive notes raise confidence but never move the score.
func analyzeMatchup(abbrA, abbrB string, ev Evidence) (*RawFinding, error) {
	bundle, ok := ev[evidence.SourceHeadToHead]
	if !ok {
		return nil, fmt.Errorf("%w: head-to-head evidence missing", ErrMalformed)
	}

	meetings := append([]evidence.Meeting(nil), bundle.Facts.Meetings...)
	if len(meetings) == 0 {
		return &RawFinding{
			ScoreA:     0.5,
			Confidence: 0.3,
			Rationale:  fmt.Sprintf("no prior meetings between %s and %s", abbrA, abbrB),
		}, nil
	}

	sort.Slice(meetings, func(i, j int) bool {
		return meetings[i].Date.After(meetings[j].Date)
	})

	var winsA, total float64
	weight := 1.0
	var margins float64
	for _, m := range meetings {
		if m.Winner == abbrA {
			winsA += weight
		}
		total += weight
		margins += float64(m.WinnerPoints - m.LoserPoints)
		weight *= 0.8
	}

	score := winsA / total
	// Pull toward neutral; old results only say so much about this roster.
	score = 0.5 + (score-0.5)*0.7

	confidence := clamp01(0.4 + 0.08*float64(len(meetings)))
	if len(bundle.Facts.Notes) > 0 {
		confidence = clamp01(confidence + 0.05*float64(len(bundle.Facts.Notes)))
	}

	avgMargin := margins / float64(len(meetings))
	return &RawFinding{
		ScoreA:     clamp01(score),
		Confidence: confidence,
		Rationale: fmt.Sprintf("%s leads weighted h2h %.0f%% over %d meetings, avg margin %.0f",
			abbrA, score*100, len(meetings), avgMargin),
	}, nil
}
