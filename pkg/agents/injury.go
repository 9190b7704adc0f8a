package agents

import (
	"fmt"
	"strings"

	"github.com/gridironlabs/pregame/pkg/evidence"
)

// Availability cost per report status.
var injuryStatusCost = map[string]float64{
	"out":          1.0,
	"doubtful":     0.75,
	"questionable": 0.4,
	"probable":     0.15,
}

// Positional leverage: losing a quarterback hurts far more than a depth
// lineman.
var injuryPositionWeight = map[string]float64{
	"QB": 3.0,
	"RB": 1.4,
	"WR": 1.4,
	"TE": 1.1,
	"OL": 1.3, "OT": 1.3, "OG": 1.2, "C": 1.2,
	"DE": 1.2, "DT": 1.1, "LB": 1.1,
	"CB": 1.3, "S": 1.1,
	"K": 0.6, "P": 0.4,
}

// analyzeInjuries weighs each listed player by status severity and position
// leverage, then converts the burden gap into an edge for team A (less
// injured side favored).
func analyzeInjuries(abbrA, abbrB string, ev Evidence) (*RawFinding, error) {
	bundle, ok := ev[evidence.SourceInjuries]
	if !ok {
		return nil, fmt.Errorf("%w: injury evidence missing", ErrMalformed)
	}

	var burdenA, burdenB float64
	var keyOut []string
	for _, r := range bundle.Facts.Injuries {
		cost, ok := injuryStatusCost[strings.ToLower(r.Status)]
		if !ok {
			continue
		}
		weight := injuryPositionWeight[strings.ToUpper(r.Position)]
		if weight == 0 {
			weight = 1.0
		}
		impact := cost * weight
		switch r.Team {
		case abbrA:
			burdenA += impact
		case abbrB:
			burdenB += impact
		}
		if cost >= 0.75 && weight >= 1.3 {
			keyOut = append(keyOut, fmt.Sprintf("%s %s (%s, %s)", r.Team, r.Player, r.Position, r.Status))
		}
	}

	score := edgeToScore(burdenB-burdenA, 3.0)

	rationale := fmt.Sprintf("injury burden %s %.1f vs %s %.1f", abbrA, burdenA, abbrB, burdenB)
	if len(keyOut) > 0 {
		rationale += "; key: " + strings.Join(keyOut, ", ")
	}

	// Empty reports are common early in the week; confidence stays modest
	// until the final designations land.
	confidence := 0.6
	if len(bundle.Facts.Injuries) == 0 {
		confidence = 0.4
		rationale = "no listed injuries for either team"
	}

	return &RawFinding{ScoreA: score, Confidence: confidence, Rationale: rationale}, nil
}
