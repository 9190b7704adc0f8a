package agents

import (
	"fmt"
	"strings"

	"github.com/gridironlabs/pregame/pkg/evidence"
)

// Thresholds past which conditions start changing how the game is played.
const (
	freezingTempF   = 32.0
	highWindMPH     = 15.0
	wetPrecipPct    = 50.0
	weatherHomeEdge = 0.04 // per risk factor, toward the home team
)

// analyzeWeather applies the condition rules: freezing temperature hits ball
// handling, high wind hits the passing and kicking game, heavy precipitation
// favors the ground game. Bad weather tilts slightly toward the home team,
// which practices in it. Venue evidence is optional; without it the finding
// stays neutral with lower confidence.
func analyzeWeather(abbrA, abbrB string, ev Evidence) (*RawFinding, error) {
	bundle, ok := ev[evidence.SourceWeather]
	if !ok || bundle.Facts.Weather == nil {
		return nil, fmt.Errorf("%w: weather evidence missing", ErrMalformed)
	}
	w := bundle.Facts.Weather

	var home string
	dome := false
	if vb, ok := ev[evidence.SourceVenue]; ok && vb.Facts.Venue != nil {
		home = vb.Facts.Venue.HomeTeam
		dome = vb.Facts.Venue.Dome
	}

	if dome {
		return &RawFinding{
			ScoreA:     0.5,
			Confidence: 0.9,
			Rationale:  "indoor venue, weather neutral",
		}, nil
	}

	var risks []string
	if w.TempF < freezingTempF {
		risks = append(risks, fmt.Sprintf("freezing (%.0f°F) affects ball handling", w.TempF))
	}
	if w.WindMPH > highWindMPH {
		risks = append(risks, fmt.Sprintf("wind %.0f mph hurts passing and kicking", w.WindMPH))
	}
	if w.PrecipPct > wetPrecipPct {
		risks = append(risks, fmt.Sprintf("%.0f%% precipitation favors the run game", w.PrecipPct))
	}

	score := 0.5
	confidence := 0.55
	switch home {
	case abbrA:
		score += weatherHomeEdge * float64(len(risks))
	case abbrB:
		score -= weatherHomeEdge * float64(len(risks))
	default:
		// Home side unknown; conditions cut both ways.
		confidence = 0.45
	}

	rationale := "mild conditions, minimal impact"
	if len(risks) > 0 {
		rationale = strings.Join(risks, "; ")
	}

	return &RawFinding{
		ScoreA:     clamp01(score),
		Confidence: confidence,
		Rationale:  rationale,
	}, nil
}
