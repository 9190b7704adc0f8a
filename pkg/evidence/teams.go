package evidence

import (
	"fmt"
	"strings"
)

// teamAbbreviations maps full franchise names to the abbreviations the stats
// API uses in its URLs and payloads.
var teamAbbreviations = map[string]string{
	"Arizona Cardinals":     "ARI",
	"Atlanta Falcons":       "ATL",
	"Baltimore Ravens":      "BAL",
	"Buffalo Bills":         "BUF",
	"Carolina Panthers":     "CAR",
	"Chicago Bears":         "CHI",
	"Cincinnati Bengals":    "CIN",
	"Cleveland Browns":      "CLE",
	"Dallas Cowboys":        "DAL",
	"Denver Broncos":        "DEN",
	"Detroit Lions":         "DET",
	"Green Bay Packers":     "GB",
	"Houston Texans":        "HOU",
	"Indianapolis Colts":    "IND",
	"Jacksonville Jaguars":  "JAX",
	"Kansas City Chiefs":    "KC",
	"Las Vegas Raiders":     "LV",
	"Los Angeles Chargers":  "LAC",
	"Los Angeles Rams":      "LAR",
	"Miami Dolphins":        "MIA",
	"Minnesota Vikings":     "MIN",
	"New England Patriots":  "NE",
	"New Orleans Saints":    "NO",
	"New York Giants":       "NYG",
	"New York Jets":         "NYJ",
	"Philadelphia Eagles":   "PHI",
	"Pittsburgh Steelers":   "PIT",
	"San Francisco 49ers":   "SF",
	"Seattle Seahawks":      "SEA",
	"Tampa Bay Buccaneers":  "TB",
	"Tennessee Titans":      "TEN",
	"Washington Commanders": "WAS",
}

// TeamAbbreviation resolves a team name to its API abbreviation. Already
// abbreviated input is passed through uppercased.
func TeamAbbreviation(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if abbr, ok := teamAbbreviations[trimmed]; ok {
		return abbr, nil
	}
	upper := strings.ToUpper(trimmed)
	for _, abbr := range teamAbbreviations {
		if abbr == upper {
			return abbr, nil
		}
	}
	// Tolerate case-insensitive full names.
	for full, abbr := range teamAbbreviations {
		if strings.EqualFold(full, trimmed) {
			return abbr, nil
		}
	}
	return "", fmt.Errorf("unknown team %q", name)
}

// KnownTeams returns every recognized full team name.
func KnownTeams() []string {
	out := make([]string, 0, len(teamAbbreviations))
	for name := range teamAbbreviations {
		out = append(out, name)
	}
	return out
}
