// Package evidence defines the typed evidence bundles that analysis agents
// consume, the provider contract for fetching them, and the HTTP clients for
// the external stats and weather APIs.
package evidence

import (
	"fmt"
	"time"
)

// Matchup identifies one analysis run: two teams and a game date.
// It is immutable once scheduling begins.
type Matchup struct {
	RunID    string    `json:"run_id"`
	TeamA    string    `json:"team_a"`
	TeamB    string    `json:"team_b"`
	GameDate time.Time `json:"game_date"`
}

func (m Matchup) String() string {
	return fmt.Sprintf("%s vs %s (%s)", m.TeamA, m.TeamB, m.GameDate.Format("2006-01-02"))
}

// Source identifies one kind of evidence.
type Source string

const (
	SourceTeamStats  Source = "team_stats"
	SourceInjuries   Source = "injuries"
	SourceWeather    Source = "weather"
	SourceVenue      Source = "venue"
	SourceHeadToHead Source = "head_to_head"
	SourceRoster     Source = "roster"
	SourceCoaching   Source = "coaching"
	SourceStandings  Source = "standings"
)

// Bundle is one fetched evidence set. Read-only once produced; shared by
// every task that selects it.
type Bundle struct {
	Source     Source    `json:"source"`
	FetchedAt  time.Time `json:"fetched_at"`
	StaleAfter time.Time `json:"stale_after"`
	Facts      Facts     `json:"facts"`
}

// Stale reports whether the bundle is past its freshness horizon.
func (b *Bundle) Stale(now time.Time) bool {
	return !b.StaleAfter.IsZero() && now.After(b.StaleAfter)
}

// Facts holds the structured payload of a bundle. Exactly the fields for the
// bundle's Source are populated.
type Facts struct {
	TeamStats map[string][]GameLine `json:"team_stats,omitempty"` // keyed by team abbreviation
	Injuries  []InjuryReport        `json:"injuries,omitempty"`
	Weather   *WeatherReport        `json:"weather,omitempty"`
	Venue     *VenueInfo            `json:"venue,omitempty"`
	Meetings  []Meeting             `json:"meetings,omitempty"`
	Notes     []string              `json:"notes,omitempty"`
	Moves     []RosterMove          `json:"moves,omitempty"`
	Coaches   []CoachRecord         `json:"coaches,omitempty"`
	Standings []TeamRecord          `json:"standings,omitempty"`
}

// GameLine is one team's box-score summary for a single game.
type GameLine struct {
	Opponent      string  `json:"opponent"`
	Points        int     `json:"points"`
	PointsAllowed int     `json:"points_allowed"`
	TotalYards    int     `json:"total_yards"`
	FirstDowns    int     `json:"first_downs"`
	ThirdDownRate float64 `json:"third_down_rate"`
	Won           bool    `json:"won"`
}

// InjuryReport is one listed player on a team's injury report.
type InjuryReport struct {
	Team     string `json:"team"`
	Player   string `json:"player"`
	Position string `json:"position"`
	Status   string `json:"status"` // Out, Doubtful, Questionable, Probable
}

// WeatherReport is the forecast at the venue for the game window.
type WeatherReport struct {
	TempF       float64 `json:"temp_f"`
	WindMPH     float64 `json:"wind_mph"`
	PrecipPct   float64 `json:"precip_pct"`
	Conditions  string  `json:"conditions"`
}

// VenueInfo describes where the game is played.
type VenueInfo struct {
	Stadium  string `json:"stadium"`
	City     string `json:"city"`
	Surface  string `json:"surface"`
	Dome     bool   `json:"dome"`
	HomeTeam string `json:"home_team"` // abbreviation
}

// Meeting is one prior head-to-head result between the two teams.
type Meeting struct {
	Date         time.Time `json:"date"`
	Winner       string    `json:"winner"` // abbreviation
	WinnerPoints int       `json:"winner_points"`
	LoserPoints  int       `json:"loser_points"`
}

// RosterMove is a recent transaction affecting a team's lineup.
type RosterMove struct {
	Team     string `json:"team"`
	Player   string `json:"player"`
	Position string `json:"position"`
	Change   string `json:"change"` // added, released, traded_in, traded_out, activated
}

// CoachRecord summarizes a head coach's track record.
type CoachRecord struct {
	Team    string  `json:"team"`
	Coach   string  `json:"coach"`
	WinPct  float64 `json:"win_pct"`
	Seasons int     `json:"seasons"`
}

// TeamRecord is a team's season standing line.
type TeamRecord struct {
	Team          string `json:"team"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	PointsFor     int    `json:"points_for"`
	PointsAgainst int    `json:"points_against"`
}
