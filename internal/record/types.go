// Package record converts raw pasted schedule and standings text into
// normalized record lists. Two independent pipelines: a tabular parser for
// tab-separated score/standings tables and a line-oriented state machine
// for free-text ranking-site schedules. Parsing is best-effort: malformed
// lines and incomplete entries are dropped, never fatal; callers observe
// the drop count as the difference between raw and parsed sizes.
package record

import (
	"time"

	"github.com/puckboard/puckboard-data/internal/model"
)

// Classification buckets a schedule entry by its trailing symbol.
type Classification string

const (
	ClassLeague     Classification = "league"
	ClassTournament Classification = "tournament"
	ClassPlayoff    Classification = "playoff"
	ClassProvincial Classification = "provincial"
	ClassDistrict   Classification = "district"
	ClassNational   Classification = "national"
	ClassExhibition Classification = "exhibition"
)

// GameRow is one parsed line from a tab-separated score table.
// Scores are -1 when the source shows no result yet.
type GameRow struct {
	GameNumber     string    `json:"game_number"`
	Date           time.Time `json:"date"`
	Venue          string    `json:"venue"`
	HomeTeamRaw    string    `json:"home_team_raw"`
	HomeExternalID *string   `json:"home_external_id,omitempty"`
	HomeScore      int       `json:"home_score"`
	AwayTeamRaw    string    `json:"away_team_raw"`
	AwayExternalID *string   `json:"away_external_id,omitempty"`
	AwayScore      int       `json:"away_score"`
}

// StandingsRow is one parsed line from a tab-separated standings table.
type StandingsRow struct {
	TeamRaw        string  `json:"team_raw"`
	ExternalID     *string `json:"external_id,omitempty"`
	GamesPlayed    int     `json:"gp"`
	Wins           int     `json:"w"`
	Losses         int     `json:"l"`
	Ties           int     `json:"t"`
	OvertimeLosses int     `json:"otl"`
	ShootoutLosses int     `json:"sol"`
	Points         int     `json:"pts"`
	GoalsFor       int     `json:"gf"`
	GoalsAgainst   int     `json:"ga"`
	GoalDiff       int     `json:"diff"`
	PenaltyMinutes int     `json:"pim"`
	WinPct         float64 `json:"pct"`
}

// ScheduleEntry is one parsed game from a free-text ranking-site schedule.
// Scores are from the tracked team's perspective (OwnScore vs OppScore).
type ScheduleEntry struct {
	Date               time.Time        `json:"date"`
	TimeOfDay          string           `json:"time,omitempty"` // "19:45", empty when absent
	OpponentRaw        string           `json:"opponent_raw"`
	OpponentClean      string           `json:"opponent_clean"`
	OpponentExternalID *string          `json:"opponent_external_id,omitempty"`
	VenueRaw           string           `json:"venue_raw"`
	VenueClean         string           `json:"venue_clean"`
	Result             string           `json:"result"` // "W", "L", or "T"
	OwnScore           int              `json:"own_score"`
	OppScore           int              `json:"opp_score"`
	ResultType         model.ResultType `json:"result_type"`
	Classification     Classification   `json:"classification"`
	Symbol             string           `json:"symbol,omitempty"`
}

// Day returns the entry's calendar date truncated to midnight UTC.
func (e *ScheduleEntry) Day() time.Time {
	return time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, time.UTC)
}
