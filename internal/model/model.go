// Package model defines the canonical data types shared by the parsers,
// the reconciliation flows, and the store. Parsers normalize pasted text
// into these shapes, the reconciler writes them, and the standings
// calculator reads them back. The store schema never changes when a new
// import source is added.
package model

import "time"

// EventType classifies a competition instance.
type EventType string

const (
	EventRegularSeason EventType = "regular_season"
	EventTournament    EventType = "tournament"
	EventPlayoff       EventType = "playoff"
	EventPlaydown      EventType = "playdown"
	EventProvincial    EventType = "provincial"
	EventExhibition    EventType = "exhibition"
)

// Stage is the phase of an event a game belongs to.
type Stage string

const (
	StageRegularSeason Stage = "regular_season"
	StagePoolPlay      Stage = "pool_play"
	StagePlayoff       Stage = "playoff"
	StageSemifinal     Stage = "semifinal"
	StageFinal         Stage = "final"
	StagePlaydown      Stage = "playdown"
)

// GameStatus tracks whether a game has been played.
type GameStatus string

const (
	StatusScheduled  GameStatus = "scheduled"
	StatusCompleted  GameStatus = "completed"
	StatusInProgress GameStatus = "in_progress"
)

// ResultType records how a completed game ended.
type ResultType string

const (
	ResultRegulation ResultType = "regulation"
	ResultOvertime   ResultType = "overtime"
	ResultShootout   ResultType = "shootout"
)

// TiebreakerType names a criterion for breaking equal-points ties.
type TiebreakerType string

const (
	TiebreakHeadToHead         TiebreakerType = "head_to_head"
	TiebreakGoalDifferential   TiebreakerType = "goal_differential"
	TiebreakGoalsFor           TiebreakerType = "goals_for"
	TiebreakFewestGoalsAgainst TiebreakerType = "fewest_goals_against"
)

// Team is a canonical team. ExternalID is the third-party ranking-site
// token (format "#<token>") used to match teams across import sources;
// when present it is the identity key, otherwise the normalized name is.
type Team struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	ExternalID    *string `json:"external_id,omitempty"`
	Level         string  `json:"level,omitempty"`
	SkillLevel    string  `json:"skill_level,omitempty"`
	Division      string  `json:"division,omitempty"`
	ShortLocation string  `json:"short_location,omitempty"`
	ShortName     string  `json:"short_name,omitempty"`
}

// PointStructure holds the point values an event awards per result.
type PointStructure struct {
	Win  int `json:"win_points"`
	Tie  int `json:"tie_points"`
	Loss int `json:"loss_points"`
}

// DefaultPointStructure is used when an event carries no explicit structure.
func DefaultPointStructure() PointStructure {
	return PointStructure{Win: 2, Tie: 1, Loss: 0}
}

// DefaultGoalDiffCap bounds a single game's goal-differential contribution
// when the event does not configure its own cap.
const DefaultGoalDiffCap = 5

// Event is a tournament, league season, or other competition instance.
type Event struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Type            EventType      `json:"event_type"`
	StartDate       *time.Time     `json:"start_date,omitempty"`
	EndDate         *time.Time     `json:"end_date,omitempty"`
	Location        *string        `json:"location,omitempty"`
	Level           string         `json:"level,omitempty"`
	SkillLevel      string         `json:"skill_level,omitempty"`
	Points          PointStructure `json:"point_structure"`
	GoalDiffCap     int            `json:"goal_differential_cap"`
	TotalTeams      *int           `json:"total_teams,omitempty"`
	QualifyingCount *int           `json:"qualifying_count,omitempty"`
}

// Game is a single contest. A side is either a resolved team id or a
// textual placeholder ("1st Pool A") for bracket games whose participant
// is not yet determined. Status is completed iff both scores are set.
type Game struct {
	ID              string     `json:"id"`
	EventID         *string    `json:"event_id,omitempty"`
	PoolID          *string    `json:"pool_id,omitempty"`
	Stage           Stage      `json:"stage"`
	StartTime       time.Time  `json:"start_datetime"`
	Venue           *string    `json:"venue,omitempty"`
	HomeTeamID      *string    `json:"home_team_id,omitempty"`
	AwayTeamID      *string    `json:"away_team_id,omitempty"`
	HomePlaceholder *string    `json:"home_placeholder,omitempty"`
	AwayPlaceholder *string    `json:"away_placeholder,omitempty"`
	HomeScore       *int       `json:"final_score_home,omitempty"`
	AwayScore       *int       `json:"final_score_away,omitempty"`
	Status          GameStatus `json:"status"`
	ResultType      ResultType `json:"result_type,omitempty"`
	GameNumber      *string    `json:"game_number,omitempty"`
}

// Completed reports whether the game has a full final score.
func (g *Game) Completed() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// HasTeams reports whether both sides are resolved to team ids.
func (g *Game) HasTeams() bool {
	return g.HomeTeamID != nil && g.AwayTeamID != nil
}

// SamePair reports whether the game is between the given unordered pair.
func (g *Game) SamePair(teamA, teamB string) bool {
	if !g.HasTeams() {
		return false
	}
	return (*g.HomeTeamID == teamA && *g.AwayTeamID == teamB) ||
		(*g.HomeTeamID == teamB && *g.AwayTeamID == teamA)
}

// StandingsSnapshotRow is one externally supplied (or recomputed) standings
// line for a team within an event.
type StandingsSnapshotRow struct {
	EventID        string  `json:"event_id"`
	TeamID         string  `json:"team_id"`
	GamesPlayed    int     `json:"gp"`
	Wins           int     `json:"w"`
	Losses         int     `json:"l"`
	Ties           int     `json:"t"`
	OvertimeLosses int     `json:"otl"`
	ShootoutLosses int     `json:"sol"`
	Points         int     `json:"pts"`
	GoalsFor       int     `json:"gf"`
	GoalsAgainst   int     `json:"ga"`
	GoalDiff       int     `json:"gd"`
	PenaltyMinutes int     `json:"pim"`
	WinPct         float64 `json:"pct"`
}

// TiebreakerRule is one entry in an event's ordered tiebreaker chain.
type TiebreakerRule struct {
	EventID  string         `json:"event_id"`
	Type     TiebreakerType `json:"rule_type"`
	Priority int            `json:"priority_order"`
}

// Pool is a round-robin sub-group of teams within an event.
type Pool struct {
	ID               string `json:"id"`
	EventID          string `json:"event_id"`
	Name             string `json:"name"`
	AdvancementCount int    `json:"advancement_count"`
}
