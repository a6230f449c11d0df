// Package reconcile runs the import flows: bulk score-table import with
// cross-validation, standings snapshot import, and schedule
// reconciliation against existing events and games. Per-record failures
// never abort a batch; each result type aggregates them.
package reconcile

import (
	"fmt"

	"github.com/puckboard/puckboard-data/internal/record"
)

// GameImportResult tracks one score-table import batch.
type GameImportResult struct {
	Imported   int      `json:"imported"`
	Skipped    int      `json:"skipped"`
	SkipNotes  []string `json:"skip_notes,omitempty"`
	Errors     []string `json:"errors,omitempty"`
	Mismatches []string `json:"mismatches,omitempty"`
}

// AddErrorf records a formatted per-record error.
func (r *GameImportResult) AddErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// AddSkipf records a skipped record with its reason.
func (r *GameImportResult) AddSkipf(format string, args ...any) {
	r.Skipped++
	r.SkipNotes = append(r.SkipNotes, fmt.Sprintf(format, args...))
}

// Summary returns a one-line batch summary for logs.
func (r *GameImportResult) Summary() string {
	return fmt.Sprintf("imported=%d skipped=%d errors=%d mismatches=%d",
		r.Imported, r.Skipped, len(r.Errors), len(r.Mismatches))
}

// StandingsImportResult tracks one standings snapshot import batch.
type StandingsImportResult struct {
	Created int      `json:"teams_created"`
	Matched int      `json:"teams_matched"`
	Rows    int      `json:"rows_upserted"`
	Errors  []string `json:"errors,omitempty"`
}

// AddErrorf records a formatted per-record error.
func (r *StandingsImportResult) AddErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// LeagueOutcome classifies a league schedule entry against the
// designated regular-season event's existing games.
type LeagueOutcome string

const (
	// OutcomeMatched: an existing game has the same pair, day, and score.
	OutcomeMatched LeagueOutcome = "matched"
	// OutcomeConflict: an existing game has a different final score. The
	// stored score is never overwritten.
	OutcomeConflict LeagueOutcome = "conflict"
	// OutcomeFillable: an existing game matches but has no score yet.
	OutcomeFillable LeagueOutcome = "matched_fillable"
	// OutcomeNew: no existing game matches the pair and day.
	OutcomeNew LeagueOutcome = "new"
)

// LeagueEntryResult is the reconciliation verdict for one league entry.
type LeagueEntryResult struct {
	Date     string        `json:"date"`
	Opponent string        `json:"opponent"`
	Outcome  LeagueOutcome `json:"outcome"`
	Detail   string        `json:"detail,omitempty"`
	GameID   string        `json:"game_id,omitempty"`
}

// ClusterPreview describes one inferred tournament cluster and what the
// import did (or would do) with it.
type ClusterPreview struct {
	Name      string `json:"name"`
	EventType string `json:"event_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Location  string `json:"location,omitempty"`
	Games     int    `json:"games"`
	EventID   string `json:"event_id,omitempty"`
	Action    string `json:"action"` // "matched", "created", "would_create"
}

// ScheduleReport is the full outcome of one schedule reconciliation.
type ScheduleReport struct {
	Summary  map[record.Classification]int `json:"summary"`
	League   []LeagueEntryResult           `json:"league_results,omitempty"`
	Clusters []ClusterPreview              `json:"clusters,omitempty"`
	Imported int                           `json:"imported"`
	Skipped  int                           `json:"skipped"`
	Errors   []string                      `json:"errors,omitempty"`
}

// AddErrorf records a formatted per-record error.
func (r *ScheduleReport) AddErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}
