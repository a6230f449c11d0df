package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/puckboard/puckboard-data/internal/model"
	"github.com/puckboard/puckboard-data/internal/record"
	"github.com/puckboard/puckboard-data/internal/resolve"
	"github.com/puckboard/puckboard-data/internal/store"
)

// Reconciler runs import flows against a store. One Reconciler is safe
// to reuse across batches; each batch gets its own resolver session.
type Reconciler struct {
	store store.Store
	log   *slog.Logger
	opts  Options
}

// Options carries the import-time defaults and site knowledge.
type Options struct {
	TeamLevelDefault string
	TeamSkillDefault string
	// HomeVenues are rink-name fragments marking a home game, matched
	// case-insensitively as substrings. Anything else is an away game.
	HomeVenues []string
}

// New creates a Reconciler.
func New(st store.Store, log *slog.Logger, opts Options) *Reconciler {
	return &Reconciler{store: st, log: log, opts: opts}
}

// ImportGames imports a parsed score table into an existing event.
// Duplicates are skipped, first by game number within the event, then by
// unordered team pair on the same calendar day within the event. After
// the batch it cross-checks computed records against the event's
// standings snapshot.
func (r *Reconciler) ImportGames(ctx context.Context, eventID string, rows []record.GameRow, stage model.Stage) (*GameImportResult, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event id is required")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no game rows to import")
	}

	event, err := r.store.EventByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load event %s: %w", eventID, err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %s not found", eventID)
	}
	if stage == "" {
		stage = model.StageRegularSeason
	}

	res := &GameImportResult{}
	resolver := resolve.New(r.store, r.log, r.opts.TeamLevelDefault, r.opts.TeamSkillDefault)

	for _, row := range rows {
		homeID, err := resolver.Resolve(ctx, row.HomeTeamRaw, row.HomeExternalID)
		if err != nil {
			res.AddErrorf("game %s: home team: %v", row.GameNumber, err)
			continue
		}
		awayID, err := resolver.Resolve(ctx, row.AwayTeamRaw, row.AwayExternalID)
		if err != nil {
			res.AddErrorf("game %s: away team: %v", row.GameNumber, err)
			continue
		}

		existing, err := r.store.GameByEventAndNumber(ctx, eventID, row.GameNumber)
		if err != nil {
			res.AddErrorf("game %s: dedup lookup: %v", row.GameNumber, err)
			continue
		}
		if existing != nil {
			res.AddSkipf("game %s already exists", row.GameNumber)
			continue
		}

		existing, err = r.store.GameByEventPairOnDay(ctx, eventID, homeID, awayID, row.Date)
		if err != nil {
			res.AddErrorf("game %s: pair dedup lookup: %v", row.GameNumber, err)
			continue
		}
		if existing != nil {
			res.AddSkipf("game %s duplicates an existing game between the same teams on %s",
				row.GameNumber, row.Date.Format("2006-01-02"))
			continue
		}

		g := model.Game{
			EventID:    &eventID,
			Stage:      stage,
			StartTime:  row.Date,
			HomeTeamID: &homeID,
			AwayTeamID: &awayID,
			Status:     model.StatusScheduled,
			GameNumber: strPtr(row.GameNumber),
		}
		if row.Venue != "" {
			g.Venue = strPtr(row.Venue)
		}
		if row.HomeScore >= 0 && row.AwayScore >= 0 {
			hs, as := row.HomeScore, row.AwayScore
			g.HomeScore, g.AwayScore = &hs, &as
			g.Status = model.StatusCompleted
			g.ResultType = model.ResultRegulation
		}

		if _, err := r.store.InsertGame(ctx, g); err != nil {
			res.AddErrorf("game %s: insert: %v", row.GameNumber, err)
			continue
		}
		res.Imported++
	}

	mismatches, err := r.crossCheck(ctx, eventID)
	if err != nil {
		res.AddErrorf("cross-check: %v", err)
	} else {
		res.Mismatches = mismatches
	}

	r.log.Info("score table imported", "event", eventID, "result", res.Summary())
	return res, nil
}

// crossCheck recomputes GP/W/L/T per team from the event's persisted
// completed games and diffs the result against the standings snapshot.
// Mismatches are informational; they usually mean the paste covered a
// partial date range.
func (r *Reconciler) crossCheck(ctx context.Context, eventID string) ([]string, error) {
	snapshot, err := r.store.StandingsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if len(snapshot) == 0 {
		return nil, nil
	}

	games, err := r.store.GamesByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load games: %w", err)
	}

	type tally struct{ gp, w, l, t int }
	tallies := make(map[string]*tally)
	credit := func(teamID string, my, opp int) {
		t := tallies[teamID]
		if t == nil {
			t = &tally{}
			tallies[teamID] = t
		}
		t.gp++
		switch {
		case my > opp:
			t.w++
		case my < opp:
			t.l++
		default:
			t.t++
		}
	}
	for i := range games {
		g := &games[i]
		if !g.Completed() || !g.HasTeams() {
			continue
		}
		credit(*g.HomeTeamID, *g.HomeScore, *g.AwayScore)
		credit(*g.AwayTeamID, *g.AwayScore, *g.HomeScore)
	}

	ids := make([]string, 0, len(snapshot))
	for _, row := range snapshot {
		ids = append(ids, row.TeamID)
	}
	teams, err := r.store.TeamsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	name := func(id string) string {
		if t, ok := teams[id]; ok {
			return t.Name
		}
		return id
	}

	var mismatches []string
	for _, row := range snapshot {
		got := tallies[row.TeamID]
		if got == nil {
			mismatches = append(mismatches,
				fmt.Sprintf("%s: no games found (snapshot says %d GP)", name(row.TeamID), row.GamesPlayed))
			continue
		}
		var gotParts, wantParts []string
		diff := func(label string, got, want int) {
			if got != want {
				gotParts = append(gotParts, fmt.Sprintf("%s=%d", label, got))
				wantParts = append(wantParts, fmt.Sprintf("%s=%d", label, want))
			}
		}
		diff("GP", got.gp, row.GamesPlayed)
		diff("W", got.w, row.Wins)
		diff("L", got.l, row.Losses)
		diff("T", got.t, row.Ties)
		if len(gotParts) > 0 {
			mismatches = append(mismatches, fmt.Sprintf("%s: games say %s, snapshot says %s",
				name(row.TeamID), strings.Join(gotParts, " "), strings.Join(wantParts, " ")))
		}
	}
	sort.Strings(mismatches)
	return mismatches, nil
}

// ImportStandings imports a parsed standings table as the event's
// snapshot, creating unknown teams along the way. Rows upsert on
// (event, team), so re-importing a fresher paste overwrites in place.
func (r *Reconciler) ImportStandings(ctx context.Context, eventID string, rows []record.StandingsRow) (*StandingsImportResult, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event id is required")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no standings rows to import")
	}

	event, err := r.store.EventByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load event %s: %w", eventID, err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %s not found", eventID)
	}

	res := &StandingsImportResult{}
	resolver := resolve.New(r.store, r.log, r.opts.TeamLevelDefault, r.opts.TeamSkillDefault)

	for _, row := range rows {
		teamID, err := resolver.Resolve(ctx, row.TeamRaw, row.ExternalID)
		if err != nil {
			res.AddErrorf("standings row %q: %v", row.TeamRaw, err)
			continue
		}
		if resolver.Created(teamID) {
			res.Created++
		} else {
			res.Matched++
		}

		err = r.store.UpsertStandingsRow(ctx, model.StandingsSnapshotRow{
			EventID:        eventID,
			TeamID:         teamID,
			GamesPlayed:    row.GamesPlayed,
			Wins:           row.Wins,
			Losses:         row.Losses,
			Ties:           row.Ties,
			OvertimeLosses: row.OvertimeLosses,
			ShootoutLosses: row.ShootoutLosses,
			Points:         row.Points,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDiff:       row.GoalDiff,
			PenaltyMinutes: row.PenaltyMinutes,
			WinPct:         row.WinPct,
		})
		if err != nil {
			res.AddErrorf("standings row %q: upsert: %v", row.TeamRaw, err)
			continue
		}
		res.Rows++
	}

	r.log.Info("standings imported", "event", eventID,
		"rows", res.Rows, "created", res.Created, "matched", res.Matched, "errors", len(res.Errors))
	return res, nil
}

func strPtr(s string) *string { return &s }
