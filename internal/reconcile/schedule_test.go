package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puckboard/puckboard-data/internal/model"
	"github.com/puckboard/puckboard-data/internal/record"
	"github.com/puckboard/puckboard-data/internal/store"
)

func leagueEntry(day time.Time, opponent, venue, result string, own, opp int) record.ScheduleEntry {
	return record.ScheduleEntry{
		Date:           day,
		OpponentRaw:    opponent + " *",
		OpponentClean:  opponent,
		VenueRaw:       venue,
		VenueClean:     venue,
		Result:         result,
		OwnScore:       own,
		OppScore:       opp,
		ResultType:     model.ResultRegulation,
		Classification: record.ClassLeague,
		Symbol:         "*",
	}
}

func tournamentEntry(day time.Time, opponent, venue string, own, opp int) record.ScheduleEntry {
	e := leagueEntry(day, opponent, venue, "W", own, opp)
	e.Classification = record.ClassTournament
	e.Symbol = "**"
	return e
}

func seedTeam(t *testing.T, mem *store.Memory, name string) string {
	t.Helper()
	id, err := mem.InsertTeam(context.Background(), model.Team{Name: name})
	require.NoError(t, err)
	return id
}

func TestReconcileScheduleValidation(t *testing.T) {
	rec, mem := newReconciler(t)
	ctx := context.Background()
	e := leagueEntry(time.Now(), "Opp", "Rink", "W", 1, 0)

	_, err := rec.ReconcileSchedule(ctx, ScheduleInput{Entries: []record.ScheduleEntry{e}})
	assert.Error(t, err)

	_, err = rec.ReconcileSchedule(ctx, ScheduleInput{TeamID: "nope", Entries: []record.ScheduleEntry{e}})
	assert.Error(t, err)

	teamID := seedTeam(t, mem, "Tracked Team")
	_, err = rec.ReconcileSchedule(ctx, ScheduleInput{TeamID: teamID})
	assert.Error(t, err)
}

func TestReconcileLeagueOutcomes(t *testing.T) {
	rec, mem := newReconciler(t)
	ctx := context.Background()

	tracked := seedTeam(t, mem, "Tracked Team")
	opp := seedTeam(t, mem, "Nepean Raiders")
	eventID, err := mem.InsertEvent(ctx, model.Event{Name: "League 2025-26", Type: model.EventRegularSeason})
	require.NoError(t, err)

	oct4 := time.Date(2025, time.October, 4, 0, 0, 0, 0, time.UTC)
	oct5 := time.Date(2025, time.October, 5, 0, 0, 0, 0, time.UTC)
	oct11 := time.Date(2025, time.October, 11, 0, 0, 0, 0, time.UTC)
	oct12 := time.Date(2025, time.October, 12, 0, 0, 0, 0, time.UTC)

	hs, as := 4, 2
	// Completed game matching the entry exactly.
	_, err = mem.InsertGame(ctx, model.Game{
		EventID: &eventID, StartTime: oct4,
		HomeTeamID: &tracked, AwayTeamID: &opp,
		HomeScore: &hs, AwayScore: &as, Status: model.StatusCompleted,
	})
	require.NoError(t, err)
	// Completed game whose stored score disagrees with the source.
	conflictHS, conflictAS := 1, 1
	_, err = mem.InsertGame(ctx, model.Game{
		EventID: &eventID, StartTime: oct5,
		HomeTeamID: &opp, AwayTeamID: &tracked,
		HomeScore: &conflictHS, AwayScore: &conflictAS, Status: model.StatusCompleted,
	})
	require.NoError(t, err)
	// Scheduled game with no score yet.
	_, err = mem.InsertGame(ctx, model.Game{
		EventID: &eventID, StartTime: oct11,
		HomeTeamID: &tracked, AwayTeamID: &opp,
		Status: model.StatusScheduled,
	})
	require.NoError(t, err)

	report, err := rec.ReconcileSchedule(ctx, ScheduleInput{
		TeamID:               tracked,
		RegularSeasonEventID: eventID,
		Entries: []record.ScheduleEntry{
			leagueEntry(oct4, "Nepean Raiders", "Rink", "W", 4, 2),
			leagueEntry(oct5, "Nepean Raiders", "Rink", "W", 3, 1),
			leagueEntry(oct11, "Nepean Raiders", "Rink", "L", 2, 5),
			leagueEntry(oct12, "Nepean Raiders", "Rink", "W", 6, 0),
		},
	})
	require.NoError(t, err)
	require.Len(t, report.League, 4)

	assert.Equal(t, OutcomeMatched, report.League[0].Outcome)
	assert.Equal(t, OutcomeConflict, report.League[1].Outcome)
	assert.Contains(t, report.League[1].Detail, "stored 1-1")
	assert.Equal(t, OutcomeFillable, report.League[2].Outcome)
	assert.Equal(t, OutcomeNew, report.League[3].Outcome)
	assert.Equal(t, 4, report.Summary[record.ClassLeague])

	// Analyze mode wrote nothing, and a conflict never overwrites.
	games, err := mem.GamesByEvent(ctx, eventID)
	require.NoError(t, err)
	assert.Len(t, games, 3)
	assert.Zero(t, report.Imported)
}

func TestReconcileLeagueImportsNewGames(t *testing.T) {
	rec, mem := newReconciler(t)
	ctx := context.Background()

	tracked := seedTeam(t, mem, "Tracked Team")
	eventID, err := mem.InsertEvent(ctx, model.Event{Name: "League", Type: model.EventRegularSeason})
	require.NoError(t, err)

	day := time.Date(2025, time.October, 12, 0, 0, 0, 0, time.UTC)
	report, err := rec.ReconcileSchedule(ctx, ScheduleInput{
		TeamID:               tracked,
		RegularSeasonEventID: eventID,
		DoImport:             true,
		Entries: []record.ScheduleEntry{
			// Home venue fragment: tracked team is the home side.
			leagueEntry(day, "Nepean Raiders", "Minto Arena", "W", 6, 0),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	require.Len(t, report.League, 1)
	assert.Equal(t, OutcomeNew, report.League[0].Outcome)

	games, err := mem.GamesByEvent(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, games, 1)
	g := games[0]
	assert.Equal(t, tracked, *g.HomeTeamID)
	assert.Equal(t, 6, *g.HomeScore)
	assert.Equal(t, 0, *g.AwayScore)
	assert.Equal(t, model.StatusCompleted, g.Status)
	assert.Equal(t, model.StageRegularSeason, g.Stage)
}

func TestReconcileLeagueSkipsCrossEventDuplicate(t *testing.T) {
	rec, mem := newReconciler(t)
	ctx := context.Background()

	tracked := seedTeam(t, mem, "Tracked Team")
	opp := seedTeam(t, mem, "Nepean Raiders")
	leagueID, err := mem.InsertEvent(ctx, model.Event{Name: "League", Type: model.EventRegularSeason})
	require.NoError(t, err)
	tourneyID, err := mem.InsertEvent(ctx, model.Event{Name: "Fall Classic", Type: model.EventTournament})
	require.NoError(t, err)

	// The same game already imported under a tournament event, from the
	// opponent's schedule paste.
	day := time.Date(2025, time.October, 5, 0, 0, 0, 0, time.UTC)
	hs, as := 3, 1
	existingID, err := mem.InsertGame(ctx, model.Game{
		EventID: &tourneyID, StartTime: day,
		HomeTeamID: &opp, AwayTeamID: &tracked,
		HomeScore: &hs, AwayScore: &as, Status: model.StatusCompleted,
	})
	require.NoError(t, err)

	report, err := rec.ReconcileSchedule(ctx, ScheduleInput{
		TeamID:               tracked,
		RegularSeasonEventID: leagueID,
		DoImport:             true,
		Entries: []record.ScheduleEntry{
			leagueEntry(day, "Nepean Raiders", "Rink", "L", 1, 3),
		},
	})
	require.NoError(t, err)
	require.Len(t, report.League, 1)
	assert.Equal(t, OutcomeNew, report.League[0].Outcome)
	assert.Equal(t, existingID, report.League[0].GameID)
	assert.Zero(t, report.Imported)
	assert.Equal(t, 1, report.Skipped)

	games, err := mem.GamesByEvent(ctx, leagueID)
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestReconcileLeagueWithoutDesignatedEvent(t *testing.T) {
	rec, mem := newReconciler(t)
	ctx := context.Background()
	tracked := seedTeam(t, mem, "Tracked Team")

	report, err := rec.ReconcileSchedule(ctx, ScheduleInput{
		TeamID:   tracked,
		DoImport: true,
		Entries: []record.ScheduleEntry{
			leagueEntry(time.Date(2025, time.October, 4, 0, 0, 0, 0, time.UTC), "Opp", "Rink", "W", 1, 0),
		},
	})
	require.NoError(t, err)
	require.Len(t, report.League, 1)
	assert.Equal(t, OutcomeNew, report.League[0].Outcome)
	assert.Zero(t, report.Imported)
}

func TestReconcileClustersCreateAndDedup(t *testing.T) {
	rec, mem := newReconciler(t)
	ctx := context.Background()
	tracked := seedTeam(t, mem, "Tracked Team")

	oct4 := time.Date(2025, time.October, 4, 0, 0, 0, 0, time.UTC)
	oct5 := time.Date(2025, time.October, 5, 0, 0, 0, 0, time.UTC)
	entries := []record.ScheduleEntry{
		tournamentEntry(oct4, "Barrie Colts", "Sadlon Arena", 3, 1),
		tournamentEntry(oct5, "Quinte Red Devils", "Sadlon Arena", 2, 2),
	}

	report, err := rec.ReconcileSchedule(ctx, ScheduleInput{
		TeamID: tracked, DoImport: true, Entries: entries,
	})
	require.NoError(t, err)
	require.Len(t, report.Clusters, 1)
	assert.Equal(t, "created", report.Clusters[0].Action)
	assert.Equal(t, 2, report.Imported)

	event, err := mem.EventByID(ctx, report.Clusters[0].EventID)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, model.EventTournament, event.Type)
	assert.Equal(t, "Tournament @ Sadlon Arena (Oct 4-Oct 5)", event.Name)
	assert.Equal(t, model.DefaultPointStructure(), event.Points)

	games, err := mem.GamesByEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, games, 2)
	// No home-rink fragment in the venue: tracked team defaults to away.
	assert.Equal(t, tracked, *games[0].AwayTeamID)
	assert.Equal(t, model.StagePoolPlay, games[0].Stage)

	// Re-running matches the event by type and date overlap and skips
	// every game on the cross-event pair-per-day check.
	report, err = rec.ReconcileSchedule(ctx, ScheduleInput{
		TeamID: tracked, DoImport: true, Entries: entries,
	})
	require.NoError(t, err)
	require.Len(t, report.Clusters, 1)
	assert.Equal(t, "matched", report.Clusters[0].Action)
	assert.Zero(t, report.Imported)
	assert.Equal(t, 2, report.Skipped)
}

func TestReconcileClustersAnalyzeMode(t *testing.T) {
	rec, mem := newReconciler(t)
	ctx := context.Background()
	tracked := seedTeam(t, mem, "Tracked Team")

	report, err := rec.ReconcileSchedule(ctx, ScheduleInput{
		TeamID: tracked,
		Entries: []record.ScheduleEntry{
			tournamentEntry(time.Date(2025, time.November, 8, 0, 0, 0, 0, time.UTC), "Opp", "Rink", 1, 0),
		},
	})
	require.NoError(t, err)
	require.Len(t, report.Clusters, 1)
	assert.Equal(t, "would_create", report.Clusters[0].Action)
	assert.Empty(t, report.Clusters[0].EventID)
	assert.Zero(t, report.Imported)

	games, err := mem.GamesByEvent(ctx, report.Clusters[0].EventID)
	require.NoError(t, err)
	assert.Empty(t, games)
}
