package reconcile

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puckboard/puckboard-data/internal/model"
	"github.com/puckboard/puckboard-data/internal/record"
	"github.com/puckboard/puckboard-data/internal/store"
)

func newReconciler(t *testing.T) (*Reconciler, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	rec := New(mem, slog.Default(), Options{
		TeamLevelDefault: "U14",
		TeamSkillDefault: "A",
		HomeVenues:       []string{"minto", "nepean sportsplex"},
	})
	return rec, mem
}

func seedEvent(t *testing.T, mem *store.Memory, typ model.EventType) string {
	t.Helper()
	id, err := mem.InsertEvent(context.Background(), model.Event{
		Name:        "Test Event",
		Type:        typ,
		Points:      model.DefaultPointStructure(),
		GoalDiffCap: model.DefaultGoalDiffCap,
	})
	require.NoError(t, err)
	return id
}

func strp(s string) *string { return &s }

func gameRow(number string, day time.Time, home, away string, hs, as int) record.GameRow {
	return record.GameRow{
		GameNumber:  number,
		Date:        day,
		Venue:       "Rink 1",
		HomeTeamRaw: home, HomeScore: hs,
		AwayTeamRaw: away, AwayScore: as,
	}
}

func TestImportGamesBatchValidation(t *testing.T) {
	rec, mem := newReconciler(t)
	ctx := context.Background()
	row := gameRow("1", time.Now(), "A", "B", 1, 0)

	_, err := rec.ImportGames(ctx, "", []record.GameRow{row}, "")
	assert.Error(t, err)

	eventID := seedEvent(t, mem, model.EventRegularSeason)
	_, err = rec.ImportGames(ctx, eventID, nil, "")
	assert.Error(t, err)

	_, err = rec.ImportGames(ctx, "missing-event", []record.GameRow{row}, "")
	assert.Error(t, err)
}

func TestImportGamesIdempotent(t *testing.T) {
	rec, mem := newReconciler(t)
	ctx := context.Background()
	eventID := seedEvent(t, mem, model.EventRegularSeason)

	day1 := time.Date(2025, time.October, 4, 19, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, time.October, 5, 13, 0, 0, 0, time.UTC)
	rows := []record.GameRow{
		gameRow("101", day1, "Sting", "Blazers", 3, 1),
		gameRow("102", day2, "Sting", "Rangers", 2, 2),
	}

	res, err := rec.ImportGames(ctx, eventID, rows, "")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Zero(t, res.Skipped)
	assert.Empty(t, res.Errors)

	games, err := mem.GamesByEvent(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, model.StatusCompleted, games[0].Status)

	// Second import of the same paste skips everything.
	res, err = rec.ImportGames(ctx, eventID, rows, "")
	require.NoError(t, err)
	assert.Zero(t, res.Imported)
	assert.Equal(t, 2, res.Skipped)

	games, err = mem.GamesByEvent(ctx, eventID)
	require.NoError(t, err)
	assert.Len(t, games, 2)
}

func TestImportGamesPairDayDedup(t *testing.T) {
	rec, mem := newReconciler(t)
	ctx := context.Background()
	eventID := seedEvent(t, mem, model.EventRegularSeason)

	day := time.Date(2025, time.October, 4, 10, 0, 0, 0, time.UTC)
	res, err := rec.ImportGames(ctx, eventID, []record.GameRow{
		gameRow("101", day, "Sting", "Blazers", 3, 1),
		// Different game number, same unordered pair on the same day.
		gameRow("999", day.Add(4*time.Hour), "Blazers", "Sting", 1, 3),
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 1, res.Skipped)
}

func TestImportGamesUnplayedRowsStayScheduled(t *testing.T) {
	rec, mem := newReconciler(t)
	ctx := context.Background()
	eventID := seedEvent(t, mem, model.EventRegularSeason)

	row := gameRow("101", time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC), "Sting", "Blazers", -1, -1)
	res, err := rec.ImportGames(ctx, eventID, []record.GameRow{row}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)

	games, err := mem.GamesByEvent(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, model.StatusScheduled, games[0].Status)
	assert.Nil(t, games[0].HomeScore)
}

func TestImportGamesCrossChecksSnapshot(t *testing.T) {
	rec, mem := newReconciler(t)
	ctx := context.Background()
	eventID := seedEvent(t, mem, model.EventRegularSeason)

	day := time.Date(2025, time.October, 4, 0, 0, 0, 0, time.UTC)
	res, err := rec.ImportGames(ctx, eventID, []record.GameRow{
		gameRow("101", day, "Sting", "Blazers", 3, 1),
	}, "")
	require.NoError(t, err)
	require.Equal(t, 1, res.Imported)
	assert.Empty(t, res.Mismatches, "no snapshot, nothing to check")

	sting, err := mem.TeamByNameLike(ctx, "Sting")
	require.NoError(t, err)
	require.NotNil(t, sting)
	ghost, err := mem.InsertTeam(ctx, model.Team{Name: "Ghost"})
	require.NoError(t, err)

	// Snapshot disagrees for Sting and lists a team with no games at all.
	require.NoError(t, mem.UpsertStandingsRow(ctx, model.StandingsSnapshotRow{
		EventID: eventID, TeamID: sting.ID, GamesPlayed: 5, Wins: 4, Losses: 1,
	}))
	require.NoError(t, mem.UpsertStandingsRow(ctx, model.StandingsSnapshotRow{
		EventID: eventID, TeamID: ghost, GamesPlayed: 3, Wins: 3,
	}))

	res, err = rec.ImportGames(ctx, eventID, []record.GameRow{
		gameRow("102", day.AddDate(0, 0, 1), "Sting", "Rangers", 0, 2),
	}, "")
	require.NoError(t, err)
	require.Len(t, res.Mismatches, 2)
	assert.Contains(t, res.Mismatches[0], "no games found")
	assert.Contains(t, res.Mismatches[1], "games say GP=1 W=0")
	assert.Contains(t, res.Mismatches[1], "snapshot says GP=5 W=4")
	// Losses and ties agree, so they stay out of the message.
	assert.NotContains(t, res.Mismatches[1], "L=")
	assert.NotContains(t, res.Mismatches[1], "T=")
}

func TestImportStandingsCreatesAndUpserts(t *testing.T) {
	rec, mem := newReconciler(t)
	ctx := context.Background()
	eventID := seedEvent(t, mem, model.EventRegularSeason)

	_, err := mem.InsertTeam(ctx, model.Team{Name: "Ottawa Sting U14 A", ExternalID: strp("#4521")})
	require.NoError(t, err)

	rows := []record.StandingsRow{
		{TeamRaw: "Ottawa Sting U14 A #4521", ExternalID: strp("#4521"), GamesPlayed: 10, Wins: 7, Points: 15},
		{TeamRaw: "Brand New Club", GamesPlayed: 10, Wins: 2, Points: 5},
	}

	res, err := rec.ImportStandings(ctx, eventID, rows)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Matched)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 2, res.Rows)

	snapshot, err := mem.StandingsByEvent(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, snapshot, 2)

	// Re-import with fresher numbers overwrites in place.
	rows[0].Wins = 8
	rows[0].Points = 17
	res, err = rec.ImportStandings(ctx, eventID, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Matched)
	assert.Zero(t, res.Created)

	snapshot, err = mem.StandingsByEvent(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, snapshot, 2)
	var pts []int
	for _, row := range snapshot {
		pts = append(pts, row.Points)
	}
	assert.Contains(t, pts, 17)
}
