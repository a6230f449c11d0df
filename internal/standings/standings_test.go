package standings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puckboard/puckboard-data/internal/model"
)

func game(home, away string, hs, as int) model.Game {
	return model.Game{
		HomeTeamID: &home, AwayTeamID: &away,
		HomeScore: &hs, AwayScore: &as,
		Status: model.StatusCompleted,
	}
}

func defaultRules() []model.TiebreakerRule {
	return []model.TiebreakerRule{
		{Type: model.TiebreakHeadToHead, Priority: 1},
		{Type: model.TiebreakGoalDifferential, Priority: 2},
		{Type: model.TiebreakGoalsFor, Priority: 3},
		{Type: model.TiebreakFewestGoalsAgainst, Priority: 4},
	}
}

func TestComputeTwoTeamScenario(t *testing.T) {
	teams := []TeamRef{{ID: "a", Name: "Avalanche"}, {ID: "b", Name: "Barons"}}
	games := []model.Game{
		game("a", "b", 3, 1),
		game("b", "a", 2, 4),
	}

	table := Compute(teams, games, defaultRules(), model.DefaultPointStructure(), model.DefaultGoalDiffCap)
	require.Len(t, table, 2)

	a, b := table[0], table[1]
	assert.Equal(t, "a", a.TeamID)
	assert.Equal(t, 2, a.GamesPlayed)
	assert.Equal(t, 2, a.Wins)
	assert.Equal(t, 4, a.Points)
	assert.Equal(t, 4, a.GoalDiff)
	assert.Equal(t, 7, a.GoalsFor)

	assert.Equal(t, "b", b.TeamID)
	assert.Equal(t, 2, b.Losses)
	assert.Equal(t, 0, b.Points)
	assert.Equal(t, -4, b.GoalDiff)
}

func TestComputeClampsPerGameDifferential(t *testing.T) {
	teams := []TeamRef{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	games := []model.Game{game("a", "b", 20, 0)}

	table := Compute(teams, games, defaultRules(), model.DefaultPointStructure(), 5)
	require.Len(t, table, 2)
	assert.Equal(t, 5, table[0].GoalDiff)
	assert.Equal(t, -5, table[1].GoalDiff)
	// Goals for/against stay raw; only the differential is bounded.
	assert.Equal(t, 20, table[0].GoalsFor)
	assert.Equal(t, 20, table[1].GoalsAgainst)
}

func TestComputeIncludesZeroGameTeams(t *testing.T) {
	teams := []TeamRef{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}}
	games := []model.Game{game("a", "b", 1, 0)}

	table := Compute(teams, games, defaultRules(), model.DefaultPointStructure(), 5)
	require.Len(t, table, 3)
	// C played nothing: zeroed row, ranked above B on goal differential.
	assert.Equal(t, "c", table[1].TeamID)
	assert.Equal(t, TeamStanding{TeamID: "c", TeamName: "C"}, table[1])
	assert.Equal(t, "b", table[2].TeamID)
}

func TestComputeHeadToHeadIgnoresOutsideGames(t *testing.T) {
	// A and B finish tied on points. A won their only meeting, so A ranks
	// first even though B padded its differential against D.
	teams := []TeamRef{
		{ID: "a", Name: "A"}, {ID: "b", Name: "B"},
		{ID: "c", Name: "C"}, {ID: "d", Name: "D"},
	}
	games := []model.Game{
		game("a", "b", 3, 2),
		game("c", "a", 2, 1),
		game("c", "b", 2, 1),
		game("b", "d", 9, 0),
	}

	table := Compute(teams, games, defaultRules(), model.DefaultPointStructure(), 5)
	require.Len(t, table, 4)
	assert.Equal(t, "c", table[0].TeamID)
	assert.Equal(t, "a", table[1].TeamID)
	assert.Equal(t, "b", table[2].TeamID)
	assert.Equal(t, "d", table[3].TeamID)
}

func TestComputeRecursiveTiebreak(t *testing.T) {
	// Three-way tie where head-to-head is circular (everyone 1-1), so the
	// still-tied subgroup falls through to goal differential.
	teams := []TeamRef{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}}
	games := []model.Game{
		game("a", "b", 1, 0),
		game("b", "c", 6, 0),
		game("c", "a", 2, 1),
	}

	table := Compute(teams, games, defaultRules(), model.DefaultPointStructure(), 5)
	require.Len(t, table, 3)
	// GD with cap 5: A 0, B +4, C -4.
	assert.Equal(t, "b", table[0].TeamID)
	assert.Equal(t, "a", table[1].TeamID)
	assert.Equal(t, "c", table[2].TeamID)
}

func TestComputeAlphabeticalFallback(t *testing.T) {
	teams := []TeamRef{{ID: "z", Name: "Zebras"}, {ID: "m", Name: "Moose"}}
	table := Compute(teams, nil, nil, model.DefaultPointStructure(), 5)
	require.Len(t, table, 2)
	assert.Equal(t, "Moose", table[0].TeamName)
	assert.Equal(t, "Zebras", table[1].TeamName)
}

func TestComputeDeterministicAcrossInputOrder(t *testing.T) {
	games := []model.Game{
		game("a", "b", 1, 0),
		game("b", "c", 6, 0),
		game("c", "a", 2, 1),
	}
	forward := []TeamRef{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}}
	reversed := []TeamRef{{ID: "c", Name: "C"}, {ID: "b", Name: "B"}, {ID: "a", Name: "A"}}

	t1 := Compute(forward, games, defaultRules(), model.DefaultPointStructure(), 5)
	t2 := Compute(reversed, games, defaultRules(), model.DefaultPointStructure(), 5)
	require.Equal(t, len(t1), len(t2))
	for i := range t1 {
		assert.Equal(t, t1[i], t2[i])
	}
}

func TestComputeCountsOvertimeAndShootoutLosses(t *testing.T) {
	teams := []TeamRef{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	otl := game("a", "b", 2, 3)
	otl.ResultType = model.ResultOvertime
	sol := game("a", "b", 1, 2)
	sol.ResultType = model.ResultShootout

	table := Compute(teams, []model.Game{otl, sol}, defaultRules(), model.DefaultPointStructure(), 5)
	require.Len(t, table, 2)
	a := table[1] // two losses, ranked below b
	assert.Equal(t, "a", a.TeamID)
	assert.Equal(t, 2, a.Losses)
	assert.Equal(t, 1, a.OvertimeLosses)
	assert.Equal(t, 1, a.ShootoutLosses)
}

func TestComputeSkipsIncompleteGames(t *testing.T) {
	teams := []TeamRef{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	scheduled := model.Game{HomeTeamID: strp("a"), AwayTeamID: strp("b"), Status: model.StatusScheduled}
	placeholder := model.Game{HomePlaceholder: strp("1st Pool A"), AwayPlaceholder: strp("2nd Pool B")}

	table := Compute(teams, []model.Game{scheduled, placeholder}, nil, model.DefaultPointStructure(), 5)
	for _, s := range table {
		assert.Zero(t, s.GamesPlayed)
	}
}

func strp(s string) *string { return &s }
