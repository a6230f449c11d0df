package record

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puckboard/puckboard-data/internal/model"
)

func schedule(lines ...string) string {
	return strings.Join(lines, "\n")
}

func TestParseScheduleBasicEntry(t *testing.T) {
	raw := schedule(
		",Oct 4",
		",7:45 PM",
		",",
		",Kanata Blazers (#4522) **",
		",Watch at Minto Arena",
		",W",
		",5 - 3",
	)

	entries := ParseSchedule(raw, 2025)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, time.Date(2025, time.October, 4, 0, 0, 0, 0, time.UTC), e.Date)
	assert.Equal(t, "19:45", e.TimeOfDay)
	assert.Equal(t, "Kanata Blazers", e.OpponentClean)
	require.NotNil(t, e.OpponentExternalID)
	assert.Equal(t, "#4522", *e.OpponentExternalID)
	assert.Equal(t, "Minto Arena", e.VenueClean)
	assert.Equal(t, "W", e.Result)
	assert.Equal(t, 5, e.OwnScore)
	assert.Equal(t, 3, e.OppScore)
	assert.Equal(t, ClassTournament, e.Classification)
	assert.Equal(t, model.ResultRegulation, e.ResultType)
}

func TestParseScheduleScoreOrientation(t *testing.T) {
	tests := []struct {
		result   string
		line     string
		own, opp int
	}{
		// The site always prints the larger score first; result letter
		// decides which side it belongs to.
		{"W", "5 - 3", 5, 3},
		{"L", "5 - 3", 3, 5},
		{"T", "2 - 2", 2, 2},
	}
	for _, tt := range tests {
		raw := schedule(",Nov 1", ",Opponent", ",Rink", ","+tt.result, ","+tt.line)
		entries := ParseSchedule(raw, 2025)
		require.Len(t, entries, 1, "result %s", tt.result)
		assert.Equal(t, tt.own, entries[0].OwnScore)
		assert.Equal(t, tt.opp, entries[0].OppScore)
	}
}

func TestParseScheduleSeasonYearSplit(t *testing.T) {
	raw := schedule(
		",Dec 28", ",Opponent A", ",Rink", ",W", ",3 - 1",
		",Feb 2", ",Opponent B", ",Rink", ",L", ",4 - 2",
	)

	entries := ParseSchedule(raw, 2025)
	require.Len(t, entries, 2)
	assert.Equal(t, 2025, entries[0].Date.Year())
	assert.Equal(t, 2026, entries[1].Date.Year())
}

func TestParseScheduleOvertimeMarkers(t *testing.T) {
	raw := schedule(
		",Oct 4", ",Opponent A", ",Rink", ",L", ",3 - 2", ",OT",
		",Oct 5", ",Opponent B", ",Rink", ",L", ",2 - 1", ",(SO)",
		",Oct 6", ",Opponent C", ",Rink", ",W", ",4 - 2",
	)

	entries := ParseSchedule(raw, 2025)
	require.Len(t, entries, 3)
	assert.Equal(t, model.ResultOvertime, entries[0].ResultType)
	assert.Equal(t, model.ResultShootout, entries[1].ResultType)
	assert.Equal(t, model.ResultRegulation, entries[2].ResultType)
}

func TestParseScheduleDateLineIsNotAnOvertimeMarker(t *testing.T) {
	// "Oct 17" contains "ot" but must start the next entry, not mark the
	// previous one as overtime.
	raw := schedule(
		",Oct 16", ",Opponent A", ",Rink", ",W", ",2 - 1",
		",Oct 17", ",Opponent B", ",Rink", ",L", ",3 - 0",
	)

	entries := ParseSchedule(raw, 2025)
	require.Len(t, entries, 2)
	assert.Equal(t, model.ResultRegulation, entries[0].ResultType)
	assert.Equal(t, 17, entries[1].Date.Day())
}

func TestParseScheduleDropsIncompleteEntries(t *testing.T) {
	raw := schedule(
		// Missing result marker and score: dropped, scanner resyncs.
		",Oct 4", ",Opponent A", ",Rink",
		",Oct 5", ",Opponent B", ",Rink", ",W", ",6 - 2",
	)

	entries := ParseSchedule(raw, 2025)
	require.Len(t, entries, 1)
	assert.Equal(t, "Opponent B", entries[0].OpponentClean)
}

func TestParseScheduleEntryAtEOF(t *testing.T) {
	raw := schedule(",Oct 4", ",Opponent", ",Rink", ",W", ",1 - 0")
	entries := ParseSchedule(raw, 2025)
	require.Len(t, entries, 1)
}

func TestStripSymbolPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		clean  string
		symbol string
		class  Classification
	}{
		{"Team **", "Team", "**", ClassTournament},
		{"Team *", "Team", "*", ClassLeague},
		{"Team ^^", "Team", "^^", ClassDistrict},
		{"Team ^", "Team", "^", ClassProvincial},
		{"Team ††", "Team", "††", ClassPlayoff},
		{"Team †", "Team", "†", ClassPlayoff},
		{"Team ‡", "Team", "‡", ClassNational},
		{"Team", "Team", "", ClassExhibition},
	}
	for _, tt := range tests {
		clean, symbol := StripSymbol(tt.name)
		assert.Equal(t, tt.clean, clean, "name %q", tt.name)
		assert.Equal(t, tt.symbol, symbol, "name %q", tt.name)
		assert.Equal(t, tt.class, Classify(symbol), "name %q", tt.name)
	}
}

func TestEventTypeAndStageForClassification(t *testing.T) {
	assert.Equal(t, model.EventTournament, EventTypeFor(ClassTournament))
	assert.Equal(t, model.EventRegularSeason, EventTypeFor(ClassLeague))
	assert.Equal(t, model.EventPlayoff, EventTypeFor(ClassPlayoff))
	assert.Equal(t, model.EventExhibition, EventTypeFor(ClassExhibition))
	assert.Equal(t, model.StagePlayoff, StageFor(ClassPlayoff))
	assert.Equal(t, model.StageRegularSeason, StageFor(ClassLeague))
}
