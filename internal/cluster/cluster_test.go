package cluster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puckboard/puckboard-data/internal/model"
	"github.com/puckboard/puckboard-data/internal/record"
)

func entry(day time.Time, venue string) record.ScheduleEntry {
	return record.ScheduleEntry{Date: day, VenueClean: venue}
}

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildGapBoundary(t *testing.T) {
	// 4 days apart merge into one cluster, 5 days apart split.
	merged := Build([]record.ScheduleEntry{
		entry(day(time.October, 4), "Rink A"),
		entry(day(time.October, 8), "Rink A"),
	}, model.EventTournament)
	require.Len(t, merged, 1)

	split := Build([]record.ScheduleEntry{
		entry(day(time.October, 4), "Rink A"),
		entry(day(time.October, 9), "Rink B"),
	}, model.EventTournament)
	require.Len(t, split, 2)
}

func TestBuildChainsFromLatestDate(t *testing.T) {
	// Oct 12 is 8 days from Oct 4 but only 4 from Oct 8: the gap is
	// measured against the latest date seen, so all three merge.
	clusters := Build([]record.ScheduleEntry{
		entry(day(time.October, 4), ""),
		entry(day(time.October, 8), ""),
		entry(day(time.October, 12), ""),
	}, model.EventTournament)
	require.Len(t, clusters, 1)
	assert.Equal(t, day(time.October, 4), clusters[0].StartDate)
	assert.Equal(t, day(time.October, 12), clusters[0].EndDate)
	assert.Len(t, clusters[0].Entries, 3)
}

func TestBuildSortsInput(t *testing.T) {
	clusters := Build([]record.ScheduleEntry{
		entry(day(time.November, 20), ""),
		entry(day(time.October, 4), ""),
		entry(day(time.October, 5), ""),
	}, model.EventTournament)
	require.Len(t, clusters, 2)
	assert.Equal(t, day(time.October, 4), clusters[0].StartDate)
	assert.Equal(t, day(time.November, 20), clusters[1].StartDate)
}

func TestBuildLocationSkipsPlaceholder(t *testing.T) {
	clusters := Build([]record.ScheduleEntry{
		entry(day(time.October, 4), "Add Rink"),
		entry(day(time.October, 5), ""),
		entry(day(time.October, 6), "Bell Sensplex"),
	}, model.EventTournament)
	require.Len(t, clusters, 1)
	assert.Equal(t, "Bell Sensplex", clusters[0].Location)
}

func TestBuildSynthesizedNames(t *testing.T) {
	withLoc := Build([]record.ScheduleEntry{
		entry(day(time.October, 4), "Minto Arena"),
		entry(day(time.October, 5), "Minto Arena"),
	}, model.EventTournament)
	require.Len(t, withLoc, 1)
	assert.Equal(t, "Tournament @ Minto Arena (Oct 4-Oct 5)", withLoc[0].Name)

	singleDay := Build([]record.ScheduleEntry{
		entry(day(time.March, 1), ""),
	}, model.EventProvincial)
	require.Len(t, singleDay, 1)
	assert.Equal(t, "Provincials (Mar 1)", singleDay[0].Name)
	assert.Equal(t, model.EventProvincial, singleDay[0].EventType)
}

func TestBuildEmpty(t *testing.T) {
	assert.Nil(t, Build(nil, model.EventTournament))
}
