// Package cluster groups event-less schedule entries into coherent
// tournament clusters by temporal proximity. A weekend tournament shows
// up in a pasted schedule as a burst of games on consecutive days; a gap
// of more than a few days means a different competition.
package cluster

import (
	"fmt"
	"sort"
	"time"

	"github.com/puckboard/puckboard-data/internal/model"
	"github.com/puckboard/puckboard-data/internal/record"
)

// MaxGapDays is the largest day gap that still joins an entry to the
// open cluster. Entries 4 days apart merge; 5 days apart split.
const MaxGapDays = 4

// placeholderVenue is the source site's stand-in for an unknown rink and
// never counts as a cluster location.
const placeholderVenue = "Add Rink"

// Cluster is a contiguous run of schedule entries inferred to be one
// event, with derived name, date range, and location.
type Cluster struct {
	Name      string                 `json:"name"`
	EventType model.EventType        `json:"event_type"`
	StartDate time.Time              `json:"start_date"`
	EndDate   time.Time              `json:"end_date"`
	Location  string                 `json:"location,omitempty"`
	Entries   []record.ScheduleEntry `json:"-"`
}

// Build clusters date-ordered entries with a single greedy pass: each
// entry either extends the open cluster (gap <= MaxGapDays from the
// latest date seen) or closes it and starts the next. Clusters are never
// re-optimized or reordered across gaps afterward. The event type labels
// the derived name and drives event matching during import.
func Build(entries []record.ScheduleEntry, eventType model.EventType) []Cluster {
	if len(entries) == 0 {
		return nil
	}

	sorted := make([]record.ScheduleEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var clusters []Cluster
	current := []record.ScheduleEntry{sorted[0]}

	for _, e := range sorted[1:] {
		latest := current[len(current)-1].Date
		gap := e.Date.Sub(latest).Hours() / 24
		if gap <= MaxGapDays {
			current = append(current, e)
		} else {
			clusters = append(clusters, derive(current, eventType))
			current = []record.ScheduleEntry{e}
		}
	}
	clusters = append(clusters, derive(current, eventType))
	return clusters
}

// derive computes a cluster's date range, location, and synthesized name
// from its members.
func derive(entries []record.ScheduleEntry, eventType model.EventType) Cluster {
	start, end := entries[0].Date, entries[0].Date
	for _, e := range entries[1:] {
		if e.Date.Before(start) {
			start = e.Date
		}
		if e.Date.After(end) {
			end = e.Date
		}
	}

	location := ""
	for _, e := range entries {
		if e.VenueClean != "" && e.VenueClean != placeholderVenue {
			location = e.VenueClean
			break
		}
	}

	return Cluster{
		Name:      synthesizeName(eventType, start, end, location),
		EventType: eventType,
		StartDate: start,
		EndDate:   end,
		Location:  location,
		Entries:   entries,
	}
}

func synthesizeName(eventType model.EventType, start, end time.Time, location string) string {
	dateRange := start.Format("Jan 2")
	if !end.Equal(start) {
		dateRange += "-" + end.Format("Jan 2")
	}
	label := typeLabel(eventType)
	if location == "" {
		return fmt.Sprintf("%s (%s)", label, dateRange)
	}
	return fmt.Sprintf("%s @ %s (%s)", label, location, dateRange)
}

func typeLabel(t model.EventType) string {
	switch t {
	case model.EventProvincial:
		return "Provincials"
	case model.EventPlayoff:
		return "Playoffs"
	case model.EventExhibition:
		return "Exhibition"
	default:
		return "Tournament"
	}
}
