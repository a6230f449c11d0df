package reconcile

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/puckboard/puckboard-data/internal/cluster"
	"github.com/puckboard/puckboard-data/internal/model"
	"github.com/puckboard/puckboard-data/internal/record"
	"github.com/puckboard/puckboard-data/internal/resolve"
)

// ScheduleInput is one schedule reconciliation request: a tracked team's
// parsed ranking-site schedule plus the context to reconcile it against.
type ScheduleInput struct {
	// TeamID is the tracked team every entry is relative to.
	TeamID string
	// Entries are the parsed schedule entries, all classifications mixed.
	Entries []record.ScheduleEntry
	// RegularSeasonEventID designates the league event to reconcile
	// league-classified entries against. Empty means every league entry
	// reports as new and nothing league is imported.
	RegularSeasonEventID string
	// DoImport writes games and events; false analyzes only.
	DoImport bool
}

// ReconcileSchedule classifies a tracked team's schedule entries,
// reconciles league entries against the designated regular-season event,
// and groups the rest into tournament clusters that are matched to
// existing events or created. Analyze mode (DoImport false) produces the
// same report without writing anything.
func (r *Reconciler) ReconcileSchedule(ctx context.Context, in ScheduleInput) (*ScheduleReport, error) {
	if in.TeamID == "" {
		return nil, fmt.Errorf("team id is required")
	}
	if len(in.Entries) == 0 {
		return nil, fmt.Errorf("no schedule entries to reconcile")
	}

	team, err := r.store.TeamsByIDs(ctx, []string{in.TeamID})
	if err != nil {
		return nil, fmt.Errorf("load team %s: %w", in.TeamID, err)
	}
	if _, ok := team[in.TeamID]; !ok {
		return nil, fmt.Errorf("team %s not found", in.TeamID)
	}

	report := &ScheduleReport{Summary: make(map[record.Classification]int)}
	var league []record.ScheduleEntry
	byClass := make(map[record.Classification][]record.ScheduleEntry)
	for _, e := range in.Entries {
		report.Summary[e.Classification]++
		if e.Classification == record.ClassLeague {
			league = append(league, e)
		} else {
			byClass[e.Classification] = append(byClass[e.Classification], e)
		}
	}

	resolver := resolve.New(r.store, r.log, r.opts.TeamLevelDefault, r.opts.TeamSkillDefault)

	r.reconcileLeague(ctx, in, league, resolver, report)
	r.reconcileClusters(ctx, in, byClass, resolver, report)

	r.log.Info("schedule reconciled", "team", in.TeamID, "do_import", in.DoImport,
		"entries", len(in.Entries), "imported", report.Imported,
		"skipped", report.Skipped, "errors", len(report.Errors))
	return report, nil
}

// reconcileLeague compares each league entry with the designated event's
// existing games. A stored score is never overwritten: a differing score
// reports as a conflict and the entry is not imported.
func (r *Reconciler) reconcileLeague(ctx context.Context, in ScheduleInput, entries []record.ScheduleEntry, resolver *resolve.Resolver, report *ScheduleReport) {
	for _, e := range entries {
		res := LeagueEntryResult{
			Date:     e.Date.Format("2006-01-02"),
			Opponent: e.OpponentClean,
		}

		if in.RegularSeasonEventID == "" {
			res.Outcome = OutcomeNew
			res.Detail = "no regular-season event designated"
			report.League = append(report.League, res)
			continue
		}

		oppID, err := resolver.Resolve(ctx, e.OpponentClean, e.OpponentExternalID)
		if err != nil {
			report.AddErrorf("league %s vs %q: %v", res.Date, e.OpponentClean, err)
			continue
		}

		existing, err := r.store.GameByEventPairOnDay(ctx, in.RegularSeasonEventID, in.TeamID, oppID, e.Day())
		if err != nil {
			report.AddErrorf("league %s vs %q: lookup: %v", res.Date, e.OpponentClean, err)
			continue
		}

		switch {
		case existing == nil:
			res.Outcome = OutcomeNew
			if in.DoImport {
				// Dedup across all events, not just the designated one.
				// The same game may already sit under a tournament event
				// from the other team's paste.
				dup, err := r.store.GameByPairOnDay(ctx, in.TeamID, oppID, e.Day())
				if err != nil {
					report.AddErrorf("league %s vs %q: dedup lookup: %v", res.Date, e.OpponentClean, err)
					continue
				}
				if dup != nil {
					res.GameID = dup.ID
					res.Detail = "already stored under another event"
					report.Skipped++
					break
				}
				eventID := in.RegularSeasonEventID
				g := r.gameFromEntry(in.TeamID, oppID, e, &eventID, model.StageRegularSeason)
				id, err := r.store.InsertGame(ctx, g)
				if err != nil {
					report.AddErrorf("league %s vs %q: insert: %v", res.Date, e.OpponentClean, err)
					continue
				}
				res.GameID = id
				report.Imported++
			}

		case !existing.Completed():
			res.Outcome = OutcomeFillable
			res.GameID = existing.ID
			res.Detail = fmt.Sprintf("existing game has no score, source shows %d-%d", e.OwnScore, e.OppScore)

		default:
			own, opp := orientScores(existing, in.TeamID)
			if own == e.OwnScore && opp == e.OppScore {
				res.Outcome = OutcomeMatched
			} else {
				res.Outcome = OutcomeConflict
				res.Detail = fmt.Sprintf("stored %d-%d, source shows %d-%d", own, opp, e.OwnScore, e.OppScore)
			}
			res.GameID = existing.ID
		}
		report.League = append(report.League, res)
	}
}

// reconcileClusters groups non-league entries into temporal clusters per
// classification, matches or creates an event per cluster, and imports
// members with a cross-event pair-per-day dedup. The cross-event check
// catches the same tournament game already imported under a different
// event from another team's schedule paste.
func (r *Reconciler) reconcileClusters(ctx context.Context, in ScheduleInput, byClass map[record.Classification][]record.ScheduleEntry, resolver *resolve.Resolver, report *ScheduleReport) {
	for _, class := range []record.Classification{
		record.ClassTournament, record.ClassPlayoff, record.ClassProvincial,
		record.ClassDistrict, record.ClassNational, record.ClassExhibition,
	} {
		entries := byClass[class]
		if len(entries) == 0 {
			continue
		}
		eventType := record.EventTypeFor(class)
		stage := record.StageFor(class)

		for _, c := range cluster.Build(entries, eventType) {
			preview := ClusterPreview{
				Name:      c.Name,
				EventType: string(c.EventType),
				StartDate: c.StartDate.Format("2006-01-02"),
				EndDate:   c.EndDate.Format("2006-01-02"),
				Location:  c.Location,
				Games:     len(c.Entries),
			}

			eventID, action, err := r.matchOrCreateEvent(ctx, c, in.DoImport)
			if err != nil {
				report.AddErrorf("cluster %q: %v", c.Name, err)
				continue
			}
			preview.EventID = eventID
			preview.Action = action
			report.Clusters = append(report.Clusters, preview)

			if !in.DoImport || eventID == "" {
				continue
			}
			r.importClusterGames(ctx, in.TeamID, eventID, stage, c.Entries, resolver, report)
		}
	}
}

// matchOrCreateEvent finds the event a cluster belongs to: first by type
// and date-range overlap, then by exact synthesized name, else a new one.
func (r *Reconciler) matchOrCreateEvent(ctx context.Context, c cluster.Cluster, doImport bool) (eventID, action string, err error) {
	ev, err := r.store.EventByTypeOverlap(ctx, c.EventType, c.StartDate, c.EndDate)
	if err != nil {
		return "", "", fmt.Errorf("overlap lookup: %w", err)
	}
	if ev == nil {
		ev, err = r.store.EventByName(ctx, c.Name)
		if err != nil {
			return "", "", fmt.Errorf("name lookup: %w", err)
		}
	}
	if ev != nil {
		return ev.ID, "matched", nil
	}
	if !doImport {
		return "", "would_create", nil
	}

	start, end := c.StartDate, c.EndDate
	e := model.Event{
		Name:        c.Name,
		Type:        c.EventType,
		StartDate:   &start,
		EndDate:     &end,
		Points:      model.DefaultPointStructure(),
		GoalDiffCap: model.DefaultGoalDiffCap,
	}
	if c.Location != "" {
		loc := c.Location
		e.Location = &loc
	}
	id, err := r.store.InsertEvent(ctx, e)
	if err != nil {
		return "", "", fmt.Errorf("create event: %w", err)
	}
	r.log.Info("created event", "name", c.Name, "id", id, "type", c.EventType)
	return id, "created", nil
}

func (r *Reconciler) importClusterGames(ctx context.Context, teamID, eventID string, stage model.Stage, entries []record.ScheduleEntry, resolver *resolve.Resolver, report *ScheduleReport) {
	for _, e := range entries {
		oppID, err := resolver.Resolve(ctx, e.OpponentClean, e.OpponentExternalID)
		if err != nil {
			report.AddErrorf("%s vs %q: %v", e.Date.Format("2006-01-02"), e.OpponentClean, err)
			continue
		}

		// Dedup across all events, not just this one.
		existing, err := r.store.GameByPairOnDay(ctx, teamID, oppID, e.Day())
		if err != nil {
			report.AddErrorf("%s vs %q: lookup: %v", e.Date.Format("2006-01-02"), e.OpponentClean, err)
			continue
		}
		if existing != nil {
			report.Skipped++
			continue
		}

		g := r.gameFromEntry(teamID, oppID, e, &eventID, stage)
		if _, err := r.store.InsertGame(ctx, g); err != nil {
			report.AddErrorf("%s vs %q: insert: %v", e.Date.Format("2006-01-02"), e.OpponentClean, err)
			continue
		}
		report.Imported++
	}
}

// gameFromEntry builds a completed game from a schedule entry. The
// tracked team plays at home only when the venue matches the home-rink
// allow-list; everything else defaults to away.
func (r *Reconciler) gameFromEntry(teamID, oppID string, e record.ScheduleEntry, eventID *string, stage model.Stage) model.Game {
	own, opp := e.OwnScore, e.OppScore
	g := model.Game{
		EventID:    eventID,
		Stage:      stage,
		StartTime:  entryStart(e),
		Status:     model.StatusCompleted,
		ResultType: e.ResultType,
	}
	if e.VenueClean != "" {
		v := e.VenueClean
		g.Venue = &v
	}
	if r.isHomeVenue(e.VenueClean) {
		g.HomeTeamID, g.AwayTeamID = &teamID, &oppID
		g.HomeScore, g.AwayScore = &own, &opp
	} else {
		g.HomeTeamID, g.AwayTeamID = &oppID, &teamID
		g.HomeScore, g.AwayScore = &opp, &own
	}
	return g
}

func (r *Reconciler) isHomeVenue(venue string) bool {
	v := strings.ToLower(venue)
	if v == "" {
		return false
	}
	for _, h := range r.opts.HomeVenues {
		if h != "" && strings.Contains(v, strings.ToLower(h)) {
			return true
		}
	}
	return false
}

// entryStart combines an entry's date with its optional "HH:MM" time.
func entryStart(e record.ScheduleEntry) time.Time {
	d := e.Date
	if e.TimeOfDay == "" {
		return d
	}
	parts := strings.SplitN(e.TimeOfDay, ":", 2)
	if len(parts) != 2 {
		return d
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return d
	}
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, d.Location())
}

// orientScores returns an existing game's score from the given team's
// perspective.
func orientScores(g *model.Game, teamID string) (own, opp int) {
	if g.HomeTeamID != nil && *g.HomeTeamID == teamID {
		return *g.HomeScore, *g.AwayScore
	}
	return *g.AwayScore, *g.HomeScore
}
