package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/puckboard/puckboard-data/internal/api/respond"
	"github.com/puckboard/puckboard-data/internal/cache"
	"github.com/puckboard/puckboard-data/internal/model"
	"github.com/puckboard/puckboard-data/internal/standings"
)

// poolStandings is one pool's computed table.
type poolStandings struct {
	Pool      string                   `json:"pool"`
	Standings []standings.TeamStanding `json:"standings"`
}

// eventStandingsResponse is the full standings view for one event.
type eventStandingsResponse struct {
	EventID   string                   `json:"event_id"`
	EventName string                   `json:"event_name"`
	Pools     []poolStandings          `json:"pools,omitempty"`
	Overall   []standings.TeamStanding `json:"overall,omitempty"`
	Bracket   []model.Game             `json:"bracket,omitempty"`
}

// EventStandings computes an event's standings from its persisted games.
// @Summary Computed event standings
// @Description Computes ranked standings per pool (or overall when the event has no pools) and resolves bracket placeholders from pool results.
// @Tags standings
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} eventStandingsResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/events/{eventID}/standings [get]
func (h *Handler) EventStandings(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	key := standingsCachePrefix + eventID

	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, h.cfg.CacheTTL, true)
		return
	}

	resp, status, err := h.computeEventStandings(r.Context(), eventID)
	if err != nil {
		respond.WriteErrorDetail(w, status, "STANDINGS_FAILED", "Could not compute standings", err.Error())
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Could not encode standings")
		return
	}
	etag := h.cache.Set(key, data, h.cfg.CacheTTL)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, h.cfg.CacheTTL, false)
}

func (h *Handler) computeEventStandings(ctx context.Context, eventID string) (*eventStandingsResponse, int, error) {
	event, err := h.store.EventByID(ctx, eventID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if event == nil {
		return nil, http.StatusNotFound, errNotFound(eventID)
	}

	games, err := h.store.GamesByEvent(ctx, eventID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	rules, err := h.store.TiebreakerRules(ctx, eventID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	pts, diffCap := eventScoring(event)

	resp := &eventStandingsResponse{EventID: event.ID, EventName: event.Name}

	pools, err := h.store.PoolsByEvent(ctx, eventID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	if len(pools) == 0 {
		overall, err := h.overallStandings(ctx, games, rules, pts, diffCap)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		resp.Overall = overall
		return resp, http.StatusOK, nil
	}

	byPoolName := make(map[string][]standings.TeamStanding, len(pools))
	for _, p := range pools {
		teams, err := h.store.PoolTeams(ctx, p.ID)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		refs := make([]standings.TeamRef, 0, len(teams))
		for _, t := range teams {
			refs = append(refs, standings.TeamRef{ID: t.ID, Name: t.Name})
		}
		table := standings.Compute(refs, poolGames(games, p.ID), rules, pts, diffCap)
		byPoolName[p.Name] = table
		resp.Pools = append(resp.Pools, poolStandings{Pool: p.Name, Standings: table})
	}

	// Bracket games carry placeholders until pool results decide them.
	for i := range games {
		g := games[i]
		if g.HomePlaceholder == nil && g.AwayPlaceholder == nil {
			continue
		}
		resp.Bracket = append(resp.Bracket, standings.ResolvePlaceholders(g, byPoolName))
	}
	return resp, http.StatusOK, nil
}

// overallStandings ranks every team that appears in the event's games.
func (h *Handler) overallStandings(ctx context.Context, games []model.Game, rules []model.TiebreakerRule, pts model.PointStructure, diffCap int) ([]standings.TeamStanding, error) {
	seen := make(map[string]bool)
	var ids []string
	for i := range games {
		for _, side := range []*string{games[i].HomeTeamID, games[i].AwayTeamID} {
			if side != nil && !seen[*side] {
				seen[*side] = true
				ids = append(ids, *side)
			}
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	teams, err := h.store.TeamsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	refs := make([]standings.TeamRef, 0, len(ids))
	for _, id := range ids {
		name := id
		if t, ok := teams[id]; ok {
			name = t.Name
		}
		refs = append(refs, standings.TeamRef{ID: id, Name: name})
	}
	return standings.Compute(refs, games, rules, pts, diffCap), nil
}

func poolGames(games []model.Game, poolID string) []model.Game {
	var out []model.Game
	for _, g := range games {
		if g.PoolID != nil && *g.PoolID == poolID {
			out = append(out, g)
		}
	}
	return out
}

// eventScoring applies the defaults when the event carries no explicit
// point structure or differential cap.
func eventScoring(e *model.Event) (model.PointStructure, int) {
	pts := e.Points
	if pts == (model.PointStructure{}) {
		pts = model.DefaultPointStructure()
	}
	diffCap := e.GoalDiffCap
	if diffCap <= 0 {
		diffCap = model.DefaultGoalDiffCap
	}
	return pts, diffCap
}

type errNotFound string

func (e errNotFound) Error() string { return "event " + string(e) + " not found" }
