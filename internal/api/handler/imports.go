package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/puckboard/puckboard-data/internal/api/respond"
	"github.com/puckboard/puckboard-data/internal/model"
	"github.com/puckboard/puckboard-data/internal/reconcile"
	"github.com/puckboard/puckboard-data/internal/record"
)

// standingsCachePrefix keys the computed-standings cache; imports
// invalidate it so fresh games show up on the next read.
const standingsCachePrefix = "standings:"

type importGamesRequest struct {
	EventID string `json:"event_id"`
	// Raw is pasted score-table text; Rows takes pre-parsed rows instead.
	Raw   string           `json:"raw,omitempty"`
	Rows  []record.GameRow `json:"rows,omitempty"`
	Stage string           `json:"stage,omitempty"`
}

// ImportGames imports a pasted score table into an event.
// @Summary Import a score table
// @Description Parses tab-separated score-table text, resolves teams, deduplicates, inserts games, and cross-checks the standings snapshot.
// @Tags imports
// @Accept json
// @Produce json
// @Success 200 {object} reconcile.GameImportResult
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/import/games [post]
func (h *Handler) ImportGames(w http.ResponseWriter, r *http.Request) {
	var req importGamesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}

	rows := req.Rows
	if len(rows) == 0 && req.Raw != "" {
		rows = record.ParseGameRows(req.Raw)
	}

	res, err := h.rec.ImportGames(r.Context(), req.EventID, rows, model.Stage(req.Stage))
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "IMPORT_REJECTED", "Import rejected", err.Error())
		return
	}

	h.cache.Invalidate(standingsCachePrefix)
	respond.WriteJSONObject(w, http.StatusOK, res)
}

type importStandingsRequest struct {
	EventID string                `json:"event_id"`
	Raw     string                `json:"raw,omitempty"`
	Rows    []record.StandingsRow `json:"rows,omitempty"`
}

// ImportStandings imports a pasted standings table as an event snapshot.
// @Summary Import a standings table
// @Description Parses tab-separated standings text, resolves or creates teams, and upserts the snapshot rows.
// @Tags imports
// @Accept json
// @Produce json
// @Success 200 {object} reconcile.StandingsImportResult
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/import/standings [post]
func (h *Handler) ImportStandings(w http.ResponseWriter, r *http.Request) {
	var req importStandingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}

	rows := req.Rows
	if len(rows) == 0 && req.Raw != "" {
		rows = record.ParseStandingsRows(req.Raw)
	}

	res, err := h.rec.ImportStandings(r.Context(), req.EventID, rows)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "IMPORT_REJECTED", "Import rejected", err.Error())
		return
	}

	h.cache.Invalidate(standingsCachePrefix)
	respond.WriteJSONObject(w, http.StatusOK, res)
}

type importScheduleRequest struct {
	TeamID               string                 `json:"team_id"`
	Raw                  string                 `json:"raw,omitempty"`
	Entries              []record.ScheduleEntry `json:"entries,omitempty"`
	SeasonStartYear      int                    `json:"season_start_year,omitempty"`
	RegularSeasonEventID string                 `json:"regular_season_event_id,omitempty"`
	DoImport             bool                   `json:"do_import"`
}

// ImportSchedule reconciles a pasted free-text team schedule.
// @Summary Reconcile a team schedule
// @Description Parses free-text schedule entries, reconciles league games against the designated event, and clusters the rest into tournaments. Analyze-only unless do_import is set.
// @Tags imports
// @Accept json
// @Produce json
// @Success 200 {object} reconcile.ScheduleReport
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/import/schedule [post]
func (h *Handler) ImportSchedule(w http.ResponseWriter, r *http.Request) {
	var req importScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}

	entries := req.Entries
	if len(entries) == 0 && req.Raw != "" {
		year := req.SeasonStartYear
		if year == 0 {
			year = currentSeasonStartYear()
		}
		entries = record.ParseSchedule(req.Raw, year)
	}

	report, err := h.rec.ReconcileSchedule(r.Context(), reconcile.ScheduleInput{
		TeamID:               req.TeamID,
		Entries:              entries,
		RegularSeasonEventID: req.RegularSeasonEventID,
		DoImport:             req.DoImport,
	})
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "IMPORT_REJECTED", "Import rejected", err.Error())
		return
	}

	if req.DoImport {
		h.cache.Invalidate(standingsCachePrefix)
	}
	respond.WriteJSONObject(w, http.StatusOK, report)
}

// currentSeasonStartYear infers the season anchor from today's date:
// from September on the season started this year, before that last year.
func currentSeasonStartYear() int {
	now := time.Now()
	if now.Month() >= time.September {
		return now.Year()
	}
	return now.Year() - 1
}
