// Package handler provides HTTP handlers for all API endpoints.
// Handlers are thin: they decode the request, call the import or
// standings core, and write the result.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/puckboard/puckboard-data/internal/api/respond"
	"github.com/puckboard/puckboard-data/internal/cache"
	"github.com/puckboard/puckboard-data/internal/config"
	"github.com/puckboard/puckboard-data/internal/db"
	"github.com/puckboard/puckboard-data/internal/reconcile"
	"github.com/puckboard/puckboard-data/internal/store"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool  *db.Pool
	store store.Store
	cache *cache.Cache
	cfg   *config.Config
	rec   *reconcile.Reconciler
}

// New creates a Handler with shared dependencies.
func New(pool *db.Pool, st store.Store, c *cache.Cache, cfg *config.Config) *Handler {
	return &Handler{
		pool:  pool,
		store: st,
		cache: c,
		cfg:   cfg,
		rec: reconcile.New(st, slog.Default(), reconcile.Options{
			TeamLevelDefault: cfg.TeamLevelDefault,
			TeamSkillDefault: cfg.TeamSkillDefault,
			HomeVenues:       cfg.HomeVenues,
		}),
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and docs location.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Puckboard Data API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
