// Package api wires the HTTP surface: router, middleware, and the
// embedded OpenAPI document served through Swagger UI.
package api

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/puckboard/puckboard-data/internal/api/handler"
	"github.com/puckboard/puckboard-data/internal/cache"
	"github.com/puckboard/puckboard-data/internal/config"
	"github.com/puckboard/puckboard-data/internal/db"
	"github.com/puckboard/puckboard-data/internal/store"
)

//go:embed openapi.json
var openAPIDoc []byte

// NewRouter creates and configures the chi router with all middleware
// and routes.
func NewRouter(pool *db.Pool, st store.Store, appCache *cache.Cache, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	r.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	// --- Handler dependencies ---
	h := handler.New(pool, st, appCache, cfg)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Swagger UI over the embedded OpenAPI document.
	r.Get("/docs/doc.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(openAPIDoc)
	})
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Imports
		r.Post("/import/games", h.ImportGames)
		r.Post("/import/schedule", h.ImportSchedule)
		r.Post("/import/standings", h.ImportStandings)

		// Standings
		r.Get("/events/{eventID}/standings", h.EventStandings)
	})

	return r
}
