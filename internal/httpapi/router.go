// Package httpapi maps the directory, leaderboard and roulette endpoints
// onto the store, validating input and translating store errors to status
// codes. Handlers are stateless; all durable state lives in Postgres.
package httpapi

import (
	"net/http"
	"time"

	"agentdir/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(d Deps) http.Handler {
	st := store.New(d.DB)
	s := server{
		agents:        st,
		results:       st,
		schema:        st,
		adminToken:    d.AdminToken,
		resultsSecret: d.ResultsSecret,
	}

	limit := d.RateLimitPerMinute
	if limit <= 0 {
		limit = 120
	}
	return newRouter(s, limit)
}

func newRouter(s server, ratePerMinute int) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(serverErrorLoggerMiddleware)
	r.Use(corsMiddleware)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(newIPRateLimiter(ratePerMinute, time.Minute).middleware)
	r.Use(middleware.Heartbeat("/healthz"))

	r.Route("/api", func(r chi.Router) {
		r.Route("/agents", func(r chi.Router) {
			r.Get("/", s.handleListAgents)
			r.Post("/", s.handleSubmitAgent)
			r.With(s.adminAuthMiddleware).Get("/pending", s.handleListPendingAgents)
			r.Get("/{agentID}", s.handleGetAgent)
			r.With(s.adminAuthMiddleware).Patch("/{agentID}", s.handleModerateAgent)
			r.With(s.adminAuthMiddleware).Delete("/{agentID}", s.handleDeleteAgent)
		})

		r.Get("/leaderboard", s.handleLeaderboard)
		r.Post("/leaderboard", s.handleRecordResult)

		r.Get("/roulette", s.handleRandomPair)
		r.Post("/roulette", s.handleCreateMatch)

		r.Get("/stats", s.handleDirectoryStats)

		r.Get("/setup", s.handleSetupStatus)
		r.Post("/setup", s.handleSetupInit)
	})

	return r
}
