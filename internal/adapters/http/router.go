// Package http is the inbound admin adapter: routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/go-job-core/internal/adapters/http/handlers"
)

// NewRouter registers the admin routes. Middleware applies to every route in
// the order given.
func NewRouter(
	healthHandler *handlers.HealthHandler,
	configHandler *handlers.ConfigHandler,
	jobsHandler *handlers.JobsHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewares...)

	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/config", configHandler.Describe)
		r.Get("/jobs", jobsHandler.List)
		r.Post("/jobs/{name}/run", jobsHandler.Run)
	})

	return r
}
