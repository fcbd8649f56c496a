package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the operational API. The surface is
// deliberately thin: everything here reduces to "select a spot-id set,
// run the orchestrator" or a read-only report.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/batch", func(r chi.Router) {
			r.Post("/run", h.RunBatch)
			r.Get("/runs", h.GetRuns)
			r.Get("/runs/{id}/progress", h.GetRunProgress)
		})
		r.Route("/assignments", func(r chi.Router) {
			r.Get("/summary", h.GetSummary)
			r.Get("/{spotID}", h.GetAssignment)
		})
		r.Get("/spots/unassigned", h.GetUnassignedSpots)
	})

	return r
}
