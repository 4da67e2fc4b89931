/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for terminal/admin frontends

ROUTE GROUPS:
  /api/employees/*       Employee, template, punch, evaluation endpoints
  /api/exceptions/*      Exception approval workflow
  /api/rule-packages/*   Tenant rule package configuration
  /health                Liveness probe

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Put("/{id}/template", h.SaveTemplate)
			r.Get("/{id}/template", h.GetTemplate)
			r.Post("/{id}/punches", h.SubmitPunch)
			r.Get("/{id}/punches", h.ListPunches)
			r.Get("/{id}/exceptions", h.ListExceptions)
			r.Post("/{id}/evaluate", h.Evaluate)
			r.Get("/{id}/evaluations", h.ListEvaluations)
		})

		// Exception approval routes
		r.Route("/exceptions", func(r chi.Router) {
			r.Post("/{id}/approve", h.ApproveException)
			r.Post("/{id}/reject", h.RejectException)
		})

		// Rule package routes
		r.Route("/rule-packages", func(r chi.Router) {
			r.Get("/", h.ListRulePackages)
			r.Put("/{id}", h.SaveRulePackage)
			r.Get("/{id}", h.GetRulePackage)
		})
	})

	// Health check
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
