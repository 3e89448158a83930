package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// healthCheckTimeout bounds each dependency check in /api/health.
const healthCheckTimeout = 2 * time.Second

func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.metricsMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrCodeBadRequest, "method not allowed")
	})

	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/appliances", s.handleListCatalogue)

		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Route("/users/me", func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Route("/rooms", func(r chi.Router) {
				r.Get("/", s.handleListRooms)
				r.Post("/", s.handleCreateRoom)
				r.Put("/{id}", s.handleUpdateRoom)
				r.Delete("/{id}", s.handleDeleteRoom)
			})

			r.Route("/appliances", func(r chi.Router) {
				r.Get("/", s.handleListAppliances)
				r.Post("/", s.handleCreateAppliance)
				r.Put("/{id}", s.handleUpdateAppliance)
				r.Delete("/{id}", s.handleDeleteAppliance)
			})

			r.Get("/activity", s.handleListActivity)
		})
	})

	return r
}

// handleHealth checks each registered dependency.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	checks := make(map[string]string, len(s.checks))

	for name, checker := range s.checks {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := checker.HealthCheck(ctx)
		cancel()
		if err == nil {
			checks[name] = "ok"
			continue
		}
		checks[name] = err.Error()
		if name == "database" {
			status, code = "unhealthy", http.StatusServiceUnavailable
		} else if status == "ok" {
			status = "degraded"
		}
	}

	writeJSON(w, code, map[string]any{
		"status":  status,
		"version": s.version,
		"checks":  checks,
	})
}

// handleListCatalogue returns every archetype. No authentication.
func (s *Server) handleListCatalogue(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalogue.List())
}
