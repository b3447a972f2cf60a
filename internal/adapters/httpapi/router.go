// Package httpapi serves the productivity analytics as a read-only JSON API.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xvierd/tempo/internal/logging"
	"github.com/xvierd/tempo/internal/ports"
)

// NewRouter creates the Chi router with all routes and middleware.
func NewRouter(stats ports.StatsProvider, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = logging.Discard()
	}

	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	h := NewStatsHandler(stats)

	r.Get("/health", Health)

	r.Route("/stats", func(r chi.Router) {
		r.Get("/daily", h.Daily)
		r.Get("/weekly", h.Weekly)
		r.Get("/monthly", h.Monthly)
		r.Get("/streak", h.Streak)
		r.Get("/achievements", h.Achievements)
		r.Get("/categories", h.Categories)
		r.Get("/insights", h.Insights)
		r.Get("/goals", h.Goals)
	})

	r.Get("/sessions", h.RecentSessions)
	r.Get("/export/{format}", h.Export)

	return r
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
