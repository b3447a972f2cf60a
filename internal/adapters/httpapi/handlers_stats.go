package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xvierd/tempo/internal/domain"
	"github.com/xvierd/tempo/internal/export"
	"github.com/xvierd/tempo/internal/ports"
)

const (
	defaultSessionLimit = 20
	maxSessionLimit     = 500
)

// StatsHandler handles analytics HTTP requests.
type StatsHandler struct {
	stats ports.StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(stats ports.StatsProvider) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Daily handles GET /stats/daily
func (h *StatsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	h.period(w, r, h.stats.GetDailyStats)
}

// Weekly handles GET /stats/weekly
func (h *StatsHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	h.period(w, r, h.stats.GetWeeklyStats)
}

// Monthly handles GET /stats/monthly
func (h *StatsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	h.period(w, r, h.stats.GetMonthlyStats)
}

func (h *StatsHandler) period(w http.ResponseWriter, r *http.Request, fetch func(context.Context) ([]domain.PeriodStats, error)) {
	stats, err := fetch(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load stats: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toPeriods(stats))
}

// Streak handles GET /stats/streak
func (h *StatsHandler) Streak(w http.ResponseWriter, r *http.Request) {
	streak, err := h.stats.GetStreakInfo(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load streak: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, StreakResponse{
		Current:        streak.Current,
		Longest:        streak.Longest,
		LastActiveDate: streak.LastActiveDate,
	})
}

// Achievements handles GET /stats/achievements
func (h *StatsHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.stats.GetAchievements(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load achievements: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toAchievements(achievements))
}

// Categories handles GET /stats/categories
func (h *StatsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.stats.GetCategoryStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load categories: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toCategories(categories))
}

// Insights handles GET /stats/insights
func (h *StatsHandler) Insights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.stats.GetInsights(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load insights: "+err.Error())
		return
	}
	recommendations := insights.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}
	writeJSON(w, http.StatusOK, InsightsResponse{
		MostProductiveDay:      insights.MostProductiveDay,
		MostProductiveHour:     insights.MostProductiveHour,
		AverageSessionMinutes:  insights.AverageSessionMinutes,
		AverageTasksPerSession: insights.AverageTasksPerSession,
		CompletionRate:         insights.CompletionRate,
		Recommendations:        recommendations,
	})
}

// Goals handles GET /stats/goals
func (h *StatsHandler) Goals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.stats.GetGoalProgress(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load goals: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toGoals(goals))
}

// RecentSessions handles GET /sessions?limit=N
func (h *StatsHandler) RecentSessions(w http.ResponseWriter, r *http.Request) {
	limit := defaultSessionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxSessionLimit)
	}

	sessions, err := h.stats.GetRecentSessions(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load sessions: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toSessions(sessions))
}

// Export handles GET /export/{format}
func (h *StatsHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")

	data, err := h.stats.ExportReport(r.Context(), format)
	if errors.Is(err, domain.ErrUnsupportedFormat) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export report: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
