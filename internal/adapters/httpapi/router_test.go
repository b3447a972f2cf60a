package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/tempo/internal/domain"
)

type stubStats struct {
	err       error
	panicOn   string
	lastLimit int
}

func (s *stubStats) GetDailyStats(ctx context.Context) ([]domain.PeriodStats, error) {
	if s.panicOn == "daily" {
		panic("boom")
	}
	return []domain.PeriodStats{{Key: "2026-10-18", TotalMinutes: 50, SessionsCompleted: 2}}, s.err
}

func (s *stubStats) GetWeeklyStats(ctx context.Context) ([]domain.PeriodStats, error) {
	return []domain.PeriodStats{{Key: "2026-W42"}}, s.err
}

func (s *stubStats) GetMonthlyStats(ctx context.Context) ([]domain.PeriodStats, error) {
	return nil, s.err
}

func (s *stubStats) GetStreakInfo(ctx context.Context) (domain.StreakInfo, error) {
	return domain.StreakInfo{Current: 3, Longest: 5}, s.err
}

func (s *stubStats) GetAchievements(ctx context.Context) ([]domain.Achievement, error) {
	return []domain.Achievement{{ID: "first_session", Progress: 1, MaxProgress: 1}}, s.err
}

func (s *stubStats) GetCategoryStats(ctx context.Context) ([]domain.CategoryStats, error) {
	return []domain.CategoryStats{{Category: domain.CategoryWriting, TaskCount: 1}}, s.err
}

func (s *stubStats) GetInsights(ctx context.Context) (domain.ProductivityInsights, error) {
	return domain.ProductivityInsights{MostProductiveDay: "Tuesday"}, s.err
}

func (s *stubStats) GetGoalProgress(ctx context.Context) ([]domain.GoalProgress, error) {
	return []domain.GoalProgress{{Period: "daily", TargetMinutes: 120, ActualMinutes: 60, Percent: 50}}, s.err
}

func (s *stubStats) GetRecentSessions(ctx context.Context, limit int) ([]*domain.Session, error) {
	s.lastLimit = limit
	start := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	session := domain.NewSession("s-1", domain.ModeFocus, start)
	session.Close(start.Add(25 * time.Minute))
	return []*domain.Session{session}, s.err
}

func (s *stubStats) ExportReport(ctx context.Context, format string) ([]byte, error) {
	if format != "csv" {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
	return []byte("session_id,mode\n"), s.err
}

func serve(t *testing.T, stats *stubStats, path string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(stats, nil)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(t, &stubStats{}, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Header().Get("X-Request-ID"), 8)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPeriodStats(t *testing.T) {
	rec := serve(t, &stubStats{}, "/stats/daily")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []PeriodResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "2026-10-18", got[0].Key)
	assert.Equal(t, 50.0, got[0].TotalMinutes)

	rec = serve(t, &stubStats{}, "/stats/monthly")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestStatsEndpoints(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/stats/weekly", `"key":"2026-W42"`},
		{"/stats/streak", `"current":3`},
		{"/stats/achievements", `"unlocked":true`},
		{"/stats/categories", `"category":"Writing"`},
		{"/stats/insights", `"mostProductiveDay":"Tuesday"`},
		{"/stats/goals", `"percent":50`},
		{"/sessions", `"minutes":25`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(t, &stubStats{}, tt.path)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestRecentSessionsLimit(t *testing.T) {
	stats := &stubStats{}

	serve(t, stats, "/sessions")
	assert.Equal(t, defaultSessionLimit, stats.lastLimit)

	serve(t, stats, "/sessions?limit=5")
	assert.Equal(t, 5, stats.lastLimit)

	serve(t, stats, "/sessions?limit=100000")
	assert.Equal(t, maxSessionLimit, stats.lastLimit)

	rec := serve(t, stats, "/sessions?limit=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = serve(t, stats, "/sessions?limit=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport(t *testing.T) {
	rec := serve(t, &stubStats{}, "/export/csv")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "session_id,mode\n", rec.Body.String())

	rec = serve(t, &stubStats{}, "/export/pdf")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported")
}

func TestProviderErrorReturns500(t *testing.T) {
	rec := serve(t, &stubStats{err: errors.New("database is locked")}, "/stats/streak")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "database is locked")
}

func TestRecoveryMiddleware(t *testing.T) {
	rec := serve(t, &stubStats{panicOn: "daily"}, "/stats/daily")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	rec := serve(t, &stubStats{}, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
