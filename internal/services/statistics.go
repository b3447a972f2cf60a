package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/xvierd/tempo/internal/domain"
	"github.com/xvierd/tempo/internal/export"
	"github.com/xvierd/tempo/internal/ports"
	"github.com/xvierd/tempo/internal/stats"
	"github.com/xvierd/tempo/internal/timer"
)

// StatisticsService answers analytics queries over the stored history.
// Every call re-reads the repositories; nothing is cached.
type StatisticsService struct {
	storage  ports.Storage
	settings ports.SettingsService
	clock    timer.Clock
	loc      *time.Location
}

// Ensure StatisticsService implements ports.StatsProvider.
var _ ports.StatsProvider = (*StatisticsService)(nil)

// NewStatisticsService creates a new statistics service.
func NewStatisticsService(storage ports.Storage, settings ports.SettingsService) *StatisticsService {
	return &StatisticsService{
		storage:  storage,
		settings: settings,
		clock:    timer.SystemClock{},
		loc:      time.Local,
	}
}

// SetClock overrides the clock used for "now".
func (s *StatisticsService) SetClock(c timer.Clock) {
	s.clock = c
}

// SetLocation sets the zone whose midnights bound calendar days.
func (s *StatisticsService) SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}
	s.loc = loc
}

// Location returns the zone used for calendar days.
func (s *StatisticsService) Location() *time.Location {
	return s.loc
}

func (s *StatisticsService) history(ctx context.Context) ([]*domain.Session, []*domain.Task, error) {
	sessions, err := s.storage.Sessions().GetSessionsWithStats(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	tasks, err := s.storage.Tasks().GetAllTasks(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	return sessions, tasks, nil
}

func (s *StatisticsService) sessions(ctx context.Context) ([]*domain.Session, error) {
	sessions, err := s.storage.Sessions().GetAllSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	return sessions, nil
}

// GetDailyStats returns the last 30 active days, most recent first.
func (s *StatisticsService) GetDailyStats(ctx context.Context) ([]domain.PeriodStats, error) {
	sessions, tasks, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	return stats.Daily(sessions, tasks, s.loc), nil
}

// GetWeeklyStats returns the last 12 active ISO weeks, most recent first.
func (s *StatisticsService) GetWeeklyStats(ctx context.Context) ([]domain.PeriodStats, error) {
	sessions, tasks, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	return stats.Weekly(sessions, tasks, s.loc), nil
}

// GetMonthlyStats returns the last 12 active months, most recent first.
func (s *StatisticsService) GetMonthlyStats(ctx context.Context) ([]domain.PeriodStats, error) {
	sessions, tasks, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	return stats.Monthly(sessions, tasks, s.loc), nil
}

// GetTodayStats returns the rollup for the current calendar day.
func (s *StatisticsService) GetTodayStats(ctx context.Context) (domain.PeriodStats, error) {
	sessions, tasks, err := s.history(ctx)
	if err != nil {
		return domain.PeriodStats{}, err
	}
	return stats.Today(sessions, tasks, s.clock.Now(), s.loc), nil
}

// GetStreakInfo returns the current and longest streaks.
func (s *StatisticsService) GetStreakInfo(ctx context.Context) (domain.StreakInfo, error) {
	sessions, err := s.sessions(ctx)
	if err != nil {
		return domain.StreakInfo{}, err
	}
	return stats.Streaks(sessions, s.clock.Now(), s.loc), nil
}

// HasCompletedSessionToday reports whether any session closed today.
func (s *StatisticsService) HasCompletedSessionToday(ctx context.Context) (bool, error) {
	sessions, err := s.sessions(ctx)
	if err != nil {
		return false, err
	}
	return stats.HasCompletedSessionOn(sessions, s.clock.Now(), s.loc), nil
}

// GetFocusMinutesToday sums the focus minutes of sessions started today.
func (s *StatisticsService) GetFocusMinutesToday(ctx context.Context) (float64, error) {
	sessions, err := s.sessions(ctx)
	if err != nil {
		return 0, err
	}
	return stats.FocusMinutesOn(sessions, s.clock.Now(), s.loc), nil
}

// Dashboard is the figures the controller keeps after each refresh.
type Dashboard struct {
	Today             domain.PeriodStats
	Streak            domain.StreakInfo
	CompletedToday    bool
	FocusMinutesToday float64
}

// GetDashboard computes today's rollup and the streak from one history read.
func (s *StatisticsService) GetDashboard(ctx context.Context) (Dashboard, error) {
	sessions, tasks, err := s.history(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	now := s.clock.Now()
	return Dashboard{
		Today:             stats.Today(sessions, tasks, now, s.loc),
		Streak:            stats.Streaks(sessions, now, s.loc),
		CompletedToday:    stats.HasCompletedSessionOn(sessions, now, s.loc),
		FocusMinutesToday: stats.FocusMinutesOn(sessions, now, s.loc),
	}, nil
}

// GetAchievements recomputes every achievement from history.
func (s *StatisticsService) GetAchievements(ctx context.Context) ([]domain.Achievement, error) {
	sessions, tasks, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	return stats.Achievements(sessions, tasks, s.clock.Now(), s.loc), nil
}

// GetCategoryStats aggregates tasks by keyword category.
func (s *StatisticsService) GetCategoryStats(ctx context.Context) ([]domain.CategoryStats, error) {
	sessions, tasks, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	return stats.CategoryBreakdown(tasks, sessions), nil
}

// GetInsights summarises habits and recommendations.
func (s *StatisticsService) GetInsights(ctx context.Context) (domain.ProductivityInsights, error) {
	sessions, tasks, err := s.history(ctx)
	if err != nil {
		return domain.ProductivityInsights{}, err
	}
	return stats.Insights(sessions, tasks, s.clock.Now(), s.loc), nil
}

// GetAverages returns mean session lengths over the last 7 and 30 days.
func (s *StatisticsService) GetAverages(ctx context.Context) (domain.AverageInfo, error) {
	sessions, err := s.sessions(ctx)
	if err != nil {
		return domain.AverageInfo{}, err
	}
	return stats.Averages(sessions, s.clock.Now()), nil
}

// GetMostProductiveTime returns the busiest time-of-day bucket.
func (s *StatisticsService) GetMostProductiveTime(ctx context.Context) (domain.TimeOfDay, error) {
	sessions, err := s.sessions(ctx)
	if err != nil {
		return "", err
	}
	return stats.MostProductiveTime(sessions, s.loc), nil
}

// GetGoals returns the configured targets.
func (s *StatisticsService) GetGoals() domain.Goals {
	return s.settings.Settings().Goals
}

// SetGoals validates and persists new targets.
func (s *StatisticsService) SetGoals(ctx context.Context, goals domain.Goals) error {
	if err := stats.ValidateGoals(goals); err != nil {
		return err
	}
	s.settings.Update(func(st *domain.Settings) {
		st.Goals = goals
	})
	if err := s.settings.Save(ctx); err != nil {
		return fmt.Errorf("failed to save goals: %w", err)
	}
	return nil
}

// GetGoalProgress compares focused minutes against each target.
func (s *StatisticsService) GetGoalProgress(ctx context.Context) ([]domain.GoalProgress, error) {
	sessions, err := s.sessions(ctx)
	if err != nil {
		return nil, err
	}
	return stats.GoalProgress(s.GetGoals(), sessions, s.clock.Now(), s.loc), nil
}

// GetRecentSessions returns up to limit sessions, newest first.
func (s *StatisticsService) GetRecentSessions(ctx context.Context, limit int) ([]*domain.Session, error) {
	sessions, err := s.storage.Sessions().GetRecentSessions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent sessions: %w", err)
	}
	return sessions, nil
}

// DeleteSession removes a session from history.
func (s *StatisticsService) DeleteSession(ctx context.Context, id string) (int, error) {
	n, err := s.storage.Sessions().DeleteSession(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return 0, domain.ErrSessionNotFound
	}
	return n, nil
}

// SearchTasks does a fuzzy search over every task text, best match first.
// An empty query returns all tasks.
func (s *StatisticsService) SearchTasks(ctx context.Context, query string) ([]*domain.Task, error) {
	tasks, err := s.storage.Tasks().GetAllTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks for fuzzy search: %w", err)
	}
	return searchTasks(tasks, query), nil
}

func searchTasks(tasks []*domain.Task, query string) []*domain.Task {
	query = strings.TrimSpace(query)
	if query == "" {
		return tasks
	}

	texts := make([]string, len(tasks))
	for i, task := range tasks {
		texts[i] = task.Text
	}

	matches := fuzzy.Find(query, texts)
	result := make([]*domain.Task, 0, len(matches))
	for _, match := range matches {
		result = append(result, tasks[match.Index])
	}
	return result
}

// BuildReport assembles the export payload from the full history.
func (s *StatisticsService) BuildReport(ctx context.Context) (domain.Report, error) {
	sessions, tasks, err := s.history(ctx)
	if err != nil {
		return domain.Report{}, err
	}
	return stats.BuildReport(sessions, tasks, s.clock.Now()), nil
}

// ExportReport renders the report in the requested format.
func (s *StatisticsService) ExportReport(ctx context.Context, format string) ([]byte, error) {
	if _, err := export.Lookup(format); err != nil {
		return nil, err
	}
	report, err := s.BuildReport(ctx)
	if err != nil {
		return nil, err
	}
	return export.Render(report, format)
}
