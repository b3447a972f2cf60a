package ports

import (
	"context"

	"github.com/xvierd/tempo/internal/domain"
)

// StatsProvider exposes the analytics queries to outer surfaces.
// This is a driving port (implemented by the services layer, used by MCP and HTTP adapters).
type StatsProvider interface {
	GetDailyStats(ctx context.Context) ([]domain.PeriodStats, error)
	GetWeeklyStats(ctx context.Context) ([]domain.PeriodStats, error)
	GetMonthlyStats(ctx context.Context) ([]domain.PeriodStats, error)
	GetStreakInfo(ctx context.Context) (domain.StreakInfo, error)
	GetAchievements(ctx context.Context) ([]domain.Achievement, error)
	GetCategoryStats(ctx context.Context) ([]domain.CategoryStats, error)
	GetInsights(ctx context.Context) (domain.ProductivityInsights, error)
	GetGoalProgress(ctx context.Context) ([]domain.GoalProgress, error)
	GetRecentSessions(ctx context.Context, limit int) ([]*domain.Session, error)
	ExportReport(ctx context.Context, format string) ([]byte, error)
}
