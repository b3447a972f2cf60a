// Package mcp provides the MCP (Model Context Protocol) server implementation.
// It exposes the read-only productivity analytics as tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xvierd/tempo/internal/domain"
	"github.com/xvierd/tempo/internal/ports"
)

const (
	serverName    = "tempo-pomodoro"
	serverVersion = "1.0.0"

	defaultRecentLimit = 10
	maxRecentLimit     = 100

	timeLayout = "2006-01-02T15:04:05"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server *server.MCPServer
	stats  ports.StatsProvider
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stats ports.StatsProvider) *Server {
	s := &Server{
		stats: stats,
	}

	s.server = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	periodTool := mcp.NewTool(
		"get_period_stats",
		mcp.WithDescription("Get focus minutes, sessions and tasks grouped by day, ISO week or month"),
		mcp.WithString(
			"period",
			mcp.Description("Grouping period: daily, weekly or monthly (default: daily)"),
			mcp.Enum("daily", "weekly", "monthly"),
		),
	)
	s.server.AddTool(periodTool, s.handleGetPeriodStats)

	s.server.AddTool(
		mcp.NewTool(
			"get_streak",
			mcp.WithDescription("Get the current and longest streak of days with completed sessions"),
		),
		s.handleGetStreak,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_achievements",
			mcp.WithDescription("List achievements with their progress"),
		),
		s.handleGetAchievements,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_category_stats",
			mcp.WithDescription("Get task counts and focus minutes per task category"),
		),
		s.handleGetCategoryStats,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_insights",
			mcp.WithDescription("Get productivity insights and recommendations"),
		),
		s.handleGetInsights,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_goal_progress",
			mcp.WithDescription("Get progress towards the daily, weekly and monthly focus goals"),
		),
		s.handleGetGoalProgress,
	)

	recentTool := mcp.NewTool(
		"list_recent_sessions",
		mcp.WithDescription("List the most recent sessions, newest first"),
		mcp.WithNumber(
			"limit",
			mcp.Description("Maximum number of sessions to return (default: 10)"),
		),
	)
	s.server.AddTool(recentTool, s.handleListRecentSessions)

	exportTool := mcp.NewTool(
		"export_report",
		mcp.WithDescription("Render the full productivity report"),
		mcp.WithString(
			"format",
			mcp.Required(),
			mcp.Description("Report format: json, csv, txt, md or yaml"),
		),
	)
	s.server.AddTool(exportTool, s.handleExportReport)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// handleGetPeriodStats handles the get_period_stats tool.
func (s *Server) handleGetPeriodStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	period := request.GetString("period", "daily")

	var (
		stats []domain.PeriodStats
		err   error
	)
	switch period {
	case "daily":
		stats, err = s.stats.GetDailyStats(ctx)
	case "weekly":
		stats, err = s.stats.GetWeeklyStats(ctx)
	case "monthly":
		stats, err = s.stats.GetMonthlyStats(ctx)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown period %q", period)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s stats: %w", period, err)
	}

	rows := make([]map[string]interface{}, 0, len(stats))
	for _, p := range stats {
		rows = append(rows, map[string]interface{}{
			"key":                p.Key,
			"start":              p.Start.Format(timeLayout),
			"total_minutes":      p.TotalMinutes,
			"sessions_completed": p.SessionsCompleted,
			"tasks_completed":    p.TasksCompleted,
			"total_tasks":        p.TotalTasks,
			"productivity_score": p.ProductivityScore,
		})
	}

	return jsonResult(map[string]interface{}{
		"period":  period,
		"entries": rows,
		"count":   len(rows),
	})
}

// handleGetStreak handles the get_streak tool.
func (s *Server) handleGetStreak(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	streak, err := s.stats.GetStreakInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}

	result := map[string]interface{}{
		"current":          streak.Current,
		"longest":          streak.Longest,
		"last_active_date": nil,
	}
	if streak.LastActiveDate != nil {
		result["last_active_date"] = streak.LastActiveDate.Format("2006-01-02")
	}
	return jsonResult(result)
}

// handleGetAchievements handles the get_achievements tool.
func (s *Server) handleGetAchievements(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	achievements, err := s.stats.GetAchievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get achievements: %w", err)
	}

	unlocked := 0
	rows := make([]map[string]interface{}, 0, len(achievements))
	for _, a := range achievements {
		row := map[string]interface{}{
			"id":           a.ID,
			"title":        a.Title,
			"description":  a.Description,
			"icon":         a.Icon,
			"progress":     a.Progress,
			"max_progress": a.MaxProgress,
			"unlocked":     a.IsUnlocked(),
		}
		if a.UnlockedAt != nil {
			row["unlocked_at"] = a.UnlockedAt.Format(timeLayout)
		}
		if a.IsUnlocked() {
			unlocked++
		}
		rows = append(rows, row)
	}

	return jsonResult(map[string]interface{}{
		"achievements":   rows,
		"unlocked_count": unlocked,
		"total_count":    len(rows),
	})
}

// handleGetCategoryStats handles the get_category_stats tool.
func (s *Server) handleGetCategoryStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categories, err := s.stats.GetCategoryStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get category stats: %w", err)
	}

	rows := make([]map[string]interface{}, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, map[string]interface{}{
			"category":        string(c.Category),
			"task_count":      c.TaskCount,
			"completed_count": c.CompletedCount,
			"total_minutes":   c.TotalMinutes,
		})
	}
	return jsonResult(map[string]interface{}{"categories": rows})
}

// handleGetInsights handles the get_insights tool.
func (s *Server) handleGetInsights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	insights, err := s.stats.GetInsights(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get insights: %w", err)
	}

	return jsonResult(map[string]interface{}{
		"most_productive_day":       insights.MostProductiveDay,
		"most_productive_hour":      insights.MostProductiveHour,
		"average_session_minutes":   insights.AverageSessionMinutes,
		"average_tasks_per_session": insights.AverageTasksPerSession,
		"completion_rate":           insights.CompletionRate,
		"recommendations":           insights.Recommendations,
	})
}

// handleGetGoalProgress handles the get_goal_progress tool.
func (s *Server) handleGetGoalProgress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	progress, err := s.stats.GetGoalProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get goal progress: %w", err)
	}

	rows := make([]map[string]interface{}, 0, len(progress))
	for _, g := range progress {
		rows = append(rows, map[string]interface{}{
			"period":         g.Period,
			"target_minutes": g.TargetMinutes,
			"actual_minutes": g.ActualMinutes,
			"percent":        g.Percent,
			"achieved":       g.Achieved,
		})
	}
	return jsonResult(map[string]interface{}{"goals": rows})
}

// handleListRecentSessions handles the list_recent_sessions tool.
func (s *Server) handleListRecentSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(request.GetFloat("limit", defaultRecentLimit))
	if limit <= 0 {
		return mcp.NewToolResultError("limit must be positive"), nil
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	sessions, err := s.stats.GetRecentSessions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent sessions: %w", err)
	}

	rows := make([]map[string]interface{}, 0, len(sessions))
	for _, session := range sessions {
		rows = append(rows, sessionData(session))
	}
	return jsonResult(map[string]interface{}{
		"sessions":    rows,
		"total_count": len(rows),
	})
}

// handleExportReport handles the export_report tool.
func (s *Server) handleExportReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, err := request.RequireString("format")
	if err != nil {
		return mcp.NewToolResultError("format is required: " + err.Error()), nil
	}

	data, err := s.stats.ExportReport(ctx, format)
	if errors.Is(err, domain.ErrUnsupportedFormat) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to export report: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func sessionData(session *domain.Session) map[string]interface{} {
	data := map[string]interface{}{
		"id":              session.ID,
		"mode":            string(session.Mode),
		"started_at":      session.StartTime.Format(timeLayout),
		"duration":        session.Duration().Round(time.Second).String(),
		"minutes":         session.Minutes(),
		"total_tasks":     session.TotalTasks,
		"completed_tasks": session.CompletedTasks,
	}
	if session.EndTime != nil {
		data["ended_at"] = session.EndTime.Format(timeLayout)
	}
	if session.Tag != "" {
		data["tag"] = session.Tag
	}
	if session.Rating != nil {
		data["rating"] = *session.Rating
	}
	if session.Note != "" {
		data["note"] = session.Note
	}
	if session.Distractions > 0 {
		data["distractions"] = session.Distractions
	}
	return data
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
