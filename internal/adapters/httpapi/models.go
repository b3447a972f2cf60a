package httpapi

import (
	"time"

	"github.com/xvierd/tempo/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// PeriodResponse is one day, week or month of aggregated activity.
type PeriodResponse struct {
	Key               string    `json:"key"`
	Start             time.Time `json:"start"`
	TotalMinutes      float64   `json:"totalMinutes"`
	SessionsCompleted int       `json:"sessionsCompleted"`
	TasksCompleted    int       `json:"tasksCompleted"`
	TotalTasks        int       `json:"totalTasks"`
	ProductivityScore float64   `json:"productivityScore"`
}

// StreakResponse describes the current and longest streak.
type StreakResponse struct {
	Current        int        `json:"current"`
	Longest        int        `json:"longest"`
	LastActiveDate *time.Time `json:"lastActiveDate,omitempty"`
}

// AchievementResponse is one achievement with its progress.
type AchievementResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Progress    int        `json:"progress"`
	MaxProgress int        `json:"maxProgress"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

// CategoryResponse aggregates tasks of one category.
type CategoryResponse struct {
	Category       string  `json:"category"`
	TaskCount      int     `json:"taskCount"`
	CompletedCount int     `json:"completedCount"`
	TotalMinutes   float64 `json:"totalMinutes"`
}

// InsightsResponse summarises habits across all history.
type InsightsResponse struct {
	MostProductiveDay      string   `json:"mostProductiveDay"`
	MostProductiveHour     string   `json:"mostProductiveHour"`
	AverageSessionMinutes  float64  `json:"averageSessionMinutes"`
	AverageTasksPerSession float64  `json:"averageTasksPerSession"`
	CompletionRate         float64  `json:"completionRate"`
	Recommendations        []string `json:"recommendations"`
}

// GoalResponse compares focused minutes against one target.
type GoalResponse struct {
	Period        string  `json:"period"`
	TargetMinutes int     `json:"targetMinutes"`
	ActualMinutes float64 `json:"actualMinutes"`
	Percent       float64 `json:"percent"`
	Achieved      bool    `json:"achieved"`
}

// SessionResponse is one logged session.
type SessionResponse struct {
	ID             string     `json:"id"`
	Mode           string     `json:"mode"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        *time.Time `json:"endTime,omitempty"`
	Minutes        float64    `json:"minutes"`
	Tag            string     `json:"tag,omitempty"`
	Rating         *int       `json:"rating,omitempty"`
	Note           string     `json:"note,omitempty"`
	Distractions   int        `json:"distractions"`
	TotalTasks     int        `json:"totalTasks"`
	CompletedTasks int        `json:"completedTasks"`
}

func toPeriods(stats []domain.PeriodStats) []PeriodResponse {
	out := make([]PeriodResponse, 0, len(stats))
	for _, p := range stats {
		out = append(out, PeriodResponse{
			Key:               p.Key,
			Start:             p.Start,
			TotalMinutes:      p.TotalMinutes,
			SessionsCompleted: p.SessionsCompleted,
			TasksCompleted:    p.TasksCompleted,
			TotalTasks:        p.TotalTasks,
			ProductivityScore: p.ProductivityScore,
		})
	}
	return out
}

func toAchievements(achievements []domain.Achievement) []AchievementResponse {
	out := make([]AchievementResponse, 0, len(achievements))
	for _, a := range achievements {
		out = append(out, AchievementResponse{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Icon:        a.Icon,
			Progress:    a.Progress,
			MaxProgress: a.MaxProgress,
			Unlocked:    a.IsUnlocked(),
			UnlockedAt:  a.UnlockedAt,
		})
	}
	return out
}

func toCategories(categories []domain.CategoryStats) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{
			Category:       string(c.Category),
			TaskCount:      c.TaskCount,
			CompletedCount: c.CompletedCount,
			TotalMinutes:   c.TotalMinutes,
		})
	}
	return out
}

func toGoals(goals []domain.GoalProgress) []GoalResponse {
	out := make([]GoalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, GoalResponse{
			Period:        g.Period,
			TargetMinutes: g.TargetMinutes,
			ActualMinutes: g.ActualMinutes,
			Percent:       g.Percent,
			Achieved:      g.Achieved,
		})
	}
	return out
}

func toSessions(sessions []*domain.Session) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionResponse{
			ID:             s.ID,
			Mode:           string(s.Mode),
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			Minutes:        s.Minutes(),
			Tag:            s.Tag,
			Rating:         s.Rating,
			Note:           s.Note,
			Distractions:   s.Distractions,
			TotalTasks:     s.TotalTasks,
			CompletedTasks: s.CompletedTasks,
		})
	}
	return out
}
