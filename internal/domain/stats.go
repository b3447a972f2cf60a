package domain

import (
	"time"
)

// PeriodStats aggregates sessions and tasks for a calendar day, ISO week or month.
// It is derived on demand and never persisted.
type PeriodStats struct {
	Key               string
	Start             time.Time
	TotalMinutes      float64
	SessionsCompleted int
	TasksCompleted    int
	TotalTasks        int
	ProductivityScore float64
}

// DailyStats is a PeriodStats keyed by calendar day.
type DailyStats = PeriodStats

// StreakInfo describes consecutive days with completed sessions.
type StreakInfo struct {
	Current        int
	Longest        int
	LastActiveDate *time.Time
}

// AverageInfo holds mean session lengths over trailing windows.
type AverageInfo struct {
	Last7DaysMinutes  float64
	Last30DaysMinutes float64
}

// TimeOfDay buckets a session start hour.
type TimeOfDay string

const (
	TimeOfDayMorning   TimeOfDay = "Morning"
	TimeOfDayAfternoon TimeOfDay = "Afternoon"
	TimeOfDayEvening   TimeOfDay = "Evening"
	TimeOfDayNight     TimeOfDay = "Night"
)

// Category classifies a task by keyword.
type Category string

const (
	CategoryWork        Category = "Work"
	CategoryStudy       Category = "Study"
	CategoryHealth      Category = "Health"
	CategoryHome        Category = "Home"
	CategoryDevelopment Category = "Development"
	CategoryWriting     Category = "Writing"
	CategoryGeneral     Category = "General"
)

// CategoryStats aggregates tasks of one category.
type CategoryStats struct {
	Category       Category
	TaskCount      int
	CompletedCount int
	TotalMinutes   float64
}

// Achievement is recomputed from history on every query.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Progress    int
	MaxProgress int
	UnlockedAt  *time.Time
}

// IsUnlocked returns true when progress has reached the maximum.
func (a Achievement) IsUnlocked() bool {
	return a.Progress >= a.MaxProgress
}

// ProductivityInsights summarises habits across all history.
type ProductivityInsights struct {
	MostProductiveDay      string
	MostProductiveHour     string
	AverageSessionMinutes  float64
	AverageTasksPerSession float64
	CompletionRate         float64
	Recommendations        []string
}

// Goals are the user-settable targets in focus minutes.
type Goals struct {
	DailyMinutes   int
	WeeklyMinutes  int
	MonthlyMinutes int
}

// DefaultGoals returns 2h a day, 14h a week and 60h a month.
func DefaultGoals() Goals {
	return Goals{
		DailyMinutes:   120,
		WeeklyMinutes:  840,
		MonthlyMinutes: 3600,
	}
}

// GoalProgress compares focused minutes against one target.
type GoalProgress struct {
	Period        string
	TargetMinutes int
	ActualMinutes float64
	Percent       float64
	Achieved      bool
}

// Report is the payload handed to export formatters.
type Report struct {
	GeneratedAt           time.Time
	TotalSessions         int
	CompletedTasks        int
	TotalFocusMinutes     float64
	AverageSessionMinutes float64
	Sessions              []*Session
	Tasks                 []*Task
}
