package stats

import (
	"time"

	"github.com/xvierd/tempo/internal/domain"
)

// Goal period names.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// GoalProgress measures focused minutes of the current day, ISO week and
// month against the configured goals.
func GoalProgress(goals domain.Goals, sessions []*domain.Session, now time.Time, loc *time.Location) []domain.GoalProgress {
	_, dayStart := byDay(now, loc)
	_, weekStart := byWeek(now, loc)
	_, monthStart := byMonth(now, loc)

	return []domain.GoalProgress{
		progress(PeriodDaily, goals.DailyMinutes, focusMinutesBetween(sessions, dayStart, dayStart.AddDate(0, 0, 1))),
		progress(PeriodWeekly, goals.WeeklyMinutes, focusMinutesBetween(sessions, weekStart, weekStart.AddDate(0, 0, 7))),
		progress(PeriodMonthly, goals.MonthlyMinutes, focusMinutesBetween(sessions, monthStart, monthStart.AddDate(0, 1, 0))),
	}
}

func progress(period string, target int, actual float64) domain.GoalProgress {
	gp := domain.GoalProgress{
		Period:        period,
		TargetMinutes: target,
		ActualMinutes: actual,
	}
	if target > 0 {
		gp.Percent = minFloat(actual/float64(target)*100, 100)
		gp.Achieved = actual >= float64(target)
	}
	return gp
}

// ValidateGoals rejects non-positive targets.
func ValidateGoals(goals domain.Goals) error {
	if goals.DailyMinutes <= 0 || goals.WeeklyMinutes <= 0 || goals.MonthlyMinutes <= 0 {
		return domain.ErrInvalidGoal
	}
	return nil
}
