package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/xvierd/tempo/internal/domain"
)

// Group caps for the rollups, most recent first.
const (
	DailyLimit   = 30
	WeeklyLimit  = 12
	MonthlyLimit = 12
)

// Score weights and saturation points.
const (
	sessionTarget = 8
	minuteTarget  = 480
	sessionWeight = 40
	taskWeight    = 40
	minuteWeight  = 20
)

// grouper maps a start time to a period key and the period's first instant.
type grouper func(t time.Time, loc *time.Location) (string, time.Time)

// StartOfDay returns local midnight of t's calendar day.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(location(loc))
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func byDay(t time.Time, loc *time.Location) (string, time.Time) {
	start := StartOfDay(t, loc)
	return start.Format("2006-01-02"), start
}

func byWeek(t time.Time, loc *time.Location) (string, time.Time) {
	day := StartOfDay(t, loc)
	year, week := day.ISOWeek()
	offset := (int(day.Weekday()) + 6) % 7 // days since Monday
	return fmt.Sprintf("%04d-W%02d", year, week), day.AddDate(0, 0, -offset)
}

func byMonth(t time.Time, loc *time.Location) (string, time.Time) {
	t = t.In(location(loc))
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start.Format("2006-01"), start
}

// Daily groups history by calendar day.
func Daily(sessions []*domain.Session, tasks []*domain.Task, loc *time.Location) []domain.PeriodStats {
	return rollup(sessions, tasks, loc, byDay, DailyLimit)
}

// Weekly groups history by ISO week.
func Weekly(sessions []*domain.Session, tasks []*domain.Task, loc *time.Location) []domain.PeriodStats {
	return rollup(sessions, tasks, loc, byWeek, WeeklyLimit)
}

// Monthly groups history by calendar month.
func Monthly(sessions []*domain.Session, tasks []*domain.Task, loc *time.Location) []domain.PeriodStats {
	return rollup(sessions, tasks, loc, byMonth, MonthlyLimit)
}

// Today returns the stats of now's calendar day, empty if nothing happened.
func Today(sessions []*domain.Session, tasks []*domain.Task, now time.Time, loc *time.Location) domain.PeriodStats {
	key, start := byDay(now, loc)
	for _, p := range rollup(sessions, tasks, loc, byDay, 0) {
		if p.Key == key {
			return p
		}
	}
	return domain.PeriodStats{Key: key, Start: start}
}

func rollup(sessions []*domain.Session, tasks []*domain.Task, loc *time.Location, group grouper, limit int) []domain.PeriodStats {
	groups := make(map[string]*domain.PeriodStats)
	sessionGroup := make(map[string]string, len(sessions))

	for _, s := range sessions {
		key, start := group(s.StartTime, loc)
		sessionGroup[s.ID] = key
		g, ok := groups[key]
		if !ok {
			g = &domain.PeriodStats{Key: key, Start: start}
			groups[key] = g
		}
		if s.IsClosed() {
			g.SessionsCompleted++
			g.TotalMinutes += s.Minutes()
		}
	}

	for _, t := range tasks {
		key, ok := sessionGroup[t.SessionID]
		if !ok {
			continue
		}
		g := groups[key]
		g.TotalTasks++
		if t.Completed {
			g.TasksCompleted++
		}
	}

	out := make([]domain.PeriodStats, 0, len(groups))
	for _, g := range groups {
		g.ProductivityScore = ProductivityScore(g.SessionsCompleted, g.TasksCompleted, g.TotalTasks, g.TotalMinutes)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start.After(out[j].Start)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ProductivityScore combines session count, task completion and focused time
// into a 0-100 score.
func ProductivityScore(sessions, completedTasks, totalTasks int, minutes float64) float64 {
	sessionPart := minFloat(float64(sessions)/sessionTarget, 1) * sessionWeight
	taskPart := 0.0
	if totalTasks > 0 {
		taskPart = float64(completedTasks) / float64(totalTasks) * taskWeight
	}
	minutePart := minFloat(minutes/minuteTarget, 1) * minuteWeight
	return sessionPart + taskPart + minutePart
}

// FocusMinutesOn sums closed focus sessions started on day's calendar day.
func FocusMinutesOn(sessions []*domain.Session, day time.Time, loc *time.Location) float64 {
	start := StartOfDay(day, loc)
	end := start.AddDate(0, 0, 1)
	return focusMinutesBetween(sessions, start, end)
}

func focusMinutesBetween(sessions []*domain.Session, start, end time.Time) float64 {
	var total float64
	for _, s := range sessions {
		if !s.IsFocus() || !s.IsClosed() {
			continue
		}
		if s.StartTime.Before(start) || !s.StartTime.Before(end) {
			continue
		}
		total += s.Minutes()
	}
	return total
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
