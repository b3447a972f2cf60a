package stats

import (
	"fmt"
	"time"

	"github.com/xvierd/tempo/internal/domain"
)

// Recommendation thresholds.
const (
	shortSessionMinutes = 20
	lowCompletionRate   = 70
	consistencySessions = 5
)

// Recommendation texts.
const (
	RecommendLongerSessions = "Your sessions average under 20 minutes. Try longer focus blocks to reach deep work."
	RecommendSmallerTasks   = "Less than 70% of your tasks get done. Break them into smaller, concrete steps."
	RecommendConsistency    = "Fewer than 5 sessions in the last 7 days. A short daily session builds the habit."
	RecommendKeepGoing      = "Great rhythm! Keep up the consistent focus."
	RecommendFirstSession   = "Complete your first session to unlock insights."
)

// TimeOfDayFor buckets an hour of the day.
func TimeOfDayFor(hour int) domain.TimeOfDay {
	switch {
	case hour >= 6 && hour < 12:
		return domain.TimeOfDayMorning
	case hour >= 12 && hour < 18:
		return domain.TimeOfDayAfternoon
	case hour >= 18:
		return domain.TimeOfDayEvening
	default:
		return domain.TimeOfDayNight
	}
}

// MostProductiveTime returns the time-of-day bucket holding the most session
// starts. Ties go to the earlier bucket in Morning, Afternoon, Evening, Night order.
func MostProductiveTime(sessions []*domain.Session, loc *time.Location) domain.TimeOfDay {
	counts := make(map[domain.TimeOfDay]int)
	for _, s := range sessions {
		counts[TimeOfDayFor(s.StartTime.In(location(loc)).Hour())]++
	}
	order := []domain.TimeOfDay{
		domain.TimeOfDayMorning,
		domain.TimeOfDayAfternoon,
		domain.TimeOfDayEvening,
		domain.TimeOfDayNight,
	}
	best := order[0]
	for _, bucket := range order[1:] {
		if counts[bucket] > counts[best] {
			best = bucket
		}
	}
	return best
}

// Averages returns the mean session length over the trailing 7 and 30 days.
func Averages(sessions []*domain.Session, now time.Time) domain.AverageInfo {
	return domain.AverageInfo{
		Last7DaysMinutes:  averageSince(sessions, now.AddDate(0, 0, -7)),
		Last30DaysMinutes: averageSince(sessions, now.AddDate(0, 0, -30)),
	}
}

func averageSince(sessions []*domain.Session, since time.Time) float64 {
	var total float64
	var n int
	for _, s := range sessions {
		if !s.IsClosed() || s.StartTime.Before(since) {
			continue
		}
		total += s.Minutes()
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// Insights summarises habits across the full history and derives
// recommendations from threshold rules.
func Insights(sessions []*domain.Session, tasks []*domain.Task, now time.Time, loc *time.Location) domain.ProductivityInsights {
	if len(sessions) == 0 {
		return domain.ProductivityInsights{Recommendations: []string{RecommendFirstSession}}
	}
	loc = location(loc)

	var dayCounts [7]int
	var hourCounts [24]int
	var closedMinutes float64
	var closed int
	for _, s := range sessions {
		start := s.StartTime.In(loc)
		dayCounts[start.Weekday()]++
		hourCounts[start.Hour()]++
		if s.IsClosed() {
			closedMinutes += s.Minutes()
			closed++
		}
	}

	insights := domain.ProductivityInsights{
		MostProductiveDay:      time.Weekday(argmax(dayCounts[:])).String(),
		MostProductiveHour:     fmt.Sprintf("%02d:00", argmax(hourCounts[:])),
		AverageTasksPerSession: float64(len(tasks)) / float64(len(sessions)),
	}
	if closed > 0 {
		insights.AverageSessionMinutes = closedMinutes / float64(closed)
	}

	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	if len(tasks) > 0 {
		insights.CompletionRate = float64(completed) / float64(len(tasks)) * 100
	}

	recent := 0
	weekAgo := now.AddDate(0, 0, -7)
	for _, s := range sessions {
		if !s.StartTime.Before(weekAgo) {
			recent++
		}
	}

	if closed > 0 && insights.AverageSessionMinutes < shortSessionMinutes {
		insights.Recommendations = append(insights.Recommendations, RecommendLongerSessions)
	}
	if len(tasks) > 0 && insights.CompletionRate < lowCompletionRate {
		insights.Recommendations = append(insights.Recommendations, RecommendSmallerTasks)
	}
	if recent < consistencySessions {
		insights.Recommendations = append(insights.Recommendations, RecommendConsistency)
	}
	if len(insights.Recommendations) == 0 {
		insights.Recommendations = []string{RecommendKeepGoing}
	}
	return insights
}

// argmax returns the first index holding the largest count.
func argmax(counts []int) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}
