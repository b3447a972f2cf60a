package stats

import (
	"time"

	"github.com/xvierd/tempo/internal/domain"
)

// BuildReport collects the totals and full history handed to export formatters.
func BuildReport(sessions []*domain.Session, tasks []*domain.Task, now time.Time) domain.Report {
	r := domain.Report{
		GeneratedAt:    now,
		TotalSessions:  len(sessions),
		CompletedTasks: countCompleted(tasks),
		Sessions:       sessions,
		Tasks:          tasks,
	}

	var closedMinutes float64
	var closed int
	for _, s := range sessions {
		if !s.IsClosed() {
			continue
		}
		closed++
		closedMinutes += s.Minutes()
		if s.IsFocus() {
			r.TotalFocusMinutes += s.Minutes()
		}
	}
	if closed > 0 {
		r.AverageSessionMinutes = closedMinutes / float64(closed)
	}
	return r
}
