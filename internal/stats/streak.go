package stats

import (
	"sort"
	"time"

	"github.com/xvierd/tempo/internal/domain"
)

// Streaks counts consecutive calendar days with at least one closed session.
// The current streak is anchored on today, or on yesterday when today has no
// completed session yet.
func Streaks(sessions []*domain.Session, now time.Time, loc *time.Location) domain.StreakInfo {
	days := activeDays(sessions, loc)
	if len(days) == 0 {
		return domain.StreakInfo{}
	}

	active := make(map[time.Time]bool, len(days))
	for _, d := range days {
		active[d] = true
	}

	info := domain.StreakInfo{}
	last := days[len(days)-1]
	info.LastActiveDate = &last

	anchor := StartOfDay(now, loc)
	if !active[anchor] {
		anchor = anchor.AddDate(0, 0, -1)
	}
	for day := anchor; active[day]; day = day.AddDate(0, 0, -1) {
		info.Current++
	}

	run := 1
	info.Longest = 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, 1).Equal(days[i]) {
			run++
		} else {
			run = 1
		}
		if run > info.Longest {
			info.Longest = run
		}
	}
	return info
}

// HasCompletedSessionOn reports whether a session closed on day's calendar day.
func HasCompletedSessionOn(sessions []*domain.Session, day time.Time, loc *time.Location) bool {
	target := StartOfDay(day, loc)
	for _, s := range sessions {
		if s.IsClosed() && StartOfDay(s.StartTime, loc).Equal(target) {
			return true
		}
	}
	return false
}

// activeDays returns the sorted, distinct local days with a closed session.
func activeDays(sessions []*domain.Session, loc *time.Location) []time.Time {
	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, s := range sessions {
		if !s.IsClosed() {
			continue
		}
		d := StartOfDay(s.StartTime, loc)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}
