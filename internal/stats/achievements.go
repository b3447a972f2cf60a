package stats

import (
	"sort"
	"time"

	"github.com/xvierd/tempo/internal/domain"
)

// Achievement identifiers.
const (
	AchievementFirstSteps  = "first_steps"
	AchievementEarlyBird   = "early_bird"
	AchievementTaskMaster  = "task_master"
	AchievementMarathon    = "marathon_runner"
	AchievementWeekWarrior = "week_warrior"
	AchievementChampion    = "productivity_champion"
)

const (
	earlyBirdHour      = 9
	championScore      = 90
	championWindowDays = 7
	taskMasterTarget   = 50
	marathonTarget     = 100
	weekWarriorTarget  = 7
)

// Achievements recomputes every achievement from the full history.
// Unlock dates are derived from the history where possible and fall back to now.
func Achievements(sessions []*domain.Session, tasks []*domain.Task, now time.Time, loc *time.Location) []domain.Achievement {
	byStart := append([]*domain.Session(nil), sessions...)
	sort.Slice(byStart, func(i, j int) bool { return byStart[i].StartTime.Before(byStart[j].StartTime) })

	var completions []time.Time
	for _, t := range tasks {
		if t.Completed && t.CompletedAt != nil {
			completions = append(completions, *t.CompletedAt)
		}
	}
	sort.Slice(completions, func(i, j int) bool { return completions[i].Before(completions[j]) })

	first := domain.Achievement{
		ID:          AchievementFirstSteps,
		Title:       "First Steps",
		Description: "Complete your first session",
		Icon:        "🌱",
		MaxProgress: 1,
	}
	if len(byStart) > 0 {
		first.Progress = 1
		first.UnlockedAt = timePtr(byStart[0].StartTime)
	}

	early := domain.Achievement{
		ID:          AchievementEarlyBird,
		Title:       "Early Bird",
		Description: "Start a session before 9 AM",
		Icon:        "🌅",
		MaxProgress: 1,
	}
	for _, s := range byStart {
		if s.StartTime.In(location(loc)).Hour() < earlyBirdHour {
			early.Progress = 1
			early.UnlockedAt = timePtr(s.StartTime)
			break
		}
	}

	taskMaster := domain.Achievement{
		ID:          AchievementTaskMaster,
		Title:       "Task Master",
		Description: "Complete 50 tasks",
		Icon:        "✅",
		MaxProgress: taskMasterTarget,
		Progress:    minInt(countCompleted(tasks), taskMasterTarget),
	}
	if len(completions) >= taskMasterTarget {
		taskMaster.UnlockedAt = timePtr(completions[taskMasterTarget-1])
	} else if taskMaster.IsUnlocked() {
		taskMaster.UnlockedAt = timePtr(now)
	}

	marathon := domain.Achievement{
		ID:          AchievementMarathon,
		Title:       "Marathon Runner",
		Description: "Log 100 sessions",
		Icon:        "🏃",
		MaxProgress: marathonTarget,
		Progress:    minInt(len(byStart), marathonTarget),
	}
	if len(byStart) >= marathonTarget {
		marathon.UnlockedAt = timePtr(byStart[marathonTarget-1].StartTime)
	}

	week := domain.Achievement{
		ID:          AchievementWeekWarrior,
		Title:       "Week Warrior",
		Description: "Keep a 7 day streak",
		Icon:        "🔥",
		MaxProgress: weekWarriorTarget,
		Progress:    minInt(Streaks(sessions, now, loc).Current, weekWarriorTarget),
	}
	if week.IsUnlocked() {
		week.UnlockedAt = timePtr(now)
	}

	champion := domain.Achievement{
		ID:          AchievementChampion,
		Title:       "Productivity Champion",
		Description: "Score 90 or more over the last 7 days",
		Icon:        "🏆",
		MaxProgress: 1,
	}
	if RecentScore(sessions, tasks, now, loc, championWindowDays) >= championScore {
		champion.Progress = 1
		champion.UnlockedAt = timePtr(now)
	}

	return []domain.Achievement{first, early, taskMaster, marathon, week, champion}
}

// RecentScore is the productivity score of the sessions started in the last
// days calendar days, today included.
func RecentScore(sessions []*domain.Session, tasks []*domain.Task, now time.Time, loc *time.Location, days int) float64 {
	since := StartOfDay(now, loc).AddDate(0, 0, -(days - 1))
	in := make(map[string]bool)
	var closed int
	var minutes float64
	for _, s := range sessions {
		if s.StartTime.Before(since) {
			continue
		}
		in[s.ID] = true
		if s.IsClosed() {
			closed++
			minutes += s.Minutes()
		}
	}
	var total, completed int
	for _, t := range tasks {
		if !in[t.SessionID] {
			continue
		}
		total++
		if t.Completed {
			completed++
		}
	}
	return ProductivityScore(closed, completed, total, minutes)
}

func countCompleted(tasks []*domain.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
