package export

import (
	"time"

	"github.com/xvierd/tempo/internal/domain"
)

// document is the serialized shape shared by the JSON and YAML formats.
type document struct {
	GeneratedAt           time.Time      `json:"generated_at" yaml:"generated_at"`
	TotalSessions         int            `json:"total_sessions" yaml:"total_sessions"`
	CompletedTasks        int            `json:"completed_tasks" yaml:"completed_tasks"`
	TotalFocusMinutes     float64        `json:"total_focus_minutes" yaml:"total_focus_minutes"`
	AverageSessionMinutes float64        `json:"average_session_minutes" yaml:"average_session_minutes"`
	Sessions              []sessionEntry `json:"sessions" yaml:"sessions"`
	Tasks                 []taskEntry    `json:"tasks" yaml:"tasks"`
}

type sessionEntry struct {
	ID             string     `json:"id" yaml:"id"`
	Mode           string     `json:"mode" yaml:"mode"`
	StartTime      time.Time  `json:"start_time" yaml:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	Minutes        float64    `json:"minutes" yaml:"minutes"`
	Tag            string     `json:"tag,omitempty" yaml:"tag,omitempty"`
	Rating         *int       `json:"rating,omitempty" yaml:"rating,omitempty"`
	Note           string     `json:"note,omitempty" yaml:"note,omitempty"`
	Distractions   int        `json:"distractions" yaml:"distractions"`
	TotalTasks     int        `json:"total_tasks" yaml:"total_tasks"`
	CompletedTasks int        `json:"completed_tasks" yaml:"completed_tasks"`
}

type taskEntry struct {
	ID                 int64      `json:"id" yaml:"id"`
	SessionID          string     `json:"session_id" yaml:"session_id"`
	Text               string     `json:"text" yaml:"text"`
	Completed          bool       `json:"completed" yaml:"completed"`
	CompletedAt        *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Priority           string     `json:"priority" yaml:"priority"`
	EstimatedPomodoros int        `json:"estimated_pomodoros" yaml:"estimated_pomodoros"`
	ActualPomodoros    int        `json:"actual_pomodoros" yaml:"actual_pomodoros"`
	CreatedAt          time.Time  `json:"created_at" yaml:"created_at"`
}

func newDocument(r domain.Report) document {
	doc := document{
		GeneratedAt:           r.GeneratedAt,
		TotalSessions:         r.TotalSessions,
		CompletedTasks:        r.CompletedTasks,
		TotalFocusMinutes:     round2(r.TotalFocusMinutes),
		AverageSessionMinutes: round2(r.AverageSessionMinutes),
		Sessions:              make([]sessionEntry, 0, len(r.Sessions)),
		Tasks:                 make([]taskEntry, 0, len(r.Tasks)),
	}
	for _, s := range r.Sessions {
		doc.Sessions = append(doc.Sessions, sessionEntry{
			ID:             s.ID,
			Mode:           string(s.Mode),
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			Minutes:        round2(s.Minutes()),
			Tag:            s.Tag,
			Rating:         s.Rating,
			Note:           s.Note,
			Distractions:   s.Distractions,
			TotalTasks:     s.TotalTasks,
			CompletedTasks: s.CompletedTasks,
		})
	}
	for _, t := range r.Tasks {
		doc.Tasks = append(doc.Tasks, taskEntry{
			ID:                 t.ID,
			SessionID:          t.SessionID,
			Text:               t.Text,
			Completed:          t.Completed,
			CompletedAt:        t.CompletedAt,
			Priority:           string(t.Priority),
			EstimatedPomodoros: t.EstimatedPomodoros,
			ActualPomodoros:    t.ActualPomodoros,
			CreatedAt:          t.CreatedAt,
		})
	}
	return doc
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
