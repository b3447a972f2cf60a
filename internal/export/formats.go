package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xvierd/tempo/internal/domain"
)

const timeLayout = "2006-01-02 15:04"

func formatJSON(r domain.Report) ([]byte, error) {
	data, err := json.MarshalIndent(newDocument(r), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return append(data, '\n'), nil
}

func formatYAML(r domain.Report) ([]byte, error) {
	data, err := yaml.Marshal(newDocument(r))
	if err != nil {
		return nil, fmt.Errorf("failed to encode YAML report: %w", err)
	}
	return data, nil
}

// formatCSV writes three sections separated by blank lines: totals,
// sessions and tasks. Each section starts with its own header row.
func formatCSV(r domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{
		"generated_at", "total_sessions", "completed_tasks",
		"total_focus_min", "average_session_min",
	})
	_ = w.Write([]string{
		r.GeneratedAt.Format(time.RFC3339),
		strconv.Itoa(r.TotalSessions),
		strconv.Itoa(r.CompletedTasks),
		fmt.Sprintf("%.0f", r.TotalFocusMinutes),
		fmt.Sprintf("%.1f", r.AverageSessionMinutes),
	})
	_ = w.Write(nil)

	_ = w.Write([]string{
		"session_id", "mode", "start", "end", "duration_min", "tag",
		"rating", "note", "distractions", "total_tasks", "completed_tasks",
	})
	for _, s := range r.Sessions {
		end := ""
		if s.EndTime != nil {
			end = s.EndTime.Format(time.RFC3339)
		}
		rating := ""
		if s.Rating != nil {
			rating = strconv.Itoa(*s.Rating)
		}
		_ = w.Write([]string{
			s.ID,
			string(s.Mode),
			s.StartTime.Format(time.RFC3339),
			end,
			fmt.Sprintf("%.0f", s.Minutes()),
			s.Tag,
			rating,
			s.Note,
			strconv.Itoa(s.Distractions),
			strconv.Itoa(s.TotalTasks),
			strconv.Itoa(s.CompletedTasks),
		})
	}
	_ = w.Write(nil)

	_ = w.Write([]string{
		"task_id", "session_id", "text", "priority", "completed",
		"completed_at", "estimated_pomodoros", "actual_pomodoros",
	})
	for _, t := range r.Tasks {
		completedAt := ""
		if t.CompletedAt != nil {
			completedAt = t.CompletedAt.Format(time.RFC3339)
		}
		_ = w.Write([]string{
			strconv.FormatInt(t.ID, 10),
			t.SessionID,
			t.Text,
			string(t.Priority),
			strconv.FormatBool(t.Completed),
			completedAt,
			strconv.Itoa(t.EstimatedPomodoros),
			strconv.Itoa(t.ActualPomodoros),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV report: %w", err)
	}
	return buf.Bytes(), nil
}

func formatText(r domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Tempo Productivity Report\n")
	fmt.Fprintf(&buf, "Generated: %s\n\n", r.GeneratedAt.Format(timeLayout))
	fmt.Fprintf(&buf, "Total sessions:      %d\n", r.TotalSessions)
	fmt.Fprintf(&buf, "Completed tasks:     %d\n", r.CompletedTasks)
	fmt.Fprintf(&buf, "Total focus time:    %s\n", formatMinutes(r.TotalFocusMinutes))
	fmt.Fprintf(&buf, "Average session:     %s\n", formatMinutes(r.AverageSessionMinutes))

	if len(r.Sessions) > 0 {
		fmt.Fprintf(&buf, "\nSessions\n")
		for _, s := range r.Sessions {
			status := "open"
			if s.IsClosed() {
				status = formatMinutes(s.Minutes())
			}
			fmt.Fprintf(&buf, "  %s  %-11s  %s", s.StartTime.Format(timeLayout), s.Mode.Label(), status)
			if s.Tag != "" {
				fmt.Fprintf(&buf, "  #%s", s.Tag)
			}
			buf.WriteByte('\n')
		}
	}
	if len(r.Tasks) > 0 {
		fmt.Fprintf(&buf, "\nTasks\n")
		for _, t := range r.Tasks {
			fmt.Fprintf(&buf, "  %s %s\n", checkbox(t.Completed), t.Text)
		}
	}
	return buf.Bytes(), nil
}

func formatMarkdown(r domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Tempo Productivity Report\n\n")
	fmt.Fprintf(&buf, "Generated: %s\n\n", r.GeneratedAt.Format(timeLayout))
	fmt.Fprintf(&buf, "- Total sessions: %d\n", r.TotalSessions)
	fmt.Fprintf(&buf, "- Completed tasks: %d\n", r.CompletedTasks)
	fmt.Fprintf(&buf, "- Total focus time: %s\n", formatMinutes(r.TotalFocusMinutes))
	fmt.Fprintf(&buf, "- Average session: %s\n", formatMinutes(r.AverageSessionMinutes))

	if len(r.Sessions) > 0 {
		fmt.Fprintf(&buf, "\n## Sessions\n\n")
		fmt.Fprintf(&buf, "| Start | Mode | Duration | Tag | Rating |\n")
		fmt.Fprintf(&buf, "|---|---|---|---|---|\n")
		for _, s := range r.Sessions {
			rating := ""
			if s.Rating != nil {
				rating = fmt.Sprintf("%d/%d", *s.Rating, domain.MaxRating)
			}
			fmt.Fprintf(&buf, "| %s | %s | %s | %s | %s |\n",
				s.StartTime.Format(timeLayout), s.Mode.Label(), formatMinutes(s.Minutes()), s.Tag, rating)
		}
	}
	if len(r.Tasks) > 0 {
		fmt.Fprintf(&buf, "\n## Tasks\n\n")
		for _, t := range r.Tasks {
			mark := " "
			if t.Completed {
				mark = "x"
			}
			fmt.Fprintf(&buf, "- [%s] %s\n", mark, t.Text)
		}
	}
	return buf.Bytes(), nil
}

func formatMinutes(m float64) string {
	d := time.Duration(m * float64(time.Minute)).Round(time.Minute)
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
