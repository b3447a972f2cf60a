package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/tempo/internal/services"
)

// View renders the TUI.
func (m Model) View() string {
	c := m.ctrl
	var sections []string

	sections = append(sections, titleStyle.Render(m.title()))
	sections = append(sections, m.viewTimer()...)

	if d := c.Dialog(); d != nil {
		sections = append(sections, "", m.viewDialog(d))
	}
	if c.RetrospectivePending() && m.purpose != inputNote {
		sections = append(sections, "", warnStyle.Render("How did that session go? [1-5] rate  [esc] skip"))
	}
	if c.StreakWarning() {
		sections = append(sections, "", warnStyle.Render(
			fmt.Sprintf("Your %d-day streak needs a focus session today. [y] start anyway", c.Dashboard().Streak.Current)))
	}
	if s := c.BreakSuggestion(); s != "" && c.Mode().IsBreak() {
		sections = append(sections, "", helpStyle.Render("Suggestion: "+s))
	}

	sections = append(sections, "", m.viewTasks())

	if m.purpose != inputNone {
		sections = append(sections, "", m.input.View())
	}

	sections = append(sections, "", m.viewDashboard())
	sections = append(sections, "", helpStyle.Render(m.helpText()))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) title() string {
	c := m.ctrl
	title := fmt.Sprintf("Tempo · %s", c.Mode().Label())
	if s := c.Session(); s != nil && s.Tag != "" {
		title += "  #" + s.Tag
	}
	return title
}

func (m Model) viewTimer() []string {
	c := m.ctrl
	color := modeColor(c.Mode())
	if c.State() == services.StatePaused {
		color = colorPaused
	}
	style := lipgloss.NewStyle().Foreground(color)

	lines := []string{renderClock(c.Remaining(), style, m.width)}

	status := strings.ToUpper(c.State().String())
	if c.IsRinging() {
		status = "RINGING"
	}
	cycle := fmt.Sprintf("%s  ·  %d completed", status, c.CompletedFocusSessions())
	if s := c.Session(); s != nil && s.Distractions > 0 {
		cycle += fmt.Sprintf("  ·  %d distractions", s.Distractions)
	}
	lines = append(lines, "", helpStyle.Render(cycle))

	start, end := gradient(c.Mode())
	bar := progress.New(progress.WithGradient(start, end), progress.WithoutPercentage())
	bar.Width = m.progress.Width
	lines = append(lines, bar.ViewAs(m.elapsedFraction()))
	return lines
}

// elapsedFraction is the share of the countdown already used.
func (m Model) elapsedFraction() float64 {
	total := m.ctrl.Total().Seconds()
	if total <= 0 {
		return 0
	}
	f := 1 - float64(m.ctrl.Remaining())/total
	return min(max(f, 0), 1)
}

func (m Model) viewDialog(d *services.CompletionDialog) string {
	body := []string{
		selectedStyle.Render(d.Title),
		d.Message,
		helpStyle.Render(fmt.Sprintf("Next: %s  [enter] dismiss", d.Next.Label())),
	}
	return dialogStyle.Render(strings.Join(body, "\n"))
}

func (m Model) viewTasks() string {
	tasks := m.visibleTasks()
	header := "Tasks"
	if m.query != "" {
		header = fmt.Sprintf("Tasks matching %q", m.query)
	}

	lines := []string{selectedStyle.Render(header)}
	if len(tasks) == 0 {
		lines = append(lines, helpStyle.Render("  no tasks, press [a] to add one"))
		return strings.Join(lines, "\n")
	}

	for i, t := range tasks {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		text := t.Text
		switch {
		case t.Completed:
			text = doneStyle.Render(text)
		case i == m.cursor:
			text = selectedStyle.Render(text)
		}
		line := fmt.Sprintf("%s%s %s %s", cursor, check, priorityMarker(t.Priority), text)
		if t.EstimatedPomodoros > 0 || t.ActualPomodoros > 0 {
			line += helpStyle.Render(fmt.Sprintf("  %d/%d", t.ActualPomodoros, t.EstimatedPomodoros))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewDashboard() string {
	dash := m.ctrl.Dashboard()
	line := fmt.Sprintf("Today: %d sessions, %s focused  ·  streak %d (best %d)",
		dash.Today.SessionsCompleted,
		formatMinutes(dash.FocusMinutesToday),
		dash.Streak.Current,
		dash.Streak.Longest)
	return helpStyle.Render(line)
}

func (m Model) helpText() string {
	if !m.showHelp {
		return "[space] start/pause  [s]kip  [a]dd  [x] done  [?] more  [q]uit"
	}
	return strings.Join([]string{
		"[space] start/pause  [s]kip  [n]ew session  [enter] dismiss",
		"[f]ocus  short [b]reak  [l]ong break  [T]emplate  [t]ag  [i] distraction",
		"[a]dd  [e]dit  [d]elete  [x] toggle  [p]riority  [+/-] estimate",
		"[j/k] move  [J/K] reorder  [/] search  [C] complete all  [D] drop completed",
	}, "\n")
}

func formatMinutes(minutes float64) string {
	total := int(minutes)
	if total < 60 {
		return fmt.Sprintf("%dm", total)
	}
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}
