package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/tempo/internal/domain"
)

// Palette colours.
const (
	colorFocus      = lipgloss.Color("#FF6B6B")
	colorShortBreak = lipgloss.Color("#4ECDC4")
	colorLongBreak  = lipgloss.Color("#5B8DEF")
	colorPaused     = lipgloss.Color("#F5A623")
	colorTitle      = lipgloss.Color("#E0E0E0")
	colorHelp       = lipgloss.Color("#7A7A7A")
	colorDone       = lipgloss.Color("#6BCB77")
	colorWarn       = lipgloss.Color("#FFD93D")
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorTitle).MarginBottom(1)
	helpStyle     = lipgloss.NewStyle().Foreground(colorHelp)
	doneStyle     = lipgloss.NewStyle().Foreground(colorDone).Strikethrough(true)
	warnStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorWarn)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	dialogStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDone).Padding(0, 2)
)

// modeColor returns the accent colour of a mode.
func modeColor(m domain.Mode) lipgloss.Color {
	switch m {
	case domain.ModeShortBreak:
		return colorShortBreak
	case domain.ModeLongBreak:
		return colorLongBreak
	default:
		return colorFocus
	}
}

// gradient returns the progress bar colours of a mode.
func gradient(m domain.Mode) (string, string) {
	switch m {
	case domain.ModeShortBreak:
		return "#4ECDC4", "#A8E6CF"
	case domain.ModeLongBreak:
		return "#5B8DEF", "#A0C4FF"
	default:
		return "#FF6B6B", "#FFB4A2"
	}
}

func priorityMarker(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return "!!!"
	case domain.PriorityMedium:
		return "!! "
	case domain.PriorityLow:
		return "!  "
	default:
		return "   "
	}
}
