package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const glyphHeight = 5

// digitMap holds the block glyph of each digit and the colon.
var digitMap = map[rune][glyphHeight]string{
	'0': {
		"████",
		"█  █",
		"█  █",
		"█  █",
		"████",
	},
	'1': {
		" █ ",
		"██ ",
		" █ ",
		" █ ",
		"███",
	},
	'2': {
		"████",
		"   █",
		"████",
		"█   ",
		"████",
	},
	'3': {
		"████",
		"   █",
		"████",
		"   █",
		"████",
	},
	'4': {
		"█  █",
		"█  █",
		"████",
		"   █",
		"   █",
	},
	'5': {
		"████",
		"█   ",
		"████",
		"   █",
		"████",
	},
	'6': {
		"████",
		"█   ",
		"████",
		"█  █",
		"████",
	},
	'7': {
		"████",
		"   █",
		"  █ ",
		" █  ",
		" █  ",
	},
	'8': {
		"████",
		"█  █",
		"████",
		"█  █",
		"████",
	},
	'9': {
		"████",
		"█  █",
		"████",
		"   █",
		"████",
	},
	':': {
		" ",
		"█",
		" ",
		"█",
		" ",
	},
}

// renderClock renders remaining seconds as MM:SS in block digits. Narrow
// terminals get a single bold line instead.
func renderClock(seconds int, style lipgloss.Style, width int) string {
	text := formatClock(seconds)
	if width < 40 {
		return style.Bold(true).Render(text)
	}

	var lines [glyphHeight]string
	for _, ch := range text {
		glyph, ok := digitMap[ch]
		if !ok {
			continue
		}
		for i := range lines {
			if lines[i] != "" {
				lines[i] += " "
			}
			lines[i] += glyph[i]
		}
	}

	styled := make([]string, glyphHeight)
	for i, line := range lines {
		styled[i] = style.Bold(true).Render(line)
	}
	return strings.Join(styled, "\n")
}

// formatClock formats seconds as MM:SS. Hours fold into minutes.
func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
