package domain

import (
	"fmt"
	"time"
)

// Mode is the kind of interval a countdown runs for.
type Mode string

const (
	ModeFocus      Mode = "focus"
	ModeShortBreak Mode = "short_break"
	ModeLongBreak  Mode = "long_break"
)

// ValidModes lists all supported modes.
var ValidModes = []Mode{
	ModeFocus,
	ModeShortBreak,
	ModeLongBreak,
}

// ParseMode checks if a string is a valid mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	for _, valid := range ValidModes {
		if m == valid {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w %q: must be one of focus, short_break, long_break", ErrInvalidMode, s)
}

// Label returns a human-readable label.
func (m Mode) Label() string {
	switch m {
	case ModeFocus:
		return "Focus"
	case ModeShortBreak:
		return "Short Break"
	case ModeLongBreak:
		return "Long Break"
	default:
		return "Unknown"
	}
}

// IsBreak returns true for both break modes.
func (m Mode) IsBreak() bool {
	return m == ModeShortBreak || m == ModeLongBreak
}

// Durations holds the configured length of each mode.
type Durations struct {
	Focus      time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration
}

// DefaultDurations returns the classic 25/5/15 split.
func DefaultDurations() Durations {
	return Durations{
		Focus:      25 * time.Minute,
		ShortBreak: 5 * time.Minute,
		LongBreak:  15 * time.Minute,
	}
}

// For returns the configured duration for a mode. Unknown modes fall back to focus.
func (d Durations) For(m Mode) time.Duration {
	switch m {
	case ModeShortBreak:
		return d.ShortBreak
	case ModeLongBreak:
		return d.LongBreak
	case ModeFocus:
		return d.Focus
	default:
		return d.Focus
	}
}

// NextMode computes the mode that follows a completed interval.
// completedFocus is the focus-cycle counter after the increment for this completion.
func NextMode(completed Mode, completedFocus, beforeLong int) Mode {
	if completed.IsBreak() {
		return ModeFocus
	}
	if beforeLong > 0 && completedFocus > 0 && completedFocus%beforeLong == 0 {
		return ModeLongBreak
	}
	return ModeShortBreak
}
