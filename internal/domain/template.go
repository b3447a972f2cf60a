package domain

import (
	"strings"
	"time"
)

// Template is a named set of durations and long-break cadence.
type Template struct {
	Name                     string
	FocusMinutes             int
	ShortBreakMinutes        int
	LongBreakMinutes         int
	PomodorosBeforeLongBreak int
}

// BuiltinTemplates returns the read-only templates shipped with tempo.
func BuiltinTemplates() []Template {
	return []Template{
		{Name: "Standard", FocusMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 15, PomodorosBeforeLongBreak: 4},
		{Name: "Deep Work", FocusMinutes: 50, ShortBreakMinutes: 10, LongBreakMinutes: 30, PomodorosBeforeLongBreak: 3},
		{Name: "Quick Sprint", FocusMinutes: 15, ShortBreakMinutes: 3, LongBreakMinutes: 10, PomodorosBeforeLongBreak: 4},
	}
}

// Durations converts the template minutes into mode durations.
func (t Template) Durations() Durations {
	return Durations{
		Focus:      time.Duration(t.FocusMinutes) * time.Minute,
		ShortBreak: time.Duration(t.ShortBreakMinutes) * time.Minute,
		LongBreak:  time.Duration(t.LongBreakMinutes) * time.Minute,
	}
}

// Valid reports whether every duration and the cadence are positive.
func (t Template) Valid() bool {
	return strings.TrimSpace(t.Name) != "" &&
		t.FocusMinutes > 0 && t.ShortBreakMinutes > 0 &&
		t.LongBreakMinutes > 0 && t.PomodorosBeforeLongBreak > 0
}

// FindTemplate looks a template up by exact name. Built-ins shadow custom
// templates with the same name.
func FindTemplate(name string, custom []Template) (Template, bool) {
	for _, t := range BuiltinTemplates() {
		if t.Name == name {
			return t, true
		}
	}
	for _, t := range custom {
		if t.Name == name && t.Valid() {
			return t, true
		}
	}
	return Template{}, false
}
