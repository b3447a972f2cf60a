package domain

import (
	"testing"
	"time"
)

func TestNextMode(t *testing.T) {
	tests := []struct {
		name           string
		completed      Mode
		completedFocus int
		beforeLong     int
		want           Mode
	}{
		{"first focus", ModeFocus, 1, 4, ModeShortBreak},
		{"third focus", ModeFocus, 3, 4, ModeShortBreak},
		{"fourth focus", ModeFocus, 4, 4, ModeLongBreak},
		{"eighth focus", ModeFocus, 8, 4, ModeLongBreak},
		{"cadence of one", ModeFocus, 1, 1, ModeLongBreak},
		{"no cadence", ModeFocus, 4, 0, ModeShortBreak},
		{"after short break", ModeShortBreak, 1, 4, ModeFocus},
		{"after long break", ModeLongBreak, 4, 4, ModeFocus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextMode(tt.completed, tt.completedFocus, tt.beforeLong); got != tt.want {
				t.Errorf("NextMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDurationsFor(t *testing.T) {
	d := DefaultDurations()
	if d.For(ModeFocus) != 25*time.Minute ||
		d.For(ModeShortBreak) != 5*time.Minute ||
		d.For(ModeLongBreak) != 15*time.Minute {
		t.Errorf("DefaultDurations() = %+v", d)
	}
	if d.For(Mode("bogus")) != d.Focus {
		t.Errorf("unknown modes should fall back to focus")
	}
}

func TestModeLabels(t *testing.T) {
	if ModeShortBreak.Label() != "Short Break" || !ModeShortBreak.IsBreak() {
		t.Errorf("short break: %q %v", ModeShortBreak.Label(), ModeShortBreak.IsBreak())
	}
	if ModeFocus.IsBreak() {
		t.Errorf("focus is not a break")
	}
	if Mode("x").Label() != "Unknown" {
		t.Errorf("Label() of an unknown mode = %q", Mode("x").Label())
	}
}

func TestFindTemplate(t *testing.T) {
	custom := []Template{
		{Name: "Standard", FocusMinutes: 1, ShortBreakMinutes: 1, LongBreakMinutes: 1, PomodorosBeforeLongBreak: 1},
		{Name: "Long Haul", FocusMinutes: 90, ShortBreakMinutes: 15, LongBreakMinutes: 30, PomodorosBeforeLongBreak: 2},
		{Name: "Broken", FocusMinutes: 0, ShortBreakMinutes: 5, LongBreakMinutes: 15, PomodorosBeforeLongBreak: 4},
	}

	got, ok := FindTemplate("Standard", custom)
	if !ok || got.FocusMinutes != 25 {
		t.Errorf("built-ins should shadow custom templates, got %+v", got)
	}

	got, ok = FindTemplate("Long Haul", custom)
	if !ok || got.Durations().Focus != 90*time.Minute {
		t.Errorf("FindTemplate(Long Haul) = %+v, %v", got, ok)
	}

	if _, ok := FindTemplate("Broken", custom); ok {
		t.Error("invalid custom templates should not be found")
	}
	if _, ok := FindTemplate("Missing", custom); ok {
		t.Error("unknown templates should not be found")
	}
}

func TestVibrationPattern(t *testing.T) {
	if p := VibrationPattern(0); p != nil {
		t.Errorf("VibrationPattern(0) = %v, want nil", p)
	}

	p := VibrationPattern(3)
	if len(p) != 6 {
		t.Fatalf("VibrationPattern(3) has %d steps, want 6", len(p))
	}
	var total time.Duration
	for _, step := range p {
		total += step
	}
	if total != 3*time.Second {
		t.Errorf("VibrationPattern(3) lasts %v, want 3s", total)
	}
}

func TestSettingsAlarmDuration(t *testing.T) {
	s := DefaultSettings()
	if s.AlarmDuration() != 10*time.Second {
		t.Errorf("AlarmDuration() = %v, want 10s", s.AlarmDuration())
	}
	s.VibrationDurationSeconds = 0
	if s.AlarmDuration() != 0 {
		t.Errorf("AlarmDuration() = %v, want 0", s.AlarmDuration())
	}
}
