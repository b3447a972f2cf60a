package domain

import "time"

// Settings holds every user-configurable toggle the controller reads.
type Settings struct {
	Durations                Durations
	PomodorosBeforeLongBreak int
	AutoStartBreaks          bool
	AutoStartPomodoros       bool

	SoundEnabled             bool
	VibrationEnabled         bool
	VibrationDurationSeconds int
	NotificationsEnabled     bool
	OneMinuteWarning         bool

	StreakProtection         bool
	DailyFocusQuotaMinutes   int
	BreakSuggestions         bool
	RetrospectivePrompts     bool
	CarryOverIncompleteTasks bool
	TagFromGitBranch         bool

	Goals     Goals
	Templates []Template
}

// DefaultSettings returns the out-of-the-box configuration.
func DefaultSettings() Settings {
	return Settings{
		Durations:                DefaultDurations(),
		PomodorosBeforeLongBreak: 4,
		SoundEnabled:             true,
		VibrationEnabled:         true,
		VibrationDurationSeconds: 10,
		NotificationsEnabled:     true,
		OneMinuteWarning:         false,
		Goals:                    DefaultGoals(),
	}
}

// AlarmDuration returns how long the alarm rings before stopping itself.
func (s Settings) AlarmDuration() time.Duration {
	if s.VibrationDurationSeconds <= 0 {
		return 0
	}
	return time.Duration(s.VibrationDurationSeconds) * time.Second
}

// vibrationPulse is one on/off step of the alarm pattern.
const vibrationPulse = 500 * time.Millisecond

// VibrationPattern builds an alternating off/on pattern lasting about seconds.
func VibrationPattern(seconds int) []time.Duration {
	if seconds <= 0 {
		return nil
	}
	steps := int(time.Duration(seconds) * time.Second / (2 * vibrationPulse))
	if steps < 1 {
		steps = 1
	}
	pattern := make([]time.Duration, 0, steps*2)
	for i := 0; i < steps; i++ {
		pattern = append(pattern, vibrationPulse, vibrationPulse)
	}
	return pattern
}
