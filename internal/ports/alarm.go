package ports

import (
	"context"
	"time"
)

// SoundService plays the completion alarm. Calls are fire-and-forget.
type SoundService interface {
	PlayNotificationSound()
	StopNotificationSound()
	IsSupported() bool
}

// VibrationService drives a haptic pattern. Calls are fire-and-forget.
type VibrationService interface {
	// VibratePattern plays alternating off/on durations; repeat is the index to
	// loop from, or -1 for a single pass.
	VibratePattern(pattern []time.Duration, repeat int)
	Cancel()
	IsSupported() bool
}

// NotificationService shows a user-visible notification.
type NotificationService interface {
	ShowNotification(ctx context.Context, title, body string) error
}

// BackgroundService is the Background Resilience Layer contract: a platform
// mechanism that keeps tracking the countdown and can fire the completion
// alarm while the foreground process is suspended.
type BackgroundService interface {
	// StartTracking begins platform-level tracking of a countdown ending at target.
	StartTracking(target time.Time)

	// StopTracking cancels tracking and any pending platform alarm.
	StopTracking()

	// UpdateRemaining refreshes the platform-side display of remaining seconds.
	UpdateRemaining(seconds int)

	// CompletionAlarmStartedByPlatform reports whether the platform already
	// rang the alarm for the current countdown.
	CompletionAlarmStartedByPlatform() bool

	// ClearAlarmFlag resets the flag once the controller has consumed it.
	ClearAlarmFlag()

	// UpdateAlarmSettings pushes alarm preferences down to the platform.
	UpdateAlarmSettings(soundEnabled, vibrationEnabled bool, vibrationDurationSeconds int)
}
