package background

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xvierd/tempo/internal/domain"
	"github.com/xvierd/tempo/internal/ports"
)

// Watchdog arms an independent timer at the countdown's end time. When it
// fires it rings the alarm and raises a flag the controller reads on
// completion. The flag may be raised just after the controller checked it;
// a double alarm is accepted over a missed one.
type Watchdog struct {
	sound     ports.SoundService
	vibration ports.VibrationService
	notifier  ports.NotificationService
	logger    *slog.Logger
	now       func() time.Time

	alarmStarted atomic.Bool
	remaining    atomic.Int64

	mu               sync.Mutex
	timer            *time.Timer
	gen              uint64
	soundEnabled     bool
	vibrationEnabled bool
	vibrationSeconds int
}

// NewWatchdog creates a watchdog that rings through the given collaborators.
// Any of them may be nil.
func NewWatchdog(sound ports.SoundService, vibration ports.VibrationService, notifier ports.NotificationService, logger *slog.Logger) *Watchdog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watchdog{
		sound:            sound,
		vibration:        vibration,
		notifier:         notifier,
		logger:           logger,
		now:              time.Now,
		soundEnabled:     true,
		vibrationEnabled: true,
		vibrationSeconds: 10,
	}
}

// StartTracking arms the watchdog for a countdown ending at target.
func (w *Watchdog) StartTracking(target time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopLocked()
	w.alarmStarted.Store(false)
	w.gen++
	gen := w.gen
	w.timer = time.AfterFunc(target.Sub(w.now()), func() { w.fire(gen) })
	w.logger.Debug("background tracking started", "target", target)
}

// StopTracking disarms the watchdog.
func (w *Watchdog) StopTracking() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
}

func (w *Watchdog) stopLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.gen++
}

// UpdateRemaining records the latest remaining seconds.
func (w *Watchdog) UpdateRemaining(seconds int) {
	w.remaining.Store(int64(seconds))
}

// Remaining returns the last remaining seconds pushed by the engine.
func (w *Watchdog) Remaining() int {
	return int(w.remaining.Load())
}

// CompletionAlarmStartedByPlatform reports whether the watchdog rang.
func (w *Watchdog) CompletionAlarmStartedByPlatform() bool {
	return w.alarmStarted.Load()
}

// ClearAlarmFlag resets the flag after the controller consumed it.
func (w *Watchdog) ClearAlarmFlag() {
	w.alarmStarted.Store(false)
}

// UpdateAlarmSettings stores the alarm preferences used when the watchdog fires.
func (w *Watchdog) UpdateAlarmSettings(soundEnabled, vibrationEnabled bool, vibrationDurationSeconds int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.soundEnabled = soundEnabled
	w.vibrationEnabled = vibrationEnabled
	w.vibrationSeconds = vibrationDurationSeconds
}

func (w *Watchdog) fire(gen uint64) {
	w.mu.Lock()
	if gen != w.gen {
		w.mu.Unlock()
		return
	}
	w.timer = nil
	// raised under the lock so a StopTracking that loses the race sees it
	w.alarmStarted.Store(true)
	soundOn, vibrationOn, seconds := w.soundEnabled, w.vibrationEnabled, w.vibrationSeconds
	w.mu.Unlock()

	w.remaining.Store(0)

	if soundOn && w.sound != nil && w.sound.IsSupported() {
		w.sound.PlayNotificationSound()
	}
	if vibrationOn && w.vibration != nil && w.vibration.IsSupported() {
		w.vibration.VibratePattern(domain.VibrationPattern(seconds), -1)
	}
	if w.notifier != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := w.notifier.ShowNotification(ctx, "Time's up!", "Your timer has finished."); err != nil {
			w.logger.Warn("background notification failed", "error", err)
		}
	}
	w.logger.Info("background alarm fired")
}
