// Package notification provides the desktop alarm collaborators: beeep
// notifications and beeps. Desktops cannot vibrate, so vibration is a no-op.
package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/xvierd/tempo/internal/logging"
	"github.com/xvierd/tempo/internal/ports"
)

var (
	_ ports.NotificationService = (*Notifier)(nil)
	_ ports.SoundService        = (*Sound)(nil)
	_ ports.VibrationService    = NoVibration{}
)

// Notifier shows desktop notifications.
type Notifier struct {
	notify func(title, message string) error
}

// New creates a notifier backed by beeep.
func New() *Notifier {
	return &Notifier{notify: func(title, message string) error {
		return beeep.Notify(title, message, "")
	}}
}

// ShowNotification displays a desktop notification.
func (n *Notifier) ShowNotification(ctx context.Context, title, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.notify(title, body)
}

// Sound plays the alarm as terminal beeps until stopped.
type Sound struct {
	beep   func() error
	repeat int
	logger *slog.Logger

	mu   sync.Mutex
	stop chan struct{}
}

// NewSound creates a sound service that beeps up to repeat times.
func NewSound(repeat int, logger *slog.Logger) *Sound {
	if repeat <= 0 {
		repeat = 1
	}
	if logger == nil {
		logger = logging.Discard()
	}
	beep := func() error { return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration) }
	return &Sound{beep: beep, repeat: repeat, logger: logger}
}

// PlayNotificationSound starts beeping in the background. A sound already
// playing is restarted.
func (s *Sound) PlayNotificationSound() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		close(s.stop)
	}
	stop := make(chan struct{})
	s.stop = stop

	go func() {
		for i := 0; i < s.repeat; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if err := s.beep(); err != nil {
				s.logger.Warn("failed to play alarm sound", "error", err)
				return
			}
		}
	}()
}

// StopNotificationSound stops any remaining beeps.
func (s *Sound) StopNotificationSound() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

// IsSupported returns true; beeep falls back to the terminal bell.
func (s *Sound) IsSupported() bool { return true }

// NoVibration is the vibration service for hosts without a motor.
type NoVibration struct{}

func (NoVibration) VibratePattern([]time.Duration, int) {}
func (NoVibration) Cancel() {}
func (NoVibration) IsSupported() bool { return false }
