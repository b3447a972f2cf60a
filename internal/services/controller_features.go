package services

import (
	"context"
	"strings"
	"time"

	"github.com/xvierd/tempo/internal/domain"
)

// StopAlarm silences the completion alarm.
func (c *Controller) StopAlarm() {
	c.stopAlarm()
}

func (c *Controller) ringAlarm(st domain.Settings) {
	if st.SoundEnabled && c.sound != nil && c.sound.IsSupported() {
		c.sound.PlayNotificationSound()
	}
	if st.VibrationEnabled && c.vibration != nil && c.vibration.IsSupported() {
		c.vibration.VibratePattern(domain.VibrationPattern(st.VibrationDurationSeconds), -1)
	}
}

func (c *Controller) stopAlarm() {
	c.cancelAlarmTimer()
	if !c.ringing {
		return
	}
	c.ringing = false
	if c.sound != nil {
		c.sound.StopNotificationSound()
	}
	if c.vibration != nil {
		c.vibration.Cancel()
	}
}

// scheduleAlarmStop silences the alarm after d. The callback is posted to
// the owner context and ignored if the alarm was stopped or re-armed.
func (c *Controller) scheduleAlarmStop(d time.Duration) {
	c.cancelAlarmTimer()
	if d <= 0 || c.dispatch == nil {
		return
	}
	gen := c.alarmGen
	dispatch := c.dispatch
	c.alarmTimer = time.AfterFunc(d, func() {
		dispatch(func() {
			if c.alarmGen == gen {
				c.stopAlarm()
			}
		})
	})
}

func (c *Controller) cancelAlarmTimer() {
	c.alarmGen++
	if c.alarmTimer != nil {
		c.alarmTimer.Stop()
		c.alarmTimer = nil
	}
}

// SetTag labels the open session.
func (c *Controller) SetTag(ctx context.Context, tag string) {
	if c.session == nil {
		return
	}
	c.session.Tag = strings.TrimSpace(tag)
	c.persistSession(ctx, c.session)
}

// AddDistraction counts one interruption against the open session.
func (c *Controller) AddDistraction(ctx context.Context) int {
	if c.session == nil {
		return 0
	}
	c.session.Distractions++
	c.persistSession(ctx, c.session)
	return c.session.Distractions
}

// RetrospectivePending reports whether the rating prompt is shown.
func (c *Controller) RetrospectivePending() bool { return c.retroPending }

// SubmitRetrospective stores a rating and note on the session that just
// closed and hides the prompt.
func (c *Controller) SubmitRetrospective(ctx context.Context, rating int, note string) {
	if !c.retroPending || c.retroSession == nil {
		return
	}
	c.retroSession.SetRating(rating)
	c.retroSession.Note = strings.TrimSpace(note)
	c.persistSession(ctx, c.retroSession)
	c.retroPending = false
	c.retroSession = nil
}

// DismissRetrospective hides the prompt without saving.
func (c *Controller) DismissRetrospective() {
	c.retroPending = false
	c.retroSession = nil
}

// Templates lists the built-in templates followed by valid custom ones.
func (c *Controller) Templates() []domain.Template {
	out := domain.BuiltinTemplates()
	for _, t := range c.settings.Settings().Templates {
		if _, builtin := findBuiltin(t.Name); builtin || !t.Valid() {
			continue
		}
		out = append(out, t)
	}
	return out
}

func findBuiltin(name string) (domain.Template, bool) {
	return domain.FindTemplate(name, nil)
}

// ApplyTemplate copies a template's durations and cadence into settings.
// It is refused while a countdown is open; unknown names are ignored.
func (c *Controller) ApplyTemplate(ctx context.Context, name string) bool {
	if c.state != StateIdle {
		return false
	}
	t, ok := domain.FindTemplate(name, c.settings.Settings().Templates)
	if !ok {
		return false
	}
	c.ApplySettings(ctx, func(st *domain.Settings) {
		st.Durations = t.Durations()
		st.PomodorosBeforeLongBreak = t.PomodorosBeforeLongBreak
	})
	return true
}

// ApplySettings mutates and saves settings, then pushes the alarm settings
// to the background layer. An idle countdown picks up the new duration.
func (c *Controller) ApplySettings(ctx context.Context, fn func(*domain.Settings)) {
	c.settings.Update(fn)
	if err := c.settings.Save(ctx); err != nil {
		c.logger.Warn("failed to save settings", "error", err)
	}
	st := c.settings.Settings()
	c.background.UpdateAlarmSettings(st.SoundEnabled, st.VibrationEnabled, st.VibrationDurationSeconds)
	if c.state == StateIdle && c.dialog == nil {
		c.engine.Reset(c.duration(c.mode))
	}
}
