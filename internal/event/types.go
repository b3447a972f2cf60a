// Package event defines the notifications the session controller publishes
// so hosts (TUI, headless runner, HTTP) can react without depending on it.
package event

import (
	"time"

	"github.com/xvierd/tempo/internal/domain"
)

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a "category.action" identifier.
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string, at time.Time) baseEvent {
	return baseEvent{eventType: eventType, timestamp: at}
}

// Event type identifiers.
const (
	TypeTick             = "timer.tick"
	TypeTimerCompleted   = "timer.completed"
	TypeSessionStarted   = "session.started"
	TypeSessionClosed    = "session.closed"
	TypeStatsRefreshed   = "stats.refreshed"
	TypeOneMinuteWarning = "timer.one_minute"
)

// TickEvent carries the remaining seconds of the running countdown.
type TickEvent struct {
	baseEvent
	Mode      domain.Mode
	Remaining int
}

// NewTickEvent creates a TickEvent.
func NewTickEvent(at time.Time, mode domain.Mode, remaining int) TickEvent {
	return TickEvent{
		baseEvent: newBaseEvent(TypeTick, at),
		Mode:      mode,
		Remaining: remaining,
	}
}

// TimerCompletedEvent is emitted once per countdown that reaches zero
// or is skipped.
type TimerCompletedEvent struct {
	baseEvent
	Completed domain.Mode
	Next      domain.Mode
	Skipped   bool
	// AlarmByPlatform is true when the background layer rang the alarm.
	AlarmByPlatform bool
}

// NewTimerCompletedEvent creates a TimerCompletedEvent.
func NewTimerCompletedEvent(at time.Time, completed, next domain.Mode, skipped, byPlatform bool) TimerCompletedEvent {
	return TimerCompletedEvent{
		baseEvent:       newBaseEvent(TypeTimerCompleted, at),
		Completed:       completed,
		Next:            next,
		Skipped:         skipped,
		AlarmByPlatform: byPlatform,
	}
}

// SessionStartedEvent is emitted when a countdown opens a session.
type SessionStartedEvent struct {
	baseEvent
	SessionID string
	Mode      domain.Mode
}

// NewSessionStartedEvent creates a SessionStartedEvent.
func NewSessionStartedEvent(at time.Time, id string, mode domain.Mode) SessionStartedEvent {
	return SessionStartedEvent{
		baseEvent: newBaseEvent(TypeSessionStarted, at),
		SessionID: id,
		Mode:      mode,
	}
}

// SessionClosedEvent is emitted when a session receives its end time.
type SessionClosedEvent struct {
	baseEvent
	SessionID string
	Mode      domain.Mode
}

// NewSessionClosedEvent creates a SessionClosedEvent.
func NewSessionClosedEvent(at time.Time, id string, mode domain.Mode) SessionClosedEvent {
	return SessionClosedEvent{
		baseEvent: newBaseEvent(TypeSessionClosed, at),
		SessionID: id,
		Mode:      mode,
	}
}

// StatsRefreshedEvent carries the dashboard figures after a refresh.
type StatsRefreshedEvent struct {
	baseEvent
	Today  domain.PeriodStats
	Streak domain.StreakInfo
}

// NewStatsRefreshedEvent creates a StatsRefreshedEvent.
func NewStatsRefreshedEvent(at time.Time, today domain.PeriodStats, streak domain.StreakInfo) StatsRefreshedEvent {
	return StatsRefreshedEvent{
		baseEvent: newBaseEvent(TypeStatsRefreshed, at),
		Today:     today,
		Streak:    streak,
	}
}

// OneMinuteWarningEvent is emitted when exactly one minute remains.
type OneMinuteWarningEvent struct {
	baseEvent
	Mode domain.Mode
}

// NewOneMinuteWarningEvent creates a OneMinuteWarningEvent.
func NewOneMinuteWarningEvent(at time.Time, mode domain.Mode) OneMinuteWarningEvent {
	return OneMinuteWarningEvent{
		baseEvent: newBaseEvent(TypeOneMinuteWarning, at),
		Mode:      mode,
	}
}
