// Package domain contains the core business entities for tempo.
// These entities represent the fundamental concepts of the timer and
// analytics system and are independent of any external frameworks or infrastructure.
package domain

import (
	"errors"
	"strings"
	"time"
)

// Common domain errors.
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrEmptyTaskText     = errors.New("task text cannot be empty")
	ErrInvalidMode       = errors.New("invalid mode")
	ErrInvalidGoal       = errors.New("goal minutes must be positive")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// Priority ranks a task within a session.
type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority maps user input to a Priority. Unknown input maps to PriorityNone.
func ParsePriority(s string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityMedium:
		return PriorityMedium
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityNone
	}
}

// Task represents a unit of work tracked inside a session.
type Task struct {
	ID                 int64
	Text               string
	Completed          bool
	CompletedAt        *time.Time
	SessionID          string
	Priority           Priority
	SortOrder          int
	EstimatedPomodoros int
	ActualPomodoros    int
	CreatedAt          time.Time
}

// NewTask creates a task for a session. The ID is assigned by the store.
func NewTask(text, sessionID string) (*Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyTaskText
	}
	return &Task{
		Text:      text,
		SessionID: sessionID,
		Priority:  PriorityNone,
		CreatedAt: time.Now(),
	}, nil
}

// Complete marks the task as done at the given time.
func (t *Task) Complete(at time.Time) {
	t.Completed = true
	t.CompletedAt = &at
}

// Uncomplete clears the completion flag and timestamp together.
func (t *Task) Uncomplete() {
	t.Completed = false
	t.CompletedAt = nil
}

// SetCompleted toggles completion keeping the flag and timestamp in sync.
func (t *Task) SetCompleted(completed bool, at time.Time) {
	if completed {
		t.Complete(at)
		return
	}
	t.Uncomplete()
}

// SetEstimate stores the estimated pomodoros, clamping negatives to zero.
func (t *Task) SetEstimate(n int) {
	if n < 0 {
		n = 0
	}
	t.EstimatedPomodoros = n
}

// Clone returns a copy that does not share the CompletedAt pointer.
func (t *Task) Clone() *Task {
	c := *t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}
