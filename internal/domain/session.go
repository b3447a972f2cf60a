package domain

import (
	"time"
)

// MaxRating is the upper bound of a retrospective rating.
const MaxRating = 5

// Session represents one timed interval instance.
// It is open while EndTime is nil and becomes immutable history once closed.
type Session struct {
	ID             string
	Mode           Mode
	StartTime      time.Time
	EndTime        *time.Time
	Tag            string
	Rating         *int
	Note           string
	Distractions   int
	TotalTasks     int
	CompletedTasks int
}

// NewSession opens a session in the given mode.
func NewSession(id string, mode Mode, start time.Time) *Session {
	return &Session{
		ID:        id,
		Mode:      mode,
		StartTime: start,
	}
}

// IsClosed returns true once the session has an end time.
func (s *Session) IsClosed() bool {
	return s.EndTime != nil
}

// Close sets the end time. Closing twice keeps the first end time.
func (s *Session) Close(end time.Time) {
	if s.EndTime != nil {
		return
	}
	if end.Before(s.StartTime) {
		end = s.StartTime
	}
	s.EndTime = &end
}

// Duration returns end minus start, or zero while the session is open.
func (s *Session) Duration() time.Duration {
	if s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// Minutes returns Duration in fractional minutes.
func (s *Session) Minutes() float64 {
	return s.Duration().Minutes()
}

// SetRating stores a retrospective rating clamped to [0, MaxRating].
func (s *Session) SetRating(rating int) {
	r := ClampRating(rating)
	s.Rating = &r
}

// ClampRating bounds a rating to [0, MaxRating].
func ClampRating(rating int) int {
	if rating < 0 {
		return 0
	}
	if rating > MaxRating {
		return MaxRating
	}
	return rating
}

// IsFocus returns true if this is a focus session.
func (s *Session) IsFocus() bool {
	return s.Mode == ModeFocus
}
