package domain

import "github.com/google/uuid"

// NewSessionID creates a new unique session identifier.
func NewSessionID() string {
	return uuid.New().String()
}
