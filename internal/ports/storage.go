// Package ports defines the interfaces (driven and driving ports)
// for tempo following hexagonal architecture principles.
// These interfaces define the contracts between the core and
// external infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/xvierd/tempo/internal/domain"
)

// SessionRepository defines the interface for session persistence.
// This is a driven port (implemented by adapters).
type SessionRepository interface {
	// CreateSession opens a session record.
	CreateSession(ctx context.Context, id string, mode domain.Mode, start time.Time) (*domain.Session, error)

	// EndSession sets the end time. Returns false when the session does not exist.
	EndSession(ctx context.Context, id string, end time.Time) (bool, error)

	// CloseSession sets the end time and returns the closed session, or nil if unknown.
	CloseSession(ctx context.Context, id string, end time.Time) (*domain.Session, error)

	// GetSessionByID retrieves a session, or nil if unknown.
	GetSessionByID(ctx context.Context, id string) (*domain.Session, error)

	// GetSessionsWithStats returns all sessions with derived task counts.
	GetSessionsWithStats(ctx context.Context) ([]*domain.Session, error)

	// GetRecentSessions returns the newest sessions first.
	GetRecentSessions(ctx context.Context, limit int) ([]*domain.Session, error)

	// GetAllSessions returns every session ordered by start time.
	GetAllSessions(ctx context.Context) ([]*domain.Session, error)

	// UpdateSession persists mode, start and end times, tag, rating, note and distraction count.
	UpdateSession(ctx context.Context, session *domain.Session) (bool, error)

	// DeleteSession removes a session and returns the rows affected.
	DeleteSession(ctx context.Context, id string) (int, error)
}

// TaskRepository defines the interface for task persistence.
// This is a driven port (implemented by adapters).
type TaskRepository interface {
	// GetBySession returns the tasks of a session ordered by id ascending.
	GetBySession(ctx context.Context, sessionID string) ([]*domain.Task, error)

	// Add stores a new task and returns it with its assigned id.
	Add(ctx context.Context, text, sessionID string) (*domain.Task, error)

	// ToggleCompleted sets the completion flag, or returns nil if the task is unknown.
	ToggleCompleted(ctx context.Context, id int64, completed bool) (*domain.Task, error)

	// Delete removes a task.
	Delete(ctx context.Context, id int64) error

	// GetAllTasks returns every task.
	GetAllTasks(ctx context.Context) ([]*domain.Task, error)

	// GetTasksByDateRange returns tasks created in [start, end).
	GetTasksByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Task, error)

	// GetCompletedTasksCount counts completed tasks of a session.
	GetCompletedTasksCount(ctx context.Context, sessionID string) (int, error)

	// GetTotalTasksCount counts all tasks of a session.
	GetTotalTasksCount(ctx context.Context, sessionID string) (int, error)

	// GetTaskByID retrieves a task, or nil if unknown.
	GetTaskByID(ctx context.Context, id int64) (*domain.Task, error)

	// UpdateTask persists every mutable field. Returns false when the task does not exist.
	UpdateTask(ctx context.Context, task *domain.Task) (bool, error)
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Tasks provides access to task operations.
	Tasks() TaskRepository

	// Sessions provides access to session operations.
	Sessions() SessionRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
