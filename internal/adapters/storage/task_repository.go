package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xvierd/tempo/internal/domain"
	"github.com/xvierd/tempo/internal/ports"
)

// taskRepository implements ports.TaskRepository using SQLite.
type taskRepository struct {
	db  *sql.DB
	now func() time.Time
}

// newTaskRepository creates a new task repository.
func newTaskRepository(db *sql.DB) ports.TaskRepository {
	return &taskRepository{db: db, now: time.Now}
}

const taskColumns = `
	id, text, completed, completed_at, session_id, priority, sort_order,
	estimated_pomodoros, actual_pomodoros, created_at
`

// GetBySession returns the tasks of a session ordered by id.
func (r *taskRepository) GetBySession(ctx context.Context, sessionID string) ([]*domain.Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE session_id = ? ORDER BY id ASC`, sessionID)
}

// Add stores a new task at the end of its session's list.
func (r *taskRepository) Add(ctx context.Context, text, sessionID string) (*domain.Task, error) {
	task, err := domain.NewTask(text, sessionID)
	if err != nil {
		return nil, err
	}
	task.CreatedAt = r.now()

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (text, session_id, priority, sort_order, created_at)
		VALUES (?, ?, ?, (SELECT COUNT(*) FROM tasks WHERE session_id = ?), ?)`,
		task.Text, sessionID, string(task.Priority), sessionID, task.CreatedAt.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to add task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read task id: %w", err)
	}
	return r.GetTaskByID(ctx, id)
}

// ToggleCompleted sets the completion flag and timestamp together.
// Returns nil when the task does not exist.
func (r *taskRepository) ToggleCompleted(ctx context.Context, id int64, completed bool) (*domain.Task, error) {
	var completedAt any
	if completed {
		completedAt = r.now().UTC()
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET completed = ?, completed_at = ? WHERE id = ?`,
		completed, completedAt, id)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, nil
	}
	return r.GetTaskByID(ctx, id)
}

// Delete removes a task.
func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// GetAllTasks returns every task ordered by id.
func (r *taskRepository) GetAllTasks(ctx context.Context) ([]*domain.Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id ASC`)
}

// GetTasksByDateRange returns tasks created in [start, end).
func (r *taskRepository) GetTasksByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Task, error) {
	return r.query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE created_at >= ? AND created_at < ? ORDER BY id ASC`,
		start.UTC(), end.UTC())
}

// GetCompletedTasksCount counts completed tasks of a session.
func (r *taskRepository) GetCompletedTasksCount(ctx context.Context, sessionID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM tasks WHERE session_id = ? AND completed = 1`, sessionID)
}

// GetTotalTasksCount counts all tasks of a session.
func (r *taskRepository) GetTotalTasksCount(ctx context.Context, sessionID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM tasks WHERE session_id = ?`, sessionID)
}

// GetTaskByID retrieves a task, or nil if it does not exist.
func (r *taskRepository) GetTaskByID(ctx context.Context, id int64) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// UpdateTask persists every mutable field of a task.
func (r *taskRepository) UpdateTask(ctx context.Context, task *domain.Task) (bool, error) {
	text := strings.TrimSpace(task.Text)
	if text == "" {
		return false, domain.ErrEmptyTaskText
	}
	var completedAt any
	if task.CompletedAt != nil {
		completedAt = task.CompletedAt.UTC()
	}
	result, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET text = ?, completed = ?, completed_at = ?, session_id = ?, priority = ?,
		    sort_order = ?, estimated_pomodoros = ?, actual_pomodoros = ?
		WHERE id = ?`,
		text, task.Completed, completedAt, task.SessionID, string(task.Priority),
		task.SortOrder, task.EstimatedPomodoros, task.ActualPomodoros, task.ID)
	if err != nil {
		return false, fmt.Errorf("failed to update task: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *taskRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}

func (r *taskRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanTask(row scanner) (*domain.Task, error) {
	var (
		t           domain.Task
		priority    string
		completedAt sql.NullTime
	)
	err := row.Scan(&t.ID, &t.Text, &t.Completed, &completedAt, &t.SessionID, &priority,
		&t.SortOrder, &t.EstimatedPomodoros, &t.ActualPomodoros, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Priority = domain.ParsePriority(priority)
	if completedAt.Valid {
		at := completedAt.Time
		t.CompletedAt = &at
	}
	return &t, nil
}
