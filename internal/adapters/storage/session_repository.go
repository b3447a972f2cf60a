package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/tempo/internal/domain"
	"github.com/xvierd/tempo/internal/ports"
)

// sessionRepository implements ports.SessionRepository using SQLite.
type sessionRepository struct {
	db *sql.DB
}

// newSessionRepository creates a new session repository.
func newSessionRepository(db *sql.DB) ports.SessionRepository {
	return &sessionRepository{db: db}
}

const sessionColumns = `
	s.id, s.mode, s.start_time, s.end_time, s.tag, s.rating, s.note, s.distractions,
	(SELECT COUNT(*) FROM tasks t WHERE t.session_id = s.id),
	(SELECT COUNT(*) FROM tasks t WHERE t.session_id = s.id AND t.completed = 1)
`

// CreateSession opens a session record.
func (r *sessionRepository) CreateSession(ctx context.Context, id string, mode domain.Mode, start time.Time) (*domain.Session, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, mode, start_time) VALUES (?, ?, ?)`,
		id, string(mode), start.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return domain.NewSession(id, mode, start), nil
}

// EndSession sets the end time unless the session is already closed.
func (r *sessionRepository) EndSession(ctx context.Context, id string, end time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET end_time = COALESCE(end_time, ?) WHERE id = ?`,
		end.UTC(), id)
	if err != nil {
		return false, fmt.Errorf("failed to end session: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// CloseSession ends a session and returns it, or nil if it does not exist.
func (r *sessionRepository) CloseSession(ctx context.Context, id string, end time.Time) (*domain.Session, error) {
	ok, err := r.EndSession(ctx, id, end)
	if err != nil || !ok {
		return nil, err
	}
	return r.GetSessionByID(ctx, id)
}

// GetSessionByID retrieves a session by id, or nil if it does not exist.
func (r *sessionRepository) GetSessionByID(ctx context.Context, id string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions s WHERE s.id = ?`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// GetSessionsWithStats returns every session with its task counts, oldest first.
func (r *sessionRepository) GetSessionsWithStats(ctx context.Context) ([]*domain.Session, error) {
	return r.query(ctx, `SELECT `+sessionColumns+` FROM sessions s ORDER BY s.start_time ASC`)
}

// GetRecentSessions returns up to limit sessions, newest first.
func (r *sessionRepository) GetRecentSessions(ctx context.Context, limit int) ([]*domain.Session, error) {
	if limit <= 0 {
		return []*domain.Session{}, nil
	}
	return r.query(ctx, `SELECT `+sessionColumns+` FROM sessions s ORDER BY s.start_time DESC LIMIT ?`, limit)
}

// GetAllSessions returns every session, oldest first.
func (r *sessionRepository) GetAllSessions(ctx context.Context) ([]*domain.Session, error) {
	return r.GetSessionsWithStats(ctx)
}

// UpdateSession persists the mutable session fields.
func (r *sessionRepository) UpdateSession(ctx context.Context, session *domain.Session) (bool, error) {
	var rating any
	if session.Rating != nil {
		rating = *session.Rating
	}
	var end any
	if session.EndTime != nil {
		end = session.EndTime.UTC()
	}
	result, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET mode = ?, start_time = ?, end_time = ?, tag = ?, rating = ?, note = ?, distractions = ?
		WHERE id = ?`,
		string(session.Mode), session.StartTime.UTC(), end, session.Tag, rating,
		session.Note, session.Distractions, session.ID)
	if err != nil {
		return false, fmt.Errorf("failed to update session: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// DeleteSession removes a session and returns the number of rows affected.
func (r *sessionRepository) DeleteSession(ctx context.Context, id string) (int, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete session: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

func (r *sessionRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sessions := []*domain.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*domain.Session, error) {
	var (
		s      domain.Session
		mode   string
		end    sql.NullTime
		rating sql.NullInt64
	)
	err := row.Scan(&s.ID, &mode, &s.StartTime, &end, &s.Tag, &rating, &s.Note,
		&s.Distractions, &s.TotalTasks, &s.CompletedTasks)
	if err != nil {
		return nil, err
	}
	s.Mode = domain.Mode(mode)
	if end.Valid {
		t := end.Time
		s.EndTime = &t
	}
	if rating.Valid {
		v := int(rating.Int64)
		s.Rating = &v
	}
	return &s, nil
}
