package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is one recorded run of a scenario.
type Session struct {
	SessionID  string
	Name       string
	Offsets    string
	Policy     string
	StartedAt  time.Time
	EndedAt    *time.Time
	CycleCount *int
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db querier
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new session and returns its ID.
func (r *SessionRepository) Create(name, offsets, policy string) (string, error) {
	id := uuid.New().String()
	startedAt := time.Now().UTC()

	_, err := r.db.Exec(`
		INSERT INTO sessions (session_id, name, offsets, policy, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, name, offsets, policy, startedAt.Format(time.RFC3339Nano))

	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return id, nil
}

// End marks a session as complete.
func (r *SessionRepository) End(sessionID string, cycleCount int) error {
	endedAt := time.Now().UTC()

	result, err := r.db.Exec(`
		UPDATE sessions
		SET ended_at = ?, cycle_count = ?
		WHERE session_id = ?
	`, endedAt.Format(time.RFC3339Nano), cycleCount, sessionID)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// Get retrieves a session by ID. It returns ErrSessionNotFound if there is
// no such session.
func (r *SessionRepository) Get(sessionID string) (*Session, error) {
	row := r.db.QueryRow(`
		SELECT session_id, name, offsets, policy, started_at, ended_at, cycle_count
		FROM sessions
		WHERE session_id = ?
	`, sessionID)

	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// List returns the most recent sessions, newest first.
func (r *SessionRepository) List(limit int) ([]Session, error) {
	rows, err := r.db.Query(`
		SELECT session_id, name, offsets, policy, started_at, ended_at, cycle_count
		FROM sessions
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}

	return sessions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var s Session
	var startedAtStr string
	var endedAtStr sql.NullString
	var cycleCount sql.NullInt64

	err := row.Scan(&s.SessionID, &s.Name, &s.Offsets, &s.Policy, &startedAtStr, &endedAtStr, &cycleCount)
	if err != nil {
		return nil, err
	}

	s.StartedAt, err = time.Parse(time.RFC3339Nano, startedAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start time: %w", err)
	}
	if endedAtStr.Valid {
		t, err := time.Parse(time.RFC3339Nano, endedAtStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse end time: %w", err)
		}
		s.EndedAt = &t
	}
	if cycleCount.Valid {
		n := int(cycleCount.Int64)
		s.CycleCount = &n
	}

	return &s, nil
}
