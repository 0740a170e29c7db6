package storage

import (
	"database/sql"
	"fmt"
)

// ChangeRecord is one field change detected during a recorded cycle.
type ChangeRecord struct {
	ChangeID   int64
	SessionID  string
	CycleIndex int
	Face       int
	Field      int
	Previous   int
	Current    int
	Result     string
}

// ChangeRepository provides CRUD operations for changes.
type ChangeRepository struct {
	db querier
}

// NewChangeRepository creates a new change repository.
func NewChangeRepository(db *DB) *ChangeRepository {
	return &ChangeRepository{db: db}
}

// WithTx returns a repository that runs its statements in tx.
func (r *ChangeRepository) WithTx(tx *sql.Tx) *ChangeRepository {
	return &ChangeRepository{db: tx}
}

// Create stores a change and returns its ID.
func (r *ChangeRepository) Create(c ChangeRecord) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO changes (session_id, cycle_index, face, field, previous, current, result)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.SessionID, c.CycleIndex, c.Face, c.Field, c.Previous, c.Current, c.Result)

	if err != nil {
		return 0, fmt.Errorf("failed to create change: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get change ID: %w", err)
	}

	return id, nil
}

// GetBySession retrieves all changes of a session, in detection order.
func (r *ChangeRepository) GetBySession(sessionID string) ([]ChangeRecord, error) {
	rows, err := r.db.Query(`
		SELECT change_id, session_id, cycle_index, face, field, previous, current, result
		FROM changes
		WHERE session_id = ?
		ORDER BY change_id
	`, sessionID)

	if err != nil {
		return nil, fmt.Errorf("failed to get changes: %w", err)
	}
	defer rows.Close()

	var changes []ChangeRecord
	for rows.Next() {
		var c ChangeRecord
		err := rows.Scan(&c.ChangeID, &c.SessionID, &c.CycleIndex, &c.Face, &c.Field, &c.Previous, &c.Current, &c.Result)
		if err != nil {
			return nil, fmt.Errorf("failed to scan change: %w", err)
		}
		changes = append(changes, c)
	}

	return changes, rows.Err()
}

// Count returns the number of changes recorded for a session.
func (r *ChangeRepository) Count(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM changes WHERE session_id = ?", sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count changes: %w", err)
	}
	return count, nil
}
