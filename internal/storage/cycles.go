package storage

import (
	"database/sql"
	"fmt"
)

// CycleRecord is the face traffic of one recorded cycle.
type CycleRecord struct {
	CycleID    int64
	SessionID  string
	CycleIndex int
	Inputs     []byte
	Outputs    []byte
	Note       string
}

// CycleRepository provides CRUD operations for cycles.
type CycleRepository struct {
	db querier
}

// NewCycleRepository creates a new cycle repository.
func NewCycleRepository(db *DB) *CycleRepository {
	return &CycleRepository{db: db}
}

// WithTx returns a repository that runs its statements in tx.
func (r *CycleRepository) WithTx(tx *sql.Tx) *CycleRepository {
	return &CycleRepository{db: tx}
}

// Create stores a cycle and returns its ID.
func (r *CycleRepository) Create(sessionID string, cycleIndex int, inputs, outputs []byte, note string) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO cycles (session_id, cycle_index, inputs, outputs, note)
		VALUES (?, ?, ?, ?, ?)
	`, sessionID, cycleIndex, inputs, outputs, note)

	if err != nil {
		return 0, fmt.Errorf("failed to create cycle: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get cycle ID: %w", err)
	}

	return id, nil
}

// GetBySession retrieves all cycles of a session in order.
func (r *CycleRepository) GetBySession(sessionID string) ([]CycleRecord, error) {
	rows, err := r.db.Query(`
		SELECT cycle_id, session_id, cycle_index, inputs, outputs, COALESCE(note, '')
		FROM cycles
		WHERE session_id = ?
		ORDER BY cycle_index
	`, sessionID)

	if err != nil {
		return nil, fmt.Errorf("failed to get cycles: %w", err)
	}
	defer rows.Close()

	var cycles []CycleRecord
	for rows.Next() {
		var c CycleRecord
		err := rows.Scan(&c.CycleID, &c.SessionID, &c.CycleIndex, &c.Inputs, &c.Outputs, &c.Note)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cycle: %w", err)
		}
		cycles = append(cycles, c)
	}

	return cycles, rows.Err()
}
