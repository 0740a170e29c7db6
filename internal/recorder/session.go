// Package recorder persists scenario runs, cycle by cycle, to storage.
package recorder

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SeamusWaldron/facevalue/internal/scenario"
	"github.com/SeamusWaldron/facevalue/internal/storage"
)

// Errors returned by Session.
var (
	ErrNotRecording     = errors.New("recorder: no session in progress")
	ErrAlreadyRecording = errors.New("recorder: session already in progress")
)

// SessionState represents the current state of a recording session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateRecording
	StateEnded
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Session records the steps of one scenario run.
type Session struct {
	db        *storage.DB
	stateFile *StateFile

	state     SessionState
	sessionID string
	cycles    int

	sessionRepo *storage.SessionRepository
	cycleRepo   *storage.CycleRepository
	changeRepo  *storage.ChangeRepository
}

// NewSession creates a new session manager. stateFile may be nil.
func NewSession(db *storage.DB, stateFile *StateFile) *Session {
	return &Session{
		db:          db,
		stateFile:   stateFile,
		state:       StateIdle,
		sessionRepo: storage.NewSessionRepository(db),
		cycleRepo:   storage.NewCycleRepository(db),
		changeRepo:  storage.NewChangeRepository(db),
	}
}

// State returns the current session state.
func (s *Session) State() SessionState {
	return s.state
}

// SessionID returns the ID of the current or last session.
func (s *Session) SessionID() string {
	return s.sessionID
}

// Start opens a new session for sc.
func (s *Session) Start(sc *scenario.Scenario) (string, error) {
	if s.state == StateRecording {
		return "", ErrAlreadyRecording
	}

	id, err := s.sessionRepo.Create(sc.Name, FormatOffsets(sc.Offsets), string(sc.Policy))
	if err != nil {
		return "", err
	}

	s.sessionID = id
	s.cycles = 0
	s.state = StateRecording

	if s.stateFile != nil {
		if err := s.stateFile.SetLastSession(id); err != nil {
			return id, fmt.Errorf("failed to save state: %w", err)
		}
	}

	return id, nil
}

// Record stores one step and its changes. Either all of them are stored
// or none are.
func (s *Session) Record(step scenario.Step) error {
	if s.state != StateRecording {
		return ErrNotRecording
	}

	err := s.db.Transaction(func(tx *sql.Tx) error {
		if _, err := s.cycleRepo.WithTx(tx).Create(s.sessionID, step.Index, step.Inputs[:], step.Outputs[:], step.Note); err != nil {
			return err
		}

		changes := s.changeRepo.WithTx(tx)
		for _, c := range step.Changes {
			_, err := changes.Create(storage.ChangeRecord{
				SessionID:  s.sessionID,
				CycleIndex: step.Index,
				Face:       int(c.Face),
				Field:      c.Field,
				Previous:   int(c.Previous),
				Current:    int(c.Current),
				Result:     c.Result.String(),
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cycles++
	return nil
}

// End closes the session.
func (s *Session) End() error {
	if s.state != StateRecording {
		return ErrNotRecording
	}
	if err := s.sessionRepo.End(s.sessionID, s.cycles); err != nil {
		return err
	}
	s.state = StateEnded
	return nil
}

// FormatOffsets renders offsets as "0,2,4".
func FormatOffsets(offsets []int) string {
	parts := make([]string, len(offsets))
	for i, o := range offsets {
		parts[i] = strconv.Itoa(o)
	}
	return strings.Join(parts, ",")
}
