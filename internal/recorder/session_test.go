package recorder

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/SeamusWaldron/facevalue/internal/scenario"
	"github.com/SeamusWaldron/facevalue/internal/storage"
)

const twoCycles = `
name = "recorded"
offsets = [0, 3]

[[cycle]]
inputs = [0x09, 0, 0, 0, 0, 0]

[[cycle]]
inputs = [0x09, 0, 0, 0, 0, 0]
note = "stable"
`

func TestSessionRecordsScenario(t *testing.T) {
	dir := t.TempDir()
	db, err := storage.Open(filepath.Join(dir, "rec.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := db.MigrateUp(); err != nil {
		t.Fatal(err)
	}

	stateFile, err := NewStateFile(filepath.Join(dir, "state.json"))
	if err != nil {
		t.Fatal(err)
	}

	sc, err := scenario.Parse([]byte(twoCycles))
	if err != nil {
		t.Fatal(err)
	}
	runner, err := scenario.NewRunner(sc)
	if err != nil {
		t.Fatal(err)
	}

	session := NewSession(db, stateFile)
	id, err := session.Start(sc)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := session.Start(sc); !errors.Is(err, ErrAlreadyRecording) {
		t.Errorf("second Start err = %v, want ErrAlreadyRecording", err)
	}

	for _, step := range runner.RunAll() {
		if err := session.Record(step); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	if err := session.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if session.State() != StateEnded {
		t.Errorf("State = %v, want ended", session.State())
	}

	s, err := storage.NewSessionRepository(db).Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if s.Offsets != "0,3" || s.Policy != "flood" || s.CycleCount == nil || *s.CycleCount != 2 {
		t.Errorf("session = %+v", s)
	}

	cycles, _ := storage.NewCycleRepository(db).GetBySession(id)
	if len(cycles) != 2 || cycles[1].Note != "stable" || cycles[0].Outputs[5] != 0x09 {
		t.Errorf("cycles = %+v", cycles)
	}

	n, _ := storage.NewChangeRepository(db).Count(id)
	if n != 2 {
		t.Errorf("changes = %d, want 2", n)
	}

	reloaded, err := NewStateFile(filepath.Join(dir, "state.json"))
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.LastSessionID() != id {
		t.Errorf("LastSessionID = %q, want %q", reloaded.LastSessionID(), id)
	}
}

func TestRecordWithoutStart(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "rec.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	session := NewSession(db, nil)
	if err := session.Record(scenario.Step{}); !errors.Is(err, ErrNotRecording) {
		t.Errorf("Record err = %v, want ErrNotRecording", err)
	}
	if err := session.End(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("End err = %v, want ErrNotRecording", err)
	}
}

func TestFormatOffsets(t *testing.T) {
	if got := FormatOffsets([]int{0, 2, 4}); got != "0,2,4" {
		t.Errorf("FormatOffsets = %q", got)
	}
}

func TestRecordIsAtomic(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "rec.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := db.MigrateUp(); err != nil {
		t.Fatal(err)
	}

	sc, err := scenario.Parse([]byte(twoCycles))
	if err != nil {
		t.Fatal(err)
	}
	runner, err := scenario.NewRunner(sc)
	if err != nil {
		t.Fatal(err)
	}
	step := runner.Next()

	session := NewSession(db, nil)
	id, err := session.Start(sc)
	if err != nil {
		t.Fatal(err)
	}

	_, err = db.Exec(`
		CREATE TRIGGER fail_changes BEFORE INSERT ON changes
		BEGIN SELECT RAISE(ABORT, 'boom'); END
	`)
	if err != nil {
		t.Fatal(err)
	}

	if err := session.Record(step); err == nil {
		t.Fatal("Record should fail when a change cannot be stored")
	}
	cycles, err := storage.NewCycleRepository(db).GetBySession(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(cycles) != 0 {
		t.Errorf("cycles after failed Record = %d, want 0", len(cycles))
	}

	if _, err := db.Exec("DROP TRIGGER fail_changes"); err != nil {
		t.Fatal(err)
	}
	if err := session.Record(step); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	cycles, _ = storage.NewCycleRepository(db).GetBySession(id)
	n, _ := storage.NewChangeRepository(db).Count(id)
	if len(cycles) != 1 || n != 2 {
		t.Errorf("after retry: cycles = %d, changes = %d; want 1, 2", len(cycles), n)
	}
}
