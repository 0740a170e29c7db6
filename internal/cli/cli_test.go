package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/facevalue"
	"github.com/SeamusWaldron/facevalue/internal/recorder"
	"github.com/SeamusWaldron/facevalue/internal/scenario"
	"github.com/SeamusWaldron/facevalue/internal/storage"
)

func testCommand() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	return cmd, &buf
}

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const cliScenario = `
name = "cli"
offsets = [0, 2, 4]

[[cycle]]
inputs = [0x25, 0, 0, 0, 0, 0]
note = "wake"
`

func TestDecode(t *testing.T) {
	decodeOffsets = "0,2,4"
	cmd, buf := testCommand()

	if err := runDecode(cmd, []string{"0b100101"}); err != nil {
		t.Fatalf("runDecode failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"0x25", "field 0  bits [0,2)  = 1", "field 1  bits [2,4)  = 1", "field 2  bits [4,6)  = 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	cmd, _ := testCommand()

	decodeOffsets = "0,2"
	if err := runDecode(cmd, []string{"300"}); err == nil {
		t.Error("expected error for value over a byte")
	}

	decodeOffsets = "4,2"
	if err := runDecode(cmd, []string{"1"}); err == nil {
		t.Error("expected error for decreasing offsets")
	}
}

func TestSimulate(t *testing.T) {
	simulateRecord = false
	cmd, buf := testCommand()

	if err := runSimulate(cmd, []string{writeScenario(t, cliScenario)}); err != nil {
		t.Fatalf("runSimulate failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Cycle 1 - wake", "face 0 field 2: 0 -> 2 (propagate)", "1 cycles, 3 changes"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMesh(t *testing.T) {
	meshDevices = 3
	meshCycles = 0
	meshOffsets = "0,3"
	meshField = 1
	meshValue = 4
	cmd, buf := testCommand()

	if err := runMesh(cmd, nil); err != nil {
		t.Fatalf("runMesh failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	if !strings.Contains(last, "cycle  3") || !strings.HasSuffix(last, "4 4 4") {
		t.Errorf("last line = %q, want every device sending 4", last)
	}
}

func TestMeshRejectsWideValue(t *testing.T) {
	meshDevices = 2
	meshOffsets = "0,3"
	meshField = 0
	meshValue = 8
	cmd, _ := testCommand()

	if err := runMesh(cmd, nil); err == nil {
		t.Error("expected error for value wider than field")
	}
}

func TestWatchModelSteps(t *testing.T) {
	sc, err := scenario.Parse([]byte(cliScenario))
	if err != nil {
		t.Fatal(err)
	}
	runner, err := scenario.NewRunner(sc)
	if err != nil {
		t.Fatal(err)
	}
	m := newWatchModel(runner, 0)

	if !strings.Contains(m.View(), "No cycle played yet") {
		t.Errorf("initial view = %q", m.View())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if m.changes != 3 || !runner.Done() {
		t.Errorf("changes = %d, done = %v", m.changes, runner.Done())
	}
	if !strings.Contains(m.View(), "[DONE]") {
		t.Errorf("view after last cycle = %q", m.View())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if runner.Position() != 0 || m.last != nil {
		t.Error("reset did not rewind")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil || !m.quitting {
		t.Error("q should quit")
	}
}

func TestHistoryShowsRecordedSession(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dbPath = filepath.Join(t.TempDir(), "history.db")
	simulateRecord = true
	historyLimit = 20
	defer func() {
		dbPath = ""
		simulateRecord = false
	}()

	cmd, _ := testCommand()
	if err := runSimulate(cmd, []string{writeScenario(t, cliScenario)}); err != nil {
		t.Fatalf("runSimulate failed: %v", err)
	}

	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		t.Fatal(err)
	}
	if stateFile.DBPath() != dbPath {
		t.Errorf("saved db path = %q, want %q", stateFile.DBPath(), dbPath)
	}
	id := stateFile.LastSessionID()
	if id == "" {
		t.Fatal("no last session saved")
	}

	// Later commands find the database through the state file.
	dbPath = ""

	cmd, buf := testCommand()
	if err := runHistory(cmd, nil); err != nil {
		t.Fatalf("runHistory list failed: %v", err)
	}
	if out := buf.String(); !strings.Contains(out, id) || !strings.Contains(out, "cycles 1") {
		t.Errorf("session list missing %s:\n%s", id, out)
	}

	cmd, buf = testCommand()
	if err := runHistory(cmd, []string{"last"}); err != nil {
		t.Fatalf("runHistory last failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"cli (" + id + ")", "Cycle 1 - wake", "face 0 field 2: 0 -> 2 (propagate)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	cmd, _ = testCommand()
	if err := runHistory(cmd, []string{"no-such-session"}); err == nil {
		t.Error("expected error for unknown session")
	}
}

func TestHistoryEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dbPath = filepath.Join(t.TempDir(), "empty.db")
	defer func() { dbPath = "" }()

	cmd, buf := testCommand()
	if err := runHistory(cmd, nil); err != nil {
		t.Fatalf("runHistory failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions recorded") {
		t.Errorf("output = %q", buf.String())
	}

	if err := runHistory(cmd, []string{"last"}); err == nil {
		t.Error("expected error when nothing was recorded")
	}
}

func TestToChange(t *testing.T) {
	tests := []struct {
		result string
		want   facevalue.Result
	}{
		{"propagate", facevalue.Propagate},
		{"handled", facevalue.Handled},
	}

	for _, tt := range tests {
		c := toChange(storage.ChangeRecord{Face: 4, Field: 1, Previous: 2, Current: 3, Result: tt.result})
		if c.Face != 4 || c.Field != 1 || c.Previous != 2 || c.Current != 3 {
			t.Errorf("toChange(%q) = %+v", tt.result, c)
		}
		if c.Result != tt.want {
			t.Errorf("toChange(%q).Result = %v, want %v", tt.result, c.Result, tt.want)
		}
	}
}

const twoCycleScenario = `
name = "play"
offsets = [0, 3]

[[cycle]]
inputs = [1, 0, 0, 0, 0, 0]

[[cycle]]
inputs = [2, 0, 0, 0, 0, 0]
`

func newTestWatchModel(t *testing.T, body string) (*watchModel, *scenario.Runner) {
	t.Helper()
	sc, err := scenario.Parse([]byte(body))
	if err != nil {
		t.Fatal(err)
	}
	runner, err := scenario.NewRunner(sc)
	if err != nil {
		t.Fatal(err)
	}
	return newWatchModel(runner, time.Millisecond), runner
}

func TestWatchModelPlays(t *testing.T) {
	m, runner := newTestWatchModel(t, twoCycleScenario)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if !m.playing || cmd == nil {
		t.Fatalf("playing = %v, cmd nil = %v", m.playing, cmd == nil)
	}

	_, cmd = m.Update(watchTickMsg(time.Now()))
	if runner.Position() != 1 || cmd == nil {
		t.Errorf("after first tick: position = %d, cmd nil = %v", runner.Position(), cmd == nil)
	}

	_, cmd = m.Update(watchTickMsg(time.Now()))
	if runner.Position() != 2 || cmd != nil {
		t.Errorf("after last tick: position = %d, cmd nil = %v", runner.Position(), cmd == nil)
	}
	if m.playing {
		t.Error("playback should stop at the last cycle")
	}
	if strings.Contains(m.View(), "PLAYING") {
		t.Errorf("view after last cycle = %q", m.View())
	}
}

func TestWatchModelPauseIgnoresTick(t *testing.T) {
	m, runner := newTestWatchModel(t, twoCycleScenario)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if m.playing {
		t.Fatal("second p should pause")
	}

	_, cmd := m.Update(watchTickMsg(time.Now()))
	if runner.Position() != 0 || cmd != nil {
		t.Errorf("paused tick advanced to %d", runner.Position())
	}
}

func TestWatchModelPlayWhenDone(t *testing.T) {
	m, runner := newTestWatchModel(t, cliScenario)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if !runner.Done() {
		t.Fatal("scenario should be done")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if m.playing || cmd != nil {
		t.Errorf("p on a finished scenario: playing = %v, cmd nil = %v", m.playing, cmd == nil)
	}
	if strings.Contains(m.View(), "PLAYING") {
		t.Errorf("view = %q", m.View())
	}
}
