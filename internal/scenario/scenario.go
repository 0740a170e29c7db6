// Package scenario loads scripted face input sequences from TOML files and
// runs them through face value handlers.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/SeamusWaldron/facevalue"
)

// Errors returned by Validate and Load.
var (
	ErrNoOffsets       = errors.New("scenario: no field offsets")
	ErrOffsetOrder     = errors.New("scenario: offsets must be strictly increasing")
	ErrOffsetRange     = errors.New("scenario: offsets must be smaller than 6")
	ErrUnknownPolicy   = errors.New("scenario: unknown policy")
	ErrInputCount      = errors.New("scenario: cycle must list 6 face inputs")
	ErrNoCycles        = errors.New("scenario: no cycles")
	ErrInputOutOfRange = errors.New("scenario: face input must fit in a byte")
)

// Policy names a built-in change handling strategy.
type Policy string

const (
	PolicyFlood  Policy = "flood"  // every change floods to all faces
	PolicyAbsorb Policy = "absorb" // every change is handled and dropped
	PolicyMirror Policy = "mirror" // every change is echoed back on its own face only
)

// Cycle is the input presented on every face for one cycle.
type Cycle struct {
	Inputs []int  `toml:"inputs"`
	Note   string `toml:"note"`
}

// Scenario is a layout, a policy and a scripted sequence of face inputs.
type Scenario struct {
	Name    string  `toml:"name"`
	Offsets []int   `toml:"offsets"`
	Policy  Policy  `toml:"policy"`
	Cycles  []Cycle `toml:"cycle"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scenario from TOML.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if _, err := toml.Decode(string(data), &s); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if s.Name == "" {
		s.Name = "scenario"
	}
	if s.Policy == "" {
		s.Policy = PolicyFlood
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the layout and every cycle.
func (s *Scenario) Validate() error {
	if err := ValidateOffsets(s.Offsets); err != nil {
		return err
	}
	if _, err := s.Policy.Handler(); err != nil {
		return err
	}
	if len(s.Cycles) == 0 {
		return ErrNoCycles
	}
	for i, c := range s.Cycles {
		if len(c.Inputs) != facevalue.FaceCount {
			return fmt.Errorf("cycle %d: %w (got %d)", i+1, ErrInputCount, len(c.Inputs))
		}
		for face, v := range c.Inputs {
			if v < 0 || v > 0xFF {
				return fmt.Errorf("cycle %d face %d: %w (got %d)", i+1, face, ErrInputOutOfRange, v)
			}
		}
	}
	return nil
}

// ValidateOffsets checks what facevalue.NewLayout leaves to its caller.
func ValidateOffsets(offsets []int) error {
	if len(offsets) == 0 {
		return ErrNoOffsets
	}
	for i, o := range offsets {
		if o < 0 || o >= 6 {
			return fmt.Errorf("%w (got %d)", ErrOffsetRange, o)
		}
		if i > 0 && o <= offsets[i-1] {
			return fmt.Errorf("%w (%d after %d)", ErrOffsetOrder, o, offsets[i-1])
		}
	}
	return nil
}

// ParseOffsets parses a comma separated offset list such as "0,2,4".
func ParseOffsets(s string) ([]int, error) {
	var offsets []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		o, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid offset %q: %w", part, err)
		}
		offsets = append(offsets, o)
	}
	if err := ValidateOffsets(offsets); err != nil {
		return nil, err
	}
	return offsets, nil
}

// Layout builds the facevalue layout for the scenario.
func (s *Scenario) Layout() facevalue.Layout {
	return LayoutOf(s.Offsets)
}

// LayoutOf converts validated offsets into a facevalue layout.
func LayoutOf(offsets []int) facevalue.Layout {
	o := make([]uint8, len(offsets))
	for i, v := range offsets {
		o[i] = uint8(v)
	}
	return facevalue.NewLayout(o...)
}

// Inputs returns the face inputs of cycle i as bytes.
func (s *Scenario) Inputs(i int) [facevalue.FaceCount]byte {
	var in [facevalue.FaceCount]byte
	for face, v := range s.Cycles[i].Inputs {
		in[face] = byte(v)
	}
	return in
}

// Handler returns the change handler implementing the policy. Flood returns
// a nil handler so the default behavior applies.
func (p Policy) Handler() (facevalue.ChangeHandler, error) {
	switch p {
	case PolicyFlood:
		return nil, nil
	case PolicyAbsorb:
		return facevalue.ChangeFunc(absorb), nil
	case PolicyMirror:
		return facevalue.ChangeFunc(mirror), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, string(p))
	}
}

func absorb(facevalue.Face, int, *facevalue.Handler) facevalue.Result {
	return facevalue.Handled
}

func mirror(face facevalue.Face, field int, h *facevalue.Handler) facevalue.Result {
	h.SetOutputFieldValue(face, field, h.InputFieldValue(face, field))
	return facevalue.Handled
}
