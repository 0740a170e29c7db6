package scenario

import (
	"github.com/SeamusWaldron/facevalue"
	"github.com/SeamusWaldron/facevalue/internal/sim"
)

// Change is one field change detected during a cycle.
type Change struct {
	Face     facevalue.Face
	Field    int
	Previous byte
	Current  byte
	Result   facevalue.Result
}

// Step is the outcome of one scripted cycle.
type Step struct {
	Index   int // zero based
	Note    string
	Inputs  [facevalue.FaceCount]byte
	Outputs [facevalue.FaceCount]byte
	Changes []Change
}

// Runner plays a scenario one cycle at a time on a simulated board.
type Runner struct {
	scenario *Scenario
	layout   facevalue.Layout
	policy   facevalue.ChangeHandler
	opts     []facevalue.Option

	board *sim.Board
	state *facevalue.State
	next  int
}

// NewRunner prepares a runner for s. opts are passed to every handler; the
// change handler is always the scenario's policy.
func NewRunner(s *Scenario, opts ...facevalue.Option) (*Runner, error) {
	policy, err := s.Policy.Handler()
	if err != nil {
		return nil, err
	}
	return &Runner{
		scenario: s,
		layout:   s.Layout(),
		policy:   policy,
		opts:     opts,
		board:    sim.NewBoard(),
		state:    facevalue.NewState(),
	}, nil
}

// Scenario returns the scenario being played.
func (r *Runner) Scenario() *Scenario {
	return r.scenario
}

// Position returns the number of cycles already played.
func (r *Runner) Position() int {
	return r.next
}

// Done reports whether every cycle has been played.
func (r *Runner) Done() bool {
	return r.next >= len(r.scenario.Cycles)
}

// Reset rewinds to the first cycle with fresh history and outputs.
func (r *Runner) Reset() {
	r.board = sim.NewBoard()
	r.state.Reset()
	r.next = 0
}

// Next plays the next cycle. It must not be called when Done.
func (r *Runner) Next() Step {
	step := Step{
		Index:  r.next,
		Note:   r.scenario.Cycles[r.next].Note,
		Inputs: r.scenario.Inputs(r.next),
	}
	r.board.SetAllReceived(step.Inputs)

	tap := facevalue.ChangeFunc(func(face facevalue.Face, field int, h *facevalue.Handler) facevalue.Result {
		result := facevalue.Propagate
		if r.policy != nil {
			result = r.policy.HandleChange(face, field, h)
		}
		step.Changes = append(step.Changes, Change{
			Face:     face,
			Field:    field,
			Previous: r.layout.Field(r.state.Previous(face), field),
			Current:  h.InputFieldValue(face, field),
			Result:   result,
		})
		return result
	})

	opts := append(append([]facevalue.Option(nil), r.opts...), facevalue.WithChangeHandler(tap))
	facevalue.Cycle(r.board, r.state, r.layout, nil, opts...)

	step.Outputs = r.board.Sent()
	r.next++
	return step
}

// RunAll plays every remaining cycle.
func (r *Runner) RunAll() []Step {
	var steps []Step
	for !r.Done() {
		steps = append(steps, r.Next())
	}
	return steps
}
