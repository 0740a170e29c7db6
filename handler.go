package facevalue

import "github.com/rs/zerolog"

// Result is what a ChangeHandler did with a change.
type Result uint8

const (
	// Propagate asks for the default behavior: flood the new field value to
	// every face.
	Propagate Result = iota

	// Handled means the callback already updated whatever outputs it wanted.
	Handled
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case Handled:
		return "handled"
	default:
		return "propagate"
	}
}

// ChangeHandler responds to a field change detected on a face. face is where
// the change arrived and field is the index of the field that changed. h can
// read the new value and update outputs.
type ChangeHandler interface {
	HandleChange(face Face, field int, h *Handler) Result
}

// ChangeFunc adapts a function to ChangeHandler.
type ChangeFunc func(face Face, field int, h *Handler) Result

// HandleChange calls f(face, field, h).
func (f ChangeFunc) HandleChange(face Face, field int, h *Handler) Result {
	return f(face, field, h)
}

// Handler detects field changes for one cycle and gives access to the
// fields being sent and received during that cycle.
//
// Create one with Begin (or use Cycle) at the start of every cycle and call
// End when the cycle is over:
//
//	h := facevalue.Begin(port, state, layout)
//	defer h.End()
type Handler struct {
	port   Port
	state  *State
	layout Layout

	onChange ChangeHandler
	logger   zerolog.Logger
	ended    bool
}

// Begin starts a cycle. Every field of every face is compared against the
// snapshot in state, and each change is dispatched before Begin returns.
func Begin(port Port, state *State, layout Layout, opts ...Option) *Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	h := &Handler{
		port:     port,
		state:    state,
		layout:   layout,
		onChange: cfg.onChange,
		logger:   cfg.logger,
	}
	h.detect()
	return h
}

// Cycle runs one complete cycle: Begin, then body, then End. End runs even if
// body panics.
func Cycle(port Port, state *State, layout Layout, body func(*Handler), opts ...Option) {
	h := Begin(port, state, layout, opts...)
	defer h.End()
	if body != nil {
		body(h)
	}
}

func (h *Handler) detect() {
	numFields := h.layout.NumFields()

	for _, face := range AllFaces {
		current := h.port.LastValueReceivedOnFace(face)
		previous := h.state.previous[face]

		for field := 0; field < numFields; field++ {
			prev := h.layout.Field(previous, field)
			cur := h.layout.Field(current, field)
			if prev == cur {
				continue
			}
			h.dispatch(face, field, prev, cur)
		}
	}
}

func (h *Handler) dispatch(face Face, field int, prev, cur byte) {
	result := Propagate
	if h.onChange != nil {
		result = h.onChange.HandleChange(face, field, h)
	}

	h.logger.Debug().
		Uint8("face", uint8(face)).
		Int("field", field).
		Uint8("previous", prev).
		Uint8("current", cur).
		Stringer("result", result).
		Msg("field changed")

	if result != Handled {
		h.SetOutputFieldValueOnAllFaces(field, cur)
	}
}

// End finishes the cycle: the staged output of every face is sent through
// the port, and the value the port now reports as received becomes the
// snapshot for the next cycle. Calls after the first do nothing.
func (h *Handler) End() {
	if h.ended {
		return
	}
	h.ended = true

	for _, face := range AllFaces {
		h.port.SetValueSentOnFace(h.state.output[face], face)
		h.state.previous[face] = h.port.LastValueReceivedOnFace(face)
	}
}

// Layout returns the field layout of this handler.
func (h *Handler) Layout() Layout {
	return h.layout
}

// PropagateData copies the input value of field on face to the output of
// every face.
func (h *Handler) PropagateData(face Face, field int) {
	h.SetOutputFieldValueOnAllFaces(field, h.InputFieldValue(face, field))
}

// InputFieldValue returns the value of field in the byte last received on
// face.
func (h *Handler) InputFieldValue(face Face, field int) byte {
	return h.layout.Field(h.port.LastValueReceivedOnFace(face), field)
}

// SetOutputFieldValue stages value for field on face.
func (h *Handler) SetOutputFieldValue(face Face, field int, value byte) {
	h.state.output[face] = h.layout.Set(h.state.output[face], field, value)
}

// SetOutputFieldValueOnAllFaces stages value for field on every face.
func (h *Handler) SetOutputFieldValueOnAllFaces(field int, value byte) {
	for _, face := range AllFaces {
		h.SetOutputFieldValue(face, field, value)
	}
}

// OutputFieldValue returns the value of field staged for face, not yet sent.
func (h *Handler) OutputFieldValue(face Face, field int) byte {
	return h.layout.Field(h.state.output[face], field)
}
