package sim

import (
	"fmt"

	"github.com/SeamusWaldron/facevalue"
)

// Endpoint is one face of one device in a mesh.
type Endpoint struct {
	Device int
	Face   facevalue.Face
}

// String returns "device:face".
func (e Endpoint) String() string {
	return fmt.Sprintf("%d:%d", e.Device, e.Face)
}

// Device is a simulated device: its face hardware and its cycle history.
type Device struct {
	Board *Board
	State *facevalue.State
}

// Mesh is a set of devices whose faces are wired together. Faces that are
// not linked receive whatever was last set on their board.
type Mesh struct {
	devices []Device
	links   map[Endpoint]Endpoint
	cycle   int
}

// NewMesh creates n unconnected devices.
func NewMesh(n int) *Mesh {
	m := &Mesh{
		devices: make([]Device, n),
		links:   make(map[Endpoint]Endpoint),
	}
	for i := range m.devices {
		m.devices[i] = Device{Board: NewBoard(), State: facevalue.NewState()}
	}
	return m
}

// Line creates n devices in a row, with face 0 of device i linked to face 3
// of device i+1.
func Line(n int) *Mesh {
	m := NewMesh(n)
	for i := 0; i+1 < n; i++ {
		m.Link(Endpoint{Device: i, Face: 0}, Endpoint{Device: i + 1, Face: 3})
	}
	return m
}

// Link connects two faces in both directions, replacing any earlier link on
// either face.
func (m *Mesh) Link(a, b Endpoint) {
	if old, ok := m.links[a]; ok {
		delete(m.links, old)
	}
	if old, ok := m.links[b]; ok {
		delete(m.links, old)
	}
	m.links[a] = b
	m.links[b] = a
}

// Neighbor returns the face linked to e, if any.
func (m *Mesh) Neighbor(e Endpoint) (Endpoint, bool) {
	n, ok := m.links[e]
	return n, ok
}

// Len returns the number of devices.
func (m *Mesh) Len() int {
	return len(m.devices)
}

// Device returns device i.
func (m *Mesh) Device(i int) Device {
	return m.devices[i]
}

// Cycles returns how many times Step has run.
func (m *Mesh) Cycles() int {
	return m.cycle
}

// HandlerFunc runs the body of one device's cycle. It may be nil.
type HandlerFunc func(device int, h *facevalue.Handler)

// Step runs one cycle on every device, in device order, and then delivers
// every sent value across its link. Values therefore move one hop per Step.
func (m *Mesh) Step(layout facevalue.Layout, body HandlerFunc, opts ...facevalue.Option) {
	for i, d := range m.devices {
		var fn func(*facevalue.Handler)
		if body != nil {
			fn = func(h *facevalue.Handler) { body(i, h) }
		}
		facevalue.Cycle(d.Board, d.State, layout, fn, opts...)
	}

	for from, to := range m.links {
		sent := m.devices[from.Device].Board.Sent()
		m.devices[to.Device].Board.SetReceived(to.Face, sent[from.Face])
	}
	m.cycle++
}
