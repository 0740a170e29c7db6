// Package sim provides in-memory face hardware for running face value
// handlers without a device.
package sim

import "github.com/SeamusWaldron/facevalue"

// Board is an in-memory facevalue.Port. Values received on each face are set
// by the caller (or a Mesh); values sent are kept for inspection.
type Board struct {
	received [facevalue.FaceCount]byte
	sent     [facevalue.FaceCount]byte
}

// NewBoard returns a board with nothing received and nothing sent.
func NewBoard() *Board {
	return &Board{}
}

// LastValueReceivedOnFace implements facevalue.Port.
func (b *Board) LastValueReceivedOnFace(face facevalue.Face) byte {
	return b.received[face]
}

// SetValueSentOnFace implements facevalue.Port.
func (b *Board) SetValueSentOnFace(value byte, face facevalue.Face) {
	b.sent[face] = value
}

// SetReceived sets the value the board reports as received on face.
func (b *Board) SetReceived(face facevalue.Face, value byte) {
	b.received[face] = value
}

// SetAllReceived replaces the received value of every face.
func (b *Board) SetAllReceived(values [facevalue.FaceCount]byte) {
	b.received = values
}

// Received returns the values currently reported as received.
func (b *Board) Received() [facevalue.FaceCount]byte {
	return b.received
}

// Sent returns the last value sent on every face.
func (b *Board) Sent() [facevalue.FaceCount]byte {
	return b.sent
}
