package facevalue

// State is the per-face history shared by consecutive handlers: the input
// observed at the end of the previous cycle and the output staged for
// transmission. It starts zeroed and outlives every Handler that uses it.
//
// Only one Handler may use a State at a time.
type State struct {
	previous [FaceCount]byte
	output   [FaceCount]byte
}

// NewState returns a zeroed State.
func NewState() *State {
	return &State{}
}

// Previous returns the input snapshot taken for face at the end of the last
// cycle.
func (s *State) Previous(face Face) byte {
	return s.previous[face]
}

// Output returns the byte currently staged for face.
func (s *State) Output(face Face) byte {
	return s.output[face]
}

// Reset zeroes both the snapshot and the staged output.
func (s *State) Reset() {
	s.previous = [FaceCount]byte{}
	s.output = [FaceCount]byte{}
}
