// Package facevalue multiplexes small bit fields over the single byte each
// face of a six-faced device exchanges with its neighbor per cycle.
//
// # Features
//
//   - Configurable field layout within the face value byte
//   - Per-cycle change detection on every face and field
//   - Callback dispatch with a flood-to-all-faces default
//   - Explicit cycle lifecycle with guaranteed output flush
//
// # Quick Start
//
// Define the layout once and run one handler per cycle:
//
//	layout := facevalue.NewLayout(0, 2, 4) // fields [0,2) [2,4) [4,6)
//	state := facevalue.NewState()
//
//	for {
//	    facevalue.Cycle(port, state, layout, func(h *facevalue.Handler) {
//	        if h.InputFieldValue(0, 2) == 3 {
//	            h.SetOutputFieldValue(0, 1, 0)
//	        }
//	    }, facevalue.WithChangeFunc(onChange))
//	}
//
// # Change Callbacks
//
// A change callback decides the fate of every detected field change:
//
//	func onChange(face facevalue.Face, field int, h *facevalue.Handler) facevalue.Result {
//	    if field == 0 {
//	        h.SetOutputFieldValue(face.Opposite(), field, h.InputFieldValue(face, field))
//	        return facevalue.Handled
//	    }
//	    return facevalue.Propagate
//	}
//
// Returning Propagate (or configuring no callback at all) floods the new
// value to the output of every face, including the one it arrived on.
//
// # Caller Obligations
//
// Nothing in this package validates its inputs. Offsets must be strictly
// increasing and below 6, field indexes must be in range, and values must
// fit their field. Violations silently corrupt output bits.
package facevalue
