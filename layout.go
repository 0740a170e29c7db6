package facevalue

// sentinelOffset closes the last field.
const sentinelOffset = 6

// Layout defines where each field lives within a face value.
// Field i occupies bits [offsets[i], offsets[i+1]).
type Layout struct {
	offsets []uint8
}

// NewLayout builds a layout from the start offset of each field. The offsets
// MUST be strictly increasing and the highest one must be smaller than 6.
// The closing offset 6 is appended automatically.
func NewLayout(offsets ...uint8) Layout {
	o := make([]uint8, len(offsets), len(offsets)+1)
	copy(o, offsets)
	return Layout{offsets: append(o, sentinelOffset)}
}

// NumFields returns the number of fields in the layout.
func (l Layout) NumFields() int {
	return len(l.offsets) - 1
}

// Offset returns the first bit of the given field.
func (l Layout) Offset(field int) uint8 {
	return l.offsets[field]
}

// Width returns the number of bits in the given field.
func (l Layout) Width(field int) uint8 {
	return l.offsets[field+1] - l.offsets[field]
}

// Offsets returns a copy of the caller supplied offsets, without the
// closing sentinel.
func (l Layout) Offsets() []uint8 {
	o := make([]uint8, l.NumFields())
	copy(o, l.offsets)
	return o
}

// Mask returns the bits occupied by the given field, in place.
func (l Layout) Mask(field int) byte {
	return byte((1<<l.Width(field))-1) << l.offsets[field]
}

// Field extracts the given field from value, shifted down to bit 0.
func (l Layout) Field(value byte, field int) byte {
	return (value >> l.offsets[field]) & byte((1<<l.Width(field))-1)
}

// Set returns value with the given field replaced by v. v is not masked to
// the field width; wider values spill into the bits above the field.
func (l Layout) Set(value byte, field int, v byte) byte {
	return (value &^ l.Mask(field)) | (v << l.offsets[field])
}
