package facevalue

// Face identifies one of the device's communication faces.
type Face uint8

// FaceCount is the fixed number of faces on a device.
const FaceCount = 6

// AllFaces lists every face in iteration order.
var AllFaces = [FaceCount]Face{0, 1, 2, 3, 4, 5}

// Opposite returns the face on the other side of the device.
func (f Face) Opposite() Face {
	return (f + FaceCount/2) % FaceCount
}

// Port is the hardware collaborator that moves face values to and from
// neighbors.
type Port interface {
	// LastValueReceivedOnFace returns the most recent byte received on face.
	LastValueReceivedOnFace(face Face) byte

	// SetValueSentOnFace stages value for transmission on face.
	SetValueSentOnFace(value byte, face Face)
}
