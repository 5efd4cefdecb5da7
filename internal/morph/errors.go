package morph

import "fmt"

// Side names one or both images of a morph.
type Side int

const (
	SideInput Side = iota
	SideTarget
	SideBoth
)

func (s Side) String() string {
	switch s {
	case SideInput:
		return "input"
	case SideTarget:
		return "target"
	case SideBoth:
		return "input and target"
	default:
		return "unknown"
	}
}

// MissingInputError reports a transition that needs an image that has not
// been loaded.
type MissingInputError struct {
	Side Side
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing %s image", e.Side)
}

// NotTriangulatedError reports a morph requested before triangulation.
type NotTriangulatedError struct {
	Phase Phase
}

func (e *NotTriangulatedError) Error() string {
	return fmt.Sprintf("cannot morph in phase %s: triangulate first", e.Phase)
}
