package points

import "fmt"

// MalformedInputError reports a correspondence line that could not be used.
// Line is 1-based; 0 means the problem is not tied to a source line.
type MalformedInputError struct {
	Line int
	Text string
	Err  error
}

func (e *MalformedInputError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("malformed input (%s): %v", e.Text, e.Err)
	}
	return fmt.Sprintf("malformed input at line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// PointCountMismatchError reports input and target sets of different sizes.
type PointCountMismatchError struct {
	Input, Target int
}

func (e *PointCountMismatchError) Error() string {
	return fmt.Sprintf("point count mismatch: input has %d points, target has %d", e.Input, e.Target)
}
