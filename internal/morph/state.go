// Package morph drives a triangulation morph between two images.
//
// State is an immutable value. Each transition returns a new State and leaves
// the receiver untouched, so callers can hold on to earlier states and no
// reader ever observes a partially composited result.
package morph

import (
	"fmt"

	"tri-morph/internal/delaunay"
	"tri-morph/internal/image"
	"tri-morph/internal/points"
	"tri-morph/pkg/geometry"

	"github.com/golang/glog"
)

// Phase is the position of a State in the morph lifecycle.
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseInputLoaded
	PhaseTargetLoaded
	PhaseBothLoaded
	PhaseTriangulated
	PhaseMorphed
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseInputLoaded:
		return "input loaded"
	case PhaseTargetLoaded:
		return "target loaded"
	case PhaseBothLoaded:
		return "both loaded"
	case PhaseTriangulated:
		return "triangulated"
	case PhaseMorphed:
		return "morphed"
	default:
		return "unknown"
	}
}

// State holds both images, their point sets, the shared triangulation and
// the result buffer. The zero value is an empty state using corner boundary
// points. Images and slices reachable from a State must not be modified.
type State struct {
	boundary points.Boundary

	input, target       *image.Image
	inputPts, targetPts *points.Set

	triangulated bool
	indices      []geometry.TriangleIndex
	inputTris    []geometry.Triangle
	targetTris   []geometry.Triangle

	result  *image.Image
	morphed bool
}

// New returns an empty state that appends b's boundary points on load.
func New(b points.Boundary) State {
	return State{boundary: b}
}

// Phase derives the lifecycle phase from what the state holds.
func (s State) Phase() Phase {
	switch {
	case s.morphed:
		return PhaseMorphed
	case s.triangulated:
		return PhaseTriangulated
	case s.input != nil && s.target != nil:
		return PhaseBothLoaded
	case s.input != nil:
		return PhaseInputLoaded
	case s.target != nil:
		return PhaseTargetLoaded
	default:
		return PhaseEmpty
	}
}

func (s State) Boundary() points.Boundary { return s.boundary }

func (s State) Input() *image.Image  { return s.input }
func (s State) Target() *image.Image { return s.target }

// Result is the current result buffer: a copy of the input until the first
// morph, then the latest morph output.
func (s State) Result() *image.Image { return s.result }

func (s State) InputPoints() *points.Set  { return s.inputPts }
func (s State) TargetPoints() *points.Set { return s.targetPts }

// Indices is the shared triangulation, valid against both point sets.
func (s State) Indices() []geometry.TriangleIndex { return s.indices }

func (s State) InputTriangles() []geometry.Triangle  { return s.inputTris }
func (s State) TargetTriangles() []geometry.Triangle { return s.targetTris }

// Triangulated reports whether the shared triangulation is available.
func (s State) Triangulated() bool { return s.triangulated }

// Morphed reports whether Result holds a completed morph.
func (s State) Morphed() bool { return s.morphed }

// clearDerived drops everything computed from the current images.
func (s *State) clearDerived() {
	s.triangulated = false
	s.indices = nil
	s.inputTris = nil
	s.targetTris = nil
	s.morphed = false
	s.result = nil
	if s.input != nil {
		s.result = s.input.Clone()
	}
}

// LoadInput replaces the input image and its correspondence points. The
// target is kept; the triangulation is cleared and the result reset to a
// copy of the new input.
func (s State) LoadInput(img *image.Image, raw []geometry.Point) (State, error) {
	if img == nil {
		return s, &MissingInputError{Side: SideInput}
	}
	set, err := points.Build(raw, img.Width, img.Height, s.boundary)
	if err != nil {
		return s, fmt.Errorf("input points: %w", err)
	}
	next := s
	next.input, next.inputPts = img, set
	next.clearDerived()
	glog.V(1).Infof("loaded input %dx%d with %d points", img.Width, img.Height, set.Len())
	return next, nil
}

// LoadTarget replaces the target image and its correspondence points. The
// input is kept; the triangulation is cleared and the result reset to a copy
// of the input, if one is loaded.
func (s State) LoadTarget(img *image.Image, raw []geometry.Point) (State, error) {
	if img == nil {
		return s, &MissingInputError{Side: SideTarget}
	}
	set, err := points.Build(raw, img.Width, img.Height, s.boundary)
	if err != nil {
		return s, fmt.Errorf("target points: %w", err)
	}
	next := s
	next.target, next.targetPts = img, set
	next.clearDerived()
	glog.V(1).Infof("loaded target %dx%d with %d points", img.Width, img.Height, set.Len())
	return next, nil
}

func (s State) missing() error {
	switch {
	case s.input == nil && s.target == nil:
		return &MissingInputError{Side: SideBoth}
	case s.input == nil:
		return &MissingInputError{Side: SideInput}
	case s.target == nil:
		return &MissingInputError{Side: SideTarget}
	}
	return nil
}

// Triangulate computes the Delaunay triangulation of the input points within
// the input image and materialises it against both point sets.
func (s State) Triangulate() (State, error) {
	if err := s.missing(); err != nil {
		return s, err
	}
	if err := points.CheckCounts(s.inputPts, s.targetPts); err != nil {
		return s, err
	}

	indices, err := delaunay.Triangulate(s.inputPts.Points, s.input.PointBounds())
	if err != nil {
		return s, fmt.Errorf("failed to triangulate input points: %w", err)
	}
	inputTris, err := s.inputPts.Triangles(indices)
	if err != nil {
		return s, err
	}
	targetTris, err := s.targetPts.Triangles(indices)
	if err != nil {
		return s, err
	}

	next := s
	next.triangulated = true
	next.indices = indices
	next.inputTris = inputTris
	next.targetTris = targetTris
	next.morphed = false
	glog.V(1).Infof("triangulated %d points into %d triangles", s.inputPts.Len(), len(indices))
	return next, nil
}
