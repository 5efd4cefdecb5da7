// Package app provides the morph session: loading, events and the current state.
package app

import (
	"context"
	"fmt"
	goimage "image"
	"strings"
	"sync"

	"tri-morph/internal/image"
	"tri-morph/internal/morph"
	"tri-morph/internal/overlay"
	"tri-morph/internal/points"
	"tri-morph/internal/project"

	"github.com/golang/glog"
)

// Session holds the current morph state and the files it was loaded from.
type Session struct {
	mu sync.RWMutex

	state   morph.State
	options morph.Options
	// gen counts state replacements so a morph can detect a concurrent reload.
	gen uint64

	InputPath  string
	TargetPath string

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different session events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventTriangulated
	EventMorphed
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// ImageLoaded is the payload of EventImageLoaded.
type ImageLoaded struct {
	Side   morph.Side
	Path   string
	Points int
}

// NewSession creates an empty session.
func NewSession(b points.Boundary, opts morph.Options) *Session {
	return &Session{
		state:     morph.New(b),
		options:   opts,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// State returns a snapshot of the current state.
func (s *Session) State() morph.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Options returns the morph options used by Morph.
func (s *Session) Options() morph.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.options
}

// SetOptions replaces the morph options used by Morph.
func (s *Session) SetOptions(opts morph.Options) {
	s.mu.Lock()
	s.options = opts
	s.mu.Unlock()
}

// LoadInputImage loads the input image and its sidecar point file.
func (s *Session) LoadInputImage(path string) error {
	return s.LoadInput(path, points.PathFor(path))
}

// LoadTargetImage loads the target image and its sidecar point file.
func (s *Session) LoadTargetImage(path string) error {
	return s.LoadTarget(path, points.PathFor(path))
}

// LoadInput loads the input image and the point file at pointsPath.
func (s *Session) LoadInput(imagePath, pointsPath string) error {
	return s.load(morph.SideInput, imagePath, pointsPath)
}

// LoadTarget loads the target image and the point file at pointsPath.
func (s *Session) LoadTarget(imagePath, pointsPath string) error {
	return s.load(morph.SideTarget, imagePath, pointsPath)
}

func (s *Session) load(side morph.Side, imagePath, pointsPath string) error {
	if !image.IsSupportedFormat(imagePath) {
		return fmt.Errorf("%s: unsupported image format (want %s)", imagePath, strings.Join(image.SupportedFormats(), ", "))
	}
	img, err := image.Load(imagePath)
	if err != nil {
		return err
	}
	raw, err := points.Load(pointsPath)
	if err != nil {
		return err
	}

	s.mu.Lock()
	var next morph.State
	if side == morph.SideInput {
		next, err = s.state.LoadInput(img, raw)
	} else {
		next, err = s.state.LoadTarget(img, raw)
	}
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", pointsPath, err)
	}
	s.state = next
	s.gen++
	if side == morph.SideInput {
		s.InputPath = imagePath
	} else {
		s.TargetPath = imagePath
	}
	s.mu.Unlock()

	glog.V(1).Infof("loaded %s image %s (%d points)", side, imagePath, len(raw))
	s.Emit(EventImageLoaded, ImageLoaded{Side: side, Path: imagePath, Points: len(raw)})
	return nil
}

// LoadJob loads both images named by a job file.
func (s *Session) LoadJob(job *project.File, jobPath string) error {
	if p := job.GetInputImagePath(jobPath); p != "" {
		if err := s.LoadInput(p, job.GetInputPointsPath(jobPath)); err != nil {
			return err
		}
	}
	if p := job.GetTargetImagePath(jobPath); p != "" {
		if err := s.LoadTarget(p, job.GetTargetPointsPath(jobPath)); err != nil {
			return err
		}
	}
	return nil
}

// Triangulate computes the shared triangulation and emits EventTriangulated
// with the number of triangles.
func (s *Session) Triangulate() error {
	s.mu.Lock()
	next, err := s.state.Triangulate()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = next
	s.gen++
	s.mu.Unlock()

	s.Emit(EventTriangulated, len(next.Indices()))
	return nil
}

// Morph runs a morph with the session options and emits EventMorphed with
// the resulting stats. The state is replaced only when the morph succeeds.
func (s *Session) Morph(ctx context.Context) (morph.Stats, error) {
	s.mu.RLock()
	cur, opts, gen := s.state, s.options, s.gen
	s.mu.RUnlock()

	next, stats, err := cur.Morph(ctx, opts)
	if err != nil {
		return stats, err
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return stats, fmt.Errorf("images reloaded during morph")
	}
	s.state = next
	s.gen++
	s.mu.Unlock()

	s.Emit(EventMorphed, stats)
	return stats, nil
}

// Overlays renders the triangulation on the input and target images.
func (s *Session) Overlays(opts overlay.Options) (input, target *goimage.RGBA, err error) {
	st := s.State()
	if !st.Triangulated() {
		return nil, nil, &morph.NotTriangulatedError{Phase: st.Phase()}
	}
	input = overlay.Draw(st.Input(), st.InputPoints().Points, st.InputTriangles(), opts)
	target = overlay.Draw(st.Target(), st.TargetPoints().Points, st.TargetTriangles(), opts)
	return input, target, nil
}

// SaveResult writes the current result buffer as a PNG.
func (s *Session) SaveResult(path string) error {
	st := s.State()
	if st.Result() == nil {
		return &morph.MissingInputError{Side: morph.SideInput}
	}
	return image.SavePNG(path, st.Result().RGBA())
}
