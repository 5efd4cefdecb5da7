// Package points builds correspondence point sets: parsing "x,y" lines,
// appending image boundary points, and mapping triangle indices to vertices.
package points

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tri-morph/pkg/geometry"
)

// Boundary selects which synthetic points are appended after the
// correspondence points so that the triangulation covers the image.
type Boundary int

const (
	// BoundaryCorners appends the four exact image corners.
	BoundaryCorners Boundary = iota
	// BoundaryInset appends eight points inset 2 px from the edges: the four
	// corners and the four edge midpoints.
	BoundaryInset
)

// boundaryInset is the distance of inset boundary points from the image edge.
const boundaryInset = 2

func (b Boundary) String() string {
	switch b {
	case BoundaryCorners:
		return "corners"
	case BoundaryInset:
		return "inset"
	default:
		return "unknown"
	}
}

// Count returns the number of points the variant appends.
func (b Boundary) Count() int {
	if b == BoundaryInset {
		return 8
	}
	return 4
}

// ParseBoundary accepts the names produced by Boundary.String.
func ParseBoundary(s string) (Boundary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "corners", "4":
		return BoundaryCorners, nil
	case "inset", "8":
		return BoundaryInset, nil
	}
	return 0, fmt.Errorf("unknown boundary variant %q", s)
}

// Points returns the boundary points for an image of the given size.
func (b Boundary) Points(width, height int) []geometry.Point {
	if b == BoundaryInset {
		l, t := boundaryInset, boundaryInset
		r, bt := width-1-boundaryInset, height-1-boundaryInset
		return []geometry.Point{
			{X: l, Y: t}, {X: width / 2, Y: t}, {X: r, Y: t},
			{X: r, Y: height / 2},
			{X: r, Y: bt}, {X: width / 2, Y: bt}, {X: l, Y: bt},
			{X: l, Y: height / 2},
		}
	}
	return []geometry.Point{
		{X: 0, Y: 0},
		{X: width - 1, Y: 0},
		{X: 0, Y: height - 1},
		{X: width - 1, Y: height - 1},
	}
}

// minSize is the smallest image edge for which the variant's points are distinct.
func (b Boundary) minSize() int {
	if b == BoundaryInset {
		return 2*boundaryInset + 3
	}
	return 2
}

// Set is an ordered correspondence point set: the points read from a
// correspondence source followed by the boundary points.
type Set struct {
	Points   []geometry.Point
	Boundary Boundary
	// Correspondences is the number of leading points that came from the source.
	Correspondences int
	Width, Height   int
}

// Len returns the number of points, boundary points included.
func (s *Set) Len() int {
	return len(s.Points)
}

// Build appends the boundary points for a width x height image to raw and
// validates that all positions are distinct.
func Build(raw []geometry.Point, width, height int, b Boundary) (*Set, error) {
	if width < b.minSize() || height < b.minSize() {
		return nil, &MalformedInputError{
			Text: "boundary",
			Err:  fmt.Errorf("image %dx%d is too small for %s boundary", width, height, b),
		}
	}

	pts := make([]geometry.Point, 0, len(raw)+b.Count())
	pts = append(pts, raw...)
	pts = append(pts, b.Points(width, height)...)

	seen := make(map[geometry.Point]int, len(pts))
	for i, p := range pts {
		if first, ok := seen[p]; ok {
			e := &MalformedInputError{Line: i + 1, Text: p.String(), Err: fmt.Errorf("duplicate of point %d", first+1)}
			if i >= len(raw) {
				e.Line = 0
				e.Text = "boundary"
				e.Err = fmt.Errorf("boundary point %v duplicates point %d", p, first+1)
			}
			return nil, e
		}
		seen[p] = i
	}

	return &Set{
		Points:          pts,
		Boundary:        b,
		Correspondences: len(raw),
		Width:           width,
		Height:          height,
	}, nil
}

// Parse reads one "x,y" pair per line. Blank lines are skipped.
func Parse(r io.Reader) ([]geometry.Point, error) {
	var pts []geometry.Point
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		p, err := parsePoint(text)
		if err != nil {
			return nil, &MalformedInputError{Line: line, Text: text, Err: err}
		}
		pts = append(pts, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read points: %w", err)
	}
	return pts, nil
}

func parsePoint(text string) (geometry.Point, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return geometry.Point{}, fmt.Errorf("want 2 comma-separated values, got %d", len(parts))
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return geometry.Point{}, fmt.Errorf("bad x: %w", err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return geometry.Point{}, fmt.Errorf("bad y: %w", err)
	}
	return geometry.Point{X: x, Y: y}, nil
}

// Load parses the point file at path.
func Load(path string) ([]geometry.Point, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open points: %w", err)
	}
	defer file.Close()

	pts, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pts, nil
}

// PathFor returns the sidecar point file for an image: "face.png" -> "face.txt".
func PathFor(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".txt"
}

// CheckCounts verifies that two sets can share one triangulation.
func CheckCounts(input, target *Set) error {
	if input.Len() != target.Len() {
		return &PointCountMismatchError{Input: input.Len(), Target: target.Len()}
	}
	return nil
}

// Triangle materializes one index triple against the set.
func (s *Set) Triangle(ti geometry.TriangleIndex) (geometry.Triangle, error) {
	if !ti.Valid(s.Len()) {
		return geometry.Triangle{}, fmt.Errorf("triangle index %v out of range for %d points", ti, s.Len())
	}
	return geometry.Triangle{s.Points[ti[0]], s.Points[ti[1]], s.Points[ti[2]]}, nil
}

// Triangles materializes every index triple against the set. Indices computed
// on one set can be mapped onto any other set with the same ordering.
func (s *Set) Triangles(indices []geometry.TriangleIndex) ([]geometry.Triangle, error) {
	out := make([]geometry.Triangle, len(indices))
	for i, ti := range indices {
		tri, err := s.Triangle(ti)
		if err != nil {
			return nil, err
		}
		out[i] = tri
	}
	return out, nil
}
