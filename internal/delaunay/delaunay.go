// Package delaunay computes Delaunay triangulations of integer point sets.
//
// Triangles are produced as index triples into the caller's point slice, so
// a triangulation computed on one point set can be replayed on any other set
// with the same ordering.
package delaunay

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"tri-morph/pkg/geometry"

	"github.com/golang/glog"
)

// maxSuper caps the super-triangle extent so that every coordinate stays
// exactly representable as a float64.
const maxSuper = 1 << 50

var (
	// ErrTooFewPoints is returned for fewer than three points.
	ErrTooFewPoints = errors.New("need at least 3 points to triangulate")
	// ErrCollinear is returned when every point lies on one line.
	ErrCollinear = errors.New("all points are collinear")
)

// DuplicatePointError reports two points with the same position.
type DuplicatePointError struct {
	First, Second int
	Point         geometry.Point
}

func (e *DuplicatePointError) Error() string {
	return fmt.Sprintf("points %d and %d share position %v", e.First, e.Second, e.Point)
}

type edge struct {
	a, b int
}

// Triangulate returns the Delaunay triangles of pts whose three vertices all
// lie within bounds (inclusive of its far edges). Each triple has positive
// geometry.Orient, starts with its smallest index, and the list is sorted, so
// the result is fully determined by pts and bounds.
func Triangulate(pts []geometry.Point, bounds geometry.RectInt) ([]geometry.TriangleIndex, error) {
	n := len(pts)
	seen := make(map[geometry.Point]int, n)
	for i, p := range pts {
		if first, ok := seen[p]; ok {
			return nil, &DuplicatePointError{First: first, Second: i, Point: p}
		}
		seen[p] = i
	}
	if n < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, n)
	}
	if collinear(pts) {
		return nil, ErrCollinear
	}

	verts := make([]geometry.Point, n, n+3)
	copy(verts, pts)
	verts = append(verts, superTriangle(pts)...)

	// The super vertices are laid out with positive orientation; every triangle
	// built from a cavity edge and the new point inherits it.
	tris := []geometry.TriangleIndex{{n, n + 1, n + 2}}
	for i := 0; i < n; i++ {
		p := verts[i]

		// Triangles whose circumcircle strictly contains p form the cavity.
		var cavity []edge
		kept := make([]geometry.TriangleIndex, 0, len(tris)+2)
		for _, t := range tris {
			if inCircle(verts[t[0]], verts[t[1]], verts[t[2]], p) > 0 {
				cavity = append(cavity, edge{t[0], t[1]}, edge{t[1], t[2]}, edge{t[2], t[0]})
			} else {
				kept = append(kept, t)
			}
		}

		// Interior cavity edges appear twice, once in each direction.
		count := make(map[edge]int, len(cavity))
		for _, e := range cavity {
			count[edge{min(e.a, e.b), max(e.a, e.b)}]++
		}
		for _, e := range cavity {
			if count[edge{min(e.a, e.b), max(e.a, e.b)}] == 1 {
				kept = append(kept, geometry.TriangleIndex{e.a, e.b, i})
			}
		}
		tris = kept
	}

	out := make([]geometry.TriangleIndex, 0, len(tris))
	dropped := 0
	for _, t := range tris {
		if t[0] >= n || t[1] >= n || t[2] >= n {
			continue
		}
		if !bounds.Contains(pts[t[0]]) || !bounds.Contains(pts[t[1]]) || !bounds.Contains(pts[t[2]]) {
			dropped++
			continue
		}
		out = append(out, canonical(t))
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })

	if glog.V(2) {
		glog.Infof("delaunay: %d points -> %d triangles (%d outside bounds)", n, len(out), dropped)
	}
	return out, nil
}

// superTriangle returns three vertices enclosing every point with a wide
// margin. The extent grows with the cube of the point spread so that no real
// point falls inside the circumcircle of a hull edge and a super vertex.
func superTriangle(pts []geometry.Point) []geometry.Point {
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	span := float64(max(maxX-minX, maxY-minY, 1))
	s := int(math.Min(64*span*span*span+1024, maxSuper))
	cx, cy := minX+(maxX-minX)/2, minY+(maxY-minY)/2

	return []geometry.Point{
		{X: cx - 2*s, Y: cy - s},
		{X: cx + 2*s, Y: cy - s},
		{X: cx, Y: cy + 2*s},
	}
}

// collinear reports whether all of pts, which are distinct, lie on one line.
func collinear(pts []geometry.Point) bool {
	for _, p := range pts[2:] {
		if geometry.Orient(pts[0], pts[1], p) != 0 {
			return false
		}
	}
	return true
}

// canonical rotates t so its smallest index comes first, keeping orientation.
func canonical(t geometry.TriangleIndex) geometry.TriangleIndex {
	switch {
	case t[1] < t[0] && t[1] < t[2]:
		return geometry.TriangleIndex{t[1], t[2], t[0]}
	case t[2] < t[0] && t[2] < t[1]:
		return geometry.TriangleIndex{t[2], t[0], t[1]}
	}
	return t
}

func less(a, b geometry.TriangleIndex) bool {
	for k := 0; k < 3; k++ {
		if a[k] != b[k] {
			return a[k] < b[k]
		}
	}
	return false
}
