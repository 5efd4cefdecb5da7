package geometry

import "fmt"

// Triangle is three concrete vertices.
type Triangle [3]Point

// TriangleIndex is a triple of indices into a point set.
type TriangleIndex [3]int

// Valid reports whether all indices are distinct and within [0, n).
func (ti TriangleIndex) Valid(n int) bool {
	for _, i := range ti {
		if i < 0 || i >= n {
			return false
		}
	}
	return ti[0] != ti[1] && ti[1] != ti[2] && ti[0] != ti[2]
}

func (ti TriangleIndex) String() string {
	return fmt.Sprintf("%d,%d,%d", ti[0], ti[1], ti[2])
}

// Orient returns twice the signed area of triangle abc. In image coordinates
// (y down) a positive value means the vertices run clockwise on screen.
func Orient(a, b, c Point) int64 {
	return int64(b.X-a.X)*int64(c.Y-a.Y) - int64(b.Y-a.Y)*int64(c.X-a.X)
}

// Area2 returns twice the unsigned area of the triangle.
func (t Triangle) Area2() int64 {
	a := Orient(t[0], t[1], t[2])
	if a < 0 {
		return -a
	}
	return a
}

// Degenerate reports whether the three vertices are collinear.
func (t Triangle) Degenerate() bool {
	return Orient(t[0], t[1], t[2]) == 0
}

// Bounds returns the smallest pixel rectangle covering all three vertices.
// Width and Height count pixels, so a single point has size 1x1.
func (t Triangle) Bounds() RectInt {
	minX, minY := t[0].X, t[0].Y
	maxX, maxY := minX, minY
	for _, p := range t[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return RectInt{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
}

// Offset returns the triangle translated by -origin.
func (t Triangle) Offset(origin Point) Triangle {
	return Triangle{t[0].Sub(origin), t[1].Sub(origin), t[2].Sub(origin)}
}

// Contains reports whether p lies inside or on the edges of the triangle.
func (t Triangle) Contains(p Point) bool {
	d0 := Orient(t[0], t[1], p)
	d1 := Orient(t[1], t[2], p)
	d2 := Orient(t[2], t[0], p)
	hasNeg := d0 < 0 || d1 < 0 || d2 < 0
	hasPos := d0 > 0 || d1 > 0 || d2 > 0
	return !(hasNeg && hasPos)
}

// ContainsFloat is Contains for sub-pixel sample positions.
func (t Triangle) ContainsFloat(p Point2D) bool {
	a, b, c := t[0].ToFloat(), t[1].ToFloat(), t[2].ToFloat()
	d0 := crossProduct(a, b, p)
	d1 := crossProduct(b, c, p)
	d2 := crossProduct(c, a, p)
	hasNeg := d0 < 0 || d1 < 0 || d2 < 0
	hasPos := d0 > 0 || d1 > 0 || d2 > 0
	return !(hasNeg && hasPos)
}

// Float returns the vertices as floating-point points.
func (t Triangle) Float() [3]Point2D {
	return [3]Point2D{t[0].ToFloat(), t[1].ToFloat(), t[2].ToFloat()}
}
