package geometry

import "sort"

// ConvexHull computes the convex hull of a set of points using Andrew's
// monotone chain. Collinear points on the hull are dropped. The result runs
// in increasing Orient order (positive turn) starting at the smallest point.
func ConvexHull(points []Point) []Point {
	if len(points) < 3 {
		out := make([]Point, len(points))
		copy(out, points)
		return out
	}

	// Make a copy to avoid modifying the input
	pts := make([]Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	hull := make([]Point, 0, 2*len(pts))
	// Lower chain
	for _, p := range pts {
		for len(hull) >= 2 && Orient(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	// Upper chain
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && Orient(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull[:len(hull)-1]
}

// PolygonArea2 returns twice the unsigned area of a simple polygon (shoelace).
func PolygonArea2(polygon []Point) int64 {
	if len(polygon) < 3 {
		return 0
	}
	var sum int64
	n := len(polygon)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += int64(polygon[i].X)*int64(polygon[j].Y) - int64(polygon[j].X)*int64(polygon[i].Y)
	}
	if sum < 0 {
		return -sum
	}
	return sum
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
