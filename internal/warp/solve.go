// Package warp maps triangular image regions onto each other with affine
// transforms.
package warp

import (
	"fmt"
	"math"

	"tri-morph/pkg/geometry"
)

// singularEpsilon is the smallest source determinant accepted by Solve.
const singularEpsilon = 1e-9

// SingularTriangleError reports a triangle whose affine map cannot be solved
// or inverted. Triangle is the index in the triangulation, or -1 when the
// failing call had no index to report.
type SingularTriangleError struct {
	Triangle int
	Det      float64
}

func (e *SingularTriangleError) Error() string {
	if e.Triangle < 0 {
		return fmt.Sprintf("singular triangle (det %g)", e.Det)
	}
	return fmt.Sprintf("triangle %d is singular (det %g)", e.Triangle, e.Det)
}

// Solve returns the affine map taking each vertex of src to the matching
// vertex of dst.
//
// The two rows of the map are independent 3x3 systems sharing the matrix
// [x y 1] of the source vertices, solved in closed form with Cramer's rule.
// The shared determinant is twice the signed source area, so a collinear
// source yields a SingularTriangleError. All cofactors are computed in exact
// integer arithmetic; Solve(t, t) is exactly the identity.
func Solve(src, dst geometry.Triangle) (geometry.AffineTransform, error) {
	det := geometry.Orient(src[0], src[1], src[2])
	if math.Abs(float64(det)) < singularEpsilon {
		return geometry.AffineTransform{}, &SingularTriangleError{Triangle: -1, Det: float64(det)}
	}

	var xs, ys, us, vs [3]int64
	for i := 0; i < 3; i++ {
		xs[i], ys[i] = int64(src[i].X), int64(src[i].Y)
		us[i], vs[i] = int64(dst[i].X), int64(dst[i].Y)
	}

	d := float64(det)
	row := func(w [3]int64) (float64, float64, float64) {
		a := det3(w, ys, ones)
		b := det3(xs, w, ones)
		t := det3(xs, ys, w)
		return float64(a) / d, float64(b) / d, float64(t) / d
	}

	a, b, tx := row(us)
	c, dd, ty := row(vs)
	return geometry.AffineTransform{A: a, B: b, TX: tx, C: c, D: dd, TY: ty}, nil
}

var ones = [3]int64{1, 1, 1}

// det3 is the determinant of the matrix whose columns are c0, c1 and c2.
func det3(c0, c1, c2 [3]int64) int64 {
	return c0[0]*(c1[1]*c2[2]-c1[2]*c2[1]) -
		c1[0]*(c0[1]*c2[2]-c0[2]*c2[1]) +
		c2[0]*(c0[1]*c1[2]-c0[2]*c1[1])
}
