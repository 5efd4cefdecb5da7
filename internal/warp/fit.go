package warp

import (
	"fmt"
	"math"

	"tri-morph/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// FitAffine computes the least-squares affine transform taking src to dst.
// It summarises how far a correspondence set is from a single global map.
// Both sets are centred on their centroids before solving, which keeps the
// system well conditioned for points far from the origin.
func FitAffine(src, dst []geometry.Point2D) (geometry.AffineTransform, error) {
	if len(src) != len(dst) {
		return geometry.AffineTransform{}, fmt.Errorf("point count mismatch: %d vs %d", len(src), len(dst))
	}
	n := len(src)
	if n < 3 {
		return geometry.AffineTransform{}, fmt.Errorf("need at least 3 points, got %d", n)
	}
	sc, dc := centroid(src), centroid(dst)

	// Build overdetermined system
	A := mat.NewDense(n*2, 6, nil)
	B := mat.NewVecDense(n*2, nil)

	for i := 0; i < n; i++ {
		x, y := src[i].X-sc.X, src[i].Y-sc.Y

		A.Set(i*2, 0, x)
		A.Set(i*2, 1, y)
		A.Set(i*2, 2, 1)
		B.SetVec(i*2, dst[i].X-dc.X)

		A.Set(i*2+1, 3, x)
		A.Set(i*2+1, 4, y)
		A.Set(i*2+1, 5, 1)
		B.SetVec(i*2+1, dst[i].Y-dc.Y)
	}

	var qr mat.QR
	qr.Factorize(A)

	var params mat.VecDense
	if err := qr.SolveVecTo(&params, false, B); err != nil {
		return geometry.AffineTransform{}, fmt.Errorf("least squares: %w", err)
	}

	local := geometry.FromMatrix([2][3]float64{
		{params.AtVec(0), params.AtVec(1), params.AtVec(2)},
		{params.AtVec(3), params.AtVec(4), params.AtVec(5)},
	})
	return geometry.Translation(dc.X, dc.Y).Compose(local.Compose(geometry.Translation(-sc.X, -sc.Y))), nil
}

func centroid(pts []geometry.Point2D) geometry.Point2D {
	var c geometry.Point2D
	for _, p := range pts {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(pts))
	return geometry.Point2D{X: c.X / n, Y: c.Y / n}
}

// MeanResidual returns the mean distance between transform(src[i]) and dst[i].
func MeanResidual(src, dst []geometry.Point2D, transform geometry.AffineTransform) float64 {
	if len(src) != len(dst) || len(src) == 0 {
		return math.Inf(1)
	}

	var total float64
	for i := range src {
		total += transform.Apply(src[i]).Distance(dst[i])
	}
	return total / float64(len(src))
}

// Float converts integer points for FitAffine.
func Float(pts []geometry.Point) []geometry.Point2D {
	out := make([]geometry.Point2D, len(pts))
	for i, p := range pts {
		out[i] = p.ToFloat()
	}
	return out
}
