package delaunay

import (
	"math"
	"math/big"

	"tri-morph/pkg/geometry"
)

// iccErrBound bounds the rounding error of the float in-circle determinant
// relative to its permanent.
const iccErrBound = (10 + 96*epsilon) * epsilon

const epsilon = 1.0 / (1 << 53)

// inCircle reports whether d lies strictly inside (+1), on (0) or outside
// (-1) the circumcircle of a, b, c, which must have positive orientation.
// Coordinates must fit in 52 bits so that differences are exact in float64.
func inCircle(a, b, c, d geometry.Point) int {
	adx, ady := float64(a.X-d.X), float64(a.Y-d.Y)
	bdx, bdy := float64(b.X-d.X), float64(b.Y-d.Y)
	cdx, cdy := float64(c.X-d.X), float64(c.Y-d.Y)

	bdxcdy, cdxbdy := bdx*cdy, cdx*bdy
	cdxady, adxcdy := cdx*ady, adx*cdy
	adxbdy, bdxady := adx*bdy, bdx*ady
	alift := adx*adx + ady*ady
	blift := bdx*bdx + bdy*bdy
	clift := cdx*cdx + cdy*cdy

	det := alift*(bdxcdy-cdxbdy) + blift*(cdxady-adxcdy) + clift*(adxbdy-bdxady)
	permanent := alift*(math.Abs(bdxcdy)+math.Abs(cdxbdy)) +
		blift*(math.Abs(cdxady)+math.Abs(adxcdy)) +
		clift*(math.Abs(adxbdy)+math.Abs(bdxady))

	if bound := iccErrBound * permanent; det > bound {
		return 1
	} else if det < -bound {
		return -1
	}
	return inCircleExact(a, b, c, d)
}

func inCircleExact(a, b, c, d geometry.Point) int {
	adx, ady := big.NewInt(int64(a.X-d.X)), big.NewInt(int64(a.Y-d.Y))
	bdx, bdy := big.NewInt(int64(b.X-d.X)), big.NewInt(int64(b.Y-d.Y))
	cdx, cdy := big.NewInt(int64(c.X-d.X)), big.NewInt(int64(c.Y-d.Y))

	lift := func(x, y *big.Int) *big.Int {
		l := new(big.Int).Mul(x, x)
		return l.Add(l, new(big.Int).Mul(y, y))
	}
	cross := func(x1, y1, x2, y2 *big.Int) *big.Int {
		v := new(big.Int).Mul(x1, y2)
		return v.Sub(v, new(big.Int).Mul(x2, y1))
	}

	det := new(big.Int).Mul(lift(adx, ady), cross(bdx, bdy, cdx, cdy))
	det.Add(det, new(big.Int).Mul(lift(bdx, bdy), cross(cdx, cdy, adx, ady)))
	det.Add(det, new(big.Int).Mul(lift(cdx, cdy), cross(adx, ady, bdx, bdy)))
	return det.Sign()
}
