package warp

import (
	"errors"
	"testing"

	"tri-morph/internal/image"
	"tri-morph/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *image.Image {
	img := image.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGB(x, y, uint8(x*9), uint8(y*13), uint8(x*y))
		}
	}
	return img
}

func tri(x0, y0, x1, y1, x2, y2 int) geometry.Triangle {
	return geometry.Triangle{geometry.Pt(x0, y0), geometry.Pt(x1, y1), geometry.Pt(x2, y2)}
}

func TestSolveIdentity(t *testing.T) {
	for _, tr := range []geometry.Triangle{
		tri(0, 0, 10, 0, 0, 10),
		tri(3, 4, 40, 7, 10, 33),
		tri(-5, 2, 17, -9, 8, 21),
	} {
		m, err := Solve(tr, tr)
		require.NoError(t, err)
		assert.Equal(t, geometry.AffineTransform{A: 1, D: 1}, m, "triangle %v", tr)
	}
}

func TestSolveMapsVertices(t *testing.T) {
	src := tri(3, 4, 40, 7, 10, 33)
	dst := tri(5, 9, 52, 2, 18, 41)
	m, err := Solve(src, dst)
	require.NoError(t, err)
	for i := range src {
		got := m.Apply(src[i].ToFloat())
		assert.InDelta(t, float64(dst[i].X), got.X, 1e-9)
		assert.InDelta(t, float64(dst[i].Y), got.Y, 1e-9)
	}
}

func TestSolveInvertRoundTrip(t *testing.T) {
	src := tri(3, 4, 40, 7, 10, 33)
	dst := tri(5, 9, 52, 2, 18, 41)
	fwd, err := Solve(src, dst)
	require.NoError(t, err)
	inv, ok := fwd.Inverse()
	require.True(t, ok)

	for _, p := range []geometry.Point{{X: 10, Y: 10}, {X: 20, Y: 12}, {X: 15, Y: 20}, src[0], src[1], src[2]} {
		back := inv.Apply(fwd.Apply(p.ToFloat()))
		assert.LessOrEqual(t, back.Distance(p.ToFloat()), 0.5, "point %v", p)
	}
}

func TestSolveCollinear(t *testing.T) {
	_, err := Solve(tri(0, 0, 5, 5, 10, 10), tri(0, 0, 4, 0, 0, 4))
	var se *SingularTriangleError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, -1, se.Triangle)
	assert.Contains(t, se.Error(), "singular")

	_, err = Nearest{}.Warp(gradient(4, 4), tri(0, 0, 1, 1, 2, 2), tri(0, 0, 3, 0, 0, 3), 4, 4)
	assert.True(t, errors.As(err, &se))
}

func TestNearestZeroMotion(t *testing.T) {
	src := gradient(12, 10)
	tr := tri(0, 0, 11, 0, 0, 9)
	out, err := Nearest{}.Warp(src, tr, tr, 12, 10)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestNearestTranslation(t *testing.T) {
	src := gradient(10, 10)
	out, err := Nearest{}.Warp(src, tri(0, 0, 5, 0, 0, 5), tri(2, 3, 7, 3, 2, 8), 10, 10)
	require.NoError(t, err)

	for y := 3; y < 10; y++ {
		for x := 2; x < 10; x++ {
			r, g, b := out.RGB(x, y)
			wr, wg, wb := src.RGB(x-2, y-3)
			require.Equal(t, []uint8{wr, wg, wb}, []uint8{r, g, b}, "pixel %d,%d", x, y)
		}
	}
	// Left of the translated patch samples clamp to column 0.
	r, g, b := out.RGB(0, 5)
	wr, wg, wb := src.RGB(0, 2)
	assert.Equal(t, []uint8{wr, wg, wb}, []uint8{r, g, b})
}

func TestWarpTriangleFullImage(t *testing.T) {
	img := gradient(30, 30)
	src := tri(2, 2, 12, 2, 2, 12)
	dst := tri(10, 15, 20, 15, 10, 25)

	patch, rect, err := WarpTriangle(Nearest{}, img, src, dst)
	require.NoError(t, err)
	assert.Equal(t, geometry.RectInt{X: 10, Y: 15, Width: 11, Height: 11}, rect)
	require.Equal(t, 11, patch.Width)

	r, g, b := patch.RGB(3, 4)
	wr, wg, wb := img.RGB(5, 6)
	assert.Equal(t, []uint8{wr, wg, wb}, []uint8{r, g, b})

	_, _, err = WarpTriangle(Nearest{}, img, tri(0, 0, 1, 1, 2, 2), dst)
	assert.Error(t, err)
}

func TestFitAffine(t *testing.T) {
	want := geometry.AffineTransform{A: 1.1, B: -0.2, TX: 4, C: 0.3, D: 0.9, TY: -7}
	src := []geometry.Point2D{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 0, Y: 40}, {X: 50, Y: 40}, {X: 20, Y: 13}}
	dst := make([]geometry.Point2D, len(src))
	for i, p := range src {
		dst[i] = want.Apply(p)
	}

	got, err := FitAffine(src, dst)
	require.NoError(t, err)
	assert.InDelta(t, want.A, got.A, 1e-9)
	assert.InDelta(t, want.B, got.B, 1e-9)
	assert.InDelta(t, want.TX, got.TX, 1e-9)
	assert.InDelta(t, want.C, got.C, 1e-9)
	assert.InDelta(t, want.D, got.D, 1e-9)
	assert.InDelta(t, want.TY, got.TY, 1e-9)
	assert.InDelta(t, 0, MeanResidual(src, dst, got), 1e-9)

	_, err = FitAffine(src[:2], dst[:2])
	assert.Error(t, err)
	_, err = FitAffine(src, dst[:4])
	assert.Error(t, err)
}

func TestFitAffineFarFromOrigin(t *testing.T) {
	want := geometry.AffineTransform{A: 0.5, B: 0.1, TX: -3e5, C: -0.2, D: 1.5, TY: 12}
	src := []geometry.Point2D{{X: 1e6, Y: 2e6}, {X: 1e6 + 30, Y: 2e6}, {X: 1e6, Y: 2e6 + 45}, {X: 1e6 + 7, Y: 2e6 + 11}}
	dst := make([]geometry.Point2D, len(src))
	for i, p := range src {
		dst[i] = want.Apply(p)
	}

	got, err := FitAffine(src, dst)
	require.NoError(t, err)
	assert.InDelta(t, want.A, got.A, 1e-9)
	assert.InDelta(t, want.D, got.D, 1e-9)
	assert.InDelta(t, 0, MeanResidual(src, dst, got), 1e-6)
}

func TestFloat(t *testing.T) {
	assert.Equal(t, []geometry.Point2D{{X: 1, Y: 2}}, Float([]geometry.Point{{X: 1, Y: 2}}))
}
