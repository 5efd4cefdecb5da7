package delaunay

import (
	"errors"
	"math/rand"
	"testing"

	"tri-morph/pkg/geometry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corners(w, h int) []geometry.Point {
	return []geometry.Point{{X: 0, Y: 0}, {X: w - 1, Y: 0}, {X: 0, Y: h - 1}, {X: w - 1, Y: h - 1}}
}

func randomPoints(seed int64, n, w, h int) []geometry.Point {
	r := rand.New(rand.NewSource(seed))
	seen := map[geometry.Point]bool{}
	var pts []geometry.Point
	for len(pts) < n {
		p := geometry.Point{X: 1 + r.Intn(w-2), Y: 1 + r.Intn(h-2)}
		if !seen[p] {
			seen[p] = true
			pts = append(pts, p)
		}
	}
	return append(pts, corners(w, h)...)
}

func areaSum(pts []geometry.Point, tris []geometry.TriangleIndex) int64 {
	var sum int64
	for _, t := range tris {
		sum += geometry.Triangle{pts[t[0]], pts[t[1]], pts[t[2]]}.Area2()
	}
	return sum
}

func TestSquare(t *testing.T) {
	pts := corners(10, 10)
	tris, err := Triangulate(pts, geometry.RectInt{Width: 9, Height: 9})
	require.NoError(t, err)
	require.Len(t, tris, 2)
	assert.Equal(t, int64(2*9*9), areaSum(pts, tris))
}

func TestScenarioCount(t *testing.T) {
	pts := append([]geometry.Point{{X: 20, Y: 30}, {X: 70, Y: 40}, {X: 50, Y: 80}}, corners(100, 100)...)
	tris, err := Triangulate(pts, geometry.RectInt{Width: 99, Height: 99})
	require.NoError(t, err)
	assert.Len(t, tris, 8)
	for _, tri := range tris {
		assert.True(t, tri.Valid(len(pts)), "triangle %v", tri)
	}
}

func TestPartitionAndEmptyCircumcircle(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		pts := randomPoints(seed, 40, 100, 80)
		bounds := geometry.RectInt{Width: 99, Height: 79}
		tris, err := Triangulate(pts, bounds)
		require.NoError(t, err)

		hull := geometry.ConvexHull(pts)
		assert.Equal(t, geometry.PolygonArea2(hull), areaSum(pts, tris), "seed %d", seed)

		for _, tri := range tris {
			a, b, c := pts[tri[0]], pts[tri[1]], pts[tri[2]]
			require.Positive(t, geometry.Orient(a, b, c), "triangle %v", tri)
			assert.Less(t, tri[0], tri[1])
			assert.Less(t, tri[0], tri[2])
			for i, p := range pts {
				if i == tri[0] || i == tri[1] || i == tri[2] {
					continue
				}
				assert.LessOrEqual(t, inCircle(a, b, c, p), 0, "point %d inside circumcircle of %v", i, tri)
			}
		}
	}
}

func TestDeterministic(t *testing.T) {
	pts := randomPoints(42, 60, 200, 150)
	bounds := geometry.RectInt{Width: 199, Height: 149}
	first, err := Triangulate(pts, bounds)
	require.NoError(t, err)
	second, err := Triangulate(pts, bounds)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("triangulation changed between runs (-first +second):\n%s", diff)
	}
}

func TestBoundsFilter(t *testing.T) {
	pts := []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 20, Y: 5}}
	tris, err := Triangulate(pts, geometry.RectInt{Width: 10, Height: 10})
	require.NoError(t, err)
	require.NotEmpty(t, tris)
	for _, tri := range tris {
		assert.NotContains(t, tri[:], 4)
	}
	assert.Equal(t, int64(200), areaSum(pts, tris))
}

func TestInsetBoundaryCollinear(t *testing.T) {
	// Three points on each edge of the rectangle.
	pts := []geometry.Point{
		{X: 2, Y: 2}, {X: 50, Y: 2}, {X: 97, Y: 2},
		{X: 97, Y: 30},
		{X: 97, Y: 57}, {X: 50, Y: 57}, {X: 2, Y: 57},
		{X: 2, Y: 30},
	}
	tris, err := Triangulate(pts, geometry.RectInt{Width: 99, Height: 59})
	require.NoError(t, err)
	assert.Len(t, tris, 6)
	assert.Equal(t, int64(2*95*55), areaSum(pts, tris))
	for _, tri := range tris {
		assert.False(t, geometry.Triangle{pts[tri[0]], pts[tri[1]], pts[tri[2]]}.Degenerate())
	}
}

func TestDuplicatePoint(t *testing.T) {
	pts := []geometry.Point{{X: 1, Y: 1}, {X: 5, Y: 1}, {X: 1, Y: 1}, {X: 3, Y: 4}}
	_, err := Triangulate(pts, geometry.RectInt{Width: 10, Height: 10})
	var de *DuplicatePointError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 0, de.First)
	assert.Equal(t, 2, de.Second)
}

func TestTooFewOrCollinear(t *testing.T) {
	bounds := geometry.RectInt{Width: 5, Height: 5}

	_, err := Triangulate([]geometry.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}, bounds)
	assert.ErrorIs(t, err, ErrTooFewPoints)
	_, err = Triangulate(nil, bounds)
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = Triangulate([]geometry.Point{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 4, Y: 4}, {X: 1, Y: 1}}, bounds)
	assert.ErrorIs(t, err, ErrCollinear)

	tris, err := Triangulate([]geometry.Point{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 4, Y: 0}}, bounds)
	require.NoError(t, err)
	assert.Len(t, tris, 1)
}

func TestInCircleExactFallback(t *testing.T) {
	a, b, c := geometry.Point{X: 0, Y: 0}, geometry.Point{X: 4, Y: 0}, geometry.Point{X: 4, Y: 4}
	assert.Equal(t, 0, inCircle(a, b, c, geometry.Point{X: 0, Y: 4}))
	assert.Equal(t, 1, inCircle(a, b, c, geometry.Point{X: 2, Y: 2}))
	assert.Equal(t, -1, inCircle(a, b, c, geometry.Point{X: 9, Y: 9}))
	assert.Equal(t, 0, inCircleExact(a, b, c, geometry.Point{X: 0, Y: 4}))
}
