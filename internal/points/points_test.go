package points

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tri-morph/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	in := "10,20\n  30 , 40 \n\n-1,7\n"
	pts, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []geometry.Point{{X: 10, Y: 20}, {X: 30, Y: 40}, {X: -1, Y: 7}}, pts)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line int
	}{
		{"missing comma", "1,2\n3 4\n", 2},
		{"three values", "1,2,3\n", 1},
		{"float", "1,2\n\n5.5,6\n", 3},
		{"word", "x,1\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts, err := Parse(strings.NewReader(tt.in))
			assert.Nil(t, pts)
			var me *MalformedInputError
			require.True(t, errors.As(err, &me), "got %v", err)
			assert.Equal(t, tt.line, me.Line)
		})
	}
}

func TestBuildCorners(t *testing.T) {
	set, err := Build([]geometry.Point{{X: 5, Y: 5}}, 100, 50, BoundaryCorners)
	require.NoError(t, err)
	assert.Equal(t, 5, set.Len())
	assert.Equal(t, 1, set.Correspondences)
	assert.Equal(t, []geometry.Point{{X: 5, Y: 5}, {X: 0, Y: 0}, {X: 99, Y: 0}, {X: 0, Y: 49}, {X: 99, Y: 49}}, set.Points)
}

func TestBuildInset(t *testing.T) {
	set, err := Build(nil, 100, 60, BoundaryInset)
	require.NoError(t, err)
	assert.Equal(t, []geometry.Point{
		{X: 2, Y: 2}, {X: 50, Y: 2}, {X: 97, Y: 2},
		{X: 97, Y: 30},
		{X: 97, Y: 57}, {X: 50, Y: 57}, {X: 2, Y: 57},
		{X: 2, Y: 30},
	}, set.Points)
	assert.Equal(t, BoundaryInset.Count(), set.Len())
}

func TestBuildDuplicates(t *testing.T) {
	_, err := Build([]geometry.Point{{X: 1, Y: 1}, {X: 3, Y: 3}, {X: 1, Y: 1}}, 10, 10, BoundaryCorners)
	var me *MalformedInputError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, 3, me.Line)

	_, err = Build([]geometry.Point{{X: 0, Y: 0}}, 10, 10, BoundaryCorners)
	require.True(t, errors.As(err, &me))
	assert.Equal(t, 0, me.Line)
	assert.Contains(t, me.Error(), "boundary")
}

func TestBuildTooSmall(t *testing.T) {
	_, err := Build(nil, 6, 100, BoundaryInset)
	var me *MalformedInputError
	assert.True(t, errors.As(err, &me))

	_, err = Build(nil, 7, 7, BoundaryInset)
	assert.NoError(t, err)
}

func TestParseBoundary(t *testing.T) {
	for in, want := range map[string]Boundary{"": BoundaryCorners, "corners": BoundaryCorners, "8": BoundaryInset, "Inset": BoundaryInset} {
		got, err := ParseBoundary(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseBoundary("hexagon")
	assert.Error(t, err)
}

func TestCheckCounts(t *testing.T) {
	a, err := Build([]geometry.Point{{X: 5, Y: 5}}, 20, 20, BoundaryCorners)
	require.NoError(t, err)
	b, err := Build([]geometry.Point{{X: 5, Y: 5}, {X: 6, Y: 6}}, 20, 20, BoundaryCorners)
	require.NoError(t, err)

	assert.NoError(t, CheckCounts(a, a))
	var pe *PointCountMismatchError
	require.True(t, errors.As(CheckCounts(a, b), &pe))
	assert.Equal(t, PointCountMismatchError{Input: 5, Target: 6}, *pe)
}

func TestTrianglesSharedIndices(t *testing.T) {
	a, err := Build([]geometry.Point{{X: 5, Y: 5}}, 20, 20, BoundaryCorners)
	require.NoError(t, err)
	b, err := Build([]geometry.Point{{X: 8, Y: 9}}, 20, 20, BoundaryCorners)
	require.NoError(t, err)

	idx := []geometry.TriangleIndex{{0, 1, 2}}
	ta, err := a.Triangles(idx)
	require.NoError(t, err)
	tb, err := b.Triangles(idx)
	require.NoError(t, err)
	assert.Equal(t, geometry.Triangle{{X: 5, Y: 5}, {X: 0, Y: 0}, {X: 19, Y: 0}}, ta[0])
	assert.Equal(t, geometry.Triangle{{X: 8, Y: 9}, {X: 0, Y: 0}, {X: 19, Y: 0}}, tb[0])

	_, err = a.Triangles([]geometry.TriangleIndex{{0, 1, 5}})
	assert.Error(t, err)
}

func TestLoadAndPathFor(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "face.png")
	assert.Equal(t, filepath.Join(dir, "face.txt"), PathFor(img))

	require.NoError(t, os.WriteFile(PathFor(img), []byte("1,2\n3,4\n"), 0o644))
	pts, err := Load(PathFor(img))
	require.NoError(t, err)
	assert.Len(t, pts, 2)

	_, err = Load(filepath.Join(dir, "none.txt"))
	assert.Error(t, err)
}
