package warp

import (
	"fmt"

	"tri-morph/internal/image"
	"tri-morph/pkg/geometry"
)

// Warper resamples the srcTri region of src into a width x height patch so
// that it covers dstTri. Both triangles are given in their own patch frames.
type Warper interface {
	Warp(src *image.Image, srcTri, dstTri geometry.Triangle, width, height int) (*image.Image, error)
}

// Nearest is the native inverse-mapping, nearest-neighbour Warper.
type Nearest struct{}

// Warp maps every destination pixel back through the inverse affine map,
// rounds to the nearest source pixel and clamps to the source extent.
func (Nearest) Warp(src *image.Image, srcTri, dstTri geometry.Triangle, width, height int) (*image.Image, error) {
	fwd, err := Solve(srcTri, dstTri)
	if err != nil {
		return nil, err
	}
	inv, ok := fwd.Inverse()
	if !ok {
		return nil, &SingularTriangleError{Triangle: -1, Det: fwd.Det()}
	}

	out := image.New(width, height)
	if src.Width == 0 || src.Height == 0 {
		return out, nil
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := inv.Apply(geometry.Point2D{X: float64(x), Y: float64(y)}).Round()
			sx := geometry.Clamp(p.X, 0, src.Width-1)
			sy := geometry.Clamp(p.Y, 0, src.Height-1)
			si, di := src.PixOffset(sx, sy), out.PixOffset(x, y)
			copy(out.Pix[di:di+image.Channels], src.Pix[si:si+image.Channels])
		}
	}
	return out, nil
}

// WarpTriangle warps the srcTri region of img onto dstTri, both in full image
// coordinates. It returns the patch and the destination rectangle it covers.
func WarpTriangle(w Warper, img *image.Image, srcTri, dstTri geometry.Triangle) (*image.Image, geometry.RectInt, error) {
	sr, dr := srcTri.Bounds(), dstTri.Bounds()
	patch, err := w.Warp(img.Crop(sr), srcTri.Offset(sr.Origin()), dstTri.Offset(dr.Origin()), dr.Width, dr.Height)
	if err != nil {
		return nil, geometry.RectInt{}, fmt.Errorf("failed to warp %v -> %v: %w", srcTri, dstTri, err)
	}
	return patch, dr, nil
}
