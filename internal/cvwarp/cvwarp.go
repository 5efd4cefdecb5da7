// Package cvwarp implements warp.Warper on top of OpenCV.
package cvwarp

import (
	"fmt"
	goimage "image"
	"image/color"

	"tri-morph/internal/image"
	"tri-morph/internal/warp"
	"tri-morph/pkg/geometry"

	"gocv.io/x/gocv"
)

// Warper resamples triangles with cv::warpAffine using nearest-neighbour
// interpolation and replicated borders, matching the clamping of
// warp.Nearest. OpenCV rounds through fixed-point coordinates, so samples
// that fall exactly between two pixels may resolve differently.
type Warper struct{}

var _ warp.Warper = Warper{}

// Warp implements warp.Warper.
func (Warper) Warp(src *image.Image, srcTri, dstTri geometry.Triangle, width, height int) (*image.Image, error) {
	fwd, err := warp.Solve(srcTri, dstTri)
	if err != nil {
		return nil, err
	}
	if _, ok := fwd.Inverse(); !ok {
		return nil, &warp.SingularTriangleError{Triangle: -1, Det: fwd.Det()}
	}
	if src.Width == 0 || src.Height == 0 || width == 0 || height == 0 {
		return image.New(width, height), nil
	}

	srcMat, err := gocv.NewMatFromBytes(src.Height, src.Width, gocv.MatTypeCV8UC3, src.Pix)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap source: %w", err)
	}
	defer srcMat.Close()

	transformMat := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	defer transformMat.Close()
	for r, row := range fwd.ToMatrix() {
		for c, v := range row {
			transformMat.SetDoubleAt(r, c, v)
		}
	}

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.WarpAffineWithParams(srcMat, &dst, transformMat, goimage.Point{X: width, Y: height},
		gocv.InterpolationNearestNeighbor, gocv.BorderReplicate, color.RGBA{})
	if dst.Empty() {
		return nil, fmt.Errorf("warpAffine produced no output for %dx%d", width, height)
	}

	out, err := image.FromPix(width, height, dst.ToBytes())
	if err != nil {
		return nil, fmt.Errorf("unexpected warp output: %w", err)
	}
	return out, nil
}
