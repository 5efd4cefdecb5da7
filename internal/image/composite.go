package image

import (
	"fmt"
	"image"

	"tri-morph/pkg/geometry"
)

// maskSamples is the per-axis supersampling factor of antialiased masks.
const maskSamples = 4

// FillMask rasterizes tri (in local coordinates) into a width x height mask.
// Without antialiasing a pixel is 255 when its lattice point lies inside or on
// the triangle and 0 otherwise. With antialiasing the value is the covered
// fraction of a 4x4 sample grid centred on the pixel.
func FillMask(tri geometry.Triangle, width, height int, antialias bool) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	if tri.Degenerate() {
		return mask
	}

	const step = 1.0 / maskSamples
	for y := 0; y < height; y++ {
		row := mask.Pix[y*mask.Stride:]
		for x := 0; x < width; x++ {
			if !antialias {
				if tri.Contains(geometry.Pt(x, y)) {
					row[x] = 255
				}
				continue
			}
			covered := 0
			for sy := 0; sy < maskSamples; sy++ {
				py := float64(y) - 0.5 + (float64(sy)+0.5)*step
				for sx := 0; sx < maskSamples; sx++ {
					px := float64(x) - 0.5 + (float64(sx)+0.5)*step
					if tri.ContainsFloat(geometry.Point2D{X: px, Y: py}) {
						covered++
					}
				}
			}
			row[x] = uint8((covered*255 + maskSamples*maskSamples/2) / (maskSamples * maskSamples))
		}
	}
	return mask
}

// Composite blends patch into result over rect using mask:
// result = result*(1-m) + patch*m per channel. patch and mask are in rect's
// local frame. Pixels outside result are skipped.
func Composite(result *Image, rect geometry.RectInt, patch *Image, mask *image.Alpha) error {
	if err := checkPatch(rect, patch, mask); err != nil {
		return err
	}
	mb := mask.Bounds()

	clip := rect.Intersect(result.Rect())
	for y := clip.Y; y < clip.Y+clip.Height; y++ {
		ly := y - rect.Y
		for x := clip.X; x < clip.X+clip.Width; x++ {
			lx := x - rect.X
			m := uint32(mask.Pix[mask.PixOffset(mb.Min.X+lx, mb.Min.Y+ly)])
			if m == 0 {
				continue
			}
			di := result.PixOffset(x, y)
			si := patch.PixOffset(lx, ly)
			if m == 255 {
				copy(result.Pix[di:di+Channels], patch.Pix[si:si+Channels])
				continue
			}
			for c := 0; c < Channels; c++ {
				d := uint32(result.Pix[di+c])
				s := uint32(patch.Pix[si+c])
				result.Pix[di+c] = uint8((d*(255-m) + s*m + 127) / 255)
			}
		}
	}
	return nil
}

func checkPatch(rect geometry.RectInt, patch *Image, mask *image.Alpha) error {
	if patch.Width != rect.Width || patch.Height != rect.Height {
		return fmt.Errorf("patch is %dx%d, rect is %dx%d", patch.Width, patch.Height, rect.Width, rect.Height)
	}
	mb := mask.Bounds()
	if mb.Dx() != rect.Width || mb.Dy() != rect.Height {
		return fmt.Errorf("mask is %dx%d, rect is %dx%d", mb.Dx(), mb.Dy(), rect.Width, rect.Height)
	}
	return nil
}

// Accumulator collects coverage-weighted patches and resolves each pixel to
// the weighted mean of everything that covered it. Pixels split between
// triangles along a shared edge therefore take only warped values, never the
// content underneath.
type Accumulator struct {
	Width, Height int

	sum []uint32
	cov []uint32
}

// NewAccumulator returns an empty accumulator for a width x height result.
func NewAccumulator(width, height int) *Accumulator {
	return &Accumulator{
		Width:  width,
		Height: height,
		sum:    make([]uint32, width*height*Channels),
		cov:    make([]uint32, width*height),
	}
}

// Add adds patch weighted by mask over rect. patch and mask are in rect's
// local frame. Pixels outside the accumulator are skipped.
func (a *Accumulator) Add(rect geometry.RectInt, patch *Image, mask *image.Alpha) error {
	if err := checkPatch(rect, patch, mask); err != nil {
		return err
	}
	mb := mask.Bounds()

	clip := rect.Intersect(geometry.RectInt{Width: a.Width, Height: a.Height})
	for y := clip.Y; y < clip.Y+clip.Height; y++ {
		ly := y - rect.Y
		for x := clip.X; x < clip.X+clip.Width; x++ {
			lx := x - rect.X
			m := uint32(mask.Pix[mask.PixOffset(mb.Min.X+lx, mb.Min.Y+ly)])
			if m == 0 {
				continue
			}
			i := y*a.Width + x
			a.cov[i] += m
			si := patch.PixOffset(lx, ly)
			for c := 0; c < Channels; c++ {
				a.sum[i*Channels+c] += m * uint32(patch.Pix[si+c])
			}
		}
	}
	return nil
}

// Resolve writes every covered pixel into result as its coverage-weighted
// mean. Uncovered pixels of result are left as they are.
func (a *Accumulator) Resolve(result *Image) {
	w, h := min(a.Width, result.Width), min(a.Height, result.Height)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*a.Width + x
			cov := a.cov[i]
			if cov == 0 {
				continue
			}
			di := result.PixOffset(x, y)
			for c := 0; c < Channels; c++ {
				result.Pix[di+c] = uint8((a.sum[i*Channels+c] + cov/2) / cov)
			}
		}
	}
}
