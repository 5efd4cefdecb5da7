// Package overlay renders triangulations on top of images for inspection.
package overlay

import (
	goimage "image"
	"image/color"
	"strconv"

	"tri-morph/internal/image"
	"tri-morph/pkg/colorutil"
	"tri-morph/pkg/geometry"

	"github.com/fogleman/gg"
)

// Options controls overlay rendering.
type Options struct {
	EdgeColor   color.Color
	PointColor  color.Color
	LineWidth   float64
	PointRadius float64
	// Labels draws each point's index next to its marker.
	Labels bool
}

// DefaultOptions returns cyan edges with magenta point markers.
func DefaultOptions() Options {
	return Options{
		EdgeColor:   colorutil.Cyan,
		PointColor:  colorutil.Magenta,
		LineWidth:   1,
		PointRadius: 2,
	}
}

// Draw returns a copy of img with the triangle edges and point markers drawn on it.
func Draw(img *image.Image, pts []geometry.Point, tris []geometry.Triangle, opts Options) *goimage.RGBA {
	def := DefaultOptions()
	if opts.EdgeColor == nil {
		opts.EdgeColor = def.EdgeColor
	}
	if opts.PointColor == nil {
		opts.PointColor = def.PointColor
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = def.LineWidth
	}
	if opts.PointRadius <= 0 {
		opts.PointRadius = def.PointRadius
	}

	canvas := img.RGBA()
	ctx := gg.NewContextForRGBA(canvas)

	ctx.SetColor(opts.EdgeColor)
	ctx.SetLineWidth(opts.LineWidth)
	for _, t := range tris {
		p0, p1, p2 := t[0], t[1], t[2]
		ctx.MoveTo(float64(p0.X), float64(p0.Y))
		ctx.LineTo(float64(p1.X), float64(p1.Y))
		ctx.LineTo(float64(p2.X), float64(p2.Y))
		ctx.ClosePath()
		ctx.Stroke()
	}

	ctx.SetColor(opts.PointColor)
	for _, p := range pts {
		ctx.DrawCircle(float64(p.X), float64(p.Y), opts.PointRadius)
		ctx.Fill()
	}

	if opts.Labels {
		for i, p := range pts {
			r, g, b := img.RGB(p.X, p.Y)
			ctx.SetColor(colorutil.Contrasting(r, g, b))
			ctx.DrawString(strconv.Itoa(i), float64(p.X)+opts.PointRadius+1, float64(p.Y)-opts.PointRadius-1)
		}
	}
	return canvas
}
