// Package image provides the RGB pixel buffer, image loading, and masked compositing.
package image

import (
	"fmt"
	"image"

	"tri-morph/pkg/geometry"

	"golang.org/x/image/draw"
)

// Channels is the number of interleaved 8-bit channels per pixel.
const Channels = 3

// Image is a row-major RGB buffer with 3 interleaved 8-bit channels per pixel.
type Image struct {
	Width  int
	Height int
	Pix    []uint8 // len = Width*Height*Channels
}

// New allocates a black image.
func New(width, height int) *Image {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*Channels),
	}
}

// FromPix wraps an existing pixel buffer after checking its length.
func FromPix(width, height int, pix []uint8) (*Image, error) {
	if width < 0 || height < 0 || len(pix) != width*height*Channels {
		return nil, fmt.Errorf("pixel buffer of %d bytes does not match %dx%dx%d", len(pix), width, height, Channels)
	}
	return &Image{Width: width, Height: height, Pix: pix}, nil
}

// Clone returns a deep copy.
func (m *Image) Clone() *Image {
	pix := make([]uint8, len(m.Pix))
	copy(pix, m.Pix)
	return &Image{Width: m.Width, Height: m.Height, Pix: pix}
}

// Stride returns the number of bytes per row.
func (m *Image) Stride() int {
	return m.Width * Channels
}

// Rect returns the pixel rectangle of the image.
func (m *Image) Rect() geometry.RectInt {
	return geometry.RectInt{Width: m.Width, Height: m.Height}
}

// PointBounds returns the rectangle whose inclusive Contains test accepts
// exactly the valid pixel coordinates.
func (m *Image) PointBounds() geometry.RectInt {
	return geometry.RectInt{Width: m.Width - 1, Height: m.Height - 1}
}

// In reports whether (x, y) is a valid pixel coordinate.
func (m *Image) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// PixOffset returns the index of the first channel of pixel (x, y).
func (m *Image) PixOffset(x, y int) int {
	return y*m.Stride() + x*Channels
}

// RGB returns the channels at (x, y). Out-of-range pixels read as black.
func (m *Image) RGB(x, y int) (r, g, b uint8) {
	if !m.In(x, y) {
		return 0, 0, 0
	}
	i := m.PixOffset(x, y)
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
}

// SetRGB writes the channels at (x, y). Out-of-range writes are ignored.
func (m *Image) SetRGB(x, y int, r, g, b uint8) {
	if !m.In(x, y) {
		return
	}
	i := m.PixOffset(x, y)
	m.Pix[i], m.Pix[i+1], m.Pix[i+2] = r, g, b
}

// Fill sets every pixel in rect (clipped to the image) to one color.
func (m *Image) Fill(rect geometry.RectInt, r, g, b uint8) {
	rect = rect.Intersect(m.Rect())
	for y := rect.Y; y < rect.Y+rect.Height; y++ {
		for x := rect.X; x < rect.X+rect.Width; x++ {
			i := m.PixOffset(x, y)
			m.Pix[i], m.Pix[i+1], m.Pix[i+2] = r, g, b
		}
	}
}

// Crop copies rect into a new image of rect's size. Pixels of rect lying
// outside m are black.
func (m *Image) Crop(rect geometry.RectInt) *Image {
	out := New(rect.Width, rect.Height)
	src := rect.Intersect(m.Rect())
	if src.Empty() {
		return out
	}
	n := src.Width * Channels
	for y := src.Y; y < src.Y+src.Height; y++ {
		si := m.PixOffset(src.X, y)
		di := out.PixOffset(src.X-rect.X, y-rect.Y)
		copy(out.Pix[di:di+n], m.Pix[si:si+n])
	}
	return out
}

// Reframe returns a width x height image holding m copied at the origin,
// cropped or padded with black as needed. Pixels are never scaled. The
// receiver is not modified.
func (m *Image) Reframe(width, height int) *Image {
	if width == m.Width && height == m.Height {
		return m.Clone()
	}
	return m.Crop(geometry.RectInt{Width: width, Height: height})
}

// FromImage converts any image.Image to an RGB buffer with its origin at (0, 0).
// Alpha is dropped after compositing over black.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	rgba, ok := src.(*image.RGBA)
	if !ok || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	}

	out := New(b.Dx(), b.Dy())
	for y := 0; y < out.Height; y++ {
		si := rgba.PixOffset(0, y)
		di := out.PixOffset(0, y)
		for x := 0; x < out.Width; x++ {
			out.Pix[di+0] = rgba.Pix[si+0]
			out.Pix[di+1] = rgba.Pix[si+1]
			out.Pix[di+2] = rgba.Pix[si+2]
			si += 4
			di += Channels
		}
	}
	return out
}

// RGBA converts the buffer to an opaque *image.RGBA.
func (m *Image) RGBA() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		si := m.PixOffset(0, y)
		di := dst.PixOffset(0, y)
		for x := 0; x < m.Width; x++ {
			dst.Pix[di+0] = m.Pix[si+0]
			dst.Pix[di+1] = m.Pix[si+1]
			dst.Pix[di+2] = m.Pix[si+2]
			dst.Pix[di+3] = 255
			si += Channels
			di += 4
		}
	}
	return dst
}
