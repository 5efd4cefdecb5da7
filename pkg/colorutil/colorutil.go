// Package colorutil provides shared color utilities for overlay rendering.
package colorutil

import (
	"image/color"
)

// Common overlay colors.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Cyan    = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Blue    = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Red     = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// Named maps the lower-case color names accepted on the command line.
var Named = map[string]color.RGBA{
	"black":   Black,
	"white":   White,
	"cyan":    Cyan,
	"magenta": Magenta,
	"blue":    Blue,
	"green":   Green,
	"yellow":  Yellow,
	"red":     Red,
}

// Parse returns the named color, or fallback if the name is unknown.
func Parse(name string, fallback color.RGBA) color.RGBA {
	if c, ok := Named[name]; ok {
		return c
	}
	return fallback
}

// Luminance returns the Rec. 601 luma of an RGB triple in the range 0-255.
func Luminance(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// Contrasting returns black or white, whichever reads better on top of the given color.
func Contrasting(r, g, b uint8) color.RGBA {
	if Luminance(r, g, b) > 127 {
		return Black
	}
	return White
}
