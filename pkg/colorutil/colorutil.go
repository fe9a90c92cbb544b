// Package colorutil provides shared color conversion utilities for the
// CVD simulator application.
package colorutil

import (
	"image/color"
	"math"
)

// Palette colors rendered by the confusion preview strip. The set leans on
// hues that color-vision deficiencies are known to collapse (red/green,
// blue/purple, yellow/orange).
var (
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red    = color.RGBA{R: 214, G: 45, B: 32, A: 255}
	Green  = color.RGBA{R: 0, G: 135, B: 68, A: 255}
	Blue   = color.RGBA{R: 0, G: 87, B: 231, A: 255}
	Yellow = color.RGBA{R: 255, G: 199, B: 0, A: 255}
	Orange = color.RGBA{R: 255, G: 118, B: 0, A: 255}
	Purple = color.RGBA{R: 129, G: 38, B: 192, A: 255}
	Brown  = color.RGBA{R: 121, G: 85, B: 61, A: 255}
	Gray   = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// PreviewPalette returns the swatch colors in display order.
func PreviewPalette() []color.RGBA {
	return []color.RGBA{Red, Green, Blue, Yellow, Orange, Purple, Brown, Gray}
}

// RGBToHSV converts RGB (0-255) to HSV with H in degrees (0-360) and
// S, V in 0-1.
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC

	if maxC == 0 {
		s = 0
	} else {
		s = diff / maxC
	}

	if diff == 0 {
		h = 0
	} else if maxC == r {
		h = 60 * math.Mod((g-b)/diff, 6)
	} else if maxC == g {
		h = 60 * ((b-r)/diff + 2)
	} else {
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	return h, s, v
}

// HueDistance returns the shortest angular distance between two hues in
// degrees, in 0-180.
func HueDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}
