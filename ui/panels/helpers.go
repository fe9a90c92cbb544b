package panels

import (
	"fmt"
	"image"
	"image/color"

	"cvd-simulator/pkg/colorutil"
)

const (
	paletteStripHeight = 24
	paletteSwatchWidth = 32
)

// paletteStrip renders the preview palette as one row of solid swatches.
func paletteStrip() *image.RGBA {
	palette := colorutil.PreviewPalette()
	strip := image.NewRGBA(image.Rect(0, 0, len(palette)*paletteSwatchWidth, paletteStripHeight))

	for i, c := range palette {
		for y := 0; y < paletteStripHeight; y++ {
			for x := i * paletteSwatchWidth; x < (i+1)*paletteSwatchWidth; x++ {
				strip.SetRGBA(x, y, c)
			}
		}
	}
	return strip
}

// formatRGB renders a pixel value for the probe readout.
func formatRGB(c color.RGBA) string {
	return fmt.Sprintf("R %3d  G %3d  B %3d", c.R, c.G, c.B)
}
