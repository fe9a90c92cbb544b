// Package canvas provides drawing primitives for the image canvas.
package canvas

import (
	"image"
	"image/color"
)

var (
	captionColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	probeColor   = color.RGBA{R: 255, G: 199, B: 0, A: 255}
)

// digitPatterns contains 3x5 pixel patterns for digits 0-9.
// Each digit is represented as 5 rows of 3 bits.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// letterPatterns contains 3x5 pixel patterns for letters A-Z and common symbols.
// Each letter is represented as 5 rows of 3 bits.
var letterPatterns = map[rune][5]uint8{
	'A': {0b010, 0b101, 0b111, 0b101, 0b101},
	'B': {0b110, 0b101, 0b110, 0b101, 0b110},
	'C': {0b011, 0b100, 0b100, 0b100, 0b011},
	'D': {0b110, 0b101, 0b101, 0b101, 0b110},
	'E': {0b111, 0b100, 0b110, 0b100, 0b111},
	'F': {0b111, 0b100, 0b110, 0b100, 0b100},
	'G': {0b011, 0b100, 0b101, 0b101, 0b011},
	'H': {0b101, 0b101, 0b111, 0b101, 0b101},
	'I': {0b111, 0b010, 0b010, 0b010, 0b111},
	'J': {0b001, 0b001, 0b001, 0b101, 0b010},
	'K': {0b101, 0b101, 0b110, 0b101, 0b101},
	'L': {0b100, 0b100, 0b100, 0b100, 0b111},
	'M': {0b101, 0b111, 0b101, 0b101, 0b101},
	'N': {0b101, 0b111, 0b111, 0b101, 0b101},
	'O': {0b010, 0b101, 0b101, 0b101, 0b010},
	'P': {0b110, 0b101, 0b110, 0b100, 0b100},
	'Q': {0b010, 0b101, 0b101, 0b111, 0b011},
	'R': {0b110, 0b101, 0b110, 0b101, 0b101},
	'S': {0b011, 0b100, 0b010, 0b001, 0b110},
	'T': {0b111, 0b010, 0b010, 0b010, 0b010},
	'U': {0b101, 0b101, 0b101, 0b101, 0b111},
	'V': {0b101, 0b101, 0b101, 0b101, 0b010},
	'W': {0b101, 0b101, 0b101, 0b111, 0b101},
	'X': {0b101, 0b101, 0b010, 0b101, 0b101},
	'Y': {0b101, 0b101, 0b010, 0b010, 0b010},
	'Z': {0b111, 0b001, 0b010, 0b100, 0b111},
	'+': {0b000, 0b010, 0b111, 0b010, 0b000},
	'-': {0b000, 0b000, 0b111, 0b000, 0b000},
	'*': {0b000, 0b101, 0b010, 0b101, 0b000},
	' ': {0b000, 0b000, 0b000, 0b000, 0b000},
}

// getCharPattern returns the 3x5 pixel pattern for a character.
// Returns a zero pattern for unsupported characters.
func getCharPattern(ch rune) [5]uint8 {
	if ch >= '0' && ch <= '9' {
		return digitPatterns[ch-'0']
	}
	// Convert lowercase to uppercase
	if ch >= 'a' && ch <= 'z' {
		ch = ch - 'a' + 'A'
	}
	if pattern, ok := letterPatterns[ch]; ok {
		return pattern
	}
	return [5]uint8{} // Empty pattern for unsupported characters
}

// drawLabel draws text with the built-in 3x5 font, anchored at the top
// left of the text, with a one pixel dark halo for contrast.
func drawLabel(output *image.RGBA, label string, x, y int, col color.RGBA, scale int) {
	if scale < 1 {
		scale = 1
	}
	if scale > 6 {
		scale = 6
	}

	charWidth := 3 * scale
	spacing := scale
	bounds := output.Bounds()
	halo := color.RGBA{R: 0, G: 0, B: 0, A: 255}

	for i, ch := range []rune(label) {
		pattern := getCharPattern(ch)
		charX := x + i*(charWidth+spacing)

		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if (pattern[row] & (1 << (2 - c))) == 0 {
					continue
				}
				for dy := -1; dy <= scale; dy++ {
					for dx := -1; dx <= scale; dx++ {
						px := charX + c*scale + dx
						py := y + row*scale + dy
						if px < bounds.Min.X || px >= bounds.Max.X ||
							py < bounds.Min.Y || py >= bounds.Max.Y {
							continue
						}
						if dy >= 0 && dy < scale && dx >= 0 && dx < scale {
							output.SetRGBA(px, py, col)
						} else if output.RGBAAt(px, py) != col {
							output.SetRGBA(px, py, halo)
						}
					}
				}
			}
		}
	}
}

// drawCrosshair draws a small open crosshair centered on (cx, cy).
func drawCrosshair(output *image.RGBA, cx, cy int, col color.RGBA) {
	const arm = 8
	const gap = 2

	bounds := output.Bounds()
	set := func(x, y int) {
		if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			output.SetRGBA(x, y, col)
		}
	}

	for d := gap; d <= arm; d++ {
		set(cx-d, cy)
		set(cx+d, cy)
		set(cx, cy-d)
		set(cx, cy+d)
	}
}
