package colorutil

import "math"

// SRGBToLinear converts a normalized sRGB-encoded channel value to linear
// light using the standard inverse transfer function.
func SRGBToLinear(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// LinearToSRGB converts a linear-light channel value back to sRGB encoding
// using the standard forward transfer function.
func LinearToSRGB(l float64) float64 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1.0/2.4) - 0.055
}

// LinearToByte converts linear light to an 8-bit sRGB channel, clamping to
// the displayable range and rounding to the nearest level.
func LinearToByte(l float64) uint8 {
	s := LinearToSRGB(l)
	if s <= 0 {
		return 0
	}
	if s >= 1 {
		return 255
	}
	return uint8(s*255.0 + 0.5)
}
