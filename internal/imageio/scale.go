package imageio

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Scale resamples img to exactly w x h.
func Scale(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Rect, img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// ScaleToFit resamples img to fit within maxW x maxH while preserving the
// aspect ratio. Images already inside the box are returned scaled 1:1.
func ScaleToFit(img image.Image, maxW, maxH int) *image.RGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || maxW <= 0 || maxH <= 0 {
		return image.NewRGBA(image.Rectangle{})
	}
	if w <= maxW && h <= maxH {
		return ToRGBA(img)
	}

	scale := float64(maxW) / float64(w)
	if s := float64(maxH) / float64(h); s < scale {
		scale = s
	}
	outW := int(float64(w)*scale + 0.5)
	outH := int(float64(h)*scale + 0.5)
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}
	return Scale(img, outW, outH)
}
