// Package simulate applies color-vision-deficiency transform matrices to
// RGBA pixel buffers using a gamma-correct linear-light round trip.
package simulate

import (
	"image"
	"runtime"
	"sync"

	"cvd-simulator/internal/cvd"
	"cvd-simulator/pkg/colorutil"
)

// parallelThreshold is the pixel count below which a transform stays on
// the calling goroutine.
const parallelThreshold = 64 * 1024

// Transform applies m to every pixel of src, writing results into dst.
// The buffers are matched top-left and the overlapping region is written
// in full; a zero-area overlap is a no-op. Each channel is decoded to
// linear light, multiplied through the matrix, re-encoded, clamped and
// rounded. Alpha is copied unchanged. dst may alias src.
func Transform(dst, src *image.RGBA, m cvd.Matrix) {
	transform(dst, src, m, rowExact)
}

// TransformFast is Transform with table-driven output quantization, meant
// for per-frame work such as the live camera preview. Results may differ
// from Transform by at most one level per channel.
func TransformFast(dst, src *image.RGBA, m cvd.Matrix) {
	transform(dst, src, m, rowFast)
}

// Apply transforms src into a newly allocated buffer with the same bounds.
func Apply(src *image.RGBA, m cvd.Matrix) *image.RGBA {
	if src == nil {
		return nil
	}
	dst := image.NewRGBA(src.Rect)
	Transform(dst, src, m)
	return dst
}

type rowFunc func(dst, src *image.RGBA, m cvd.Matrix, y, w int)

func transform(dst, src *image.RGBA, m cvd.Matrix, row rowFunc) {
	if dst == nil || src == nil {
		return
	}
	w := src.Rect.Dx()
	if dw := dst.Rect.Dx(); dw < w {
		w = dw
	}
	h := src.Rect.Dy()
	if dh := dst.Rect.Dy(); dh < h {
		h = dh
	}
	if w <= 0 || h <= 0 {
		return
	}

	// Pixels are independent, so rows can be split across goroutines.
	workers := runtime.GOMAXPROCS(0)
	if workers < 2 || w*h < parallelThreshold {
		for y := 0; y < h; y++ {
			row(dst, src, m, y, w)
		}
		return
	}
	if workers > h {
		workers = h
	}

	chunk := (h + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < h; start += chunk {
		end := start + chunk
		if end > h {
			end = h
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			for y := y0; y < y1; y++ {
				row(dst, src, m, y, w)
			}
		}(start, end)
	}
	wg.Wait()
}

func rowExact(dst, src *image.RGBA, m cvd.Matrix, y, w int) {
	si := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
	di := dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y)
	for x := 0; x < w; x++ {
		r := colorutil.ByteToLinear(src.Pix[si])
		g := colorutil.ByteToLinear(src.Pix[si+1])
		b := colorutil.ByteToLinear(src.Pix[si+2])
		tr, tg, tb := m.Apply(r, g, b)
		dst.Pix[di] = colorutil.LinearToByte(tr)
		dst.Pix[di+1] = colorutil.LinearToByte(tg)
		dst.Pix[di+2] = colorutil.LinearToByte(tb)
		dst.Pix[di+3] = src.Pix[si+3]
		si += 4
		di += 4
	}
}

func rowFast(dst, src *image.RGBA, m cvd.Matrix, y, w int) {
	si := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
	di := dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y)
	for x := 0; x < w; x++ {
		r := colorutil.ByteToLinear(src.Pix[si])
		g := colorutil.ByteToLinear(src.Pix[si+1])
		b := colorutil.ByteToLinear(src.Pix[si+2])
		tr, tg, tb := m.Apply(r, g, b)
		dst.Pix[di] = colorutil.LinearToByteFast(tr)
		dst.Pix[di+1] = colorutil.LinearToByteFast(tg)
		dst.Pix[di+2] = colorutil.LinearToByteFast(tb)
		dst.Pix[di+3] = src.Pix[si+3]
		si += 4
		di += 4
	}
}
