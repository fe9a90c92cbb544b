package analysis

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestCompareIdenticalImages(t *testing.T) {
	img := solidImage(16, 16, color.RGBA{120, 80, 200, 255})
	r := Compare(img, img, 0)

	if r.Pixels != 256 {
		t.Errorf("sampled %d pixels, want 256", r.Pixels)
	}
	if r.Red.Mean != 0 || r.Green.Mean != 0 || r.Blue.Mean != 0 {
		t.Errorf("nonzero channel deltas for identical images: %+v", r)
	}
	if r.ChangedFrac != 0 {
		t.Errorf("ChangedFrac = %v, want 0", r.ChangedFrac)
	}
	if r.MeanHueShift != 0 {
		t.Errorf("MeanHueShift = %v, want 0", r.MeanHueShift)
	}
}

func TestCompareUniformShift(t *testing.T) {
	src := solidImage(8, 8, color.RGBA{100, 100, 100, 255})
	sim := solidImage(8, 8, color.RGBA{120, 100, 90, 255})
	r := Compare(src, sim, 0)

	if r.Red.Mean != 20 || r.Red.Max != 20 || r.Red.StdDev != 0 {
		t.Errorf("red delta %+v, want mean/max 20, stddev 0", r.Red)
	}
	if r.Green.Mean != 0 {
		t.Errorf("green delta %+v, want 0", r.Green)
	}
	if r.Blue.Mean != 10 {
		t.Errorf("blue delta %+v, want mean 10", r.Blue)
	}
	// Red moved by 20, past the visibility threshold.
	if r.ChangedFrac != 1 {
		t.Errorf("ChangedFrac = %v, want 1", r.ChangedFrac)
	}
}

func TestCompareHueShift(t *testing.T) {
	// Saturated red against saturated yellow-green: a large, well-defined
	// hue rotation.
	src := solidImage(4, 4, color.RGBA{255, 0, 0, 255})
	sim := solidImage(4, 4, color.RGBA{200, 200, 0, 255})
	r := Compare(src, sim, 0)

	if r.MeanHueShift < 50 || r.MeanHueShift > 70 {
		t.Errorf("MeanHueShift = %v, want about 60", r.MeanHueShift)
	}
}

func TestCompareSkipsDesaturatedHues(t *testing.T) {
	src := solidImage(4, 4, color.RGBA{255, 0, 0, 255})
	sim := solidImage(4, 4, color.RGBA{128, 128, 128, 255})
	r := Compare(src, sim, 0)

	if r.MeanHueShift != 0 {
		t.Errorf("MeanHueShift = %v for a gray rendition, want 0", r.MeanHueShift)
	}
	if r.ChangedFrac != 1 {
		t.Errorf("ChangedFrac = %v, want 1", r.ChangedFrac)
	}
}

func TestCompareSampling(t *testing.T) {
	src := solidImage(200, 200, color.RGBA{10, 20, 30, 255})
	sim := solidImage(200, 200, color.RGBA{30, 20, 10, 255})
	r := Compare(src, sim, 1000)

	if r.Pixels > 1200 {
		t.Errorf("sampled %d pixels, want at most about 1000", r.Pixels)
	}
	if r.Pixels == 0 {
		t.Fatal("sampled no pixels")
	}
	if r.Red.Mean != 20 {
		t.Errorf("red mean %v, want 20", r.Red.Mean)
	}
}

func TestCompareNilAndEmpty(t *testing.T) {
	img := solidImage(4, 4, color.RGBA{1, 2, 3, 255})
	if r := Compare(nil, img, 0); r.Pixels != 0 {
		t.Errorf("nil src sampled %d pixels", r.Pixels)
	}
	if r := Compare(img, nil, 0); r.Pixels != 0 {
		t.Errorf("nil sim sampled %d pixels", r.Pixels)
	}
	empty := image.NewRGBA(image.Rectangle{})
	if r := Compare(empty, empty, 0); r.Pixels != 0 {
		t.Errorf("empty buffers sampled %d pixels", r.Pixels)
	}
}

func TestReportString(t *testing.T) {
	src := solidImage(4, 4, color.RGBA{100, 100, 100, 255})
	sim := solidImage(4, 4, color.RGBA{120, 100, 90, 255})
	s := Compare(src, sim, 0).String()

	for _, want := range []string{"16 pixels", "R delta", "hue shift"} {
		if !strings.Contains(s, want) {
			t.Errorf("report %q missing %q", s, want)
		}
	}

	if got := (Report{}).String(); got != "no pixels compared" {
		t.Errorf("empty report rendered %q", got)
	}
}
