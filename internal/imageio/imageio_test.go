package imageio

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func opaqueTestImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8((x * 11) % 256),
				G: uint8((y * 17) % 256),
				B: uint8((x ^ y) % 256),
				A: 255,
			})
		}
	}
	return img
}

func TestSaveLoadRoundTrip(t *testing.T) {
	// Lossless formats only; JPEG is exercised separately.
	tests := []string{"out.png", "out.bmp", "out.tiff"}
	src := opaqueTestImage(20, 14)

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := Save(path, src); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got.Rect != src.Rect {
				t.Fatalf("bounds %v, want %v", got.Rect, src.Rect)
			}
			if !bytes.Equal(got.Pix, src.Pix) {
				t.Error("pixels changed across save/load")
			}
		})
	}
}

func TestSaveJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	if err := Save(path, opaqueTestImage(32, 32)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Rect.Dx() != 32 || got.Rect.Dy() != 32 {
		t.Errorf("bounds %v after JPEG round trip", got.Rect)
	}
}

func TestSaveRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.webp")
	if err := Save(path, opaqueTestImage(4, 4)); err == nil {
		t.Error("Save accepted an unsupported extension")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("Load of missing file succeeded")
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.png")
	if err := os.WriteFile(path, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load of garbage data succeeded")
	}
}

func TestToRGBAConvertsOtherModels(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 5, 5))
	gray.SetGray(2, 2, color.Gray{Y: 200})

	rgba := ToRGBA(gray)
	if got := rgba.RGBAAt(2, 2); got.R != 200 || got.G != 200 || got.B != 200 || got.A != 255 {
		t.Errorf("gray pixel converted to %v", got)
	}

	// Already-RGBA input comes back without copying.
	src := opaqueTestImage(3, 3)
	if ToRGBA(src) != src {
		t.Error("ToRGBA copied an RGBA image")
	}
}

func TestScaleDimensions(t *testing.T) {
	out := Scale(opaqueTestImage(100, 50), 25, 10)
	if out.Rect.Dx() != 25 || out.Rect.Dy() != 10 {
		t.Errorf("scaled to %v", out.Rect)
	}
}

func TestScaleToFitPreservesAspect(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		maxW, maxH   int
		wantW, wantH int
	}{
		{"wide image", 200, 100, 50, 50, 50, 25},
		{"tall image", 100, 200, 50, 50, 25, 50},
		{"already fits", 30, 20, 50, 50, 30, 20},
		{"exact fit", 50, 50, 50, 50, 50, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ScaleToFit(opaqueTestImage(tt.w, tt.h), tt.maxW, tt.maxH)
			if out.Rect.Dx() != tt.wantW || out.Rect.Dy() != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", out.Rect.Dx(), out.Rect.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestIsSupportedFormat(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"scan.png", true},
		{"photo.JPG", true},
		{"doc.tiff", true},
		{"old.bmp", true},
		{"clip.mp4", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := IsSupportedFormat(tt.path); got != tt.want {
			t.Errorf("IsSupportedFormat(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
