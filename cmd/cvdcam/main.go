// Command cvdcam runs color vision deficiency simulation live on a camera feed.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"time"

	"gocv.io/x/gocv"

	"cvd-simulator/internal/cvd"
	"cvd-simulator/internal/daltonize"
	"cvd-simulator/internal/imageio"
	"cvd-simulator/internal/simulate"
	"cvd-simulator/ui/prefs"
)

const (
	prefKeyMode     = "cvdcam.mode"
	prefKeySeverity = "cvdcam.severity"
	prefKeyMirror   = "cvdcam.mirror"
)

func main() {
	device := flag.String("device", "0", "Capture device ID, video file, or stream URL")
	tablePath := flag.String("table", "", "Path to a matrix table file (default: built-in)")
	maxWidth := flag.Int("maxwidth", 0, "Downscale frames wider than this before simulating (0 = off)")
	flag.Parse()

	store := cvd.NewStore()
	if err := store.Load(*tablePath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load matrix table: %v\n", err)
		os.Exit(1)
	}

	p := prefs.Load()
	mode, ok := cvd.ParseDeficiency(p.String(prefKeyMode))
	if !ok {
		mode = cvd.Deuteranopia
	}
	severity := clamp01(p.FloatWithFallback(prefKeySeverity, 1.0))
	mirror := p.Bool(prefKeyMirror, true)
	dalt := false
	showOriginal := false

	webcam, err := gocv.OpenVideoCapture(*device)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open capture device %s: %v\n", *device, err)
		os.Exit(1)
	}
	defer webcam.Close()

	window := gocv.NewWindow("cvdcam")
	defer window.Close()

	frame := gocv.NewMat()
	defer frame.Close()
	rgbaMat := gocv.NewMat()
	defer rgbaMat.Close()
	bgr := gocv.NewMat()
	defer bgr.Close()

	var matrix cvd.Matrix
	matrixOK := false
	resolve := func() {
		if dalt {
			matrix, matrixOK = daltonize.Resolve(store, mode, severity)
		} else {
			matrix, matrixOK = store.Resolve(mode, severity)
		}
		window.SetWindowTitle(title(mode, severity, dalt, showOriginal))
	}
	resolve()

	fmt.Printf("Capture device: %s\n", *device)
	fmt.Println("Keys: m = cycle mode, +/- = severity, d = daltonize, o = original, f = flip, s = snapshot, q = quit")

	var capture, sim *image.RGBA
	for {
		if ok := webcam.Read(&frame); !ok {
			fmt.Fprintf(os.Stderr, "Capture device %s closed\n", *device)
			break
		}
		if frame.Empty() {
			continue
		}

		if mirror {
			gocv.Flip(frame, &frame, 1)
		}

		gocv.CvtColor(frame, &rgbaMat, gocv.ColorBGRToRGBA)
		capture = intoRGBA(rgbaMat, capture)
		src := capture
		if *maxWidth > 0 && capture.Rect.Dx() > *maxWidth {
			src = imageio.ScaleToFit(capture, *maxWidth, capture.Rect.Dy())
		}

		display := src
		if matrixOK {
			if sim == nil || sim.Rect != src.Rect {
				sim = image.NewRGBA(src.Rect)
			}
			simulate.TransformFast(sim, src, matrix)
			if !showOriginal {
				display = sim
			}
		}

		out, err := gocv.NewMatFromBytes(display.Rect.Dy(), display.Rect.Dx(), gocv.MatTypeCV8UC4, display.Pix)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to convert frame: %v\n", err)
			break
		}
		gocv.CvtColor(out, &bgr, gocv.ColorRGBAToBGR)
		out.Close()
		window.IMShow(bgr)

		switch window.WaitKey(1) {
		case 'q', 27:
			savePrefs(p, mode, severity, mirror)
			return
		case 'm':
			mode = nextMode(mode)
			resolve()
		case '+', '=':
			severity = clamp01(severity + 0.1)
			resolve()
		case '-', '_':
			severity = clamp01(severity - 0.1)
			resolve()
		case 'd':
			dalt = !dalt
			resolve()
		case 'o':
			showOriginal = !showOriginal
			window.SetWindowTitle(title(mode, severity, dalt, showOriginal))
		case 'f':
			mirror = !mirror
		case 's':
			snapshot(display)
		}
	}
	savePrefs(p, mode, severity, mirror)
}

// intoRGBA copies an RGBA Mat into dst, reallocating only on size change.
func intoRGBA(mat gocv.Mat, dst *image.RGBA) *image.RGBA {
	h, w := mat.Rows(), mat.Cols()
	if dst == nil || dst.Rect.Dx() != w || dst.Rect.Dy() != h {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	data, err := mat.ToBytes()
	if err != nil {
		return dst
	}
	copy(dst.Pix, data)
	return dst
}

func title(d cvd.Deficiency, severity float64, dalt, showOriginal bool) string {
	if showOriginal {
		return "cvdcam - original"
	}
	if dalt {
		return fmt.Sprintf("cvdcam - daltonized %s %.0f%%", d, severity*100)
	}
	return fmt.Sprintf("cvdcam - %s %.0f%%", d, severity*100)
}

func nextMode(d cvd.Deficiency) cvd.Deficiency {
	modes := cvd.Deficiencies()
	for i, m := range modes {
		if m == d {
			return modes[(i+1)%len(modes)]
		}
	}
	return modes[0]
}

func snapshot(img *image.RGBA) {
	name := fmt.Sprintf("cvdcam-%s.png", time.Now().Format("20060102-150405"))
	if err := imageio.Save(name, img); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save snapshot: %v\n", err)
		return
	}
	fmt.Printf("Saved %s\n", name)
}

func savePrefs(p *prefs.Prefs, mode cvd.Deficiency, severity float64, mirror bool) {
	p.SetString(prefKeyMode, mode.Key())
	p.SetFloat(prefKeySeverity, severity)
	p.SetBool(prefKeyMirror, mirror)
	if err := p.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save preferences: %v\n", err)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
