// Package analysis computes difference statistics between an image and
// its simulated rendition.
package analysis

import (
	"fmt"
	"image"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"cvd-simulator/pkg/colorutil"
)

// ChangeThreshold is the per-channel delta above which a pixel counts as
// visibly changed.
const ChangeThreshold = 8

// saturationFloor excludes near-gray pixels from the hue shift estimate,
// where hue is numerically meaningless.
const saturationFloor = 0.15

// ChannelDelta summarizes the absolute change of one channel.
type ChannelDelta struct {
	Mean   float64
	StdDev float64
	Max    int
}

// Report summarizes how strongly a simulation altered an image.
type Report struct {
	Pixels       int // pixels sampled
	Red          ChannelDelta
	Green        ChannelDelta
	Blue         ChannelDelta
	MeanHueShift float64 // degrees, over pixels saturated in both renditions
	ChangedFrac  float64 // fraction of sampled pixels changed beyond ChangeThreshold
}

// Compare samples src and sim over their overlapping region and reports
// per-channel deltas, mean hue shift, and the fraction of visibly changed
// pixels. maxSamples bounds the work on large images by sampling a grid;
// 0 means every pixel.
func Compare(src, sim *image.RGBA, maxSamples int) Report {
	var report Report
	if src == nil || sim == nil {
		return report
	}

	w := src.Rect.Dx()
	if dw := sim.Rect.Dx(); dw < w {
		w = dw
	}
	h := src.Rect.Dy()
	if dh := sim.Rect.Dy(); dh < h {
		h = dh
	}
	if w <= 0 || h <= 0 {
		return report
	}

	stride := 1
	if maxSamples > 0 && w*h > maxSamples {
		stride = int(math.Sqrt(float64(w*h)/float64(maxSamples))) + 1
	}

	var dr, dg, db, hueShifts []float64
	changed := 0

	for y := 0; y < h; y += stride {
		si := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		mi := sim.PixOffset(sim.Rect.Min.X, sim.Rect.Min.Y+y)
		for x := 0; x < w; x += stride {
			so := si + x*4
			mo := mi + x*4

			deltaR := absInt(int(src.Pix[so]) - int(sim.Pix[mo]))
			deltaG := absInt(int(src.Pix[so+1]) - int(sim.Pix[mo+1]))
			deltaB := absInt(int(src.Pix[so+2]) - int(sim.Pix[mo+2]))

			dr = append(dr, float64(deltaR))
			dg = append(dg, float64(deltaG))
			db = append(db, float64(deltaB))
			if deltaR > ChangeThreshold || deltaG > ChangeThreshold || deltaB > ChangeThreshold {
				changed++
			}

			srcH, srcS, _ := colorutil.RGBToHSV(float64(src.Pix[so]), float64(src.Pix[so+1]), float64(src.Pix[so+2]))
			simH, simS, _ := colorutil.RGBToHSV(float64(sim.Pix[mo]), float64(sim.Pix[mo+1]), float64(sim.Pix[mo+2]))
			if srcS >= saturationFloor && simS >= saturationFloor {
				hueShifts = append(hueShifts, colorutil.HueDistance(srcH, simH))
			}
		}
	}

	report.Pixels = len(dr)
	if report.Pixels == 0 {
		return report
	}
	report.Red = summarize(dr)
	report.Green = summarize(dg)
	report.Blue = summarize(db)
	report.ChangedFrac = float64(changed) / float64(report.Pixels)
	if len(hueShifts) > 0 {
		report.MeanHueShift = stat.Mean(hueShifts, nil)
	}
	return report
}

func summarize(deltas []float64) ChannelDelta {
	maxDelta := 0
	for _, d := range deltas {
		if int(d) > maxDelta {
			maxDelta = int(d)
		}
	}
	sd := 0.0
	if len(deltas) > 1 {
		sd = stat.StdDev(deltas, nil)
	}
	return ChannelDelta{
		Mean:   stat.Mean(deltas, nil),
		StdDev: sd,
		Max:    maxDelta,
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// String renders the report as aligned text for the side panel and CLI.
func (r Report) String() string {
	if r.Pixels == 0 {
		return "no pixels compared"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d pixels sampled, %.1f%% visibly changed\n", r.Pixels, r.ChangedFrac*100)
	fmt.Fprintf(&b, "R delta %5.1f +/- %-5.1f max %3d\n", r.Red.Mean, r.Red.StdDev, r.Red.Max)
	fmt.Fprintf(&b, "G delta %5.1f +/- %-5.1f max %3d\n", r.Green.Mean, r.Green.StdDev, r.Green.Max)
	fmt.Fprintf(&b, "B delta %5.1f +/- %-5.1f max %3d\n", r.Blue.Mean, r.Blue.StdDev, r.Blue.Max)
	fmt.Fprintf(&b, "mean hue shift %.1f deg", r.MeanHueShift)
	return b.String()
}
