// Command cvdsim applies color vision deficiency simulation to image files.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"cvd-simulator/internal/analysis"
	"cvd-simulator/internal/cvd"
	"cvd-simulator/internal/daltonize"
	"cvd-simulator/internal/imageio"
	"cvd-simulator/internal/simulate"
)

func main() {
	in := flag.String("in", "", "Path to input image")
	out := flag.String("out", "", "Path to output image (default: <in>-<mode><ext>)")
	mode := flag.String("mode", "deutan", "Deficiency: protan, deutan, tritan, or all")
	severity := flag.Float64("severity", 1.0, "Severity in [0,1]")
	dalt := flag.Bool("daltonize", false, "Apply correction instead of simulation")
	stats := flag.Bool("stats", false, "Print difference statistics per output")
	tablePath := flag.String("table", "", "Path to a matrix table file (default: built-in)")
	flag.Parse()

	if *in == "" {
		fmt.Println("Usage: cvdsim -in <image> [-out <image>] [-mode protan|deutan|tritan|all] [-severity 0..1] [-daltonize] [-stats] [-table <file>]")
		os.Exit(1)
	}

	store := cvd.NewStore()
	if err := store.Load(*tablePath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load matrix table: %v\n", err)
		os.Exit(1)
	}

	src, err := imageio.Load(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	bounds := src.Bounds()
	fmt.Printf("Loaded %s: %dx%d pixels\n", *in, bounds.Dx(), bounds.Dy())

	var modes []cvd.Deficiency
	if strings.EqualFold(*mode, "all") {
		if *out != "" {
			fmt.Fprintln(os.Stderr, "-out cannot be combined with -mode all; outputs are named after the input")
			os.Exit(1)
		}
		modes = cvd.Deficiencies()
	} else {
		d, ok := cvd.ParseDeficiency(*mode)
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown mode %q (want protan, deutan, tritan, or all)\n", *mode)
			os.Exit(1)
		}
		modes = []cvd.Deficiency{d}
	}

	for _, d := range modes {
		outPath := *out
		if outPath == "" {
			outPath = suffixedPath(*in, d.Key(), *dalt)
		}
		if err := run(store, src, d, *severity, *dalt, *stats, outPath); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}
}

func run(store *cvd.Store, src *image.RGBA, d cvd.Deficiency, severity float64, dalt, stats bool, outPath string) error {
	verb := "Simulating"
	if dalt {
		verb = "Daltonizing"
	}
	fmt.Printf("\n=== %s %s at severity %.2f ===\n", verb, d, severity)

	var m cvd.Matrix
	var ok bool
	if dalt {
		m, ok = daltonize.Resolve(store, d, severity)
	} else {
		m, ok = store.Resolve(d, severity)
	}
	if !ok {
		return fmt.Errorf("no matrix available for %s", d)
	}

	result := simulate.Apply(src, m)
	if err := imageio.Save(outPath, result); err != nil {
		return fmt.Errorf("failed to save %s: %w", outPath, err)
	}
	fmt.Printf("Wrote %s\n", outPath)

	if stats {
		report := analysis.Compare(src, result, 0)
		fmt.Printf("\n%s\n", report)
	}
	return nil
}

// suffixedPath derives an output name like photo-deutan.png from photo.png.
func suffixedPath(in, key string, dalt bool) string {
	ext := filepath.Ext(in)
	base := strings.TrimSuffix(in, ext)
	if dalt {
		key += "-corrected"
	}
	if ext == "" {
		ext = ".png"
	}
	return base + "-" + key + ext
}
