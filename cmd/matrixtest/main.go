// Command matrixtest loads a matrix table and reports its structure and anomalies.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"cvd-simulator/internal/cvd"
)

// rowSumTolerance bounds how far a row may drift from 1.0 before it is
// flagged. The calibrated matrices preserve the achromatic axis, so every
// row sums to 1 within rounding.
const rowSumTolerance = 1e-3

func main() {
	tablePath := flag.String("table", "", "Path to a matrix table file (default: built-in)")
	sweep := flag.Bool("sweep", false, "Print an interpolation sweep per mode")
	flag.Parse()

	store := cvd.NewStore()
	if err := store.Load(*tablePath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load matrix table: %v\n", err)
		os.Exit(1)
	}
	table := store.Table()

	source := *tablePath
	if source == "" {
		source = "built-in"
	}
	fmt.Printf("Loaded matrix table: %s\n", source)

	violations := 0
	for _, d := range table.Modes() {
		severities := table.Severities(d)
		fmt.Printf("\n=== %s: %d samples ===\n", d, len(severities))
		fmt.Printf("%-10s %10s %10s %10s   %s\n", "Severity", "Row 0", "Row 1", "Row 2", "Status")
		for _, s := range severities {
			m, ok := table.Resolve(d, s)
			if !ok {
				fmt.Fprintf(os.Stderr, "Resolve failed for %s at %.1f\n", d, s)
				violations++
				continue
			}
			sums := rowSums(m)
			status := "ok"
			if !sumsValid(sums) {
				status = "VIOLATION"
				violations++
			}
			fmt.Printf("%-10.1f %10.6f %10.6f %10.6f   %s\n", s, sums[0], sums[1], sums[2], status)
		}

		if hasZeroSample(severities) {
			m, _ := table.Resolve(d, 0)
			dev := identityDeviation(m)
			status := "ok"
			if dev > 1e-6 {
				status = "VIOLATION"
				violations++
			}
			fmt.Printf("Zero-severity identity deviation: %.2e   %s\n", dev, status)
		}

		if *sweep {
			printSweep(table, d, severities)
		}
	}

	if violations > 0 {
		fmt.Printf("\nTotal: %d violations\n", violations)
		os.Exit(1)
	}
	fmt.Println("\nAll checks passed.")
}

func rowSums(m cvd.Matrix) [3]float64 {
	var sums [3]float64
	for i := 0; i < 3; i++ {
		sums[i] = m[i][0] + m[i][1] + m[i][2]
	}
	return sums
}

func sumsValid(sums [3]float64) bool {
	for _, s := range sums {
		if math.Abs(s-1) > rowSumTolerance {
			return false
		}
	}
	return true
}

// identityDeviation returns the largest element-wise distance from the
// identity matrix.
func identityDeviation(m cvd.Matrix) float64 {
	maxDev := 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if dev := math.Abs(m[i][j] - want); dev > maxDev {
				maxDev = dev
			}
		}
	}
	return maxDev
}

func hasZeroSample(severities []float64) bool {
	return len(severities) > 0 && severities[0] == 0
}

// printSweep resolves evenly spaced severities across the calibrated range
// so interpolation between samples can be inspected.
func printSweep(table *cvd.Table, d cvd.Deficiency, severities []float64) {
	if len(severities) == 0 {
		return
	}
	lo := severities[0]
	hi := severities[len(severities)-1]

	fmt.Printf("\nInterpolation sweep (%.1f to %.1f):\n", lo, hi)
	fmt.Printf("%-10s %12s\n", "Severity", "Deviation")
	const steps = 20
	for i := 0; i <= steps; i++ {
		s := lo + (hi-lo)*float64(i)/steps
		m, ok := table.Resolve(d, s)
		if !ok {
			continue
		}
		fmt.Printf("%-10.2f %12.6f\n", s, identityDeviation(m))
	}
}
