package cvd

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func loadEmbedded(t *testing.T) *Table {
	t.Helper()
	table, err := ParseTable(machadoJSON)
	if err != nil {
		t.Fatalf("embedded calibration data failed to parse: %v", err)
	}
	return table
}

func TestEmbeddedTableCoverage(t *testing.T) {
	table := loadEmbedded(t)

	if d := cmp.Diff(Deficiencies(), table.Modes()); d != "" {
		t.Errorf("modes mismatch (-want +got):\n%s", d)
	}

	want := make([]float64, 11)
	for i := range want {
		want[i] = float64(i) / 10.0
	}
	for _, mode := range Deficiencies() {
		got := table.Severities(mode)
		if d := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); d != "" {
			t.Errorf("%v severity samples mismatch (-want +got):\n%s", mode, d)
		}
	}
}

func TestEmbeddedTableIdentityAtZeroSeverity(t *testing.T) {
	table := loadEmbedded(t)
	for _, mode := range Deficiencies() {
		got, ok := table.Resolve(mode, 0)
		if !ok {
			t.Fatalf("%v unavailable", mode)
		}
		if got != Identity() {
			t.Errorf("%v at severity 0 is not the identity:\n%s", mode, diffMatrix(Identity(), got, 0))
		}
	}
}

// Each calibration matrix maps white to white in linear light, so every
// row must sum to 1 within publication rounding.
func TestEmbeddedTableRowsSumToOne(t *testing.T) {
	table := loadEmbedded(t)
	for _, mode := range Deficiencies() {
		for _, sev := range table.Severities(mode) {
			m, ok := table.Resolve(mode, sev)
			if !ok {
				t.Fatalf("%v at %v unavailable", mode, sev)
			}
			for r := 0; r < 3; r++ {
				sum := m[r][0] + m[r][1] + m[r][2]
				if math.Abs(sum-1.0) > 2e-5 {
					t.Errorf("%v severity %.1f row %d sums to %v", mode, sev, r, sum)
				}
			}
		}
	}
}

func TestEmbeddedTableFullSeverityValues(t *testing.T) {
	table := loadEmbedded(t)
	tests := []struct {
		mode Deficiency
		row0 [3]float64
	}{
		{Protanopia, [3]float64{0.152286, 1.052583, -0.204868}},
		{Deuteranopia, [3]float64{0.367322, 0.860646, -0.227968}},
		{Tritanopia, [3]float64{1.255528, -0.076749, -0.178779}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			m, ok := table.Resolve(tt.mode, 1.0)
			if !ok {
				t.Fatal("unavailable")
			}
			for c := 0; c < 3; c++ {
				if math.Abs(m[0][c]-tt.row0[c]) > 1e-9 {
					t.Errorf("row 0 col %d = %v, want %v", c, m[0][c], tt.row0[c])
				}
			}
		})
	}
}

func TestEmbeddedTableClampsAboveCalibratedRange(t *testing.T) {
	table := loadEmbedded(t)
	atMax, ok := table.Resolve(Tritanopia, 1.0)
	if !ok {
		t.Fatal("unavailable")
	}
	over, ok := table.Resolve(Tritanopia, 2.0)
	if !ok {
		t.Fatal("unavailable")
	}
	if over != atMax {
		t.Errorf("severity 2.0 did not clamp to the 1.0 sample:\n%s", diffMatrix(atMax, over, 0))
	}
}

func TestEmbeddedTableInterpolatesBetweenTenths(t *testing.T) {
	table := loadEmbedded(t)
	for _, mode := range Deficiencies() {
		lo, _ := table.Resolve(mode, 0.3)
		hi, _ := table.Resolve(mode, 0.4)
		mid, ok := table.Resolve(mode, 0.35)
		if !ok {
			t.Fatalf("%v unavailable", mode)
		}
		var want Matrix
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				want[r][c] = (lo[r][c] + hi[r][c]) / 2
			}
		}
		if d := diffMatrix(want, mid, 1e-12); d != "" {
			t.Errorf("%v at 0.35 is not the sample midpoint (-want +got):\n%s", mode, d)
		}
	}
}
