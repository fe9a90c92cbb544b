package daltonize

import (
	"math"
	"testing"

	"cvd-simulator/internal/cvd"
)

func TestCorrectionIdentityWhenNothingLost(t *testing.T) {
	// A severity-zero simulation removes nothing, so there is nothing to
	// redistribute.
	for _, d := range cvd.Deficiencies() {
		got := CorrectionMatrix(d, cvd.Identity())
		if got != cvd.Identity() {
			t.Errorf("%v: correction for identity simulation is %v", d, got)
		}
	}
}

func TestCorrectionMatchesUnfoldedComputation(t *testing.T) {
	sim := cvd.Matrix{
		{0.152, 1.053, -0.205},
		{0.115, 0.786, 0.099},
		{-0.004, 0.048, 0.956},
	}
	corr := CorrectionMatrix(cvd.Protanopia, sim)

	// Apply the folded matrix and the step-by-step computation to the same
	// vector; they must agree.
	v := [3]float64{0.2, 0.5, 0.8}

	sr, sg, sb := sim.Apply(v[0], v[1], v[2])
	lost := [3]float64{v[0] - sr, v[1] - sg, v[2] - sb}
	spread := [3]float64{
		0*lost[0] + 0*lost[1] + 0*lost[2],
		0.7*lost[0] + 1*lost[1] + 0*lost[2],
		0.7*lost[0] + 0*lost[1] + 1*lost[2],
	}
	want := [3]float64{v[0] + spread[0], v[1] + spread[1], v[2] + spread[2]}

	gr, gg, gb := corr.Apply(v[0], v[1], v[2])
	got := [3]float64{gr, gg, gb}

	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("channel %d: folded %v, unfolded %v", i, got[i], want[i])
		}
	}
}

func TestCorrectionLeavesUnaffectedChannelAlone(t *testing.T) {
	sim := cvd.Matrix{
		{0.152, 1.053, -0.205},
		{0.115, 0.786, 0.099},
		{-0.004, 0.048, 0.956},
	}

	// Protan correction must not touch the red channel: its spread row is
	// zero, so row 0 stays the identity row.
	corr := CorrectionMatrix(cvd.Protanopia, sim)
	wantRow := [3]float64{1, 0, 0}
	for c := 0; c < 3; c++ {
		if math.Abs(corr[0][c]-wantRow[c]) > 1e-12 {
			t.Errorf("protan correction row 0 col %d = %v, want %v", c, corr[0][c], wantRow[c])
		}
	}
}

func TestResolveFollowsStoreAvailability(t *testing.T) {
	store := cvd.NewStore()
	if _, ok := Resolve(store, cvd.Deuteranopia, 0.8); ok {
		t.Error("Resolve reported ok before the store was loaded")
	}

	if err := store.Load(""); err != nil {
		t.Fatalf("Load: %v", err)
	}
	corr, ok := Resolve(store, cvd.Deuteranopia, 0.8)
	if !ok {
		t.Fatal("Resolve unavailable after load")
	}
	if corr == (cvd.Matrix{}) {
		t.Error("Resolve returned a zero matrix")
	}
}
