package cvd

import "testing"

func TestDeficiencyStringAndKey(t *testing.T) {
	tests := []struct {
		d   Deficiency
		str string
		key string
	}{
		{Protanopia, "Protanopia", "protan"},
		{Deuteranopia, "Deuteranopia", "deutan"},
		{Tritanopia, "Tritanopia", "tritan"},
		{Deficiency(99), "Unknown", ""},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.str {
			t.Errorf("String() = %q, want %q", got, tt.str)
		}
		if got := tt.d.Key(); got != tt.key {
			t.Errorf("Key() = %q, want %q", got, tt.key)
		}
	}
}

func TestParseDeficiency(t *testing.T) {
	tests := []struct {
		in   string
		want Deficiency
		ok   bool
	}{
		{"protan", Protanopia, true},
		{"Protanopia", Protanopia, true},
		{"deutan", Deuteranopia, true},
		{"deuteranomaly", Deuteranopia, true},
		{"TRITAN", Tritanopia, true},
		{" tritanopia ", Tritanopia, true},
		{"achromat", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDeficiency(tt.in)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("ParseDeficiency(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDeficienciesRoundTrip(t *testing.T) {
	for _, d := range Deficiencies() {
		got, ok := ParseDeficiency(d.Key())
		if !ok || got != d {
			t.Errorf("ParseDeficiency(%q) = (%v, %v), want (%v, true)", d.Key(), got, ok, d)
		}
	}
}
