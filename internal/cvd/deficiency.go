// Package cvd implements color-vision-deficiency simulation: a table of
// severity-calibrated confusion matrices and the lookup/interpolation that
// resolves an arbitrary severity into a single 3x3 transform.
package cvd

import "strings"

// Deficiency identifies a type of color-vision deficiency.
type Deficiency int

const (
	Protanopia Deficiency = iota
	Deuteranopia
	Tritanopia
)

func (d Deficiency) String() string {
	switch d {
	case Protanopia:
		return "Protanopia"
	case Deuteranopia:
		return "Deuteranopia"
	case Tritanopia:
		return "Tritanopia"
	default:
		return "Unknown"
	}
}

// Key returns the identifier used for this deficiency in matrix table data.
func (d Deficiency) Key() string {
	switch d {
	case Protanopia:
		return "protan"
	case Deuteranopia:
		return "deutan"
	case Tritanopia:
		return "tritan"
	default:
		return ""
	}
}

// Deficiencies returns all supported deficiency types in display order.
func Deficiencies() []Deficiency {
	return []Deficiency{Protanopia, Deuteranopia, Tritanopia}
}

// ParseDeficiency maps a table key or display name to a Deficiency.
func ParseDeficiency(s string) (Deficiency, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "protan", "protanopia", "protanomaly":
		return Protanopia, true
	case "deutan", "deuteranopia", "deuteranomaly":
		return Deuteranopia, true
	case "tritan", "tritanopia", "tritanomaly":
		return Tritanopia, true
	}
	return 0, false
}
