package cvd

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// LoadError reports a failed matrix table load: an unreachable source or
// structurally invalid calibration data. A failed load leaves the store
// unloaded so the attempt can be retried.
type LoadError struct {
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	msg := "matrix table: " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Err }

// sample pairs one calibrated severity with its matrix.
type sample struct {
	severity float64
	matrix   Matrix
}

// Table holds calibrated simulation matrices for each deficiency, sampled
// at discrete severities. A Table is immutable once built; it may be read
// concurrently without synchronization.
type Table struct {
	samples map[Deficiency][]sample
}

// ParseTable parses calibration data in the table schema: a JSON object
// keyed by deficiency identifier, each entry mapping severity keys with
// one fractional digit ("0.0" through "1.0") to 3x3 matrices. The first
// structural violation aborts the parse; no partial table is returned.
func ParseTable(data []byte) (*Table, error) {
	var raw map[string]map[string][][]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Reason: "parse calibration data", Err: err}
	}
	if len(raw) == 0 {
		return nil, &LoadError{Reason: "no deficiency entries"}
	}

	table := &Table{samples: make(map[Deficiency][]sample)}
	for modeKey, entries := range raw {
		mode, ok := ParseDeficiency(modeKey)
		if !ok {
			return nil, &LoadError{Reason: fmt.Sprintf("unknown deficiency %q", modeKey)}
		}
		if len(entries) == 0 {
			return nil, &LoadError{Reason: fmt.Sprintf("%s: no severity samples", modeKey)}
		}
		for sevKey, rows := range entries {
			sev, err := strconv.ParseFloat(sevKey, 64)
			if err != nil {
				return nil, &LoadError{Reason: fmt.Sprintf("%s: severity key %q is not a number", modeKey, sevKey), Err: err}
			}
			if sev < 0 || sev > 1 {
				return nil, &LoadError{Reason: fmt.Sprintf("%s: severity key %q outside [0,1]", modeKey, sevKey)}
			}
			if fmt.Sprintf("%.1f", sev) != sevKey {
				return nil, &LoadError{Reason: fmt.Sprintf("%s: severity key %q must use one fractional digit", modeKey, sevKey)}
			}
			m, err := toMatrix(rows)
			if err != nil {
				return nil, &LoadError{Reason: fmt.Sprintf("%s: severity %s", modeKey, sevKey), Err: err}
			}
			table.samples[mode] = append(table.samples[mode], sample{severity: sev, matrix: m})
		}
		ss := table.samples[mode]
		sort.Slice(ss, func(i, j int) bool { return ss[i].severity < ss[j].severity })
	}
	return table, nil
}

func toMatrix(rows [][]float64) (Matrix, error) {
	var m Matrix
	if len(rows) != 3 {
		return m, fmt.Errorf("want 3 matrix rows, have %d", len(rows))
	}
	for r, row := range rows {
		if len(row) != 3 {
			return m, fmt.Errorf("row %d: want 3 columns, have %d", r, len(row))
		}
		for c, v := range row {
			m[r][c] = v
		}
	}
	return m, nil
}

// Resolve returns the transform matrix for deficiency d at the given
// severity, interpolating linearly between the two calibrated samples that
// bracket it. Severities outside the calibrated range clamp to the nearest
// sample. The boolean reports whether the table has samples for d; false
// means "nothing to resolve", not a failure.
func (t *Table) Resolve(d Deficiency, severity float64) (Matrix, bool) {
	if t == nil {
		return Matrix{}, false
	}
	ss := t.samples[d]
	if len(ss) == 0 {
		return Matrix{}, false
	}

	s := clampSeverity(severity)
	if s <= ss[0].severity {
		return ss[0].matrix, true
	}
	if last := ss[len(ss)-1]; s >= last.severity {
		return last.matrix, true
	}

	// First sample at or above s; its predecessor opens the bracket.
	hi := sort.Search(len(ss), func(i int) bool { return ss[i].severity >= s })
	if ss[hi].severity == s {
		return ss[hi].matrix, true
	}
	lo := hi - 1
	frac := (s - ss[lo].severity) / (ss[hi].severity - ss[lo].severity)
	return lerp(ss[lo].matrix, ss[hi].matrix, frac), true
}

// clampSeverity forces s into [0,1]. NaN maps to 0 so an undefined input
// degrades to "no deficiency" rather than an arbitrary matrix.
func clampSeverity(s float64) float64 {
	if math.IsNaN(s) || s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// Modes returns the deficiencies the table has samples for, in display
// order.
func (t *Table) Modes() []Deficiency {
	if t == nil {
		return nil
	}
	var modes []Deficiency
	for _, d := range Deficiencies() {
		if len(t.samples[d]) > 0 {
			modes = append(modes, d)
		}
	}
	return modes
}

// Severities returns the calibrated severity sample points for d in
// ascending order.
func (t *Table) Severities(d Deficiency) []float64 {
	if t == nil {
		return nil
	}
	ss := t.samples[d]
	out := make([]float64, len(ss))
	for i, s := range ss {
		out[i] = s.severity
	}
	return out
}
