// Package daltonize derives corrective color transforms: the color
// difference a deficiency removes is redistributed into channels the
// viewer can still distinguish, folded into a single 3x3 matrix so the
// engine applies it in one pass.
package daltonize

import (
	"gonum.org/v1/gonum/mat"

	"cvd-simulator/internal/cvd"
)

// spreadMatrix returns the redistribution matrix for d (Fidaner et al.):
// the lost component is shifted into the channels unaffected by the
// deficiency.
func spreadMatrix(d cvd.Deficiency) *mat.Dense {
	switch d {
	case cvd.Protanopia:
		return mat.NewDense(3, 3, []float64{
			0, 0, 0,
			0.7, 1, 0,
			0.7, 0, 1,
		})
	case cvd.Deuteranopia:
		return mat.NewDense(3, 3, []float64{
			1, 0.7, 0,
			0, 0, 0,
			0, 0.7, 1,
		})
	default:
		return mat.NewDense(3, 3, []float64{
			1, 0, 0.7,
			0, 1, 0.7,
			0, 0, 0,
		})
	}
}

// CorrectionMatrix composes the daltonization transform for deficiency d
// given its simulation matrix: identity plus the redistributed simulation
// error, C = I + E(I - S).
func CorrectionMatrix(d cvd.Deficiency, sim cvd.Matrix) cvd.Matrix {
	eye := mat.NewDiagDense(3, []float64{1, 1, 1})

	var lost mat.Dense
	lost.Sub(eye, toDense(sim))

	var spread mat.Dense
	spread.Mul(spreadMatrix(d), &lost)

	var corr mat.Dense
	corr.Add(eye, &spread)

	return fromDense(&corr)
}

// Resolve looks up the simulation matrix for (d, severity) in store and
// returns the corresponding correction transform. ok mirrors the store's
// availability signal.
func Resolve(store *cvd.Store, d cvd.Deficiency, severity float64) (cvd.Matrix, bool) {
	sim, ok := store.Resolve(d, severity)
	if !ok {
		return cvd.Matrix{}, false
	}
	return CorrectionMatrix(d, sim), true
}

func toDense(m cvd.Matrix) *mat.Dense {
	data := make([]float64, 0, 9)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			data = append(data, m[r][c])
		}
	}
	return mat.NewDense(3, 3, data)
}

func fromDense(d *mat.Dense) cvd.Matrix {
	var m cvd.Matrix
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m[r][c] = d.At(r, c)
		}
	}
	return m
}
