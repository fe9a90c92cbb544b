package cvd

// Matrix is a 3x3 color transform applied in linear-light RGB space.
// Values are empirical calibration data and are not required to form an
// invertible transform.
type Matrix [3][3]float64

// Identity returns the identity transform (severity zero: colors pass
// through unchanged).
func Identity() Matrix {
	return Matrix{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Apply multiplies the matrix with a linear RGB column vector.
func (m Matrix) Apply(r, g, b float64) (float64, float64, float64) {
	return m[0][0]*r + m[0][1]*g + m[0][2]*b,
		m[1][0]*r + m[1][1]*g + m[1][2]*b,
		m[2][0]*r + m[2][1]*g + m[2][2]*b
}

// lerp interpolates element-wise between a and b. t is the fraction of b,
// so t=0 yields a and t=1 yields b.
func lerp(a, b Matrix, t float64) Matrix {
	var out Matrix
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r][c] = a[r][c]*(1-t) + b[r][c]*t
		}
	}
	return out
}
