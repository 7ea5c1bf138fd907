// Package geom builds an N-dimensional Delaunay triangulation over a
// set of coordinate points and solves the dense linear systems the
// triangulation and its barycentric weights require. No computational
// geometry or linear algebra library appears as a direct dependency
// anywhere in the corpus this module was grounded on, so both the
// triangulation and the LU solve it shares with package interp are
// hand-rolled here.
package geom

import (
	"github.com/opat-format/opat/errs"
	"github.com/opat-format/opat/internal/pool"
)

// LU is an in-place LU factorization of a square matrix with partial
// pivoting, reused both for the Delaunay in-sphere/orientation
// predicates and for the barycentric weight solve in package interp.
type LU struct {
	n    int
	a    [][]float64 // factored in place: L below diagonal, U on/above
	piv  []int        // piv[i] = original row moved into row i
	sign float64      // +1 or -1, parity of the row permutation
}

// Decompose factors a (n x n, a[row][col]) via Doolittle's method with
// partial pivoting. a is copied; the caller's matrix is not mutated.
// Fails with errs.ErrSingularSimplex if a pivot is (numerically) zero.
func Decompose(a [][]float64) (*LU, error) {
	n := len(a)

	m := make([][]float64, n)
	for i := range a {
		if len(a[i]) != n {
			return nil, errs.ErrInvalidArgument
		}
		m[i] = append([]float64(nil), a[i]...)
	}

	piv := make([]int, n)
	for i := range piv {
		piv[i] = i
	}
	sign := 1.0

	for col := 0; col < n; col++ {
		// Partial pivot: largest magnitude entry at or below the diagonal.
		maxRow := col
		maxVal := abs(m[col][col])
		for r := col + 1; r < n; r++ {
			if v := abs(m[r][col]); v > maxVal {
				maxVal = v
				maxRow = r
			}
		}
		if maxVal == 0 {
			return nil, errs.ErrSingularSimplex
		}
		if maxRow != col {
			m[col], m[maxRow] = m[maxRow], m[col]
			piv[col], piv[maxRow] = piv[maxRow], piv[col]
			sign = -sign
		}

		for r := col + 1; r < n; r++ {
			factor := m[r][col] / m[col][col]
			m[r][col] = factor
			for c := col + 1; c < n; c++ {
				m[r][c] -= factor * m[col][c]
			}
		}
	}

	return &LU{n: n, a: m, piv: piv, sign: sign}, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}

// Solve returns x such that A x = b, for the matrix A this LU factored.
func (lu *LU) Solve(b []float64) ([]float64, error) {
	if len(b) != lu.n {
		return nil, errs.ErrInvalidArgument
	}

	// Apply the row permutation to b. y is pure scratch: it never
	// escapes this call, so it comes from the shared float64 pool.
	y, release := pool.GetFloat64Slice(lu.n)
	defer release()
	for i, p := range lu.piv {
		y[i] = b[p]
	}

	// Forward substitution: L y = Pb (L has unit diagonal).
	for i := 0; i < lu.n; i++ {
		sum := y[i]
		for j := 0; j < i; j++ {
			sum -= lu.a[i][j] * y[j]
		}
		y[i] = sum
	}

	// Back substitution: U x = y.
	x := make([]float64, lu.n)
	for i := lu.n - 1; i >= 0; i-- {
		sum := y[i]
		for j := i + 1; j < lu.n; j++ {
			sum -= lu.a[i][j] * x[j]
		}
		x[i] = sum / lu.a[i][i]
	}

	return x, nil
}

// Det returns the determinant of the factored matrix.
func (lu *LU) Det() float64 {
	det := lu.sign
	for i := 0; i < lu.n; i++ {
		det *= lu.a[i][i]
	}

	return det
}

// Determinant factors a and returns its determinant directly, for
// callers that only need the sign/magnitude and not a solve.
func Determinant(a [][]float64) (float64, error) {
	lu, err := Decompose(a)
	if err != nil {
		if err == errs.ErrSingularSimplex {
			return 0, nil
		}

		return 0, err
	}

	return lu.Det(), nil
}
