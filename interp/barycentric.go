// Package interp locates the simplex enclosing a query point within a
// Delaunay triangulation (the walk-locate procedure) and synthesizes
// an interpolated data card from the barycentric combination of that
// simplex's vertex cards.
package interp

import (
	"github.com/opat-format/opat/errs"
	"github.com/opat-format/opat/format"
	"github.com/opat-format/opat/geom"
	"github.com/opat-format/opat/internal/pool"
)

// barycentricWeights solves for the weights w_0..w_N (N=len(q)) such
// that sum(w_i * vertices[i]) == q and sum(w_i) == 1, by forming the
// (N+1)x(N+1) affine system and solving it with geom's shared LU
// factorization.
func barycentricWeights(vertices [][]float64, q []float64) ([]float64, error) {
	n := len(q)
	if len(vertices) != n+1 {
		return nil, errs.ErrInvalidDimension
	}

	a := make([][]float64, n+1)
	for row := 0; row < n; row++ {
		a[row] = make([]float64, n+1)
		for col, v := range vertices {
			a[row][col] = v[row]
		}
	}
	a[n] = make([]float64, n+1)
	for col := range vertices {
		a[n][col] = 1
	}

	// b is consumed entirely by Decompose/Solve below and never escapes
	// this call, so it comes from the shared float64 pool.
	b, release := pool.GetFloat64Slice(n + 1)
	defer release()
	copy(b, q)
	b[n] = 1

	lu, err := geom.Decompose(a)
	if err != nil {
		return nil, err
	}

	return lu.Solve(b)
}

// mostNegativeWeight returns the local index of the smallest weight,
// breaking ties by smallest index. Used to pick the walk-locate exit
// face; see format.WalkTolerance for the containment tolerance τ.
func mostNegativeWeight(w []float64) int {
	j := 0
	for i := 1; i < len(w); i++ {
		if w[i] < w[j] {
			j = i
		}
	}

	return j
}

// withinSimplex reports whether every weight lies in [-τ, 1+τ].
func withinSimplex(w []float64) bool {
	for _, v := range w {
		if v < -format.WalkTolerance || v > 1+format.WalkTolerance {
			return false
		}
	}

	return true
}
