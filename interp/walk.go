package interp

import (
	"github.com/opat-format/opat/errs"
	"github.com/opat-format/opat/format"
	"github.com/opat-format/opat/geom"
)

// locateResult is the outcome of a successful walk: the simplex index
// and the barycentric weights of the query point within it, ordered to
// match tri.Simplices[simplex].Vertices.
type locateResult struct {
	simplex int
	weights []float64
}

// walkLocate finds the simplex of tri enclosing q by starting from
// start (or simplex 0 if start is out of range) and repeatedly stepping
// across the face with the most negative barycentric weight, breaking
// ties toward the smallest local index. It fails with errs.ErrWalkCycle
// if a simplex is revisited and errs.ErrWalkExceeded if the step cap
// 2*len(tri.Simplices)+10 is reached without locating q.
func walkLocate(tri *geom.Triangulation, start int, q []float64) (locateResult, error) {
	if len(tri.Simplices) == 0 {
		return locateResult{}, errs.ErrEmpty
	}
	if len(q) != tri.Dim {
		return locateResult{}, errs.ErrInvalidDimension
	}

	current := start
	if current < 0 || current >= len(tri.Simplices) {
		current = 0
	}

	visited := make(map[int]bool)
	stepCap := 2*len(tri.Simplices) + 10

	for step := 0; step < stepCap; step++ {
		if visited[current] {
			return locateResult{}, errs.ErrWalkCycle
		}
		visited[current] = true

		s := tri.Simplices[current]
		verts := make([][]float64, len(s.Vertices))
		for i, v := range s.Vertices {
			verts[i] = tri.Points[v]
		}

		w, err := barycentricWeights(verts, q)
		if err != nil {
			return locateResult{}, err
		}

		if withinSimplex(w) {
			return locateResult{simplex: current, weights: w}, nil
		}

		exit := mostNegativeWeight(w)
		next := tri.Adjacency[current][exit]
		if next == format.NoNeighbor {
			return locateResult{}, errs.ErrOutsideHull
		}

		current = next
	}

	return locateResult{}, errs.ErrWalkExceeded
}
