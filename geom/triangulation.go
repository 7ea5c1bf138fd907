package geom

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/opat-format/opat/errs"
	"github.com/opat-format/opat/format"
)

// Simplex is one cell of a triangulation: exactly Dim+1 indices into
// Triangulation.Points, always stored positively oriented.
type Simplex struct {
	Vertices []int
}

// Triangulation is a Delaunay triangulation of a point set: the
// simplex list plus a parallel face-adjacency table. Adjacency[i][j]
// is the index of the simplex sharing the face opposite local vertex
// j of simplex i, or format.NoNeighbor if that face lies on the hull.
type Triangulation struct {
	Dim       int
	Points    [][]float64
	Simplices []Simplex
	Adjacency [][]int
}

// Build constructs the Delaunay triangulation of points via the
// Bowyer-Watson incremental algorithm. Fails with errs.ErrDegenerateGeometry
// if fewer than Dim+1 points are given or all points are co-hyperplanar.
func Build(points [][]float64) (*Triangulation, error) {
	if len(points) == 0 {
		return nil, errs.ErrEmpty
	}

	dim := len(points[0])
	for _, p := range points {
		if len(p) != dim {
			return nil, errs.ErrInvalidArgument
		}
	}
	if len(points) < dim+1 {
		return nil, errs.ErrDegenerateGeometry
	}

	superPoints := superSimplexVertices(points, dim)
	allPoints := make([][]float64, 0, len(points)+len(superPoints))
	allPoints = append(allPoints, points...)
	allPoints = append(allPoints, superPoints...)

	superIdx := make([]int, dim+1)
	for i := range superIdx {
		superIdx[i] = len(points) + i
	}

	root, err := newSimplex(allPoints, superIdx)
	if err != nil {
		return nil, errs.ErrDegenerateGeometry
	}

	active := []Simplex{root}

	for i := range points {
		active, err = insertPoint(allPoints, active, i, dim)
		if err != nil {
			return nil, err
		}
	}

	final := make([]Simplex, 0, len(active))
	for _, s := range active {
		if !referencesSuper(s, len(points)) {
			final = append(final, s)
		}
	}
	if len(final) == 0 {
		return nil, errs.ErrDegenerateGeometry
	}

	adjacency := buildAdjacency(final, dim)

	return &Triangulation{
		Dim:       dim,
		Points:    points,
		Simplices: final,
		Adjacency: adjacency,
	}, nil
}

func referencesSuper(s Simplex, numRealPoints int) bool {
	for _, v := range s.Vertices {
		if v >= numRealPoints {
			return true
		}
	}

	return false
}

// newSimplex builds a Simplex from vertex indices, reordering the last
// two if necessary so it is positively oriented.
func newSimplex(points [][]float64, verts []int) (Simplex, error) {
	coords := make([][]float64, len(verts))
	for i, v := range verts {
		coords[i] = points[v]
	}

	o, err := orientation(coords)
	if err != nil {
		return Simplex{}, err
	}
	if o == 0 {
		return Simplex{}, errs.ErrDegenerateGeometry
	}

	out := append([]int(nil), verts...)
	if o < 0 {
		out[len(out)-1], out[len(out)-2] = out[len(out)-2], out[len(out)-1]
	}

	return Simplex{Vertices: out}, nil
}

func insertPoint(points [][]float64, active []Simplex, pointIdx int, dim int) ([]Simplex, error) {
	p := points[pointIdx]

	bad := make([]Simplex, 0)
	keep := make([]Simplex, 0, len(active))
	for _, s := range active {
		coords := make([][]float64, len(s.Vertices))
		for i, v := range s.Vertices {
			coords[i] = points[v]
		}

		inside, err := inSphere(coords, p)
		if err != nil {
			return nil, err
		}

		if inside {
			bad = append(bad, s)
		} else {
			keep = append(keep, s)
		}
	}

	if len(bad) == 0 {
		// p fell outside every existing circumsphere; nothing to retriangulate.
		// This can only happen for a degenerate input configuration.
		return keep, nil
	}

	boundary := cavityBoundary(bad, dim)

	for _, face := range boundary {
		verts := append(append([]int(nil), face...), pointIdx)
		s, err := newSimplex(points, verts)
		if err != nil {
			continue // degenerate face (point coplanar with it); skip
		}
		keep = append(keep, s)
	}

	return keep, nil
}

// cavityBoundary returns the faces that belong to exactly one simplex
// in bad: those are the faces on the boundary of the cavity formed by
// removing all of bad.
func cavityBoundary(bad []Simplex, dim int) [][]int {
	counts := make(map[string]int)
	faceOf := make(map[string][]int)

	for _, s := range bad {
		for omit := range s.Vertices {
			face := omitAt(s.Vertices, omit)
			key := faceKey(face)
			counts[key]++
			faceOf[key] = face
		}
	}

	out := make([][]int, 0, len(counts))
	for key, c := range counts {
		if c == 1 {
			out = append(out, faceOf[key])
		}
	}

	return out
}

func omitAt(vertices []int, omit int) []int {
	out := make([]int, 0, len(vertices)-1)
	for i, v := range vertices {
		if i != omit {
			out = append(out, v)
		}
	}

	return out
}

func faceKey(face []int) string {
	sorted := append([]int(nil), face...)
	sort.Ints(sorted)

	parts := make([]string, len(sorted))
	for i, v := range sorted {
		parts[i] = fmt.Sprintf("%d", v)
	}

	return strings.Join(parts, ",")
}

// buildAdjacency matches shared faces across the final simplex list to
// populate each simplex's neighbor-across-opposite-face table.
func buildAdjacency(simplices []Simplex, dim int) [][]int {
	type occurrence struct {
		simplexIdx int
		localJ     int
	}

	faceOccurrences := make(map[string][]occurrence)
	for i, s := range simplices {
		for j := range s.Vertices {
			face := omitAt(s.Vertices, j)
			key := faceKey(face)
			faceOccurrences[key] = append(faceOccurrences[key], occurrence{i, j})
		}
	}

	adjacency := make([][]int, len(simplices))
	for i := range adjacency {
		adjacency[i] = make([]int, dim+1)
		for j := range adjacency[i] {
			adjacency[i][j] = format.NoNeighbor
		}
	}

	for _, occs := range faceOccurrences {
		if len(occs) == 2 {
			a, b := occs[0], occs[1]
			adjacency[a.simplexIdx][a.localJ] = b.simplexIdx
			adjacency[b.simplexIdx][b.localJ] = a.simplexIdx
		}
	}

	return adjacency
}

// superSimplexVertices builds dim+1 points forming a simplex that
// contains the bounding box of points, using a large radius derived
// from the box's extent.
func superSimplexVertices(points [][]float64, dim int) [][]float64 {
	center := make([]float64, dim)
	minV := append([]float64(nil), points[0]...)
	maxV := append([]float64(nil), points[0]...)

	for _, p := range points {
		for i := 0; i < dim; i++ {
			if p[i] < minV[i] {
				minV[i] = p[i]
			}
			if p[i] > maxV[i] {
				maxV[i] = p[i]
			}
		}
	}

	radius := 1.0
	for i := 0; i < dim; i++ {
		center[i] = (minV[i] + maxV[i]) / 2
		if span := maxV[i] - minV[i]; span > radius {
			radius = span
		}
	}
	radius *= float64(dim) * 50

	// dim points placed far along each axis, plus one placed in the
	// negative-diagonal direction; together they enclose the box.
	verts := make([][]float64, dim+1)
	for i := 0; i < dim; i++ {
		v := append([]float64(nil), center...)
		v[i] += radius
		verts[i] = v
	}

	last := append([]float64(nil), center...)
	for i := 0; i < dim; i++ {
		last[i] -= radius / math.Sqrt(float64(dim))
	}
	verts[dim] = last

	return verts
}
