package geom

// orientation returns the determinant of the (d+1)x(d+1) matrix whose
// i-th row is [verts[i][0..d-1], 1]; callers use only its sign. A positive value
// means the vertex list is positively oriented for the in-sphere test
// below; Build reorders a simplex's last two vertices whenever this
// comes back negative so every stored simplex is positively oriented.
func orientation(verts [][]float64) (float64, error) {
	d := len(verts) - 1
	m := make([][]float64, d+1)
	for i, v := range verts {
		row := make([]float64, d+1)
		copy(row, v)
		row[d] = 1
		m[i] = row
	}

	return Determinant(m)
}

// inSphere reports whether p lies strictly inside the circumsphere of
// the positively oriented simplex verts (len(verts) == dim+1). It uses
// the standard lifted-paraboloid determinant test: row i holds
// [verts[i]-p, |verts[i]-p|^2]; for a positively oriented simplex, a
// positive determinant means p is inside the circumsphere.
func inSphere(verts [][]float64, p []float64) (bool, error) {
	d := len(p)
	m := make([][]float64, len(verts))
	for i, v := range verts {
		row := make([]float64, d+1)
		var sq float64
		for j := 0; j < d; j++ {
			diff := v[j] - p[j]
			row[j] = diff
			sq += diff * diff
		}
		row[d] = sq
		m[i] = row
	}

	det, err := Determinant(m)
	if err != nil {
		return false, err
	}

	return det > 0, nil
}
