package interp

import (
	"fmt"
	"io"
	"strings"

	"github.com/opat-format/opat/errs"
	"github.com/opat-format/opat/format"
	"github.com/opat-format/opat/geom"
	"github.com/opat-format/opat/internal/coordkey"
	"github.com/opat-format/opat/model"
)

// Interpolator synthesizes a card at an arbitrary query point by
// Delaunay-triangulating a File's coordinate keys and combining the
// enclosing simplex's vertex cards with barycentric weights.
type Interpolator struct {
	file   *model.File
	tri    *geom.Triangulation
	keys   []coordkey.Key
	kind   format.InterpolationType
	bounds [][2]float64

	lastSimplex int
}

// New constructs a Linear Interpolator over file.
func New(file *model.File) (*Interpolator, error) {
	return NewWithType(file, format.Linear)
}

// NewWithType constructs an Interpolator over file using kind, which
// must be format.Linear; other values fail with errs.ErrUnsupported.
func NewWithType(file *model.File, kind format.InterpolationType) (*Interpolator, error) {
	if !kind.IsSupported() {
		return nil, errs.ErrUnsupported
	}

	keys := file.Keys()
	if len(keys) == 0 {
		return nil, errs.ErrEmpty
	}

	points := make([][]float64, len(keys))
	for i, k := range keys {
		points[i] = k.Raw()
	}

	tri, err := geom.Build(points)
	if err != nil {
		return nil, err
	}

	bounds, err := file.Bounds()
	if err != nil {
		return nil, err
	}

	return &Interpolator{
		file:        file,
		tri:         tri,
		keys:        keys,
		kind:        kind,
		bounds:      bounds,
		lastSimplex: 0,
	}, nil
}

// SetType changes the interpolation strategy. kind must be
// format.Linear; other values fail with errs.ErrUnsupported and leave
// the Interpolator unchanged.
func (ip *Interpolator) SetType(kind format.InterpolationType) error {
	if !kind.IsSupported() {
		return errs.ErrUnsupported
	}

	ip.kind = kind

	return nil
}

// Get synthesizes a card at query point q by locating the enclosing
// simplex and accumulating a weighted sum of its vertex cards, tag by
// tag and table by table. It fails with errs.ErrInvalidDimension if
// len(q) does not match the catalog's coordinate dimension,
// errs.ErrOutOfRange if q falls outside the catalog's per-dimension
// bounds on any single axis, and errs.ErrOutsideHull if q is within
// those bounds but outside the triangulated hull. If q quantizes to an
// existing catalog key exactly, Get returns that card directly without
// walking or solving, guaranteeing bitwise-identical output.
func (ip *Interpolator) Get(q []float64) (*model.Card, error) {
	if len(q) != len(ip.bounds) {
		return nil, errs.ErrInvalidDimension
	}
	for i, b := range ip.bounds {
		if q[i] < b[0] || q[i] > b[1] {
			return nil, fmt.Errorf("%w: query component %d = %g outside catalog bounds [%g,%g]", errs.ErrOutOfRange, i, q[i], b[0], b[1])
		}
	}

	if key, err := coordkey.New(q, ip.keys[0].Precision()); err == nil {
		if c, err := ip.file.Get(key); err == nil {
			return c, nil
		}
	}

	loc, err := walkLocate(ip.tri, ip.lastSimplex, q)
	if err != nil {
		return nil, err
	}
	ip.lastSimplex = loc.simplex

	vertIdx := ip.tri.Simplices[loc.simplex].Vertices

	cards := make([]*model.Card, len(vertIdx))
	for i, v := range vertIdx {
		c, err := ip.file.Get(ip.keys[v])
		if err != nil {
			return nil, err
		}
		cards[i] = c
	}

	template := cards[0]
	tags := template.Tags()

	tables := make(map[string]*model.Table, len(tags))
	for _, tag := range tags {
		t0, err := template.Get(tag)
		if err != nil {
			return nil, err
		}

		rowValues := make([]float64, len(t0.RowValues))
		copy(rowValues, t0.RowValues)
		colValues := make([]float64, len(t0.ColumnValues))
		copy(colValues, t0.ColumnValues)
		data := make([]float64, len(t0.Data))

		for i, c := range cards {
			ti, err := c.Get(tag)
			if err != nil {
				return nil, err
			}
			if len(ti.Data) != len(data) {
				return nil, errs.ErrInvalidArgument
			}

			w := loc.weights[i]
			for k, v := range ti.Data {
				data[k] += w * v
			}
		}

		tables[tag] = model.NewTable(rowValues, colValues, data, t0.V)
	}

	return model.NewCard(template.Header, template.Index, tables), nil
}

// DumpTriangulation writes a plain-text description of the Delaunay
// triangulation backing ip to two streams: vertices gets one line per
// vertex ("index coord0 coord1 ..."), and simplices gets one line per
// simplex as space-separated vertex indices.
func (ip *Interpolator) DumpTriangulation(vertices, simplices io.Writer) error {
	for i, k := range ip.keys {
		coords := make([]string, k.Len())
		for j := range coords {
			coords[j] = fmt.Sprintf("%g", k.At(j))
		}
		if _, err := fmt.Fprintf(vertices, "%d %s\n", i, strings.Join(coords, " ")); err != nil {
			return err
		}
	}

	for _, s := range ip.tri.Simplices {
		parts := make([]string, len(s.Vertices))
		for i, v := range s.Vertices {
			parts[i] = fmt.Sprintf("%d", v)
		}
		if _, err := fmt.Fprintln(simplices, strings.Join(parts, " ")); err != nil {
			return err
		}
	}

	return nil
}
