package interp

import (
	"math"
	"strings"
	"testing"

	"github.com/opat-format/opat/errs"
	"github.com/opat-format/opat/format"
	"github.com/opat-format/opat/internal/coordkey"
	"github.com/opat-format/opat/model"
	"github.com/opat-format/opat/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTriangleFile builds a 3-vertex, 2-D File holding a single
// "opacity" table (1x1, V=1) per card, with a distinct scalar value
// per vertex so weighted combinations are easy to check by hand.
func buildTriangleFile(t *testing.T, vertices [][2]float64, values []float64) *model.File {
	t.Helper()
	require.Equal(t, len(vertices), len(values))

	keys := make([]coordkey.Key, len(vertices))
	catalog := make(map[string]section.CardCatalogEntry, len(vertices))
	cards := make(map[string]*model.Card, len(vertices))

	for i, v := range vertices {
		k, err := coordkey.New([]float64{v[0], v[1]}, 8)
		require.NoError(t, err)
		keys[i] = k

		table := model.NewTable([]float64{0}, []float64{0}, []float64{values[i]}, 1)
		card := model.NewCard(section.CardHeader{}, map[string]section.TableIndexEntry{"opacity": {}}, map[string]*model.Table{"opacity": table})

		catalog[k.MapKey()] = section.CardCatalogEntry{Index: k.Raw()}
		cards[k.MapKey()] = card
	}

	return model.NewFile(section.FileHeader{NumIndex: 2}, keys, catalog, cards)
}

func TestInterpolator_ExactVertex(t *testing.T) {
	file := buildTriangleFile(t,
		[][2]float64{{0, 0}, {1, 0}, {0, 1}},
		[]float64{10, 20, 30},
	)

	ip, err := New(file)
	require.NoError(t, err)

	card, err := ip.Get([]float64{0, 0})
	require.NoError(t, err)
	table, err := card.Get("opacity")
	require.NoError(t, err)

	v, err := table.GetScalar(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, float64(10), v)
}

func TestInterpolator_Midpoint(t *testing.T) {
	file := buildTriangleFile(t,
		[][2]float64{{0, 0}, {1, 0}, {0, 1}},
		[]float64{10, 20, 30},
	)

	ip, err := New(file)
	require.NoError(t, err)

	card, err := ip.Get([]float64{0.5, 0})
	require.NoError(t, err)
	table, err := card.Get("opacity")
	require.NoError(t, err)

	v, err := table.GetScalar(0, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 15, v, 1e-9)
}

func TestInterpolator_OutsideHull(t *testing.T) {
	file := buildTriangleFile(t,
		[][2]float64{{0, 0}, {1, 0}, {0, 1}},
		[]float64{10, 20, 30},
	)

	ip, err := New(file)
	require.NoError(t, err)

	// (0.9, 0.9) sits inside the catalog's per-dimension bounding box
	// ([0,1] on each axis) but outside the triangle's hull (x+y <= 1).
	_, err = ip.Get([]float64{0.9, 0.9})
	require.ErrorIs(t, err, errs.ErrOutsideHull)
}

func TestInterpolator_OutOfRange(t *testing.T) {
	file := buildTriangleFile(t,
		[][2]float64{{0, 0}, {1, 0}, {0, 1}},
		[]float64{10, 20, 30},
	)

	ip, err := New(file)
	require.NoError(t, err)

	// x=0.5 is within bounds on the first axis, but y=5 is outside the
	// catalog's observed [0,1] range on the second axis: this must fail
	// with ErrOutOfRange, not ErrOutsideHull, even though the walk would
	// also eventually exit the hull on this query.
	_, err = ip.Get([]float64{0.5, 5})
	require.ErrorIs(t, err, errs.ErrOutOfRange)
	require.NotErrorIs(t, err, errs.ErrOutsideHull)
}

func TestInterpolator_ExactVertex_BitwiseIdentical(t *testing.T) {
	file := buildTriangleFile(t,
		[][2]float64{{0, 0}, {1, 0}, {0, 1}},
		[]float64{10, 20, 30},
	)

	ip, err := New(file)
	require.NoError(t, err)

	card, err := ip.Get([]float64{1, 0})
	require.NoError(t, err)
	table, err := card.Get("opacity")
	require.NoError(t, err)

	v, err := table.GetScalar(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, float64(20), v)
}

func TestInterpolator_NaNPropagation(t *testing.T) {
	file := buildTriangleFile(t,
		[][2]float64{{0, 0}, {1, 0}, {0, 1}},
		[]float64{10, math.NaN(), 30},
	)

	ip, err := New(file)
	require.NoError(t, err)

	card, err := ip.Get([]float64{0.5, 0})
	require.NoError(t, err)
	table, err := card.Get("opacity")
	require.NoError(t, err)

	v, err := table.GetScalar(0, 0, 0)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))
}

func TestInterpolator_BarycentricSumIsOne(t *testing.T) {
	file := buildTriangleFile(t,
		[][2]float64{{0, 0}, {1, 0}, {0, 1}},
		[]float64{10, 20, 30},
	)

	ip, err := New(file)
	require.NoError(t, err)

	loc, err := walkLocate(ip.tri, 0, []float64{0.3, 0.3})
	require.NoError(t, err)

	sum := 0.0
	for _, w := range loc.weights {
		sum += w
	}
	assert.InDelta(t, 1, sum, 1e-9)
}

func TestNewWithType_RejectsUnsupported(t *testing.T) {
	file := buildTriangleFile(t,
		[][2]float64{{0, 0}, {1, 0}, {0, 1}},
		[]float64{10, 20, 30},
	)

	_, err := NewWithType(file, format.InterpolationType(99))
	require.ErrorIs(t, err, errs.ErrUnsupported)
}

func TestInterpolator_SetType_RejectsUnsupported(t *testing.T) {
	file := buildTriangleFile(t,
		[][2]float64{{0, 0}, {1, 0}, {0, 1}},
		[]float64{10, 20, 30},
	)
	ip, err := New(file)
	require.NoError(t, err)

	err = ip.SetType(format.InterpolationType(99))
	require.ErrorIs(t, err, errs.ErrUnsupported)
}

func TestInterpolator_DumpTriangulation(t *testing.T) {
	file := buildTriangleFile(t,
		[][2]float64{{0, 0}, {1, 0}, {0, 1}},
		[]float64{10, 20, 30},
	)
	ip, err := New(file)
	require.NoError(t, err)

	var vertices, simplices strings.Builder
	require.NoError(t, ip.DumpTriangulation(&vertices, &simplices))

	assert.Equal(t, 3, len(strings.Split(strings.TrimSpace(vertices.String()), "\n")))
	assert.Equal(t, 1, len(strings.Split(strings.TrimSpace(simplices.String()), "\n")))
}
