package model

import (
	"testing"

	"github.com/opat-format/opat/errs"
	"github.com/opat-format/opat/internal/coordkey"
	"github.com/opat-format/opat/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestFile(t *testing.T) (*File, coordkey.Key) {
	t.Helper()

	k1, err := coordkey.New([]float64{0.2, 0.06}, 8)
	require.NoError(t, err)
	k2, err := coordkey.New([]float64{0.4, 0.10}, 8)
	require.NoError(t, err)

	tables := map[string]*Table{"opacity": sampleTable()}
	card1 := NewCard(section.CardHeader{}, map[string]section.TableIndexEntry{}, tables)
	card2 := NewCard(section.CardHeader{}, map[string]section.TableIndexEntry{}, tables)

	catalog := map[string]section.CardCatalogEntry{
		k1.MapKey(): {Index: k1.Raw()},
		k2.MapKey(): {Index: k2.Raw()},
	}
	cards := map[string]*Card{
		k1.MapKey(): card1,
		k2.MapKey(): card2,
	}

	f := NewFile(section.FileHeader{NumIndex: 2}, []coordkey.Key{k1, k2}, catalog, cards)

	return f, k1
}

func TestFile_Get(t *testing.T) {
	f, k1 := buildTestFile(t)

	c, err := f.Get(k1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.NumTables())
}

func TestFile_Get_NotFound(t *testing.T) {
	f, _ := buildTestFile(t)
	missing, err := coordkey.New([]float64{99, 99}, 8)
	require.NoError(t, err)

	_, err = f.Get(missing)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestFile_Bounds(t *testing.T) {
	f, _ := buildTestFile(t)

	bounds, err := f.Bounds()
	require.NoError(t, err)
	require.Len(t, bounds, 2)
	assert.InDelta(t, 0.2, bounds[0][0], 1e-9)
	assert.InDelta(t, 0.4, bounds[0][1], 1e-9)
}

func TestFile_Bounds_Empty(t *testing.T) {
	f := NewFile(section.FileHeader{}, nil, nil, nil)
	_, err := f.Bounds()
	require.ErrorIs(t, err, errs.ErrEmpty)
}

func TestFile_NumCards(t *testing.T) {
	f, _ := buildTestFile(t)
	assert.Equal(t, 2, f.NumCards())
}
