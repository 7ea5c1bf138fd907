package opat

import (
	"crypto/sha256"
	"testing"

	"github.com/opat-format/opat/endian"
	"github.com/opat-format/opat/format"
	"github.com/opat-format/opat/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64le(v float64) []byte {
	b := make([]byte, 8)
	endian.PutFloat64LE(b, v)

	return b
}

// buildTriangleOpat assembles a minimal OPAT image with three single-cell
// "density" cards at the corners of a right triangle in (x,y) space, so
// the interpolator has a single simplex to locate and combine.
func buildTriangleOpat(t *testing.T) []byte {
	t.Helper()

	type corner struct {
		x, y, v float64
	}
	corners := []corner{{0, 0, 10}, {1, 0, 20}, {0, 1, 30}}

	const (
		cardSize   = format.CardHeaderSize + format.TableIndexEntrySize + 3*8
		tableStart = format.CardHeaderSize + format.TableIndexEntrySize
	)

	cards := make([][]byte, len(corners))
	for i, c := range corners {
		tableEntry := section.TableIndexEntry{
			ByteStart:  tableStart,
			ByteEnd:    cardSize,
			NumColumns: 1,
			NumRows:    1,
			Size:       1,
		}
		copy(tableEntry.Tag[:], "density")

		cardHeader := section.CardHeader{
			NumTables:   1,
			HeaderSize:  format.CardHeaderSize,
			IndexOffset: format.CardHeaderSize,
			CardSize:    cardSize,
		}

		payload := make([]byte, 0, cardSize)
		payload = append(payload, cardHeader.Bytes()...)
		payload = append(payload, tableEntry.Bytes()...)
		payload = append(payload, f64le(0)...) // row axis label
		payload = append(payload, f64le(0)...) // column axis label
		payload = append(payload, f64le(c.v)...)
		require.Len(t, payload, cardSize)

		cards[i] = payload
	}

	out := make([]byte, 0, format.FileHeaderSize+len(corners)*cardSize+len(corners)*section.CatalogEntrySize(2))
	out = append(out, make([]byte, format.FileHeaderSize)...) // placeholder, filled in below

	catalog := make([]section.CardCatalogEntry, len(corners))
	byteStart := uint64(format.FileHeaderSize)
	for i, c := range corners {
		out = append(out, cards[i]...)
		sum := sha256.Sum256(cards[i])
		catalog[i] = section.CardCatalogEntry{
			Index:     []float64{c.x, c.y},
			ByteStart: byteStart,
			ByteEnd:   byteStart + uint64(cardSize),
			Sha256:    sum,
		}
		byteStart += uint64(cardSize)
	}

	indexOffset := byteStart
	for _, e := range catalog {
		out = append(out, e.Bytes()...)
	}

	fileHeader := section.FileHeader{
		Version:       format.CurrentVersion,
		NumCards:      uint32(len(corners)),
		HeaderSize:    format.FileHeaderSize,
		IndexOffset:   indexOffset,
		NumIndex:      2,
		HashPrecision: 8,
	}
	copy(out[:format.FileHeaderSize], fileHeader.Bytes())

	return out
}

func TestNewReaderDecodeInterpolate(t *testing.T) {
	data := buildTriangleOpat(t)

	r, err := NewReader(data)
	require.NoError(t, err)

	file, err := r.Decode()
	require.NoError(t, err)
	assert.Equal(t, 3, file.NumCards())

	ip, err := NewInterpolator(file)
	require.NoError(t, err)

	card, err := ip.Get([]float64{0, 0})
	require.NoError(t, err)
	table, err := card.Get("density")
	require.NoError(t, err)

	v, err := table.GetScalar(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, float64(10), v)
}
