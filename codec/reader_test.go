package codec

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"

	"github.com/opat-format/opat/endian"
	"github.com/opat-format/opat/errs"
	"github.com/opat-format/opat/format"
	"github.com/opat-format/opat/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSingleCardFile assembles a minimal, well-formed OPAT byte image
// with one card holding one "density" table (2x2 cells, v=1).
func buildSingleCardFile(t *testing.T) []byte {
	t.Helper()

	rowValues := []float64{1, 2}
	colValues := []float64{10, 20}
	data := []float64{100, 200, 300, 400}

	tableEntry := section.TableIndexEntry{
		ByteStart:  320,
		ByteEnd:    384,
		NumColumns: 2,
		NumRows:    2,
		Size:       1,
	}
	copy(tableEntry.Tag[:], "density")

	cardHeader := section.CardHeader{
		NumTables:   1,
		HeaderSize:  format.CardHeaderSize,
		IndexOffset: format.CardHeaderSize,
		CardSize:    384,
	}

	payload := make([]byte, 0, 384)
	payload = append(payload, cardHeader.Bytes()...)
	payload = append(payload, tableEntry.Bytes()...)
	for _, v := range rowValues {
		payload = append(payload, f64le(v)...)
	}
	for _, v := range colValues {
		payload = append(payload, f64le(v)...)
	}
	for _, v := range data {
		payload = append(payload, f64le(v)...)
	}
	require.Len(t, payload, 384)

	sum := sha256.Sum256(payload)
	catalogEntry := section.CardCatalogEntry{
		Index:     []float64{0.2, 0.06},
		ByteStart: 256,
		ByteEnd:   256 + 384,
		Sha256:    sum,
	}

	fileHeader := section.FileHeader{
		Version:       format.CurrentVersion,
		NumCards:      1,
		HeaderSize:    format.FileHeaderSize,
		IndexOffset:   256 + 384,
		NumIndex:      2,
		HashPrecision: 8,
	}

	out := make([]byte, 0, 256+384+section.CatalogEntrySize(2))
	out = append(out, fileHeader.Bytes()...)
	out = append(out, payload...)
	out = append(out, catalogEntry.Bytes()...)

	return out
}

func f64le(v float64) []byte {
	b := make([]byte, 8)
	endian.PutFloat64LE(b, v)

	return b
}

func TestReader_Decode(t *testing.T) {
	data := buildSingleCardFile(t)

	r, err := NewReader(data)
	require.NoError(t, err)

	f, err := r.Decode()
	require.NoError(t, err)

	assert.Equal(t, 1, f.NumCards())

	keys := f.Keys()
	require.Len(t, keys, 1)

	card, err := f.Get(keys[0])
	require.NoError(t, err)

	table, err := card.Get("density")
	require.NoError(t, err)
	assert.Equal(t, 2, table.NumRows)
	assert.Equal(t, 2, table.NumColumns)

	cell, err := table.Get(1, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{300}, cell)
}

func TestReader_Decode_RejectsShortHeader(t *testing.T) {
	r, err := NewReader(make([]byte, 10))
	require.NoError(t, err) // NewReader itself never reads

	_, err = r.Decode()
	require.ErrorIs(t, err, errs.ErrShortRead)
}

func TestReader_Verify_Success(t *testing.T) {
	data := buildSingleCardFile(t)
	r, err := NewReader(data)
	require.NoError(t, err)

	require.NoError(t, r.Verify())
}

func TestReader_Verify_DetectsCorruption(t *testing.T) {
	data := buildSingleCardFile(t)
	data[300] ^= 0xFF // flip a byte inside the card payload

	r, err := NewReader(data)
	require.NoError(t, err)

	err = r.Verify()
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)
}

func TestOpen_Mmap(t *testing.T) {
	data := buildSingleCardFile(t)
	path := filepath.Join(t.TempDir(), "sample.opat")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	f, err := r.Decode()
	require.NoError(t, err)
	assert.Equal(t, 1, f.NumCards())
}

func TestOpen_NoMmap(t *testing.T) {
	data := buildSingleCardFile(t)
	path := filepath.Join(t.TempDir(), "sample.opat")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	r, err := Open(path, WithMmap(false))
	require.NoError(t, err)
	defer r.Close()

	f, err := r.Decode()
	require.NoError(t, err)
	assert.Equal(t, 1, f.NumCards())
}

func TestReader_Decode_WithVerifyOption_DetectsCorruption(t *testing.T) {
	data := buildSingleCardFile(t)
	data[300] ^= 0xFF

	r, err := NewReader(data, WithVerify(true))
	require.NoError(t, err)

	_, err = r.Decode()
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)
}
