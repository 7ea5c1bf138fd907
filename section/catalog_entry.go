package section

import (
	"fmt"

	"github.com/opat-format/opat/endian"
	"github.com/opat-format/opat/errs"
	"github.com/opat-format/opat/format"
	"github.com/opat-format/opat/internal/pool"
)

// ShaDigestSize is the byte width of the SHA-256 digest stored in a
// CardCatalogEntry.
const ShaDigestSize = 32

// CardCatalogEntry is a variable-width catalog record: it has a
// format.CatalogEntryBaseSize fixed tail plus numIndex float64 index
// components at its head. CatalogEntrySize returns its total packed size
// for a given numIndex.
type CardCatalogEntry struct {
	// Index is the coordinate vector identifying this card, length numIndex.
	Index []float64
	// ByteStart and ByteEnd bracket the card payload within the file
	// (absolute offsets).
	ByteStart uint64
	ByteEnd   uint64
	// Sha256 is the digest of the card payload bytes [ByteStart, ByteEnd).
	Sha256 [ShaDigestSize]byte
}

// CatalogEntrySize returns the packed byte size of a CardCatalogEntry
// for the given numIndex.
func CatalogEntrySize(numIndex int) int {
	return format.CatalogEntryBaseSize + 8*numIndex
}

// Parse decodes a CardCatalogEntry from data, which must be exactly
// CatalogEntrySize(numIndex) bytes.
func (e *CardCatalogEntry) Parse(data []byte, numIndex int) error {
	want := CatalogEntrySize(numIndex)
	if len(data) != want {
		return fmt.Errorf("%w: catalog entry (numIndex=%d) is %d bytes, want %d", errs.ErrShortRead, numIndex, len(data), want)
	}

	e.Index = make([]float64, numIndex)
	endian.ReadFloat64sLE(data[0:8*numIndex], e.Index)

	engine := endian.GetLittleEndianEngine()
	off := 8 * numIndex
	e.ByteStart = engine.Uint64(data[off : off+8])
	e.ByteEnd = engine.Uint64(data[off+8 : off+16])
	copy(e.Sha256[:], data[off+16:off+16+ShaDigestSize])

	return nil
}

// Bytes serializes the CardCatalogEntry into a new
// CatalogEntrySize(len(e.Index))-byte slice.
func (e *CardCatalogEntry) Bytes() []byte {
	numIndex := len(e.Index)
	size := CatalogEntrySize(numIndex)

	scratch := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(scratch)
	b := scratch.SetLength(size)

	endian.PutFloat64sLE(b[0:8*numIndex], e.Index)

	engine := endian.GetLittleEndianEngine()
	off := 8 * numIndex
	engine.PutUint64(b[off:off+8], e.ByteStart)
	engine.PutUint64(b[off+8:off+16], e.ByteEnd)
	copy(b[off+16:off+16+ShaDigestSize], e.Sha256[:])

	out := make([]byte, size)
	copy(out, b)

	return out
}

// ParseCardCatalogEntry decodes a CardCatalogEntry into a freshly
// allocated value.
func ParseCardCatalogEntry(data []byte, numIndex int) (CardCatalogEntry, error) {
	e := CardCatalogEntry{}
	if err := e.Parse(data, numIndex); err != nil {
		return CardCatalogEntry{}, err
	}

	return e, nil
}
