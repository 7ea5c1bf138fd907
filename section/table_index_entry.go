package section

import (
	"fmt"

	"github.com/opat-format/opat/endian"
	"github.com/opat-format/opat/errs"
	"github.com/opat-format/opat/format"
	"github.com/opat-format/opat/internal/pool"
)

// TableIndexEntry is the fixed 64-byte record describing one table
// within a card's table index.
type TableIndexEntry struct {
	// Tag is the case-sensitive identifier of this table within its card.
	Tag [format.TagSize]byte
	// ByteStart and ByteEnd bracket the table payload, relative to the
	// card's start byte.
	ByteStart uint64
	ByteEnd   uint64
	// NumColumns and NumRows are the table's extent.
	NumColumns uint16
	NumRows    uint16
	ColumnName [format.ColumnNameSize]byte
	RowName    [format.RowNameSize]byte
	// Size is the per-cell vector length v, v >= 1.
	Size     uint64
	Reserved [12]byte
}

// Parse decodes a TableIndexEntry from data, which must be exactly
// format.TableIndexEntrySize bytes.
func (e *TableIndexEntry) Parse(data []byte) error {
	if len(data) != format.TableIndexEntrySize {
		return fmt.Errorf("%w: table index entry is %d bytes, want %d", errs.ErrShortRead, len(data), format.TableIndexEntrySize)
	}

	copy(e.Tag[:], data[0:8])

	engine := endian.GetLittleEndianEngine()
	e.ByteStart = engine.Uint64(data[8:16])
	e.ByteEnd = engine.Uint64(data[16:24])
	e.NumColumns = engine.Uint16(data[24:26])
	e.NumRows = engine.Uint16(data[26:28])
	copy(e.ColumnName[:], data[28:36])
	copy(e.RowName[:], data[36:44])
	e.Size = engine.Uint64(data[44:52])
	copy(e.Reserved[:], data[52:64])

	if e.Size < 1 {
		return fmt.Errorf("%w: table index entry %q field size (offset 44) = %d, want >= 1", errs.ErrCatalogCorrupt, endian.TrimCString(e.Tag[:]), e.Size)
	}

	return nil
}

// Bytes serializes the TableIndexEntry into a new
// format.TableIndexEntrySize-byte slice.
func (e *TableIndexEntry) Bytes() []byte {
	scratch := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(scratch)
	b := scratch.SetLength(format.TableIndexEntrySize)

	copy(b[0:8], e.Tag[:])

	engine := endian.GetLittleEndianEngine()
	engine.PutUint64(b[8:16], e.ByteStart)
	engine.PutUint64(b[16:24], e.ByteEnd)
	engine.PutUint16(b[24:26], e.NumColumns)
	engine.PutUint16(b[26:28], e.NumRows)
	copy(b[28:36], e.ColumnName[:])
	copy(b[36:44], e.RowName[:])
	engine.PutUint64(b[44:52], e.Size)
	copy(b[52:64], e.Reserved[:])

	out := make([]byte, format.TableIndexEntrySize)
	copy(out, b)

	return out
}

// TagString returns the logical (zero-trimmed) tag string.
func (e *TableIndexEntry) TagString() string { return endian.TrimCString(e.Tag[:]) }

// ColumnNameString returns the logical (zero-trimmed) column axis name.
func (e *TableIndexEntry) ColumnNameString() string { return endian.TrimCString(e.ColumnName[:]) }

// RowNameString returns the logical (zero-trimmed) row axis name.
func (e *TableIndexEntry) RowNameString() string { return endian.TrimCString(e.RowName[:]) }

// ParseTableIndexEntry decodes a TableIndexEntry into a freshly
// allocated value.
func ParseTableIndexEntry(data []byte) (TableIndexEntry, error) {
	e := TableIndexEntry{}
	if err := e.Parse(data); err != nil {
		return TableIndexEntry{}, err
	}

	return e, nil
}
