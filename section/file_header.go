// Package section defines the fixed-size packed binary records that
// make up an OPAT file's structural skeleton: the FileHeader, the
// variable-width CardCatalogEntry, the per-card CardHeader, and the
// TableIndexEntry. Each type exposes Parse (decode) and Bytes (encode)
// methods that operate on exact-size byte slices, field by field, at
// explicit byte offsets, mirroring the wire layout directly rather than
// overlaying a Go struct onto the buffer.
package section

import (
	"fmt"

	"github.com/opat-format/opat/endian"
	"github.com/opat-format/opat/errs"
	"github.com/opat-format/opat/format"
	"github.com/opat-format/opat/internal/pool"
)

// FileHeader is the fixed 256-byte record at the start of an OPAT file.
type FileHeader struct {
	// Magic must equal "OPAT".
	Magic [4]byte
	// Version is the file format version this reader must understand.
	Version uint16
	// NumCards is the number of data cards stored in the file (wire name
	// is numTables, but at the file level it counts cards).
	NumCards uint32
	// HeaderSize must equal format.FileHeaderSize (256).
	HeaderSize uint32
	// IndexOffset is the absolute byte offset of the card catalog.
	IndexOffset uint64
	// CreationDate is a free-form 16-byte text field.
	CreationDate [16]byte
	// SourceInfo is a free-form 64-byte text field.
	SourceInfo [64]byte
	// Comment is a free-form 128-byte text field.
	Comment [128]byte
	// NumIndex is the length of every coordinate vector in this file,
	// in [format.MinNumIndex, format.MaxNumIndex].
	NumIndex uint16
	// HashPrecision is the quantization precision p used to build
	// coordinate keys, in [format.MinHashPrecision, format.MaxHashPrecision].
	HashPrecision uint8
	Reserved      [23]byte
}

// Parse decodes a FileHeader from data, which must be exactly
// format.FileHeaderSize bytes. It validates the magic tag, header size,
// numIndex bound, and hashPrecision bound; it does not validate the
// version against format.CurrentVersion (callers do that, since a
// reader may choose to tolerate newer minor versions).
func (h *FileHeader) Parse(data []byte) error {
	if len(data) != format.FileHeaderSize {
		return fmt.Errorf("%w: file header is %d bytes, want %d", errs.ErrShortRead, len(data), format.FileHeaderSize)
	}

	copy(h.Magic[:], data[0:4])
	if string(h.Magic[:]) != format.FileMagic {
		return fmt.Errorf("%w: file header magic %q at offset 0, want %q", errs.ErrBadMagic, h.Magic[:], format.FileMagic)
	}

	engine := endian.GetLittleEndianEngine()

	h.Version = engine.Uint16(data[4:6])
	h.NumCards = engine.Uint32(data[6:10])
	h.HeaderSize = engine.Uint32(data[10:14])
	h.IndexOffset = engine.Uint64(data[14:22])
	copy(h.CreationDate[:], data[22:38])
	copy(h.SourceInfo[:], data[38:102])
	copy(h.Comment[:], data[102:230])
	h.NumIndex = engine.Uint16(data[230:232])
	h.HashPrecision = data[232]
	copy(h.Reserved[:], data[233:256])

	if h.HeaderSize != format.FileHeaderSize {
		return fmt.Errorf("%w: file header field headerSize (offset 10) = %d, want %d", errs.ErrCatalogCorrupt, h.HeaderSize, format.FileHeaderSize)
	}
	if h.NumIndex < format.MinNumIndex || h.NumIndex > format.MaxNumIndex {
		return fmt.Errorf("%w: file header field numIndex (offset 230) = %d, want [%d,%d]", errs.ErrInvalidArgument, h.NumIndex, format.MinNumIndex, format.MaxNumIndex)
	}
	if h.HashPrecision < format.MinHashPrecision || h.HashPrecision > format.MaxHashPrecision {
		return fmt.Errorf("%w: file header field hashPrecision (offset 232) = %d, want [%d,%d]", errs.ErrInvalidArgument, h.HashPrecision, format.MinHashPrecision, format.MaxHashPrecision)
	}

	return nil
}

// Bytes serializes the FileHeader into a new format.FileHeaderSize-byte slice.
func (h *FileHeader) Bytes() []byte {
	scratch := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(scratch)
	b := scratch.SetLength(format.FileHeaderSize)

	engine := endian.GetLittleEndianEngine()

	copy(b[0:4], format.FileMagic)
	engine.PutUint16(b[4:6], h.Version)
	engine.PutUint32(b[6:10], h.NumCards)
	engine.PutUint32(b[10:14], h.HeaderSize)
	engine.PutUint64(b[14:22], h.IndexOffset)
	copy(b[22:38], h.CreationDate[:])
	copy(b[38:102], h.SourceInfo[:])
	copy(b[102:230], h.Comment[:])
	engine.PutUint16(b[230:232], h.NumIndex)
	b[232] = h.HashPrecision
	copy(b[233:256], h.Reserved[:])

	out := make([]byte, format.FileHeaderSize)
	copy(out, b)

	return out
}

// CreationDateString returns the logical (zero-trimmed) creation date string.
func (h *FileHeader) CreationDateString() string { return endian.TrimCString(h.CreationDate[:]) }

// SourceInfoString returns the logical (zero-trimmed) source info string.
func (h *FileHeader) SourceInfoString() string { return endian.TrimCString(h.SourceInfo[:]) }

// CommentString returns the logical (zero-trimmed) comment string.
func (h *FileHeader) CommentString() string { return endian.TrimCString(h.Comment[:]) }

// ParseFileHeader decodes a FileHeader from a freshly allocated value.
func ParseFileHeader(data []byte) (FileHeader, error) {
	h := FileHeader{}
	if err := h.Parse(data); err != nil {
		return FileHeader{}, err
	}

	return h, nil
}
