package section

import (
	"fmt"

	"github.com/opat-format/opat/endian"
	"github.com/opat-format/opat/errs"
	"github.com/opat-format/opat/format"
	"github.com/opat-format/opat/internal/pool"
)

// CardHeader is the fixed 256-byte record at the start of every card
// payload.
type CardHeader struct {
	// Magic must equal "CARD".
	Magic [4]byte
	// NumTables is the number of tables stored in this card.
	NumTables uint32
	// HeaderSize must equal format.CardHeaderSize (256).
	HeaderSize uint32
	// IndexOffset is the byte offset of the table index, relative to the
	// start of this card's payload.
	IndexOffset uint64
	// CardSize is the total byte size of this card's payload.
	CardSize uint64
	Comment  [128]byte
	Reserved [100]byte
}

// Parse decodes a CardHeader from data, which must be exactly
// format.CardHeaderSize bytes.
func (h *CardHeader) Parse(data []byte) error {
	if len(data) != format.CardHeaderSize {
		return fmt.Errorf("%w: card header is %d bytes, want %d", errs.ErrShortRead, len(data), format.CardHeaderSize)
	}

	copy(h.Magic[:], data[0:4])
	if string(h.Magic[:]) != format.CardMagic {
		return fmt.Errorf("%w: card header magic %q at offset 0, want %q", errs.ErrBadMagic, h.Magic[:], format.CardMagic)
	}

	engine := endian.GetLittleEndianEngine()

	h.NumTables = engine.Uint32(data[4:8])
	h.HeaderSize = engine.Uint32(data[8:12])
	h.IndexOffset = engine.Uint64(data[12:20])
	h.CardSize = engine.Uint64(data[20:28])
	copy(h.Comment[:], data[28:156])
	copy(h.Reserved[:], data[156:256])

	if h.HeaderSize != format.CardHeaderSize {
		return fmt.Errorf("%w: card header field headerSize (offset 8) = %d, want %d", errs.ErrCatalogCorrupt, h.HeaderSize, format.CardHeaderSize)
	}

	return nil
}

// Bytes serializes the CardHeader into a new format.CardHeaderSize-byte slice.
func (h *CardHeader) Bytes() []byte {
	scratch := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(scratch)
	b := scratch.SetLength(format.CardHeaderSize)

	engine := endian.GetLittleEndianEngine()

	copy(b[0:4], format.CardMagic)
	engine.PutUint32(b[4:8], h.NumTables)
	engine.PutUint32(b[8:12], h.HeaderSize)
	engine.PutUint64(b[12:20], h.IndexOffset)
	engine.PutUint64(b[20:28], h.CardSize)
	copy(b[28:156], h.Comment[:])
	copy(b[156:256], h.Reserved[:])

	out := make([]byte, format.CardHeaderSize)
	copy(out, b)

	return out
}

// CommentString returns the logical (zero-trimmed) comment string.
func (h *CardHeader) CommentString() string { return endian.TrimCString(h.Comment[:]) }

// ParseCardHeader decodes a CardHeader into a freshly allocated value.
func ParseCardHeader(data []byte) (CardHeader, error) {
	h := CardHeader{}
	if err := h.Parse(data); err != nil {
		return CardHeader{}, err
	}

	return h, nil
}
