// Package codec implements the OPAT binary reader: parsing a file
// header, its card catalog, and every card's header, table index, and
// table payloads into the in-memory model.File tree defined by the
// model package.
package codec

import (
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/opat-format/opat/endian"
	"github.com/opat-format/opat/errs"
	"github.com/opat-format/opat/format"
	"github.com/opat-format/opat/internal/coordkey"
	"github.com/opat-format/opat/internal/options"
	"github.com/opat-format/opat/model"
	"github.com/opat-format/opat/section"
)

// Reader decodes an OPAT byte image. A Reader is not safe for
// concurrent use; Decode is meant to be called once.
type Reader struct {
	data []byte
	m    mmap.MMap // non-nil only when Open memory-mapped the source
	cfg  *config
}

// NewReader wraps an already-loaded, in-memory OPAT byte image. The
// caller retains ownership of data; Reader never mutates it.
func NewReader(data []byte, opts ...Option) (*Reader, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Reader{data: data, cfg: cfg}, nil
}

// Open opens the file at path and returns a Reader over its contents.
// By default the file is memory-mapped (see WithMmap); the caller must
// call Close when done to release the mapping.
func Open(path string, opts ...Option) (*Reader, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if cfg.mmap {
		m, err := mmap.Map(f, mmap.RDONLY, 0)
		if err != nil {
			return nil, err
		}

		return &Reader{data: []byte(m), m: m, cfg: cfg}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &Reader{data: data, cfg: cfg}, nil
}

// Close releases the memory mapping backing this Reader, if any. It is
// a no-op for readers constructed from an in-memory buffer.
func (r *Reader) Close() error {
	if r.m != nil {
		return r.m.Unmap()
	}

	return nil
}

// Decode parses the full file into a model.File. If the reader was
// constructed with WithVerify, every card's SHA-256 digest is checked
// against its catalog entry as it is decoded.
func (r *Reader) Decode() (*model.File, error) {
	header, err := r.readFileHeader()
	if err != nil {
		return nil, err
	}

	keys, catalog, err := r.readCatalog(header)
	if err != nil {
		return nil, err
	}

	cards := make(map[string]*model.Card, len(keys))
	for _, k := range keys {
		entry := catalog[k.MapKey()]

		if r.cfg.verify {
			if err := r.verifyEntry(entry); err != nil {
				return nil, err
			}
		}

		card, err := r.readCard(entry.ByteStart, entry.ByteEnd)
		if err != nil {
			return nil, err
		}

		cards[k.MapKey()] = card
	}

	return model.NewFile(header, keys, catalog, cards), nil
}

// Verify recomputes the SHA-256 digest of every card payload in the
// file and compares it against the digest recorded in its catalog
// entry, independent of whether the Reader was opened with WithVerify.
func (r *Reader) Verify() error {
	header, err := r.readFileHeader()
	if err != nil {
		return err
	}

	_, catalog, err := r.readCatalog(header)
	if err != nil {
		return err
	}

	for _, entry := range catalog {
		if err := r.verifyEntry(entry); err != nil {
			return err
		}
	}

	return nil
}

func (r *Reader) verifyEntry(entry section.CardCatalogEntry) error {
	if entry.ByteEnd > uint64(len(r.data)) || entry.ByteStart > entry.ByteEnd {
		return fmt.Errorf("%w: catalog entry range [%d,%d) exceeds file length %d", errs.ErrShortRead, entry.ByteStart, entry.ByteEnd, len(r.data))
	}

	sum := sha256.Sum256(r.data[entry.ByteStart:entry.ByteEnd])
	if sum != entry.Sha256 {
		return fmt.Errorf("%w: card at byte range [%d,%d)", errs.ErrChecksumMismatch, entry.ByteStart, entry.ByteEnd)
	}

	return nil
}

func (r *Reader) readFileHeader() (section.FileHeader, error) {
	if len(r.data) < format.FileHeaderSize {
		return section.FileHeader{}, fmt.Errorf("%w: file is %d bytes, want at least %d", errs.ErrShortRead, len(r.data), format.FileHeaderSize)
	}

	header, err := section.ParseFileHeader(r.data[:format.FileHeaderSize])
	if err != nil {
		return section.FileHeader{}, fmt.Errorf("file header at offset 0: %w", err)
	}
	if header.Version > format.CurrentVersion {
		return section.FileHeader{}, fmt.Errorf("%w: file header field version = %d, max supported %d", errs.ErrUnsupportedVersion, header.Version, format.CurrentVersion)
	}

	return header, nil
}

func (r *Reader) readCatalog(header section.FileHeader) ([]coordkey.Key, map[string]section.CardCatalogEntry, error) {
	numIndex := int(header.NumIndex)
	entrySize := section.CatalogEntrySize(numIndex)

	off := header.IndexOffset
	catalog := make(map[string]section.CardCatalogEntry, header.NumCards)
	keys := make([]coordkey.Key, 0, header.NumCards)

	for i := uint32(0); i < header.NumCards; i++ {
		end := off + uint64(entrySize)
		if end > uint64(len(r.data)) {
			return nil, nil, fmt.Errorf("%w: catalog entry %d at offset %d needs %d bytes, file is %d bytes", errs.ErrShortRead, i, off, entrySize, len(r.data))
		}

		entry, err := section.ParseCardCatalogEntry(r.data[off:end], numIndex)
		if err != nil {
			return nil, nil, fmt.Errorf("catalog entry %d at offset %d: %w", i, off, err)
		}

		key, err := coordkey.New(entry.Index, uint8(header.HashPrecision))
		if err != nil {
			return nil, nil, fmt.Errorf("catalog entry %d at offset %d: %w", i, off, err)
		}

		if _, exists := catalog[key.MapKey()]; !exists {
			keys = append(keys, key)
		}
		catalog[key.MapKey()] = entry // last write wins

		off = end
	}

	return keys, catalog, nil
}

func (r *Reader) readCard(byteStart, byteEnd uint64) (*model.Card, error) {
	if byteEnd > uint64(len(r.data)) || byteStart+uint64(format.CardHeaderSize) > byteEnd {
		return nil, fmt.Errorf("%w: card at offset %d needs %d bytes, range is [%d,%d) against file length %d",
			errs.ErrShortRead, byteStart, format.CardHeaderSize, byteStart, byteEnd, len(r.data))
	}

	cardHeader, err := section.ParseCardHeader(r.data[byteStart : byteStart+format.CardHeaderSize])
	if err != nil {
		return nil, fmt.Errorf("card header at offset %d: %w", byteStart, err)
	}

	indexOff := byteStart + cardHeader.IndexOffset
	index := make(map[string]section.TableIndexEntry, cardHeader.NumTables)
	tables := make(map[string]*model.Table, cardHeader.NumTables)

	for i := uint32(0); i < cardHeader.NumTables; i++ {
		end := indexOff + format.TableIndexEntrySize
		if end > byteEnd {
			return nil, fmt.Errorf("%w: table index entry %d at offset %d needs %d bytes, card ends at %d",
				errs.ErrShortRead, i, indexOff, format.TableIndexEntrySize, byteEnd)
		}

		entry, err := section.ParseTableIndexEntry(r.data[indexOff:end])
		if err != nil {
			return nil, fmt.Errorf("table index entry %d at offset %d: %w", i, indexOff, err)
		}
		indexOff = end

		tag := entry.TagString()
		table, err := r.readTable(byteStart, entry)
		if err != nil {
			return nil, fmt.Errorf("table %q in card at offset %d: %w", tag, byteStart, err)
		}

		index[tag] = entry
		tables[tag] = table
	}

	return model.NewCard(cardHeader, index, tables), nil
}

func (r *Reader) readTable(cardStart uint64, entry section.TableIndexEntry) (*model.Table, error) {
	start := cardStart + entry.ByteStart
	end := cardStart + entry.ByteEnd
	if end > uint64(len(r.data)) || start > end {
		return nil, fmt.Errorf("%w: table payload range [%d,%d) against file length %d", errs.ErrShortRead, start, end, len(r.data))
	}

	numRows := int(entry.NumRows)
	numCols := int(entry.NumColumns)
	v := int(entry.Size)

	want := uint64((numRows + numCols + numRows*numCols*v) * 8)
	if end-start < want {
		return nil, fmt.Errorf("%w: table payload at offset %d is %d bytes, want %d", errs.ErrShortRead, start, end-start, want)
	}

	buf := r.data[start:end]

	rowValues := make([]float64, numRows)
	endian.ReadFloat64sLE(buf[:numRows*8], rowValues)
	buf = buf[numRows*8:]

	colValues := make([]float64, numCols)
	endian.ReadFloat64sLE(buf[:numCols*8], colValues)
	buf = buf[numCols*8:]

	data := make([]float64, numRows*numCols*v)
	endian.ReadFloat64sLE(buf[:len(data)*8], data)

	return model.NewTable(rowValues, colValues, data, v), nil
}
