package model

import (
	"github.com/opat-format/opat/errs"
	"github.com/opat-format/opat/internal/coordkey"
	"github.com/opat-format/opat/section"
)

// File is the fully constructed, immutable in-memory representation of
// a parsed OPAT file: a FileHeader, a card catalog keyed by coordinate,
// and the parsed cards themselves.
type File struct {
	Header section.FileHeader

	keys    []coordkey.Key
	catalog map[string]section.CardCatalogEntry
	cards   map[string]*Card
}

// NewFile constructs a File. keys, catalog, and cards must share the
// same coordkey.Key.MapKey() key set; NewFile does not verify this.
func NewFile(header section.FileHeader, keys []coordkey.Key, catalog map[string]section.CardCatalogEntry, cards map[string]*Card) *File {
	return &File{Header: header, keys: keys, catalog: catalog, cards: cards}
}

// Get returns the card addressed by key.
func (f *File) Get(key coordkey.Key) (*Card, error) {
	c, ok := f.cards[key.MapKey()]
	if !ok {
		return nil, errs.ErrNotFound
	}

	return c, nil
}

// CatalogEntry returns the raw catalog record for key, useful for
// integrity verification (byte range, stored checksum) without paying
// for a full card parse.
func (f *File) CatalogEntry(key coordkey.Key) (section.CardCatalogEntry, error) {
	e, ok := f.catalog[key.MapKey()]
	if !ok {
		return section.CardCatalogEntry{}, errs.ErrNotFound
	}

	return e, nil
}

// Keys returns the set of coordinate keys present in the catalog, in
// catalog order.
func (f *File) Keys() []coordkey.Key {
	out := make([]coordkey.Key, len(f.keys))
	copy(out, f.keys)

	return out
}

// NumCards reports the number of cards in the catalog.
func (f *File) NumCards() int { return len(f.keys) }

// Bounds returns, for each of the file's NumIndex coordinate
// dimensions, the [min,max] span observed across the catalog's keys.
// Bounds returns errs.ErrEmpty for a file with no cards.
func (f *File) Bounds() ([][2]float64, error) {
	if len(f.keys) == 0 {
		return nil, errs.ErrEmpty
	}

	n := f.keys[0].Len()
	bounds := make([][2]float64, n)
	for i := range bounds {
		bounds[i] = [2]float64{f.keys[0].At(i), f.keys[0].At(i)}
	}

	for _, k := range f.keys[1:] {
		for i := 0; i < n; i++ {
			v := k.At(i)
			if v < bounds[i][0] {
				bounds[i][0] = v
			}
			if v > bounds[i][1] {
				bounds[i][1] = v
			}
		}
	}

	return bounds, nil
}
