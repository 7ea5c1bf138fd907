package model

import (
	"github.com/opat-format/opat/errs"
	"github.com/opat-format/opat/section"
)

// Card holds a parsed CardHeader plus the tables addressed by it, keyed
// by case-sensitive tag.
type Card struct {
	Header section.CardHeader
	// Index preserves the raw TableIndexEntry records, by tag.
	Index map[string]section.TableIndexEntry
	tables map[string]*Table
}

// NewCard constructs a Card from a header and its table set. tables and
// index must share the same key set; NewCard does not verify this.
func NewCard(header section.CardHeader, index map[string]section.TableIndexEntry, tables map[string]*Table) *Card {
	return &Card{Header: header, Index: index, tables: tables}
}

// Get returns the table stored under tag.
func (c *Card) Get(tag string) (*Table, error) {
	t, ok := c.tables[tag]
	if !ok {
		return nil, errs.ErrNotFound
	}

	return t, nil
}

// Tags returns the set of table tags present in this card. Order is
// unspecified.
func (c *Card) Tags() []string {
	tags := make([]string, 0, len(c.tables))
	for tag := range c.tables {
		tags = append(tags, tag)
	}

	return tags
}

// NumTables reports how many tables this card holds.
func (c *Card) NumTables() int { return len(c.tables) }
