package htmldocx

import (
	"github.com/benjaminschreck/go-htmldocx/pkg/htmldocx/ooxml"
)

// Run is the smallest unit of styled text. A Run with Break set is a line
// break marker and carries no text.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Break     bool
}

func (r Run) sameFormat(o Run) bool {
	return r.Bold == o.Bold && r.Italic == o.Italic && r.Underline == o.Underline && r.Strike == o.Strike
}

// BlockKind identifies the kind of a Block.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockListItem
)

func (k BlockKind) String() string {
	switch k {
	case BlockParagraph:
		return "paragraph"
	case BlockHeading:
		return "heading"
	case BlockListItem:
		return "list-item"
	default:
		return "unknown"
	}
}

// Block is one paragraph-level unit of the document.
//
// For headings Level is 1, 2 or 3. For list items Level is the zero-based
// nesting depth and NumID the numbering definition the item belongs to.
type Block struct {
	Kind    BlockKind
	Level   int
	Ordered bool
	NumID   int
	Runs    []Run
}

// NumberFormat is the marker style of a numbering definition.
type NumberFormat string

const (
	NumberFormatBullet  NumberFormat = ooxml.FormatBullet
	NumberFormatDecimal NumberFormat = ooxml.FormatDecimal
)

// NumberingDefinition is a list definition referenced by list items.
type NumberingDefinition struct {
	NumID  int
	Format NumberFormat
}

// NumberingAllocator hands out one numbering id per list kind, in the order
// the kinds are first seen. Every ordered list item in a build shares one id,
// and every unordered item shares another; nesting is expressed through the
// item level rather than new ids.
//
// The zero value is ready to use. An allocator belongs to a single build.
type NumberingAllocator struct {
	bullet  int
	decimal int
	defs    []NumberingDefinition
}

// ID returns the numbering id for the given list kind, allocating it on
// first use.
func (a *NumberingAllocator) ID(ordered bool) int {
	slot, format := &a.bullet, NumberFormatBullet
	if ordered {
		slot, format = &a.decimal, NumberFormatDecimal
	}
	if *slot == 0 {
		*slot = len(a.defs) + 1
		a.defs = append(a.defs, NumberingDefinition{NumID: *slot, Format: format})
	}
	return *slot
}

// Definitions returns the allocated definitions in allocation order.
func (a *NumberingAllocator) Definitions() []NumberingDefinition {
	out := make([]NumberingDefinition, len(a.defs))
	copy(out, a.defs)
	return out
}

// Normalized is the result of normalizing one HTML input.
type Normalized struct {
	Blocks    []Block
	Numbering []NumberingDefinition
}
