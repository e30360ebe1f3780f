package grid

import (
	"github.com/hnimtadd/termio/hyperlink"
	"github.com/hnimtadd/termio/imagefragment"
	styleid "github.com/hnimtadd/termio/terminal/style/id"
)

// Wide describes how a cell participates in a (possibly multi-column)
// character.
type Wide uint8

const (
	// WideNarrow is a normal, single-column cell.
	WideNarrow Wide = iota
	// WideWide is the leading cell of a two-column-wide character.
	WideWide
	// WideSpacerTail is the trailing, non-printable half of a wide
	// character.
	WideSpacerTail
	// WideSpacerHead marks a cell that was left empty because the wide
	// character that would have gone there didn't fit before the right
	// edge of the row, and was wrapped to the next line instead.
	WideSpacerHead
)

// Cell is a single addressable terminal cell: a codepoint (the base
// character of a possibly-multi-rune grapheme cluster), trailing combining
// runes for that cluster, and handles into the grid's interned style /
// hyperlink / image stores.
type Cell struct {
	// Codepoint is the primary rune of this cell. Zero means empty.
	Codepoint rune
	// Combining holds any zero-width combining runes that were joined onto
	// Codepoint (e.g. combining diacritics or variation selectors) instead
	// of occupying their own cell.
	Combining []rune

	Wide Wide

	StyleID     styleid.ID
	HyperlinkID hyperlink.ID
	ImageID     imagefragment.ID

	Dirty bool
}

// IsEmpty returns true if the cell has no visible content at all.
func (c *Cell) IsEmpty() bool {
	return c.Codepoint == 0 && c.Wide == WideNarrow && len(c.Combining) == 0
}

// HasText is true if the cell (or its wide-char pair) carries a printable
// codepoint.
func (c *Cell) HasText() bool {
	return c.Codepoint != 0
}

// Reset clears the cell back to empty but preserves nothing - callers are
// responsible for releasing StyleID/HyperlinkID/ImageID against their
// owning stores first, since Reset doesn't have access to them.
func (c *Cell) Reset() {
	c.Codepoint = 0
	c.Combining = nil
	c.Wide = WideNarrow
	c.StyleID = styleid.DefaultID
	c.HyperlinkID = hyperlink.NoID
	c.ImageID = imagefragment.NoID
	c.Dirty = true
}

// Clone returns a value copy of the cell, including a fresh copy of the
// combining-rune slice so mutating one doesn't affect the other.
func (c *Cell) Clone() *Cell {
	out := *c
	if len(c.Combining) > 0 {
		out.Combining = append([]rune(nil), c.Combining...)
	}
	return &out
}
