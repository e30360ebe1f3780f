package grid

import "github.com/hnimtadd/termio/terminal/size"

// Line is one row of cells. Lines are chained into logical lines via
// Wrap/WrapContinuation: if Wrap is true, the content continues onto the
// next Line in the grid (that next line's WrapContinuation is true).
type Line struct {
	Cells []*Cell

	// Wrap is true if the text on this line continues, unbroken, onto the
	// next line because it didn't fit (a "soft" newline, as opposed to one
	// the host explicitly requested).
	Wrap bool
	// WrapContinuation is true if this line is the continuation of a
	// soft-wrapped line above it.
	WrapContinuation bool

	// Wrappable records whether autowrap was enabled when this line was
	// written. Reflow only re-chains lines written with wrapping on;
	// a line written with autowrap off is never a candidate for rewrap.
	Wrappable bool

	// Marked is a user annotation (selection/bookmark); the core never
	// sets it itself, only preserves it across shifts and reflow.
	Marked bool

	// Styled is true if any cell on this line has a non-default style,
	// used as a fast-path to skip style bookkeeping on plain rows.
	Styled bool

	SemanticPrompt SemanticPromptType

	// Dirty marks the whole row as needing redraw, set whenever cells on
	// it change or it is shifted to a new position.
	Dirty bool
}

// NewLine allocates a blank line of the given width.
func NewLine(cols size.CellCountInt) *Line {
	cells := make([]*Cell, cols)
	for i := range cells {
		cells[i] = &Cell{}
	}
	return &Line{Cells: cells}
}

// Resize grows or truncates the line's cell slice in place, filling any
// newly-added cells with blanks.
func (l *Line) Resize(cols size.CellCountInt) {
	if size.CellCountInt(len(l.Cells)) == cols {
		return
	}
	if size.CellCountInt(len(l.Cells)) > cols {
		l.Cells = l.Cells[:cols]
		return
	}
	grown := make([]*Cell, cols)
	copy(grown, l.Cells)
	for i := len(l.Cells); i < len(grown); i++ {
		grown[i] = &Cell{}
	}
	l.Cells = grown
}

// Clear resets every cell in [from, to) to blank, preserving the line's
// Wrap/SemanticPrompt metadata.
func (l *Line) Clear(from, to size.CellCountInt) {
	for i := from; i < to; i++ {
		l.Cells[i] = &Cell{}
	}
}

// IsEmpty reports whether every cell on the line is blank.
func (l *Line) IsEmpty() bool {
	for _, c := range l.Cells {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the line.
func (l *Line) Clone() *Line {
	out := &Line{
		Cells:            make([]*Cell, len(l.Cells)),
		Wrap:             l.Wrap,
		WrapContinuation: l.WrapContinuation,
		Wrappable:        l.Wrappable,
		Marked:           l.Marked,
		Styled:           l.Styled,
		SemanticPrompt:   l.SemanticPrompt,
	}
	for i, c := range l.Cells {
		out.Cells[i] = c.Clone()
	}
	return out
}
