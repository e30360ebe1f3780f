// Package grid implements the terminal's cell storage: the scrollback
// history and the active screen, addressed as a single growable slice of
// Lines rather than the fixed-capacity page/pagelist scheme some terminal
// emulators use. A deque of lines is simpler to reason about and is more
// than fast enough for a library whose job is correctness, not rendering
// millions of rows a second.
package grid

import (
	"fmt"
	"io"

	"github.com/hnimtadd/termio/hyperlink"
	"github.com/hnimtadd/termio/imagefragment"
	"github.com/hnimtadd/termio/terminal/set"
	"github.com/hnimtadd/termio/terminal/size"
	styleid "github.com/hnimtadd/termio/terminal/style/id"
)

// Grid is the terminal's full line storage: Rows worth of "active" lines
// the running program can address directly, plus up to MaxScrollback lines
// of history pushed above it by scrolling.
type Grid struct {
	// Lines holds scrollback history followed by the active screen. Its
	// length is always >= Rows; Lines[len(Lines)-Rows:] is the active area.
	Lines []*Line

	Cols size.CellCountInt
	Rows size.CellCountInt

	// MaxScrollback caps how many history lines are retained once the
	// active area is full. A value of 0 means no scrollback at all.
	MaxScrollback size.CellCountInt

	Styles     *set.RefCountedSet
	Hyperlinks *hyperlink.Store
	Images     *imagefragment.Store
}

// NewGrid allocates a grid with exactly `rows` blank active lines and no
// scrollback yet.
func NewGrid(cols, rows, maxScrollback size.CellCountInt) *Grid {
	lines := make([]*Line, rows)
	for i := range lines {
		lines[i] = NewLine(cols)
	}
	return &Grid{
		Lines:         lines,
		Cols:          cols,
		Rows:          rows,
		MaxScrollback: maxScrollback,
		Styles:        set.NewRefCountedSet(set.Options{}),
		Hyperlinks:    hyperlink.NewStore(),
		Images:        imagefragment.NewStore(),
	}
}

// activeBase is the index into Lines of active row 0.
func (g *Grid) activeBase() int {
	return len(g.Lines) - int(g.Rows)
}

// ActiveIndex translates an active-area row (0 is the top of the visible
// screen, not the top of scrollback) into an absolute index into Lines.
func (g *Grid) ActiveIndex(y size.CellCountInt) int {
	return g.activeBase() + int(y)
}

// Line returns the active-area line at row y.
func (g *Grid) Line(y size.CellCountInt) *Line {
	return g.Lines[g.ActiveIndex(y)]
}

// Cell returns the cell at (x, y) in the active area.
func (g *Grid) Cell(x, y size.CellCountInt) *Cell {
	return g.Line(y).Cells[x]
}

// ScrollbackLen returns how many history lines currently exist above the
// active area.
func (g *Grid) ScrollbackLen() size.CellCountInt {
	return size.CellCountInt(g.activeBase())
}

// HistoryLine returns a scrollback line, where 0 is the oldest retained
// line. Panics if n is out of range; callers should check ScrollbackLen
// first.
func (g *Grid) HistoryLine(n size.CellCountInt) *Line {
	return g.Lines[n]
}

// ScrollUp pushes the top active row into history and appends a fresh
// blank row at the bottom of the active area - i.e. a full-screen scroll.
// If MaxScrollback would be exceeded the oldest history line is dropped,
// along with releasing any style/hyperlink/image refs it held.
func (g *Grid) ScrollUp() {
	g.Lines = append(g.Lines, NewLine(g.Cols))
	maxLen := int(g.Rows + g.MaxScrollback)
	for len(g.Lines) > maxLen {
		g.releaseLine(g.Lines[0])
		g.Lines = g.Lines[1:]
	}
}

// ScrollDown removes the bottom active row and inserts a fresh blank row
// at the top of the active area. Scrollback is left untouched: the active
// area keeps its height and the bottom row's content is lost.
func (g *Grid) ScrollDown() {
	bottomIdx := len(g.Lines) - 1
	g.releaseLine(g.Lines[bottomIdx])
	g.Lines[bottomIdx] = NewLine(g.Cols)
	bottomIdx--
	base := g.activeBase()
	copy(g.Lines[base+1:], g.Lines[base:bottomIdx+1])
	g.Lines[base] = NewLine(g.Cols)
	for i := base; i <= bottomIdx+1 && i < len(g.Lines); i++ {
		g.Lines[i].Dirty = true
	}
}

func (g *Grid) releaseLine(l *Line) {
	for _, c := range l.Cells {
		g.ReleaseCell(c)
	}
}

// ReleaseCell releases a cell's style/hyperlink/image references without
// clearing its content - used right before the cell is overwritten or
// dropped.
func (g *Grid) ReleaseCell(c *Cell) {
	if c.StyleID != styleid.DefaultID {
		g.Styles.Release(set.ID(c.StyleID))
	}
	if c.HyperlinkID != hyperlink.NoID {
		g.Hyperlinks.Release(c.HyperlinkID)
	}
	if c.ImageID != imagefragment.NoID {
		g.Images.Release(c.ImageID)
	}
}

// UseCell adds a reference to whatever style/hyperlink/image a cell
// carries - called when a cell is copied (e.g. scrolled) so the refcounts
// stay accurate.
func (g *Grid) UseCell(c *Cell) {
	if c.StyleID != styleid.DefaultID {
		g.Styles.Use(set.ID(c.StyleID))
	}
	if c.HyperlinkID != hyperlink.NoID {
		g.Hyperlinks.Use(c.HyperlinkID)
	}
	if c.ImageID != imagefragment.NoID {
		g.Images.Use(c.ImageID)
	}
}

// ClearCells resets [from, to) on the given active row to blank, releasing
// any style/hyperlink/image references those cells held. If bg is
// non-default every cleared cell inherits it (used so erase operations
// preserve the current background color).
func (g *Grid) ClearCells(y, from, to size.CellCountInt, bg styleid.ID) {
	line := g.Line(y)
	cleared := false
	for i := from; i < to; i++ {
		cell := line.Cells[i]
		if cell.StyleID != styleid.DefaultID {
			g.Styles.Release(set.ID(cell.StyleID))
			cleared = true
		}
		if cell.HyperlinkID != hyperlink.NoID {
			g.Hyperlinks.Release(cell.HyperlinkID)
		}
		if cell.ImageID != imagefragment.NoID {
			g.Images.Release(cell.ImageID)
		}
		line.Cells[i] = &Cell{StyleID: bg}
		if bg != styleid.DefaultID {
			g.Styles.Use(set.ID(bg))
		}
	}
	if cleared && to-from >= size.CellCountInt(len(line.Cells)) {
		line.Styled = false
	}
	line.Dirty = true
}

// ShiftRegionUp shifts rows [top, bottom] (inclusive, active-area
// coordinates) up by `count` within columns [left, right), discarding the
// top `count` rows of the region and filling the bottom `count` rows with
// blanks. This implements IL/DL/scroll-region-bound index semantics; it
// never touches scrollback (use ScrollUp for that, when the region is the
// full screen).
func (g *Grid) ShiftRegionUp(top, bottom, left, right, count size.CellCountInt) {
	height := bottom - top + 1
	if count > height {
		count = height
	}
	fullWidth := left == 0 && right == g.Cols

	for y := top; y <= bottom-count; y++ {
		src := g.Line(y + count)
		dst := g.Line(y)
		g.copyRegion(src, dst, left, right, fullWidth)
	}
	for y := bottom - count + 1; y <= bottom; y++ {
		if y < top {
			continue
		}
		g.ClearCells(y, left, right, styleid.DefaultID)
	}
}

// ShiftRegionDown is the inverse of ShiftRegionUp: rows are pushed down,
// the bottom `count` rows of the region are discarded and the top `count`
// rows become blank.
func (g *Grid) ShiftRegionDown(top, bottom, left, right, count size.CellCountInt) {
	height := bottom - top + 1
	if count > height {
		count = height
	}
	fullWidth := left == 0 && right == g.Cols

	for y := bottom; y >= top+count; y-- {
		src := g.Line(y - count)
		dst := g.Line(y)
		g.copyRegion(src, dst, left, right, fullWidth)
	}
	for y := top; y < top+count; y++ {
		g.ClearCells(y, left, right, styleid.DefaultID)
	}
}

// copyRegion copies cells [left, right) from src into dst, managing
// style/hyperlink/image ref-counts. When fullWidth is true the row
// metadata (Wrap, WrapContinuation, SemanticPrompt, Styled) is copied
// from src to dst as well; otherwise only cell contents move.
func (g *Grid) copyRegion(src, dst *Line, left, right size.CellCountInt, fullWidth bool) {
	for x := left; x < right; x++ {
		old := dst.Cells[x]
		g.ReleaseCell(old)
		newCell := src.Cells[x].Clone()
		dst.Cells[x] = newCell
		g.UseCell(newCell)
	}
	if fullWidth {
		dst.Wrap = src.Wrap
		dst.WrapContinuation = src.WrapContinuation
		dst.SemanticPrompt = src.SemanticPrompt
		dst.Styled = src.Styled
	}
	dst.Dirty = true
}

// InsertCells shifts cells [from, end) of row y right by count within
// [left, right), discarding whatever falls off the right edge of the
// region, then clears [from, from+count) to blank.
func (g *Grid) InsertCells(y, from, left, right, count size.CellCountInt) {
	line := g.Line(y)
	if count > right-from {
		count = right - from
	}
	for x := right - 1; x >= from+count; x-- {
		src := line.Cells[x-count]
		old := line.Cells[x]
		g.ReleaseCell(old)
		newCell := src.Clone()
		line.Cells[x] = newCell
		g.UseCell(newCell)
	}
	g.ClearCells(y, from, from+count, styleid.DefaultID)
	_ = left
}

// DeleteCells shifts cells (from+count, right) of row y left by count
// within [left, right), and clears the vacated cells at the right edge of
// the region.
func (g *Grid) DeleteCells(y, from, left, right, count size.CellCountInt) {
	line := g.Line(y)
	if count > right-from {
		count = right - from
	}
	for x := from; x < right-count; x++ {
		src := line.Cells[x+count]
		old := line.Cells[x]
		g.ReleaseCell(old)
		newCell := src.Clone()
		line.Cells[x] = newCell
		g.UseCell(newCell)
	}
	g.ClearCells(y, right-count, right, styleid.DefaultID)
	_ = left
}

// SetCell writes a fresh cell value at (x, y), releasing whatever
// style/hyperlink/image refs the previous occupant held and taking a
// reference on whatever the new cell carries. Callers build the *Cell they
// want written (codepoint, wide flag, styleID, hyperlink, image) and hand
// it here rather than poking Grid.Styles/Hyperlinks/Images directly.
func (g *Grid) SetCell(x, y size.CellCountInt, cell *Cell) {
	line := g.Line(y)
	old := line.Cells[x]
	g.ReleaseCell(old)
	line.Cells[x] = cell
	g.UseCell(cell)
	cell.Dirty = true
	line.Dirty = true
	if cell.StyleID != styleid.DefaultID {
		line.Styled = true
	}
}

// ResizeWithoutReflow changes the grid's dimensions without attempting to
// re-wrap wrapped lines: rows are truncated/padded top-aligned and columns
// are clipped/padded per line. Scrollback is dropped, since without reflow
// there is no way to know how much of it would still make sense at the new
// width. cursorX/cursorY are clamped into the new active area and returned.
func (g *Grid) ResizeWithoutReflow(newCols, newRows, cursorX, cursorY size.CellCountInt) (size.CellCountInt, size.CellCountInt) {
	oldActive := g.Lines[g.activeBase():]

	lines := make([]*Line, newRows)
	for y := size.CellCountInt(0); y < newRows; y++ {
		if int(y) < len(oldActive) {
			l := oldActive[y]
			l.Resize(newCols)
			lines[y] = l
		} else {
			lines[y] = NewLine(newCols)
		}
	}
	// Release any rows that fell off the bottom.
	for y := int(newRows); y < len(oldActive); y++ {
		g.releaseLine(oldActive[y])
	}

	g.Lines = lines
	g.Cols = newCols
	g.Rows = newRows

	if cursorX >= newCols {
		cursorX = newCols - 1
	}
	if cursorY >= newRows {
		cursorY = newRows - 1
	}
	return cursorX, cursorY
}

// logicalLine is a flattened run of physical lines joined by Wrap/
// WrapContinuation, used as the unit of work for reflow.
type logicalLine struct {
	cells     []*Cell
	wrappable bool
	prompt    SemanticPromptType
}

// flattenLogicalLines walks the active area (top-aligned; scrollback is
// intentionally excluded from reflow, matching the accepted simplification
// documented alongside this function) and groups physical lines chained by
// Wrap into logical lines. It also reports, for the given cursor position,
// which logical line the cursor falls in and its cell offset within it.
func flattenLogicalLines(lines []*Line, cursorY, cursorX size.CellCountInt) ([]logicalLine, int, int) {
	var out []logicalLine
	cursorLogical, cursorOffset := 0, 0
	i := 0
	for i < len(lines) {
		ll := logicalLine{wrappable: lines[i].Wrappable, prompt: lines[i].SemanticPrompt}
		for {
			line := lines[i]
			if size.CellCountInt(i) == cursorY {
				cursorLogical = len(out)
				cursorOffset = len(ll.cells) + int(cursorX)
			}
			ll.cells = append(ll.cells, line.Cells...)
			if !line.Wrap || i+1 >= len(lines) || !lines[i+1].WrapContinuation {
				i++
				break
			}
			i++
		}
		out = append(out, ll)
	}
	return out, cursorLogical, cursorOffset
}

// rewrapLogicalLine trims trailing blank cells (never past keepAtLeast, so
// the cursor's own cell is never trimmed away) and re-chunks the remaining
// cells into newCols-wide physical lines.
func rewrapLogicalLine(ll logicalLine, newCols size.CellCountInt, keepAtLeast int) []*Line {
	end := len(ll.cells)
	for end > keepAtLeast && end > 0 && ll.cells[end-1].IsEmpty() {
		end--
	}
	cells := ll.cells[:end]
	if len(cells) == 0 {
		l := NewLine(newCols)
		l.Wrappable = ll.wrappable
		l.SemanticPrompt = ll.prompt
		return []*Line{l}
	}

	var rows []*Line
	for off := 0; off < len(cells); off += int(newCols) {
		chunkEnd := off + int(newCols)
		if chunkEnd > len(cells) {
			chunkEnd = len(cells)
		}
		row := NewLine(newCols)
		row.Wrappable = ll.wrappable
		row.SemanticPrompt = ll.prompt
		copy(row.Cells, cells[off:chunkEnd])
		for i := chunkEnd - off; i < int(newCols); i++ {
			if row.Cells[i] == nil {
				row.Cells[i] = &Cell{}
			}
		}
		if chunkEnd < len(cells) {
			row.Wrap = true
		}
		rows = append(rows, row)
	}
	for i := 1; i < len(rows); i++ {
		rows[i].WrapContinuation = true
	}
	return rows
}

// ResizeWithReflow changes the grid's column width, unwrapping and
// rewrapping soft-wrapped lines so their text survives the new width, and
// adjusts Rows to newRows. Scrollback is rebuilt from whatever overflows
// the new active area, trimmed to MaxScrollback. cursorX/cursorY (active-
// area coordinates) are tracked through the reflow and their new position
// returned.
//
// Wide-character pairs that would land split across a rewrap chunk
// boundary are not specially rebalanced; the spacer-tail simply moves to
// the front of the next physical row, matching how a live-typed line would
// look if the wide character had been the first thing printed there.
func (g *Grid) ResizeWithReflow(newCols, newRows, cursorX, cursorY size.CellCountInt) (size.CellCountInt, size.CellCountInt) {
	if newCols == g.Cols {
		return g.resizeHeightOnly(newRows, cursorX, cursorY)
	}

	active := g.Lines[g.activeBase():]
	logicals, cursorLogical, cursorOffset := flattenLogicalLines(active, cursorY, cursorX)

	var newLines []*Line
	newCursorY, newCursorX := 0, 0
	rowCount := 0
	for li, ll := range logicals {
		keep := -1
		if li == cursorLogical {
			keep = cursorOffset + 1
		}
		rows := rewrapLogicalLine(ll, newCols, keep)
		if li == cursorLogical {
			row := cursorOffset / int(newCols)
			col := cursorOffset % int(newCols)
			if row >= len(rows) {
				row = len(rows) - 1
				col = int(newCols) - 1
			}
			newCursorY = rowCount + row
			newCursorX = col
		}
		newLines = append(newLines, rows...)
		rowCount += len(rows)
	}

	// Prior scrollback is not rewrapped: reflow only operates on the active
	// area. Each history line is truncated or padded to the new width so
	// that every line in Lines has g.Cols cells.
	history := g.Lines[:g.activeBase()]
	for _, l := range history {
		l.Resize(newCols)
	}

	total := append(append([]*Line(nil), history...), newLines...)

	// Pad or clamp to newRows. Rows that do not fit stay in total ahead of
	// the new active area and so become scrollback.
	for len(newLines) < int(newRows) {
		blank := NewLine(newCols)
		newLines = append(newLines, blank)
		total = append(total, blank)
	}
	if len(newLines) > int(newRows) {
		overflow := len(newLines) - int(newRows)
		newLines = newLines[overflow:]
		newCursorY -= overflow
		if newCursorY < 0 {
			newCursorY = 0
		}
	}

	g.Lines = total
	g.Cols = newCols
	g.Rows = newRows

	maxLen := int(g.Rows + g.MaxScrollback)
	for len(g.Lines) > maxLen {
		g.releaseLine(g.Lines[0])
		g.Lines = g.Lines[1:]
	}
	if newCursorY < 0 {
		newCursorY = 0
	}
	if newCursorY >= int(g.Rows) {
		newCursorY = int(g.Rows) - 1
	}
	if newCursorX >= int(newCols) {
		newCursorX = int(newCols) - 1
	}
	return size.CellCountInt(newCursorX), size.CellCountInt(newCursorY)
}

// resizeHeightOnly handles the height-only fast path of ResizeWithReflow:
// no rewrapping is needed, only how much of Lines counts as "active" moves.
func (g *Grid) resizeHeightOnly(newRows, cursorX, cursorY size.CellCountInt) (size.CellCountInt, size.CellCountInt) {
	absoluteCursorRow := g.activeBase() + int(cursorY)

	if int(newRows) > len(g.Lines) {
		pad := int(newRows) - len(g.Lines)
		front := make([]*Line, pad)
		for i := range front {
			front[i] = NewLine(g.Cols)
		}
		g.Lines = append(front, g.Lines...)
		absoluteCursorRow += pad
	}

	g.Rows = newRows
	newBase := g.activeBase()

	maxLen := int(g.Rows + g.MaxScrollback)
	for len(g.Lines) > maxLen && newBase > 0 {
		g.releaseLine(g.Lines[0])
		g.Lines = g.Lines[1:]
		absoluteCursorRow--
		newBase--
	}

	newCursorY := absoluteCursorRow - g.activeBase()
	if newCursorY < 0 {
		newCursorY = 0
	}
	if newCursorY >= int(g.Rows) {
		newCursorY = int(g.Rows) - 1
	}
	if cursorX >= g.Cols {
		cursorX = g.Cols - 1
	}
	return cursorX, size.CellCountInt(newCursorY)
}

// Reset discards all content and returns the grid to Rows blank lines and
// no scrollback, matching the behavior of a DEC RIS (full reset).
func (g *Grid) Reset() {
	lines := make([]*Line, g.Rows)
	for i := range lines {
		lines[i] = NewLine(g.Cols)
	}
	g.Lines = lines
	g.Styles = set.NewRefCountedSet(set.Options{})
	g.Hyperlinks = hyperlink.NewStore()
	g.Images = imagefragment.NewStore()
}

// EncodeUTF8Options controls DumpString-style text extraction.
type EncodeUTF8Options struct {
	// TopRow/BottomRow are active-area rows (inclusive) to dump. If
	// BottomRow < TopRow, rows from TopRow to the last active row are
	// dumped.
	TopRow, BottomRow size.CellCountInt
	// Unwrap, if true, omits the newline between two lines joined by a
	// soft wrap so the original unbroken text is reconstructed.
	Unwrap bool
}

// EncodeUTF8 writes the plain-text contents of the requested rows to w,
// one line per row, trimming trailing blank cells. Blank rows after the
// last non-blank row of the range are omitted.
func (g *Grid) EncodeUTF8(w io.Writer, opts EncodeUTF8Options) (int, error) {
	top := opts.TopRow
	bottom := opts.BottomRow
	if bottom < top {
		bottom = g.Rows - 1
	}
	for bottom > top && g.Line(bottom).IsEmpty() {
		bottom--
	}
	total := 0
	for y := top; y <= bottom; y++ {
		line := g.Line(y)
		n, err := g.encodeLine(w, line)
		total += n
		if err != nil {
			return total, err
		}
		if y != bottom && !(opts.Unwrap && line.Wrap) {
			nl, err := w.Write([]byte("\n"))
			total += nl
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// EncodeUTF8Absolute is like EncodeUTF8 but addresses rows by absolute
// index into Lines (0 is the oldest scrollback line, not the top of the
// active area), letting callers dump history and/or active rows together.
func (g *Grid) EncodeUTF8Absolute(w io.Writer, from, to int, unwrap bool) (int, error) {
	if to < from {
		return 0, nil
	}
	total := 0
	for i := from; i <= to && i < len(g.Lines); i++ {
		line := g.Lines[i]
		n, err := g.encodeLine(w, line)
		total += n
		if err != nil {
			return total, err
		}
		if i != to && !(unwrap && line.Wrap) {
			nl, err := w.Write([]byte("\n"))
			total += nl
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

func (g *Grid) encodeLine(w io.Writer, line *Line) (int, error) {
	end := len(line.Cells)
	for end > 0 && line.Cells[end-1].IsEmpty() {
		end--
	}
	total := 0
	for i := 0; i < end; i++ {
		cell := line.Cells[i]
		if cell.Wide == WideSpacerTail || cell.Wide == WideSpacerHead {
			continue
		}
		r := cell.Codepoint
		if r == 0 {
			r = ' '
		}
		n, err := fmt.Fprint(w, string(r))
		total += n
		if err != nil {
			return total, err
		}
		for _, cr := range cell.Combining {
			n, err := fmt.Fprint(w, string(cr))
			total += n
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}
