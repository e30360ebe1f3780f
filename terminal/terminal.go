package terminal

import (
	"bytes"
	"strings"

	"github.com/hnimtadd/termio/hyperlink"
	"github.com/hnimtadd/termio/logger"
	"github.com/hnimtadd/termio/terminal/charset"
	"github.com/hnimtadd/termio/terminal/core"
	"github.com/hnimtadd/termio/terminal/grid"
	"github.com/hnimtadd/termio/terminal/point"
	"github.com/hnimtadd/termio/terminal/screen"
	"github.com/hnimtadd/termio/terminal/sequences/csi"
	"github.com/hnimtadd/termio/terminal/sgr"
	"github.com/hnimtadd/termio/terminal/size"
	"github.com/hnimtadd/termio/terminal/style"
	"github.com/hnimtadd/termio/terminal/tabstops"
	"github.com/hnimtadd/termio/terminal/utils"
	dw "github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

type (
	Options struct {
		Cols int // The number of columns in the terminal
		Rows int // The number of rows in the terminal

		// MaxScrollback bounds how many history lines are retained. Nil
		// selects a bound of 10000 lines; there is no unbounded setting.
		MaxScrollback *int

		// The default mode state. When the terminal gets a reset, it will
		// revert back to this state.
		Modes map[core.Mode]bool

		Logger logger.Logger
	}
	// Terminal mainly implemented for terminal that used to
	// execute 1 command only
	Terminal struct {
		// Screen-related fields
		Screen *screen.Screen

		// The alternate screen, allocated lazily on first switch and kept
		// for the lifetime of the terminal so switching back and forth
		// doesn't reallocate. primaryScreen holds the primary screen while
		// the alt screen is active.
		altScreen     *screen.Screen
		primaryScreen *screen.Screen

		// The size of the terminal
		rows, cols size.CellCountInt

		maxScrollback size.CellCountInt

		Modes *core.ModeState

		pwd string // Current working directory

		// Where the tabstops are.
		tabstops *tabstops.Tabstops

		// The current scrolling region.
		scrollingRegion *ScrollingRegion

		// savedCursor is the DECSC/DECRC snapshot stack (bounded to one
		// entry, matching real terminals - a second DECSC overwrites).
		savedCursor *SavedCursor

		// currentHyperlink is the OSC 8 hyperlink ID applied to newly
		// printed cells, or hyperlink.NoID outside of a hyperlink span.
		currentHyperlink hyperlink.ID

		// instructionCount is bumped once per applied control function,
		// exposed for host-side input pacing.
		instructionCount uint64

		logger logger.Logger
	}

	// Scroll region is the are of the screen designated where scolling
	// occurs. When scrolling the screen, on this viewport is scroled.
	ScrollingRegion struct {
		// Top and bottom of the scroll region (0-indexed)
		// Precondition: top < bottom.
		top    size.CellCountInt
		bottom size.CellCountInt

		// Left/right scroll regions.
		// Precondition: right > left
		// Precondition: right <= cols - 1
		left  size.CellCountInt
		right size.CellCountInt
	}

	// SavedCursor is an immutable snapshot of cursor-adjacent state, pushed
	// by DECSC and popped by DECRC.
	SavedCursor struct {
		X, Y        size.CellCountInt
		PendingWrap bool
		Style       style.Style
		OriginMode  bool
		G           [4]charset.Charset
		ShiftedOut  bool
	}
)

func NewTerminal(opts Options) *Terminal {
	maxScrollback := size.CellCountInt(10000)
	if opts.MaxScrollback != nil {
		maxScrollback = size.CellCountInt(*opts.MaxScrollback)
	}
	lg := opts.Logger
	if lg == nil {
		lg = logger.DefaultLogger
	}
	return &Terminal{
		Screen: screen.NewScreen(
			size.CellCountInt(opts.Cols),
			size.CellCountInt(opts.Rows),
			maxScrollback,
		),
		rows:          size.CellCountInt(opts.Rows),
		cols:          size.CellCountInt(opts.Cols),
		maxScrollback: maxScrollback,
		Modes:         core.NewModeState(opts.Modes, opts.Modes),
		tabstops: tabstops.NewTabstops(
			size.CellCountInt(opts.Cols),
			tabstops.TABSTOP_INTERVAL,
		),
		scrollingRegion: &ScrollingRegion{
			top:    0,
			bottom: size.CellCountInt(opts.Rows) - 1,
			left:   0,
			right:  size.CellCountInt(opts.Cols) - 1,
		},
		pwd:    "",
		logger: lg,
	}
}

// InstructionCount returns the number of applied control functions so far,
// for host-side input pacing.
func (t *Terminal) InstructionCount() uint64 {
	return t.instructionCount
}

func (t *Terminal) bumpInstructionCount() {
	t.instructionCount++
}

// Backspace moves the cursor back a column (but not less than 0).
func (t *Terminal) Backspace() {
	t.SetCursorLeft(1)
}

// CarriageReturn moves cursor to first column of current line
func (t *Terminal) CarriageReturn() {
	defer t.bumpInstructionCount()

	// Always reset pending wrap state
	t.Screen.Cursor.PendingWrap = false

	var x size.CellCountInt
	// In origin mode, we always move to the left margin
	if t.Modes.Get(core.ModeOrigin) {
		x = t.scrollingRegion.left
	} else if t.Screen.Cursor.X >= t.scrollingRegion.left {
		x = t.scrollingRegion.left
	} else {
		x = 0
	}

	t.Screen.SetCursorHorizontalAbs(x)
}

func (t *Terminal) EraseInDisplay(mode csi.EDMode) {
	defer t.bumpInstructionCount()
	switch mode {
	case csi.EDModeComplete:
		t.Screen.ClearCells(0, 0, t.cols)
		for y := size.CellCountInt(1); y < t.rows; y++ {
			t.Screen.ClearCells(y, 0, t.cols)
		}
		t.Screen.Cursor.PendingWrap = false

	case csi.EDModeBelow:
		t.EraseInLine(csi.ELModeRight)
		for y := t.Screen.Cursor.Y + 1; y < t.rows; y++ {
			t.Screen.ClearCells(y, 0, t.cols)
		}
		utils.Assert(!t.Screen.Cursor.PendingWrap)

	case csi.EDModeAbove:
		t.EraseInLine(csi.ELModeLeft)
		for y := size.CellCountInt(0); y < t.Screen.Cursor.Y; y++ {
			t.Screen.ClearCells(y, 0, t.cols)
		}
		utils.Assert(!t.Screen.Cursor.PendingWrap)

	case csi.EDModeScrollback:
		t.logger.Warn("scrollback erase not supported")
	default:
		t.logger.Warn("unimplemented erase display", "mode", mode)
	}
}

// EraseInLine implements terminalHandler.
func (t *Terminal) EraseInLine(mode csi.ELMode) {
	defer t.bumpInstructionCount()
	cursor := t.Screen.Cursor
	var start, end size.CellCountInt
	switch mode {
	case csi.ELModeRight:
		start = cursor.X
		if start > 0 && cursor.Cell.Wide == grid.WideSpacerTail {
			start--
		}
		end = t.cols
	case csi.ELModeLeft:
		start = 0
		if cursor.Cell.Wide == grid.WideWide {
			start++
		}
		end = cursor.X + 1
	case csi.ELModeAll:
		start = 0
		end = t.cols
	default:
		t.logger.Error("unimplemented erase line", "mode", mode)
		return
	}

	utils.Assert(end > start)

	cursor.PendingWrap = false
	t.Screen.CursorMarkDirty()
	t.Screen.ClearCells(cursor.Y, start, end)
}

// FullReset resets the terminal to its state right after construction.
//
// This will attempt to free the existing screen memory
func (t *Terminal) FullReset() {
	// Release from whichever screen is currently active - its Hyperlinks
	// store is where the open link's ref actually lives - before swapping
	// back to the primary screen.
	t.HyperlinkEnd()
	if t.primaryScreen != nil {
		t.Screen = t.primaryScreen
		t.primaryScreen = nil
	}
	t.Screen.Reset()
	t.Modes.Reset()
	t.pwd = ""
	t.savedCursor = nil
	t.tabstops = tabstops.NewTabstops(t.cols, tabstops.TABSTOP_INTERVAL)
	t.scrollingRegion = &ScrollingRegion{top: 0, bottom: t.rows - 1, left: 0, right: t.cols - 1}
}

// LineFeed moves the cursor to the next line.
func (t *Terminal) LineFeed() {
	t.Index()
	if t.Modes.Get(core.ModeLineFeed) {
		t.CarriageReturn()
	}
}

// Print implements terminalHandler.
func (t *Terminal) Print(c uint32) {
	defer t.bumpInstructionCount()
	defer t.Screen.AssertIntegrity()

	// A codepoint that extends the previous cell's grapheme cluster -
	// combining marks, variation selectors, or a later member of a ZWJ
	// sequence such as the family emoji - is joined onto that cell instead
	// of being placed in one of its own, regardless of its own standalone
	// width (a ZWJ-joined emoji is not itself zero-width).
	if cell := t.lastPrintedCell(); t.continuesCluster(cell, rune(c)) {
		appendToCell(cell, rune(c))
		return
	}

	var rightLimit size.CellCountInt

	if t.Screen.Cursor.X > t.scrollingRegion.right {
		rightLimit = t.cols
	} else {
		rightLimit = t.scrollingRegion.right + 1
	}

	var width size.CellCountInt
	if c <= 0xFF {
		width = 1
	} else {
		width = size.CellCountInt(dw.RuneWidth(rune(c)))
	}

	utils.Assert(width <= 2)

	if width == 0 {
		// A stray zero-width codepoint with nothing to attach to (e.g. a
		// combining mark at the very start of a line). Drop it.
		return
	}

	c = t.translateCharset(c)

	if t.Screen.Cursor.PendingWrap && t.Modes.Get(core.ModeWraparound) {
		t.PrintWrap()
	}

	if t.Modes.Get(core.ModeInsert) && t.Screen.Cursor.X+width < t.cols {
		t.InsertBlanks(uint16(width))
	}
	switch width {
	case 1:
		t.Screen.CursorMarkDirty()
		t.printCell(c, grid.WideNarrow)

	case 2:
		if (rightLimit - t.scrollingRegion.left) > 1 {
			if t.Screen.Cursor.X == rightLimit-1 {
				if t.Modes.Get(core.ModeWraparound) {
					return
				}
				if rightLimit == t.cols {
					t.printCell(c, grid.WideSpacerHead)
				} else {
					t.printCell(c, grid.WideNarrow)
				}
				t.PrintWrap()
			}

			t.Screen.CursorMarkDirty()
			t.printCell(c, grid.WideWide)
			t.Screen.SetCursorRight(1)
			t.printCell(0, grid.WideSpacerTail)
		} else {
			t.Screen.CursorMarkDirty()
			t.printCell(c, grid.WideNarrow)
		}
	}

	if t.Screen.Cursor.X+width == rightLimit {
		t.Screen.Cursor.PendingWrap = true
		return
	}

	t.Screen.SetCursorRight(1)
}

// lastPrintedCell returns whatever cell the cursor is sitting in front of -
// the last cell written, since the cursor has already advanced past it. It
// resolves through the tail filler of a wide character to the wide cell
// itself, since that's where the codepoint and any combining marks live.
func (t *Terminal) lastPrintedCell() *grid.Cell {
	x := t.Screen.Cursor.X
	if x == 0 {
		return nil
	}
	cell := t.Screen.Cursor.Line.Cells[x-1]
	if cell.Wide == grid.WideSpacerTail && x >= 2 {
		cell = t.Screen.Cursor.Line.Cells[x-2]
	}
	return cell
}

// continuesCluster reports whether appending r to cell's accumulated text
// (its codepoint plus any combining runes already joined to it) still forms
// a single grapheme cluster, per Unicode text segmentation. This is how ZWJ
// emoji sequences, combining diacritics and variation selectors are told
// apart from a stray zero-width codepoint that has nothing to attach to.
func (t *Terminal) continuesCluster(cell *grid.Cell, r rune) bool {
	if cell == nil || cell.Codepoint == 0 {
		return false
	}
	var base strings.Builder
	base.WriteRune(cell.Codepoint)
	for _, comb := range cell.Combining {
		base.WriteRune(comb)
	}
	combined := base.String() + string(r)
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(combined, -1)
	return cluster == combined
}

// appendToCell joins a rune that continues a grapheme cluster onto cell,
// without changing the cell's column width.
func appendToCell(cell *grid.Cell, r rune) {
	if len(cell.Combining) >= 8 {
		return
	}
	cell.Combining = append(cell.Combining, r)
}

func (t *Terminal) PrintWrap() {
	markWrap := t.Screen.Cursor.X == t.cols-1
	if markWrap {
		t.Screen.Cursor.Line.Wrap = true
	}

	oldPrompt := t.Screen.Cursor.Line.SemanticPrompt

	t.Index()
	t.Screen.SetCursorHorizontalAbs(t.scrollingRegion.left)
	if markWrap {
		t.Screen.Cursor.Line.SemanticPrompt = oldPrompt
		t.Screen.Cursor.Line.WrapContinuation = true
	}
	t.Screen.AssertIntegrity()
}

func (t *Terminal) printCell(c uint32, wide grid.Wide) {
	cursor := t.Screen.Cursor
	defer t.Screen.AssertIntegrity()

	old := cursor.Cell
	if old.Wide != wide {
		switch old.Wide {
		case grid.WideNarrow:
		case grid.WideWide:
			if cursor.X < t.cols-1 {
				t.Screen.ClearCells(cursor.Y, cursor.X+1, cursor.X+2)
			}
		case grid.WideSpacerTail:
			utils.Assert(cursor.X > 0)
			t.Screen.ClearCells(cursor.Y, cursor.X-1, cursor.X)
		case grid.WideSpacerHead:
		}
	}

	newCell := &grid.Cell{
		Codepoint:   rune(c),
		Wide:        wide,
		StyleID:     cursor.StyleID,
		HyperlinkID: t.currentHyperlink,
	}
	t.Screen.Grid.SetCell(cursor.X, cursor.Y, newCell)
	cursor.Cell = newCell
}

// SetCursorRow moves the cursor to the given row (1-indexed), leaving the
// column unchanged.
func (t *Terminal) SetCursorRow(row uint16) {
	t.SetCursorPosition(row, uint16(t.Screen.Cursor.X+1))
}

func (t *Terminal) SetCursorTabStop() {
	t.tabstops.Set(t.Screen.Cursor.X)
}

// SetCursorLeft moves the cursor left amount collumns. If amount is greater
// than the maximum move distance then it is internally adjusted to the
// maximum move distance. If amount is 0, adjust it to 1.
func (t *Terminal) SetCursorLeft(offset uint16) {
	defer t.bumpInstructionCount()
	count := size.CellCountInt(max(offset, 1))
	t.Screen.SetCursorLeft(min(count, t.Screen.Cursor.X))
	t.Screen.Cursor.PendingWrap = false
}

// SetCursorDown moves the cursor down amount line. If amount is greater
// than the maximum move distance then it is internally adjusted to the
// maximum move distance. If amount is 0, adjust it to 1.
func (t *Terminal) SetCursorDown(offset uint16, carriage bool) {
	defer t.bumpInstructionCount()
	t.Screen.Cursor.PendingWrap = false

	var maxm size.CellCountInt
	if t.Screen.Cursor.Y <= t.scrollingRegion.bottom {
		maxm = t.scrollingRegion.bottom - t.Screen.Cursor.Y
	} else {
		maxm = (t.rows - 1) - t.Screen.Cursor.Y
	}
	adjustedCount := min(maxm, max(size.CellCountInt(offset), 1))

	t.Screen.SetCursorDown(adjustedCount)
	if carriage {
		t.CarriageReturn()
	}
}

// SetCursorUp moves the cursor up amount line. If amount is greater than
// the maximum move distance then it is internally adjusted to the maximum
// move distance. If amount is 0, adjust it to 1.
func (t *Terminal) SetCursorUp(offset uint16, carriage bool) {
	defer t.bumpInstructionCount()
	t.Screen.Cursor.PendingWrap = false

	var maxm size.CellCountInt
	if t.Screen.Cursor.Y >= t.scrollingRegion.top {
		maxm = t.Screen.Cursor.Y - t.scrollingRegion.top
	} else {
		maxm = t.Screen.Cursor.Y
	}

	adjustedCount := min(maxm, max(size.CellCountInt(offset), 1))

	t.Screen.SetCursorUp(adjustedCount)
	if carriage {
		t.CarriageReturn()
	}
}

// SetCursorRight moves the cursor right amount collumns. If amount is
// greater than the maximum move distance then it is internally adjusted to
// the maximum move distance. If amount is 0, adjust it to 1.
func (t *Terminal) SetCursorRight(offset uint16) {
	defer t.bumpInstructionCount()
	t.Screen.Cursor.PendingWrap = false

	var maxm size.CellCountInt
	if t.Screen.Cursor.X <= t.scrollingRegion.right {
		maxm = t.scrollingRegion.right - t.Screen.Cursor.X
	} else {
		maxm = t.cols - t.Screen.Cursor.X - 1
	}
	offset = min(uint16(maxm), max(offset, 1))
	t.Screen.SetCursorRight(size.CellCountInt(offset))
}

// SetCursorTabRight moves the cursor to the next tabstop (or the last
// column if there is none), repeated times. No cells are cleared.
func (t *Terminal) SetCursorTabRight(repeated uint16) {
	defer t.bumpInstructionCount()
	for range repeated {
		for t.Screen.Cursor.X < t.cols-1 {
			t.Screen.SetCursorRight(1)
			if t.tabstops.Get(t.Screen.Cursor.X) {
				break
			}
		}
	}
}

// SetCursorTabLeft similar to SetCursorTabRight, but move the cursor to the
// previous tabstop instead
func (t *Terminal) SetCursorTabLeft(repeated uint16) {
	defer t.bumpInstructionCount()
	var leftLimit size.CellCountInt
	if t.Modes.Get(core.ModeOrigin) {
		leftLimit = t.scrollingRegion.left
	} else {
		leftLimit = 0
	}
	for range repeated {
		for t.Screen.Cursor.X > leftLimit {
			t.Screen.SetCursorLeft(1)
			if t.tabstops.Get(t.Screen.Cursor.X) {
				break
			}
		}
	}
}

// SetGraphicsRendition implements terminalHandler.
func (t *Terminal) SetGraphicsRendition(attr *sgr.Attribute) {
	defer t.bumpInstructionCount()
	t.Screen.SetGraphicsRendition(attr)
}

// TabSet implements terminalHandler.
func (t *Terminal) TabSet() {
	t.tabstops.Set(t.Screen.Cursor.X)
}

// TabClear clears one or all tabstops.
func (t *Terminal) TabClear(all bool) {
	if all {
		t.tabstops.Reset(0)
		return
	}
	t.tabstops.Unset(t.Screen.Cursor.X)
}

// Index moves the cursor down one row, scrolling if needed.
//
// If the cursor is outside of the scrolling region: move the cursor one
// line down if it isn't on the bottom-most line of the screen.
//
// If the cursor is inside the scrolling region:
//   - If the cursor is on the bottom-most line of the scrolling region, a
//     scroll up is performed with amount=1
//   - Otherwise, move the cursor one line down
//
// This unsets the pending wrap state without wrapping.
func (t *Terminal) Index() {
	defer t.bumpInstructionCount()
	t.Screen.Cursor.PendingWrap = false

	if t.Screen.Cursor.Y < t.scrollingRegion.top ||
		t.Screen.Cursor.Y > t.scrollingRegion.bottom {
		if t.Screen.Cursor.Y < t.rows-1 {
			t.Screen.SetCursorDown(1)
		}
		return
	}

	if t.Screen.Cursor.Y == t.scrollingRegion.bottom &&
		t.Screen.Cursor.X >= t.scrollingRegion.left &&
		t.Screen.Cursor.X <= t.scrollingRegion.right {
		t.Screen.ScrollUp(
			t.scrollingRegion.top, t.scrollingRegion.bottom,
			t.scrollingRegion.left, t.scrollingRegion.right+1,
			1,
		)
		return
	}

	if t.Screen.Cursor.Y < t.scrollingRegion.bottom {
		t.Screen.SetCursorDown(1)
	}
}

// ReverseIndex moves the cursor to the previous line, possibly scrolling.
func (t *Terminal) ReverseIndex() {
	defer t.bumpInstructionCount()
	if t.Screen.Cursor.Y != t.scrollingRegion.top ||
		t.Screen.Cursor.X < t.scrollingRegion.left ||
		t.Screen.Cursor.X > t.scrollingRegion.right {
		if t.Screen.Cursor.Y > 0 {
			t.Screen.SetCursorUp(1)
		}
		return
	}
	t.Screen.ScrollDown(
		t.scrollingRegion.top, t.scrollingRegion.bottom,
		t.scrollingRegion.left, t.scrollingRegion.right+1,
		1,
	)
}

// SetCursorPosition moves cursor to the position indicated by row and col
// (1-indexed). If column = 0, it is adjusted to 1. If column > the
// right-most col, it is adjusted to the right-most col. Symmetric for row.
func (t *Terminal) SetCursorPosition(row uint16, col uint16) {
	defer t.bumpInstructionCount()
	type params struct {
		xOffset size.CellCountInt
		yOffset size.CellCountInt
		xMax    size.CellCountInt
		yMax    size.CellCountInt
	}
	var p params

	if t.Modes.Get(core.ModeOrigin) {
		p = params{
			xOffset: t.scrollingRegion.left,
			yOffset: t.scrollingRegion.top,
			xMax:    t.scrollingRegion.right + 1,
			yMax:    t.scrollingRegion.bottom + 1,
		}
	} else {
		p = params{xMax: t.cols, yMax: t.rows}
	}

	t.Screen.Cursor.PendingWrap = false

	var irow, icol size.CellCountInt
	if row == 0 {
		irow = 1
	} else {
		irow = size.CellCountInt(row)
	}
	if col == 0 {
		icol = 1
	} else {
		icol = size.CellCountInt(col)
	}

	x := max(min(p.xMax, icol+p.xOffset)-1, 0)
	y := max(min(p.yMax, irow+p.yOffset)-1, 0)
	t.Screen.SetCursorAbs(x, y)
}

// ScrollUp (SU) removes repeated lines from the top of the scroll region,
// shifting the rest of the region up. Does not change the cursor position.
func (t *Terminal) ScrollUp(repeated uint16) {
	oldX, oldY, oldWrap := t.Screen.Cursor.X, t.Screen.Cursor.Y, t.Screen.Cursor.PendingWrap
	defer func() {
		t.Screen.SetCursorAbs(oldX, oldY)
		t.Screen.Cursor.PendingWrap = oldWrap
	}()

	t.Screen.SetCursorAbs(t.scrollingRegion.left, t.scrollingRegion.top)
	t.DeleteLines(repeated)
}

// ScrollDown (SD) inserts repeated blank lines at the top of the scroll
// region, shifting the rest of the region down. Does not change the cursor
// position.
func (t *Terminal) ScrollDown(repeated uint16) {
	oldX, oldY, oldWrap := t.Screen.Cursor.X, t.Screen.Cursor.Y, t.Screen.Cursor.PendingWrap
	defer func() {
		t.Screen.SetCursorAbs(oldX, oldY)
		t.Screen.Cursor.PendingWrap = oldWrap
	}()

	t.Screen.SetCursorAbs(t.scrollingRegion.left, t.scrollingRegion.top)
	t.InsertLines(repeated)
}

// InsertLines inserts line repeated time at the current cursor row. The
// content of the line at the current cursor row and below (to the
// bottom-most line in the scrollingRegion) are shifted down by amount
// lines. Moves the cursor to the left margin.
func (t *Terminal) InsertLines(repeated uint16) {
	defer t.bumpInstructionCount()
	if repeated == 0 {
		return
	}
	if t.Screen.Cursor.Y < t.scrollingRegion.top ||
		t.Screen.Cursor.Y > t.scrollingRegion.bottom ||
		t.Screen.Cursor.X < t.scrollingRegion.left ||
		t.Screen.Cursor.X > t.scrollingRegion.right {
		return
	}

	startY := t.Screen.Cursor.Y
	defer func() {
		t.Screen.SetCursorAbs(t.scrollingRegion.left, startY)
		t.Screen.Cursor.PendingWrap = false
	}()

	rem := t.scrollingRegion.bottom - startY + 1
	count := min(size.CellCountInt(repeated), rem)

	t.Screen.InsertLines(
		startY, t.scrollingRegion.bottom,
		t.scrollingRegion.left, t.scrollingRegion.right+1,
		count,
	)
}

// DeleteLines removes line repeated times from the cursor row downward. The
// remaining lines to the bottom margin are shifted up and space from the
// bottom margin up is filled with empty lines. Moves the cursor to the left
// margin.
func (t *Terminal) DeleteLines(repeated uint16) {
	defer t.bumpInstructionCount()
	if repeated == 0 {
		return
	}
	if t.Screen.Cursor.Y < t.scrollingRegion.top ||
		t.Screen.Cursor.Y > t.scrollingRegion.bottom ||
		t.Screen.Cursor.X < t.scrollingRegion.left ||
		t.Screen.Cursor.X > t.scrollingRegion.right {
		return
	}

	startY := t.Screen.Cursor.Y
	defer func() {
		t.Screen.SetCursorAbs(t.scrollingRegion.left, startY)
		t.Screen.Cursor.PendingWrap = false
	}()

	rem := t.scrollingRegion.bottom - startY + 1
	count := min(size.CellCountInt(repeated), rem)

	t.Screen.DeleteLines(
		startY, t.scrollingRegion.bottom,
		t.scrollingRegion.left, t.scrollingRegion.right+1,
		count,
	)
}

// InsertBlanks inserts spaces at current cursor position moving existing
// cell contents to the right. The contents of the count right-most columns
// in the scroll region are lost. The cursor position is not changed.
func (t *Terminal) InsertBlanks(repeated uint16) {
	defer t.bumpInstructionCount()
	cursor := t.Screen.Cursor
	cursor.PendingWrap = false

	if cursor.X < t.scrollingRegion.left || cursor.X > t.scrollingRegion.right {
		return
	}

	leftX := cursor.X
	if cursor.Cell.Wide == grid.WideSpacerTail {
		utils.Assert(cursor.X > 0)
		t.Screen.ClearCells(cursor.Y, leftX-1, leftX)
	}

	rem := t.scrollingRegion.right + 1 - cursor.X
	count := min(size.CellCountInt(repeated), rem)

	t.Screen.InsertBlanks(leftX, t.scrollingRegion.left, t.scrollingRegion.right+1, count)
	t.Screen.CursorMarkDirty()
}

// DeleteChars removes characters repeated times from the current position
// to the right. The remaining characters are shifted to the left and space
// from the right is filled with spaces. Does not move the cursor.
func (t *Terminal) DeleteChars(repeated uint16) {
	defer t.bumpInstructionCount()
	if repeated == 0 {
		return
	}

	cursor := t.Screen.Cursor
	if cursor.X < t.scrollingRegion.left || cursor.X > t.scrollingRegion.right {
		return
	}

	leftX := cursor.X
	rem := t.scrollingRegion.right + 1 - cursor.X
	count := min(size.CellCountInt(repeated), rem)

	t.Screen.DeleteChars(leftX, t.scrollingRegion.left, t.scrollingRegion.right+1, count)
	t.Screen.CursorMarkDirty()
}

// MarkSemanticPrompt marks the current semantic prompt information (OSC
// 133), for wherever the current active cursor is located.
func (t *Terminal) MarkSemanticPrompt(prompt grid.SemanticPromptType) {
	switch prompt {
	case grid.SemanticPromptTypePrompt,
		grid.SemanticPromptTypeOutput,
		grid.SemanticPromptTypeInput,
		grid.SemanticPromptTypeContinuation:
		t.Screen.Cursor.Line.SemanticPrompt = prompt
	}
}

// CursorIsAtPrompt returns true if the cursor is currently at a prompt.
// Requires shell integration (semantic prompt, OSC 133); without it this
// always returns false.
func (t *Terminal) CursorIsAtPrompt() bool {
	startX, startY := t.Screen.Cursor.X, t.Screen.Cursor.Y
	defer t.Screen.SetCursorAbs(startX, startY)

	for i := size.CellCountInt(0); i <= startY; i++ {
		if i > 0 {
			t.Screen.SetCursorUp(1)
		}
		switch t.Screen.Cursor.Line.SemanticPrompt {
		case grid.SemanticPromptTypePrompt,
			grid.SemanticPromptTypeContinuation,
			grid.SemanticPromptTypeInput:
			return true
		case grid.SemanticPromptTypeOutput:
			return false
		default:
			continue
		}
	}
	return false
}

// PlainString returns the current string value of the terminal. Newlines
// are encoded as "\n". This omits any formatting such as fg/bg.
func (t *Terminal) PlainString() string {
	w := bytes.NewBuffer(nil)
	if err := t.Screen.DumpString(w, 0, t.rows-1); err != nil {
		return ""
	}
	return w.String()
}

// CellAt resolves a tagged point into the cell it addresses. TagActive and
// TagViewPort both index the visible screen (0 is its top row); this
// terminal has no independent scroll-position of its own, so a caller doing
// scrollback rendering is expected to use TagHistory/TagScreen directly
// rather than relying on TagViewPort tracking a scroll offset. TagHistory
// indexes scrollback only, oldest line first. TagScreen spans scrollback
// followed by the active area as one continuous range. ok is false if the
// point's coordinate falls outside its tag's addressable range.
func (t *Terminal) CellAt(pt point.Point) (cell *grid.Cell, ok bool) {
	x := pt.Coordinate.X
	if x < 0 || x >= t.cols {
		return nil, false
	}
	switch pt.Tag {
	case point.TagActive, point.TagViewPort:
		y := pt.Coordinate.Y
		if y < 0 || y >= t.rows {
			return nil, false
		}
		return t.Screen.Grid.Cell(x, y), true

	case point.TagHistory:
		y := pt.Coordinate.Y
		if y < 0 || y >= t.Screen.Grid.ScrollbackLen() {
			return nil, false
		}
		return t.Screen.Grid.HistoryLine(y).Cells[x], true

	case point.TagScreen:
		scrollback := t.Screen.Grid.ScrollbackLen()
		y := pt.Coordinate.Y
		if y < 0 || y >= scrollback+t.rows {
			return nil, false
		}
		if y < scrollback {
			return t.Screen.Grid.HistoryLine(y).Cells[x], true
		}
		return t.Screen.Grid.Cell(x, y-scrollback), true

	default:
		return nil, false
	}
}

// Resize resizes the underlying terminal.
func (t *Terminal) Resize(cols, rows size.CellCountInt) {
	if t.cols == cols && t.rows == rows {
		return
	}

	if t.cols != cols {
		t.tabstops = tabstops.NewTabstops(cols, tabstops.TABSTOP_INTERVAL)
	}
	if t.Modes.Get(core.ModeWraparound) {
		t.Screen.ResizeWithReflow(cols, rows)
	} else {
		t.Screen.ResizeWithoutReflow(cols, rows)
	}

	t.cols = cols
	t.rows = rows

	t.scrollingRegion = &ScrollingRegion{
		top:    0,
		bottom: rows - 1,
		left:   0,
		right:  cols - 1,
	}
}

// SetAttribute sets a style attibute.
func (t *Terminal) SetAttribute(attr sgr.Attribute) {
	t.Screen.SetGraphicsRendition(&attr)
}

// SaveCursor implements DECSC: it snapshots the cursor position, pending
// wrap state, current style, origin mode and charset state. A second
// SaveCursor overwrites the previous snapshot, matching real terminals
// (there is no stack).
func (t *Terminal) SaveCursor() {
	t.savedCursor = &SavedCursor{
		X:           t.Screen.Cursor.X,
		Y:           t.Screen.Cursor.Y,
		PendingWrap: t.Screen.Cursor.PendingWrap,
		Style:       t.Screen.Cursor.Style,
		OriginMode:  t.Modes.Get(core.ModeOrigin),
		G:           t.Screen.Cursor.G,
		ShiftedOut:  t.Screen.Cursor.ShiftedOut,
	}
}

// RestoreCursor implements DECRC. If no cursor was ever saved, this resets
// to the terminal's initial cursor state instead, matching xterm.
func (t *Terminal) RestoreCursor() {
	if t.savedCursor == nil {
		t.Screen.SetCursorAbs(0, 0)
		t.Screen.Cursor.PendingWrap = false
		t.Screen.SetCursorStyle(style.Style{})
		t.Screen.Cursor.G = [4]charset.Charset{}
		t.Screen.Cursor.ShiftedOut = false
		return
	}

	saved := t.savedCursor
	x := min(saved.X, t.cols-1)
	y := min(saved.Y, t.rows-1)
	t.Screen.SetCursorAbs(x, y)
	t.Screen.Cursor.PendingWrap = saved.PendingWrap
	t.Screen.SetCursorStyle(saved.Style)
	t.Modes.Set(core.ModeOrigin, saved.OriginMode)
	t.Screen.Cursor.G = saved.G
	t.Screen.Cursor.ShiftedOut = saved.ShiftedOut
}

// EnterAltScreen switches to the alternate screen buffer, allocating it on
// first use. If saveCursor is true (DECSET 1049), the primary cursor is
// saved first so ExitAltScreen with restoreCursor can put it back.
func (t *Terminal) EnterAltScreen(saveCursor bool) {
	if t.primaryScreen != nil {
		return
	}
	if saveCursor {
		t.SaveCursor()
	}
	if t.altScreen == nil {
		t.altScreen = screen.NewScreen(t.cols, t.rows, 0)
	} else {
		t.altScreen.Reset()
	}
	t.primaryScreen = t.Screen
	t.Screen = t.altScreen
}

// ExitAltScreen switches back to the primary screen buffer. If
// restoreCursor is true (DECSET 1049), the cursor saved by the matching
// EnterAltScreen is restored.
func (t *Terminal) ExitAltScreen(restoreCursor bool) {
	if t.primaryScreen == nil {
		return
	}
	t.Screen = t.primaryScreen
	t.primaryScreen = nil
	if restoreCursor {
		t.RestoreCursor()
	}
}

// InAltScreen reports whether the alternate screen buffer is active.
func (t *Terminal) InAltScreen() bool {
	return t.primaryScreen != nil
}

// SetColumns132 implements DECCOLM: switching between 80 and 132 column
// mode resizes the terminal and, per spec, clears the screen and homes the
// cursor unless ModeNoClearOnColumnChange is set.
func (t *Terminal) SetColumns132(enabled bool) {
	cols := size.CellCountInt(80)
	if enabled {
		cols = 132
	}
	if cols == t.cols {
		return
	}
	t.Resize(cols, t.rows)
	if !t.Modes.Get(core.ModeNoClearOnColumnChange) {
		t.EraseInDisplay(csi.EDModeComplete)
		t.Screen.SetCursorAbs(0, 0)
	}
}

// SetOriginMode applies DECOM: enabling or disabling origin mode homes the
// cursor to the (possibly margin-relative) top-left, per xterm behavior.
func (t *Terminal) SetOriginMode(enabled bool) {
	t.Modes.Set(core.ModeOrigin, enabled)
	t.SetCursorPosition(1, 1)
}

// DesignateCharset assigns the charset named by final into G-slot slot
// (0-3), as invoked by an SCS escape sequence (ESC ( <final> designates G0,
// ESC ) <final> designates G1, and so on).
func (t *Terminal) DesignateCharset(slot int, final uint8) {
	if slot < 0 || slot > 3 {
		return
	}
	t.Screen.Cursor.G[slot] = charset.Lookup(final)
}

// ShiftOut invokes G1 into GL (SO, Ctrl-N): subsequently printed bytes are
// translated through G1 until the next ShiftIn.
func (t *Terminal) ShiftOut() {
	t.Screen.Cursor.ShiftedOut = true
}

// ShiftIn invokes G0 into GL (SI, Ctrl-O), the default state.
func (t *Terminal) ShiftIn() {
	t.Screen.Cursor.ShiftedOut = false
}

// translateCharset maps c through whichever G-set is currently invoked into
// GL. Only the GL range can come from a single-byte host encoding, so
// codepoints above 0x7F pass through untranslated.
func (t *Terminal) translateCharset(c uint32) uint32 {
	if c > 0x7F {
		return c
	}
	cursor := t.Screen.Cursor
	slot := 0
	if cursor.ShiftedOut {
		slot = 1
	}
	return uint32(charset.Translate(cursor.G[slot], rune(c)))
}

// HyperlinkStart opens an OSC 8 hyperlink span: every cell printed from now
// on until HyperlinkEnd carries this link's ID.
func (t *Terminal) HyperlinkStart(uri string, params map[string]string) {
	if t.currentHyperlink != hyperlink.NoID {
		t.Screen.Grid.Hyperlinks.Release(t.currentHyperlink)
	}
	t.currentHyperlink = t.Screen.Grid.Hyperlinks.Open(uri, params)
}

// HyperlinkEnd closes the current OSC 8 hyperlink span, if one is open.
func (t *Terminal) HyperlinkEnd() {
	if t.currentHyperlink == hyperlink.NoID {
		return
	}
	t.Screen.Grid.Hyperlinks.Release(t.currentHyperlink)
	t.currentHyperlink = hyperlink.NoID
}

// SetPwd sets the pwd for the terminal.
func (t *Terminal) SetPwd(pwd string) {
	t.pwd = pwd
}

// GetPwd returns the current pwd.
func (t *Terminal) GetPwd() string {
	return t.pwd
}

// isDirty returns true if the cell at (x, y) is dirty. Testing only.
func (t *Terminal) isDirty(x, y size.CellCountInt) bool {
	return t.Screen.Grid.Cell(x, y).Dirty
}

// clearDirty clears all dirty bits. Testing only.
func (t *Terminal) clearDirty() {
	for y := size.CellCountInt(0); y < t.rows; y++ {
		line := t.Screen.Grid.Line(y)
		line.Dirty = false
		for _, c := range line.Cells {
			c.Dirty = false
		}
	}
}
