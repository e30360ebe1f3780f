package screen

import (
	"fmt"
	"io"

	"github.com/hnimtadd/termio/terminal/color"
	"github.com/hnimtadd/termio/terminal/grid"
	"github.com/hnimtadd/termio/terminal/set"
	"github.com/hnimtadd/termio/terminal/sgr"
	"github.com/hnimtadd/termio/terminal/size"
	"github.com/hnimtadd/termio/terminal/style"
	styleid "github.com/hnimtadd/termio/terminal/style/id"
	"github.com/hnimtadd/termio/terminal/utils"
)

// Screen owns one Grid (either the primary or alternate buffer) and the
// cursor addressing it. It has no notion of margins, modes, or tab stops -
// those are Terminal's job; Screen only knows how to move the cursor around
// a Grid and mutate cells at/around it.
type Screen struct {
	Cursor *Cursor
	Grid   *grid.Grid

	rows, cols size.CellCountInt
}

// NewScreen allocates a screen backed by a fresh Grid with the given
// dimensions and scrollback capacity.
func NewScreen(cols, rows, maxScrollback size.CellCountInt) *Screen {
	g := grid.NewGrid(cols, rows, maxScrollback)
	s := &Screen{
		Grid: g,
		rows: rows,
		cols: cols,
		Cursor: &Cursor{
			StyleID: styleid.DefaultID,
		},
	}
	s.resyncCursorCache()
	return s
}

// AssertIntegrity checks screen-local invariants; page/style integrity
// lives on Grid and is not walked here since that would be too slow to run
// on every mutation.
func (s *Screen) AssertIntegrity() {
	utils.Assert(s.Cursor != nil)
	utils.Assert(s.Cursor.X < s.cols && s.Cursor.Y < s.rows)
}

// resyncCursorCache reloads Cursor.Cell/Line from the Grid at the cursor's
// current X/Y. Call this after any Grid mutation that may have replaced the
// *Cell/*Line objects at the cursor's position (ClearCells, ShiftRegion*,
// Insert/DeleteCells all allocate fresh cells).
func (s *Screen) resyncCursorCache() {
	line := s.Grid.Line(s.Cursor.Y)
	s.Cursor.Line = line
	s.Cursor.Cell = line.Cells[s.Cursor.X]
}

// SetCursorRight moves the cursor right by n cells with no wrapping.
// Precondition: the caller has verified there is room.
func (s *Screen) SetCursorRight(n size.CellCountInt) {
	utils.Assert(s.Cursor.X+n < s.cols)
	s.Cursor.X += n
	s.Cursor.Cell = s.Cursor.Line.Cells[s.Cursor.X]
}

// SetCursorLeft moves the cursor left by n cells with no wrapping.
func (s *Screen) SetCursorLeft(n size.CellCountInt) {
	utils.Assert(s.Cursor.X >= n)
	s.Cursor.X -= n
	s.Cursor.Cell = s.Cursor.Line.Cells[s.Cursor.X]
}

// SetCursorUp moves the cursor up by n rows without scrolling.
// Precondition: the cursor is not within n rows of the top of the screen.
func (s *Screen) SetCursorUp(n size.CellCountInt) {
	utils.Assert(s.Cursor.Y >= n)
	s.Cursor.Y -= n
	s.resyncCursorCache()
}

// SetCursorDown moves the cursor down by n rows without scrolling.
// Precondition: the cursor is not within n rows of the bottom of the screen.
func (s *Screen) SetCursorDown(n size.CellCountInt) {
	utils.Assert(s.Cursor.Y+n < s.rows)
	s.Cursor.Y += n
	s.resyncCursorCache()
}

// SetCursorAbs moves the cursor to an absolute (x, y) active-area position.
func (s *Screen) SetCursorAbs(x, y size.CellCountInt) {
	utils.Assert(x < s.cols && y < s.rows)
	s.Cursor.X = x
	s.Cursor.Y = y
	s.resyncCursorCache()
}

// SetCursorHorizontalAbs moves the cursor to an absolute column, keeping row.
func (s *Screen) SetCursorHorizontalAbs(x size.CellCountInt) {
	utils.Assert(x < s.cols)
	s.Cursor.X = x
	s.Cursor.Cell = s.Cursor.Line.Cells[x]
}

// SetCursorVerticalAbs moves the cursor to an absolute row, keeping column.
func (s *Screen) SetCursorVerticalAbs(y size.CellCountInt) {
	utils.Assert(y < s.rows)
	s.Cursor.Y = y
	s.resyncCursorCache()
}

// GetCursor returns the current cursor.
func (s *Screen) GetCursor() *Cursor {
	return s.Cursor
}

// GetSize returns the current size of the display in rows and columns.
func (s *Screen) GetSize() (rows, cols size.CellCountInt) {
	return s.rows, s.cols
}

// CursorMarkDirty marks the cursor's current cell and line as needing
// redraw.
func (s *Screen) CursorMarkDirty() {
	s.Cursor.Cell.Dirty = true
	s.Cursor.Line.Dirty = true
}

// ScrollUp implements Grid operation 4.5's scrollUp: rows [top+n, bottom]
// move up by n within [left, right), the bottom n rows are blanked. When
// the region spans the full screen width and the full column range, the
// rows pushed off the top are appended to scrollback via Grid.ScrollUp;
// otherwise they are discarded, matching the spec's margin-bound behavior.
func (s *Screen) ScrollUp(top, bottom, left, right, n size.CellCountInt) {
	fullPage := top == 0 && bottom == s.rows-1 && left == 0 && right == s.cols
	if fullPage {
		for range int(n) {
			s.Grid.ScrollUp()
		}
	} else {
		s.Grid.ShiftRegionUp(top, bottom, left, right, n)
	}
	s.resyncCursorCache()
}

// ScrollDown implements Grid operation 4.5's scrollDown: symmetric to
// ScrollUp but never touches scrollback.
func (s *Screen) ScrollDown(top, bottom, left, right, n size.CellCountInt) {
	fullPage := top == 0 && bottom == s.rows-1 && left == 0 && right == s.cols
	if fullPage {
		for range int(n) {
			s.Grid.ScrollDown()
		}
	} else {
		s.Grid.ShiftRegionDown(top, bottom, left, right, n)
	}
	s.resyncCursorCache()
}

// InsertLines shifts rows [y, bottom] down by n within [left, right),
// discarding the bottom n rows of the region and blanking the top n rows
// that opened up under the cursor.
func (s *Screen) InsertLines(y, bottom, left, right, n size.CellCountInt) {
	s.Grid.ShiftRegionDown(y, bottom, left, right, n)
	s.resyncCursorCache()
}

// DeleteLines shifts rows [y, bottom] up by n within [left, right),
// discarding the top n rows of the region and blanking the bottom n.
func (s *Screen) DeleteLines(y, bottom, left, right, n size.CellCountInt) {
	s.Grid.ShiftRegionUp(y, bottom, left, right, n)
	s.resyncCursorCache()
}

// InsertBlanks shifts cells [x, right) of the cursor's row right by n
// within [left, right), clearing [x, x+n) to blank.
func (s *Screen) InsertBlanks(x, left, right, n size.CellCountInt) {
	s.Grid.InsertCells(s.Cursor.Y, x, left, right, n)
	s.resyncCursorCache()
}

// DeleteChars shifts cells (x+n, right) of the cursor's row left by n
// within [left, right), clearing the vacated cells at the right edge.
func (s *Screen) DeleteChars(x, left, right, n size.CellCountInt) {
	s.Grid.DeleteCells(s.Cursor.Y, x, left, right, n)
	s.resyncCursorCache()
}

// ClearCells resets [fromX, toX) on the given row to blank, using the
// cursor's current background as fill so erase operations preserve it.
func (s *Screen) ClearCells(y, fromX, toX size.CellCountInt) {
	s.Grid.ClearCells(y, fromX, toX, s.blankStyleID())
	if y == s.Cursor.Y {
		s.resyncCursorCache()
	}
}

// blankStyleID returns the style id that erased cells should carry: the
// cursor's own style if it has a non-default background, else the default.
func (s *Screen) blankStyleID() styleid.ID {
	if s.Cursor.Style.HasBackground() {
		return s.Cursor.StyleID
	}
	return styleid.DefaultID
}

// ResizeWithoutReflow resizes the screen without rewrapping soft-wrapped
// lines; columns/rows are truncated when shrunk and padded with blanks when
// grown.
func (s *Screen) ResizeWithoutReflow(cols, rows size.CellCountInt) {
	x, y := s.Grid.ResizeWithoutReflow(cols, rows, s.Cursor.X, s.Cursor.Y)
	s.cols, s.rows = cols, rows
	s.Cursor.X, s.Cursor.Y = x, y
	s.resyncCursorCache()
}

// ResizeWithReflow resizes the screen, rewrapping soft-wrapped lines so
// their text survives a column-width change.
func (s *Screen) ResizeWithReflow(cols, rows size.CellCountInt) {
	x, y := s.Grid.ResizeWithReflow(cols, rows, s.Cursor.X, s.Cursor.Y)
	s.cols, s.rows = cols, rows
	s.Cursor.X, s.Cursor.Y = x, y
	s.resyncCursorCache()
}

// Reset clears the grid and returns the cursor to the top-left, matching
// the display-side effects of a DEC RIS (full reset).
func (s *Screen) Reset() {
	s.Grid.Reset()
	s.Cursor = &Cursor{StyleID: styleid.DefaultID}
	s.resyncCursorCache()
}

// SetGraphicsRendition applies one parsed SGR attribute to the cursor's
// pending style, then re-interns it.
func (s *Screen) SetGraphicsRendition(attr *sgr.Attribute) {
	switch attr.Type {
	case sgr.AttributeTypeUnset:
		s.Cursor.Style.Reset()

	case sgr.AttributeTypeBold:
		s.Cursor.Style.Bold = true

	case sgr.AttributeTypeResetBold:
		s.Cursor.Style.Bold = false
		s.Cursor.Style.Faint = false

	case sgr.AttributeTypeItalic:
		s.Cursor.Style.Italic = true

	case sgr.AttributeTypeResetItalic:
		s.Cursor.Style.Italic = false

	case sgr.AttributeTypeFaint:
		s.Cursor.Style.Faint = true

	case sgr.AttributeTypeResetFaint:
		s.Cursor.Style.Faint = false

	case sgr.AttributeTypeUnderline:
		s.Cursor.Style.Underline = attr.Underline

	case sgr.AttributeTypeResetUnderline:
		s.Cursor.Style.Underline = sgr.UnderlineTypeNone

	case sgr.AttributeTypeUnderlineColor:
		s.Cursor.Style.UnderlineColor = style.Color{
			Type: style.ColorTypeRGB,
			RGB: color.RGB{
				R: attr.UnderlineColor.R,
				G: attr.UnderlineColor.G,
				B: attr.UnderlineColor.B,
			},
		}

	case sgr.AttributeTypeResetUnderlineColor:
		s.Cursor.Style.UnderlineColor = style.Color{Type: style.ColorTypeNone}

	case sgr.AttributeTypeOverline:
		s.Cursor.Style.Overline = true

	case sgr.AttributeTypeResetOverline:
		s.Cursor.Style.Overline = false

	case sgr.AttributeTypeBlink:
		s.Cursor.Style.Blink = true

	case sgr.AttributeTypeResetBlink:
		s.Cursor.Style.Blink = false

	case sgr.AttributeTypeInverse:
		s.Cursor.Style.Inverse = true

	case sgr.AttributeTypeResetInverse:
		s.Cursor.Style.Inverse = false

	case sgr.AttributeTypeInvisible:
		s.Cursor.Style.Invisible = true

	case sgr.AttributeTypeResetInvisible:
		s.Cursor.Style.Invisible = false

	case sgr.AttributeTypeStrikethrough:
		s.Cursor.Style.Strikethrough = true

	case sgr.AttributeTypeResetStrikethrough:
		s.Cursor.Style.Strikethrough = false

	case sgr.AttributeTypeDirectColorFg:
		s.Cursor.Style.ForegroundColor = style.Color{
			Type: style.ColorTypeRGB,
			RGB: color.RGB{
				R: attr.DirectColorFg.R,
				G: attr.DirectColorFg.G,
				B: attr.DirectColorFg.B,
			},
		}

	case sgr.AttributeTypeIndexedColorFg:
		s.Cursor.Style.ForegroundColor = style.Color{
			Type:    style.ColorTypePalette,
			Palette: attr.IndexedColor,
		}

	case sgr.AttributeTypeResetFg:
		s.Cursor.Style.ForegroundColor = style.Color{Type: style.ColorTypeNone}

	case sgr.AttributeTypeDirectColorBg:
		s.Cursor.Style.BackgroundColor = style.Color{
			Type: style.ColorTypeRGB,
			RGB: color.RGB{
				R: attr.DirectColorBg.R,
				G: attr.DirectColorBg.G,
				B: attr.DirectColorBg.B,
			},
		}

	case sgr.AttributeTypeIndexedColorBg:
		s.Cursor.Style.BackgroundColor = style.Color{
			Type:    style.ColorTypePalette,
			Palette: attr.IndexedColor,
		}

	case sgr.AttributeTypeIndexedColorUnderline:
		s.Cursor.Style.UnderlineColor = style.Color{
			Type:    style.ColorTypePalette,
			Palette: attr.IndexedColor,
		}

	case sgr.AttributeTypeResetBg:
		s.Cursor.Style.BackgroundColor = style.Color{Type: style.ColorTypeNone}

	case sgr.AttributeTypeUnknown:
		// Unrecognized sub-parameter combination; ignored per section 7's
		// Invalid-parameters handling.

	default:
		utils.Assert(false, fmt.Sprintf("unknown sgr attribute type %v", attr.Type))
	}
	s.manualStyleUpdate()
}

// manualStyleUpdate re-interns the cursor's pending style, releasing the
// previous interned id first. Call this after any direct mutation of
// Cursor.Style.
func (s *Screen) manualStyleUpdate() {
	if s.Cursor.StyleID != styleid.DefaultID {
		s.Grid.Styles.Release(set.ID(s.Cursor.StyleID))
		s.Cursor.StyleID = styleid.DefaultID
	}
	if s.Cursor.Style.IsDefault() {
		return
	}
	s.Cursor.StyleID = styleid.ID(s.Grid.Styles.Add(s.Cursor.Style))
}

// SetCursorStyle replaces the cursor's pending style wholesale (used by
// DECSC/DECRC) and re-interns it, releasing whatever the cursor held
// before.
func (s *Screen) SetCursorStyle(st style.Style) {
	s.Cursor.Style = st
	s.manualStyleUpdate()
}

// DumpString writes the plain-text contents of rows [topRow, bottomRow] to
// w, one line per row; blank rows after the last non-blank row are omitted.
func (s *Screen) DumpString(w io.Writer, topRow, bottomRow size.CellCountInt) error {
	_, err := s.Grid.EncodeUTF8(w, grid.EncodeUTF8Options{TopRow: topRow, BottomRow: bottomRow})
	return err
}
