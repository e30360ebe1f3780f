package screen

import (
	"github.com/hnimtadd/termio/terminal/charset"
	"github.com/hnimtadd/termio/terminal/grid"
	"github.com/hnimtadd/termio/terminal/size"
	"github.com/hnimtadd/termio/terminal/style"
	styleid "github.com/hnimtadd/termio/terminal/style/id"
)

// The cursor position and style.
type Cursor struct {
	X size.CellCountInt
	Y size.CellCountInt

	// Whether the cursor is pending to wrap onto the next line the next
	// time a character is printed.
	PendingWrap bool

	// Cell/Line cache the cursor's current position so hot paths (Print,
	// SetCursor*) don't have to re-index the grid on every call.
	Cell *grid.Cell
	Line *grid.Line

	// The current active style. This is the concrete style value that
	// should be kept up to date. The style ID to use for cell writing is
	// below.
	Style style.Style

	// The current active style ID, interned in the grid's Styles set.
	StyleID styleid.ID

	// G holds the four charset slots (G0-G3) as designated by SCS escape
	// sequences. G0 is ASCII until a designation says otherwise.
	G [4]charset.Charset

	// ShiftedOut is true after SO (Ctrl-N) invokes G1 into GL, and false
	// again after SI (Ctrl-O) invokes G0. GL selects which of G0/G1 Print
	// translates through.
	ShiftedOut bool
}
