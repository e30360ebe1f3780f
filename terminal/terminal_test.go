package terminal

import (
	"slices"
	"testing"

	"github.com/hnimtadd/termio/hyperlink"
	"github.com/hnimtadd/termio/logger"
	"github.com/hnimtadd/termio/terminal/coordinate"
	"github.com/hnimtadd/termio/terminal/core"
	"github.com/hnimtadd/termio/terminal/point"
	"github.com/hnimtadd/termio/terminal/size"
	"github.com/stretchr/testify/assert"
)

func TestTerminal_InputWithNoControlCharacters(t *testing.T) {
	const rows = 40
	const cols = 40
	term := NewTerminal(Options{
		Cols:   cols,
		Rows:   rows,
		Modes:  core.ModePacked,
		Logger: logger.DefaultLogger,
	})

	// Basic grid writing
	input := "hello"
	for c := range slices.Values([]byte(input)) {
		term.Print(uint32(c))
	}
	// Check cursor position
	assert.Equal(t, size.CellCountInt(0), term.Screen.Cursor.Y)
	assert.Equal(t, size.CellCountInt(5), term.Screen.Cursor.X)

	// Check screen content
	content := term.PlainString()
	assert.Equal(t, input, content)
	// Written row should be dirty
	assert.True(t, term.isDirty(4, 0))
	assert.False(t, term.isDirty(5, 1))
}

func TestTerminal_InputWithWraparound(t *testing.T) {
	const rows = 40
	const cols = 5

	term := NewTerminal(Options{
		Cols:   cols,
		Rows:   rows,
		Modes:  core.ModePacked,
		Logger: logger.DefaultLogger,
	})

	// Basic grid writing
	input := "helloworldabc12"
	for _, c := range input {
		// check print wrap
		term.Print(uint32(c))
	}

	// Verify cursor position and wrap state
	assert.Equal(t, size.CellCountInt(2), term.Screen.Cursor.Y,
		"cursor Y should be 2")
	assert.Equal(t, size.CellCountInt(4), term.Screen.Cursor.X,
		"cursor X should be 4")
	assert.True(t, term.Screen.Cursor.PendingWrap,
		"cursor should be pending wrap")

	// Mock DumpString to return the expected content
	expectedContent := "hello\nworld\nabc12"

	// Check screen content
	content := term.PlainString()
	assert.Equal(
		t,
		expectedContent,
		content,
		"screen content should match expected",
	)
}

func TestTerminal_InputWithBasicWraparoundDirty(t *testing.T) {
	const rows = 40
	const cols = 5
	term := NewTerminal(Options{
		Cols:   cols,
		Rows:   rows,
		Modes:  core.ModePacked,
		Logger: logger.DefaultLogger,
	})
	// Basic grid writing
	for _, c := range "hello" {
		// check print wrap
		term.Print(uint32(c))
	}

	assert.True(t, term.isDirty(4, 0))
	term.clearDirty()
	term.Print('w')

	// Old row is dirty as we moved from there
	assert.True(t, term.isDirty(4, 0))
	assert.True(t, term.isDirty(0, 1))
}

func TestTerminal_InputThatForcesScroll(t *testing.T) {
	rows := 5
	cols := 1

	term := NewTerminal(Options{
		Cols:   cols,
		Rows:   rows,
		Modes:  core.ModePacked,
		Logger: logger.DefaultLogger,
	})

	// Basic grid writing
	input := "abcdef"
	for _, c := range input {
		term.Print(uint32(c))
	}

	assert.Equal(t, size.CellCountInt(4), term.Screen.Cursor.Y,
		"cursor Y should be 5")
	assert.Equal(t, size.CellCountInt(0), term.Screen.Cursor.X,
		"cursor X should be 0")
	{
		str := term.PlainString()
		assert.Equal(t, "b\nc\nd\ne\nf", str,
			"screen content should match expected")
	}
}

func TestTerminal_ZeroWidthCharacterAtStart(t *testing.T) {
	cols := 30
	rows := 30
	term := NewTerminal(Options{
		Cols:   cols,
		Rows:   rows,
		Modes:  core.ModePacked,
		Logger: logger.DefaultLogger,
	})

	// Write a zero-width character at the start, we will ignore this character
	// right now.
	term.Print(uint32('\u200b')) // Zero-width space

	assert.Equal(t, size.CellCountInt(0), term.Screen.Cursor.X,
		"cursor X should be 0")
	assert.Equal(t, size.CellCountInt(0), term.Screen.Cursor.Y,
		"cursor Y should be 0")

	// Should not be dirty since we changed nothing.
	assert.False(t, term.isDirty(0, 0))
}

func TestTerminal_PrintSingleVeryLongLine(t *testing.T) {
	cols := 5
	rows := 5
	term := NewTerminal(Options{
		Cols:   cols,
		Rows:   rows,
		Modes:  core.ModePacked,
		Logger: logger.DefaultLogger,
	})

	// We assert the terminal will not crash here.
	for range 10000 {
		term.Print('x')
	}
}

func TestTerminal_SaveRestoreCursor(t *testing.T) {
	term := NewTerminal(Options{
		Cols:   20,
		Rows:   10,
		Modes:  core.ModePacked,
		Logger: logger.DefaultLogger,
	})

	for _, c := range "hello" {
		term.Print(uint32(c))
	}
	term.SaveCursor()
	for _, c := range "world" {
		term.Print(uint32(c))
	}
	assert.Equal(t, size.CellCountInt(10), term.Screen.Cursor.X)

	term.RestoreCursor()
	assert.Equal(t, size.CellCountInt(5), term.Screen.Cursor.X,
		"restore should bring the cursor back to where it was saved")
	assert.Equal(t, size.CellCountInt(0), term.Screen.Cursor.Y)
}

func TestTerminal_SaveRestoreCursorPreservesCharsetState(t *testing.T) {
	term := NewTerminal(Options{
		Cols:   20,
		Rows:   10,
		Modes:  core.ModePacked,
		Logger: logger.DefaultLogger,
	})

	term.DesignateCharset(1, '0') // G1 = DEC Special Graphics
	term.ShiftOut()               // active = G1
	term.SaveCursor()

	term.ShiftIn() // active = G0 (ASCII), diverging from the saved snapshot

	term.RestoreCursor()
	assert.True(t, term.Screen.Cursor.ShiftedOut,
		"restoring the cursor should also restore which G-set was invoked")
	term.Print('q')
	assert.Equal(t, rune('─'), term.Screen.Grid.Cell(0, 0).Codepoint)
}

func TestTerminal_RestoreCursorWithNoSaveGoesHome(t *testing.T) {
	term := NewTerminal(Options{
		Cols:   20,
		Rows:   10,
		Modes:  core.ModePacked,
		Logger: logger.DefaultLogger,
	})

	term.SetCursorPosition(5, 5)
	term.RestoreCursor()
	assert.Equal(t, size.CellCountInt(0), term.Screen.Cursor.X)
	assert.Equal(t, size.CellCountInt(0), term.Screen.Cursor.Y)
}

func TestTerminal_AltScreenIsolatesContent(t *testing.T) {
	term := NewTerminal(Options{
		Cols:   10,
		Rows:   5,
		Modes:  core.ModePacked,
		Logger: logger.DefaultLogger,
	})

	for _, c := range "main" {
		term.Print(uint32(c))
	}
	primary := term.Screen

	term.EnterAltScreen(true)
	assert.True(t, term.InAltScreen())
	assert.NotSame(t, primary, term.Screen)
	assert.Equal(t, size.CellCountInt(0), term.Screen.Cursor.X,
		"alt screen should start fresh")

	for _, c := range "alt" {
		term.Print(uint32(c))
	}
	assert.Equal(t, "alt", term.PlainString())

	term.ExitAltScreen(true)
	assert.False(t, term.InAltScreen())
	assert.Same(t, primary, term.Screen)
	assert.Equal(t, size.CellCountInt(4), term.Screen.Cursor.X,
		"restoring the cursor on exit should bring back the pre-alt position")
	assert.Equal(t, "main", term.PlainString())
}

func TestTerminal_EnterAltScreenIsIdempotent(t *testing.T) {
	term := NewTerminal(Options{
		Cols:   10,
		Rows:   5,
		Modes:  core.ModePacked,
		Logger: logger.DefaultLogger,
	})

	term.EnterAltScreen(false)
	alt := term.Screen
	term.EnterAltScreen(false)
	assert.Same(t, alt, term.Screen,
		"entering the alt screen twice should be a no-op")
}

func TestTerminal_SetColumns132ResizesAndClears(t *testing.T) {
	term := NewTerminal(Options{
		Cols:   80,
		Rows:   24,
		Modes:  core.ModePacked,
		Logger: logger.DefaultLogger,
	})

	for _, c := range "hello" {
		term.Print(uint32(c))
	}
	term.SetColumns132(true)
	assert.Equal(t, size.CellCountInt(132), term.cols)
	assert.Equal(t, "", term.PlainString(),
		"switching column mode clears the screen unless DECNCSM is set")

	term.SetColumns132(false)
	assert.Equal(t, size.CellCountInt(80), term.cols)
}

func TestTerminal_SetOriginModeHomesCursor(t *testing.T) {
	term := NewTerminal(Options{
		Cols:   20,
		Rows:   10,
		Modes:  core.ModePacked,
		Logger: logger.DefaultLogger,
	})

	term.SetCursorPosition(5, 5)
	term.SetOriginMode(true)
	assert.Equal(t, size.CellCountInt(0), term.Screen.Cursor.X)
	assert.Equal(t, size.CellCountInt(0), term.Screen.Cursor.Y)
}

func TestTerminal_HyperlinkStartAndEnd(t *testing.T) {
	term := NewTerminal(Options{
		Cols:   20,
		Rows:   10,
		Modes:  core.ModePacked,
		Logger: logger.DefaultLogger,
	})

	term.HyperlinkStart("https://example.com", nil)
	term.Print('x')
	cell := term.Screen.Grid.Cell(0, 0)
	link := term.Screen.Grid.Hyperlinks.Get(cell.HyperlinkID)
	if assert.NotNil(t, link) {
		assert.Equal(t, "https://example.com", link.URI)
	}

	term.HyperlinkEnd()
	term.Print('y')
	cell = term.Screen.Grid.Cell(1, 0)
	assert.Equal(t, term.currentHyperlink, cell.HyperlinkID)
}

func TestTerminal_DECSpecialGraphicsCharset(t *testing.T) {
	term := NewTerminal(Options{
		Cols:   10,
		Rows:   3,
		Modes:  core.ModePacked,
		Logger: logger.DefaultLogger,
	})

	// ESC ( 0 designates DEC Special Graphics into G0.
	term.DesignateCharset(0, '0')
	term.Print('q') // maps to a horizontal line in DEC special graphics
	term.Print('a') // stays translated: still G0

	cell0 := term.Screen.Grid.Cell(0, 0)
	cell1 := term.Screen.Grid.Cell(1, 0)
	assert.Equal(t, rune('─'), cell0.Codepoint)
	assert.Equal(t, rune('▒'), cell1.Codepoint)

	// ESC ( B puts G0 back to ASCII.
	term.DesignateCharset(0, 'B')
	term.Print('q')
	cell2 := term.Screen.Grid.Cell(2, 0)
	assert.Equal(t, rune('q'), cell2.Codepoint)
}

func TestTerminal_ShiftOutUsesG1(t *testing.T) {
	term := NewTerminal(Options{
		Cols:   10,
		Rows:   3,
		Modes:  core.ModePacked,
		Logger: logger.DefaultLogger,
	})

	term.DesignateCharset(1, '0') // G1 = DEC Special Graphics
	term.ShiftOut()
	term.Print('x')
	assert.Equal(t, rune('│'), term.Screen.Grid.Cell(0, 0).Codepoint)

	term.ShiftIn()
	term.Print('x')
	assert.Equal(t, rune('x'), term.Screen.Grid.Cell(1, 0).Codepoint)
}

func TestTerminal_ZWJEmojiJoinsSingleCell(t *testing.T) {
	term := NewTerminal(Options{
		Cols:   10,
		Rows:   3,
		Modes:  core.ModePacked,
		Logger: logger.DefaultLogger,
	})

	// Family emoji: MAN, ZWJ, WOMAN, ZWJ, GIRL - all runes after the base
	// are zero-width and must join the base's cell instead of consuming
	// their own columns.
	for _, r := range []rune{0x1F468, 0x200D, 0x1F469, 0x200D, 0x1F467} {
		term.Print(uint32(r))
	}

	assert.Equal(t, size.CellCountInt(2), term.Screen.Cursor.X,
		"only the base wide emoji should have advanced the cursor")
	base := term.Screen.Grid.Cell(0, 0)
	assert.Equal(t, rune(0x1F468), base.Codepoint)
	assert.Equal(t, []rune{0x200D, 0x1F469, 0x200D, 0x1F467}, base.Combining)
}

func TestTerminal_StrayZeroWidthAtStartIsDropped(t *testing.T) {
	term := NewTerminal(Options{
		Cols:   10,
		Rows:   3,
		Modes:  core.ModePacked,
		Logger: logger.DefaultLogger,
	})

	term.Print(uint32(0x0301)) // combining acute accent with nothing to join
	assert.Equal(t, size.CellCountInt(0), term.Screen.Cursor.X)
	assert.False(t, term.isDirty(0, 0))
}

func TestTerminal_FullResetExitsAltScreenAndClearsHyperlink(t *testing.T) {
	term := NewTerminal(Options{
		Cols:   10,
		Rows:   3,
		Modes:  core.ModePacked,
		Logger: logger.DefaultLogger,
	})

	primary := term.Screen
	term.EnterAltScreen(false)
	term.HyperlinkStart("https://example.com", nil)

	term.FullReset()

	assert.False(t, term.InAltScreen())
	assert.Same(t, primary, term.Screen)
	assert.Equal(t, hyperlink.NoID, term.currentHyperlink)
}

func TestTerminal_CellAtActiveAndOutOfBounds(t *testing.T) {
	term := NewTerminal(Options{
		Cols:   5,
		Rows:   3,
		Modes:  core.ModePacked,
		Logger: logger.DefaultLogger,
	})

	term.Print('x')

	cell, ok := term.CellAt(point.Point{
		Tag:        point.TagActive,
		Coordinate: coordinate.Point[size.CellCountInt]{X: 0, Y: 0},
	})
	if assert.True(t, ok) {
		assert.Equal(t, rune('x'), cell.Codepoint)
	}

	_, ok = term.CellAt(point.Point{
		Tag:        point.TagActive,
		Coordinate: coordinate.Point[size.CellCountInt]{X: 5, Y: 0},
	})
	assert.False(t, ok, "column equal to the width is out of range")

	_, ok = term.CellAt(point.Point{
		Tag:        point.TagActive,
		Coordinate: coordinate.Point[size.CellCountInt]{X: 0, Y: 3},
	})
	assert.False(t, ok, "row equal to the height is out of range")
}

func TestTerminal_CellAtHistoryAndScreen(t *testing.T) {
	term := NewTerminal(Options{
		Cols:   1,
		Rows:   2,
		Modes:  core.ModePacked,
		Logger: logger.DefaultLogger,
	})

	// Scroll "a" into history, leaving "b\nc" active.
	for _, c := range "abc" {
		term.Print(uint32(c))
	}

	histCell, ok := term.CellAt(point.Point{
		Tag:        point.TagHistory,
		Coordinate: coordinate.Point[size.CellCountInt]{X: 0, Y: 0},
	})
	if assert.True(t, ok) {
		assert.Equal(t, rune('a'), histCell.Codepoint)
	}

	_, ok = term.CellAt(point.Point{
		Tag:        point.TagHistory,
		Coordinate: coordinate.Point[size.CellCountInt]{X: 0, Y: 1},
	})
	assert.False(t, ok, "only one row of scrollback exists")

	screenTop, ok := term.CellAt(point.Point{
		Tag:        point.TagScreen,
		Coordinate: coordinate.Point[size.CellCountInt]{X: 0, Y: 0},
	})
	if assert.True(t, ok) {
		assert.Equal(t, rune('a'), screenTop.Codepoint,
			"screen tag row 0 is the oldest scrollback line")
	}

	screenBottom, ok := term.CellAt(point.Point{
		Tag:        point.TagScreen,
		Coordinate: coordinate.Point[size.CellCountInt]{X: 0, Y: 2},
	})
	if assert.True(t, ok) {
		assert.Equal(t, rune('c'), screenBottom.Codepoint,
			"screen tag continues into the active area after scrollback")
	}
}
