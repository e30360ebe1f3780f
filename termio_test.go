package termio

import (
	"testing"

	"github.com/hnimtadd/termio/logger"
	"github.com/hnimtadd/termio/terminal/color"
	"github.com/hnimtadd/termio/terminal/coordinate"
	"github.com/hnimtadd/termio/terminal/point"
	"github.com/hnimtadd/termio/terminal/set"
	"github.com/hnimtadd/termio/terminal/size"
	"github.com/hnimtadd/termio/terminal/style"
	"github.com/stretchr/testify/assert"
)

func cellStyleAt(t *testing.T, tio *TerminalIO, x, y int) style.Style {
	t.Helper()
	cell, ok := tio.CellAt(point.Point{
		Tag:        point.TagActive,
		Coordinate: coordinate.Point[size.CellCountInt]{X: size.CellCountInt(x), Y: size.CellCountInt(y)},
	})
	assert.True(t, ok)
	if cell.StyleID == 0 {
		return style.Style{}
	}
	st, ok := tio.terminal.Screen.Grid.Styles.Get(set.ID(cell.StyleID)).(style.Style)
	assert.True(t, ok)
	return st
}

// TestWrite_StandardForegroundColor covers "A\x1b[31mB\x1b[0mC" -> B fg=red,
// with A and C left at the default (no) foreground.
func TestWrite_StandardForegroundColor(t *testing.T) {
	tio := NewTerminalIO(Options{Cols: 10, Rows: 3, Logger: logger.DefaultLogger})
	_, err := tio.Write([]byte("A\x1b[31mB\x1b[0mC"))
	assert.NoError(t, err)

	assert.Equal(t, style.Color{Type: style.ColorTypeNone}, cellStyleAt(t, tio, 0, 0).ForegroundColor)
	assert.Equal(t, style.Color{Type: style.ColorTypePalette, Palette: 1}, cellStyleAt(t, tio, 1, 0).ForegroundColor)
	assert.Equal(t, style.Color{Type: style.ColorTypeNone}, cellStyleAt(t, tio, 2, 0).ForegroundColor)
}

// TestWrite_ColonDirectColor covers "\x1b[38:2::10:20:30mX" -> RGB(10,20,30).
func TestWrite_ColonDirectColor(t *testing.T) {
	tio := NewTerminalIO(Options{Cols: 10, Rows: 3, Logger: logger.DefaultLogger})
	_, err := tio.Write([]byte("\x1b[38:2::10:20:30mX"))
	assert.NoError(t, err)

	got := cellStyleAt(t, tio, 0, 0).ForegroundColor
	assert.Equal(t, style.ColorTypeRGB, got.Type)
	assert.Equal(t, color.RGB{R: 10, G: 20, B: 30}, got.RGB)
}

// TestWrite_DeleteLinesWithRepeatDoesNotPanic guards against the DL (CSI M)
// handler indexing c.Params[1] on a single-parameter command.
func TestWrite_DeleteLinesWithRepeatDoesNotPanic(t *testing.T) {
	tio := NewTerminalIO(Options{Cols: 10, Rows: 5, Logger: logger.DefaultLogger})
	assert.NotPanics(t, func() {
		_, err := tio.Write([]byte("line1\r\nline2\r\nline3\x1b[2M"))
		assert.NoError(t, err)
	})
}

// TestWrite_DeleteCharsWithRepeatDoesNotPanic guards against the DCH (CSI P)
// handler indexing c.Params[1] on a single-parameter command.
func TestWrite_DeleteCharsWithRepeatDoesNotPanic(t *testing.T) {
	tio := NewTerminalIO(Options{Cols: 10, Rows: 5, Logger: logger.DefaultLogger})
	assert.NotPanics(t, func() {
		_, err := tio.Write([]byte("abcdef\x1b[1;4H\x1b[2P"))
		assert.NoError(t, err)
	})
	assert.Equal(t, "abcf", tio.DumpString())
}

// TestWrite_ScrollUpAndDown exercises CSI S (SU) and CSI T (SD), which were
// previously a no-op and entirely absent.
func TestWrite_ScrollUpAndDown(t *testing.T) {
	tio := NewTerminalIO(Options{Cols: 10, Rows: 3, Logger: logger.DefaultLogger})
	_, err := tio.Write([]byte("one\r\ntwo\r\nthree"))
	assert.NoError(t, err)

	_, err = tio.Write([]byte("\x1b[1S"))
	assert.NoError(t, err)
	assert.Equal(t, "two\nthree", tio.DumpString())

	_, err = tio.Write([]byte("\x1b[1T"))
	assert.NoError(t, err)
	assert.Equal(t, "\ntwo\nthree", tio.DumpString())
}
