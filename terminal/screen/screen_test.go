package screen

import (
	"bytes"
	"testing"

	"github.com/hnimtadd/termio/terminal/grid"
	"github.com/hnimtadd/termio/terminal/sgr"
	"github.com/hnimtadd/termio/terminal/size"
	styleid "github.com/hnimtadd/termio/terminal/style/id"
	"github.com/stretchr/testify/assert"
)

// writeString is a minimal stand-in for what Terminal.Print does: it writes
// one cell per rune, wrapping at the right margin and scrolling at the
// bottom row. It intentionally skips wide-character and combining-rune
// handling since those are exercised at the terminal level.
func writeString(s *Screen, str string) {
	for _, r := range str {
		if r == '\n' {
			if s.Cursor.Y == s.rows-1 {
				s.ScrollUp(0, s.rows-1, 0, s.cols, 1)
			} else {
				s.SetCursorDown(1)
			}
			s.SetCursorHorizontalAbs(0)
			continue
		}
		s.Grid.SetCell(s.Cursor.X, s.Cursor.Y, &grid.Cell{
			Codepoint: r,
			StyleID:   s.Cursor.StyleID,
		})
		s.resyncCursorCache()
		if s.Cursor.X == s.cols-1 {
			if s.Cursor.Y == s.rows-1 {
				s.ScrollUp(0, s.rows-1, 0, s.cols, 1)
				s.SetCursorHorizontalAbs(0)
			} else {
				s.SetCursorDown(1)
				s.SetCursorHorizontalAbs(0)
			}
			continue
		}
		s.SetCursorRight(1)
	}
}

func TestScreen_ReadAndWrite(t *testing.T) {
	s := NewScreen(80, 24, 0)
	assert.NotNil(t, s)
	assert.Equal(t, styleid.DefaultID, s.Cursor.StyleID)

	writeString(s, "Hello, World!")

	var buf bytes.Buffer
	err := s.DumpString(&buf, 0, 23)
	assert.NoError(t, err)
	assert.Equal(t, "Hello, World!", buf.String())
}

func TestScreen_ReadAndWriteNewLine(t *testing.T) {
	s := NewScreen(80, 24, 0)
	assert.Equal(t, styleid.DefaultID, s.Cursor.StyleID)

	writeString(s, "hello\nworld")

	var buf bytes.Buffer
	err := s.DumpString(&buf, 0, 23)
	assert.NoError(t, err)
	assert.Equal(t, "hello\nworld", buf.String())
}

func TestScreen_ReadAndWriteScrollback(t *testing.T) {
	s := NewScreen(80, 2, 100)

	writeString(s, "Line 1\nLine 2\nLine 3")

	var buf bytes.Buffer
	err := s.DumpString(&buf, 0, 1)
	assert.NoError(t, err)
	assert.Equal(t, "Line 2\nLine 3", buf.String())

	buf.Reset()
	_, err = s.Grid.EncodeUTF8Absolute(&buf, 0, s.Grid.ActiveIndex(1), false)
	assert.NoError(t, err)
	assert.Equal(t, "Line 1\nLine 2\nLine 3", buf.String())
}

func TestScreen_StyleBasics(t *testing.T) {
	s := NewScreen(80, 24, 0)
	assert.Equal(t, 0, s.Grid.Styles.Count())

	// Set a new style
	s.SetGraphicsRendition(&sgr.Attribute{Type: sgr.AttributeTypeBold})
	assert.NotEqual(t, styleid.DefaultID, s.Cursor.StyleID)
	assert.Equal(t, 1, s.Grid.Styles.Count())
	assert.True(t, s.Cursor.Style.Bold)

	// Set another attribute on the same pending style, still one interned
	// style since the old one was released before it was ever used by a cell.
	s.SetGraphicsRendition(&sgr.Attribute{Type: sgr.AttributeTypeItalic})
	assert.NotEqual(t, styleid.DefaultID, s.Cursor.StyleID)
	assert.Equal(t, 1, s.Grid.Styles.Count())
	assert.True(t, s.Cursor.Style.Italic)
}

func TestScreen_StyleReset(t *testing.T) {
	s := NewScreen(80, 24, 0)
	assert.Equal(t, 0, s.Grid.Styles.Count())

	s.SetGraphicsRendition(&sgr.Attribute{Type: sgr.AttributeTypeBold})
	assert.NotEqual(t, styleid.DefaultID, s.Cursor.StyleID)
	assert.Equal(t, 1, s.Grid.Styles.Count())
	assert.True(t, s.Cursor.Style.Bold)

	// Reset the style to default
	s.SetGraphicsRendition(&sgr.Attribute{Type: sgr.AttributeTypeResetBold})
	assert.Equal(t, styleid.DefaultID, s.Cursor.StyleID)
	assert.Equal(t, 0, s.Grid.Styles.Count())
}

func TestScreen_ResetWithUnset(t *testing.T) {
	s := NewScreen(80, 24, 0)
	assert.Equal(t, 0, s.Grid.Styles.Count())

	s.SetGraphicsRendition(&sgr.Attribute{Type: sgr.AttributeTypeBold})
	assert.NotEqual(t, styleid.DefaultID, s.Cursor.StyleID)
	assert.Equal(t, 1, s.Grid.Styles.Count())

	s.SetGraphicsRendition(&sgr.Attribute{Type: sgr.AttributeTypeUnset})
	assert.Equal(t, styleid.DefaultID, s.Cursor.StyleID)
	assert.Equal(t, 0, s.Grid.Styles.Count())
}

func TestScreen_StyledCellSurvivesClear(t *testing.T) {
	s := NewScreen(10, 5, 0)
	s.SetGraphicsRendition(&sgr.Attribute{Type: sgr.AttributeTypeBold})
	writeString(s, "x")
	assert.Equal(t, 1, s.Grid.Styles.Count())

	s.ClearCells(0, 0, 10)
	assert.Equal(t, 1, s.Grid.Styles.Count(),
		"clearing the only styled cell releases its reference; the cursor still holds the style")
}

func TestScreen_ResizeWithoutReflowClampsCursor(t *testing.T) {
	s := NewScreen(10, 5, 0)
	s.SetCursorAbs(9, 4)
	s.ResizeWithoutReflow(5, 5)
	assert.LessOrEqual(t, s.Cursor.X, size.CellCountInt(4))
}
