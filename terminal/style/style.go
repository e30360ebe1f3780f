package style

import (
	"fmt"

	"github.com/hnimtadd/termio/terminal/color"
	"github.com/hnimtadd/termio/terminal/set"
	"github.com/hnimtadd/termio/terminal/sgr"
	"github.com/hnimtadd/termio/terminal/utils"
	"github.com/mitchellh/hashstructure/v2"
)

// Style attribute for a cell.
type Style struct {
	// Various colors, self-explanatory
	ForegroundColor Color
	BackgroundColor Color
	UnderlineColor  Color

	Bold          bool
	Italic        bool
	Faint         bool
	Blink         bool
	Inverse       bool
	Invisible     bool
	Strikethrough bool
	Overline      bool
	Underline     sgr.UnderlineType
}

// BG returns the bg color for this style given the palette to resolve
// palette-indexed colors against.
func (s *Style) BG(palette *color.Palette) *color.RGB {
	switch s.BackgroundColor.Type {
	case ColorTypeNone:
		return nil
	case ColorTypePalette:
		return &palette[s.BackgroundColor.Palette]
	case ColorTypeRGB:
		return &s.BackgroundColor.RGB
	default:
		return nil
	}
}

// FG returns the fg color for this style given the palette. If boldIsBright
// is set, a bold style with a non-bright palette color is promoted to its
// bright counterpart.
func (s *Style) FG(
	palette *color.Palette,
	boldIsBright bool,
) *color.RGB {
	switch s.ForegroundColor.Type {
	case ColorTypeNone:
		return nil
	case ColorTypePalette:
		idx := s.ForegroundColor.Palette
		if boldIsBright && s.Bold && color.ColorType(idx) < color.ColorTypeBrightBlack {
			idx += uint8(color.ColorTypeBrightBlack)
		}
		return &palette[idx]
	case ColorTypeRGB:
		return &s.ForegroundColor.RGB
	default:
		return nil
	}
}

// UCloer returns the underline color for this style.
func (s *Style) UColor(
	palette *color.Palette,
) *color.RGB {
	switch s.UnderlineColor.Type {
	case ColorTypeNone:
		return nil
	case ColorTypePalette:
		return &palette[s.UnderlineColor.Palette]
	case ColorTypeRGB:
		return &s.UnderlineColor.RGB
	default:
		// we should never get here, but if we do, just return nil
		return nil
	}
}

// HasBackground reports whether this style carries an explicit background
// color, used by callers deciding whether a cleared cell needs to be
// colored rather than left fully default.
func (s *Style) HasBackground() bool {
	return s.BackgroundColor.Type != ColorTypeNone
}

func (s *Style) Reset() {
	*s = Style{
		ForegroundColor: Color{Type: ColorTypeNone},
		BackgroundColor: Color{Type: ColorTypeNone},
		UnderlineColor:  Color{Type: ColorTypeNone},
		Bold:            false,
		Italic:          false,
		Faint:           false,
		Blink:           false,
		Inverse:         false,
		Invisible:       false,
		Strikethrough:   false,
		Overline:        false,
		Underline:       sgr.UnderlineTypeNone,
	}
}

func (s *Style) IsDefault() bool {
	return *s == Style{}
}

func (s Style) Hash() uint64 {
	hashed, err := hashstructure.Hash(s, hashstructure.FormatV2, nil)
	utils.Assert(err == nil, fmt.Sprintf("failed to hash style: %v", err))
	return hashed
}

func (s Style) Equals(other set.Hashable) bool {
	this := s.Hash()
	that := other.Hash()
	return this == that
}

// Delete is a no-op: a Style value holds no external resources of its own
// (hyperlinks and images are tracked per-cell, not per-style), so there is
// nothing to release when the set evicts it.
func (s Style) Delete() {}

// The color for an SGR attribute. A color can come from multiple sources
// so we use this to track the source plus color value so that we can properly
// react to things like palette changes.
type Color struct {
	Type    ColorType
	Palette uint8
	RGB     color.RGB
}

func (c Color) String() string {
	switch c.Type {
	case ColorTypeNone:
		return "Color.none"
	case ColorTypePalette:
		return fmt.Sprintf("Color.palette{{ %d }}", c.Palette)
	case ColorTypeRGB:
		return fmt.Sprintf("Color.rgb{{ %d, %d, %d }}", c.RGB.R, c.RGB.G, c.RGB.B)
	default:
		return "Color.unknown"
	}
}

type ColorType int

const (
	ColorTypeNone ColorType = iota
	ColorTypePalette
	ColorTypeRGB
)
