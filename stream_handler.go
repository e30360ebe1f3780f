package termio

import (
	"github.com/hnimtadd/termio/logger"
	"github.com/hnimtadd/termio/terminal"
	"github.com/hnimtadd/termio/terminal/color"
	"github.com/hnimtadd/termio/terminal/core"
	"github.com/hnimtadd/termio/terminal/handler"
	"github.com/hnimtadd/termio/terminal/grid"
	"github.com/hnimtadd/termio/terminal/sequences/csi"
	"github.com/hnimtadd/termio/terminal/sequences/dcs"
	"github.com/hnimtadd/termio/terminal/sequences/osc"
	"github.com/hnimtadd/termio/terminal/sgr"
)

// This is used as the handler for the terminal.Stream type. This is stateful
// and is expected to live for the entire lifetime of the terminal. It is not
// valid to stop a stream handler, create a new one, and use that unless all
// of the member fields are copied.
type StreamHandler struct {
	terminal *terminal.Terminal
	rows     uint16
	cols     uint16

	// The default forground and background color are those set by the user's
	// config file.
	defaultForegroundColor color.RGB
	defaultBackgroundColor color.RGB

	// The foreground and background color as set by an OSC 10 or OSC 11
	// sequence. If unset the respective color is the default value.
	foregroundColor color.RGB
	backgroundColor color.RGB

	// -----------------------------------------------------------------------
	// Internal state

	// The DCS handler maintains DCS state. DCS is like CSI or OSC, but
	// requires more stateful parsing. This is used by functionality such
	// as XGETTCAP.
	dcs dcs.Handler

	logger logger.Logger
}

// DCSHook implements dcs.HookHandler.
func (s *StreamHandler) DCSHook(d *dcs.DCS) *dcs.Command {
	cmd := s.dcs.DCSHook(d)
	s.DCSCommand(cmd)
	return cmd
}

// DCSPut implements dcs.PutHandler.
func (s *StreamHandler) DCSPut(c uint8) *dcs.Command {
	cmd := s.dcs.DCSPut(c)
	s.DCSCommand(cmd)
	return cmd
}

// DCSUnhook implements dcs.UnhookHandler.
func (s *StreamHandler) DCSUnhook() *dcs.Command {
	cmd := s.dcs.DCSUnhook()
	s.DCSCommand(cmd)
	return cmd
}

// DCSCommand handles a fully-accumulated Device Control String. A nil
// Command is ignored. DECRQSS/XTGETTCAP requests are logged at debug level
// and get no reply; Commands of any other type are dropped.
func (s *StreamHandler) DCSCommand(cmd *dcs.Command) {
	if cmd == nil {
		return
	}
	switch cmd.Type {
	case dcs.CommandTypeDECRQSS, dcs.CommandTypeXTGETTCAP:
		s.logger.Debug("unsupported DCS request", "type", cmd.Type, "payload", cmd.Payload)
	}
}

// Backspace implements streamHandler.
func (s *StreamHandler) Backspace() {
	s.terminal.Backspace()
}

// CarriageReturn implements streamHandler.
func (s *StreamHandler) CarriageReturn() {
	s.terminal.CarriageReturn()
}

// DeleteChars implements streamHandler.
func (s *StreamHandler) DeleteChars(reepeated uint16) {
	s.terminal.DeleteChars(reepeated)
}

// DeleteLines implements streamHandler.
func (s *StreamHandler) DeleteLines(repeated uint16) {
	s.terminal.DeleteLines(repeated)
}

// EraseInDisplay implements streamHandler.
func (s *StreamHandler) EraseInDisplay(erase csi.EDMode) {
	s.terminal.EraseInDisplay(erase)
}

// EraseInLine implements streamHandler.
func (s *StreamHandler) EraseInLine(mode csi.ELMode) {
	s.terminal.EraseInLine(mode)
}

// FullReset implements streamHandler.
func (s *StreamHandler) FullReset() {
	s.terminal.FullReset()
}

// Index implements streamHandler.
func (s *StreamHandler) Index() {
	s.terminal.Index()
}

// InsertBlanks implements streamHandler.
func (s *StreamHandler) InsertBlanks(repeated uint16) {
	s.terminal.InsertBlanks(repeated)
}

// InsertLines implements streamHandler.
func (s *StreamHandler) InsertLines(repeated uint16) {
	s.terminal.InsertLines(repeated)
}

// LineFeed implements streamHandler.
func (s *StreamHandler) LineFeed() {
	s.terminal.LineFeed()
}

// NextLine implements streamHandler.
func (s *StreamHandler) NextLine() {
	s.terminal.Index()
	s.terminal.CarriageReturn()
}

// Print implements streamHandler.
func (s *StreamHandler) Print(c uint32) {
	s.terminal.Print(c)
}

// ReverseIndex implements streamHandler.
func (s *StreamHandler) ReverseIndex() {
	s.terminal.ReverseIndex()
}

// ScrollUp implements streamHandler.
func (s *StreamHandler) ScrollUp(repeated uint16) {
	s.terminal.ScrollUp(repeated)
}

// ScrollDown implements streamHandler.
func (s *StreamHandler) ScrollDown(repeated uint16) {
	s.terminal.ScrollDown(repeated)
}

// SetCursorCol implements streamHandler.
func (s *StreamHandler) SetCursorCol(col uint16) {
	// plus one because the cursor is 0-indexed and the display is 1-indexed
	s.terminal.SetCursorPosition(uint16(s.terminal.Screen.Cursor.Y+1), col)
}

// SetCursorDown implements streamHandler.
func (s *StreamHandler) SetCursorDown(offset uint16, carriage bool) {
	s.terminal.SetCursorDown(offset, carriage)
}

// SetCursorLeft implements streamHandler.
func (s *StreamHandler) SetCursorLeft(offset uint16) {
	s.terminal.SetCursorLeft(offset)
}

// SetCursorPosition implements streamHandler.
func (s *StreamHandler) SetCursorPosition(row uint16, col uint16) {
	s.terminal.SetCursorPosition(row, col)
}

// SetCursorRight implements streamHandler.
func (s *StreamHandler) SetCursorRight(offset uint16) {
	s.terminal.SetCursorRight(offset)
}

// SetCursorRow implements streamHandler.
func (s *StreamHandler) SetCursorRow(row uint16) {
	// plus one because the cursor is 0-indexed and the display is 1-indexed
	s.terminal.SetCursorPosition(row, uint16(s.terminal.Screen.Cursor.X+1))
}

// SetCursorTabLeft implements streamHandler.
func (s *StreamHandler) SetCursorTabLeft(repeated uint16) {
	s.terminal.SetCursorTabLeft(repeated)
}

// SetCursorTabRight implements streamHandler.
func (s *StreamHandler) SetCursorTabRight(repeated uint16) {
	s.terminal.SetCursorTabRight(repeated)
}

// SetCursorUp implements streamHandler.
func (s *StreamHandler) SetCursorUp(offset uint16, carriage bool) {
	s.terminal.SetCursorUp(offset, carriage)
}

// SetGraphicsRendition implements streamHandler.
func (s *StreamHandler) SetGraphicsRendition(attr *sgr.Attribute) {
	switch attr.Type {
	case sgr.AttributeTypeUnknown:
		s.logger.Warn("Unknown SGR attribute", "attribute", attr)
	default:
		s.terminal.SetGraphicsRendition(attr)
	}
}

// TabSet implements streamHandler.
func (s *StreamHandler) TabSet() {
	s.terminal.TabSet()
}

// DesignateCharset implements handler.CharsetHandler.
func (s *StreamHandler) DesignateCharset(slot int, final uint8) {
	s.terminal.DesignateCharset(slot, final)
}

// ShiftOut implements handler.CharsetHandler.
func (s *StreamHandler) ShiftOut() {
	s.terminal.ShiftOut()
}

// ShiftIn implements handler.CharsetHandler.
func (s *StreamHandler) ShiftIn() {
	s.terminal.ShiftIn()
}

// SetMode implements streamHandler.
func (s *StreamHandler) SetMode(mode core.Mode, enabled bool) {
	switch mode {
	case core.ModeOrigin:
		s.terminal.SetOriginMode(enabled)
	case core.ModeColumns132:
		s.terminal.SetColumns132(enabled)
	case core.ModeAlternateScreen:
		if enabled {
			s.terminal.EnterAltScreen(false)
		} else {
			s.terminal.ExitAltScreen(false)
		}
	case core.ModeAlternateScreenSave:
		if enabled {
			s.terminal.EnterAltScreen(true)
		} else {
			s.terminal.ExitAltScreen(true)
		}
	case core.ModeSaveCursor:
		if enabled {
			s.terminal.SaveCursor()
		} else {
			s.terminal.RestoreCursor()
		}
	default:
		s.terminal.Modes.Set(mode, enabled)
	}
}

// OSCDispatch implements streamHandler.
func (s *StreamHandler) OSCDispatch(cmd *osc.Command) {
	switch cmd.Type {
	case osc.CommandTypeChangeWindowTitle:
		s.logger.Info("window title changed", "title", cmd.Title)

	case osc.CommandTypeReportPwd:
		s.terminal.SetPwd(cmd.Pwd)

	case osc.CommandTypeChangeDynamicColor:
		if cmd.DynamicColorSpec == "?" {
			return
		}
		switch cmd.DynamicColor {
		case osc.DynamicColorForeground:
			s.foregroundColor = cmd.DynamicColorRGB
		case osc.DynamicColorBackground:
			s.backgroundColor = cmd.DynamicColorRGB
		}

	case osc.CommandTypeResetDynamicColor:
		switch cmd.DynamicColor {
		case osc.DynamicColorForeground:
			s.foregroundColor = s.defaultForegroundColor
		case osc.DynamicColorBackground:
			s.backgroundColor = s.defaultBackgroundColor
		}

	case osc.CommandTypeHyperlinkStart:
		s.terminal.HyperlinkStart(cmd.HyperlinkURI, cmd.HyperlinkParams)

	case osc.CommandTypeHyperlinkEnd:
		s.terminal.HyperlinkEnd()

	case osc.CommandTypeSemanticPrompt:
		switch cmd.SemanticPrompt {
		case osc.SemanticPromptPromptStart:
			s.terminal.MarkSemanticPrompt(grid.SemanticPromptTypePrompt)
		case osc.SemanticPromptInputStart:
			s.terminal.MarkSemanticPrompt(grid.SemanticPromptTypeInput)
		case osc.SemanticPromptOutputStart:
			s.terminal.MarkSemanticPrompt(grid.SemanticPromptTypeOutput)
		case osc.SemanticPromptCommandFinished:
			s.terminal.MarkSemanticPrompt(grid.SemanticPromptTypeOutput)
		}

	case osc.CommandTypeChangeColorPalette,
		osc.CommandTypeResetColorPalette,
		osc.CommandTypeClipboardContents:
		s.logger.Debug("unsupported OSC command", "type", cmd.Type)

	case osc.CommandTypeUnknown:
		s.logger.Warn("unknown OSC command", "raw", cmd.Raw)
	}
}

// ---------------- IGNORE THIS ----------------
var _ streamHandler = (*StreamHandler)(nil)

// This handler marks handlers supported by KAI terminal
type streamHandler interface {
	handler.EditorHandler
	handler.FormatEffectorHandler
	handler.PrintHandler
	handler.SGRHandler
	handler.VT100Handler
	handler.OSCHandler
	handler.CharsetHandler
}

// ---------------- IGNORE THIS ----------------
