package core

import (
	"maps"
	"slices"
)

// A struct that maintains the state of all settable modes
type Mode struct {
	Name string
	Value int
	/// True if this is an ANSI mode
	Ansi    bool
	Default bool
}

func entryForMode(name string, value int, ansi bool, defaultMode bool) Mode {
	return Mode{
		Name:    name,
		Value:   value,
		Ansi:    ansi,
		Default: defaultMode,
	}
}

var (
	// ANSI modes, set with CSI Pm h / CSI Pm l (no "?" leader).
	ModeDisableKeyboard = entryForMode("keyboard action", 2, true, false)  // KAM
	ModeInsert          = entryForMode("insert", 4, true, false)          // IRM
	ModeSendReceiveMode = entryForMode("send_receive_mode", 12, true, true) // SRM
	ModeLineFeed        = entryForMode("line feed", 20, true, false)      // LNM

	// DEC private modes, set with CSI ? Pm h / CSI ? Pm l.
	ModeCursorKeys            = entryForMode("cursor_keys", 1, false, false)     // DECCKM
	ModeColumns132            = entryForMode("132_columns", 3, false, false)     // DECCOLM
	ModeOrigin                = entryForMode("origin", 6, false, false)         // DECOM
	ModeWraparound            = entryForMode("wraparound", 7, false, true)      // DECAWM
	ModeMouseX10              = entryForMode("mouse_x10", 9, false, false)
	ModeCursorBlink           = entryForMode("cursor_blink", 12, false, true) // att610
	ModeCursorVisible         = entryForMode("cursor_visible", 25, false, true)  // DECTCEM
	ModeEnableMode40          = entryForMode("allow_132_column", 40, false, false)
	ModeReverseWrap           = entryForMode("reverse_wraparound", 45, false, false)
	ModeAlternateScreenLegacy = entryForMode("alt_screen_legacy", 47, false, false)
	ModeKeypad                = entryForMode("numeric_keypad", 66, false, false) // DECNKM
	ModeBackarrowKey          = entryForMode("backarrow_key", 67, false, false) // DECBKM
	ModeLeftRightMargin       = entryForMode("left_right_margin", 69, false, false) // DECLRMM
	ModeSixelScrolling        = entryForMode("sixel_scrolling", 80, false, true) // DECSDM
	ModeNoClearOnColumnChange = entryForMode("no_clear_on_column_change", 95, false, false) // DECNCSM
	ModeMouseX11              = entryForMode("mouse_x11", 1000, false, false)
	ModeMouseCellMotion       = entryForMode("mouse_cell_motion", 1002, false, false)
	ModeMouseAllMotion        = entryForMode("mouse_all_motion", 1003, false, false)
	ModeFocusEvent            = entryForMode("focus_event", 1004, false, false)
	ModeMouseUTF8             = entryForMode("mouse_utf8", 1005, false, false)
	ModeMouseSGR              = entryForMode("mouse_sgr", 1006, false, false)
	ModeAlternateScroll       = entryForMode("alternate_scroll", 1007, false, false)
	ModeMouseURXVT            = entryForMode("mouse_urxvt", 1015, false, false)
	ModeMetaSendsEscape       = entryForMode("meta_sends_escape", 1034, false, false)
	ModeNumLock               = entryForMode("numlock", 1036, false, false)
	ModeDeleteSendsDel        = entryForMode("delete_sends_del", 1037, false, false)
	ModeAltSendsEscape        = entryForMode("alt_sends_escape", 1039, false, false)
	ModeUrgencyHint           = entryForMode("urgency_hint", 1042, false, false)
	ModeRaiseOnBell           = entryForMode("raise_on_bell", 1043, false, false)
	ModeAlternateScreen       = entryForMode("alt_screen", 1047, false, false)
	ModeSaveCursor            = entryForMode("save_cursor", 1048, false, false)
	ModeAlternateScreenSave   = entryForMode("alt_screen_save_cursor", 1049, false, false)
	ModeBracketedPaste        = entryForMode("bracketed_paste", 2004, false, false)
	ModeSynchronizedOutput    = entryForMode("synchronized_output", 2026, false, false)
	ModeGraphemeClustering    = entryForMode("grapheme_clustering", 2027, false, false)

	// The full list of available entries. For documentation on these modes, see
	// how they are used in the VT100 and ECMA-48 standards, or the xterm
	// ctlseqs documentation for the DEC private mode numbers.
	entries = []Mode{
		ModeDisableKeyboard,
		ModeInsert,
		ModeSendReceiveMode,
		ModeLineFeed,

		ModeCursorKeys,
		ModeColumns132,
		ModeOrigin,
		ModeWraparound,
		ModeMouseX10,
		ModeCursorBlink,
		ModeCursorVisible,
		ModeEnableMode40,
		ModeReverseWrap,
		ModeAlternateScreenLegacy,
		ModeKeypad,
		ModeBackarrowKey,
		ModeLeftRightMargin,
		ModeSixelScrolling,
		ModeNoClearOnColumnChange,
		ModeMouseX11,
		ModeMouseCellMotion,
		ModeMouseAllMotion,
		ModeFocusEvent,
		ModeMouseUTF8,
		ModeMouseSGR,
		ModeAlternateScroll,
		ModeMouseURXVT,
		ModeMetaSendsEscape,
		ModeNumLock,
		ModeDeleteSendsDel,
		ModeAltSendsEscape,
		ModeUrgencyHint,
		ModeRaiseOnBell,
		ModeAlternateScreen,
		ModeSaveCursor,
		ModeAlternateScreenSave,
		ModeBracketedPaste,
		ModeSynchronizedOutput,
		ModeGraphemeClustering,
	}
)

// A Packed map of all settable modes. This shouldn't be used directly but
// rather through the ModeState struct
var ModePacked = func() map[Mode]bool {
	packed := make(map[Mode]bool, len(entries))
	for _, m := range entries {
		packed[m] = m.Default
	}
	return packed
}()

type ModeState struct {
	// The values of current modes
	values map[Mode]bool
	// The default values of modes
	defaults map[Mode]bool
}

func NewModeState(values map[Mode]bool, def map[Mode]bool) *ModeState {
	state := &ModeState{
		defaults: def,
		values:   values,
	}
	if values == nil {
		state.values = make(map[Mode]bool)
	}
	if def == nil {
		state.defaults = make(map[Mode]bool)
	}
	return state
}

func (s *ModeState) Set(m Mode, value bool) {
	s.values[m] = value
}

func (s *ModeState) Get(m Mode) bool {
	return s.values[m]
}

func (s *ModeState) Reset() {
	s.values = make(map[Mode]bool)
	maps.Copy(s.values, s.defaults)
}

func ModeFromInt(input int, ansi bool) *Mode {
	for entry := range slices.Values(entries) {
		if entry.Value == input && entry.Ansi == ansi {
			return &entry
		}
	}
	return nil
}

/* Helpful doc:
DECOM (originMode) doc: https://documentation.help/putty/config-decom.html
*/
