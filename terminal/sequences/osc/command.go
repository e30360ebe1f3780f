// Package osc implements parsing of Operating System Command sequences.
//
// An OSC sequence has the form `ESC ] <command> ; <args...> ST` (or
// BEL-terminated). The parser here is intentionally simple: it buffers the
// raw bytes between entry and the terminator and only splits/interprets
// them once the sequence ends, since OSC payloads are comparatively rare
// and are not on the hot path the way CSI dispatch is.
package osc

import (
	"strconv"
	"strings"

	"github.com/hnimtadd/termio/terminal/color"
)

type CommandType int

const (
	CommandTypeUnknown CommandType = iota
	// OSC 0, 1, 2 - set icon name / window title / both.
	CommandTypeChangeWindowTitle
	// OSC 4 - set or query one or more palette entries.
	CommandTypeChangeColorPalette
	// OSC 104 - reset one or more palette entries to their default.
	CommandTypeResetColorPalette
	// OSC 10/11/12 - set the default fg/bg/cursor color.
	CommandTypeChangeDynamicColor
	// OSC 110/111/112 - reset the default fg/bg/cursor color.
	CommandTypeResetDynamicColor
	// OSC 7 - report the current working directory as a file:// URL.
	CommandTypeReportPwd
	// OSC 8 - start or end a hyperlink region.
	CommandTypeHyperlinkStart
	CommandTypeHyperlinkEnd
	// OSC 52 - clipboard read/write.
	CommandTypeClipboardContents
	// OSC 133 - shell semantic-prompt markers (A=prompt, B=input, C=output
	// start, D=command finished).
	CommandTypeSemanticPrompt
)

// TitleKind distinguishes which part of the window chrome OSC 0/1/2 target.
type TitleKind int

const (
	TitleKindIconAndWindow TitleKind = iota
	TitleKindIcon
	TitleKindWindow
)

// DynamicColorKind identifies which dynamic color OSC 10/11/12/110/111/112
// refer to.
type DynamicColorKind int

const (
	DynamicColorForeground DynamicColorKind = iota
	DynamicColorBackground
	DynamicColorCursor
)

// PaletteEntry is a single palette slot affected by OSC 4. If Query is true
// the command is asking the host to report the color, not set it.
type PaletteEntry struct {
	Index uint8
	Color color.RGB
	Query bool
}

// SemanticPromptKind is the shell-integration marker reported via OSC 133.
type SemanticPromptKind int

const (
	SemanticPromptPromptStart SemanticPromptKind = iota
	SemanticPromptInputStart
	SemanticPromptOutputStart
	SemanticPromptCommandFinished
)

type Command struct {
	Type CommandType

	// CommandTypeChangeWindowTitle
	Title     string
	TitleKind TitleKind

	// CommandTypeChangeColorPalette / CommandTypeResetColorPalette
	Palette []PaletteEntry

	// CommandTypeChangeDynamicColor / CommandTypeResetDynamicColor
	DynamicColor     DynamicColorKind
	DynamicColorRGB  color.RGB
	DynamicColorSpec string // raw spec, e.g. "?" for a query

	// CommandTypeReportPwd
	Pwd string

	// CommandTypeHyperlinkStart
	HyperlinkURI    string
	HyperlinkParams map[string]string
	HyperlinkID     string

	// CommandTypeClipboardContents
	ClipboardKind byte // 'c' = clipboard, 'p' = primary selection, etc.
	ClipboardData string
	ClipboardQuery bool

	// CommandTypeSemanticPrompt
	SemanticPrompt SemanticPromptKind

	// Raw is the unparsed payload, kept for any command type we didn't
	// recognize above.
	Raw string
}

// Parser accumulates the bytes of an OSC string and interprets them once
// the sequence terminates.
type Parser struct {
	buf []byte
}

func NewParser() *Parser {
	return &Parser{buf: make([]byte, 0, 64)}
}

// Reset is called on entry into the OSC string state.
func (p *Parser) Reset() {
	p.buf = p.buf[:0]
}

// Next is called for every byte inside the OSC string (ActionOSCPut).
func (p *Parser) Next(c uint8) {
	p.buf = append(p.buf, c)
}

// End is called on exit from the OSC string state (ST or BEL) and returns
// the parsed command, or nil if the payload was empty.
func (p *Parser) End() *Command {
	if len(p.buf) == 0 {
		return nil
	}
	raw := string(p.buf)
	parts := strings.SplitN(raw, ";", 2)
	code, err := strconv.Atoi(parts[0])
	if err != nil {
		return &Command{Type: CommandTypeUnknown, Raw: raw}
	}
	rest := ""
	if len(parts) == 2 {
		rest = parts[1]
	}

	switch code {
	case 0, 1, 2:
		kind := TitleKindIconAndWindow
		if code == 1 {
			kind = TitleKindIcon
		} else if code == 2 {
			kind = TitleKindWindow
		}
		return &Command{Type: CommandTypeChangeWindowTitle, Title: rest, TitleKind: kind}

	case 4:
		return &Command{Type: CommandTypeChangeColorPalette, Palette: parsePaletteFields(rest)}

	case 104:
		return &Command{Type: CommandTypeResetColorPalette, Palette: parseIndexOnlyFields(rest)}

	case 7:
		return &Command{Type: CommandTypeReportPwd, Pwd: rest}

	case 8:
		return parseHyperlink(rest)

	case 10, 11, 12:
		kind := DynamicColorForeground
		if code == 11 {
			kind = DynamicColorBackground
		} else if code == 12 {
			kind = DynamicColorCursor
		}
		cmd := &Command{Type: CommandTypeChangeDynamicColor, DynamicColor: kind, DynamicColorSpec: rest}
		if rest != "?" {
			if rgb, ok := color.ParseXParseColor(rest); ok {
				cmd.DynamicColorRGB = rgb
			}
		}
		return cmd

	case 110, 111, 112:
		kind := DynamicColorForeground
		if code == 111 {
			kind = DynamicColorBackground
		} else if code == 112 {
			kind = DynamicColorCursor
		}
		return &Command{Type: CommandTypeResetDynamicColor, DynamicColor: kind}

	case 52:
		return parseClipboard(rest)

	case 133:
		return parseSemanticPrompt(rest)

	default:
		return &Command{Type: CommandTypeUnknown, Raw: raw}
	}
}

func parsePaletteFields(rest string) []PaletteEntry {
	fields := strings.Split(rest, ";")
	entries := make([]PaletteEntry, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		idx, err := strconv.Atoi(fields[i])
		if err != nil || idx < 0 || idx > 255 {
			continue
		}
		spec := fields[i+1]
		if spec == "?" {
			entries = append(entries, PaletteEntry{Index: uint8(idx), Query: true})
			continue
		}
		if rgb, ok := color.ParseXParseColor(spec); ok {
			entries = append(entries, PaletteEntry{Index: uint8(idx), Color: rgb})
		}
	}
	return entries
}

func parseIndexOnlyFields(rest string) []PaletteEntry {
	if rest == "" {
		// Bare OSC 104 resets the entire palette.
		return nil
	}
	fields := strings.Split(rest, ";")
	entries := make([]PaletteEntry, 0, len(fields))
	for _, f := range fields {
		idx, err := strconv.Atoi(f)
		if err != nil || idx < 0 || idx > 255 {
			continue
		}
		entries = append(entries, PaletteEntry{Index: uint8(idx)})
	}
	return entries
}

func parseHyperlink(rest string) *Command {
	// Payload form: "<params>;<uri>" where params is a comma-separated list
	// of key=value pairs, the most notable of which is "id=<id>".
	parts := strings.SplitN(rest, ";", 2)
	if len(parts) != 2 || parts[1] == "" {
		// Empty URI ends the currently active hyperlink.
		return &Command{Type: CommandTypeHyperlinkEnd}
	}
	params := map[string]string{}
	for _, kv := range strings.Split(parts[0], ":") {
		if kv == "" {
			continue
		}
		if eq := strings.IndexByte(kv, '='); eq >= 0 {
			params[kv[:eq]] = kv[eq+1:]
		}
	}
	return &Command{
		Type:            CommandTypeHyperlinkStart,
		HyperlinkURI:    parts[1],
		HyperlinkParams: params,
		HyperlinkID:     params["id"],
	}
}

func parseClipboard(rest string) *Command {
	parts := strings.SplitN(rest, ";", 2)
	if len(parts) != 2 {
		return &Command{Type: CommandTypeUnknown, Raw: rest}
	}
	kind := byte('c')
	if len(parts[0]) > 0 {
		kind = parts[0][0]
	}
	cmd := &Command{Type: CommandTypeClipboardContents, ClipboardKind: kind}
	if parts[1] == "?" {
		cmd.ClipboardQuery = true
		return cmd
	}
	cmd.ClipboardData = parts[1]
	return cmd
}

func parseSemanticPrompt(rest string) *Command {
	kind := SemanticPromptPromptStart
	if len(rest) > 0 {
		switch rest[0] {
		case 'A':
			kind = SemanticPromptPromptStart
		case 'B':
			kind = SemanticPromptInputStart
		case 'C':
			kind = SemanticPromptOutputStart
		case 'D':
			kind = SemanticPromptCommandFinished
		}
	}
	return &Command{Type: CommandTypeSemanticPrompt, SemanticPrompt: kind, Raw: rest}
}
