package dcs

import "fmt"

// DCS is the hook event: the intermediates/params/final byte that opened a
// Device Control String, before any of its payload bytes have arrived.
type DCS struct {
	Intermediates []uint8
	Params        []uint16
	Final         uint8
}

func (c *DCS) String() string {
	return fmt.Sprintf("DCS %v %v %v", c.Intermediates, c.Params, c.Final)
}

// CommandType identifies which DCS sub-protocol produced a Command.
type CommandType int

const (
	CommandTypeUnknown CommandType = iota
	// DECRQSS ("ESC P $ q <name> ESC \\") asks the terminal to report the
	// current value of a setting (SGR, DECSTBM, DECSCUSR, ...).
	CommandTypeDECRQSS
	// XTGETTCAP ("ESC P + q <hex-encoded names> ESC \\") asks the terminal
	// to report terminfo capability strings.
	CommandTypeXTGETTCAP
)

// Command is the fully-accumulated result of a Device Control String,
// produced on unhook once every Put byte has been collected.
type Command struct {
	Type CommandType

	// Payload is the raw bytes collected between hook and unhook.
	Payload string
}

// Handler accumulates DCS bytes across Hook/Put/Unhook and produces a
// Command once the string terminates.
type (
	HookHandler   interface{ DCSHook(*DCS) *Command }
	UnhookHandler interface{ DCSUnhook() *Command }
	PutHandler    interface{ DCSPut(uint8) *Command }

	// This aggerate methods needed for DCS handler
	Handler interface {
		HookHandler
		UnhookHandler
		PutHandler
	}
)

// DefaultHandler is a Handler implementation that recognizes DECRQSS and
// XTGETTCAP request strings; any other DCS sequence is buffered and
// reported as CommandTypeUnknown on unhook.
type DefaultHandler struct {
	typ CommandType
	buf []byte
}

func NewDefaultHandler() *DefaultHandler {
	return &DefaultHandler{}
}

func (h *DefaultHandler) DCSHook(d *DCS) *Command {
	h.buf = h.buf[:0]
	h.typ = CommandTypeUnknown
	if len(d.Intermediates) == 1 && d.Final == 'q' {
		switch d.Intermediates[0] {
		case '$':
			h.typ = CommandTypeDECRQSS
		case '+':
			h.typ = CommandTypeXTGETTCAP
		}
	}
	return nil
}

func (h *DefaultHandler) DCSPut(c uint8) *Command {
	h.buf = append(h.buf, c)
	return nil
}

func (h *DefaultHandler) DCSUnhook() *Command {
	cmd := &Command{Type: h.typ, Payload: string(h.buf)}
	h.buf = nil
	h.typ = CommandTypeUnknown
	return cmd
}

var _ Handler = (*DefaultHandler)(nil)
