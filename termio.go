package termio

import (
	"fmt"
	"runtime/debug"

	"github.com/hnimtadd/termio/logger"
	terminalPkg "github.com/hnimtadd/termio/terminal"
	"github.com/hnimtadd/termio/terminal/core"
	"github.com/hnimtadd/termio/terminal/grid"
	"github.com/hnimtadd/termio/terminal/point"
	"github.com/hnimtadd/termio/terminal/sequences/dcs"
	"github.com/hnimtadd/termio/terminal/size"
	"github.com/hnimtadd/termio/terminal/stream"
)

type TerminalIO struct {
	// The terminal emulator internal state. This is the abstract "terminal"
	// that manages input, grid updating, etc. and is renderer-agnostic. It
	// just stores internal state about a grid.
	terminal *terminalPkg.Terminal

	// The stream parser. This parses the stream of escape codes and so on
	// from the child process and calls callbacks in the stream handler.
	terminalStream *stream.Stream

	logger logger.Logger
}

type Options struct {
	Rows, Cols int
	Logger     logger.Logger
}

// Initialize the termio state.
//
// This will also start the child process if the termio is configured
// to run a child process.
func NewTerminalIO(opts Options) *TerminalIO {
	// default terminal Mode
	modes := core.ModePacked

	lg := opts.Logger
	if lg == nil {
		lg = logger.DefaultLogger
	}

	// Create a new terminal instance
	term := terminalPkg.NewTerminal(
		terminalPkg.Options{
			Rows:   opts.Rows,
			Cols:   opts.Cols,
			Modes:  modes,
			Logger: lg,
		},
	)

	// Create our stream handler.
	handler := &StreamHandler{
		terminal: term,
		rows:     uint16(opts.Rows),
		cols:     uint16(opts.Cols),
		dcs:      dcs.NewDefaultHandler(),
		logger:   lg,
	}
	return &TerminalIO{
		terminal: term,
		logger:   lg,
		terminalStream: stream.NewStream(
			handler,
			lg,
		),
	}
}

// resize the terminal
func (t *TerminalIO) Resize(cols, rows int) {
	t.terminal.Resize(size.CellCountInt(cols), size.CellCountInt(rows))
}

// proces output from the pty. This is the manual API that users can call
// with pty data
func (t *TerminalIO) ProcessOutput(buf []byte) (err error) {
	// Process the output from the pty
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("Panic in ProcessOutput: %v", r)
			fmt.Println(string(debug.Stack()))
			err = fmt.Errorf("panic in ProcessOutput: %v", r)
		}
	}()
	t.terminalStream.NextSlice(buf)
	err = nil
	return
}

// Process output from pty by byte. This is the manual API that users can call
// with pty data
//
// NOTE, this implementation is helpful for debugging as you can see the
// process of each byte, but it is not as efficient as the slice version.
//
// consider ProcessOutput for better performance
func (t *TerminalIO) Process(c byte) (err error) {
	// Process the output from the pty
	// defer func() {
	// 	if r := recover(); r != nil {
	// 		logging.Error("Panic in Process: %v", r)
	// 		fmt.Println(string(debug.Stack()))
	// 		err = fmt.Errorf("panic in Process: %v", r)
	// 	}
	// }()
	t.terminalStream.Next(c)
	err = nil
	return
}

func (t *TerminalIO) DumpString() string {
	return t.terminal.PlainString()
}

// CellAt resolves a tagged point (viewport, active screen, scrollback, or
// screen-plus-scrollback) into the grid cell it addresses. See
// terminal.Terminal.CellAt for the addressing rules per tag.
func (t *TerminalIO) CellAt(pt point.Point) (*grid.Cell, bool) {
	return t.terminal.CellAt(pt)
}

func (t *TerminalIO) Write(p []byte) (n int, err error) {
	t.terminalStream.NextSlice(p)
	return len(p), nil
}

// Close releases the terminal's grid storage. TerminalIO owns no external
// resources (no pty, no goroutines) so this only needs to drop references
// for the garbage collector.
func (t *TerminalIO) Close() error {
	t.terminal.FullReset()
	return nil
}
