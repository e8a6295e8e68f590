// Package sink delivers log lines to the console and to append-only files.
package sink

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Severity decides how a line is styled on the console.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityFailure
)

func (s Severity) String() string {
	if s == SeverityFailure {
		return "failure"
	}
	return "info"
}

const (
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// Console writes lines to a terminal, coloring failures red. Styling is
// applied per line so no color state leaks between writes.
type Console struct {
	out   io.Writer
	color bool
}

// NewConsole returns a Console on f. Color is enabled only when f is a
// terminal; on Windows escape sequences are translated by go-colorable.
func NewConsole(f *os.File) *Console {
	fd := f.Fd()
	return &Console{
		out:   colorable.NewColorable(f),
		color: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

// NewConsoleWriter returns a Console on w with color forced on or off.
func NewConsoleWriter(w io.Writer, color bool) *Console {
	return &Console{out: w, color: color}
}

// Print writes text followed by a newline.
func (c *Console) Print(text string, sev Severity) {
	if c.color && sev == SeverityFailure {
		fmt.Fprintln(c.out, ansiRed+text+ansiReset)
		return
	}
	fmt.Fprintln(c.out, text)
}
