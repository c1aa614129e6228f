// Package printer writes colored CLI output.
package printer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// Printer writes to Out and Err. The zero value is not usable; use New.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// New returns a printer over the given writers. Nil writers default to
// stdout and stderr.
func New(out, errOut io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Printer{Out: out, Err: errOut}
}

// Success prints a message in green with a checkmark.
func (p *Printer) Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		msg = "✓ " + msg
	}
	green.Fprintln(p.Out, msg)
}

// Info prints an uncolored message.
func (p *Printer) Info(format string, a ...any) {
	fmt.Fprintf(p.Out, format+"\n", a...)
}

// Step prints a progress line in cyan.
func (p *Printer) Step(format string, a ...any) {
	cyan.Fprintf(p.Out, "→ %s\n", fmt.Sprintf(format, a...))
}

// Warning prints a message in yellow to Err.
func (p *Printer) Warning(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "⚠️") {
		msg = "⚠️  " + msg
	}
	yellow.Fprintln(p.Err, msg)
}

// Error prints a titled error with an optional explanation and suggestions
// to Err and returns an error carrying the title, suitable for cobra with
// SilenceErrors set.
func (p *Printer) Error(title, explanation string, suggestions ...string) error {
	red.Fprintf(p.Err, "%s\n", title)
	if explanation != "" {
		fmt.Fprintf(p.Err, "\n%s\n", explanation)
	}
	switch len(suggestions) {
	case 0:
	case 1:
		fmt.Fprintf(p.Err, "\n%s\n", suggestions[0])
	default:
		fmt.Fprintf(p.Err, "\nEither:\n")
		for i, s := range suggestions {
			fmt.Fprintf(p.Err, "  %d. %s\n", i+1, s)
		}
	}
	return &reportedError{title: title}
}

// reportedError marks an error the user has already seen.
type reportedError struct {
	title string
}

func (e *reportedError) Error() string { return e.title }

// Reported reports whether err was already printed by Error.
func Reported(err error) bool {
	var re *reportedError
	return errors.As(err, &re)
}

// Println prints plain output.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.Out, a...)
}
