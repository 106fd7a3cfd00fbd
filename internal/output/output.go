// Package output prints progress the way the CLI reports it: plain
// progress lines on stdout, "✓" lines for finished work and "Warning:"
// lines on stderr.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	dimColor     = color.New(color.Faint)
)

// Printer writes progress output. It is safe for concurrent use; page jobs
// report from several goroutines.
type Printer struct {
	Out   io.Writer
	Err   io.Writer
	Quiet bool

	mu sync.Mutex
}

// New returns a printer on stdout and stderr
func New(quiet bool) *Printer {
	return &Printer{Out: color.Output, Err: color.Error, Quiet: quiet}
}

// Discard returns a printer that drops everything
func Discard() *Printer {
	return &Printer{Out: io.Discard, Err: io.Discard, Quiet: true}
}

func (p *Printer) write(w io.Writer, s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(w, s)
}

// Printf prints a progress line unless quiet
func (p *Printer) Printf(format string, args ...any) {
	if p.Quiet {
		return
	}
	p.write(p.out(), fmt.Sprintf(format, args...))
}

// Detail prints a dimmed progress line unless quiet
func (p *Printer) Detail(format string, args ...any) {
	if p.Quiet {
		return
	}
	p.write(p.out(), dimColor.Sprintf(format, args...))
}

// Success prints a "✓" line. Quiet does not suppress it.
func (p *Printer) Success(format string, args ...any) {
	p.write(p.out(), successColor.Sprint("✓ ")+fmt.Sprintf(format, args...))
}

// Warn prints a warning line on stderr
func (p *Printer) Warn(format string, args ...any) {
	p.write(p.err(), warnColor.Sprint("Warning: ")+fmt.Sprintf(format, args...))
}

// Error prints an error line on stderr
func (p *Printer) Error(format string, args ...any) {
	p.write(p.err(), errorColor.Sprint("Error: ")+fmt.Sprintf(format, args...))
}

func (p *Printer) out() io.Writer {
	if p.Out == nil {
		return os.Stdout
	}
	return p.Out
}

func (p *Printer) err() io.Writer {
	if p.Err == nil {
		return os.Stderr
	}
	return p.Err
}
