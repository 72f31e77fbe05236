// Package ui renders human-facing console output and prompts.
//
// Everything the deploy flow shows an operator goes through a Printer and a
// Confirmer so that the core logic can run against buffers in tests.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/sqve/shipit/internal/config"
	"github.com/sqve/shipit/internal/styles"
)

// Printer writes styled progress messages. Regular output goes to Out,
// errors to Err.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// NewPrinter returns a Printer writing to out and err.
func NewPrinter(out, err io.Writer) *Printer {
	return &Printer{Out: out, Err: err}
}

// Default returns a Printer bound to stdout and stderr.
func Default() *Printer {
	return NewPrinter(os.Stdout, os.Stderr)
}

func (p *Printer) symbol(style *lipgloss.Style, symbol, plain string) string {
	if config.IsPlain() {
		return plain
	}
	return styles.Render(style, symbol) + " "
}

func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.Out, "%s%s\n", p.symbol(&styles.Success, "✓", ""), fmt.Sprintf(format, args...))
}

func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.Out, "%s%s\n", p.symbol(&styles.Info, "→", ""), fmt.Sprintf(format, args...))
}

func (p *Printer) Warning(format string, args ...any) {
	fmt.Fprintf(p.Out, "%s%s\n", p.symbol(&styles.Warning, "⚠", "Warning: "), fmt.Sprintf(format, args...))
}

func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintf(p.Err, "%s%s\n", p.symbol(&styles.Error, "✗", "Error: "), fmt.Sprintf(format, args...))
}

// Step prints a numbered progress line such as "Step 2/4: Committing changes".
func (p *Printer) Step(step, total int, message string) {
	fmt.Fprintln(p.Out, styles.Render(&styles.Header, StepFormat(step, total, message)))
}

// Detail prints a dimmed, indented line.
func (p *Printer) Detail(format string, args ...any) {
	fmt.Fprintln(p.Out, "   "+styles.Render(&styles.Dimmed, fmt.Sprintf(format, args...)))
}

func (p *Printer) Println(args ...any) {
	fmt.Fprintln(p.Out, args...)
}
