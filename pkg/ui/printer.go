package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/david-TxRxSystems/scripts/pkg/steps"
	"github.com/david-TxRxSystems/scripts/pkg/style"
	"github.com/david-TxRxSystems/scripts/pkg/ui/output/styles"
)

// Printer writes user-facing run output to one sink. The sink is
// usually a MultiWriter over stdout and the run log, so everything the
// user sees is also on disk.
type Printer struct {
	out    io.Writer
	styled bool
}

// NewPrinter builds a Printer for out. FormatAuto is resolved from out
// when it is a file, and falls back to plain text when it is not:
// anything that is not a terminal gets no escape codes.
func NewPrinter(out io.Writer, format Format) *Printer {
	styled := false
	switch format {
	case FormatTerminal:
		styled = true
	case FormatAuto:
		if f, ok := out.(*os.File); ok {
			styled = DetectFormat(f) == FormatTerminal
		}
	}
	return &Printer{out: out, styled: styled}
}

// Styled reports whether output is rendered with escape codes.
func (p *Printer) Styled() bool {
	return p.styled
}

// Println writes one plain line.
func (p *Printer) Println(text string) {
	fmt.Fprintln(p.out, text)
}

// Printf writes formatted text verbatim.
func (p *Printer) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format, args...)
}

// Header writes a section heading.
func (p *Printer) Header(text string) {
	if p.styled {
		fmt.Fprintln(p.out, styles.GetStyle("Header").Render(text))
		return
	}
	fmt.Fprintln(p.out, text)
}

// Success writes a positive status message.
func (p *Printer) Success(text string) {
	if p.styled {
		fmt.Fprintln(p.out, styles.GetStyle("Success").Render(text))
		return
	}
	fmt.Fprintln(p.out, text)
}

// Warning writes a warning message.
func (p *Printer) Warning(text string) {
	if p.styled {
		fmt.Fprintln(p.out, styles.GetStyle("Warning").Render("warning: "+text))
		return
	}
	fmt.Fprintln(p.out, "warning: "+text)
}

// Error writes an error message.
func (p *Printer) Error(text string) {
	if p.styled {
		fmt.Fprintln(p.out, styles.GetStyle("Error").Render("error: "+text))
		return
	}
	fmt.Fprintln(p.out, "error: "+text)
}

// Result writes one step status line.
func (p *Printer) Result(r steps.Result) {
	if p.styled {
		fmt.Fprintln(p.out, style.RenderResult(r))
		return
	}
	fmt.Fprintln(p.out, style.RenderResultPlain(r))
}

// Summary writes the final run summary line.
func (p *Printer) Summary(mode string, s *steps.Summary) {
	if p.styled {
		fmt.Fprintln(p.out, style.RenderSummary(mode, s))
		return
	}
	fmt.Fprintln(p.out, style.RenderSummaryPlain(mode, s))
}
