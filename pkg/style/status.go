// Package style renders step results and run summaries as terminal
// status lines. Glyph and verb coloring goes through pterm; secondary
// text picks up the semantic lipgloss styles from the embedded
// registry. Every function has a Plain twin for non-terminal output.
package style

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/david-TxRxSystems/scripts/pkg/steps"
	"github.com/david-TxRxSystems/scripts/pkg/ui/output/styles"
)

const idColumn = "%-18s"

func glyph(status steps.Status) string {
	switch status {
	case steps.StatusDone:
		return "✓"
	case steps.StatusSkipped:
		return "-"
	case steps.StatusFailed:
		return "✗"
	case steps.StatusPlanned:
		return "→"
	default:
		return "?"
	}
}

// StatusStyle returns the pterm style for a step status.
func StatusStyle(status steps.Status) *pterm.Style {
	switch status {
	case steps.StatusDone:
		return pterm.NewStyle(pterm.FgGreen)
	case steps.StatusSkipped:
		return pterm.NewStyle(pterm.FgYellow)
	case steps.StatusFailed:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case steps.StatusPlanned:
		return pterm.NewStyle(pterm.FgCyan)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// RenderResult renders one styled status line, plus indented plan
// lines for a planned step.
func RenderResult(r steps.Result) string {
	var b strings.Builder

	b.WriteString("  ")
	b.WriteString(StatusStyle(r.Status).Sprint(glyph(r.Status)))
	b.WriteString(" ")
	b.WriteString(fmt.Sprintf(idColumn, r.Step.ID))
	b.WriteString(" ")
	b.WriteString(resultText(r, true))

	if r.Status == steps.StatusPlanned {
		for _, line := range r.Step.Plan {
			b.WriteString("\n      ")
			b.WriteString(styles.GetStyle("Command").Render("would run: " + line))
		}
	}
	return b.String()
}

// RenderResultPlain is RenderResult without styling.
func RenderResultPlain(r steps.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "  %s %s %s", glyph(r.Status), fmt.Sprintf(idColumn, r.Step.ID), resultText(r, false))

	if r.Status == steps.StatusPlanned {
		for _, line := range r.Step.Plan {
			b.WriteString("\n      would run: ")
			b.WriteString(line)
		}
	}
	return b.String()
}

func resultText(r steps.Result, styled bool) string {
	muted := func(s string) string {
		if styled {
			return styles.GetStyle("Muted").Render(s)
		}
		return s
	}

	switch r.Status {
	case steps.StatusDone:
		text := r.Step.Desc
		if r.Report.Message != "" {
			text += " " + muted("("+r.Report.Message+")")
		}
		if r.Duration >= time.Second {
			text += " " + muted("("+r.Duration.Round(time.Second).String()+")")
		}
		return text
	case steps.StatusSkipped:
		return "skipped: " + muted(r.Reason)
	case steps.StatusFailed:
		reason := "failed"
		if r.Err != nil {
			reason = "failed: " + r.Err.Error()
		}
		if styled {
			return styles.GetStyle("Error").Render(reason)
		}
		return reason
	case steps.StatusPlanned:
		return r.Step.Desc
	default:
		return r.Step.Desc
	}
}

// RenderSummary renders the final one-line summary for a run.
func RenderSummary(mode string, s *steps.Summary) string {
	line := fmt.Sprintf("%s: %s", mode, strings.Join(summaryParts(s), ", "))
	switch {
	case s.Failed > 0 || s.Interrupted:
		return styles.GetStyle("Error").Render(line)
	case len(s.FailedItems) > 0:
		return styles.GetStyle("Warning").Render(line)
	default:
		return styles.GetStyle("Success").Render(line)
	}
}

// RenderSummaryPlain is RenderSummary without styling.
func RenderSummaryPlain(mode string, s *steps.Summary) string {
	return fmt.Sprintf("%s: %s", mode, strings.Join(summaryParts(s), ", "))
}

func summaryParts(s *steps.Summary) []string {
	var parts []string
	if s.Planned > 0 {
		parts = append(parts, fmt.Sprintf("%d step(s) planned", s.Planned))
	}
	if s.Done > 0 || s.Planned == 0 {
		parts = append(parts, fmt.Sprintf("%d done", s.Done))
	}
	if s.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", s.Skipped))
	}
	if s.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", s.Failed))
	}
	if n := len(s.FailedItems); n > 0 {
		parts = append(parts, fmt.Sprintf("%d item(s) failed", n))
	}
	if s.Interrupted {
		parts = append(parts, "interrupted")
	}
	return parts
}
