package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/david-TxRxSystems/scripts/pkg/steps"
)

func TestPrinter_PlainByDefaultForBuffers(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatAuto)

	assert.False(t, p.Styled(), "non-file sinks must not get escape codes")
}

func TestPrinter_TextMode(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatText)

	p.Header("Backup")
	p.Warning("manifest not found")
	p.Error("root missing")
	p.Success("all good")

	out := buf.String()
	assert.Contains(t, out, "Backup\n")
	assert.Contains(t, out, "warning: manifest not found\n")
	assert.Contains(t, out, "error: root missing\n")
	assert.Contains(t, out, "all good\n")
	assert.NotContains(t, out, "\x1b[", "text mode must not emit escape codes")
}

func TestPrinter_ResultAndSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatText)

	p.Result(steps.Result{
		Step:   &steps.Step{ID: "ssh", Desc: "mirror ~/.ssh"},
		Status: steps.StatusDone,
	})
	p.Summary("backup", &steps.Summary{Done: 1})

	out := buf.String()
	assert.Contains(t, out, "✓ ssh")
	assert.Contains(t, out, "backup: 1 done")
}
