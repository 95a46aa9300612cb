package testutil

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/david-TxRxSystems/scripts/pkg/errors"
	"github.com/david-TxRxSystems/scripts/pkg/system"
)

// Call records one invocation seen by the FakeRunner.
type Call struct {
	// Line is the rendered command line, sudo prefix included.
	Line string
	// Op is "run" or "capture".
	Op string
	// Stdin is the drained stdin content, if any was supplied.
	Stdin string
}

// FakeRunner implements system.Runner by recording calls and answering
// from scripted outputs. Commands are matched by line prefix; the
// longest matching prefix wins, so an exact line beats a family match.
type FakeRunner struct {
	Calls []Call

	outputs map[string][]byte
	errs    map[string]error
	missing map[string]bool
}

func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		outputs: make(map[string][]byte),
		errs:    make(map[string]error),
		missing: make(map[string]bool),
	}
}

// Output scripts the stdout Capture returns for commands matching
// prefix.
func (f *FakeRunner) Output(prefix, data string) *FakeRunner {
	f.outputs[prefix] = []byte(data)
	return f
}

// Fail scripts an action failure for commands matching prefix.
func (f *FakeRunner) Fail(prefix, message string) *FakeRunner {
	f.errs[prefix] = errors.Newf(errors.ErrActionFailure, "%q failed: %s", prefix, message)
	return f
}

// FailWith scripts a specific error for commands matching prefix.
func (f *FakeRunner) FailWith(prefix string, err error) *FakeRunner {
	f.errs[prefix] = err
	return f
}

// Missing makes LookPath report name as absent.
func (f *FakeRunner) Missing(name string) *FakeRunner {
	f.missing[name] = true
	return f
}

func (f *FakeRunner) Run(ctx context.Context, cmd system.Command) error {
	line := cmd.Line()
	f.record(line, "run", cmd.Stdin)
	if err := ctx.Err(); err != nil {
		return errors.Wrapf(err, errors.ErrInterrupted, "interrupted while running %q", line)
	}
	return f.errFor(line)
}

func (f *FakeRunner) Capture(ctx context.Context, cmd system.Command) ([]byte, error) {
	line := cmd.Line()
	f.record(line, "capture", cmd.Stdin)
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInterrupted, "interrupted while running %q", line)
	}
	if err := f.errFor(line); err != nil {
		return nil, err
	}
	if key, ok := longestPrefix(line, f.outputs); ok {
		return f.outputs[key], nil
	}
	return nil, nil
}

func (f *FakeRunner) LookPath(name string) (string, error) {
	if f.missing[name] {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
	return "/usr/bin/" + name, nil
}

// Ran reports whether any recorded command starts with prefix.
func (f *FakeRunner) Ran(prefix string) bool {
	for _, c := range f.Calls {
		if strings.HasPrefix(c.Line, prefix) {
			return true
		}
	}
	return false
}

// Lines returns every recorded command line in order.
func (f *FakeRunner) Lines() []string {
	lines := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		lines[i] = c.Line
	}
	return lines
}

// StdinFor returns the stdin recorded for the first command matching
// prefix.
func (f *FakeRunner) StdinFor(prefix string) string {
	for _, c := range f.Calls {
		if strings.HasPrefix(c.Line, prefix) {
			return c.Stdin
		}
	}
	return ""
}

func (f *FakeRunner) record(line, op string, stdin io.Reader) {
	call := Call{Line: line, Op: op}
	if stdin != nil {
		if data, err := io.ReadAll(stdin); err == nil {
			call.Stdin = string(data)
		}
	}
	f.Calls = append(f.Calls, call)
}

func (f *FakeRunner) errFor(line string) error {
	if key, ok := longestPrefix(line, f.errs); ok {
		return f.errs[key]
	}
	return nil
}

func longestPrefix[V any](line string, m map[string]V) (string, bool) {
	best := ""
	found := false
	for k := range m {
		if strings.HasPrefix(line, k) && len(k) >= len(best) {
			best, found = k, true
		}
	}
	return best, found
}
