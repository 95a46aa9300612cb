// Package system is the boundary to external programs. Every shell-out
// sysbackup performs goes through the Runner interface so orchestration
// can be tested against a recording fake, and through one of the typed
// tool wrappers (Apt, Flatpak, Snap, Dconf, Rsync, Inventory) so the
// exact command lines live in one place.
package system

import (
	"context"
	"io"
	"strings"
)

// Command describes one external invocation.
type Command struct {
	// Name is the program, resolved via PATH.
	Name string
	// Args are passed verbatim.
	Args []string
	// Stdin, when set, is streamed to the child.
	Stdin io.Reader
	// Sudo runs the command through sudo.
	Sudo bool
}

// Line renders the command for logs and dry-run output.
func (c Command) Line() string {
	parts := make([]string, 0, len(c.Args)+2)
	if c.Sudo {
		parts = append(parts, "sudo")
	}
	parts = append(parts, c.Name)
	parts = append(parts, c.Args...)
	return strings.Join(parts, " ")
}

// Runner executes external commands.
type Runner interface {
	// Run executes cmd, streaming its output to the run's stdout and
	// stderr sinks. Use it for commands whose output is progress, not
	// data.
	Run(ctx context.Context, cmd Command) error

	// Capture executes cmd and returns its stdout. Stderr still goes
	// to the run's stderr sink. Use it for commands whose output is an
	// artifact.
	Capture(ctx context.Context, cmd Command) ([]byte, error)

	// LookPath reports where name resolves on PATH.
	LookPath(name string) (string, error)
}
