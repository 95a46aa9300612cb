package system

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"

	"github.com/david-TxRxSystems/scripts/pkg/errors"
	"github.com/david-TxRxSystems/scripts/pkg/logging"
)

var log = logging.GetLogger("system")

// OS runs commands with os/exec. Child stdout and stderr are written to
// the configured sinks, which the caller typically fans out to the
// console and the run log.
type OS struct {
	stdout io.Writer
	stderr io.Writer
}

// NewOS returns a Runner writing child output to stdout and stderr.
// Nil sinks default to the process's own streams.
func NewOS(stdout, stderr io.Writer) *OS {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &OS{stdout: stdout, stderr: stderr}
}

func (o *OS) Run(ctx context.Context, cmd Command) error {
	c := o.build(ctx, cmd)
	c.Stdout = o.stdout
	c.Stderr = o.stderr

	log.Debug().Str("cmd", cmd.Line()).Msg("running command")
	if err := c.Run(); err != nil {
		return runError(ctx, err, cmd)
	}
	return nil
}

func (o *OS) Capture(ctx context.Context, cmd Command) ([]byte, error) {
	c := o.build(ctx, cmd)
	var out bytes.Buffer
	c.Stdout = &out
	c.Stderr = o.stderr

	log.Debug().Str("cmd", cmd.Line()).Msg("capturing command output")
	if err := c.Run(); err != nil {
		return nil, runError(ctx, err, cmd)
	}
	return out.Bytes(), nil
}

func (o *OS) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (o *OS) build(ctx context.Context, cmd Command) *exec.Cmd {
	name := cmd.Name
	args := cmd.Args
	if cmd.Sudo {
		args = append([]string{name}, args...)
		name = "sudo"
	}
	c := exec.CommandContext(ctx, name, args...)
	c.Stdin = cmd.Stdin
	return c
}

// runError classifies a failed invocation: a cancelled context means
// the run was interrupted and the child killed; anything else is an
// action failure carrying the exit code when there is one.
func runError(ctx context.Context, err error, cmd Command) error {
	if ctx.Err() != nil {
		return errors.Wrapf(err, errors.ErrInterrupted, "interrupted while running %q", cmd.Line())
	}

	wrapped := errors.Wrapf(err, errors.ErrActionFailure, "%q failed", cmd.Line())
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		wrapped = wrapped.WithDetail("exit_code", exitErr.ExitCode())
	}
	return wrapped
}
