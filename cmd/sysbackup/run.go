package sysbackup

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/david-TxRxSystems/scripts/internal/version"
	"github.com/david-TxRxSystems/scripts/pkg/backup"
	"github.com/david-TxRxSystems/scripts/pkg/config"
	"github.com/david-TxRxSystems/scripts/pkg/deps"
	"github.com/david-TxRxSystems/scripts/pkg/errors"
	"github.com/david-TxRxSystems/scripts/pkg/fileops"
	"github.com/david-TxRxSystems/scripts/pkg/logging"
	"github.com/david-TxRxSystems/scripts/pkg/paths"
	"github.com/david-TxRxSystems/scripts/pkg/restore"
	"github.com/david-TxRxSystems/scripts/pkg/steps"
	"github.com/david-TxRxSystems/scripts/pkg/system"
	"github.com/david-TxRxSystems/scripts/pkg/ui"
)

// runEnv is the shared wiring both orchestrators run inside: the merged
// configuration, the resolved paths, the output sink fanned out to the
// run log, and the runner external commands go through.
type runEnv struct {
	cfg     *config.Config
	pth     *paths.Paths
	printer *ui.Printer
	runner  system.Runner
	dryRun  bool
}

// newRunEnv resolves configuration and paths and, outside dry-run,
// attaches the run log inside the backup root so everything the user
// sees lands on disk too. With needRoot the backup root must already
// exist; restore never creates it.
func newRunEnv(opts *globalOptions, out io.Writer, needRoot bool) (*runEnv, error) {
	format, err := ui.ParseFormat(opts.format)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid --format value")
	}
	if format == ui.FormatAuto {
		if f, ok := out.(*os.File); ok {
			format = ui.DetectFormat(f)
		} else {
			format = ui.FormatText
		}
	}

	cfg, err := config.Load(paths.UserConfigFile())
	if err != nil {
		return nil, err
	}

	pth, err := paths.New(opts.root, cfg.Backup.Root)
	if err != nil {
		return nil, err
	}
	if pth.UsedFallback() {
		log.Debug().Str("root", pth.BackupRoot()).Msg("Using default backup root")
	}

	sink := out
	if !opts.dryRun {
		if needRoot && !fileops.DirExists(pth.BackupRoot()) {
			return nil, errors.Newf(errors.ErrRootNotFound,
				"backup root %s does not exist; run a backup first or point --root at one", pth.BackupRoot())
		}
		// Attaching creates the root directory for the log, so the
		// existence check above has to come first.
		file, err := logging.AttachFile(pth.LogFilePath())
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrActionFailure, "cannot open run log in %s", pth.BackupRoot())
		}
		sink = io.MultiWriter(out, file)
	}

	return &runEnv{
		cfg:     cfg,
		pth:     pth,
		printer: ui.NewPrinter(sink, format),
		runner:  system.NewOS(sink, sink),
		dryRun:  opts.dryRun,
	}, nil
}

// ensureTools runs the dependency checker before any capture or apply
// work. Dry-run only reports what is missing.
func (e *runEnv) ensureTools(ctx context.Context) error {
	checker := deps.New(e.runner, e.cfg.Tools)

	if e.dryRun {
		if missing := checker.Missing(); len(missing) > 0 {
			e.printer.Warning("missing tools would be installed: " + strings.Join(missing, ", "))
		}
		return nil
	}

	installed, err := checker.Ensure(ctx)
	if err != nil {
		return err
	}
	if len(installed) > 0 {
		e.printer.Println("Installed missing tools: " + strings.Join(installed, ", "))
	} else {
		e.printer.Println("All required tools present.")
	}
	return nil
}

// runSteps executes the list with live status lines and prints the
// final summary whether or not the run aborted.
func (e *runEnv) runSteps(ctx context.Context, mode string, list []*steps.Step) (*steps.Summary, error) {
	runner := steps.NewRunner(steps.Options{
		DryRun:   e.dryRun,
		OnResult: e.printer.Result,
	})

	summary, err := runner.Run(ctx, list)
	e.printer.Println("")
	e.printer.Summary(mode, summary)
	return summary, err
}

func runBackup(ctx context.Context, opts *globalOptions, out io.Writer) error {
	env, err := newRunEnv(opts, out, false)
	if err != nil {
		return err
	}

	env.printer.Header("Backing up to " + env.pth.BackupRoot())
	if err := env.ensureTools(ctx); err != nil {
		return err
	}

	svc := backup.New(env.cfg, env.pth, env.runner)
	summary, err := env.runSteps(ctx, "backup", svc.Steps())
	if err != nil {
		return err
	}

	if !env.dryRun {
		if err := svc.Finish(summary, version.Version); err != nil {
			return err
		}
	}
	return exitStatus(summary)
}

func runRestore(ctx context.Context, opts *globalOptions, out io.Writer) error {
	env, err := newRunEnv(opts, out, true)
	if err != nil {
		return err
	}

	svc := restore.New(env.cfg, env.pth, env.runner)
	if err := svc.Prepare(); err != nil {
		// A missing root still plans in dry-run; everywhere else it is
		// fatal before any step runs.
		if !env.dryRun || !errors.IsErrorCode(err, errors.ErrRootNotFound) {
			return err
		}
		env.printer.Warning(err.Error())
	}

	env.printer.Header("Restoring from " + env.pth.BackupRoot())
	if err := env.ensureTools(ctx); err != nil {
		return err
	}

	summary, err := env.runSteps(ctx, "restore", svc.Steps())
	if err != nil {
		return err
	}
	return exitStatus(summary)
}

// exitStatus turns tolerated per-item failures into a non-zero exit so
// a partial package restore never looks like success to scripts.
func exitStatus(s *steps.Summary) error {
	if n := len(s.FailedItems); n > 0 {
		return errors.Newf(errors.ErrActionFailure,
			"%d package install(s) failed: %s", n, strings.Join(s.FailedItems, ", "))
	}
	return nil
}
