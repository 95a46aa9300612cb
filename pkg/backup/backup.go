// Package backup builds the capture run: the ordered steps that export
// package selections, desktop settings, dotfiles and configured
// directories into the backup root.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/david-TxRxSystems/scripts/pkg/config"
	"github.com/david-TxRxSystems/scripts/pkg/errors"
	"github.com/david-TxRxSystems/scripts/pkg/fileops"
	"github.com/david-TxRxSystems/scripts/pkg/logging"
	"github.com/david-TxRxSystems/scripts/pkg/manifest"
	"github.com/david-TxRxSystems/scripts/pkg/paths"
	"github.com/david-TxRxSystems/scripts/pkg/steps"
	"github.com/david-TxRxSystems/scripts/pkg/system"
)

var log = logging.GetLogger("backup")

// Service builds the capture steps for one backup run.
type Service struct {
	cfg     *config.Config
	pth     *paths.Paths
	apt     system.Apt
	flatpak system.Flatpak
	snap    system.Snap
	dconf   system.Dconf
	rsync   system.Rsync
	inv     system.Inventory
}

// New creates a backup service running external commands through r.
func New(cfg *config.Config, pth *paths.Paths, r system.Runner) *Service {
	return &Service{
		cfg:     cfg,
		pth:     pth,
		apt:     system.NewApt(r),
		flatpak: system.NewFlatpak(r),
		snap:    system.NewSnap(r),
		dconf:   system.NewDconf(r),
		rsync:   system.NewRsync(r),
		inv:     system.NewInventory(r),
	}
}

// Steps returns the ordered capture steps. The first step creates the
// backup root; every later one writes into it, overwriting whatever a
// previous run left there.
func (s *Service) Steps() []*steps.Step {
	list := []*steps.Step{
		s.rootStep(),
		s.captureStep("apt-selections", "capture apt package selections",
			paths.AptSelectionsFile, "dpkg --get-selections", s.apt.Selections, lineCountNote("selections")),
		s.captureStep("flatpak-apps", "capture flatpak application list",
			paths.FlatpakAppsFile, "flatpak list --app --columns=application", s.flatpak.Applications, lineCountNote("apps")),
		s.snapStep(),
		s.captureStep("dconf-settings", "capture desktop settings",
			paths.DconfSettingsFile, "dconf dump /", s.dconf.Dump, nil),
		s.captureStep("pip-packages", "capture python package inventory",
			paths.PipPackagesFile, "pip3 list --user --format=freeze", s.inv.PipPackages, lineCountNote("packages")),
		s.captureStep("npm-packages", "capture npm package inventory",
			paths.NpmPackagesFile, "npm list -g --depth=0", s.inv.NpmPackages, nil),
		s.captureStep("user-services", "capture enabled user services",
			paths.UserServicesFile, "systemctl --user list-unit-files --state=enabled", s.inv.UserServices, nil),
		s.dotfilesStep(),
	}
	for _, d := range s.cfg.Artifacts.Dirs {
		list = append(list, s.mirrorStep(d))
	}
	return list
}

// Finish records a completed run: the manifest with per-step outcomes
// and the config snapshot that restore will prefer over local config.
// Never called in dry-run mode.
func (s *Service) Finish(summary *steps.Summary, version string) error {
	m := manifest.New(version, summary)
	if err := manifest.Write(s.pth.ManifestPath(), m); err != nil {
		return err
	}
	if err := config.SaveSnapshot(s.pth.SnapshotPath(), s.cfg); err != nil {
		return err
	}
	log.Info().Str("run_id", m.RunID).Msg("Backup manifest written")
	return nil
}

func (s *Service) rootStep() *steps.Step {
	root := s.pth.BackupRoot()
	return &steps.Step{
		ID:   "backup-root",
		Desc: "prepare backup root",
		Plan: []string{"mkdir -p " + root},
		Run: func(ctx context.Context) (steps.Report, error) {
			if err := fileops.EnsureDir(root); err != nil {
				return steps.Report{}, errors.Wrapf(err, errors.ErrRootCreate, "cannot create backup root %s", root)
			}
			return steps.Report{Message: root}, nil
		},
	}
}

// captureStep exports one command's output into an artifact file. A
// failing command aborts the run; there is no partial artifact to
// clean up because the file is only written after a successful export.
func (s *Service) captureStep(id, desc, artifact, command string, capture func(context.Context) ([]byte, error), note func([]byte) string) *steps.Step {
	return &steps.Step{
		ID:   id,
		Desc: desc,
		Plan: []string{command + " > " + artifact},
		Run: func(ctx context.Context) (steps.Report, error) {
			data, err := capture(ctx)
			if err != nil {
				return steps.Report{}, err
			}
			if err := s.writeArtifact(artifact, data); err != nil {
				return steps.Report{}, err
			}
			rep := steps.Report{}
			if note != nil {
				rep.Message = note(data)
			}
			return rep, nil
		},
	}
}

// snapStep is captureStep with a parsing twist: `snap list` prints a
// table, the artifact keeps only the names, one per line.
func (s *Service) snapStep() *steps.Step {
	return &steps.Step{
		ID:   "snap-packages",
		Desc: "capture snap package list",
		Plan: []string{"snap list > " + paths.SnapPackagesFile},
		Run: func(ctx context.Context) (steps.Report, error) {
			out, err := s.snap.List(ctx)
			if err != nil {
				return steps.Report{}, err
			}
			names := system.ParseSnapTable(out)
			var data []byte
			if len(names) > 0 {
				data = []byte(strings.Join(names, "\n") + "\n")
			}
			if err := s.writeArtifact(paths.SnapPackagesFile, data); err != nil {
				return steps.Report{}, err
			}
			return steps.Report{Message: fmt.Sprintf("%d snaps", len(names))}, nil
		},
	}
}

func (s *Service) dotfilesStep() *steps.Step {
	files := s.cfg.Artifacts.Dotfiles
	plan := make([]string, 0, len(files))
	for _, name := range files {
		plan = append(plan, fmt.Sprintf("cp ~/%s %s/", name, s.pth.BackupRoot()))
	}
	return &steps.Step{
		ID:   "dotfiles",
		Desc: "copy dotfiles",
		Plan: plan,
		Run: func(ctx context.Context) (steps.Report, error) {
			copied := 0
			for _, name := range files {
				src := filepath.Join(s.pth.Home(), name)
				if !fileops.Exists(src) {
					log.Debug().Str("file", name).Msg("Dotfile not present, skipping")
					continue
				}
				if err := fileops.CopyFile(src, s.pth.ArtifactPath(name)); err != nil {
					return steps.Report{}, errors.Wrapf(err, errors.ErrFileCopy, "cannot copy %s", name)
				}
				copied++
			}
			if copied == 0 {
				return steps.Report{}, errors.Newf(errors.ErrSourceAbsent, "none of the configured dotfiles exist")
			}
			return steps.Report{Message: fmt.Sprintf("%d of %d files", copied, len(files))}, nil
		},
	}
}

func (s *Service) mirrorStep(d config.DirArtifact) *steps.Step {
	src := s.pth.Expand(d.Source)
	dst := s.pth.ArtifactPath(d.Name)
	return &steps.Step{
		ID:   d.Name,
		Desc: "mirror " + d.Source,
		Plan: []string{system.MirrorCommand(src, dst).Line()},
		Run: func(ctx context.Context) (steps.Report, error) {
			if !fileops.DirExists(src) {
				return steps.Report{}, errors.Newf(errors.ErrSourceAbsent, "%s does not exist", d.Source)
			}
			return steps.Report{}, s.rsync.Mirror(ctx, src, dst)
		},
	}
}

func (s *Service) writeArtifact(name string, data []byte) error {
	if err := os.WriteFile(s.pth.ArtifactPath(name), data, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrActionFailure, "cannot write %s", name)
	}
	return nil
}

func lineCountNote(noun string) func([]byte) string {
	return func(data []byte) string {
		n := 0
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				n++
			}
		}
		return fmt.Sprintf("%d %s", n, noun)
	}
}
