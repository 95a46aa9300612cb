// Package restore builds the apply run: the ordered steps that replay
// a backup root onto the live system, package selections first, then
// desktop settings and files.
package restore

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/david-TxRxSystems/scripts/pkg/config"
	"github.com/david-TxRxSystems/scripts/pkg/errors"
	"github.com/david-TxRxSystems/scripts/pkg/fileops"
	"github.com/david-TxRxSystems/scripts/pkg/logging"
	"github.com/david-TxRxSystems/scripts/pkg/manifest"
	"github.com/david-TxRxSystems/scripts/pkg/paths"
	"github.com/david-TxRxSystems/scripts/pkg/steps"
	"github.com/david-TxRxSystems/scripts/pkg/system"
)

var log = logging.GetLogger("restore")

// Service builds the apply steps for one restore run.
type Service struct {
	cfg     *config.Config
	pth     *paths.Paths
	apt     system.Apt
	flatpak system.Flatpak
	snap    system.Snap
	dconf   system.Dconf
	rsync   system.Rsync
}

// New creates a restore service running external commands through r.
func New(cfg *config.Config, pth *paths.Paths, r system.Runner) *Service {
	return &Service{
		cfg:     cfg,
		pth:     pth,
		apt:     system.NewApt(r),
		flatpak: system.NewFlatpak(r),
		snap:    system.NewSnap(r),
		dconf:   system.NewDconf(r),
		rsync:   system.NewRsync(r),
	}
}

// Prepare checks the backup root and loads its provenance. The root
// must already exist; restore never creates it. When the root carries a
// config snapshot, its artifact set replaces the local one so the run
// replays exactly what was captured. Local tool settings stay local.
func (s *Service) Prepare() error {
	root := s.pth.BackupRoot()
	if !fileops.DirExists(root) {
		return errors.Newf(errors.ErrRootNotFound,
			"backup root %s does not exist; run a backup first or point --root at one", root)
	}

	m, found, err := manifest.Read(s.pth.ManifestPath())
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("Manifest unreadable, continuing without provenance")
	case found:
		log.Info().
			Str("run_id", m.RunID).
			Str("host", m.Hostname).
			Str("version", m.Version).
			Str("age", m.Age().Round(time.Second).String()).
			Msg("Restoring from backup")
	default:
		log.Warn().Str("root", root).Msg("Backup root has no manifest")
	}

	snap, found, err := config.LoadSnapshot(s.pth.SnapshotPath())
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("Config snapshot unreadable, using local artifact config")
	case found:
		s.cfg.ApplySnapshot(snap)
		log.Debug().Msg("Using artifact set from config snapshot")
	}
	return nil
}

// Steps returns the ordered apply steps. Package state is declared and
// applied before desktop settings so dconf schemas exist when settings
// load; file and directory restores are independent of each other.
func (s *Service) Steps() []*steps.Step {
	list := []*steps.Step{
		s.aptUpdateStep(),
		s.aptDeclareStep(),
		s.aptApplyStep(),
		s.flatpakStep(),
		s.snapStep(),
		s.dconfStep(),
		s.dotfilesStep(),
	}
	for _, d := range s.cfg.Artifacts.Dirs {
		list = append(list, s.dirStep(d))
	}
	return list
}

func (s *Service) aptUpdateStep() *steps.Step {
	return &steps.Step{
		ID:   "apt-update",
		Desc: "refresh apt package indices",
		Plan: []string{"sudo apt-get update"},
		Run: func(ctx context.Context) (steps.Report, error) {
			return steps.Report{}, s.apt.Update(ctx)
		},
	}
}

func (s *Service) aptDeclareStep() *steps.Step {
	return &steps.Step{
		ID:    "apt-declare",
		Desc:  "declare apt package selections",
		Needs: []string{"apt-update"},
		Plan:  []string{"sudo dpkg --set-selections < " + paths.AptSelectionsFile},
		Run: func(ctx context.Context) (steps.Report, error) {
			data, err := s.readArtifact(paths.AptSelectionsFile)
			if err != nil {
				return steps.Report{}, err
			}
			if err := s.apt.SetSelections(ctx, bytes.NewReader(data)); err != nil {
				return steps.Report{}, err
			}
			n := len(system.ParseSelections(data))
			return steps.Report{Message: fmt.Sprintf("%d selections", n)}, nil
		},
	}
}

func (s *Service) aptApplyStep() *steps.Step {
	return &steps.Step{
		ID:    "apt-apply",
		Desc:  "install declared apt packages",
		Needs: []string{"apt-declare"},
		Plan:  []string{"sudo apt-get -y dselect-upgrade"},
		Run: func(ctx context.Context) (steps.Report, error) {
			return steps.Report{}, s.apt.Apply(ctx)
		},
	}
}

// flatpakStep reinstalls applications one at a time. A failing id is
// recorded and the loop moves on; only interruption stops it.
func (s *Service) flatpakStep() *steps.Step {
	remote := s.cfg.Flatpak.Remote
	return &steps.Step{
		ID:   "flatpak-apps",
		Desc: "reinstall flatpak applications",
		Plan: []string{fmt.Sprintf("flatpak install -y --noninteractive %s (each app in %s)", remote, paths.FlatpakAppsFile)},
		Run: func(ctx context.Context) (steps.Report, error) {
			data, err := s.readArtifact(paths.FlatpakAppsFile)
			if err != nil {
				return steps.Report{}, err
			}
			apps := system.ParseIdentifiers(data)
			report := steps.Report{Message: fmt.Sprintf("%d apps", len(apps))}
			for _, app := range apps {
				if err := s.flatpak.Install(ctx, remote, app); err != nil {
					if errors.IsErrorCode(err, errors.ErrInterrupted) {
						return report, err
					}
					log.Warn().Str("app", app).Err(err).Msg("Flatpak install failed")
					report.FailedItems = append(report.FailedItems, app)
				}
			}
			return report, nil
		},
	}
}

// snapStep mirrors flatpakStep for snaps.
func (s *Service) snapStep() *steps.Step {
	return &steps.Step{
		ID:   "snap-packages",
		Desc: "reinstall snap packages",
		Plan: []string{fmt.Sprintf("sudo snap install (each snap in %s)", paths.SnapPackagesFile)},
		Run: func(ctx context.Context) (steps.Report, error) {
			data, err := s.readArtifact(paths.SnapPackagesFile)
			if err != nil {
				return steps.Report{}, err
			}
			names := system.ParseIdentifiers(data)
			report := steps.Report{Message: fmt.Sprintf("%d snaps", len(names))}
			for _, name := range names {
				if err := s.snap.Install(ctx, name); err != nil {
					if errors.IsErrorCode(err, errors.ErrInterrupted) {
						return report, err
					}
					log.Warn().Str("snap", name).Err(err).Msg("Snap install failed")
					report.FailedItems = append(report.FailedItems, name)
				}
			}
			return report, nil
		},
	}
}

// dconfStep needs apt-apply: loading settings before the owning
// applications are installed would drop keys without schemas.
func (s *Service) dconfStep() *steps.Step {
	return &steps.Step{
		ID:    "dconf-settings",
		Desc:  "load desktop settings",
		Needs: []string{"apt-apply"},
		Plan:  []string{"dconf load / < " + paths.DconfSettingsFile},
		Run: func(ctx context.Context) (steps.Report, error) {
			data, err := s.readArtifact(paths.DconfSettingsFile)
			if err != nil {
				return steps.Report{}, err
			}
			return steps.Report{}, s.dconf.Load(ctx, bytes.NewReader(data))
		},
	}
}

func (s *Service) dotfilesStep() *steps.Step {
	files := s.cfg.Artifacts.Dotfiles
	plan := make([]string, 0, len(files))
	for _, name := range files {
		plan = append(plan, fmt.Sprintf("cp %s ~/", s.pth.ArtifactPath(name)))
	}
	return &steps.Step{
		ID:   "dotfiles",
		Desc: "restore dotfiles",
		Plan: plan,
		Run: func(ctx context.Context) (steps.Report, error) {
			copied := 0
			for _, name := range files {
				src := s.pth.ArtifactPath(name)
				if !fileops.Exists(src) {
					log.Debug().Str("file", name).Msg("Dotfile not in backup, skipping")
					continue
				}
				if err := fileops.CopyFile(src, filepath.Join(s.pth.Home(), name)); err != nil {
					return steps.Report{}, errors.Wrapf(err, errors.ErrFileCopy, "cannot restore %s", name)
				}
				copied++
			}
			if copied == 0 {
				return steps.Report{}, errors.Newf(errors.ErrArtifactMissing, "no captured dotfiles in the backup root")
			}
			return steps.Report{Message: fmt.Sprintf("%d of %d files", copied, len(files))}, nil
		},
	}
}

func (s *Service) dirStep(d config.DirArtifact) *steps.Step {
	src := s.pth.ArtifactPath(d.Name)
	dst := s.pth.Expand(d.Source)
	plan := []string{system.MirrorCommand(src, dst).Line()}
	if d.Secure {
		plan = append(plan, "chmod -R go-rwx "+dst)
	}
	return &steps.Step{
		ID:   d.Name,
		Desc: "restore " + d.Source,
		Plan: plan,
		Run: func(ctx context.Context) (steps.Report, error) {
			if !fileops.DirExists(src) {
				return steps.Report{}, errors.Newf(errors.ErrArtifactMissing, "%s is not in the backup root", d.Name)
			}
			if err := fileops.EnsureDir(dst); err != nil {
				return steps.Report{}, errors.Wrapf(err, errors.ErrActionFailure, "cannot create %s", dst)
			}
			if err := s.rsync.Mirror(ctx, src, dst); err != nil {
				return steps.Report{}, err
			}
			if !d.Secure {
				return steps.Report{}, nil
			}
			if err := fileops.Tighten(dst); err != nil {
				return steps.Report{}, errors.Wrapf(err, errors.ErrPermissions, "cannot tighten permissions on %s", dst)
			}
			return steps.Report{Message: "permissions tightened"}, nil
		},
	}
}

func (s *Service) readArtifact(name string) ([]byte, error) {
	data, err := os.ReadFile(s.pth.ArtifactPath(name))
	if os.IsNotExist(err) {
		return nil, errors.Newf(errors.ErrArtifactMissing, "%s is not in the backup root", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrActionFailure, "cannot read %s", name)
	}
	return data, nil
}
