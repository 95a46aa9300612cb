// Package paths resolves the filesystem locations sysbackup reads and
// writes: the backup root, the artifacts inside it, and the user
// configuration directory.
//
// The backup root is resolved with a strict precedence:
//
//  1. The --root flag (explicit argument)
//  2. The SYSBACKUP_ROOT environment variable
//  3. The root set in the user's config file
//  4. The built-in default, ~/system-backup
//
// All other locations derive from the resolved root.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/david-TxRxSystems/scripts/pkg/errors"
)

const (
	// EnvBackupRoot overrides the backup root directory.
	EnvBackupRoot = "SYSBACKUP_ROOT"

	// DefaultBackupRoot is used when nothing else sets a root.
	DefaultBackupRoot = "~/system-backup"

	// LogFileName is the run log kept inside the backup root.
	LogFileName = "sysbackup.log"

	// ManifestFileName records the outcome of the last runs.
	ManifestFileName = "manifest.yaml"

	// SnapshotFileName preserves the artifact set a backup ran with.
	SnapshotFileName = "config-snapshot.toml"

	// ConfigFileName is the user configuration file name.
	ConfigFileName = "config.toml"

	appDirName = "sysbackup"
)

// Fixed artifact file names inside the backup root. Directory
// artifacts are configuration data; these list exports are not.
const (
	AptSelectionsFile = "apt-selections.list"
	FlatpakAppsFile   = "flatpak-apps.list"
	SnapPackagesFile  = "snap-packages.list"
	DconfSettingsFile = "dconf-settings.ini"
	PipPackagesFile   = "pip-packages.list"
	NpmPackagesFile   = "npm-packages.list"
	UserServicesFile  = "user-services.list"
)

// Paths holds the resolved locations for one invocation. Construct it
// with New; the zero value is not usable.
type Paths struct {
	home         string
	backupRoot   string
	usedFallback bool
}

// New resolves the backup root. explicit is the --root flag value and
// configured the root from the config file; either may be empty.
func New(explicit, configured string) (*Paths, error) {
	home, err := homeDir()
	if err != nil {
		return nil, err
	}

	root := explicit
	fallback := false
	if root == "" {
		root = os.Getenv(EnvBackupRoot)
	}
	if root == "" {
		root = configured
	}
	if root == "" {
		root = DefaultBackupRoot
		fallback = true
	}

	root, err = expandWithHome(root, home)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(root) {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve backup root %q", root)
		}
		root = abs
	}

	return &Paths{
		home:         home,
		backupRoot:   filepath.Clean(root),
		usedFallback: fallback,
	}, nil
}

// Home returns the current user's home directory.
func (p *Paths) Home() string {
	return p.home
}

// BackupRoot returns the resolved backup root directory.
func (p *Paths) BackupRoot() string {
	return p.backupRoot
}

// UsedFallback reports whether the root came from the built-in default
// rather than a flag, environment variable, or config file.
func (p *Paths) UsedFallback() bool {
	return p.usedFallback
}

// ArtifactPath returns the absolute path of an artifact inside the
// backup root. rel is slash-separated relative to the root.
func (p *Paths) ArtifactPath(rel string) string {
	return filepath.Join(p.backupRoot, filepath.FromSlash(rel))
}

// LogFilePath returns the run log location inside the backup root.
func (p *Paths) LogFilePath() string {
	return filepath.Join(p.backupRoot, LogFileName)
}

// ManifestPath returns the manifest location inside the backup root.
func (p *Paths) ManifestPath() string {
	return filepath.Join(p.backupRoot, ManifestFileName)
}

// SnapshotPath returns the config snapshot location inside the backup
// root.
func (p *Paths) SnapshotPath() string {
	return filepath.Join(p.backupRoot, SnapshotFileName)
}

// ConfigDir returns the sysbackup configuration directory under the
// XDG config home. A package function because the config file has to
// be located before a Paths can be built from it.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appDirName)
}

// UserConfigFile returns the path of the user configuration file,
// whether or not it exists.
func UserConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// Expand resolves a path from the config file or command line: "~" and
// "~/" expand to the home directory, environment variables are
// expanded, and the result is cleaned. Relative paths are left
// relative.
func (p *Paths) Expand(path string) string {
	out, err := expandWithHome(path, p.home)
	if err != nil {
		return filepath.Clean(os.ExpandEnv(path))
	}
	return out
}

func expandWithHome(path, home string) (string, error) {
	switch {
	case path == "~":
		return home, nil
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:]), nil
	case strings.HasPrefix(path, "~"):
		// ~otheruser is not supported.
		return "", errors.Newf(errors.ErrInvalidInput, "cannot expand %q: user-qualified home paths are not supported", path)
	default:
		return filepath.Clean(os.ExpandEnv(path)), nil
	}
}

func homeDir() (string, error) {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home, nil
	}
	if home := os.Getenv("HOME"); home != "" {
		return home, nil
	}
	return "", errors.New(errors.ErrInternal, "cannot determine home directory")
}
