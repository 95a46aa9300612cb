// Package config loads sysbackup's layered configuration: embedded
// defaults first, then the user's config file on top. The artifact
// tables drive which files and directories the backup and restore
// orchestrators touch; everything else in a run is built-in behavior.
package config

import (
	"path"
	"strings"
)

// Config is the fully merged configuration for one invocation.
type Config struct {
	Backup    Backup    `koanf:"backup" toml:"backup"`
	Tools     Tools     `koanf:"tools" toml:"tools"`
	Flatpak   Flatpak   `koanf:"flatpak" toml:"flatpak"`
	Artifacts Artifacts `koanf:"artifacts" toml:"artifacts"`
}

// Backup holds backup destination settings.
type Backup struct {
	// Root is the backup root directory. May start with "~".
	Root string `koanf:"root" toml:"root"`
}

// Tools describes the external programs a run depends on.
type Tools struct {
	// Required lists tools that must resolve on PATH before a run.
	Required []string `koanf:"required" toml:"required"`
	// Packages maps a tool to the apt package that provides it when
	// the package is not named after the tool.
	Packages map[string]string `koanf:"packages" toml:"packages"`
}

// Flatpak holds flatpak-specific settings.
type Flatpak struct {
	// Remote is the flatpak remote used for reinstalls.
	Remote string `koanf:"remote" toml:"remote"`
}

// Artifacts describes the file and directory artifacts of a backup.
// Package and settings exports (apt, flatpak, snap, dconf and the
// informational lists) are built in and not configurable.
type Artifacts struct {
	// Dotfiles are home-relative files copied to the top of the root.
	Dotfiles []string `koanf:"dotfiles" toml:"dotfiles"`
	// Dirs are directories mirrored into the root with rsync.
	Dirs []DirArtifact `koanf:"dirs" toml:"dirs"`
}

// DirArtifact is one mirrored directory.
type DirArtifact struct {
	// Name is the directory created under the backup root.
	Name string `koanf:"name" toml:"name"`
	// Source is the live directory, usually under "~".
	Source string `koanf:"source" toml:"source"`
	// Secure directories get owner-only permissions after restore.
	Secure bool `koanf:"secure" toml:"secure"`
}

// PackageFor returns the apt package that provides tool.
func (t Tools) PackageFor(tool string) string {
	if pkg, ok := t.Packages[tool]; ok && pkg != "" {
		return pkg
	}
	return tool
}

// SecureDirs returns the directory artifacts flagged secure.
func (a Artifacts) SecureDirs() []DirArtifact {
	var out []DirArtifact
	for _, d := range a.Dirs {
		if d.Secure {
			out = append(out, d)
		}
	}
	return out
}

// reservedNames are taken inside the backup root or used as built-in
// step ids; artifacts cannot reuse them.
var reservedNames = []string{
	"sysbackup.log", "manifest.yaml", "config-snapshot.toml",
	"apt-selections.list", "flatpak-apps.list", "snap-packages.list",
	"dconf-settings.ini", "pip-packages.list", "npm-packages.list",
	"user-services.list",
	"backup-root", "dotfiles",
	"apt-selections", "flatpak-apps", "snap-packages", "dconf-settings",
	"pip-packages", "npm-packages", "user-services",
	"apt-update", "apt-declare", "apt-apply",
}

// Validate rejects artifact entries that would escape the backup root
// or collide with the run's own files and step ids. Dotfiles and
// directories share the top of the backup root, so names are checked
// across both lists.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Artifacts.Dirs)+len(c.Artifacts.Dotfiles))
	for _, d := range c.Artifacts.Dirs {
		if err := checkArtifactName(d.Name); err != nil {
			return err
		}
		if d.Source == "" {
			return newInvalid("artifact %q has no source", d.Name)
		}
		if seen[d.Name] {
			return newInvalid("artifact %q is declared twice", d.Name)
		}
		seen[d.Name] = true
	}
	for _, f := range c.Artifacts.Dotfiles {
		if err := checkArtifactName(f); err != nil {
			return err
		}
		if seen[f] {
			return newInvalid("artifact %q is declared twice", f)
		}
		seen[f] = true
	}
	return nil
}

func checkArtifactName(name string) error {
	if name == "" {
		return newInvalid("artifact with empty name")
	}
	if strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return newInvalid("artifact name %q must not contain path separators", name)
	}
	if name != path.Clean(name) || name == "." || name == ".." {
		return newInvalid("artifact name %q is not a plain file name", name)
	}
	for _, reserved := range reservedNames {
		if name == reserved {
			return newInvalid("artifact name %q is reserved", name)
		}
	}
	return nil
}
