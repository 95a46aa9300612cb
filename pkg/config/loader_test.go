package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "~/system-backup", cfg.Backup.Root)
	assert.Equal(t, []string{"rsync", "dconf", "flatpak", "pip3", "npm"}, cfg.Tools.Required)
	assert.Equal(t, "flathub", cfg.Flatpak.Remote)
	assert.Contains(t, cfg.Artifacts.Dotfiles, ".bashrc")
	assert.Contains(t, cfg.Artifacts.Dotfiles, ".gitconfig")

	names := make([]string, 0, len(cfg.Artifacts.Dirs))
	for _, d := range cfg.Artifacts.Dirs {
		names = append(names, d.Name)
	}
	assert.Contains(t, names, "ssh")
	assert.Contains(t, names, "gnome-extensions")
	assert.Contains(t, names, "wallpapers")
}

func TestLoad_MissingUserFileIsFine(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope", "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, "~/system-backup", cfg.Backup.Root)
}

func TestLoad_UserFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[backup]
root = "/mnt/backup"

[artifacts]
dotfiles = [".zshrc"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/mnt/backup", cfg.Backup.Root)
	assert.Equal(t, []string{".zshrc"}, cfg.Artifacts.Dotfiles)
	// Untouched sections keep their defaults.
	assert.Equal(t, "flathub", cfg.Flatpak.Remote)
	assert.NotEmpty(t, cfg.Artifacts.Dirs)
}

func TestLoad_UserDirListReplacesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[artifacts]
dotfiles = [".bashrc"]

[[artifacts.dirs]]
name = "projects"
source = "~/src"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Artifacts.Dirs, 1)
	assert.Equal(t, "projects", cfg.Artifacts.Dirs[0].Name)
	assert.Equal(t, "~/src", cfg.Artifacts.Dirs[0].Source)
	assert.False(t, cfg.Artifacts.Dirs[0].Secure)
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("backup = {"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name: "empty dir name",
			mutate: func(c *Config) {
				c.Artifacts.Dirs = append(c.Artifacts.Dirs, DirArtifact{Source: "~/x"})
			},
			wantErr: "empty name",
		},
		{
			name: "separator in name",
			mutate: func(c *Config) {
				c.Artifacts.Dirs = append(c.Artifacts.Dirs, DirArtifact{Name: "a/b", Source: "~/x"})
			},
			wantErr: "path separators",
		},
		{
			name: "missing source",
			mutate: func(c *Config) {
				c.Artifacts.Dirs = append(c.Artifacts.Dirs, DirArtifact{Name: "extra"})
			},
			wantErr: "no source",
		},
		{
			name: "duplicate name",
			mutate: func(c *Config) {
				c.Artifacts.Dirs = append(c.Artifacts.Dirs,
					DirArtifact{Name: "dup", Source: "~/a"},
					DirArtifact{Name: "dup", Source: "~/b"})
			},
			wantErr: "twice",
		},
		{
			name: "reserved name",
			mutate: func(c *Config) {
				c.Artifacts.Dirs = append(c.Artifacts.Dirs, DirArtifact{Name: "manifest.yaml", Source: "~/x"})
			},
			wantErr: "reserved",
		},
		{
			name: "dot dot dotfile",
			mutate: func(c *Config) {
				c.Artifacts.Dotfiles = append(c.Artifacts.Dotfiles, "..")
			},
			wantErr: "not a plain file name",
		},
		{
			name: "step id as dir name",
			mutate: func(c *Config) {
				c.Artifacts.Dirs = append(c.Artifacts.Dirs, DirArtifact{Name: "dotfiles", Source: "~/x"})
			},
			wantErr: "reserved",
		},
		{
			name: "list artifact as dir name",
			mutate: func(c *Config) {
				c.Artifacts.Dirs = append(c.Artifacts.Dirs, DirArtifact{Name: "apt-selections.list", Source: "~/x"})
			},
			wantErr: "reserved",
		},
		{
			name: "dotfile colliding with dir",
			mutate: func(c *Config) {
				c.Artifacts.Dirs = append(c.Artifacts.Dirs, DirArtifact{Name: ".gitconfig.d", Source: "~/x"})
				c.Artifacts.Dotfiles = append(c.Artifacts.Dotfiles, ".gitconfig.d")
			},
			wantErr: "twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestToolsPackageFor(t *testing.T) {
	tools := Default().Tools

	assert.Equal(t, "python3-pip", tools.PackageFor("pip3"))
	assert.Equal(t, "dconf-cli", tools.PackageFor("dconf"))
	assert.Equal(t, "rsync", tools.PackageFor("rsync"))
	assert.Equal(t, "npm", tools.PackageFor("npm"))
}

func TestSecureDirs(t *testing.T) {
	secure := Default().Artifacts.SecureDirs()

	names := make([]string, 0, len(secure))
	for _, d := range secure {
		require.True(t, d.Secure)
		names = append(names, d.Name)
	}
	assert.ElementsMatch(t, []string{"ssh", "gnupg", "keyrings"}, names)
}
