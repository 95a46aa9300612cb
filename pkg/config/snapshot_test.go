package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config-snapshot.toml")

	cfg := Default()
	cfg.Artifacts.Dotfiles = []string{".zshrc", ".gitconfig"}
	cfg.Artifacts.Dirs = []DirArtifact{
		{Name: "ssh", Source: "~/.ssh", Secure: true},
		{Name: "projects", Source: "~/src"},
	}

	require.NoError(t, SaveSnapshot(path, cfg))

	snap, found, err := LoadSnapshot(path)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, cfg.Artifacts, snap.Artifacts)
}

func TestLoadSnapshot_Missing(t *testing.T) {
	_, found, err := LoadSnapshot(filepath.Join(t.TempDir(), "config-snapshot.toml"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoadSnapshot_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config-snapshot.toml")
	require.NoError(t, os.WriteFile(path, []byte("artifacts = ["), 0o644))

	_, _, err := LoadSnapshot(path)
	require.Error(t, err)
}

func TestApplySnapshot(t *testing.T) {
	cfg := Default()
	localDirs := len(cfg.Artifacts.Dirs)
	require.Greater(t, localDirs, 1)

	snap := Snapshot{Artifacts: Artifacts{
		Dotfiles: []string{".bashrc"},
		Dirs:     []DirArtifact{{Name: "ssh", Source: "~/.ssh", Secure: true}},
	}}

	cfg.ApplySnapshot(snap)

	assert.Equal(t, []string{".bashrc"}, cfg.Artifacts.Dotfiles)
	require.Len(t, cfg.Artifacts.Dirs, 1)
	// Tool settings stay local.
	assert.Equal(t, "flathub", cfg.Flatpak.Remote)
	assert.NotEmpty(t, cfg.Tools.Required)
}
