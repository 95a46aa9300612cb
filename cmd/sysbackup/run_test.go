package sysbackup_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david-TxRxSystems/scripts/pkg/testutil"
)

// Dry runs plan against the real command tree but must leave the
// filesystem exactly as they found it: no backup root, no run log.

func TestBackupDryRunWritesNothing(t *testing.T) {
	env := testutil.NewEnv(t)
	env.HomeFile(t, ".bashrc", "export EDITOR=vim\n")

	_, out, err := execute(t, "backup", "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, out, "would run: dpkg --get-selections")
	assert.Contains(t, out, "planned")
	assert.Empty(t, testutil.ListDir(t, env.Root))
}

func TestBackupDryRunDoesNotCreateAMissingRoot(t *testing.T) {
	testutil.NewEnv(t)
	root := filepath.Join(t.TempDir(), "unborn")
	t.Setenv("SYSBACKUP_ROOT", root)

	_, _, err := execute(t, "backup", "--dry-run")
	require.NoError(t, err)

	_, statErr := os.Stat(root)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRestoreDryRunPlansWithoutARoot(t *testing.T) {
	testutil.NewEnv(t)
	root := filepath.Join(t.TempDir(), "never-backed-up")
	t.Setenv("SYSBACKUP_ROOT", root)

	_, out, err := execute(t, "restore", "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, out, "would run: sudo apt-get update")
	_, statErr := os.Stat(root)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRestoreRefusesAMissingRoot(t *testing.T) {
	testutil.NewEnv(t)
	root := filepath.Join(t.TempDir(), "never-backed-up")
	t.Setenv("SYSBACKUP_ROOT", root)

	_, _, err := execute(t, "restore")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")

	// The failed run must not have conjured the root into existence.
	_, statErr := os.Stat(root)
	assert.True(t, os.IsNotExist(statErr))
}
