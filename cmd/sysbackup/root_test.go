package sysbackup_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david-TxRxSystems/scripts/cmd/sysbackup"
	"github.com/david-TxRxSystems/scripts/pkg/errors"
	"github.com/david-TxRxSystems/scripts/pkg/testutil"
)

// execute runs the command tree with args and captures its output.
func execute(t *testing.T, args ...string) (*cobra.Command, string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := sysbackup.NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return cmd, out.String(), err
}

func TestUnknownCommandFails(t *testing.T) {
	env := testutil.NewEnv(t)

	_, _, err := execute(t, "foo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")

	// A usage error performs no side effects.
	assert.Empty(t, testutil.ListDir(t, env.Root))
}

func TestNoCommandFails(t *testing.T) {
	testutil.NewEnv(t)

	_, out, err := execute(t)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Contains(t, out, "backup")
	assert.Contains(t, out, "restore")
}

func TestDryRunFlagAloneIsAccepted(t *testing.T) {
	env := testutil.NewEnv(t)

	_, out, err := execute(t, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Empty(t, testutil.ListDir(t, env.Root))
}

func TestVersionCommand(t *testing.T) {
	_, out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sysbackup version")
}

func TestGenconfigPrintsCommentedDefaults(t *testing.T) {
	_, out, err := execute(t, "genconfig")
	require.NoError(t, err)

	assert.Contains(t, out, "[backup]")
	assert.Contains(t, out, `# root = "~/system-backup"`)
	assert.Contains(t, out, "# [[artifacts.dirs]]")

	// Nothing is left uncommented: loading the output must change no
	// value, so no line may be a bare assignment or array header.
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		assert.True(t, strings.HasPrefix(trimmed, "["),
			"uncommented assignment in genconfig output: %q", line)
		assert.False(t, strings.HasPrefix(trimmed, "[["),
			"uncommented array header in genconfig output: %q", line)
	}
}

func TestHelpListsTopics(t *testing.T) {
	_, out, err := execute(t, "help", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "layout")
	assert.Contains(t, out, "restore-order")
	assert.Contains(t, out, "artifacts")
}
