package testutil

import (
	"testing"
)

// Env is an isolated backup environment: a fake home directory and a
// backup root, both temporary, with HOME and SYSBACKUP_ROOT pointing at
// them for the duration of the test.
type Env struct {
	Home string
	Root string
}

// NewEnv builds an isolated environment. Cleanup is automatic.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	env := &Env{
		Home: t.TempDir(),
		Root: t.TempDir(),
	}
	t.Setenv("HOME", env.Home)
	t.Setenv("SYSBACKUP_ROOT", env.Root)
	return env
}

// HomeFile creates a file inside the fake home.
func (e *Env) HomeFile(t *testing.T, name, content string) string {
	t.Helper()
	return CreateFile(t, e.Home, name, content)
}

// HomeDir creates a directory inside the fake home.
func (e *Env) HomeDir(t *testing.T, name string) string {
	t.Helper()
	return CreateDir(t, e.Home, name)
}

// RootFile creates an artifact inside the backup root.
func (e *Env) RootFile(t *testing.T, name, content string) string {
	t.Helper()
	return CreateFile(t, e.Root, name, content)
}
