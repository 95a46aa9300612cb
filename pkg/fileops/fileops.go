// Package fileops covers the few filesystem operations the
// orchestrators need beyond what rsync provides: existence checks,
// single-file copies for dotfiles, and permission tightening for
// restored secure directories.
package fileops

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Exists reports whether path exists, regardless of type.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// EnsureDir creates path and any missing parents.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// CopyFile copies src to dst, preserving the source file mode. An
// existing dst is replaced.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = source.Close() }()

	dest, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = dest.Close() }()

	if _, err := io.Copy(dest, source); err != nil {
		return err
	}

	return os.Chmod(dst, info.Mode().Perm())
}

// Tighten walks root and removes all group and other permission bits:
// directories become 0700, regular files 0600. Used after restoring
// directories that hold key material.
func Tighten(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.Chmod(path, 0o700)
		}
		if d.Type().IsRegular() {
			return os.Chmod(path, 0o600)
		}
		return nil
	})
}
