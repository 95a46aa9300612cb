package system

import (
	"context"
	"strings"
)

// Rsync wraps rsync for exact directory mirroring.
type Rsync struct {
	r Runner
}

func NewRsync(r Runner) Rsync {
	return Rsync{r: r}
}

// Mirror makes dst an exact copy of src, deleting anything in dst that
// src no longer has.
func (r Rsync) Mirror(ctx context.Context, src, dst string) error {
	return r.r.Run(ctx, MirrorCommand(src, dst))
}

// MirrorCommand is the exact command Mirror runs, exposed so dry-run
// plans can show it. Both paths get a trailing slash so rsync copies
// contents rather than nesting src inside dst.
func MirrorCommand(src, dst string) Command {
	return Command{
		Name: "rsync",
		Args: []string{"-a", "--delete", withSlash(src), withSlash(dst)},
	}
}

func withSlash(path string) string {
	if strings.HasSuffix(path, "/") {
		return path
	}
	return path + "/"
}
