package system

import (
	"context"
	"io"
)

// Dconf wraps the dconf CLI for whole-tree settings dumps and loads.
type Dconf struct {
	r Runner
}

func NewDconf(r Runner) Dconf {
	return Dconf{r: r}
}

// Dump captures the entire settings tree as an opaque keyfile blob.
func (d Dconf) Dump(ctx context.Context) ([]byte, error) {
	return d.r.Capture(ctx, Command{Name: "dconf", Args: []string{"dump", "/"}})
}

// Load replays a previously captured dump over the current settings.
func (d Dconf) Load(ctx context.Context, dump io.Reader) error {
	return d.r.Run(ctx, Command{Name: "dconf", Args: []string{"load", "/"}, Stdin: dump})
}
