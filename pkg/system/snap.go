package system

import "context"

// Snap wraps the snap CLI for package listing and installs.
type Snap struct {
	r Runner
}

func NewSnap(r Runner) Snap {
	return Snap{r: r}
}

// List captures the installed snap table (header plus one row per
// snap); ParseSnapTable turns it into names.
func (s Snap) List(ctx context.Context) ([]byte, error) {
	return s.r.Capture(ctx, Command{Name: "snap", Args: []string{"list"}})
}

// Install installs one snap by name.
func (s Snap) Install(ctx context.Context, name string) error {
	return s.r.Run(ctx, Command{Name: "snap", Args: []string{"install", name}, Sudo: true})
}
