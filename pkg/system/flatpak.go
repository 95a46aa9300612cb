package system

import "context"

// Flatpak wraps the flatpak CLI for application listing and installs.
type Flatpak struct {
	r Runner
}

func NewFlatpak(r Runner) Flatpak {
	return Flatpak{r: r}
}

// Applications captures the installed application ids, one per line.
func (f Flatpak) Applications(ctx context.Context) ([]byte, error) {
	return f.r.Capture(ctx, Command{Name: "flatpak", Args: []string{"list", "--app", "--columns=application"}})
}

// Install installs one application id from remote.
func (f Flatpak) Install(ctx context.Context, remote, id string) error {
	return f.r.Run(ctx, Command{Name: "flatpak", Args: []string{"install", "-y", "--noninteractive", remote, id}})
}
