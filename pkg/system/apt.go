package system

import (
	"context"
	"io"
)

// Apt wraps the Debian package tooling: dpkg for the selection table,
// apt-get for index refresh and installs.
type Apt struct {
	r Runner
}

func NewApt(r Runner) Apt {
	return Apt{r: r}
}

// Selections captures the full package selection table
// (dpkg --get-selections).
func (a Apt) Selections(ctx context.Context) ([]byte, error) {
	return a.r.Capture(ctx, Command{Name: "dpkg", Args: []string{"--get-selections"}})
}

// Update refreshes the package indices.
func (a Apt) Update(ctx context.Context) error {
	return a.r.Run(ctx, Command{Name: "apt-get", Args: []string{"update"}, Sudo: true})
}

// SetSelections declares the desired selection table from a previously
// captured dump. Nothing is installed until Apply runs.
func (a Apt) SetSelections(ctx context.Context, selections io.Reader) error {
	return a.r.Run(ctx, Command{Name: "dpkg", Args: []string{"--set-selections"}, Stdin: selections, Sudo: true})
}

// Apply installs whatever the declared selections require. Must run
// after SetSelections; on its own it is a no-op upgrade.
func (a Apt) Apply(ctx context.Context) error {
	return a.r.Run(ctx, Command{Name: "apt-get", Args: []string{"-y", "dselect-upgrade"}, Sudo: true})
}

// Install installs the named packages directly.
func (a Apt) Install(ctx context.Context, packages ...string) error {
	args := append([]string{"install", "-y"}, packages...)
	return a.r.Run(ctx, Command{Name: "apt-get", Args: args, Sudo: true})
}
