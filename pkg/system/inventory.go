package system

import "context"

// Inventory captures the informational lists: language-ecosystem
// packages and enabled user services. These are recorded for reference
// and never replayed by restore.
type Inventory struct {
	r Runner
}

func NewInventory(r Runner) Inventory {
	return Inventory{r: r}
}

// PipPackages lists user-installed Python packages in freeze format.
func (i Inventory) PipPackages(ctx context.Context) ([]byte, error) {
	return i.r.Capture(ctx, Command{Name: "pip3", Args: []string{"list", "--user", "--format=freeze"}})
}

// NpmPackages lists globally installed npm packages.
func (i Inventory) NpmPackages(ctx context.Context) ([]byte, error) {
	return i.r.Capture(ctx, Command{Name: "npm", Args: []string{"list", "-g", "--depth=0"}})
}

// UserServices lists enabled systemd user units.
func (i Inventory) UserServices(ctx context.Context) ([]byte, error) {
	return i.r.Capture(ctx, Command{Name: "systemctl", Args: []string{"--user", "list-unit-files", "--state=enabled"}})
}
