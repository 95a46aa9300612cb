package config

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/david-TxRxSystems/scripts/pkg/errors"
)

// Snapshot is the artifact set a backup ran with, preserved inside the
// backup root so a restore on a fresh machine replays exactly what was
// captured rather than whatever the local config says.
type Snapshot struct {
	Artifacts Artifacts `toml:"artifacts"`
}

// SaveSnapshot writes the artifact set of cfg to path.
func SaveSnapshot(path string, cfg *Config) error {
	data, err := toml.Marshal(Snapshot{Artifacts: cfg.Artifacts})
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot encode config snapshot")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrActionFailure, "cannot write config snapshot to %s", path)
	}
	return nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot. A missing file
// returns found=false and no error.
func LoadSnapshot(path string) (snap Snapshot, found bool, err error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config snapshot from %s", path)
	}
	if err := toml.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false, errors.Wrapf(err, errors.ErrConfigParse, "config snapshot %s is not valid TOML", path)
	}
	return snap, true, nil
}

// ApplySnapshot substitutes the snapshot's artifact set into cfg.
func (c *Config) ApplySnapshot(snap Snapshot) {
	c.Artifacts = snap.Artifacts
}
