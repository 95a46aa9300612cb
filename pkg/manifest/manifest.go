// Package manifest records what a backup run produced: a run id, when
// and where it ran, and the outcome of every step. The manifest lives
// inside the backup root and is read back by restore to log the
// provenance of the data it is about to replay.
package manifest

import (
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/david-TxRxSystems/scripts/pkg/errors"
	"github.com/david-TxRxSystems/scripts/pkg/steps"
)

// Manifest describes one completed backup run.
type Manifest struct {
	RunID     string    `yaml:"run_id"`
	CreatedAt time.Time `yaml:"created_at"`
	Hostname  string    `yaml:"hostname"`
	Version   string    `yaml:"version"`
	Outcomes  []Outcome `yaml:"outcomes"`
}

// Outcome is the recorded result of one step.
type Outcome struct {
	Step   string `yaml:"step"`
	Status string `yaml:"status"`
	Note   string `yaml:"note,omitempty"`
}

// New builds a manifest for the current run from a step summary.
func New(version string, summary *steps.Summary) *Manifest {
	hostname, _ := os.Hostname()

	m := &Manifest{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Hostname:  hostname,
		Version:   version,
	}
	for _, r := range summary.Results {
		out := Outcome{Step: r.Step.ID, Status: string(r.Status)}
		switch {
		case r.Reason != "":
			out.Note = r.Reason
		case r.Report.Message != "":
			out.Note = r.Report.Message
		}
		m.Outcomes = append(m.Outcomes, out)
	}
	return m
}

// Age returns how long ago the manifest was written.
func (m *Manifest) Age() time.Duration {
	return time.Since(m.CreatedAt)
}

// Write saves the manifest to path, replacing any previous one.
func Write(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot encode manifest")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrActionFailure, "cannot write manifest to %s", path)
	}
	return nil
}

// Read loads the manifest at path. A missing file returns found=false
// and no error; restore treats that as "backup predates manifests" and
// carries on.
func Read(path string) (m *Manifest, found bool, err error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, errors.ErrActionFailure, "cannot read manifest from %s", path)
	}

	m = &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, false, errors.Wrapf(err, errors.ErrActionFailure, "manifest %s is not valid YAML", path)
	}
	return m, true, nil
}
