// Package deps checks that the external tools a run shells out to are
// present, and installs the missing ones with apt before any capture or
// apply work starts.
package deps

import (
	"context"

	"github.com/david-TxRxSystems/scripts/pkg/config"
	"github.com/david-TxRxSystems/scripts/pkg/errors"
	"github.com/david-TxRxSystems/scripts/pkg/logging"
	"github.com/david-TxRxSystems/scripts/pkg/system"
)

var log = logging.GetLogger("deps")

// Checker verifies and installs required tools.
type Checker struct {
	r     system.Runner
	apt   system.Apt
	tools config.Tools
}

func New(r system.Runner, tools config.Tools) *Checker {
	return &Checker{
		r:     r,
		apt:   system.NewApt(r),
		tools: tools,
	}
}

// Missing returns the required tools that do not resolve on PATH, in
// the configured order.
func (c *Checker) Missing() []string {
	var missing []string
	for _, tool := range c.tools.Required {
		if _, err := c.r.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	return missing
}

// Ensure installs every missing required tool and returns the names of
// the tools it installed. With everything already present it does
// nothing, so running it repeatedly is safe. A tool that cannot be
// installed aborts with MISSING_DEPENDENCY; nothing else runs after
// that.
func (c *Checker) Ensure(ctx context.Context) ([]string, error) {
	missing := c.Missing()
	if len(missing) == 0 {
		log.Debug().Msg("all required tools present")
		return nil, nil
	}

	installed := make([]string, 0, len(missing))
	for _, tool := range missing {
		pkg := c.tools.PackageFor(tool)
		log.Info().Str("tool", tool).Str("package", pkg).Msg("installing missing tool")

		if err := c.apt.Install(ctx, pkg); err != nil {
			if errors.IsErrorCode(err, errors.ErrInterrupted) {
				return installed, err
			}
			return installed, errors.Wrapf(err, errors.ErrMissingDependency,
				"required tool %s is not available and installing package %s failed", tool, pkg)
		}
		installed = append(installed, tool)
	}
	return installed, nil
}
