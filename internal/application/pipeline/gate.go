package pipeline

import (
	"context"
	"fmt"

	"github.com/khanhnv2901/stackaudit/internal/domain/finding"
	sharedErrors "github.com/khanhnv2901/stackaudit/internal/shared/errors"
)

const stagePreflight = "preflight"

// DependencyGate verifies the required runtimes are on PATH before any other
// stage runs. It is the only stage allowed to abort the pipeline.
type DependencyGate struct {
	Session  *Session
	Resolver PathResolver
}

func (g *DependencyGate) Name() string { return stagePreflight }

func (g *DependencyGate) Run(_ context.Context, log *finding.Log) error {
	if _, err := g.Resolver.LookPath("node"); err != nil {
		return sharedErrors.ErrNodeMissing
	}
	log.Infof(stagePreflight, "node runtime found")

	if _, err := g.Resolver.LookPath("npm"); err != nil {
		return sharedErrors.ErrNPMMissing
	}
	log.Infof(stagePreflight, "npm found")

	for _, candidate := range []string{"python3", "python"} {
		if _, err := g.Resolver.LookPath(candidate); err == nil {
			g.Session.PythonInterpreter = candidate
			log.Infof(stagePreflight, "python interpreter found (%s)", candidate)
			return nil
		}
	}
	return fmt.Errorf("%w: tried python3, python", sharedErrors.ErrPythonMissing)
}
