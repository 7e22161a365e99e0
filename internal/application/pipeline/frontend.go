package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/khanhnv2901/stackaudit/internal/domain/finding"
	"github.com/khanhnv2901/stackaudit/internal/infrastructure/toolchain"
)

const stageFrontend = "frontend"

// DefaultDenylist names package substrings considered unsafe: dynamic
// evaluation and serialization libraries.
var DefaultDenylist = []string{"eval", "serialize"}

// auditLevel is the minimum severity threshold for the npm vulnerability audit.
const auditLevel = "moderate"

// FrontendStage audits the JavaScript dependency tree. Every sub-step is
// best-effort: tool failures become warnings and the stage never fails the run.
type FrontendStage struct {
	Session  *Session
	Auditor  toolchain.PackageAuditor
	Denylist []string
}

func (s *FrontendStage) Name() string { return stageFrontend }

func (s *FrontendStage) Run(ctx context.Context, log *finding.Log) error {
	dir := s.Session.FrontendDir

	if _, err := os.Stat(filepath.Join(dir, "node_modules")); err != nil && !s.Session.SkipInstall {
		log.Infof(stageFrontend, "node_modules missing, installing dependencies")
		if err := s.Auditor.Install(ctx, dir); err != nil {
			log.Warnf(stageFrontend, "dependency installation failed: %v", err)
		}
	}

	clean, _, err := s.Auditor.Audit(ctx, dir, auditLevel)
	switch {
	case err != nil:
		log.Warnf(stageFrontend, "npm audit could not run: %v", err)
	case !clean:
		log.Warnf(stageFrontend, "npm audit reported vulnerabilities at %s severity or above", auditLevel)
	default:
		log.Infof(stageFrontend, "npm audit found no vulnerabilities at %s severity or above", auditLevel)
	}

	s.scanDenylist(ctx, log, dir)

	upToDate, _, err := s.Auditor.Outdated(ctx, dir)
	switch {
	case err != nil:
		log.Warnf(stageFrontend, "could not list outdated packages: %v", err)
	case !upToDate:
		log.Warnf(stageFrontend, "outdated packages detected, consider upgrading")
	}

	s.Session.FrontendAudited = true
	return nil
}

func (s *FrontendStage) scanDenylist(ctx context.Context, log *finding.Log, dir string) {
	tree, err := s.Auditor.ListDependencies(ctx, dir)
	if err != nil {
		log.Warnf(stageFrontend, "could not list dependency tree: %v", err)
		return
	}

	seen := make(map[string]struct{})
	for _, line := range strings.Split(tree, "\n") {
		lower := strings.ToLower(line)
		for _, unsafe := range s.Denylist {
			if strings.Contains(lower, unsafe) {
				if _, dup := seen[unsafe]; !dup {
					seen[unsafe] = struct{}{}
					log.Warnf(stageFrontend, "dependency tree contains potentially unsafe package matching %q", unsafe)
				}
			}
		}
	}
}
