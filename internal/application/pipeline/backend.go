package pipeline

import (
	"context"
	"path/filepath"

	"github.com/khanhnv2901/stackaudit/internal/domain/finding"
	"github.com/khanhnv2901/stackaudit/internal/infrastructure/secrets"
	"github.com/khanhnv2901/stackaudit/internal/infrastructure/toolchain"
	"github.com/khanhnv2901/stackaudit/internal/shared/constants"
)

const stageBackend = "backend"

// BackendStage prepares the isolated Python environment, runs the static
// analyzer and the vulnerability checker, and performs the textual secret
// scan. All failures are downgraded to warnings.
type BackendStage struct {
	Session *Session
	Env     *toolchain.PythonEnv
	Scanner toolchain.StaticSecurityScanner
	Checker toolchain.VulnerabilityChecker
	Secrets *secrets.Scanner
}

func (s *BackendStage) Name() string { return stageBackend }

func (s *BackendStage) Run(ctx context.Context, log *finding.Log) error {
	dir := s.Session.BackendDir
	s.Env.Interpreter = s.Session.PythonInterpreter

	binDir := s.prepareEnvironment(ctx, log, dir)
	if binDir != "" {
		s.runScanner(ctx, log, dir, binDir)
		s.runChecker(ctx, log, dir, binDir)
	}

	s.scanSecrets(log, dir)
	return nil
}

func (s *BackendStage) prepareEnvironment(ctx context.Context, log *finding.Log, dir string) string {
	binDir, created, err := s.Env.Ensure(ctx, dir)
	if err != nil {
		log.Warnf(stageBackend, "could not prepare isolated environment: %v", err)
		return ""
	}
	if created {
		log.Infof(stageBackend, "created isolated environment in %s", dir)
		if err := s.Env.InstallRequirements(ctx, dir, binDir); err != nil {
			log.Warnf(stageBackend, "requirements installation failed: %v", err)
		}
	}

	if err := s.Env.InstallSecurityTools(ctx, dir, binDir); err != nil {
		log.Warnf(stageBackend, "security tool installation failed: %v", err)
	}
	return binDir
}

func (s *BackendStage) runScanner(ctx context.Context, log *finding.Log, dir, binDir string) {
	if !s.Scanner.Available(binDir) {
		log.Warnf(stageBackend, "%s not available, skipping static analysis", s.Scanner.Name())
		return
	}

	// First pass writes the machine-readable artifact the report generator
	// looks for, the second mirrors the human-readable console run.
	clean, _, err := s.Scanner.Scan(ctx, toolchain.ScanRequest{
		SourceDir:  dir,
		BinDir:     binDir,
		ReportPath: filepath.Join(dir, constants.BanditReportFile),
	})
	if err != nil {
		log.Warnf(stageBackend, "%s could not run: %v", s.Scanner.Name(), err)
		return
	}
	if _, _, err := s.Scanner.Scan(ctx, toolchain.ScanRequest{SourceDir: dir, BinDir: binDir}); err != nil {
		log.Warnf(stageBackend, "%s console pass could not run: %v", s.Scanner.Name(), err)
	}

	if clean {
		log.Infof(stageBackend, "%s found no issues", s.Scanner.Name())
	} else {
		log.Warnf(stageBackend, "%s reported issues, see %s", s.Scanner.Name(), constants.BanditReportFile)
	}
}

func (s *BackendStage) runChecker(ctx context.Context, log *finding.Log, dir, binDir string) {
	if !s.Checker.Available(binDir) {
		log.Warnf(stageBackend, "%s not available, skipping vulnerability check", s.Checker.Name())
		return
	}

	clean, _, err := s.Checker.Check(ctx, toolchain.ScanRequest{
		SourceDir:  dir,
		BinDir:     binDir,
		ReportPath: filepath.Join(dir, constants.SafetyReportFile),
	})
	if err != nil {
		log.Warnf(stageBackend, "%s could not run: %v", s.Checker.Name(), err)
		return
	}
	if _, _, err := s.Checker.Check(ctx, toolchain.ScanRequest{SourceDir: dir, BinDir: binDir}); err != nil {
		log.Warnf(stageBackend, "%s console pass could not run: %v", s.Checker.Name(), err)
	}

	if clean {
		log.Infof(stageBackend, "%s found no known vulnerabilities", s.Checker.Name())
	} else {
		log.Warnf(stageBackend, "%s reported known vulnerabilities, see %s", s.Checker.Name(), constants.SafetyReportFile)
	}
}

func (s *BackendStage) scanSecrets(log *finding.Log, dir string) {
	matches, err := s.Secrets.Scan(dir)
	if err != nil {
		log.Warnf(stageBackend, "secret scan could not run: %v", err)
		return
	}
	s.Session.SecretScanRan = true

	for _, m := range matches {
		log.Warnf(stageBackend, "possible hardcoded secret at %s:%d", m.Path, m.Line)
	}
	if len(matches) == 0 {
		log.Infof(stageBackend, "no hardcoded secrets detected")
	}
}
