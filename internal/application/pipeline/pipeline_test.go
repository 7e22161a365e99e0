package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"time"

	"github.com/khanhnv2901/stackaudit/internal/domain/finding"
	"github.com/khanhnv2901/stackaudit/internal/infrastructure/secrets"
	"github.com/khanhnv2901/stackaudit/internal/infrastructure/toolchain"
	sharedErrors "github.com/khanhnv2901/stackaudit/internal/shared/errors"
)

var reportNamePattern = regexp.MustCompile(`^security-audit-report-\d{8}-\d{6}\.md$`)

// newTestSession lays out a project tree under t.TempDir.
func newTestSession(t *testing.T) *Session {
	t.Helper()
	root := t.TempDir()
	frontend := filepath.Join(root, "frontend")
	backend := filepath.Join(root, "backend")
	for _, dir := range []string{frontend, backend} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return &Session{
		ProjectDir:  root,
		FrontendDir: frontend,
		BackendDir:  backend,
		ReportDir:   root,
	}
}

func testStages(session *Session) []Stage {
	return []Stage{
		&DependencyGate{
			Session:  session,
			Resolver: &fakeResolver{available: map[string]bool{"node": true, "npm": true, "python3": true}},
		},
		&FrontendStage{
			Session:  session,
			Auditor:  &fakeAuditor{auditClean: true, upToDate: true},
			Denylist: DefaultDenylist,
		},
		&BackendStage{
			Session: session,
			Env:     &toolchain.PythonEnv{Runner: &fakeCommandRunner{}},
			Scanner: &fakeScanner{name: "bandit", available: false},
			Checker: &fakeChecker{name: "safety", available: false},
			Secrets: secrets.NewScanner(),
		},
		&EnvFileStage{Session: session},
		&VCSStage{Session: session, History: &fakeHistory{}},
		&ReportStage{Session: session},
	}
}

func fixedClock(second int) func() time.Time {
	return func() time.Time {
		return time.Date(2025, 3, 10, 12, 0, second, 0, time.UTC)
	}
}

func TestOrchestrator_FullRunExitsClean(t *testing.T) {
	session := newTestSession(t)
	log := finding.NewLog(nil)

	orchestrator := &Orchestrator{Stages: testStages(session)}
	if err := orchestrator.Run(context.Background(), log); err != nil {
		t.Fatalf("Pipeline returned error: %v", err)
	}

	if !log.IsSealed() {
		t.Error("Log should be sealed after the run")
	}
	if session.ReportPath == "" {
		t.Fatal("Report path not recorded")
	}
	if !reportNamePattern.MatchString(filepath.Base(session.ReportPath)) {
		t.Errorf("Report filename %q does not match pattern", filepath.Base(session.ReportPath))
	}
	if _, err := os.Stat(session.ReportPath); err != nil {
		t.Errorf("Report file missing: %v", err)
	}
}

func TestOrchestrator_GateFailureAborts(t *testing.T) {
	session := newTestSession(t)
	log := finding.NewLog(nil)

	stages := testStages(session)
	stages[0] = &DependencyGate{
		Session:  session,
		Resolver: &fakeResolver{available: map[string]bool{"node": true, "python3": true}},
	}

	orchestrator := &Orchestrator{Stages: stages}
	err := orchestrator.Run(context.Background(), log)
	if !errors.Is(err, sharedErrors.ErrNPMMissing) {
		t.Fatalf("Expected ErrNPMMissing, got %v", err)
	}

	if session.ReportPath != "" {
		t.Error("No report should be written when the gate fails")
	}
	entries, globErr := filepath.Glob(filepath.Join(session.ReportDir, "security-audit-report-*.md"))
	if globErr != nil {
		t.Fatal(globErr)
	}
	if len(entries) != 0 {
		t.Errorf("Found unexpected report files: %v", entries)
	}
}

func TestOrchestrator_PythonFallback(t *testing.T) {
	session := newTestSession(t)
	log := finding.NewLog(nil)

	gate := &DependencyGate{
		Session:  session,
		Resolver: &fakeResolver{available: map[string]bool{"node": true, "npm": true, "python": true}},
	}
	if err := gate.Run(context.Background(), log); err != nil {
		t.Fatalf("Gate failed: %v", err)
	}
	if session.PythonInterpreter != "python" {
		t.Errorf("PythonInterpreter = %q, want python", session.PythonInterpreter)
	}
}

func TestOrchestrator_NoPythonAborts(t *testing.T) {
	session := newTestSession(t)
	gate := &DependencyGate{
		Session:  session,
		Resolver: &fakeResolver{available: map[string]bool{"node": true, "npm": true}},
	}

	err := gate.Run(context.Background(), finding.NewLog(nil))
	if !errors.Is(err, sharedErrors.ErrPythonMissing) {
		t.Errorf("Expected ErrPythonMissing, got %v", err)
	}
}

// Empty frontend/backend directories: tool failures are swallowed, the run
// still completes and the report carries "Not run" for backend scans.
func TestOrchestrator_EmptyProjectStillProducesReport(t *testing.T) {
	session := newTestSession(t)
	log := finding.NewLog(nil)

	stages := testStages(session)
	stages[1] = &FrontendStage{
		Session:  session,
		Auditor:  &fakeAuditor{installErr: errors.New("no package.json"), auditErr: errors.New("no manifest"), outdatedErr: errors.New("no manifest")},
		Denylist: DefaultDenylist,
	}

	orchestrator := &Orchestrator{Stages: stages}
	if err := orchestrator.Run(context.Background(), log); err != nil {
		t.Fatalf("Pipeline should not fail on empty project: %v", err)
	}

	if log.Count(finding.SeverityWarning) == 0 {
		t.Error("Expected warnings from failed tool invocations")
	}

	data, err := os.ReadFile(session.ReportPath)
	if err != nil {
		t.Fatalf("Report missing: %v", err)
	}
	if !regexp.MustCompile(`Bandit static analysis: Not run`).Match(data) {
		t.Error("Report should label bandit as Not run")
	}
	if !regexp.MustCompile(`Safety dependency check: Not run`).Match(data) {
		t.Error("Report should label safety as Not run")
	}
}

// Two consecutive runs must produce two distinct reports when their
// timestamps differ.
func TestOrchestrator_DistinctReportsPerRun(t *testing.T) {
	session := newTestSession(t)

	run := func(clockSecond int) string {
		stages := testStages(session)
		stages[5] = &ReportStage{Session: session, Clock: fixedClock(clockSecond)}
		orchestrator := &Orchestrator{Stages: stages}
		if err := orchestrator.Run(context.Background(), finding.NewLog(nil)); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		return session.ReportPath
	}

	first := run(1)
	second := run(2)

	if first == second {
		t.Errorf("Expected distinct report files, both runs wrote %s", first)
	}
	for _, path := range []string{first, second} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Report %s missing: %v", path, err)
		}
	}
}
