package pipeline

import (
	"context"
	"errors"

	"github.com/khanhnv2901/stackaudit/internal/infrastructure/toolchain"
)

// fakeResolver resolves only the names it was given.
type fakeResolver struct {
	available map[string]bool
}

func (f *fakeResolver) LookPath(name string) (string, error) {
	if f.available[name] {
		return "/usr/bin/" + name, nil
	}
	return "", errors.New("executable file not found in $PATH")
}

// fakeAuditor scripts the PackageAuditor capability.
type fakeAuditor struct {
	installErr   error
	installed    int
	auditClean   bool
	auditErr     error
	tree         string
	treeErr      error
	upToDate     bool
	outdatedErr  error
	auditedLevel string
}

func (f *fakeAuditor) Install(_ context.Context, _ string) error {
	f.installed++
	return f.installErr
}

func (f *fakeAuditor) Audit(_ context.Context, _ string, level string) (bool, string, error) {
	f.auditedLevel = level
	return f.auditClean, "", f.auditErr
}

func (f *fakeAuditor) ListDependencies(_ context.Context, _ string) (string, error) {
	return f.tree, f.treeErr
}

func (f *fakeAuditor) Outdated(_ context.Context, _ string) (bool, string, error) {
	return f.upToDate, "", f.outdatedErr
}

// fakeScanner scripts the StaticSecurityScanner capability.
type fakeScanner struct {
	name      string
	available bool
	clean     bool
	err       error
	requests  []toolchain.ScanRequest
}

func (f *fakeScanner) Name() string            { return f.name }
func (f *fakeScanner) Available(_ string) bool { return f.available }
func (f *fakeScanner) Scan(_ context.Context, req toolchain.ScanRequest) (bool, string, error) {
	f.requests = append(f.requests, req)
	return f.clean, "", f.err
}

// fakeChecker scripts the VulnerabilityChecker capability.
type fakeChecker struct {
	name      string
	available bool
	clean     bool
	err       error
	requests  []toolchain.ScanRequest
}

func (f *fakeChecker) Name() string            { return f.name }
func (f *fakeChecker) Available(_ string) bool { return f.available }
func (f *fakeChecker) Check(_ context.Context, req toolchain.ScanRequest) (bool, string, error) {
	f.requests = append(f.requests, req)
	return f.clean, "", f.err
}

// fakeHistory scripts the VersionControlHistoryReader capability.
type fakeHistory struct {
	subjects []string
	err      error
}

func (f *fakeHistory) CommitSubjects(_ context.Context, _ string) ([]string, error) {
	return f.subjects, f.err
}

// fakeCommandRunner fails every invocation, for exercising the tool-failure
// downgrade paths in stages that hold concrete tool types.
type fakeCommandRunner struct {
	err error
}

func (f *fakeCommandRunner) Run(_ context.Context, _ toolchain.Command) (toolchain.Result, error) {
	if f.err != nil {
		return toolchain.Result{}, f.err
	}
	return toolchain.Result{}, nil
}
