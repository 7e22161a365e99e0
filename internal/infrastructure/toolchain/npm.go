package toolchain

import (
	"context"
	"fmt"
	"strings"
)

// PackageAuditor audits a JavaScript dependency tree.
type PackageAuditor interface {
	// Install performs a full dependency installation.
	Install(ctx context.Context, dir string) error
	// Audit runs a vulnerability audit at the given minimum severity level.
	Audit(ctx context.Context, dir, level string) (clean bool, output string, err error)
	// ListDependencies returns the resolved dependency tree as text.
	ListDependencies(ctx context.Context, dir string) (string, error)
	// Outdated lists outdated packages. upToDate is false when any exist.
	Outdated(ctx context.Context, dir string) (upToDate bool, output string, err error)
}

// NPM is the npm-backed PackageAuditor.
type NPM struct {
	Runner CommandRunner
}

func (n *NPM) Install(ctx context.Context, dir string) error {
	res, err := n.Runner.Run(ctx, Command{Name: "npm", Args: []string{"install"}, Dir: dir})
	if err != nil {
		return fmt.Errorf("npm install: %w", err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("npm install exited with code %d: %s", res.ExitCode, firstLine(res.Stderr))
	}
	return nil
}

func (n *NPM) Audit(ctx context.Context, dir, level string) (bool, string, error) {
	res, err := n.Runner.Run(ctx, Command{
		Name: "npm",
		Args: []string{"audit", "--audit-level=" + level},
		Dir:  dir,
	})
	if err != nil {
		return false, "", fmt.Errorf("npm audit: %w", err)
	}
	return res.ExitCode == 0, res.Combined(), nil
}

func (n *NPM) ListDependencies(ctx context.Context, dir string) (string, error) {
	// npm ls exits non-zero for peer-dependency problems but still prints
	// the tree, so the exit code is ignored here.
	res, err := n.Runner.Run(ctx, Command{
		Name: "npm",
		Args: []string{"ls", "--all", "--parseable"},
		Dir:  dir,
	})
	if err != nil {
		return "", fmt.Errorf("npm ls: %w", err)
	}
	return res.Stdout, nil
}

func (n *NPM) Outdated(ctx context.Context, dir string) (bool, string, error) {
	res, err := n.Runner.Run(ctx, Command{Name: "npm", Args: []string{"outdated"}, Dir: dir})
	if err != nil {
		return false, "", fmt.Errorf("npm outdated: %w", err)
	}
	return res.ExitCode == 0, res.Stdout, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
