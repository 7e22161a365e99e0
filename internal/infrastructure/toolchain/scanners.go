package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/khanhnv2901/stackaudit/internal/shared/constants"
)

// ScanRequest carries the per-invocation inputs for backend scanners.
// ReportPath empty means the human-readable console pass.
type ScanRequest struct {
	SourceDir  string
	BinDir     string
	ReportPath string
}

// StaticSecurityScanner runs a source-level security scan over a tree.
type StaticSecurityScanner interface {
	Name() string
	Available(binDir string) bool
	Scan(ctx context.Context, req ScanRequest) (clean bool, output string, err error)
}

// VulnerabilityChecker checks installed packages against a known-vulnerability
// database.
type VulnerabilityChecker interface {
	Name() string
	Available(binDir string) bool
	Check(ctx context.Context, req ScanRequest) (clean bool, output string, err error)
}

// Bandit is the bandit-backed StaticSecurityScanner.
type Bandit struct {
	Runner CommandRunner
}

func (b *Bandit) Name() string { return "bandit" }

func (b *Bandit) Available(binDir string) bool {
	return toolInstalled(binDir, "bandit")
}

func (b *Bandit) Scan(ctx context.Context, req ScanRequest) (bool, string, error) {
	args := []string{"-r", ".", "-x", "./venv,./.venv"}
	if req.ReportPath != "" {
		args = append(args, "-f", "json", "-o", req.ReportPath)
	}

	res, err := b.Runner.Run(ctx, Command{
		Name: filepath.Join(req.BinDir, "bandit"),
		Args: args,
		Dir:  req.SourceDir,
	})
	if err != nil {
		return false, "", fmt.Errorf("bandit: %w", err)
	}
	return res.ExitCode == 0, res.Combined(), nil
}

// Safety is the safety-backed VulnerabilityChecker. The JSON pass captures
// stdout and writes the artifact itself because safety reports to stdout.
type Safety struct {
	Runner CommandRunner
}

func (s *Safety) Name() string { return "safety" }

func (s *Safety) Available(binDir string) bool {
	return toolInstalled(binDir, "safety")
}

func (s *Safety) Check(ctx context.Context, req ScanRequest) (bool, string, error) {
	args := []string{"check"}
	if req.ReportPath != "" {
		args = append(args, "--json")
	}

	res, err := s.Runner.Run(ctx, Command{
		Name: filepath.Join(req.BinDir, "safety"),
		Args: args,
		Dir:  req.SourceDir,
	})
	if err != nil {
		return false, "", fmt.Errorf("safety: %w", err)
	}

	if req.ReportPath != "" {
		if werr := os.WriteFile(req.ReportPath, []byte(res.Stdout), constants.DefaultFilePerm); werr != nil {
			return false, "", fmt.Errorf("write safety report: %w", werr)
		}
	}
	return res.ExitCode == 0, res.Combined(), nil
}

func toolInstalled(binDir, name string) bool {
	info, err := os.Stat(filepath.Join(binDir, name))
	return err == nil && !info.IsDir()
}
