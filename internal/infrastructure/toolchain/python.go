package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// SecurityToolNames are the scanners installed into the backend environment.
var SecurityToolNames = []string{"bandit", "safety", "pip-audit"}

// PythonEnv manages the isolated pip environment used for backend scans.
type PythonEnv struct {
	Runner CommandRunner
	// Interpreter is the python binary resolved by the dependency gate,
	// e.g. "python3" or "python".
	Interpreter string
}

// Ensure returns the bin directory of the backend's virtual environment,
// creating it when absent. An existing "venv" directory is preferred over
// ".venv". created reports whether a new environment was built.
func (e *PythonEnv) Ensure(ctx context.Context, backendDir string) (binDir string, created bool, err error) {
	for _, name := range []string{"venv", ".venv"} {
		candidate := filepath.Join(backendDir, name)
		if info, statErr := os.Stat(candidate); statErr == nil && info.IsDir() {
			return filepath.Join(candidate, "bin"), false, nil
		}
	}

	res, err := e.Runner.Run(ctx, Command{
		Name: e.Interpreter,
		Args: []string{"-m", "venv", "venv"},
		Dir:  backendDir,
	})
	if err != nil {
		return "", false, fmt.Errorf("create virtual environment: %w", err)
	}
	if res.ExitCode != 0 {
		return "", false, fmt.Errorf("create virtual environment: exit code %d: %s", res.ExitCode, firstLine(res.Stderr))
	}
	return filepath.Join(backendDir, "venv", "bin"), true, nil
}

// InstallRequirements installs the backend's declared dependencies into the
// environment. Missing requirements.txt is not an error; there is simply
// nothing to install.
func (e *PythonEnv) InstallRequirements(ctx context.Context, backendDir, binDir string) error {
	reqPath := filepath.Join(backendDir, "requirements.txt")
	if _, err := os.Stat(reqPath); err != nil {
		return nil
	}

	res, err := e.Runner.Run(ctx, Command{
		Name: filepath.Join(binDir, "pip"),
		Args: []string{"install", "-r", "requirements.txt"},
		Dir:  backendDir,
	})
	if err != nil {
		return fmt.Errorf("pip install requirements: %w", err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("pip install requirements: exit code %d: %s", res.ExitCode, firstLine(res.Stderr))
	}
	return nil
}

// InstallSecurityTools installs the scanning tools into the environment.
func (e *PythonEnv) InstallSecurityTools(ctx context.Context, backendDir, binDir string) error {
	args := append([]string{"install"}, SecurityToolNames...)
	res, err := e.Runner.Run(ctx, Command{
		Name: filepath.Join(binDir, "pip"),
		Args: args,
		Dir:  backendDir,
	})
	if err != nil {
		return fmt.Errorf("pip install security tools: %w", err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("pip install security tools: exit code %d: %s", res.ExitCode, firstLine(res.Stderr))
	}
	return nil
}
