// Package toolchain wraps the external security tools the pipeline shells out
// to. Each tool is modelled as a capability interface with a single real
// variant, so tests can substitute fakes without invoking binaries.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"

	"golang.org/x/time/rate"
)

// Command describes one external tool invocation. Working directory and
// environment are threaded explicitly per call; nothing relies on ambient
// process state.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env entries are appended to the parent environment.
	Env []string
}

// Result captures the outcome of a completed invocation. A non-zero exit
// code is not an error at this layer; callers decide how to classify it.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Combined returns stdout and stderr concatenated, for console echo.
func (r Result) Combined() string {
	if r.Stderr == "" {
		return r.Stdout
	}
	if r.Stdout == "" {
		return r.Stderr
	}
	return r.Stdout + "\n" + r.Stderr
}

// CommandRunner executes external tools.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands through os/exec. An optional limiter caps how
// fast external tools are launched.
type ExecRunner struct {
	Limiter *rate.Limiter
}

// Run executes the command and waits for it to finish. The returned error is
// non-nil only when the tool could not be started or the context was
// cancelled; tool exit codes surface through Result.ExitCode.
func (r *ExecRunner) Run(ctx context.Context, spec Command) (Result, error) {
	if r.Limiter != nil {
		if err := r.Limiter.Wait(ctx); err != nil {
			return Result{}, err
		}
	}

	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return result, err
}

// LookPath resolves an executable on the command search path.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
