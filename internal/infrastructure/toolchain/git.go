package toolchain

import (
	"context"
	"fmt"
	"strings"
)

// VersionControlHistoryReader reads the repository's commit history.
type VersionControlHistoryReader interface {
	// CommitSubjects returns one line per commit across all branches.
	CommitSubjects(ctx context.Context, dir string) ([]string, error)
}

// GitHistory is the git-backed VersionControlHistoryReader.
type GitHistory struct {
	Runner CommandRunner
}

func (g *GitHistory) CommitSubjects(ctx context.Context, dir string) ([]string, error) {
	res, err := g.Runner.Run(ctx, Command{
		Name: "git",
		Args: []string{"log", "--all", "--pretty=format:%h %s"},
		Dir:  dir,
	})
	if err != nil {
		return nil, fmt.Errorf("git log: %w", err)
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("git log exited with code %d: %s", res.ExitCode, firstLine(res.Stderr))
	}

	lines := strings.Split(strings.TrimSpace(res.Stdout), "\n")
	subjects := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			subjects = append(subjects, line)
		}
	}
	return subjects, nil
}
