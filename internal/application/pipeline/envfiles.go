package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/khanhnv2901/stackaudit/internal/domain/finding"
	"github.com/khanhnv2901/stackaudit/internal/infrastructure/envcheck"
)

const stageEnvFiles = "envfiles"

// EnvFileStage checks environment-variable files for overly broad
// permissions, missing example variants, and key parity with the examples.
// Purely advisory; nothing here can fail the run.
type EnvFileStage struct {
	Session *Session
}

func (s *EnvFileStage) Name() string { return stageEnvFiles }

func (s *EnvFileStage) Run(_ context.Context, log *finding.Log) error {
	candidates := []string{
		filepath.Join(s.Session.ProjectDir, ".env"),
		filepath.Join(s.Session.FrontendDir, ".env"),
		filepath.Join(s.Session.BackendDir, ".env"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		tooOpen, mode, err := envcheck.PermissionsTooOpen(path)
		if err != nil {
			log.Warnf(stageEnvFiles, "could not inspect %s: %v", path, err)
			continue
		}
		if tooOpen {
			log.Warnf(stageEnvFiles, "%s permissions %s allow group/other access, expected owner-only", path, mode)
		}
	}

	for _, dir := range []string{s.Session.FrontendDir, s.Session.BackendDir} {
		examplePath := filepath.Join(dir, ".env.example")
		if _, err := os.Stat(examplePath); err != nil {
			log.Warnf(stageEnvFiles, "no .env.example found in %s", dir)
			continue
		}

		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		missing, err := envcheck.MissingKeys(envPath, examplePath)
		if err != nil {
			log.Warnf(stageEnvFiles, "could not compare %s with its example: %v", envPath, err)
			continue
		}
		if len(missing) > 0 {
			log.Warnf(stageEnvFiles, "%s defines keys absent from .env.example: %s", envPath, strings.Join(missing, ", "))
		}
	}

	s.Session.EnvFilesChecked = true
	return nil
}
