package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/khanhnv2901/stackaudit/internal/domain/finding"
	"github.com/khanhnv2901/stackaudit/internal/infrastructure/toolchain"
)

const stageVCS = "vcs"

// secretKeywords is the fixed keyword set matched against commit subjects.
var secretKeywords = []string{"password", "secret", "key", "token", "api_key"}

// maxHistoryMatches caps how many offending commits a single warning lists.
const maxHistoryMatches = 5

// VCSStage verifies ignore rules exclude env files and scans commit history
// for leaked-secret keywords. The missing ignore rule is logged at error
// severity but, unlike the dependency gate, does not abort the run.
type VCSStage struct {
	Session *Session
	History toolchain.VersionControlHistoryReader
}

func (s *VCSStage) Name() string { return stageVCS }

func (s *VCSStage) Run(ctx context.Context, log *finding.Log) error {
	s.checkIgnoreRules(log)
	s.checkHistory(ctx, log)
	s.Session.GitHygieneChecked = true
	return nil
}

func (s *VCSStage) checkIgnoreRules(log *finding.Log) {
	path := filepath.Join(s.Session.ProjectDir, ".gitignore")
	data, err := os.ReadFile(path)
	if err != nil {
		log.Errorf(stageVCS, ".gitignore is missing, environment files are not excluded from version control")
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.Contains(line, ".env") {
			log.Infof(stageVCS, ".gitignore excludes environment files")
			return
		}
	}
	log.Errorf(stageVCS, ".gitignore does not exclude .env files")
}

func (s *VCSStage) checkHistory(ctx context.Context, log *finding.Log) {
	subjects, err := s.History.CommitSubjects(ctx, s.Session.ProjectDir)
	if err != nil {
		log.Warnf(stageVCS, "could not read commit history: %v", err)
		return
	}

	var matches []string
	for _, subject := range subjects {
		lower := strings.ToLower(subject)
		for _, kw := range secretKeywords {
			if strings.Contains(lower, kw) {
				matches = append(matches, subject)
				break
			}
		}
	}

	if len(matches) == 0 {
		return
	}
	shown := matches
	if len(shown) > maxHistoryMatches {
		shown = shown[:maxHistoryMatches]
	}
	log.Warnf(stageVCS, "%d commit message(s) mention secret-related keywords: %s", len(matches), strings.Join(shown, "; "))
}
