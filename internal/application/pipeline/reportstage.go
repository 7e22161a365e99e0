package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/khanhnv2901/stackaudit/internal/domain/finding"
	"github.com/khanhnv2901/stackaudit/internal/domain/report"
	"github.com/khanhnv2901/stackaudit/internal/shared/constants"
)

const stageReport = "report"

// ReportStage renders the markdown report from the accumulated run state.
// The "Completed"/"Not run" backend labels derive from scan-artifact
// presence on disk, not from in-memory flags, matching what an operator can
// verify afterwards.
type ReportStage struct {
	Session *Session
	Clock   func() time.Time
}

func (s *ReportStage) Name() string { return stageReport }

func (s *ReportStage) Run(_ context.Context, log *finding.Log) error {
	now := time.Now()
	if s.Clock != nil {
		now = s.Clock()
	}

	data := report.Data{
		GeneratedAt:       now,
		ProjectDir:        s.Session.ProjectDir,
		FrontendAudited:   s.Session.FrontendAudited,
		BanditCompleted:   fileExists(filepath.Join(s.Session.BackendDir, constants.BanditReportFile)),
		SafetyCompleted:   fileExists(filepath.Join(s.Session.BackendDir, constants.SafetyReportFile)),
		SecretScanRan:     s.Session.SecretScanRan,
		EnvFilesChecked:   s.Session.EnvFilesChecked,
		GitHygieneChecked: s.Session.GitHygieneChecked,
		Warnings:          log.Count(finding.SeverityWarning),
		Errors:            log.Count(finding.SeverityError),
		Findings:          log.Entries(),
	}

	content, err := report.Render(data)
	if err != nil {
		log.Errorf(stageReport, "report rendering failed: %v", err)
		return nil
	}

	path := filepath.Join(s.Session.ReportDir, report.Filename(now))
	if err := os.WriteFile(path, []byte(content), constants.DefaultFilePerm); err != nil {
		log.Errorf(stageReport, "failed to write report: %v", err)
		return nil
	}

	s.Session.ReportPath = path
	log.Infof(stageReport, "report written to %s", path)
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
