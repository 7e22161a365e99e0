// Package report renders the markdown audit report. Rendering is a pure
// function of a Data record so it can be tested without running the pipeline.
package report

import (
	"bytes"
	"embed"
	"strings"
	"text/template"
	"time"

	"github.com/khanhnv2901/stackaudit/internal/domain/finding"
	"github.com/khanhnv2901/stackaudit/internal/shared/constants"
)

const markdownTemplatePath = "templates/report.md"

//go:embed templates/report.md
var reportTemplateFS embed.FS

var (
	markdownTemplateFuncs = template.FuncMap{
		"formatTime":  formatTimestamp,
		"statusLabel": statusLabel,
		"upper":       strings.ToUpper,
	}

	markdownReportTemplate = template.Must(
		template.New("report.md").Funcs(markdownTemplateFuncs).ParseFS(reportTemplateFS, markdownTemplatePath),
	)
)

// Data is the structured result record the report is rendered from.
// Booleans reflect whether the corresponding stage or scan-artifact completed.
type Data struct {
	GeneratedAt       time.Time
	ProjectDir        string
	FrontendAudited   bool
	BanditCompleted   bool
	SafetyCompleted   bool
	SecretScanRan     bool
	EnvFilesChecked   bool
	GitHygieneChecked bool
	Warnings          int
	Errors            int
	Findings          []finding.Finding
}

// Render produces the markdown report for the given data.
func Render(data Data) (string, error) {
	var buf bytes.Buffer
	if err := markdownReportTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Filename returns the timestamped report filename for the given time,
// e.g. security-audit-report-20250102-150405.md.
func Filename(t time.Time) string {
	return constants.ReportFilePrefix + t.Format(constants.ReportTimestampLayout) + ".md"
}

func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05 MST")
}

func statusLabel(completed bool) string {
	if completed {
		return "Completed"
	}
	return "Not run"
}
