package constants

import "io/fs"

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// ReportFilePrefix is the fixed prefix of generated report filenames.
	ReportFilePrefix = "security-audit-report-"
	// ReportTimestampLayout formats the timestamp embedded in report filenames.
	ReportTimestampLayout = "20060102-150405"
	// BanditReportFile is the machine-readable bandit artifact written into the backend tree.
	BanditReportFile = "bandit-report.json"
	// SafetyReportFile is the machine-readable safety artifact written into the backend tree.
	SafetyReportFile = "safety-report.json"
	// RunHistoryFile records completed pipeline runs.
	RunHistoryFile = "runs.json"
)
