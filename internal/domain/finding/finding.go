package finding

import (
	"fmt"
	"time"

	sharedErrors "github.com/khanhnv2901/stackaudit/internal/shared/errors"
)

// Severity classifies a finding. Only the dependency gate escalates beyond
// a logged finding; error-severity findings elsewhere do not stop the run.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// Finding is a single observation made by an audit stage.
type Finding struct {
	Timestamp time.Time `json:"timestamp"`
	Stage     string    `json:"stage"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
}

// Log is the append-only record of findings for one pipeline run.
// Once sealed, no more findings can be added.
type Log struct {
	startedAt time.Time
	entries   []Finding
	sealed    bool
	observer  func(Finding)
}

// NewLog creates an empty finding log. The optional observer is invoked for
// every appended finding; console echo and structured logging hang off it.
func NewLog(observer func(Finding)) *Log {
	return &Log{
		startedAt: time.Now(),
		entries:   make([]Finding, 0),
		observer:  observer,
	}
}

// Append adds a finding to the log.
func (l *Log) Append(f Finding) error {
	if l.sealed {
		return sharedErrors.ErrLogSealed
	}
	if f.Stage == "" {
		return sharedErrors.ErrEmptyStage
	}
	if f.Message == "" {
		return sharedErrors.ErrEmptyMessage
	}
	if !f.Severity.Valid() {
		return sharedErrors.ErrInvalidSeverity
	}
	if f.Timestamp.IsZero() {
		f.Timestamp = time.Now()
	}

	l.entries = append(l.entries, f)
	if l.observer != nil {
		l.observer(f)
	}
	return nil
}

// Infof records an info-severity finding. Stages call these helpers with
// non-empty stage names and messages, so the append cannot fail before Seal.
func (l *Log) Infof(stage, format string, args ...any) {
	_ = l.Append(Finding{Stage: stage, Severity: SeverityInfo, Message: fmt.Sprintf(format, args...)})
}

// Warnf records a warning-severity finding.
func (l *Log) Warnf(stage, format string, args ...any) {
	_ = l.Append(Finding{Stage: stage, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)})
}

// Errorf records an error-severity finding. Note that error severity alone
// never aborts the run; abort decisions belong to the orchestrator.
func (l *Log) Errorf(stage, format string, args ...any) {
	_ = l.Append(Finding{Stage: stage, Severity: SeverityError, Message: fmt.Sprintf(format, args...)})
}

// Seal finalizes the log; further appends are rejected.
func (l *Log) Seal() {
	l.sealed = true
}

// IsSealed checks if the log is sealed.
func (l *Log) IsSealed() bool {
	return l.sealed
}

// Entries returns a copy of the recorded findings to prevent external modification.
func (l *Log) Entries() []Finding {
	entriesCopy := make([]Finding, len(l.entries))
	copy(entriesCopy, l.entries)
	return entriesCopy
}

// Count returns the number of findings recorded at the given severity.
func (l *Log) Count(severity Severity) int {
	n := 0
	for _, f := range l.entries {
		if f.Severity == severity {
			n++
		}
	}
	return n
}

// StartedAt returns the creation time of the log, which doubles as the
// wall-clock start of the run.
func (l *Log) StartedAt() time.Time {
	return l.startedAt
}
