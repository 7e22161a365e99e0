package cmd

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/khanhnv2901/stackaudit/internal/domain/finding"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

// severityPrefix returns the colored console prefix for a finding severity.
func severityPrefix(s finding.Severity) string {
	switch s {
	case finding.SeverityWarning:
		return colorWarn("[WARNING]")
	case finding.SeverityError:
		return colorError("[ERROR]")
	default:
		return colorInfo("[INFO]")
	}
}

func printFinding(f finding.Finding) {
	fmt.Printf("%s %s: %s\n", severityPrefix(f.Severity), f.Stage, f.Message)
}
