// Package constants centralizes file permissions and artifact naming shared
// across the pipeline, so stages and the report generator agree on them.
package constants
