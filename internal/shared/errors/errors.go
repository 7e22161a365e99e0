package errors

import "errors"

// Domain errors
var (
	// Preflight errors (the only fatal tier in the pipeline)
	ErrNodeMissing   = errors.New("node runtime not found on PATH")
	ErrNPMMissing    = errors.New("npm not found on PATH")
	ErrPythonMissing = errors.New("no python interpreter found on PATH")

	// Finding log errors
	ErrLogSealed       = errors.New("finding log is sealed")
	ErrEmptyStage      = errors.New("stage name cannot be empty")
	ErrEmptyMessage    = errors.New("finding message cannot be empty")
	ErrInvalidSeverity = errors.New("invalid severity")

	// Repository errors
	ErrRepositoryOperation = errors.New("repository operation failed")
	ErrInvalidData         = errors.New("invalid data")
)
