// Package json provides file-backed persistence for pipeline run history.
package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/khanhnv2901/stackaudit/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/stackaudit/internal/shared/errors"
)

// RunRecord summarizes one completed pipeline run.
type RunRecord struct {
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	ReportPath  string    `json:"report_path,omitempty"`
	Warnings    int       `json:"warnings"`
	Errors      int       `json:"errors"`
}

// RunRepository appends run records to a JSON history file.
type RunRepository struct {
	path string
	mu   sync.Mutex
}

// NewRunRepository creates a repository storing history in dir.
func NewRunRepository(dir string) (*RunRepository, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: history directory cannot be empty", sharedErrors.ErrInvalidData)
	}
	if err := os.MkdirAll(dir, constants.DefaultDirPerm); err != nil {
		return nil, fmt.Errorf("%w: %v", sharedErrors.ErrRepositoryOperation, err)
	}
	return &RunRepository{path: filepath.Join(dir, constants.RunHistoryFile)}, nil
}

// Append adds a record to the history file, creating it on first use.
func (r *RunRepository) Append(record RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}
	records = append(records, record)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", sharedErrors.ErrRepositoryOperation, err)
	}
	if err := os.WriteFile(r.path, data, constants.DefaultFilePerm); err != nil {
		return fmt.Errorf("%w: %v", sharedErrors.ErrRepositoryOperation, err)
	}
	return nil
}

// All returns every recorded run in append order.
func (r *RunRepository) All() ([]RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *RunRepository) load() ([]RunRecord, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []RunRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sharedErrors.ErrRepositoryOperation, err)
	}

	var records []RunRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", sharedErrors.ErrRepositoryOperation, err)
	}
	return records, nil
}
