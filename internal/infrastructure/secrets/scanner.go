// Package secrets implements the textual hardcoded-secret scan over a source
// tree. It is a heuristic: keyword matches with placeholder suppression, not
// a parser.
package secrets

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Match is one suspicious source line.
type Match struct {
	Path string
	Line int
	Text string
}

// Scanner walks a source tree looking for lines that mention credential
// keywords. Lines that also mention a suppression marker ("example",
// "template") are treated as placeholders and skipped.
type Scanner struct {
	Keywords        []string
	SuppressMarkers []string
	Extensions      []string
	ExcludeDirs     []string
}

// NewScanner returns a scanner with the fixed keyword and exclusion sets.
func NewScanner() *Scanner {
	return &Scanner{
		Keywords:        []string{"password", "secret", "key", "token", "api_key"},
		SuppressMarkers: []string{"example", "template"},
		Extensions:      []string{".py", ".js", ".jsx", ".ts", ".tsx"},
		ExcludeDirs:     []string{"venv", ".venv", "node_modules", ".git", "__pycache__"},
	}
}

// Scan walks root and returns every unsuppressed keyword match. Unreadable
// files are skipped; the scan is advisory.
func (s *Scanner) Scan(root string) ([]Match, error) {
	var matches []Match

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if s.excludedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.scannable(path) {
			return nil
		}

		fileMatches, scanErr := s.scanFile(path)
		if scanErr != nil {
			return nil
		}
		matches = append(matches, fileMatches...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func (s *Scanner) excludedDir(name string) bool {
	for _, dir := range s.ExcludeDirs {
		if name == dir {
			return true
		}
	}
	return false
}

func (s *Scanner) scannable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" || ext == ".log" {
		return false
	}
	for _, allowed := range s.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (s *Scanner) scanFile(path string) ([]Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var matches []Match
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if s.lineMatches(line) {
			matches = append(matches, Match{Path: path, Line: lineNo, Text: strings.TrimSpace(line)})
		}
	}
	return matches, scanner.Err()
}

func (s *Scanner) lineMatches(line string) bool {
	lower := strings.ToLower(line)

	matched := false
	for _, kw := range s.Keywords {
		if strings.Contains(lower, kw) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	for _, marker := range s.SuppressMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}
