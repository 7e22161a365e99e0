package cmd

import (
	"path/filepath"
	"testing"
)

func TestResolveDir(t *testing.T) {
	project := filepath.Join(string(filepath.Separator), "srv", "app")

	tests := []struct {
		name string
		dir  string
		want string
	}{
		{"relative joins project root", "frontend", filepath.Join(project, "frontend")},
		{"nested relative", filepath.Join("services", "api"), filepath.Join(project, "services", "api")},
		{"absolute passes through", filepath.Join(string(filepath.Separator), "opt", "web"), filepath.Join(string(filepath.Separator), "opt", "web")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveDir(project, tt.dir); got != tt.want {
				t.Errorf("resolveDir(%q, %q) = %q, want %q", project, tt.dir, got, tt.want)
			}
		})
	}
}
