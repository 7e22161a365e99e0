package envcheck

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestPermissionsTooOpen(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permission bits")
	}

	dir := t.TempDir()

	tests := []struct {
		name string
		perm os.FileMode
		want bool
	}{
		{"owner only", 0o600, false},
		{"owner rwx", 0o700, false},
		{"group readable", 0o640, true},
		{"world readable", 0o644, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".env")
			if err := os.WriteFile(path, []byte("KEY=value\n"), tt.perm); err != nil {
				t.Fatal(err)
			}

			tooOpen, mode, err := PermissionsTooOpen(path)
			if err != nil {
				t.Fatalf("PermissionsTooOpen failed: %v", err)
			}
			if tooOpen != tt.want {
				t.Errorf("tooOpen = %v (mode %s), want %v", tooOpen, mode, tt.want)
			}
		})
	}
}

func TestPermissionsTooOpen_MissingFile(t *testing.T) {
	if _, _, err := PermissionsTooOpen(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestMissingKeys(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	examplePath := filepath.Join(dir, ".env.example")

	if err := os.WriteFile(envPath, []byte("DB_URL=postgres://x\nSECRET_KEY=abc\nDEBUG=true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(examplePath, []byte("DB_URL=\nDEBUG=\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	missing, err := MissingKeys(envPath, examplePath)
	if err != nil {
		t.Fatalf("MissingKeys failed: %v", err)
	}
	if len(missing) != 1 || missing[0] != "SECRET_KEY" {
		t.Errorf("missing = %v, want [SECRET_KEY]", missing)
	}
}

func TestMissingKeys_AllCovered(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	examplePath := filepath.Join(dir, ".env.example")

	if err := os.WriteFile(envPath, []byte("A=1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(examplePath, []byte("A=\nB=\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	missing, err := MissingKeys(envPath, examplePath)
	if err != nil {
		t.Fatalf("MissingKeys failed: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("missing = %v, want none", missing)
	}
}
