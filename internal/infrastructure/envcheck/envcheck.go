// Package envcheck inspects environment-variable files: filesystem
// permissions, presence of example variants, and key parity between the two.
package envcheck

import (
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"
)

// PermissionsTooOpen reports whether the file grants any access to group or
// other. The returned mode string is included in warnings.
func PermissionsTooOpen(path string) (tooOpen bool, mode string, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, "", fmt.Errorf("stat %s: %w", path, err)
	}
	perm := info.Mode().Perm()
	return perm&0o077 != 0, perm.String(), nil
}

// MissingKeys returns the keys defined in envPath that have no counterpart
// in examplePath, sorted for stable output.
func MissingKeys(envPath, examplePath string) ([]string, error) {
	envVars, err := godotenv.Read(envPath)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", envPath, err)
	}
	exampleVars, err := godotenv.Read(examplePath)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", examplePath, err)
	}

	var missing []string
	for key := range envVars {
		if _, ok := exampleVars[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing, nil
}
