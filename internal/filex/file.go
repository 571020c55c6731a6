// Package filex contains filesystem path helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// userHomeDir is swapped in tests.
var userHomeDir = os.UserHomeDir

// ExpandHome replaces a leading "~" (alone or followed by a separator) with
// the current user's home directory. Other paths are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}
	home, err := userHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// EnsureParentDir creates the directory that will hold path, so opening a
// database file there does not fail on a fresh machine.
func EnsureParentDir(path string) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}
