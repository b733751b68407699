package utils

import (
	"os"
	"path/filepath"
)

// FirstExistingFile returns the first name under dir that exists as a
// regular file, trying names in the given order
func FirstExistingFile(dir string, names []string) (string, bool) {
	for _, name := range names {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}

// IsDir reports whether path exists and is a directory
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
