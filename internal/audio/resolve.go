package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a requested filename does not resolve to an
// existing regular file inside the base directory. Traversal attempts are
// deliberately indistinguishable from missing files.
var ErrNotFound = errors.New("file not found")

// ResolvePath joins a client-supplied filename with the configured base
// directory and verifies the result is an existing regular file. Absolute
// filenames and paths escaping the base directory are rejected.
func ResolvePath(baseDir, filename string) (string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", ErrNotFound
	}
	if filepath.IsAbs(filename) {
		return "", ErrNotFound
	}

	resolved := filepath.Join(baseDir, filename)

	rel, err := filepath.Rel(baseDir, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrNotFound
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("stat %s: %w", resolved, err)
	}
	if !info.Mode().IsRegular() {
		return "", ErrNotFound
	}

	return resolved, nil
}
