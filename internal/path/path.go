package path

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ErrNotFound is returned when no ancestor directory holds the marker file.
var ErrNotFound = errors.New("marker file not found in any parent directory")

// FindUp walks from start towards the filesystem root and returns the first
// directory that contains a file named marker.
func FindUp(start string, marker string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving start directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s: %w", marker, ErrNotFound)
		}
		dir = parent
	}
}

// ToModuleRoot returns the absolute path to the Go module root of this
// repository, found from this file's location.
func ToModuleRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("could not determine source file path via runtime.Caller")
	}

	return FindUp(filepath.Dir(filename), "go.mod")
}
