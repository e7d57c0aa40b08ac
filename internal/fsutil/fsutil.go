// Package fsutil holds small filesystem helpers shared by the fitting room's
// image directories.
package fsutil

import (
	"errors"
	"fmt"
	"os"
)

func Exists(path string) (bool, error) {
	_, err := os.Stat(path)

	if err == nil {
		return true, nil
	} else if errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else {
		return false, fmt.Errorf("stat path %v: %w", path, err)
	}
}

func IsDir(path string) (bool, error) {
	stat, err := os.Stat(path)

	if err == nil {
		return stat.IsDir(), nil
	} else {
		return false, fmt.Errorf("stat path %v: %w", path, err)
	}
}

// EnsureDir creates dir (and parents) if it does not already exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure dir %v: %w", dir, err)
	}
	return nil
}
