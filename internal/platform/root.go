package platform

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/aretw0/quire/internal/config"
	"github.com/aretw0/quire/pkg/adapters/fs"
)

// ErrRootNotFound is returned when no site marker exists above the start dir.
var ErrRootNotFound = errors.New("site root not found")

// FindRoot walks upwards from startDir looking for a site marker:
// a .quire.yml file, a .quire directory or a .git directory.
// It returns the absolute path of the first directory that has one.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, config.FileName) || hasFile(dir, fs.DefaultSystemDir) || hasFile(dir, ".git") {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrRootNotFound
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
