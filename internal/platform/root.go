package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// SystemDirMarker and SettingsFile mark a vault root.
const (
	SystemDirMarker = ".quicktab"
	SettingsFile    = "quicktab.yaml"
)

// ErrRootNotFound is returned by FindRoot when no marker is found.
var ErrRootNotFound = errors.New("root not found")

// FindRoot looks upwards from startDir for a directory containing a
// .quicktab directory or a quicktab.yaml file and returns its absolute path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, SystemDirMarker) || hasFile(dir, SettingsFile) {
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
