package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/quicktab/pkg/core"
)

// ErrInvalidSettings is returned for a settings file that cannot be used.
var ErrInvalidSettings = errors.New("invalid settings")

func wrapInvalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
}

// LoadSettings reads a quicktab.yaml file. Keys that are absent keep their
// values from core.DefaultSettings.
func LoadSettings(path string) (core.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	return ParseSettings(data)
}

// ParseSettings decodes settings YAML over core.DefaultSettings.
func ParseSettings(data []byte) (core.Settings, error) {
	s := core.DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return core.Settings{}, wrapInvalid(err)
	}
	if err := s.Validate(); err != nil {
		return core.Settings{}, wrapInvalid(err)
	}
	return s, nil
}

// DiscoverSettings loads the nearest quicktab.yaml at or above dir, or
// returns core.DefaultSettings when there is none. A .quicktab directory
// does not end the search.
func DiscoverSettings(dir string) (core.Settings, error) {
	path, err := findSettingsFile(dir)
	if errors.Is(err, ErrRootNotFound) {
		return core.DefaultSettings(), nil
	}
	if err != nil {
		return core.Settings{}, err
	}
	return LoadSettings(path)
}

func findSettingsFile(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for dir := abs; ; {
		if hasFile(dir, SettingsFile) {
			return filepath.Join(dir, SettingsFile), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrRootNotFound
		}
		dir = parent
	}
}
