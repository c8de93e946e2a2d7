package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultProfilePath returns the conventional profile file location,
// ~/.promptpal/config.yaml. An empty string is returned when the home
// directory cannot be resolved.
func DefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".promptpal", "config.yaml")
}

// LoadProfile decodes the YAML profile file at path into v. A missing file is
// not an error: v is left untouched so environment values can take over.
// Profiles are not cached; every call re-reads the file.
func LoadProfile[T any](path string, v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Join(ErrParsingProfile, err)
	}

	if err := yaml.Unmarshal(data, v); err != nil {
		return errors.Join(ErrParsingProfile, err)
	}
	return nil
}

// SaveProfile writes v as YAML to path, creating parent directories as needed.
// The file is written with owner-only permissions since profiles may carry
// API endpoints and account identifiers.
func SaveProfile[T any](path string, v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
