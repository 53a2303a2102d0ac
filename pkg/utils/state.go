package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	stateDirName  = ".relief-camps"
	stateFilePerm = 0600 // Read/write for owner only
	stateDirPerm  = 0700 // Read/write/execute for owner only
)

// StateHome overrides the directory that holds .relief-camps. Empty means the user's home.
var StateHome string

func statePath(dir, name string) (string, error) {
	home := StateHome
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
	}
	return filepath.Join(home, stateDirName, dir, name), nil
}

// LoadStateFile decodes ~/.relief-camps/<dir>/<name> into v.
// It reports false without error when the file does not exist.
func LoadStateFile(dir, name string, v any) (bool, error) {
	path, err := statePath(dir, name)
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return true, nil
}

// SaveStateFile writes v as JSON to ~/.relief-camps/<dir>/<name> with owner-only permissions
func SaveStateFile(dir, name string, v any) error {
	path, err := statePath(dir, name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), stateDirPerm); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	if err := os.WriteFile(path, data, stateFilePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// DeleteStateFile removes ~/.relief-camps/<dir>/<name>. A missing file is not an error.
func DeleteStateFile(dir, name string) error {
	path, err := statePath(dir, name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}
