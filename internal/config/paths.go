// Package config locates the tdl data directory and loads per-user settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DataDir is the per-project data directory name.
	DataDir = ".tdl"
	// DBFile is the database filename inside DataDir.
	DBFile = "tdl.db"
	// ConfigFile is the settings filename inside DataDir.
	ConfigFile = "config.toml"
)

// dataDirFromCwd returns the data directory path in the current working directory.
func dataDirFromCwd() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(wd, DataDir), nil
}

// FindDataDir searches upward from the current working directory to locate
// DataDir. Can be overridden with the TDL_DATA environment variable.
func FindDataDir() (string, error) {
	if envDir := os.Getenv("TDL_DATA"); envDir != "" {
		return envDir, nil
	}

	startDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	dir := startDir
	for {
		candidate := filepath.Join(dir, DataDir)
		info, err := os.Stat(candidate)
		if err == nil {
			if !info.IsDir() {
				return "", fmt.Errorf("%s exists but is not a directory", candidate)
			}
			return candidate, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to check %s: %w", candidate, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s directory found in %s or any ancestor. Run 'tdl init' first", DataDir, startDir)
		}
		dir = parent
	}
}

// DefaultDBPath returns the database path for an existing data directory.
func DefaultDBPath() (string, error) {
	dataDir, err := FindDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, DBFile), nil
}

// InitDataDir creates the data directory in the current working directory
// and returns the database path inside it.
func InitDataDir() (string, error) {
	dataDir, err := dataDirFromCwd()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return filepath.Join(dataDir, DBFile), nil
}
