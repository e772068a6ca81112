// Package dotdir resolves the .newsvec/ directory that holds config.toml,
// credentials.toml and the default sqlite vector store.
package dotdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DirName is the name of the newsvec directory.
	DirName = ".newsvec"

	// HomeEnv names a directory used in place of ~/.newsvec.
	HomeEnv = "NEWSVEC_HOME"
)

// Manager resolves and creates .newsvec/ directories.
type Manager struct {
	getwd   func() (string, error)
	homeDir func() (string, error)
}

func NewManager() *Manager {
	return &Manager{
		getwd:   os.Getwd,
		homeDir: os.UserHomeDir,
	}
}

// Target returns the absolute path of the .newsvec/ directory to use,
// creating it when missing. Order of precedence:
//  1. overrideDir
//  2. ./.newsvec/ when it exists
//  3. $NEWSVEC_HOME
//  4. ~/.newsvec/
func (m *Manager) Target(overrideDir string) (string, error) {
	dir, err := m.resolve(overrideDir)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating newsvec directory %s: %w", dir, err)
	}
	return filepath.Abs(dir)
}

// InitLocal creates ./.newsvec/ in the working directory. created is false
// when it already existed.
func (m *Manager) InitLocal() (dir string, created bool, err error) {
	dir, err = m.localDir()
	if err != nil {
		return "", false, err
	}

	err = os.Mkdir(dir, 0o755)
	switch {
	case err == nil:
		return dir, true, nil
	case errors.Is(err, os.ErrExist) && isDir(dir):
		return dir, false, nil
	default:
		return "", false, fmt.Errorf("creating newsvec directory %s: %w", dir, err)
	}
}

func (m *Manager) resolve(overrideDir string) (string, error) {
	if overrideDir != "" {
		return overrideDir, nil
	}

	local, err := m.localDir()
	if err == nil && isDir(local) {
		return local, nil
	}

	if env := os.Getenv(HomeEnv); env != "" {
		return env, nil
	}

	home, err := m.homeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

func (m *Manager) localDir() (string, error) {
	cwd, err := m.getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return filepath.Join(cwd, DirName), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
