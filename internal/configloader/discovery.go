package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigPaths represents discovered configuration file paths.
type ConfigPaths struct {
	// System is the system-wide config path (e.g., /etc/rst2gem/config.yaml).
	System string

	// User is the user-level config path (e.g., ~/.config/rst2gem/config.yaml).
	User string

	// Project is the project-level config path (e.g., ./.rst2gem.yaml).
	Project string

	// Explicit is a config path provided via --config flag or RST2GEM_CONFIG.
	Explicit string
}

// projectConfigFiles are the config file names searched for, in order of
// preference.
var projectConfigFiles = []string{
	".rst2gem.yaml",
	".rst2gem.yml",
	"rst2gem.yaml",
	"rst2gem.yml",
}

// vcsRootMarkers are directories that indicate a VCS root; the upward search
// for a project config stops there.
var vcsRootMarkers = []string{".git", ".hg", ".svn"}

// DiscoverPaths finds configuration files in standard locations:
//   - System config at /etc/rst2gem/config.{yaml,yml}
//   - User config at $XDG_CONFIG_HOME/rst2gem/config.{yaml,yml}
//   - Project config by searching upward from workDir for .rst2gem.{yaml,yml}
//
// Missing files are represented as empty strings, not errors.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	paths := &ConfigPaths{
		System: findSystemConfig(),
		User:   findUserConfig(),
	}

	project, err := findProjectConfig(workDir)
	if err != nil {
		return nil, err
	}
	paths.Project = project

	return paths, nil
}

func findSystemConfig() string {
	if runtime.GOOS == "windows" {
		programData := os.Getenv("ProgramData")
		if programData == "" {
			programData = `C:\ProgramData`
		}
		return findConfigInDir(filepath.Join(programData, "rst2gem"))
	}
	return findConfigInDir("/etc/rst2gem")
}

func findUserConfig() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return findConfigInDir(filepath.Join(configHome, "rst2gem"))
}

// findConfigInDir returns the first existing config.{yaml,yml} in dir.
func findConfigInDir(dir string) string {
	for _, name := range []string{"config.yaml", "config.yml"} {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// findProjectConfig searches upward from workDir for a project config file,
// stopping at a VCS root or the filesystem root.
func findProjectConfig(workDir string) (string, error) {
	dir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", workDir, err)
	}

	for {
		for _, name := range projectConfigFiles {
			path := filepath.Join(dir, name)
			if fileExists(path) {
				return path, nil
			}
		}

		atRoot := false
		for _, marker := range vcsRootMarkers {
			if dirExists(filepath.Join(dir, marker)) {
				atRoot = true
				break
			}
		}
		parent := filepath.Dir(dir)
		if atRoot || parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
