package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// EnvConfig names an explicit config file and disables the search.
	EnvConfig = "SPARKRED_CONFIG"

	configFile = "config.toml"
	appDir     = "sparkred"
)

// ErrNotFound is returned by Discover when no config file exists.
var ErrNotFound = errors.New("config not found")

// DefaultPath is where `sparkred config init` writes: the user's XDG config
// directory.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", configFile)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, appDir, configFile)
}

// SearchPaths lists the candidate config files in lookup order: the working
// directory, the user config dir, each $XDG_CONFIG_DIRS entry, then
// /etc/sparkred.
func SearchPaths() []string {
	paths := []string{filepath.Join(".", configFile), DefaultPath()}
	for _, dir := range filepath.SplitList(os.Getenv("XDG_CONFIG_DIRS")) {
		if dir != "" {
			paths = append(paths, filepath.Join(dir, appDir, configFile))
		}
	}
	return append(paths, filepath.Join("/etc", appDir, configFile))
}

// Discover returns the config file to load. $SPARKRED_CONFIG wins and must
// exist; otherwise the first existing entry of SearchPaths is used.
func Discover() (string, error) {
	if envPath := os.Getenv(EnvConfig); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, envPath, err)
		}
		return envPath, nil
	}

	paths := SearchPaths()
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w, checked: %s", ErrNotFound, strings.Join(paths, ", "))
}
