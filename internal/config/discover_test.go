package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPath(t *testing.T) {
	// Clear XDG var to test default
	t.Setenv("XDG_CONFIG_HOME", "")

	path := DefaultPath()
	assert.Contains(t, path, ".config/sparkred/config.toml")
}

func TestDefaultPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	path := DefaultPath()
	assert.Equal(t, "/custom/config/sparkred/config.toml", path)
}

func TestDiscover_SPARKRED_CONFIG(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "custom.toml")
	err := os.WriteFile(cfgPath, []byte("[server]"), 0644)
	require.NoError(t, err, "failed to create test config")

	t.Setenv("SPARKRED_CONFIG", cfgPath)

	path, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, cfgPath, path)
}

func TestDiscover_SPARKRED_CONFIG_NotFound(t *testing.T) {
	t.Setenv("SPARKRED_CONFIG", "/nonexistent/config.toml")

	_, err := Discover()
	require.Error(t, err, "expected error for missing SPARKRED_CONFIG")
	assert.Contains(t, err.Error(), "SPARKRED_CONFIG")
}

func TestDiscover_CurrentDir(t *testing.T) {
	// Save current dir
	origDir, err := os.Getwd()
	require.NoError(t, err, "failed to get working directory")
	defer func() {
		err := os.Chdir(origDir)
		assert.NoError(t, err, "failed to restore working directory")
	}()

	t.Setenv("SPARKRED_CONFIG", "")

	// Create temp dir with config
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.toml")
	err = os.WriteFile(cfgPath, []byte("[server]"), 0644)
	require.NoError(t, err, "failed to create test config")
	err = os.Chdir(tmp)
	require.NoError(t, err, "failed to change directory")

	path, err := Discover()
	require.NoError(t, err)
	assert.True(t, filepath.Base(path) == "config.toml", "expected config.toml, got %s", path)
}

func TestDiscover_NotFound(t *testing.T) {
	// Save current dir
	origDir, err := os.Getwd()
	require.NoError(t, err, "failed to get working directory")
	defer func() {
		err := os.Chdir(origDir)
		assert.NoError(t, err, "failed to restore working directory")
	}()

	t.Setenv("SPARKRED_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/nonexistent/xdg")
	t.Setenv("XDG_CONFIG_DIRS", "")

	tmp := t.TempDir() // Empty temp dir
	err = os.Chdir(tmp)
	require.NoError(t, err, "failed to change directory")

	_, err = Discover()
	require.Error(t, err, "expected error when no config found")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "config not found")
}

func TestSearchPaths_Order(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/home/ada/.config")
	t.Setenv("XDG_CONFIG_DIRS", "/opt/xdg"+string(os.PathListSeparator)+"/usr/local/etc/xdg")

	assert.Equal(t, []string{
		"config.toml",
		"/home/ada/.config/sparkred/config.toml",
		"/opt/xdg/sparkred/config.toml",
		"/usr/local/etc/xdg/sparkred/config.toml",
		"/etc/sparkred/config.toml",
	}, SearchPaths())
}

func TestDiscover_XDGConfigDirs(t *testing.T) {
	origDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	require.NoError(t, os.Chdir(t.TempDir()))

	sysDir := t.TempDir()
	cfgPath := filepath.Join(sysDir, "sparkred", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(cfgPath), 0o755))
	require.NoError(t, os.WriteFile(cfgPath, []byte("[server]"), 0o644))

	t.Setenv("SPARKRED_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/nonexistent/xdg")
	t.Setenv("XDG_CONFIG_DIRS", sysDir)

	path, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, cfgPath, path)
}

func TestDiscover_SkipsDirectories(t *testing.T) {
	origDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	tmp := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmp, "config.toml"), 0o755))
	require.NoError(t, os.Chdir(tmp))

	t.Setenv("SPARKRED_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/nonexistent/xdg")
	t.Setenv("XDG_CONFIG_DIRS", "")

	_, err = Discover()
	assert.ErrorIs(t, err, ErrNotFound)
}
