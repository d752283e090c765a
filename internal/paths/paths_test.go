package paths

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakePlatform(t *testing.T, goos string) {
	t.Helper()
	saved := platformDir
	t.Cleanup(func() { platformDir = saved })
	platformDir.goos = goos
	platformDir.homeDir = func() (string, error) { return "/home/joao", nil }
	platformDir.userConfigDir = func() (string, error) { return "/Users/joao/Library/Application Support", nil }
}

func TestDefaultDirsLinux(t *testing.T) {
	fakePlatform(t, "linux")

	t.Run("uses XDG variables when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
		t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

		cfg, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-config/achados", cfg)

		data, err := DefaultDataDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-data/achados", data)
	})

	t.Run("falls back to the home directory", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("XDG_DATA_HOME", "")

		cfg, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/home/joao", ".config", "achados"), cfg)

		data, err := DefaultDataDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/home/joao", ".local", "share", "achados"), data)
	})

	t.Run("home lookup failure", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		platformDir.homeDir = func() (string, error) { return "", errors.New("no home") }
		_, err := DefaultConfigDir()
		assert.Error(t, err)
	})
}

func TestDefaultDirsDarwin(t *testing.T) {
	fakePlatform(t, "darwin")
	t.Setenv("XDG_CONFIG_HOME", "/ignored")

	cfg, err := DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/Users/joao/Library/Application Support", "achados"), cfg)

	data, err := DefaultDataDir()
	require.NoError(t, err)
	assert.Equal(t, cfg, data)
}

func TestResolveConfigDir(t *testing.T) {
	fakePlatform(t, "linux")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/tmp/env")
		got, err := ResolveConfigDir("/tmp/flag")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/flag", got)
	})

	t.Run("env before default", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/tmp/env")
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/env", got)
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg/achados", got)
	})
}

func TestResolveDataDir(t *testing.T) {
	fakePlatform(t, "linux")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	t.Setenv(EnvDataDir, "/tmp/env")

	got, err := ResolveDataDir("/tmp/flag", "/tmp/cfg")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag", got)

	got, err = ResolveDataDir("", "/tmp/cfg")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cfg", got)

	got, err = ResolveDataDir("", "")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env", got)

	t.Setenv(EnvDataDir, "")
	got, err = ResolveDataDir("", "")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg/achados", got)
}
