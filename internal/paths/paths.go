// Package paths resolves the configuration and data directories.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "achados"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "ACHADOS_CONFIG_DIR"
	EnvDataDir   = "ACHADOS_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

func xdgDir(env string, fallback ...string) (string, error) {
	if platformDir.goos == "linux" {
		if xdg := os.Getenv(env); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(append(append([]string{home}, fallback...), appName)...), nil
	}
	// ~/Library/Application Support on macOS, %APPDATA% on Windows
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// DefaultConfigDir is $XDG_CONFIG_HOME/achados (fallback ~/.config/achados)
// on Linux and the user config directory elsewhere.
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir is $XDG_DATA_HOME/achados (fallback ~/.local/share/achados)
// on Linux and the user config directory elsewhere.
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// ResolveConfigDir follows flag > ACHADOS_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir follows flag > config file value > ACHADOS_DATA_DIR > DefaultDataDir().
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultDataDir()
}
