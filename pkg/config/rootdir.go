package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	// AppName names the shared data directory, kept compatible with the
	// server's layout.
	AppName = "Tachidesk"

	RootDirEnv = "TACHIDESK_ROOT_DIR"
)

// RootDir returns the application data directory: $TACHIDESK_ROOT_DIR when
// set, otherwise the per-user data directory for the current OS.
func RootDir() string {
	home, _ := os.UserHomeDir()
	return rootDir(runtime.GOOS, os.Getenv, home)
}

func rootDir(goos string, getenv func(string) string, home string) string {
	if dir := getenv(RootDirEnv); dir != "" {
		return dir
	}

	switch goos {
	case "windows":
		base := getenv("LOCALAPPDATA")
		if base == "" {
			base = filepath.Join(home, "AppData", "Local")
		}
		return filepath.Join(base, AppName)
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", AppName)
	default:
		base := getenv("XDG_DATA_HOME")
		if base == "" {
			base = filepath.Join(home, ".local", "share")
		}
		return filepath.Join(base, AppName)
	}
}
