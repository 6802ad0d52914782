package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "fiveplay"

// DataDirEnv names the environment variable that replaces the platform
// data directory, for containers and tests.
const DataDirEnv = "FIVEPLAY_DATA_DIR"

// GetDataDir returns the directory holding settings and statistics,
// creating it if needed. Without FIVEPLAY_DATA_DIR it is
// ~/Library/Application Support/fiveplay on macOS, %APPDATA%\fiveplay on
// Windows and $XDG_DATA_HOME/fiveplay (default ~/.local/share) elsewhere.
func GetDataDir() (string, error) {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return ensureDir(dir)
	}
	base, err := dataHome()
	if err != nil {
		return "", fmt.Errorf("data directory: %w", err)
	}
	return ensureDir(filepath.Join(base, appName))
}

// dataHome returns the per-user base directory for application data.
func dataHome() (string, error) {
	var env, fallback []string
	switch runtime.GOOS {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		env, fallback = []string{"APPDATA"}, []string{"AppData", "Roaming"}
	default:
		env, fallback = []string{"XDG_DATA_HOME"}, []string{".local", "share"}
	}

	for _, name := range env {
		if dir := os.Getenv(name); dir != "" {
			return dir, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

// GetDatabaseDir returns the badger directory inside GetDataDir.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	dbDir, err := ensureDir(filepath.Join(dataDir, "db"))
	if err != nil {
		return "", err
	}
	log.Printf("database directory: %s", dbDir)
	return dbDir, nil
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return dir, nil
}
