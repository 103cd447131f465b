package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	UsersFile = "users.csv"
	TasksFile = "tasks.csv"
	LogsFile  = "logs.csv"
	LogFile   = "tasktrack.log"
)

// Config holds the runtime settings read from the environment
type Config struct {
	DataDir  string
	LogLevel slog.Level
}

// Load reads the configuration from the environment and makes sure the data directory exists
func Load() (Config, error) {
	dataDir, err := getDataDir()
	if err != nil {
		return Config{}, err
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return Config{}, err
	}

	level, err := parseLevel(os.Getenv("TASKTRACK_LOG_LEVEL"))
	if err != nil {
		return Config{}, err
	}

	return Config{DataDir: dataDir, LogLevel: level}, nil
}

// Path joins name onto the data directory
func (c Config) Path(name string) string {
	return filepath.Join(c.DataDir, name)
}

// getDataDir returns the directory holding the record files
func getDataDir() (string, error) {
	if dir := os.Getenv("TASKTRACK_DATA_DIR"); dir != "" {
		return dir, nil
	}

	// Use XDG data directory or fallback to home directory
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataDir, "tasktrack"), nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("TASKTRACK_LOG_LEVEL: unknown level %q", s)
}
