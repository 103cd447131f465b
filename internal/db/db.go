// Package db holds the repositories for users, tasks and status logs, each
// backed by one record file.
package db

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/tgienger/tasktrack/internal/config"
	"github.com/tgienger/tasktrack/internal/store"
)

const (
	UsersHeader = "code,name,email,password"
	TasksHeader = "code,name,status,repUserCode"
	LogsHeader  = "taskCode,status,userCode,changeDate"

	// DateLayout is how log change dates are stored
	DateLayout = time.DateOnly
)

// DB groups the repositories over one data directory
type DB struct {
	Users *UserRepository
	Tasks *TaskRepository
	Logs  *LogRepository
}

// New creates any missing record files and returns the repositories
func New(cfg config.Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	users := store.Open(cfg.Path(config.UsersFile), 4, logger)
	tasks := store.Open(cfg.Path(config.TasksFile), 4, logger)
	logs := store.Open(cfg.Path(config.LogsFile), 4, logger)

	for _, f := range []struct {
		file   *store.File
		header string
	}{
		{users, UsersHeader},
		{tasks, TasksHeader},
		{logs, LogsHeader},
	} {
		if err := f.file.Init(f.header); err != nil {
			return nil, fmt.Errorf("init %s: %w", f.file.Path(), err)
		}
	}

	userRepo := NewUserRepository(users, logger)
	return &DB{
		Users: userRepo,
		Tasks: NewTaskRepository(tasks, userRepo, logger),
		Logs:  NewLogRepository(logs, logger),
	}, nil
}

// parseInts converts the given fields to integers, failing on the first bad one
func parseInts(fields ...string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
