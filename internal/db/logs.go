package db

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/tgienger/tasktrack/internal/models"
	"github.com/tgienger/tasktrack/internal/store"
)

// LogRepository is the append-only record of task status changes
type LogRepository struct {
	file   *store.File
	logger *slog.Logger
}

func NewLogRepository(file *store.File, logger *slog.Logger) *LogRepository {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LogRepository{file: file, logger: logger}
}

// Save appends a log entry
func (r *LogRepository) Save(l models.Log) error {
	row := store.Row{
		strconv.Itoa(l.TaskCode),
		strconv.Itoa(int(l.Status)),
		strconv.Itoa(l.UserCode),
		l.ChangeDate.Format(DateLayout),
	}
	if err := r.file.Append(row); err != nil {
		return fmt.Errorf("save log for task %d: %w", l.TaskCode, err)
	}
	return nil
}

// FindAll returns every valid log entry in the order it was written
func (r *LogRepository) FindAll() ([]models.Log, error) {
	return r.filter(func(models.Log) bool { return true })
}

// FindByTask returns the log entries for a task, oldest first
func (r *LogRepository) FindByTask(taskCode int) ([]models.Log, error) {
	return r.filter(func(l models.Log) bool { return l.TaskCode == taskCode })
}

func (r *LogRepository) filter(keep func(models.Log) bool) ([]models.Log, error) {
	table, err := r.file.Read()
	if err != nil {
		return nil, fmt.Errorf("read logs: %w", err)
	}

	var logs []models.Log
	for _, row := range table.Rows {
		l, ok := r.parse(row)
		if ok && keep(l) {
			logs = append(logs, l)
		}
	}
	return logs, nil
}

func (r *LogRepository) parse(row store.Row) (models.Log, bool) {
	n, err := parseInts(row[0], row[1], row[2])
	if err != nil {
		r.logger.Warn("skipping log row with bad number", "row", row.String(), "err", err)
		return models.Log{}, false
	}
	date, err := time.Parse(DateLayout, row[3])
	if err != nil {
		r.logger.Warn("skipping log row with bad date", "row", row.String(), "err", err)
		return models.Log{}, false
	}
	return models.Log{
		TaskCode:   n[0],
		Status:     models.Status(n[1]),
		UserCode:   n[2],
		ChangeDate: date,
	}, true
}
