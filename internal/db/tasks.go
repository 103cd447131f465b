package db

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/tgienger/tasktrack/internal/models"
	"github.com/tgienger/tasktrack/internal/store"
)

// TaskRepository reads and writes task records.
// Each row is stored as code,name,status,repUserCode.
type TaskRepository struct {
	file   *store.File
	users  *UserRepository
	logger *slog.Logger
}

func NewTaskRepository(file *store.File, users *UserRepository, logger *slog.Logger) *TaskRepository {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TaskRepository{file: file, users: users, logger: logger}
}

// FindAll returns every valid task in file order with its responsible user resolved.
// A task whose user cannot be found is still returned, with a nil RepUser.
func (r *TaskRepository) FindAll() ([]models.Task, error) {
	table, err := r.file.Read()
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	users, err := r.users.index()
	if err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(table.Rows))
	for _, row := range table.Rows {
		t, ok := r.parse(row)
		if !ok {
			continue
		}
		if u, found := users[t.RepUserCode]; found {
			t.RepUser = &u
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// FindByCode returns the first task with code, or nil if there is none
func (r *TaskRepository) FindByCode(code int) (*models.Task, error) {
	table, err := r.file.Read()
	if err != nil {
		return nil, fmt.Errorf("find task %d: %w", code, err)
	}

	for _, row := range table.Rows {
		t, ok := r.parse(row)
		if !ok || t.Code != code {
			continue
		}
		u, err := r.users.FindByCode(t.RepUserCode)
		if err != nil {
			return nil, err
		}
		t.RepUser = u
		return &t, nil
	}
	return nil, nil
}

// Save appends task as a new row. Codes are not checked for uniqueness.
func (r *TaskRepository) Save(task models.Task) error {
	if err := r.file.Append(taskRow(task)); err != nil {
		return fmt.Errorf("save task %d: %w", task.Code, err)
	}
	return nil
}

// Update replaces every row carrying task's code and rewrites the whole file.
// Other rows are written back with the fields they were read with.
func (r *TaskRepository) Update(task models.Task) error {
	table, err := r.file.Read()
	if err != nil {
		return fmt.Errorf("update task %d: %w", task.Code, err)
	}

	byCode := make(map[int][]int, len(table.Rows))
	for i, row := range table.Rows {
		if code, err := strconv.Atoi(row[0]); err == nil {
			byCode[code] = append(byCode[code], i)
		}
	}

	rows := table.Rows
	for _, i := range byCode[task.Code] {
		rows[i] = taskRow(task)
	}
	if len(byCode[task.Code]) == 0 {
		r.logger.Warn("update of unknown task", "code", task.Code)
	}
	if table.Skipped > 0 {
		r.logger.Warn("malformed task rows dropped on rewrite", "count", table.Skipped)
	}

	if err := r.file.Rewrite(table.Header, rows); err != nil {
		return fmt.Errorf("update task %d: %w", task.Code, err)
	}
	return nil
}

func (r *TaskRepository) parse(row store.Row) (models.Task, bool) {
	n, err := parseInts(row[0], row[2], row[3])
	if err != nil {
		r.logger.Warn("skipping task row with bad number", "row", row.String(), "err", err)
		return models.Task{}, false
	}
	status := models.Status(n[1])
	if !status.Valid() {
		r.logger.Warn("skipping task row with unknown status", "row", row.String())
		return models.Task{}, false
	}
	return models.Task{
		Code:        n[0],
		Name:        row[1],
		Status:      status,
		RepUserCode: n[2],
	}, true
}

func taskRow(t models.Task) store.Row {
	return store.Row{
		strconv.Itoa(t.Code),
		t.Name,
		strconv.Itoa(int(t.Status)),
		strconv.Itoa(t.RepUserCode),
	}
}
