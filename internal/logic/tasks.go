// Package logic implements login and the task lifecycle on top of the
// repositories: tasks start not-started and move forward one status at a
// time, and every creation or status change appends a log entry.
package logic

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/tgienger/tasktrack/internal/models"
)

const (
	SelfLabel       = "you"
	UnassignedLabel = "assignee not found"
)

type UserFinder interface {
	FindByCode(code int) (*models.User, error)
	FindByEmailAndPassword(email, password string) (*models.User, error)
}

type TaskStore interface {
	FindAll() ([]models.Task, error)
	FindByCode(code int) (*models.Task, error)
	Save(task models.Task) error
	Update(task models.Task) error
}

type LogStore interface {
	Save(l models.Log) error
	FindByTask(taskCode int) ([]models.Log, error)
}

// TaskView is a task prepared for display to one user
type TaskView struct {
	models.Task
	Assignee string
}

type Option func(*TaskLogic)

// WithClock sets the source of the change date written to logs
func WithClock(now func() time.Time) Option {
	return func(l *TaskLogic) { l.now = now }
}

type TaskLogic struct {
	users  UserFinder
	tasks  TaskStore
	logs   LogStore
	logger *slog.Logger
	now    func() time.Time
}

func New(users UserFinder, tasks TaskStore, logs LogStore, logger *slog.Logger, opts ...Option) *TaskLogic {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	l := &TaskLogic{
		users:  users,
		tasks:  tasks,
		logs:   logs,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Login returns the user with matching credentials. Whether the email or the
// password was wrong is not reported.
func (l *TaskLogic) Login(email, password string) (models.User, error) {
	u, err := l.users.FindByEmailAndPassword(email, password)
	if err != nil {
		return models.User{}, err
	}
	if u == nil {
		l.logger.Info("login failed")
		return models.User{}, &Error{Kind: ErrAuthentication, Msg: "email or password is incorrect"}
	}
	l.logger.Info("login", "user", u.Code)
	return *u, nil
}

// ShowAll returns every task labelled with who is responsible for it,
// relative to loginUser.
func (l *TaskLogic) ShowAll(loginUser models.User) ([]TaskView, error) {
	tasks, err := l.tasks.FindAll()
	if err != nil {
		return nil, err
	}

	views := make([]TaskView, len(tasks))
	for i, t := range tasks {
		views[i] = TaskView{Task: t, Assignee: assigneeLabel(t, loginUser)}
		if t.RepUser == nil {
			l.logger.Warn("task assignee not found", "task", t.Code, "user", t.RepUserCode)
		}
	}
	return views, nil
}

func assigneeLabel(t models.Task, loginUser models.User) string {
	switch {
	case t.RepUser == nil:
		return UnassignedLabel
	case t.RepUser.Code == loginUser.Code:
		return SelfLabel
	default:
		return t.RepUser.Name
	}
}

// Save creates a task assigned to loginUser. The requested status is ignored:
// new tasks always start not-started.
func (l *TaskLogic) Save(code int, name string, status models.Status, loginUser models.User) error {
	return l.SaveAssigned(code, name, status, loginUser.Code, loginUser)
}

// SaveAssigned creates a task assigned to the user with assigneeCode and logs
// its creation as performed by loginUser.
//
// The task and its log are separate writes. If the log write fails the task
// is kept and the error is returned.
func (l *TaskLogic) SaveAssigned(code int, name string, status models.Status, assigneeCode int, loginUser models.User) error {
	existing, err := l.tasks.FindByCode(code)
	if err != nil {
		return err
	}
	if existing != nil {
		return invalidf("task code %d is already in use", code)
	}

	assignee, err := l.users.FindByCode(assigneeCode)
	if err != nil {
		return err
	}
	if assignee == nil {
		return invalidf("user code %d does not exist", assigneeCode)
	}

	if status != models.StatusNotStarted {
		l.logger.Debug("ignoring requested initial status", "task", code, "status", int(status))
	}
	task := models.Task{
		Code:        code,
		Name:        name,
		Status:      models.StatusNotStarted,
		RepUserCode: assignee.Code,
		RepUser:     assignee,
	}
	if err := l.tasks.Save(task); err != nil {
		return err
	}

	if err := l.writeLog(task, loginUser); err != nil {
		return fmt.Errorf("task %d saved without creation log: %w", code, err)
	}
	l.logger.Info("task created", "task", code, "assignee", assignee.Code, "by", loginUser.Code)
	return nil
}

// ChangeStatus moves a task to newStatus, which must be exactly one step after
// the status currently stored.
func (l *TaskLogic) ChangeStatus(code int, newStatus models.Status, loginUser models.User) error {
	task, err := l.tasks.FindByCode(code)
	if err != nil {
		return err
	}
	if task == nil {
		return notFoundf("task %d does not exist", code)
	}

	next, ok := task.Status.Next()
	if !ok {
		return invalidf("task %d is already %s", code, task.Status)
	}
	if newStatus != next {
		return invalidf("task %d is %s and can only move to %s", code, task.Status, next)
	}

	task.Status = newStatus
	if err := l.tasks.Update(*task); err != nil {
		return err
	}
	if err := l.writeLog(*task, loginUser); err != nil {
		return fmt.Errorf("task %d updated without log: %w", code, err)
	}
	l.logger.Info("task status changed", "task", code, "status", int(newStatus), "by", loginUser.Code)
	return nil
}

// History returns the status log of a task, oldest first.
func (l *TaskLogic) History(code int) ([]models.Log, error) {
	task, err := l.tasks.FindByCode(code)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, notFoundf("task %d does not exist", code)
	}
	return l.logs.FindByTask(code)
}

func (l *TaskLogic) writeLog(t models.Task, actor models.User) error {
	return l.logs.Save(models.Log{
		TaskCode:   t.Code,
		Status:     t.Status,
		UserCode:   actor.Code,
		ChangeDate: l.now(),
	})
}
