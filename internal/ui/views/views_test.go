package views

import (
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/tasktrack/internal/config"
	"github.com/tgienger/tasktrack/internal/db"
	"github.com/tgienger/tasktrack/internal/db/dbtest"
	"github.com/tgienger/tasktrack/internal/logic"
	"github.com/tgienger/tasktrack/internal/models"
)

var alice = models.User{Code: 1, Name: "Alice", Email: "a@x.com", Password: "pw1"}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestLogic(t *testing.T, tasks string) (*logic.TaskLogic, config.Config) {
	t.Helper()
	d, cfg := dbtest.CreateTestDB(t, dbtest.Seed{
		Users: "1,Alice,a@x.com,pw1\n2,Bob,b@x.com,pw2",
		Tasks: tasks,
	})
	clock := func() time.Time { return time.Date(2026, 10, 14, 0, 0, 0, 0, time.Local) }
	return logic.New(d.Users, d.Tasks, d.Logs, nil, logic.WithClock(clock)), cfg
}

func loadedTaskList(t *testing.T, l *logic.TaskLogic) *TaskListView {
	t.Helper()
	v := NewTaskListView(l, alice)
	v.Update(v.Init()())
	require.True(t, v.loaded)
	return v
}

func tasksFile(t *testing.T, cfg config.Config) string {
	t.Helper()
	data, err := os.ReadFile(cfg.Path(config.TasksFile))
	require.NoError(t, err)
	return string(data)
}

func TestLoginView(t *testing.T) {
	l, _ := newTestLogic(t, "")

	t.Run("successful login", func(t *testing.T) {
		v := NewLoginView(l)
		v.Update(runes("a@x.com"))
		v.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.Equal(t, 1, v.focusIdx)
		v.Update(runes("pw1"))

		_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		msg := cmd()
		require.IsType(t, LoggedIn{}, msg)
		assert.Equal(t, alice, msg.(LoggedIn).User)
	})

	t.Run("bad password shows the generic error", func(t *testing.T) {
		v := NewLoginView(l)
		v.Update(runes("a@x.com"))
		v.Update(tea.KeyMsg{Type: tea.KeyTab})
		v.Update(runes("nope"))

		_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
		v.Update(cmd())

		assert.ErrorIs(t, v.err, logic.ErrAuthentication)
		assert.Empty(t, v.password.Value())
		assert.Contains(t, v.View(), "email or password is incorrect")
	})
}

func TestTaskListView(t *testing.T) {
	t.Run("lists tasks with assignee labels", func(t *testing.T) {
		l, _ := newTestLogic(t, "10,Mine,0,1\n11,Bobs,1,2\n12,Lost,0,9")
		v := loadedTaskList(t, l)

		require.Len(t, v.tasks, 3)
		out := v.View()
		assert.Contains(t, out, "Mine")
		assert.Contains(t, out, logic.SelfLabel)
		assert.Contains(t, out, "Bob")
		assert.Contains(t, out, logic.UnassignedLabel)
	})

	t.Run("advances the selected task", func(t *testing.T) {
		l, cfg := newTestLogic(t, "10,Mine,0,1\n11,Bobs,0,2")
		v := loadedTaskList(t, l)

		v.Update(tea.KeyMsg{Type: tea.KeyDown})
		_, cmd := v.Update(runes("1"))
		require.NotNil(t, cmd)
		v.Update(cmd())

		assert.NoError(t, v.err)
		assert.Equal(t, db.TasksHeader+"\n10,Mine,0,1\n11,Bobs,1,2", tasksFile(t, cfg))
		assert.Equal(t, models.StatusInProgress, v.tasks[1].Status)
		assert.Contains(t, v.View(), "Task 11 is now in progress")
	})

	t.Run("skipping a status is reported", func(t *testing.T) {
		l, cfg := newTestLogic(t, "10,Mine,0,1")
		v := loadedTaskList(t, l)

		_, cmd := v.Update(runes("2"))
		assert.Nil(t, cmd)
		assert.ErrorIs(t, v.err, logic.ErrValidation)
		assert.Equal(t, db.TasksHeader+"\n10,Mine,0,1", tasksFile(t, cfg))
	})

	t.Run("creates a task from the form", func(t *testing.T) {
		l, cfg := newTestLogic(t, "")
		v := loadedTaskList(t, l)

		v.Update(runes("n"))
		require.True(t, v.creating)
		v.Update(runes("100"))
		v.Update(tea.KeyMsg{Type: tea.KeyTab})
		v.Update(runes("Write"))
		v.Update(tea.KeyMsg{Type: tea.KeyTab})
		v.Update(runes("2"))

		_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
		require.NotNil(t, cmd)
		assert.False(t, v.creating)
		v.Update(cmd())

		assert.Equal(t, db.TasksHeader+"\n100,Write,0,2", tasksFile(t, cfg))
		require.Len(t, v.tasks, 1)
		assert.Equal(t, "Bob", v.tasks[0].Assignee)
	})

	t.Run("form errors keep the form open", func(t *testing.T) {
		l, cfg := newTestLogic(t, "")
		v := loadedTaskList(t, l)

		v.Update(runes("n"))
		v.Update(runes("abc"))
		v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
		assert.True(t, v.creating)
		assert.ErrorIs(t, v.formErr, logic.ErrValidation)

		v.startNewTask()
		v.Update(runes("5"))
		v.Update(tea.KeyMsg{Type: tea.KeyTab})
		v.Update(runes("a,b"))
		v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
		assert.True(t, v.creating)
		assert.ErrorIs(t, v.formErr, logic.ErrValidation)
		assert.Contains(t, v.View(), "commas")

		assert.Equal(t, db.TasksHeader, tasksFile(t, cfg))

		v.Update(tea.KeyMsg{Type: tea.KeyEsc})
		assert.False(t, v.creating)
	})

	t.Run("shows the history of the selected task", func(t *testing.T) {
		l, _ := newTestLogic(t, "")
		require.NoError(t, l.Save(100, "Write", 0, alice))
		require.NoError(t, l.ChangeStatus(100, models.StatusInProgress, alice))
		v := loadedTaskList(t, l)

		_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		v.Update(cmd())

		require.True(t, v.viewingHistory)
		require.Len(t, v.history, 2)
		out := v.View()
		assert.Contains(t, out, "Task 100: Write")
		assert.Contains(t, out, "2026-10-14")

		v.Update(tea.KeyMsg{Type: tea.KeyEsc})
		assert.False(t, v.viewingHistory)
	})

	t.Run("log out", func(t *testing.T) {
		l, _ := newTestLogic(t, "")
		v := loadedTaskList(t, l)

		_, cmd := v.Update(runes("L"))
		require.NotNil(t, cmd)
		assert.IsType(t, LoggedOut{}, cmd())
	})
}
