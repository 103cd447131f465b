package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/tasktrack/internal/db/dbtest"
	"github.com/tgienger/tasktrack/internal/logic"
	"github.com/tgienger/tasktrack/internal/ui/views"
)

// deliver runs cmd and feeds every message it produces back into the app,
// one level deep.
func deliver(a *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c != nil {
				a.Update(c())
			}
		}
		return
	}
	a.Update(msg)
}

func TestAppLoginAndLogout(t *testing.T) {
	d, _ := dbtest.CreateTestDB(t, dbtest.Seed{
		Users: "1,Alice,a@x.com,pw1",
		Tasks: "10,Mine,0,1",
	})
	app := NewApp(logic.New(d.Users, d.Tasks, d.Logs, nil))
	app.Init()
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	require.Equal(t, ViewLogin, app.CurrentView())

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a@x.com")})
	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("pw1")})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	msg := cmd()
	require.IsType(t, views.LoggedIn{}, msg)
	_, cmd = app.Update(msg)
	deliver(app, cmd)

	assert.Equal(t, ViewTasks, app.CurrentView())
	assert.Contains(t, app.View(), "logged in as Alice")
	assert.Contains(t, app.View(), "Mine")

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("L")})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, ViewLogin, app.CurrentView())
	assert.Contains(t, app.View(), "Task Tracker")
}
