package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/tasktrack/internal/logic"
	"github.com/tgienger/tasktrack/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewLogin View = iota
	ViewTasks
)

type App struct {
	logic       *logic.TaskLogic
	currentView View
	login       *views.LoginView
	taskList    *views.TaskListView
	width       int
	height      int
}

// Creates a new application starting at the login screen
func NewApp(l *logic.TaskLogic) *App {
	return &App{
		logic:       l,
		currentView: ViewLogin,
		login:       views.NewLoginView(l),
	}
}

func (a *App) Init() tea.Cmd {
	return a.login.Init()
}

// CurrentView reports which screen is showing
func (a *App) CurrentView() View {
	return a.currentView
}

func (a *App) resize() tea.Cmd {
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: a.width, Height: a.height}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// The login view persists across sessions
		a.login.Update(msg)

	case views.LoggedIn:
		a.currentView = ViewTasks
		a.taskList = views.NewTaskListView(a.logic, msg.User)
		return a, tea.Batch(a.taskList.Init(), a.resize())

	case views.LoggedOut:
		a.currentView = ViewLogin
		a.taskList = nil
		a.login = views.NewLoginView(a.logic)
		return a, tea.Batch(a.login.Init(), a.resize())
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewLogin:
		_, cmd = a.login.Update(msg)
	case ViewTasks:
		_, cmd = a.taskList.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	if a.currentView == ViewTasks && a.taskList != nil {
		return a.taskList.View()
	}
	return a.login.View()
}
