package views

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/tasktrack/internal/logic"
	"github.com/tgienger/tasktrack/internal/models"
	"github.com/tgienger/tasktrack/internal/ui/keys"
	"github.com/tgienger/tasktrack/internal/ui/styles"
)

// LoggedIn is sent once the credentials have been accepted
type LoggedIn struct {
	User models.User
}

type loginFailedMsg struct {
	err error
}

// LoginView asks for an email and password
type LoginView struct {
	logic  *logic.TaskLogic
	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int

	email    textinput.Model
	password textinput.Model
	focusIdx int // 0=email, 1=password
	err      error
}

func NewLoginView(l *logic.TaskLogic) *LoginView {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 200
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 200
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &LoginView{
		logic:    l,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		email:    email,
		password: password,
	}
}

func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case loginFailedMsg:
		v.err = msg.err
		v.password.Reset()
		v.focusIdx = 1
		v.updateFocus()
		return v, nil

	case tea.KeyMsg:
		switch {
		case msg.String() == "ctrl+c", key.Matches(msg, v.keys.Back):
			return v, tea.Quit

		case key.Matches(msg, v.keys.Tab), key.Matches(msg, v.keys.ShiftTab):
			v.focusIdx = 1 - v.focusIdx
			v.updateFocus()
			return v, nil

		case key.Matches(msg, v.keys.Enter):
			if v.focusIdx == 0 {
				v.focusIdx = 1
				v.updateFocus()
				return v, nil
			}
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	if v.focusIdx == 0 {
		v.email, cmd = v.email.Update(msg)
	} else {
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

func (v *LoginView) submit() tea.Cmd {
	email, password := v.email.Value(), v.password.Value()
	return func() tea.Msg {
		u, err := v.logic.Login(email, password)
		if err != nil {
			return loginFailedMsg{err: err}
		}
		return LoggedIn{User: u}
	}
}

func (v *LoginView) updateFocus() {
	v.email.Blur()
	v.password.Blur()
	if v.focusIdx == 0 {
		v.email.Focus()
	} else {
		v.password.Focus()
	}
}

// View renders the view
func (v *LoginView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 40)

	emailStyle, passStyle := s.InputFocused, s.Input
	if v.focusIdx == 1 {
		emailStyle, passStyle = s.Input, s.InputFocused
	}

	lines := []string{
		s.Title.Render("Task Tracker"),
		"",
		s.Label.Render("Email:"),
		emailStyle.Width(inputWidth).Render(v.email.View()),
		s.Label.Render("Password:"),
		passStyle.Width(inputWidth).Render(v.password.View()),
	}
	if v.err != nil {
		lines = append(lines, "", s.ErrorText.Render(v.err.Error()))
	}
	lines = append(lines, "", s.TitleMuted.Render("Tab: next • Enter: log in • Esc: quit"))

	form := lipgloss.JoinVertical(lipgloss.Left, lines...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
