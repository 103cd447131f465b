package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/tasktrack/internal/db"
	"github.com/tgienger/tasktrack/internal/logic"
	"github.com/tgienger/tasktrack/internal/models"
	"github.com/tgienger/tasktrack/internal/ui/keys"
	"github.com/tgienger/tasktrack/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// LoggedOut signals to go back to the login screen
type LoggedOut struct{}

type tasksLoadedMsg struct {
	tasks []logic.TaskView
}

type historyLoadedMsg struct {
	task models.Task
	logs []models.Log
}

type errMsg struct {
	err error
}

// TaskListView shows every task and lets the logged in user create and advance them
type TaskListView struct {
	logic  *logic.TaskLogic
	user   models.User
	tasks  []logic.TaskView
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	cursor  int
	scrollY int
	loaded  bool
	notice  string
	err     error

	// Task creation
	creating     bool
	editCode     textinput.Model
	editName     textinput.Model
	editAssignee textinput.Model
	editFocusIdx int // 0=code, 1=name, 2=assignee, 3=save
	formErr      error

	// History of the selected task
	viewingHistory bool
	historyTask    models.Task
	history        []models.Log

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

// NewTaskListView creates a new task list view for user
func NewTaskListView(l *logic.TaskLogic, user models.User) *TaskListView {
	editCode := textinput.New()
	editCode.Placeholder = "Task code"
	editCode.CharLimit = 9

	editName := textinput.New()
	editName.Placeholder = fmt.Sprintf("Up to %d characters", logic.MaxNameLength)
	editName.CharLimit = logic.MaxNameLength

	editAssignee := textinput.New()
	editAssignee.Placeholder = "User code (blank = you)"
	editAssignee.CharLimit = 9

	return &TaskListView{
		logic:        l,
		user:         user,
		styles:       styles.NewStyles(),
		keys:         keys.DefaultKeyMap(),
		editCode:     editCode,
		editName:     editName,
		editAssignee: editAssignee,
	}
}

// Init initializes the view
func (v *TaskListView) Init() tea.Cmd {
	return v.loadTasks
}

func (v *TaskListView) loadTasks() tea.Msg {
	tasks, err := v.logic.ShowAll(v.user)
	if err != nil {
		return errMsg{err: err}
	}
	return tasksLoadedMsg{tasks: tasks}
}

func (v *TaskListView) loadHistory(task models.Task) tea.Cmd {
	return func() tea.Msg {
		logs, err := v.logic.History(task.Code)
		if err != nil {
			return errMsg{err: err}
		}
		return historyLoadedMsg{task: task, logs: logs}
	}
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tasksLoadedMsg:
		v.tasks = msg.tasks
		v.loaded = true
		if v.cursor >= len(v.tasks) {
			v.cursor = max(0, len(v.tasks)-1)
		}
		return v, nil

	case historyLoadedMsg:
		v.viewingHistory = true
		v.historyTask = msg.task
		v.history = msg.logs
		return v, nil

	case errMsg:
		v.err = msg.err
		v.notice = ""
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.creating {
			return v.updateCreating(msg)
		}

		if v.viewingHistory {
			return v.updateViewingHistory(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Logout):
		return v, func() tea.Msg { return LoggedOut{} }

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Reload):
		v.err, v.notice = nil, ""
		return v, v.loadTasks

	case key.Matches(msg, v.keys.Enter):
		if task, ok := v.selected(); ok {
			return v, v.loadHistory(task.Task)
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.InProgress):
		return v, v.changeStatus(models.StatusInProgress)

	case key.Matches(msg, v.keys.Done):
		return v, v.changeStatus(models.StatusDone)

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) selected() (logic.TaskView, bool) {
	if v.cursor < 0 || v.cursor >= len(v.tasks) {
		return logic.TaskView{}, false
	}
	return v.tasks[v.cursor], true
}

func (v *TaskListView) changeStatus(status models.Status) tea.Cmd {
	task, ok := v.selected()
	if !ok {
		return nil
	}
	if err := v.logic.ChangeStatus(task.Code, status, v.user); err != nil {
		v.err, v.notice = err, ""
		return nil
	}
	v.err = nil
	v.notice = fmt.Sprintf("Task %d is now %s", task.Code, status)
	return v.loadTasks
}

func (v *TaskListView) updateViewingHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit) && msg.String() == "ctrl+c":
		return v, tea.Quit
	case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Quit):
		v.viewingHistory = false
		v.history = nil
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) startNewTask() {
	v.creating = true
	v.formErr = nil
	v.editFocusIdx = 0
	v.editCode.Reset()
	v.editName.Reset()
	v.editAssignee.Reset()
	v.updateEditFocus()
}

func (v *TaskListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.saveTask()

	case key.Matches(msg, v.keys.ShiftTab):
		v.editFocusIdx = (v.editFocusIdx + 3) % 4
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % 4
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.editFocusIdx < 3 {
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		}
		return v, v.saveTask()
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case 0:
		v.editCode, cmd = v.editCode.Update(msg)
	case 1:
		v.editName, cmd = v.editName.Update(msg)
	case 2:
		v.editAssignee, cmd = v.editAssignee.Update(msg)
	}
	return v, cmd
}

func (v *TaskListView) updateEditFocus() {
	v.editCode.Blur()
	v.editName.Blur()
	v.editAssignee.Blur()
	switch v.editFocusIdx {
	case 0:
		v.editCode.Focus()
	case 1:
		v.editName.Focus()
	case 2:
		v.editAssignee.Focus()
	}
}

// saveTask validates the form and creates the task. Errors stay on the form.
func (v *TaskListView) saveTask() tea.Cmd {
	code, err := logic.ParseCode(v.editCode.Value())
	if err != nil {
		v.formErr = err
		return nil
	}
	name := v.editName.Value()
	if err := logic.ValidateName(name); err != nil {
		v.formErr = err
		return nil
	}

	assignee := v.user.Code
	if raw := strings.TrimSpace(v.editAssignee.Value()); raw != "" {
		if assignee, err = logic.ParseCode(raw); err != nil {
			v.formErr = err
			return nil
		}
	}

	if err := v.logic.SaveAssigned(code, name, models.StatusNotStarted, assignee, v.user); err != nil {
		v.formErr = err
		return nil
	}

	v.creating = false
	v.err = nil
	v.notice = fmt.Sprintf("Task %d created", code)
	return v.loadTasks
}

func (v *TaskListView) ensureVisible() {
	visibleItems := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

func (v *TaskListView) visibleItems() int {
	// One line per task, below the header and above the help and status lines
	if v.height == 0 {
		return len(v.tasks) + 1
	}
	return max(v.height-9, 1)
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.creating {
		return v.renderCreateForm()
	}

	if v.viewingHistory {
		return v.renderHistory()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	b.WriteString(v.renderStatus())
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	return lipgloss.JoinHorizontal(lipgloss.Top,
		s.Title.Render("Tasks"),
		s.TitleMuted.Render(fmt.Sprintf("  logged in as %s", v.user.Name)),
	)
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles

	if !v.loaded {
		return s.TitleMuted.Render("Loading...")
	}
	if len(v.tasks) == 0 {
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	endIdx := min(v.scrollY+v.visibleItems(), len(v.tasks))
	var items []string
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(v.tasks[i], i == v.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(task logic.TaskView, selected bool) string {
	s := v.styles
	width := styles.ContentWidth(v.width) - 2

	rowStyle := s.Row
	if selected {
		rowStyle = s.RowSelected
	}

	line := fmt.Sprintf("%s  %-9s  %-20s  %s",
		s.Code.Render(fmt.Sprintf("%4d", task.Code)),
		task.Name,
		task.Assignee,
		s.Status(task.Status).Render(task.Status.String()),
	)
	return rowStyle.Width(width).Render(line)
}

func (v *TaskListView) renderStatus() string {
	switch {
	case v.err != nil:
		return v.styles.ErrorText.Render(v.err.Error())
	case v.notice != "":
		return v.styles.StatusBar.Render(v.notice)
	}
	return ""
}

func (v *TaskListView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 40)

	inputs := []lipgloss.Style{s.Input, s.Input, s.Input}
	btnStyle := s.Button
	if v.editFocusIdx < 3 {
		inputs[v.editFocusIdx] = s.InputFocused
	} else {
		btnStyle = s.ButtonFocused
	}

	lines := []string{
		s.Title.Render("New Task"),
		"",
		s.Label.Render("Code:"),
		inputs[0].Width(inputWidth).Render(v.editCode.View()),
		s.Label.Render("Name:"),
		inputs[1].Width(inputWidth).Render(v.editName.View()),
		s.Label.Render("Assignee:"),
		inputs[2].Width(inputWidth).Render(v.editAssignee.View()),
		"",
		btnStyle.Render(" Create "),
	}
	if v.formErr != nil {
		lines = append(lines, "", s.ErrorText.Render(v.formErr.Error()))
	}
	lines = append(lines, "", s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"))

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderHistory() string {
	s := v.styles
	t := v.historyTask

	lines := []string{
		s.Title.Render(fmt.Sprintf("Task %d: %s", t.Code, t.Name)),
		"",
	}
	if len(v.history) == 0 {
		lines = append(lines, s.TitleMuted.Render("No status changes recorded."))
	}
	for _, l := range v.history {
		lines = append(lines, fmt.Sprintf("%s  %s  by user %d",
			s.Label.Render(l.ChangeDate.Format(db.DateLayout)),
			s.Status(l.Status).Render(fmt.Sprintf("%-11s", l.Status)),
			l.UserCode,
		))
	}
	lines = append(lines, "", s.TitleMuted.Render("Esc: back"))

	return styles.CenterView(lipgloss.JoinVertical(lipgloss.Left, lines...), v.width, v.height)
}

func (v *TaskListView) renderHelp() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth < 60 {
		return s.Help.Render(s.HelpKey.Render("?") + " help")
	}
	return s.Help.Render(
		fmt.Sprintf("%s history • %s new • %s start • %s finish • %s log out • %s quit",
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("n"),
			s.HelpKey.Render("1"),
			s.HelpKey.Render("2"),
			s.HelpKey.Render("L"),
			s.HelpKey.Render("q"),
		),
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	bindings := []key.Binding{
		v.keys.Up, v.keys.Down, v.keys.Enter, v.keys.New,
		v.keys.InProgress, v.keys.Done, v.keys.Reload, v.keys.Logout, v.keys.Quit,
	}
	items := []string{s.Title.Render("Keyboard Shortcuts"), ""}
	for _, b := range bindings {
		h := b.Help()
		items = append(items, fmt.Sprintf("%s  %s", s.HelpKey.Render(fmt.Sprintf("%-6s", h.Key)), h.Desc))
	}
	items = append(items, "", s.TitleMuted.Render("Press any key to close"))

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(lipgloss.JoinVertical(lipgloss.Left, items...)),
	)
	return styles.CenterView(centered, v.width, v.height)
}
