// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvierd/tempo/internal/domain"
	"github.com/xvierd/tempo/internal/services"
)

// dispatchMsg carries a controller callback onto the program goroutine.
type dispatchMsg func()

// inputPurpose is what the text input is currently collecting.
type inputPurpose int

const (
	inputNone inputPurpose = iota
	inputAddTask
	inputEditTask
	inputSearch
	inputTag
	inputNote
)

var inputPrompts = map[inputPurpose]string{
	inputAddTask:  "New task: ",
	inputEditTask: "Edit task: ",
	inputSearch:   "Search: ",
	inputTag:      "Tag: ",
	inputNote:     "Note: ",
}

var priorityCycle = []domain.Priority{
	domain.PriorityNone,
	domain.PriorityLow,
	domain.PriorityMedium,
	domain.PriorityHigh,
}

// Model is the bubbletea model hosting a Controller. The controller is only
// touched from Update and View, which run on the program goroutine.
type Model struct {
	ctx      context.Context
	ctrl     *services.Controller
	progress progress.Model
	input    textinput.Model

	purpose  inputPurpose
	editing  int64
	cursor   int
	query    string
	rating   int
	template int
	showHelp bool

	width  int
	height int
}

// NewModel creates a model for an initialized controller.
func NewModel(ctx context.Context, ctrl *services.Controller, width int) Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 40

	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		input:    ti,
		width:    width,
	}
	m.resize(width)
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dispatchMsg:
		msg()
		return m, nil

	case tea.FocusMsg:
		// the terminal regained focus, possibly after the machine slept
		m.ctrl.SyncWithWallClock()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize(msg.Width)
		return m, nil

	case tea.KeyMsg:
		if m.purpose != inputNone {
			return m.updateInput(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) resize(width int) {
	if width > 8 {
		m.progress.Width = min(width-8, 60)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := m.ctx
	c := m.ctrl

	if c.RetrospectivePending() {
		switch k := msg.String(); k {
		case "1", "2", "3", "4", "5":
			m.rating = int(k[0] - '0')
			return m.openInput(inputNote, "")
		case "esc":
			c.DismissRetrospective()
			return m, nil
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
	case " ":
		c.Toggle(ctx)
	case "enter":
		if c.Dialog() != nil || c.IsRinging() {
			c.DismissCompletion()
		}
	case "s":
		c.Skip(ctx)
	case "n":
		c.StartNewSession(ctx)
		m.cursor = 0
	case "f":
		c.SetMode(ctx, domain.ModeFocus)
	case "b":
		c.SetMode(ctx, domain.ModeShortBreak)
	case "l":
		c.SetMode(ctx, domain.ModeLongBreak)
	case "y":
		if c.StreakWarning() {
			c.AcknowledgeStreakWarning()
			c.Start(ctx)
		}
	case "T":
		m.cycleTemplate()
	case "t":
		tag := ""
		if s := c.Session(); s != nil {
			tag = s.Tag
		}
		return m.openInput(inputTag, tag)
	case "i":
		c.AddDistraction(ctx)
	case "a":
		return m.openInput(inputAddTask, "")
	case "/":
		return m.openInput(inputSearch, m.query)
	case "esc":
		m.query = ""
		m.cursor = 0
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visibleTasks())-1 {
			m.cursor++
		}
	case "K":
		m.moveSelected(-1)
	case "J":
		m.moveSelected(1)
	case "C":
		c.CompleteAllTasks(ctx)
	case "D":
		c.DeleteCompletedTasks(ctx)
		m.clampCursor()
	default:
		return m.handleTaskKey(msg.String())
	}
	return m, nil
}

// handleTaskKey applies keys that act on the selected task.
func (m Model) handleTaskKey(key string) (tea.Model, tea.Cmd) {
	task := m.selected()
	if task == nil {
		return m, nil
	}
	ctx := m.ctx
	switch key {
	case "x":
		m.ctrl.ToggleTask(ctx, task.ID)
	case "e":
		m.editing = task.ID
		return m.openInput(inputEditTask, task.Text)
	case "d":
		m.ctrl.DeleteTask(ctx, task.ID)
		m.clampCursor()
	case "p":
		m.ctrl.SetTaskPriority(ctx, task.ID, nextPriority(task.Priority))
	case "+":
		m.ctrl.SetTaskEstimate(ctx, task.ID, task.EstimatedPomodoros+1)
	case "-":
		m.ctrl.SetTaskEstimate(ctx, task.ID, task.EstimatedPomodoros-1)
	}
	return m, nil
}

func (m Model) openInput(purpose inputPurpose, value string) (tea.Model, tea.Cmd) {
	m.purpose = purpose
	m.input.Prompt = inputPrompts[purpose]
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.submitInput(strings.TrimSpace(m.input.Value()))
		m.closeInput()
		return m, nil
	case tea.KeyEsc:
		if m.purpose == inputNote {
			// keep the rating, drop the note
			m.ctrl.SubmitRetrospective(m.ctx, m.rating, "")
		}
		m.closeInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.purpose == inputSearch {
		m.query = m.input.Value()
		m.cursor = 0
	}
	return m, cmd
}

func (m *Model) submitInput(value string) {
	ctx := m.ctx
	switch m.purpose {
	case inputAddTask:
		if m.ctrl.AddTask(ctx, value) != nil {
			m.query = ""
			m.cursor = len(m.ctrl.Tasks()) - 1
		}
	case inputEditTask:
		m.ctrl.EditTask(ctx, m.editing, value)
	case inputSearch:
		m.query = value
		m.cursor = 0
	case inputTag:
		m.ctrl.SetTag(ctx, value)
	case inputNote:
		m.ctrl.SubmitRetrospective(ctx, m.rating, value)
	}
}

func (m *Model) closeInput() {
	m.purpose = inputNone
	m.editing = 0
	m.input.Reset()
	m.input.Blur()
}

// visibleTasks returns the search results, or every task without a query.
func (m Model) visibleTasks() []*domain.Task {
	if strings.TrimSpace(m.query) != "" {
		return m.ctrl.SearchTasks(m.query)
	}
	return m.ctrl.Tasks()
}

func (m Model) selected() *domain.Task {
	tasks := m.visibleTasks()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return nil
	}
	return tasks[m.cursor]
}

func (m *Model) clampCursor() {
	if n := len(m.visibleTasks()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// moveSelected reorders the selected task within the full list.
func (m *Model) moveSelected(delta int) {
	if m.query != "" {
		return
	}
	task := m.selected()
	if task == nil {
		return
	}
	to := m.cursor + delta
	if to < 0 || to >= len(m.ctrl.Tasks()) {
		return
	}
	m.ctrl.ReorderTask(m.ctx, task.ID, to)
	m.cursor = to
}

func (m *Model) cycleTemplate() {
	templates := m.ctrl.Templates()
	if len(templates) == 0 {
		return
	}
	next := (m.template + 1) % len(templates)
	if m.ctrl.ApplyTemplate(m.ctx, templates[next].Name) {
		m.template = next
	}
}

func nextPriority(p domain.Priority) domain.Priority {
	for i, candidate := range priorityCycle {
		if candidate == p {
			return priorityCycle[(i+1)%len(priorityCycle)]
		}
	}
	return domain.PriorityLow
}
