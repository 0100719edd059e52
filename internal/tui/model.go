// Package tui is the interactive terminal front end.
//
// The model owns a state.State and drives it with the same Begin/Finish
// transitions the one-shot commands use: Begin runs in Update, the request
// runs in a tea.Cmd, and Finish runs when the result message arrives.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todocat/internal/service"
	"todocat/internal/state"
)

type mode int

const (
	modeBrowse mode = iota
	modeNewCategory
	modeNewTask
)

// Option configures the model.
type Option func(*Model)

// WithTestReporter enables the E key, which sends a test error event.
func WithTestReporter(report func() (string, error)) Option {
	return func(m *Model) {
		m.reportTest = report
	}
}

// Model is the bubbletea model.
type Model struct {
	ctx context.Context
	svc service.Service
	st  *state.State

	mode      mode
	cursor    int
	nameInput textinput.Model
	descInput textinput.Model
	// pick is the id of the category selected in the task form, 0 for none.
	pick int64

	status     string
	reportTest func() (string, error)
	width      int
}

// New creates a model over svc.
func New(ctx context.Context, svc service.Service, opts ...Option) *Model {
	m := &Model{
		ctx:       ctx,
		svc:       svc,
		st:        state.New(),
		nameInput: newInput("Category name", 255),
		descInput: newInput("Task description", 0),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.CharLimit = limit
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// Run starts the program and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, svc service.Service, opts ...Option) error {
	program := tea.NewProgram(New(ctx, svc, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// State exposes the synchronized state.
func (m *Model) State() *state.State {
	return m.st
}

// Init loads categories and tasks.
func (m *Model) Init() tea.Cmd {
	return m.refresh()
}

// Update handles a message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case categoriesLoadedMsg:
		m.st.FinishLoadCategories(msg.ticket, msg.categories, msg.err)
		m.clampPick()
		return m, nil

	case tasksLoadedMsg:
		m.st.FinishLoadTasks(msg.ticket, msg.tasks, msg.err)
		m.clampCursor()
		return m, nil

	case categoryCreatedMsg:
		m.st.FinishCreateCategory(msg.category, msg.err)
		if msg.err == nil {
			m.nameInput.Reset()
			m.leaveForm()
		}
		return m, nil

	case taskCreatedMsg:
		m.st.FinishCreateTask(msg.task, msg.err)
		if msg.err == nil {
			m.descInput.Reset()
			m.pick = 0
			m.cursor = 0
			m.leaveForm()
		}
		return m, nil

	case taskToggledMsg:
		m.st.FinishToggleTask(msg.id, msg.task, msg.err)
		return m, nil

	case taskDeletedMsg:
		m.st.FinishDeleteTask(msg.id, msg.err)
		m.clampCursor()
		return m, nil

	case testErrorMsg:
		if msg.err != nil {
			m.status = "Error reporting failed: " + msg.err.Error()
		} else {
			m.status = "Test error sent (" + msg.id + ")"
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeNewCategory:
			return m.updateCategoryForm(msg)
		case modeNewTask:
			return m.updateTaskForm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.st.Visible())-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case " ", "enter", "x":
		if task, ok := m.selected(); ok {
			return m, m.toggle(task.ID)
		}
	case "d":
		if task, ok := m.selected(); ok {
			return m, m.delete(task.ID)
		}
	case "f":
		return m, m.cycleFilter()
	case "r":
		return m, m.refresh()
	case "c":
		m.mode = modeNewCategory
		m.nameInput.Focus()
	case "a":
		m.mode = modeNewTask
		m.descInput.Focus()
	case "E":
		if m.reportTest != nil {
			return m, m.sendTestError()
		}
	}
	return m, nil
}

func (m *Model) updateCategoryForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.leaveForm()
		return m, nil
	case "enter":
		m.st.CategoryForm.Name = m.nameInput.Value()
		if !m.st.CategoryForm.CanSubmit() || m.st.Loading.AddCategory {
			return m, nil
		}
		return m, m.createCategory()
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	m.st.CategoryForm.Name = m.nameInput.Value()
	return m, cmd
}

func (m *Model) updateTaskForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.leaveForm()
		return m, nil
	case "tab":
		m.cyclePick(1)
		return m, nil
	case "shift+tab":
		m.cyclePick(-1)
		return m, nil
	case "enter":
		m.syncTaskForm()
		if !m.st.TaskForm.CanSubmit() || m.st.Loading.AddTask {
			return m, nil
		}
		return m, m.createTask()
	}

	var cmd tea.Cmd
	m.descInput, cmd = m.descInput.Update(msg)
	m.syncTaskForm()
	return m, cmd
}

func (m *Model) leaveForm() {
	m.mode = modeBrowse
	m.nameInput.Blur()
	m.descInput.Blur()
}

func (m *Model) syncTaskForm() {
	m.st.TaskForm.Description = m.descInput.Value()
	m.st.TaskForm.Category = ""
	if m.pickIndex() >= 0 {
		m.st.TaskForm.Category = strconv.FormatInt(m.pick, 10)
	}
}

// pickIndex returns the position of the selected category in the loaded list, or -1.
func (m *Model) pickIndex() int {
	if m.pick == 0 {
		return -1
	}
	for i, cat := range m.st.Categories {
		if cat.ID == m.pick {
			return i
		}
	}
	return -1
}

// cyclePick moves the task form's category selection, wrapping through "none".
func (m *Model) cyclePick(step int) {
	n := len(m.st.Categories)
	if n == 0 {
		m.pick = 0
		m.syncTaskForm()
		return
	}
	// Positions 0..n-1 are categories, n is "none".
	pos := m.pickIndex()
	if pos < 0 {
		pos = n
	}
	pos = (pos + step + n + 1) % (n + 1)
	m.pick = 0
	if pos < n {
		m.pick = m.st.Categories[pos].ID
	}
	m.syncTaskForm()
}

// cycleFilter steps through All and each category in order.
func (m *Model) cycleFilter() tea.Cmd {
	cats := m.st.Categories
	next := service.FilterAll
	if id, ok := m.st.Filter.CategoryID(); ok {
		for i, cat := range cats {
			if cat.ID == id && i+1 < len(cats) {
				next = service.FilterCategory(cats[i+1].ID)
			}
		}
	} else if len(cats) > 0 {
		next = service.FilterCategory(cats[0].ID)
	}

	if !m.st.SetFilter(next) {
		return nil
	}
	m.cursor = 0
	return m.loadTasks()
}

func (m *Model) selected() (service.Task, bool) {
	tasks := m.st.Visible()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return service.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.st.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// clampPick drops a selection whose category is no longer loaded.
func (m *Model) clampPick() {
	if m.pick != 0 && m.pickIndex() < 0 {
		m.pick = 0
	}
	if m.mode == modeNewTask {
		m.syncTaskForm()
	}
}

func (m *Model) describePick() string {
	i := m.pickIndex()
	if i < 0 {
		return "Select a category"
	}
	return fmt.Sprintf("%s (tab to change)", m.st.Categories[i].Name)
}
