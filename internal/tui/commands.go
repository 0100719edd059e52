package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"todocat/internal/service"
	"todocat/internal/state"
)

type categoriesLoadedMsg struct {
	ticket     state.Ticket
	categories []service.Category
	err        error
}

type tasksLoadedMsg struct {
	ticket state.Ticket
	tasks  []service.Task
	err    error
}

type categoryCreatedMsg struct {
	category service.Category
	err      error
}

type taskCreatedMsg struct {
	task service.Task
	err  error
}

type taskToggledMsg struct {
	id   int64
	task service.Task
	err  error
}

type taskDeletedMsg struct {
	id  int64
	err error
}

type testErrorMsg struct {
	id  string
	err error
}

func (m *Model) refresh() tea.Cmd {
	return tea.Batch(m.loadCategories(), m.loadTasks())
}

func (m *Model) loadCategories() tea.Cmd {
	ticket := m.st.BeginLoadCategories()
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		cats, err := svc.ListCategories(ctx)
		return categoriesLoadedMsg{ticket: ticket, categories: cats, err: err}
	}
}

func (m *Model) loadTasks() tea.Cmd {
	ticket := m.st.BeginLoadTasks()
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		tasks, err := svc.ListTasks(ctx, ticket.Filter)
		return tasksLoadedMsg{ticket: ticket, tasks: tasks, err: err}
	}
}

func (m *Model) createCategory() tea.Cmd {
	name, err := m.st.BeginCreateCategory()
	if err != nil {
		return nil
	}
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		cat, err := svc.CreateCategory(ctx, name)
		return categoryCreatedMsg{category: cat, err: err}
	}
}

func (m *Model) createTask() tea.Cmd {
	in, err := m.st.BeginCreateTask()
	if err != nil {
		return nil
	}
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		task, err := svc.CreateTask(ctx, in)
		return taskCreatedMsg{task: task, err: err}
	}
}

func (m *Model) toggle(id int64) tea.Cmd {
	patch, err := m.st.BeginToggleTask(id)
	if err != nil {
		// Already in flight or gone; the key press is dropped.
		return nil
	}
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		task, err := svc.UpdateTask(ctx, id, patch)
		return taskToggledMsg{id: id, task: task, err: err}
	}
}

func (m *Model) delete(id int64) tea.Cmd {
	if err := m.st.BeginDeleteTask(id); err != nil {
		return nil
	}
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		return taskDeletedMsg{id: id, err: svc.DeleteTask(ctx, id)}
	}
}

func (m *Model) sendTestError() tea.Cmd {
	report := m.reportTest
	return func() tea.Msg {
		id, err := report()
		if err == nil && id == "" {
			err = errors.New("no event id")
		}
		return testErrorMsg{id: id, err: err}
	}
}
