package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todocat/internal/service"
	"todocat/internal/state"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	headingStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	filterStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle    = lipgloss.NewStyle().Faint(true)
)

// View renders the model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("todocat"))
	b.WriteString("\n\n")

	if m.st.Errors.Global != "" {
		b.WriteString(errorStyle.Render(m.st.Errors.Global))
		b.WriteString("\n\n")
	}

	m.writeCategories(&b)
	m.writeCategoryForm(&b)
	m.writeTaskForm(&b)
	m.writeFilter(&b)
	m.writeTasks(&b)

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.helpLine()))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) writeCategories(b *strings.Builder) {
	b.WriteString(headingStyle.Render("Categories"))
	b.WriteString("\n")
	switch {
	case m.st.Loading.Categories:
		b.WriteString("Loading...\n")
	case len(m.st.Categories) == 0:
		b.WriteString("No categories.\n")
	default:
		for _, cat := range m.st.Categories {
			fmt.Fprintf(b, "  %s\n", cat.Name)
		}
	}
	b.WriteString("\n")
}

func (m *Model) writeCategoryForm(b *strings.Builder) {
	b.WriteString(headingStyle.Render("New category"))
	if m.st.Loading.AddCategory {
		b.WriteString(" " + mutedStyle.Render("Adding..."))
	}
	b.WriteString("\n")
	if m.mode == modeNewCategory {
		b.WriteString(m.nameInput.View())
		b.WriteString("\n")
	}
	if msg := m.st.Errors.Category; msg != "" {
		b.WriteString(errorStyle.Render(msg))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (m *Model) writeTaskForm(b *strings.Builder) {
	b.WriteString(headingStyle.Render("New task"))
	if m.st.Loading.AddTask {
		b.WriteString(" " + mutedStyle.Render("Adding..."))
	}
	b.WriteString("\n")
	if m.mode == modeNewTask {
		b.WriteString(m.descInput.View())
		b.WriteString("\n")
		fmt.Fprintf(b, "  Category: %s\n", m.describePick())
	}
	for _, field := range []string{"description", "category", state.DetailField} {
		if msg := m.st.Errors.TaskField(field); msg != "" {
			b.WriteString(errorStyle.Render(msg))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
}

func (m *Model) writeFilter(b *strings.Builder) {
	b.WriteString("Filter: ")
	options := []string{m.filterLabel("All", m.st.Filter.IsAll())}
	for _, cat := range m.st.Categories {
		id, ok := m.st.Filter.CategoryID()
		options = append(options, m.filterLabel(cat.Name, ok && id == cat.ID))
	}
	b.WriteString(strings.Join(options, "  "))
	b.WriteString("\n\n")
}

func (m *Model) filterLabel(name string, active bool) string {
	if active {
		return filterStyle.Render("[" + name + "]")
	}
	return name
}

func (m *Model) writeTasks(b *strings.Builder) {
	b.WriteString(headingStyle.Render("Tasks"))
	b.WriteString("\n")
	if m.st.Loading.Tasks {
		b.WriteString("Loading...\n")
	}
	if m.st.ShowEmpty() {
		b.WriteString(state.MsgNoTasks)
		b.WriteString("\n")
		return
	}
	for i, task := range m.st.Visible() {
		line := m.taskLine(task)
		if i == m.cursor && m.mode == modeBrowse {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func (m *Model) taskLine(task service.Task) string {
	mark := "[ ]"
	if task.IsCompleted {
		mark = "[x]"
	}
	desc := task.Description
	if task.IsCompleted {
		desc = doneStyle.Render(desc)
	}
	line := fmt.Sprintf("%s %s  %s", mark, desc, mutedStyle.Render(state.CategoryName(task)))
	switch {
	case m.st.Loading.IsUpdating(task.ID):
		line += " " + mutedStyle.Render("updating...")
	case m.st.Loading.IsDeleting(task.ID):
		line += " " + mutedStyle.Render("deleting...")
	}
	return line
}

func (m *Model) helpLine() string {
	switch m.mode {
	case modeNewCategory:
		return "enter: create  esc: cancel"
	case modeNewTask:
		return "enter: create  tab: category  esc: cancel"
	}
	help := "j/k: move  space: toggle  d: delete  a: new task  c: new category  f: filter  r: refresh  q: quit"
	if m.reportTest != nil {
		help += "  E: test error"
	}
	return help
}
