// Package state holds the client-side view state and the transitions that keep it
// in sync with the backend.
//
// A State is owned by a single goroutine. Every operation is split into a Begin
// transition (issued before the request) and a Finish transition (applied with the
// request's outcome), so the network call itself can run anywhere as long as its
// result is handed back to the owner.
package state

import (
	"errors"
	"strconv"
	"strings"

	"todocat/internal/service"
)

// Fixed user-facing messages.
const (
	MsgLoadCategoriesFailed = "Unable to load categories."
	MsgLoadTasksFailed      = "Unable to load tasks."
	MsgCreateFailed         = "Creation failed."
	MsgUpdateTaskFailed     = "Unable to update the task."
	MsgDeleteTaskFailed     = "Unable to delete the task."
	MsgNoTasks              = "No tasks to display."
	MsgUncategorized        = "Uncategorized"
)

// DetailField is the generic key used for task creation errors without a field.
const DetailField = "detail"

var (
	// ErrEmptyName is returned when the category form name is blank.
	ErrEmptyName = errors.New("category name required")

	// ErrEmptyDescription is returned when the task form description is blank.
	ErrEmptyDescription = errors.New("task description required")

	// ErrBusy is returned when the same task already has a request of that kind in flight.
	ErrBusy = errors.New("request already in flight for task")

	// ErrUnknownTask is returned when toggling a task that is not in the list.
	ErrUnknownTask = errors.New("task not found")
)

// CategoryForm is the category creation form.
type CategoryForm struct {
	Name string
}

// CanSubmit reports whether the form holds a non-blank name.
func (f CategoryForm) CanSubmit() bool {
	return strings.TrimSpace(f.Name) != ""
}

// TaskForm is the task creation form. Category holds the raw selector value.
type TaskForm struct {
	Description string
	Category    string
}

// CanSubmit reports whether both a description and a category are set.
func (f TaskForm) CanSubmit() bool {
	return strings.TrimSpace(f.Description) != "" && strings.TrimSpace(f.Category) != ""
}

// Errors holds the messages shown to the user.
type Errors struct {
	// Global is the banner for fetch, toggle and delete failures.
	Global string

	// Category is shown under the category form.
	Category string

	// Task holds task form errors keyed by field, or DetailField.
	Task map[string][]string
}

// TaskField returns the messages for one task form field joined by spaces.
func (e Errors) TaskField(field string) string {
	return strings.Join(e.Task[field], " ")
}

// State is the complete client view state.
type State struct {
	Categories []service.Category
	Tasks      []service.Task
	Filter     service.Filter

	CategoryForm CategoryForm
	TaskForm     TaskForm

	Loading Loading
	Errors  Errors

	categories collection
	tasks      collection
}

// New returns an empty state with the "all" filter selected.
func New() *State {
	return &State{Filter: service.FilterAll}
}

// Ticket identifies one list fetch. Only the most recently issued ticket
// of a collection is applied.
type Ticket struct {
	gen    uint64
	Filter service.Filter
}

// Visible returns the tasks to display: exactly the last applied task list.
func (s *State) Visible() []service.Task {
	return s.Tasks
}

// ShowEmpty reports whether the "no tasks" placeholder should be displayed.
func (s *State) ShowEmpty() bool {
	return !s.Loading.Tasks && len(s.Tasks) == 0
}

// SetFilter selects a filter and reports whether it changed.
// Callers load tasks again when it did.
func (s *State) SetFilter(f service.Filter) bool {
	if s.Filter == f {
		return false
	}
	s.Filter = f
	return true
}

// BeginLoadCategories marks a category fetch as in flight.
func (s *State) BeginLoadCategories() Ticket {
	s.Loading.Categories = true
	s.Errors.Global = ""
	return Ticket{gen: s.categories.issue()}
}

// FinishLoadCategories applies a category fetch result.
// It returns false when the ticket was superseded and the result was discarded.
func (s *State) FinishLoadCategories(t Ticket, cats []service.Category, err error) bool {
	if !s.categories.latest(t.gen) {
		return false
	}
	defer func() { s.Loading.Categories = false }()

	if err != nil {
		s.Errors.Global = MsgLoadCategoriesFailed
		s.categories.pending = nil
		return true
	}
	s.Categories = cats
	for _, m := range s.categories.drain() {
		s.Categories = m.applyCategories(s.Categories)
	}
	return true
}

// BeginLoadTasks marks a task fetch for the current filter as in flight.
func (s *State) BeginLoadTasks() Ticket {
	s.Loading.Tasks = true
	s.Errors.Global = ""
	return Ticket{gen: s.tasks.issue(), Filter: s.Filter}
}

// FinishLoadTasks applies a task fetch result.
// It returns false when the ticket was superseded and the result was discarded.
func (s *State) FinishLoadTasks(t Ticket, tasks []service.Task, err error) bool {
	if !s.tasks.latest(t.gen) {
		return false
	}
	defer func() { s.Loading.Tasks = false }()

	if err != nil {
		s.Errors.Global = MsgLoadTasksFailed
		s.tasks.pending = nil
		return true
	}
	s.Tasks = tasks
	for _, m := range s.tasks.drain() {
		s.Tasks = m.applyTasks(s.Tasks, t.Filter)
	}
	return true
}

// BeginCreateCategory validates the category form and marks creation in flight.
// It returns the trimmed name to send.
func (s *State) BeginCreateCategory() (string, error) {
	name := strings.TrimSpace(s.CategoryForm.Name)
	if name == "" {
		return "", ErrEmptyName
	}
	s.Errors.Category = ""
	s.Loading.AddCategory = true
	return name, nil
}

// FinishCreateCategory applies a category creation result.
func (s *State) FinishCreateCategory(cat service.Category, err error) {
	defer func() { s.Loading.AddCategory = false }()

	if err != nil {
		s.Errors.Category = categoryError(err)
		return
	}
	s.Categories = append(s.Categories, cat)
	s.CategoryForm = CategoryForm{}
	if s.Loading.Categories {
		s.categories.record(mutation{kind: categoryCreated, category: cat})
	}
}

// BeginCreateTask validates the task form and marks creation in flight.
// A blank or non-numeric category is sent as null and left to the backend to reject.
func (s *State) BeginCreateTask() (service.NewTask, error) {
	desc := strings.TrimSpace(s.TaskForm.Description)
	if desc == "" {
		return service.NewTask{}, ErrEmptyDescription
	}
	s.Errors.Task = nil
	s.Loading.AddTask = true
	return service.NewTask{
		Description: desc,
		Category:    parseCategory(s.TaskForm.Category),
	}, nil
}

// FinishCreateTask applies a task creation result.
func (s *State) FinishCreateTask(task service.Task, err error) {
	defer func() { s.Loading.AddTask = false }()

	if err != nil {
		s.Errors.Task = taskErrors(err)
		return
	}
	s.Tasks = append([]service.Task{task}, s.Tasks...)
	s.TaskForm = TaskForm{}
	if s.Loading.Tasks {
		s.tasks.record(mutation{kind: taskCreated, task: task})
	}
}

// BeginToggleTask marks a completion toggle in flight and returns the patch to send.
func (s *State) BeginToggleTask(id int64) (service.TaskPatch, error) {
	if s.Loading.IsUpdating(id) {
		return service.TaskPatch{}, ErrBusy
	}
	task, ok := s.findTask(id)
	if !ok {
		return service.TaskPatch{}, ErrUnknownTask
	}
	s.Loading.updating.add(id)
	return service.TaskPatch{IsCompleted: service.Bool(!task.IsCompleted)}, nil
}

// FinishToggleTask applies a toggle result. The backend's task replaces the local one.
func (s *State) FinishToggleTask(id int64, updated service.Task, err error) {
	defer s.Loading.updating.remove(id)

	if err != nil {
		s.Errors.Global = MsgUpdateTaskFailed
		return
	}
	s.Tasks = replaceTask(s.Tasks, id, updated)
	if s.Loading.Tasks {
		s.tasks.record(mutation{kind: taskUpdated, id: id, task: updated})
	}
}

// BeginDeleteTask marks a deletion in flight.
func (s *State) BeginDeleteTask(id int64) error {
	if s.Loading.IsDeleting(id) {
		return ErrBusy
	}
	s.Loading.deleting.add(id)
	return nil
}

// FinishDeleteTask applies a deletion result.
func (s *State) FinishDeleteTask(id int64, err error) {
	defer s.Loading.deleting.remove(id)

	if err != nil {
		s.Errors.Global = MsgDeleteTaskFailed
		return
	}
	s.Tasks = removeTask(s.Tasks, id)
	if s.Loading.Tasks {
		s.tasks.record(mutation{kind: taskDeleted, id: id})
	}
}

// CategoryName returns the display name for a task's category.
func CategoryName(t service.Task) string {
	if t.CategoryName == nil || *t.CategoryName == "" {
		return MsgUncategorized
	}
	return *t.CategoryName
}

func (s *State) findTask(id int64) (service.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

func categoryError(err error) string {
	var reqErr *service.RequestError
	if errors.As(err, &reqErr) {
		if msg := strings.Join(reqErr.Messages("name"), " "); msg != "" {
			return msg
		}
	}
	return MsgCreateFailed
}

func taskErrors(err error) map[string][]string {
	var reqErr *service.RequestError
	if errors.As(err, &reqErr) {
		if fields := reqErr.FieldErrors(); len(fields) > 0 {
			return fields
		}
	}
	return map[string][]string{DetailField: {MsgCreateFailed}}
}

func parseCategory(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

func replaceTask(tasks []service.Task, id int64, updated service.Task) []service.Task {
	out := make([]service.Task, len(tasks))
	for i, t := range tasks {
		if t.ID == id {
			out[i] = updated
			continue
		}
		out[i] = t
	}
	return out
}

func removeTask(tasks []service.Task, id int64) []service.Task {
	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
