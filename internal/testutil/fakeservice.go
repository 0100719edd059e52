// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"todocat/internal/service"
)

// Call records one FakeService invocation.
type Call struct {
	Method string
	Name   string
	Filter service.Filter
	ID     int64
	Task   service.NewTask
	Patch  service.TaskPatch
}

// FakeService is an in-memory implementation of service.Service for testing.
// It validates input the way the reference backend does.
type FakeService struct {
	mu         sync.RWMutex
	categories []service.Category
	tasks      []service.Task
	nextID     int64
	clock      time.Time
	calls      []Call

	// Error injection for testing
	ListCategoriesErr error
	CreateCategoryErr error
	ListTasksErr      error
	CreateTaskErr     error
	UpdateTaskErr     error
	DeleteTaskErr     error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID: 1,
		clock:  time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

// AddCategory adds a category and returns it.
func (f *FakeService) AddCategory(name string) service.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	cat := service.Category{ID: f.allocID(), Name: name}
	f.categories = append(f.categories, cat)
	return cat
}

// AddTask adds a task in a category and returns it.
func (f *FakeService) AddTask(description string, categoryID int64, completed bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	task := f.newTask(description, categoryID)
	task.IsCompleted = completed
	f.tasks = append(f.tasks, task)
	return task
}

// Calls returns all recorded calls in order.
func (f *FakeService) Calls() []Call {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo returns the recorded calls to one method.
func (f *FakeService) CallsTo(method string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls forgets recorded calls.
func (f *FakeService) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// ListCategories implements service.Service.
func (f *FakeService) ListCategories(ctx context.Context) ([]service.Category, error) {
	f.record(Call{Method: "ListCategories"})
	if f.ListCategoriesErr != nil {
		return nil, f.ListCategoriesErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	result := make([]service.Category, len(f.categories))
	copy(result, f.categories)
	sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// CreateCategory implements service.Service.
func (f *FakeService) CreateCategory(ctx context.Context, name string) (service.Category, error) {
	f.record(Call{Method: "CreateCategory", Name: name})
	if f.CreateCategoryErr != nil {
		return service.Category{}, f.CreateCategoryErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if strings.TrimSpace(name) == "" {
		return service.Category{}, fieldError("name", "This field may not be blank.")
	}
	for _, c := range f.categories {
		if c.Name == name {
			return service.Category{}, fieldError("name", "category with this name already exists.")
		}
	}
	cat := service.Category{ID: f.allocID(), Name: name}
	f.categories = append(f.categories, cat)
	return cat, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, filter service.Filter) ([]service.Task, error) {
	f.record(Call{Method: "ListTasks", Filter: filter})
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	categoryID, scoped := filter.CategoryID()
	result := []service.Task{}
	for _, t := range f.tasks {
		if scoped && (t.Category == nil || *t.Category != categoryID) {
			continue
		}
		result = append(result, t)
	}
	// Newest first
	sort.SliceStable(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, in service.NewTask) (service.Task, error) {
	f.record(Call{Method: "CreateTask", Task: in})
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	fields := map[string]any{}
	if strings.TrimSpace(in.Description) == "" {
		fields["description"] = []any{"This field may not be blank."}
	}
	if in.Category == nil {
		fields["category"] = []any{"This field may not be null."}
	} else if !f.hasCategory(*in.Category) {
		fields["category"] = []any{invalidPK(*in.Category)}
	}
	if len(fields) > 0 {
		return service.Task{}, &service.RequestError{Status: http.StatusBadRequest, Body: fields}
	}

	task := f.newTask(in.Description, *in.Category)
	f.tasks = append(f.tasks, task)
	return task, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id int64, patch service.TaskPatch) (service.Task, error) {
	f.record(Call{Method: "UpdateTask", ID: id, Patch: patch})
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID != id {
			continue
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.IsCompleted != nil {
			t.IsCompleted = *patch.IsCompleted
		}
		if patch.Category != nil {
			if !f.hasCategory(*patch.Category) {
				return service.Task{}, fieldError("category", invalidPK(*patch.Category))
			}
			t.Category = service.Int64(*patch.Category)
			t.CategoryName = service.String(f.categoryName(*patch.Category))
		}
		f.tasks[i] = t
		return t, nil
	}
	return service.Task{}, notFound()
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int64) error {
	f.record(Call{Method: "DeleteTask", ID: id})
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return notFound()
}

func (f *FakeService) record(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *FakeService) allocID() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *FakeService) newTask(description string, categoryID int64) service.Task {
	id := f.allocID()
	return service.Task{
		ID:           id,
		Description:  description,
		Category:     service.Int64(categoryID),
		CategoryName: service.String(f.categoryName(categoryID)),
		CreatedAt:    service.NewTimestamp(f.clock.Add(time.Duration(id) * time.Minute)),
	}
}

func (f *FakeService) hasCategory(id int64) bool {
	for _, c := range f.categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (f *FakeService) categoryName(id int64) string {
	for _, c := range f.categories {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

func fieldError(field, msg string) *service.RequestError {
	return &service.RequestError{
		Status: http.StatusBadRequest,
		Body:   map[string]any{field: []any{msg}},
	}
}

func notFound() *service.RequestError {
	return &service.RequestError{
		Status: http.StatusNotFound,
		Body:   map[string]any{"detail": "No Task matches the given query."},
	}
}

func invalidPK(id int64) string {
	return "Invalid pk \"" + strconv.FormatInt(id, 10) + "\" - object does not exist."
}

var _ service.Service = (*FakeService)(nil)
