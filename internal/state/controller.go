package state

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"todocat/internal/service"
)

// Controller runs state transitions synchronously against a service.
// Each method issues exactly one request (Refresh issues two) and returns the
// request error, if any; the user-facing message is left in State().Errors.
type Controller struct {
	svc   service.Service
	state *State
}

// NewController returns a controller over a fresh state.
func NewController(svc service.Service) *Controller {
	return &Controller{svc: svc, state: New()}
}

// State returns the controlled state.
func (c *Controller) State() *State {
	return c.state
}

// Refresh loads categories, then tasks for the current filter.
// Both requests are made even if the first fails.
func (c *Controller) Refresh(ctx context.Context) error {
	catErr := c.LoadCategories(ctx)
	taskErr := c.LoadTasks(ctx)
	if catErr != nil {
		return catErr
	}
	return taskErr
}

// LoadCategories fetches all categories.
func (c *Controller) LoadCategories(ctx context.Context) error {
	ticket := c.state.BeginLoadCategories()
	cats, err := c.svc.ListCategories(ctx)
	c.state.FinishLoadCategories(ticket, cats, err)
	return err
}

// LoadTasks fetches tasks for the current filter.
func (c *Controller) LoadTasks(ctx context.Context) error {
	ticket := c.state.BeginLoadTasks()
	tasks, err := c.svc.ListTasks(ctx, ticket.Filter)
	c.state.FinishLoadTasks(ticket, tasks, err)
	return err
}

// SelectFilter changes the filter and, if it changed, fetches the scoped tasks.
func (c *Controller) SelectFilter(ctx context.Context, f service.Filter) error {
	if !c.state.SetFilter(f) {
		return nil
	}
	return c.LoadTasks(ctx)
}

// CreateCategory submits name through the category form.
func (c *Controller) CreateCategory(ctx context.Context, name string) error {
	c.state.CategoryForm.Name = name
	trimmed, err := c.state.BeginCreateCategory()
	if err != nil {
		return err
	}
	cat, err := c.svc.CreateCategory(ctx, trimmed)
	c.state.FinishCreateCategory(cat, err)
	return err
}

// CreateTask submits description and the raw category selector value through the task form.
func (c *Controller) CreateTask(ctx context.Context, description, category string) error {
	c.state.TaskForm = TaskForm{Description: description, Category: category}
	in, err := c.state.BeginCreateTask()
	if err != nil {
		return err
	}
	task, err := c.svc.CreateTask(ctx, in)
	c.state.FinishCreateTask(task, err)
	return err
}

// ToggleTask flips the completion flag of a loaded task.
func (c *Controller) ToggleTask(ctx context.Context, id int64) error {
	patch, err := c.state.BeginToggleTask(id)
	if err != nil {
		return err
	}
	task, err := c.svc.UpdateTask(ctx, id, patch)
	c.state.FinishToggleTask(id, task, err)
	return err
}

// DeleteTask deletes a task by id.
func (c *Controller) DeleteTask(ctx context.Context, id int64) error {
	if err := c.state.BeginDeleteTask(id); err != nil {
		return err
	}
	err := c.svc.DeleteTask(ctx, id)
	c.state.FinishDeleteTask(id, err)
	return err
}

// ResolveCategory finds a loaded category by id or by name (case-insensitive, trimmed).
// Returns error if not found or ambiguous.
func (s *State) ResolveCategory(ref string) (service.Category, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return service.Category{}, fmt.Errorf("category required")
	}

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		for _, cat := range s.Categories {
			if cat.ID == id {
				return cat, nil
			}
		}
	}

	refLower := strings.ToLower(ref)
	var matches []service.Category
	for _, cat := range s.Categories {
		if strings.ToLower(strings.TrimSpace(cat.Name)) == refLower {
			matches = append(matches, cat)
		}
	}

	switch len(matches) {
	case 0:
		return service.Category{}, fmt.Errorf("category not found: %s", ref)
	case 1:
		return matches[0], nil
	default:
		return service.Category{}, fmt.Errorf("ambiguous category name: %s", ref)
	}
}
