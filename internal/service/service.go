// Package service defines the backend-agnostic interface for category and task operations.
package service

import "context"

// Service defines the interface for backend operations.
// All HTTP calls go through this interface.
// The state layer and commands never build requests directly.
type Service interface {
	// ListCategories returns all categories in backend order.
	ListCategories(ctx context.Context) ([]Category, error)

	// CreateCategory creates a category and returns the backend's representation.
	CreateCategory(ctx context.Context, name string) (Category, error)

	// ListTasks returns tasks, scoped server-side to the filter.
	// Results are in backend order (newest first); no client-side sorting.
	ListTasks(ctx context.Context, filter Filter) ([]Task, error)

	// CreateTask creates a task and returns the backend's representation.
	CreateTask(ctx context.Context, in NewTask) (Task, error)

	// UpdateTask applies a partial update and returns the updated task.
	UpdateTask(ctx context.Context, id int64, patch TaskPatch) (Task, error)

	// DeleteTask deletes a task by ID.
	DeleteTask(ctx context.Context, id int64) error
}
