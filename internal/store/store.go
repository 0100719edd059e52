// Package store defines the persistence interface of the reference backend.
package store

import (
	"context"
	"errors"

	"todocat/internal/service"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint is violated.
var ErrDuplicate = errors.New("duplicate")

// Store persists categories and tasks.
type Store interface {
	// ListCategories returns categories ordered by name.
	ListCategories(ctx context.Context) ([]service.Category, error)

	// GetCategory returns a category by id.
	GetCategory(ctx context.Context, id int64) (service.Category, error)

	// CreateCategory inserts a category. Returns ErrDuplicate when the name is taken.
	CreateCategory(ctx context.Context, name string) (service.Category, error)

	// ListTasks returns tasks newest first, optionally for one category.
	ListTasks(ctx context.Context, categoryID *int64) ([]service.Task, error)

	// GetTask returns a task by id.
	GetTask(ctx context.Context, id int64) (service.Task, error)

	// CreateTask inserts a task.
	CreateTask(ctx context.Context, description string, categoryID int64, completed bool) (service.Task, error)

	// UpdateTask applies the non-nil fields of patch.
	UpdateTask(ctx context.Context, id int64, patch service.TaskPatch) (service.Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id int64) error
}
