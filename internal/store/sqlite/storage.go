// Package sqlite implements store.Store on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"todocat/internal/service"
	"todocat/internal/store"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Storage is a SQLite-backed store.Store.
type Storage struct {
	db  *sql.DB
	now func() time.Time
	log zerolog.Logger
}

// Open opens (creating if needed) the database at path and applies migrations.
// The pool is limited to one connection: SQLite serializes writers anyway,
// and an in-memory database only exists on the connection that created it.
func Open(path string, log zerolog.Logger) (*Storage, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := Migrate(db, "todocat"); err != nil {
		db.Close()
		return nil, err
	}

	log.Debug().Str("path", path).Msg("SQLite storage initialized")
	s := NewStorage(db)
	s.log = log
	return s, nil
}

// NewStorage wraps an already migrated database.
func NewStorage(db *sql.DB) *Storage {
	return &Storage{db: db, now: time.Now, log: zerolog.Nop()}
}

// SetClock replaces the creation-time source (for tests).
func (s *Storage) SetClock(now func() time.Time) {
	s.now = now
}

// Close closes the database.
func (s *Storage) Close() error {
	return s.db.Close()
}

// ListCategories implements store.Store.
func (s *Storage) ListCategories(ctx context.Context) ([]service.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	cats := []service.Category{}
	for rows.Next() {
		var c service.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return cats, nil
}

// GetCategory implements store.Store.
func (s *Storage) GetCategory(ctx context.Context, id int64) (service.Category, error) {
	var c service.Category
	err := s.db.QueryRowContext(ctx, "SELECT id, name FROM categories WHERE id = ?", id).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return service.Category{}, store.ErrNotFound
	}
	if err != nil {
		return service.Category{}, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

// CreateCategory implements store.Store.
func (s *Storage) CreateCategory(ctx context.Context, name string) (service.Category, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", name)
	if err != nil {
		if isUniqueViolation(err) {
			return service.Category{}, store.ErrDuplicate
		}
		return service.Category{}, fmt.Errorf("failed to insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return service.Category{}, fmt.Errorf("failed to read category id: %w", err)
	}
	return service.Category{ID: id, Name: name}, nil
}

const taskColumns = `
	SELECT t.id, t.description, t.is_completed, t.created_at, t.category_id, c.name
	FROM tasks t
	JOIN categories c ON c.id = t.category_id`

// ListTasks implements store.Store.
func (s *Storage) ListTasks(ctx context.Context, categoryID *int64) ([]service.Task, error) {
	query := taskColumns
	var args []any
	if categoryID != nil {
		query += " WHERE t.category_id = ?"
		args = append(args, *categoryID)
	}
	query += " ORDER BY t.created_at DESC, t.id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []service.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}

// GetTask implements store.Store.
func (s *Storage) GetTask(ctx context.Context, id int64) (service.Task, error) {
	row := s.db.QueryRowContext(ctx, taskColumns+" WHERE t.id = ?", id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return service.Task{}, store.ErrNotFound
	}
	return t, err
}

// CreateTask implements store.Store.
func (s *Storage) CreateTask(ctx context.Context, description string, categoryID int64, completed bool) (service.Task, error) {
	created := s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO tasks (description, is_completed, created_at, category_id) VALUES (?, ?, ?, ?)",
		description, completed, created.UnixNano(), categoryID,
	)
	if err != nil {
		return service.Task{}, fmt.Errorf("failed to insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return service.Task{}, fmt.Errorf("failed to read task id: %w", err)
	}
	return s.GetTask(ctx, id)
}

// UpdateTask implements store.Store.
func (s *Storage) UpdateTask(ctx context.Context, id int64, patch service.TaskPatch) (service.Task, error) {
	var sets []string
	var args []any
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.IsCompleted != nil {
		sets = append(sets, "is_completed = ?")
		args = append(args, *patch.IsCompleted)
	}
	if patch.Category != nil {
		sets = append(sets, "category_id = ?")
		args = append(args, *patch.Category)
	}

	if len(sets) > 0 {
		args = append(args, id)
		query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return service.Task{}, fmt.Errorf("failed to update task: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return service.Task{}, fmt.Errorf("failed to read affected rows: %w", err)
		}
		if n == 0 {
			return service.Task{}, store.ErrNotFound
		}
	}
	return s.GetTask(ctx, id)
}

// DeleteTask implements store.Store.
func (s *Storage) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (service.Task, error) {
	var (
		t            service.Task
		createdNanos int64
		categoryID   int64
		categoryName string
	)
	if err := row.Scan(&t.ID, &t.Description, &t.IsCompleted, &createdNanos, &categoryID, &categoryName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return service.Task{}, err
		}
		return service.Task{}, fmt.Errorf("failed to scan task: %w", err)
	}
	t.CreatedAt = service.NewTimestamp(time.Unix(0, createdNanos).UTC())
	t.Category = &categoryID
	t.CategoryName = &categoryName
	return t, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var _ store.Store = (*Storage)(nil)
