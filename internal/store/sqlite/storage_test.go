package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todocat/internal/service"
	"todocat/internal/store"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(MemoryPath, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var tick int
	s.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	})
	return s
}

func TestCategories(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	work, err := s.CreateCategory(ctx, "Work")
	require.NoError(t, err)
	home, err := s.CreateCategory(ctx, "Home")
	require.NoError(t, err)

	_, err = s.CreateCategory(ctx, "Work")
	assert.ErrorIs(t, err, store.ErrDuplicate)

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []service.Category{home, work}, cats, "ordered by name")

	got, err := s.GetCategory(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, work, got)

	_, err = s.GetCategory(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTasks_CreateListFilter(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	work, err := s.CreateCategory(ctx, "Work")
	require.NoError(t, err)
	home, err := s.CreateCategory(ctx, "Home")
	require.NoError(t, err)

	first, err := s.CreateTask(ctx, "report", work.ID, false)
	require.NoError(t, err)
	second, err := s.CreateTask(ctx, "dishes", home.ID, true)
	require.NoError(t, err)

	assert.Equal(t, "report", first.Description)
	require.NotNil(t, first.CategoryName)
	assert.Equal(t, "Work", *first.CategoryName)
	assert.True(t, second.IsCompleted)
	assert.True(t, second.CreatedAt.After(first.CreatedAt.Time))

	all, err := s.ListTasks(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	scoped, err := s.ListTasks(ctx, service.Int64(work.ID))
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, first.ID, scoped[0].ID)

	none, err := s.ListTasks(ctx, service.Int64(999))
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}

func TestTasks_UpdateDelete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	work, err := s.CreateCategory(ctx, "Work")
	require.NoError(t, err)
	home, err := s.CreateCategory(ctx, "Home")
	require.NoError(t, err)
	task, err := s.CreateTask(ctx, "report", work.ID, false)
	require.NoError(t, err)

	updated, err := s.UpdateTask(ctx, task.ID, service.TaskPatch{IsCompleted: service.Bool(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsCompleted)
	assert.Equal(t, "report", updated.Description)

	moved, err := s.UpdateTask(ctx, task.ID, service.TaskPatch{
		Description: service.String("report v2"),
		Category:    service.Int64(home.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, "report v2", moved.Description)
	assert.Equal(t, "Home", *moved.CategoryName)
	assert.True(t, moved.IsCompleted)

	_, err = s.UpdateTask(ctx, 999, service.TaskPatch{IsCompleted: service.Bool(true)})
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.DeleteTask(ctx, task.ID))
	assert.ErrorIs(t, s.DeleteTask(ctx, task.ID), store.ErrNotFound)
	_, err = s.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTasks_ForeignKeyEnforced(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.CreateTask(context.Background(), "orphan", 42, false)
	assert.Error(t, err)
}
