package state_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todocat/internal/service"
	"todocat/internal/state"
	"todocat/internal/testutil"
)

func task(id int64, desc string, completed bool) service.Task {
	return service.Task{
		ID:           id,
		Description:  desc,
		Category:     service.Int64(1),
		CategoryName: service.String("Work"),
		IsCompleted:  completed,
	}
}

func TestLoadCategories_FailureKeepsStaleData(t *testing.T) {
	s := state.New()
	ticket := s.BeginLoadCategories()
	require.True(t, s.FinishLoadCategories(ticket, []service.Category{{ID: 1, Name: "Work"}}, nil))

	ticket = s.BeginLoadCategories()
	assert.True(t, s.Loading.Categories)
	s.FinishLoadCategories(ticket, nil, errors.New("boom"))

	assert.False(t, s.Loading.Categories)
	assert.Equal(t, state.MsgLoadCategoriesFailed, s.Errors.Global)
	assert.Equal(t, []service.Category{{ID: 1, Name: "Work"}}, s.Categories)
}

func TestLoadTasks_ClearsGlobalErrorOnNewAttempt(t *testing.T) {
	s := state.New()
	s.Errors.Global = state.MsgDeleteTaskFailed

	ticket := s.BeginLoadTasks()
	assert.Empty(t, s.Errors.Global)
	assert.True(t, s.Loading.Tasks)

	s.FinishLoadTasks(ticket, nil, errors.New("down"))
	assert.Equal(t, state.MsgLoadTasksFailed, s.Errors.Global)
	assert.False(t, s.Loading.Tasks)
}

func TestLoadTasks_StaleResponseDiscarded(t *testing.T) {
	s := state.New()

	s.SetFilter(service.FilterAll)
	older := s.BeginLoadTasks()
	s.SetFilter(service.FilterCategory(2))
	newer := s.BeginLoadTasks()
	assert.Equal(t, service.FilterCategory(2), newer.Filter)

	scoped := []service.Task{task(7, "scoped", false)}
	require.True(t, s.FinishLoadTasks(newer, scoped, nil))
	assert.False(t, s.Loading.Tasks)

	// The slower "all" response lands afterwards and must not overwrite.
	applied := s.FinishLoadTasks(older, []service.Task{task(1, "a", false), task(7, "scoped", false)}, nil)
	assert.False(t, applied)
	assert.Equal(t, scoped, s.Visible())
}

func TestLoadTasks_StaleFailureIgnored(t *testing.T) {
	s := state.New()
	older := s.BeginLoadTasks()
	newer := s.BeginLoadTasks()

	assert.False(t, s.FinishLoadTasks(older, nil, errors.New("late failure")))
	assert.Empty(t, s.Errors.Global)
	assert.True(t, s.Loading.Tasks, "latest request is still in flight")

	s.FinishLoadTasks(newer, []service.Task{}, nil)
	assert.False(t, s.Loading.Tasks)
	assert.True(t, s.ShowEmpty())
}

func TestCreateCategory_AppendsAndClearsForm(t *testing.T) {
	s := state.New()
	s.Categories = []service.Category{{ID: 1, Name: "Home"}}
	s.CategoryForm.Name = "  Work  "

	name, err := s.BeginCreateCategory()
	require.NoError(t, err)
	assert.Equal(t, "Work", name)
	assert.True(t, s.Loading.AddCategory)

	s.FinishCreateCategory(service.Category{ID: 2, Name: "Work"}, nil)
	assert.False(t, s.Loading.AddCategory)
	assert.Equal(t, []service.Category{{ID: 1, Name: "Home"}, {ID: 2, Name: "Work"}}, s.Categories)
	assert.Empty(t, s.CategoryForm.Name)
}

func TestCreateCategory_BlankNameRejected(t *testing.T) {
	s := state.New()
	s.CategoryForm.Name = "   "

	_, err := s.BeginCreateCategory()
	assert.ErrorIs(t, err, state.ErrEmptyName)
	assert.False(t, s.Loading.AddCategory)
	assert.False(t, s.CategoryForm.CanSubmit())
}

func TestCreateCategory_FieldErrorsJoined(t *testing.T) {
	s := state.New()
	s.CategoryForm.Name = "Work"
	_, err := s.BeginCreateCategory()
	require.NoError(t, err)

	s.FinishCreateCategory(service.Category{}, &service.RequestError{
		Status: http.StatusBadRequest,
		Body:   map[string]any{"name": []any{"first.", "second."}},
	})
	assert.Equal(t, "first. second.", s.Errors.Category)
	assert.Empty(t, s.Categories)
	assert.Equal(t, "Work", s.CategoryForm.Name, "form kept on failure")
}

func TestCreateCategory_GenericError(t *testing.T) {
	s := state.New()
	s.CategoryForm.Name = "Work"
	_, err := s.BeginCreateCategory()
	require.NoError(t, err)

	s.FinishCreateCategory(service.Category{}, &service.RequestError{Err: errors.New("connection refused")})
	assert.Equal(t, state.MsgCreateFailed, s.Errors.Category)

	// A new attempt clears the previous message.
	_, err = s.BeginCreateCategory()
	require.NoError(t, err)
	assert.Empty(t, s.Errors.Category)
}

func TestCreateTask_PrependsServerTask(t *testing.T) {
	s := state.New()
	s.Tasks = []service.Task{task(1, "old", false)}
	s.TaskForm = state.TaskForm{Description: " buy milk ", Category: "1"}

	in, err := s.BeginCreateTask()
	require.NoError(t, err)
	assert.Equal(t, "buy milk", in.Description)
	require.NotNil(t, in.Category)
	assert.Equal(t, int64(1), *in.Category)

	created := task(2, "Buy milk (server)", false)
	s.FinishCreateTask(created, nil)
	assert.Equal(t, []service.Task{created, task(1, "old", false)}, s.Tasks)
	assert.Equal(t, state.TaskForm{}, s.TaskForm)
	assert.False(t, s.Loading.AddTask)
}

func TestCreateTask_CategoryCoercion(t *testing.T) {
	for _, raw := range []string{"", "  ", "abc"} {
		s := state.New()
		s.TaskForm = state.TaskForm{Description: "x", Category: raw}
		in, err := s.BeginCreateTask()
		require.NoError(t, err)
		assert.Nil(t, in.Category, "category %q", raw)
	}
}

func TestCreateTask_FieldErrorsReplaceWholesale(t *testing.T) {
	s := state.New()
	s.Errors.Task = map[string][]string{"category": {"old"}}
	s.TaskForm = state.TaskForm{Description: "x", Category: "1"}
	_, err := s.BeginCreateTask()
	require.NoError(t, err)
	assert.Nil(t, s.Errors.Task)

	s.FinishCreateTask(service.Task{}, &service.RequestError{
		Status: http.StatusBadRequest,
		Body:   map[string]any{"description": []any{"This field is required."}},
	})
	assert.Equal(t, map[string][]string{"description": {"This field is required."}}, s.Errors.Task)
	assert.Equal(t, "This field is required.", s.Errors.TaskField("description"))
	assert.Empty(t, s.Tasks)
}

func TestCreateTask_GenericDetail(t *testing.T) {
	s := state.New()
	s.TaskForm = state.TaskForm{Description: "x", Category: "1"}
	_, err := s.BeginCreateTask()
	require.NoError(t, err)

	s.FinishCreateTask(service.Task{}, &service.RequestError{Status: http.StatusInternalServerError})
	assert.Equal(t, state.MsgCreateFailed, s.Errors.TaskField(state.DetailField))
}

func TestToggleTask_ReplacesWithServerObject(t *testing.T) {
	s := state.New()
	s.Tasks = []service.Task{task(1, "a", false), task(2, "b", false), task(3, "c", false)}

	patch, err := s.BeginToggleTask(2)
	require.NoError(t, err)
	require.NotNil(t, patch.IsCompleted)
	assert.True(t, *patch.IsCompleted)
	assert.True(t, s.Loading.IsUpdating(2))

	_, err = s.BeginToggleTask(2)
	assert.ErrorIs(t, err, state.ErrBusy)

	server := task(2, "b (server)", true)
	s.FinishToggleTask(2, server, nil)
	assert.False(t, s.Loading.IsUpdating(2))
	assert.Equal(t, server, s.Tasks[1])
	assert.Len(t, s.Tasks, 3)
}

func TestToggleTask_FailureLeavesListUnchanged(t *testing.T) {
	s := state.New()
	before := []service.Task{task(1, "a", false), task(2, "b", true)}
	s.Tasks = append([]service.Task(nil), before...)

	_, err := s.BeginToggleTask(1)
	require.NoError(t, err)
	s.FinishToggleTask(1, service.Task{}, errors.New("fail"))

	assert.Equal(t, before, s.Tasks)
	assert.Equal(t, state.MsgUpdateTaskFailed, s.Errors.Global)
	assert.Empty(t, s.Loading.Updating())
}

func TestToggleTask_OverlappingDistinctIDs(t *testing.T) {
	s := state.New()
	s.Tasks = []service.Task{task(1, "a", false), task(2, "b", false)}

	_, err := s.BeginToggleTask(1)
	require.NoError(t, err)
	_, err = s.BeginToggleTask(2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, s.Loading.Updating())

	s.FinishToggleTask(2, task(2, "b", true), nil)
	assert.True(t, s.Loading.IsUpdating(1))
	s.FinishToggleTask(1, task(1, "a", true), nil)

	assert.True(t, s.Tasks[0].IsCompleted)
	assert.True(t, s.Tasks[1].IsCompleted)
	assert.False(t, s.Loading.Busy())
}

func TestToggleTask_UnknownID(t *testing.T) {
	s := state.New()
	_, err := s.BeginToggleTask(42)
	assert.ErrorIs(t, err, state.ErrUnknownTask)
	assert.False(t, s.Loading.IsUpdating(42))
}

func TestDeleteTask(t *testing.T) {
	s := state.New()
	s.Tasks = []service.Task{task(1, "a", false), task(2, "b", false)}

	require.NoError(t, s.BeginDeleteTask(1))
	assert.ErrorIs(t, s.BeginDeleteTask(1), state.ErrBusy)
	s.FinishDeleteTask(1, errors.New("nope"))
	assert.Len(t, s.Tasks, 2)
	assert.Equal(t, state.MsgDeleteTaskFailed, s.Errors.Global)

	require.NoError(t, s.BeginDeleteTask(1))
	s.FinishDeleteTask(1, nil)
	assert.Equal(t, []service.Task{task(2, "b", false)}, s.Tasks)
	assert.False(t, s.Loading.IsDeleting(1))
}

func TestMutationsReplayedOntoStaleRefresh(t *testing.T) {
	s := state.New()
	s.Tasks = []service.Task{task(1, "a", false), task(2, "b", false)}

	// Refresh issued before the mutations complete.
	ticket := s.BeginLoadTasks()

	s.TaskForm = state.TaskForm{Description: "new", Category: "1"}
	_, err := s.BeginCreateTask()
	require.NoError(t, err)
	s.FinishCreateTask(task(3, "new", false), nil)

	_, err = s.BeginToggleTask(1)
	require.NoError(t, err)
	s.FinishToggleTask(1, task(1, "a", true), nil)

	require.NoError(t, s.BeginDeleteTask(2))
	s.FinishDeleteTask(2, nil)

	// The refresh reflects the server before any of the above.
	s.FinishLoadTasks(ticket, []service.Task{task(1, "a", false), task(2, "b", false)}, nil)

	assert.Equal(t, []service.Task{task(3, "new", false), task(1, "a", true)}, s.Tasks)
}

func TestCreatedTaskNotReplayedOutsideFilter(t *testing.T) {
	s := state.New()
	require.True(t, s.SetFilter(service.FilterCategory(1)))
	ticket := s.BeginLoadTasks()

	s.TaskForm = state.TaskForm{Description: "other", Category: "2"}
	_, err := s.BeginCreateTask()
	require.NoError(t, err)
	other := task(9, "other", false)
	other.Category = service.Int64(2)
	other.CategoryName = service.String("Home")
	s.FinishCreateTask(other, nil)

	s.TaskForm = state.TaskForm{Description: "same", Category: "1"}
	_, err = s.BeginCreateTask()
	require.NoError(t, err)
	s.FinishCreateTask(task(10, "same", false), nil)

	s.FinishLoadTasks(ticket, []service.Task{task(1, "a", false)}, nil)

	assert.Equal(t, []service.Task{task(10, "same", false), task(1, "a", false)}, s.Visible())
}

func TestMutationReplayIsIdempotent(t *testing.T) {
	s := state.New()
	ticket := s.BeginLoadCategories()

	s.CategoryForm.Name = "Work"
	_, err := s.BeginCreateCategory()
	require.NoError(t, err)
	s.FinishCreateCategory(service.Category{ID: 5, Name: "Work"}, nil)

	// This refresh already saw the new category.
	s.FinishLoadCategories(ticket, []service.Category{{ID: 5, Name: "Work"}}, nil)
	assert.Equal(t, []service.Category{{ID: 5, Name: "Work"}}, s.Categories)
}

func TestSetFilter(t *testing.T) {
	s := state.New()
	assert.True(t, s.Filter.IsAll())
	assert.False(t, s.SetFilter(service.FilterAll))
	assert.True(t, s.SetFilter(service.FilterCategory(3)))
	assert.False(t, s.SetFilter(service.FilterCategory(3)))
}

func TestResolveCategory(t *testing.T) {
	s := state.New()
	s.Categories = []service.Category{{ID: 1, Name: "Work"}, {ID: 2, Name: "Home"}, {ID: 3, Name: "home "}}

	cat, err := s.ResolveCategory(" work ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), cat.ID)

	cat, err = s.ResolveCategory("2")
	require.NoError(t, err)
	assert.Equal(t, "Home", cat.Name)

	_, err = s.ResolveCategory("home")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = s.ResolveCategory("garden")
	assert.ErrorContains(t, err, "not found")
}

func TestCategoryName(t *testing.T) {
	assert.Equal(t, "Work", state.CategoryName(task(1, "a", false)))
	assert.Equal(t, state.MsgUncategorized, state.CategoryName(service.Task{}))
}

func TestController_Scenarios(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewFakeService()
	work := svc.AddCategory("Work")

	ctrl := state.NewController(svc)
	require.NoError(t, ctrl.Refresh(ctx))
	st := ctrl.State()
	assert.Equal(t, []service.Category{work}, st.Categories)
	assert.Empty(t, st.Visible())
	assert.True(t, st.ShowEmpty())

	require.NoError(t, ctrl.CreateCategory(ctx, "Home"))
	assert.Len(t, st.Categories, 2)
	assert.Empty(t, st.CategoryForm.Name)

	require.NoError(t, ctrl.CreateTask(ctx, "write report", "1"))
	require.Len(t, st.Tasks, 1)
	assert.Equal(t, "write report", st.Tasks[0].Description)
	assert.Equal(t, "Work", state.CategoryName(st.Tasks[0]))
}

func TestController_ToggleIssuesSinglePatch(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewFakeService()
	work := svc.AddCategory("Work")
	tk := svc.AddTask("a", work.ID, false)

	ctrl := state.NewController(svc)
	require.NoError(t, ctrl.LoadTasks(ctx))
	svc.ResetCalls()

	require.NoError(t, ctrl.ToggleTask(ctx, tk.ID))
	calls := svc.CallsTo("UpdateTask")
	require.Len(t, calls, 1)
	assert.Equal(t, tk.ID, calls[0].ID)
	require.NotNil(t, calls[0].Patch.IsCompleted)
	assert.True(t, *calls[0].Patch.IsCompleted)
	assert.Nil(t, calls[0].Patch.Description)
	assert.True(t, ctrl.State().Tasks[0].IsCompleted)
}

func TestController_FilterChangeFetchesOnce(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewFakeService()
	work := svc.AddCategory("Work")
	home := svc.AddCategory("Home")
	svc.AddTask("w", work.ID, false)
	svc.AddTask("h", home.ID, false)

	ctrl := state.NewController(svc)
	require.NoError(t, ctrl.LoadTasks(ctx))
	require.Len(t, ctrl.State().Tasks, 2)
	svc.ResetCalls()

	require.NoError(t, ctrl.SelectFilter(ctx, service.FilterCategory(work.ID)))
	calls := svc.CallsTo("ListTasks")
	require.Len(t, calls, 1)
	assert.Equal(t, service.FilterCategory(work.ID), calls[0].Filter)
	require.Len(t, ctrl.State().Tasks, 1)
	assert.Equal(t, "w", ctrl.State().Tasks[0].Description)

	// Same filter again: no request.
	require.NoError(t, ctrl.SelectFilter(ctx, service.FilterCategory(work.ID)))
	assert.Len(t, svc.CallsTo("ListTasks"), 1)
}

func TestController_CreateTaskValidationFromBackend(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewFakeService()
	svc.AddCategory("Work")

	ctrl := state.NewController(svc)
	err := ctrl.CreateTask(ctx, "x", "99")
	require.Error(t, err)
	assert.Equal(t, `Invalid pk "99" - object does not exist.`, ctrl.State().Errors.TaskField("category"))
	assert.Empty(t, ctrl.State().Tasks)
}

func TestController_DeleteFailure(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewFakeService()
	work := svc.AddCategory("Work")
	tk := svc.AddTask("a", work.ID, false)

	ctrl := state.NewController(svc)
	require.NoError(t, ctrl.LoadTasks(ctx))
	svc.DeleteTaskErr = &service.RequestError{Status: http.StatusInternalServerError}

	require.Error(t, ctrl.DeleteTask(ctx, tk.ID))
	assert.Len(t, ctrl.State().Tasks, 1)
	assert.Equal(t, state.MsgDeleteTaskFailed, ctrl.State().Errors.Global)
}
