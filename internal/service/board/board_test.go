package board

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhil/togglenest/internal/apperrors"
	"github.com/nikhil/togglenest/internal/logger"
	"github.com/nikhil/togglenest/internal/models"
	"github.com/nikhil/togglenest/internal/service/activity"
	"github.com/nikhil/togglenest/internal/store"
	"github.com/nikhil/togglenest/internal/store/storetest"
)

type fixture struct {
	store    store.Store
	activity *activity.ActivityService
	svc      *BoardService
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()
	st := storetest.NewSQLite(t)
	clock := storetest.NewClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	act := activity.NewActivityService(st, nil, nil, logger.NewNop())
	act.Now = clock.Now
	svc := NewBoardService(st, act, strict, logger.NewNop())
	svc.Now = clock.Now
	return &fixture{store: st, activity: act, svc: svc}
}

func (f *fixture) feed(t *testing.T, code string) []models.Activity {
	t.Helper()
	feed, err := f.activity.Feed(context.Background(), code)
	require.NoError(t, err)
	return feed
}

func TestCreateTask_Validation(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.CreateTask(context.Background(), CreateTaskRequest{Title: "x"})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	_, err = f.svc.CreateTask(context.Background(), CreateTaskRequest{ProjectCode: "P"})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestCreateTask_TrimsCodeAndLogs(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	task, err := f.svc.CreateTask(ctx, CreateTaskRequest{ProjectCode: "  ACME-1 ", Title: "Ship v1", Deadline: "Friday"})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "ACME-1", task.ProjectCode)
	assert.Equal(t, models.TaskStatusTodo, task.Status)
	assert.Equal(t, models.DefaultTaskPriority, task.Priority)

	padded, err := f.svc.ListTasks(ctx, " ACME-1  ")
	require.NoError(t, err)
	exact, err := f.svc.ListTasks(ctx, "ACME-1")
	require.NoError(t, err)
	assert.Equal(t, exact, padded)
	require.Len(t, exact, 1)

	feed := f.feed(t, "ACME-1")
	require.Len(t, feed, 1)
	assert.Equal(t, models.ActionTaskCreated, feed[0].ActionType)
	assert.Equal(t, "Admin", feed[0].UserName)
	assert.Equal(t, `Created task: "Ship v1"`, feed[0].Description)
}

func TestCreateTask_OptionalFields(t *testing.T) {
	f := newFixture(t, false)

	task, err := f.svc.CreateTask(context.Background(), CreateTaskRequest{
		ProjectCode:     "P",
		Title:           strings.Repeat("t", 40),
		Priority:        "High",
		AssigneeName:    "Bea",
		AssigneeInitial: "B",
		UserName:        "ann",
		UserEmail:       "ann@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "High", task.Priority)
	assert.Equal(t, "Bea", task.AssigneeName)

	feed := f.feed(t, "P")
	require.Len(t, feed, 1)
	assert.Equal(t, "ann", feed[0].UserName)
	assert.Equal(t, "ann@x.com", feed[0].UserEmail)
	assert.Equal(t, `Created task: "`+strings.Repeat("t", 30)+`..."`, feed[0].Description)
}

func TestListTasks_NewestFirst(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three"} {
		_, err := f.svc.CreateTask(ctx, CreateTaskRequest{ProjectCode: "P", Title: title})
		require.NoError(t, err)
	}
	tasks, err := f.svc.ListTasks(ctx, "P")
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "three", tasks[0].Title)
	assert.Equal(t, "one", tasks[2].Title)
}

func TestUpdateTaskStatus(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	task, err := f.svc.CreateTask(ctx, CreateTaskRequest{ProjectCode: "P", Title: "Write docs"})
	require.NoError(t, err)

	_, err = f.svc.UpdateTaskStatus(ctx, task.ID, UpdateTaskStatusRequest{})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	updated, err := f.svc.UpdateTaskStatus(ctx, task.ID, UpdateTaskStatusRequest{Status: models.TaskStatusInProgress})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusInProgress, updated.Status)

	updated, err = f.svc.UpdateTaskStatus(ctx, task.ID, UpdateTaskStatusRequest{Status: models.TaskStatusDone, UserName: "bea"})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, updated.Status)

	// No state machine: arbitrary values are stored as given.
	updated, err = f.svc.UpdateTaskStatus(ctx, task.ID, UpdateTaskStatusRequest{Status: "Blocked"})
	require.NoError(t, err)
	assert.Equal(t, "Blocked", updated.Status)

	feed := f.feed(t, "P")
	require.Len(t, feed, 4)
	assert.Equal(t, `Updated task: "Write docs"`, feed[0].Description)
	assert.Equal(t, "Member", feed[0].UserName)
	assert.Equal(t, `Completed task: "Write docs"`, feed[1].Description)
	assert.Equal(t, "bea", feed[1].UserName)
	assert.Equal(t, `Updated task: "Write docs"`, feed[2].Description)
}

func TestUpdateTaskStatus_UnknownTask(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.UpdateTaskStatus(context.Background(), "missing", UpdateTaskStatusRequest{Status: models.TaskStatusDone})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.Equal(t, "Task not found", err.Error())
}

func TestCreateQuery(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateQueryRequest
	}{
		{"missing code", CreateQueryRequest{Text: "why", SenderEmail: "b@x.com"}},
		{"missing text", CreateQueryRequest{ProjectCode: "P", SenderEmail: "b@x.com"}},
		{"missing sender", CreateQueryRequest{ProjectCode: "P", Text: "why"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateQuery(ctx, tt.req)
			assert.True(t, apperrors.Is(err, apperrors.KindValidation))
		})
	}

	q, err := f.svc.CreateQuery(ctx, CreateQueryRequest{ProjectCode: "P", Text: "Where is the spec doc?", SenderEmail: "b@x.com"})
	require.NoError(t, err)
	assert.False(t, q.IsResolved)

	feed := f.feed(t, "P")
	require.Len(t, feed, 1)
	assert.Equal(t, models.ActionQueryAdded, feed[0].ActionType)
	assert.Equal(t, "b", feed[0].UserName)
	assert.Equal(t, `Added a new query: "Where is the spec doc?"`, feed[0].Description)

	queries, err := f.svc.ListQueries(ctx, "P")
	require.NoError(t, err)
	require.Len(t, queries, 1)
	assert.Equal(t, q.ID, queries[0].ID)
}

func TestToggleQuery_OnlyResolveTransitionsAreLogged(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	q, err := f.svc.CreateQuery(ctx, CreateQueryRequest{ProjectCode: "P", Text: "Can we move the demo?", SenderEmail: "b@x.com"})
	require.NoError(t, err)

	resolved, err := f.svc.ToggleQuery(ctx, q.ID, "")
	require.NoError(t, err)
	assert.True(t, resolved.IsResolved)

	reopened, err := f.svc.ToggleQuery(ctx, q.ID, "ann")
	require.NoError(t, err)
	assert.False(t, reopened.IsResolved, "toggling twice restores the original state")

	_, err = f.svc.ToggleQuery(ctx, q.ID, "ann")
	require.NoError(t, err)

	var resolvedEntries []models.Activity
	for _, a := range f.feed(t, "P") {
		if a.ActionType == models.ActionQueryResolved {
			resolvedEntries = append(resolvedEntries, a)
		}
	}
	require.Len(t, resolvedEntries, 2)
	assert.Equal(t, "ann", resolvedEntries[0].UserName)
	assert.Equal(t, "Someone", resolvedEntries[1].UserName)
	assert.Equal(t, "b@x.com", resolvedEntries[1].UserEmail)
	assert.Equal(t, `Resolved query: "Can we move the demo?"`, resolvedEntries[1].Description)
}

func TestToggleQuery_UnknownQuery(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.ToggleQuery(context.Background(), "missing", "")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestStrictRefs(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.svc.CreateTask(ctx, CreateTaskRequest{ProjectCode: "GHOST", Title: "x"})
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	_, err = f.svc.CreateQuery(ctx, CreateQueryRequest{ProjectCode: "GHOST", Text: "x", SenderEmail: "b@x.com"})
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.Empty(t, f.feed(t, "GHOST"))

	require.NoError(t, f.store.InsertProject(ctx, &models.Project{Code: "ACME-1", Name: "Acme", AdminEmail: "a@x.com", Members: []string{"a@x.com"}}))
	_, err = f.svc.CreateTask(ctx, CreateTaskRequest{ProjectCode: "acme-1", Title: "x"})
	assert.NoError(t, err)

	_, err = f.store.UpsertUser(ctx, &models.User{Email: "z@x.com", Role: models.RoleAdmin, ProjectCode: "ZED", OnboardingComplete: true})
	require.NoError(t, err)
	_, err = f.svc.CreateQuery(ctx, CreateQueryRequest{ProjectCode: "ZED", Text: "x", SenderEmail: "b@x.com"})
	assert.NoError(t, err)
}

func TestLooseRefs_AcceptAnyCode(t *testing.T) {
	f := newFixture(t, false)

	task, err := f.svc.CreateTask(context.Background(), CreateTaskRequest{ProjectCode: "NOWHERE", Title: "orphan"})
	require.NoError(t, err)
	assert.Equal(t, "NOWHERE", task.ProjectCode)
}
