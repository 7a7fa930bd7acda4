package projects

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhil/togglenest/internal/apperrors"
	"github.com/nikhil/togglenest/internal/cache"
	"github.com/nikhil/togglenest/internal/logger"
	"github.com/nikhil/togglenest/internal/models"
	"github.com/nikhil/togglenest/internal/store"
	"github.com/nikhil/togglenest/internal/store/storetest"
)

func newService(t *testing.T, st store.Store) (*ProjectService, *cache.MemoryCache) {
	t.Helper()
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	svc := NewProjectService(st, c, time.Minute, logger.NewNop())
	svc.Now = storetest.NewClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)).Now
	return svc, c
}

func TestCreateProject_Validation(t *testing.T) {
	svc, _ := newService(t, storetest.NewSQLite(t))

	tests := []struct {
		name               string
		code, title, admin string
	}{
		{"missing code", " ", "Acme", "a@x.com"},
		{"missing name", "ACME-1", "", "a@x.com"},
		{"missing admin", "ACME-1", "Acme", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProject(context.Background(), tt.code, tt.title, tt.admin)
			assert.True(t, apperrors.Is(err, apperrors.KindValidation))
		})
	}
}

func TestCreateProject_SyncsAdmin(t *testing.T) {
	st := storetest.NewSQLite(t)
	svc, _ := newService(t, st)
	ctx := context.Background()

	_, err := st.UpsertUser(ctx, &models.User{Email: "a@x.com", Role: models.RoleAdmin, OnboardingComplete: true})
	require.NoError(t, err)

	p, err := svc.CreateProject(ctx, " ACME-1 ", "Acme", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "ACME-1", p.Code)
	assert.Equal(t, []string{"a@x.com"}, p.Members)

	admin, err := st.GetUser(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "ACME-1", admin.ProjectCode)
	assert.Equal(t, "Acme", admin.ProjectName)
}

func TestCreateProject_DuplicateIsExactMatch(t *testing.T) {
	svc, _ := newService(t, storetest.NewSQLite(t))
	ctx := context.Background()

	_, err := svc.CreateProject(ctx, "ACME-1", "Acme", "a@x.com")
	require.NoError(t, err)

	_, err = svc.CreateProject(ctx, "ACME-1", "Again", "b@x.com")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	assert.Equal(t, "Project ID already exists", err.Error())

	_, err = svc.CreateProject(ctx, "acme-1", "Lower", "b@x.com")
	assert.NoError(t, err)
}

type syncFailingStore struct {
	store.Store
}

func (syncFailingStore) SetUserProject(context.Context, string, string, string) error {
	return errors.New("write conflict")
}

func TestCreateProject_AdminSyncFailureWithoutTransactions(t *testing.T) {
	st := storetest.NewSQLite(t)
	svc, _ := newService(t, syncFailingStore{Store: st})
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "ACME-1", "Acme", "a@x.com")
	require.NoError(t, err, "admin sync is best-effort without transactions")
	assert.Equal(t, "ACME-1", p.Code)

	_, err = st.FindProjectByCodeFold(ctx, "ACME-1")
	assert.NoError(t, err)
}

func TestListAdminProjects_CachedAndInvalidated(t *testing.T) {
	st := storetest.NewSQLite(t)
	svc, c := newService(t, st)
	ctx := context.Background()

	_, err := svc.CreateProject(ctx, "P1", "One", "a@x.com")
	require.NoError(t, err)

	list, err := svc.ListAdminProjects(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = c.Get(ctx, cache.AdminProjectsKey("a@x.com"))
	require.NoError(t, err, "list should be cached")

	_, err = svc.CreateProject(ctx, "P2", "Two", "a@x.com")
	require.NoError(t, err)

	list, err = svc.ListAdminProjects(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "P2", list[0].Code, "newest first")

	empty, err := svc.ListAdminProjects(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListAdminProjects_TrimsEmail(t *testing.T) {
	st := storetest.NewSQLite(t)
	svc, _ := newService(t, st)
	ctx := context.Background()

	_, err := svc.CreateProject(ctx, "P1", "One", "a@x.com")
	require.NoError(t, err)

	list, err := svc.ListAdminProjects(ctx, "  a@x.com ")
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = svc.CreateProject(ctx, "P2", "Two", " a@x.com")
	require.NoError(t, err)

	list, err = svc.ListAdminProjects(ctx, " a@x.com  ")
	require.NoError(t, err)
	assert.Len(t, list, 2, "creation must clear the cache entry read through a padded email")
}
