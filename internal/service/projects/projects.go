// Package projects is the registry of project codes and their admins.
package projects

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nikhil/togglenest/internal/apperrors"
	"github.com/nikhil/togglenest/internal/cache"
	"github.com/nikhil/togglenest/internal/logger"
	"github.com/nikhil/togglenest/internal/models"
	"github.com/nikhil/togglenest/internal/store"
)

// ProjectService creates projects and lists them per admin.
type ProjectService struct {
	Store    store.Store
	Cache    cache.CacheInterface
	CacheTTL time.Duration
	Log      *logger.Logger
	Now      func() time.Time
}

func NewProjectService(st store.Store, c cache.CacheInterface, ttl time.Duration, log *logger.Logger) *ProjectService {
	if c == nil {
		c = cache.Noop{}
	}
	return &ProjectService{
		Store:    st,
		Cache:    c,
		CacheTTL: ttl,
		Log:      log,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateProject registers code with adminEmail as its first member and
// points the admin's user record at it.
func (ps *ProjectService) CreateProject(ctx context.Context, code, name, adminEmail string) (*models.Project, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	adminEmail = strings.TrimSpace(adminEmail)
	switch {
	case code == "":
		return nil, apperrors.Validation("Project ID is required")
	case name == "":
		return nil, apperrors.Validation("Project name is required")
	case adminEmail == "":
		return nil, apperrors.Validation("Admin email is required")
	}
	log := ps.Log.WithContext(ctx).WithUser(adminEmail)

	previousCode := ""
	if admin, err := ps.Store.GetUser(ctx, adminEmail); err == nil {
		previousCode = admin.ProjectCode
	}

	project := &models.Project{
		Code:       code,
		Name:       name,
		AdminEmail: adminEmail,
		Members:    []string{adminEmail},
		CreatedAt:  ps.Now(),
	}

	var err error
	if tx, ok := ps.Store.(store.Transactor); ok {
		err = tx.InTx(ctx, func(s store.Store) error {
			if err := s.InsertProject(ctx, project); err != nil {
				return err
			}
			return s.SetUserProject(ctx, adminEmail, code, name)
		})
	} else {
		err = ps.Store.InsertProject(ctx, project)
		if err == nil {
			if syncErr := ps.Store.SetUserProject(ctx, adminEmail, code, name); syncErr != nil {
				log.Error("Failed to sync admin project", "error", syncErr, "project_code", code)
			}
		}
	}
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, apperrors.Conflict("Project ID already exists")
		}
		log.Error("Error creating project", "error", err, "project_code", code)
		return nil, apperrors.Internal("Error creating project", err)
	}

	keys := []string{cache.AdminProjectsKey(adminEmail), cache.TeamKey(code)}
	if previousCode != "" && previousCode != code {
		keys = append(keys, cache.TeamKey(previousCode))
	}
	if err := ps.Cache.Delete(ctx, keys...); err != nil {
		log.Warn("Failed to invalidate project cache", "error", err)
	}

	log.Audit("Project created", "project_code", code)
	return project, nil
}

// ListAdminProjects returns the projects administered by email, newest
// first.
func (ps *ProjectService) ListAdminProjects(ctx context.Context, email string) ([]models.Project, error) {
	email = strings.TrimSpace(email)
	key := cache.AdminProjectsKey(email)
	var projects []models.Project
	if err := cache.GetJSON(ctx, ps.Cache, key, &projects); err == nil {
		return projects, nil
	}

	projects, err := ps.Store.ListProjectsByAdmin(ctx, email)
	if err != nil {
		ps.Log.WithContext(ctx).Error("Error fetching projects", "error", err, "email", email)
		return nil, apperrors.Internal("Error fetching projects", err)
	}
	if err := cache.SetJSON(ctx, ps.Cache, key, projects, ps.CacheTTL); err != nil {
		ps.Log.WithContext(ctx).Warn("Failed to cache projects", "error", err)
	}
	return projects, nil
}
