// Package dashboard assembles the per-user dashboard and the team roster
// from independent reads keyed by project code.
package dashboard

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

type DashboardService struct {
	Store    store.Store
	Cache    cache.CacheInterface
	CacheTTL time.Duration
	Log      *logger.Logger
}

func NewDashboardService(st store.Store, c cache.CacheInterface, ttl time.Duration, log *logger.Logger) *DashboardService {
	if c == nil {
		c = cache.Noop{}
	}
	return &DashboardService{Store: st, Cache: c, CacheTTL: ttl, Log: log}
}

// GetDashboard composes the user's active project, teammates and project
// history. Missing cross references produce empty lists, not errors.
func (ds *DashboardService) GetDashboard(ctx context.Context, email string) (*models.DashboardView, error) {
	log := ds.Log.WithContext(ctx).WithUser(email)

	user, err := ds.Store.GetUser(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		log.Error("Dashboard sync error", "error", err)
		return nil, apperrors.Internal("Server Error", err)
	}

	view := &models.DashboardView{
		ActiveProjectName: user.ProjectName,
		ActiveProjectCode: user.ProjectCode,
		Teammates:         []models.Teammate{},
		History:           []models.ProjectRef{},
	}
	if view.ActiveProjectName == "" {
		view.ActiveProjectName = models.NoActiveProjectName
	}
	if user.ProjectCode == "" {
		return view, nil
	}

	members, err := ds.Store.ListUsersByProjectCode(ctx, user.ProjectCode)
	if err != nil {
		log.Error("Failed to load teammates", "error", err, "project_code", user.ProjectCode)
		return nil, apperrors.Internal("Server Error", err)
	}
	for _, m := range members {
		if m.Email == email {
			continue
		}
		view.Teammates = append(view.Teammates, models.Teammate{
			Name:     models.UserNameFromEmail(m.Email),
			Email:    m.Email,
			Role:     m.Role,
			Position: m.Position,
		})
	}

	history, err := ds.Store.ListProjectsForUser(ctx, email, user.ProjectCode)
	if err != nil {
		log.Error("Failed to load project history", "error", err)
		return nil, apperrors.Internal("Server Error", err)
	}
	for _, p := range history {
		view.History = append(view.History, models.ProjectRef{Name: p.Name, Code: p.Code})
	}
	return view, nil
}

// TeamRoster lists every user holding code, admins included.
func (ds *DashboardService) TeamRoster(ctx context.Context, code string) ([]models.User, error) {
	code = strings.TrimSpace(code)
	key := cache.TeamKey(code)

	var members []models.User
	if err := cache.GetJSON(ctx, ds.Cache, key, &members); err == nil {
		return members, nil
	}

	members, err := ds.Store.ListUsersByProjectCode(ctx, code)
	if err != nil {
		ds.Log.WithContext(ctx).Error("Error in fetching team details", "error", err, "project_code", code)
		return nil, apperrors.Internal("error in fetching team details", err)
	}
	if err := cache.SetJSON(ctx, ds.Cache, key, members, ds.CacheTTL); err != nil {
		ds.Log.WithContext(ctx).Warn("Failed to cache team roster", "error", err)
	}
	return members, nil
}
