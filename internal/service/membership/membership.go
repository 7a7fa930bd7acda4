// Package membership resolves onboarding submissions into users and checks
// member claims against existing admins.
package membership

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nikhil/togglenest/internal/apperrors"
	"github.com/nikhil/togglenest/internal/cache"
	"github.com/nikhil/togglenest/internal/config"
	"github.com/nikhil/togglenest/internal/logger"
	"github.com/nikhil/togglenest/internal/models"
	"github.com/nikhil/togglenest/internal/service/activity"
	"github.com/nikhil/togglenest/internal/store"
)

// OnboardingRequest is the body of an onboarding submission.
type OnboardingRequest struct {
	Email       string `json:"email"`
	Role        string `json:"role"`
	Position    string `json:"position"`
	TeamName    string `json:"teamName"`
	TeamSize    string `json:"teamSize"`
	ProjectName string `json:"projectName"`
	ProjectCode string `json:"projectId"`
	JobFunction string `json:"jobFunction"`
}

// OnboardingStatus is the stored user with role hidden until onboarding is
// complete. User is nil for an unknown email.
type OnboardingStatus struct {
	*models.User
	Email              string  `json:"email"`
	Role               *string `json:"role"`
	OnboardingComplete bool    `json:"onboardingComplete"`
}

// MembershipService handles onboarding.
type MembershipService struct {
	Store    store.Store
	Activity activity.Recorder
	Cache    cache.CacheInterface
	Log      *logger.Logger
	// Source is config.MembershipFromUsers or config.MembershipFromProjects.
	Source string
	Now    func() time.Time
}

func NewMembershipService(st store.Store, rec activity.Recorder, c cache.CacheInterface, source string, log *logger.Logger) *MembershipService {
	if c == nil {
		c = cache.Noop{}
	}
	if source == "" {
		source = config.MembershipFromUsers
	}
	return &MembershipService{
		Store:    st,
		Activity: rec,
		Cache:    c,
		Log:      log,
		Source:   source,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// ResolveOnboarding validates the submission, verifies member claims and
// upserts the user. A rejected member claim writes nothing.
func (ms *MembershipService) ResolveOnboarding(ctx context.Context, req OnboardingRequest) (*models.User, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, apperrors.Validation("Email is required")
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role != models.RoleAdmin && role != models.RoleMember {
		return nil, apperrors.Validation("Role must be either Admin or Member")
	}
	code := strings.TrimSpace(req.ProjectCode)
	log := ms.Log.WithContext(ctx).WithUser(email)

	if role == models.RoleMember {
		if code == "" {
			return nil, apperrors.Validation("Project ID is required for members.")
		}
		if err := ms.verifyProjectCode(ctx, code); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Info("Member claimed unknown project", "project_code", code)
				return nil, apperrors.NotFound(fmt.Sprintf(`Project ID "%s" not found. Please verify with your Admin.`, code))
			}
			log.Error("Failed to verify project code", "error", err, "project_code", code)
			return nil, apperrors.Internal("Internal server error", err)
		}

		ms.Activity.Log(ctx, activity.Entry{
			ProjectCode: code,
			UserName:    models.UserNameFromEmail(email),
			UserEmail:   email,
			ActionType:  models.ActionMemberJoined,
			Description: "Joined the project team.",
		})
	}

	previousCode := ""
	if prev, err := ms.Store.GetUser(ctx, email); err == nil {
		previousCode = prev.ProjectCode
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Warn("Failed to load previous user state", "error", err)
	}

	user, err := ms.Store.UpsertUser(ctx, &models.User{
		Email:              email,
		Role:               role,
		Position:           req.Position,
		TeamName:           req.TeamName,
		TeamSize:           req.TeamSize,
		ProjectName:        req.ProjectName,
		ProjectCode:        code,
		MemberRole:         req.JobFunction,
		OnboardingComplete: true,
		UpdatedAt:          ms.Now(),
	})
	if err != nil {
		log.Error("Failed to save onboarding", "error", err)
		return nil, apperrors.Internal("Internal server error", err)
	}

	ms.invalidateTeams(ctx, previousCode, user.ProjectCode)
	log.Audit("User onboarded", "role", user.Role, "project_code", user.ProjectCode)
	return user, nil
}

// verifyProjectCode checks code against the configured source of admins.
func (ms *MembershipService) verifyProjectCode(ctx context.Context, code string) error {
	if ms.Source == config.MembershipFromProjects {
		_, err := ms.Store.FindProjectByCodeFold(ctx, code)
		return err
	}
	_, err := ms.Store.FindAdminByProjectCode(ctx, code)
	return err
}

func (ms *MembershipService) invalidateTeams(ctx context.Context, codes ...string) {
	var keys []string
	for _, code := range codes {
		if code != "" {
			keys = append(keys, cache.TeamKey(code))
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := ms.Cache.Delete(ctx, keys...); err != nil {
		ms.Log.WithContext(ctx).Warn("Failed to invalidate team cache", "error", err, "keys", keys)
	}
}

// GetOnboarding reports the stored onboarding state for email. Unknown
// emails are reported as not onboarded rather than as an error.
func (ms *MembershipService) GetOnboarding(ctx context.Context, email string) (*OnboardingStatus, error) {
	user, err := ms.Store.GetUser(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return &OnboardingStatus{Email: email}, nil
	}
	if err != nil {
		ms.Log.WithContext(ctx).Error("Fetch user error", "error", err, "email", email)
		return nil, apperrors.Internal("Server error", err)
	}

	status := &OnboardingStatus{
		User:               user,
		Email:              user.Email,
		OnboardingComplete: user.OnboardingComplete,
	}
	if user.OnboardingComplete {
		role := user.Role
		status.Role = &role
	}
	return status, nil
}
