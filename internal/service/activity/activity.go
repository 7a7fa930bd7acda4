// Package activity records the per-project feed. Writing an entry never
// fails the operation that triggered it.
package activity

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/nikhil/togglenest/internal/apperrors"
	"github.com/nikhil/togglenest/internal/events"
	"github.com/nikhil/togglenest/internal/logger"
	"github.com/nikhil/togglenest/internal/metrics"
	"github.com/nikhil/togglenest/internal/models"
	"github.com/nikhil/togglenest/internal/store"
)

const snippetLength = 30

// Broadcaster pushes a stored activity to live subscribers.
type Broadcaster interface {
	BroadcastActivity(a *models.Activity)
}

// Recorder is what the other services depend on.
type Recorder interface {
	Log(ctx context.Context, entry Entry)
}

// Entry is the caller-supplied part of an activity.
type Entry struct {
	ProjectCode string
	UserName    string
	UserEmail   string
	ActionType  models.ActionType
	Description string
}

// ActivityService appends feed entries and serves the feed.
type ActivityService struct {
	Store  store.Store
	Hub    Broadcaster
	Events events.Publisher
	Logger *logger.Logger
	Now    func() time.Time
}

// NewActivityService wires the service. hub and pub may be nil.
func NewActivityService(st store.Store, hub Broadcaster, pub events.Publisher, log *logger.Logger) *ActivityService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &ActivityService{
		Store:  st,
		Hub:    hub,
		Events: pub,
		Logger: log,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

// Log stores entry, then fans it out. Failures are logged and counted.
func (as *ActivityService) Log(ctx context.Context, entry Entry) {
	a := &models.Activity{
		ID:          uuid.NewString(),
		ProjectCode: strings.TrimSpace(entry.ProjectCode),
		UserName:    entry.UserName,
		UserEmail:   entry.UserEmail,
		ActionType:  entry.ActionType,
		Description: entry.Description,
		Timestamp:   as.Now(),
	}
	log := as.Logger.WithContext(ctx)

	if !a.ActionType.Valid() {
		metrics.ActivityLogFailures.Inc()
		log.Error("Rejected activity with unknown action type", "action_type", a.ActionType, "project_code", a.ProjectCode)
		return
	}
	if err := as.Store.InsertActivity(ctx, a); err != nil {
		metrics.ActivityLogFailures.Inc()
		log.Error("Failed to log activity", "error", err, "action_type", a.ActionType, "project_code", a.ProjectCode)
		return
	}
	metrics.ActivitiesLogged.WithLabelValues(string(a.ActionType)).Inc()

	if as.Hub != nil {
		as.Hub.BroadcastActivity(a)
	}
	if err := as.Events.PublishActivity(ctx, a); err != nil {
		log.Warn("Failed to publish activity", "error", err, "activity_id", a.ID)
	}
}

// Feed returns the newest entries for code, at most store.ActivityFeedLimit.
func (as *ActivityService) Feed(ctx context.Context, code string) ([]models.Activity, error) {
	activities, err := as.Store.ListActivities(ctx, strings.TrimSpace(code), store.ActivityFeedLimit)
	if err != nil {
		as.Logger.WithContext(ctx).Error("Failed to fetch activities", "error", err, "project_code", code)
		return nil, apperrors.Internal("Failed to fetch activities", err)
	}
	return activities, nil
}

// Snippet shortens text for a feed description.
func Snippet(text string) string {
	if utf8.RuneCountInString(text) <= snippetLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:snippetLength]) + "..."
}
