// Package board implements the task and query boards of a project.
package board

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nikhil/togglenest/internal/apperrors"
	"github.com/nikhil/togglenest/internal/logger"
	"github.com/nikhil/togglenest/internal/models"
	"github.com/nikhil/togglenest/internal/service/activity"
	"github.com/nikhil/togglenest/internal/store"
)

// Default actor names used in feed entries when the caller sends none.
const (
	defaultTaskCreator   = "Admin"
	defaultTaskUpdater   = "Member"
	defaultQueryResolver = "Someone"
)

type CreateTaskRequest struct {
	ProjectCode     string `json:"projectId"`
	Title           string `json:"title"`
	Deadline        string `json:"deadline"`
	Priority        string `json:"priority"`
	AssigneeName    string `json:"assigneeName"`
	AssigneeInitial string `json:"assigneeInitial"`
	UserName        string `json:"userName"`
	UserEmail       string `json:"userEmail"`
}

type UpdateTaskStatusRequest struct {
	Status    string `json:"status"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}

type CreateQueryRequest struct {
	ProjectCode string `json:"projectId"`
	Text        string `json:"text"`
	SenderEmail string `json:"senderEmail"`
	UserName    string `json:"userName"`
}

// BoardService owns tasks and queries. Records are keyed to a project only
// by code; StrictRefs adds an existence check on creation.
type BoardService struct {
	Store      store.Store
	Activity   activity.Recorder
	Log        *logger.Logger
	StrictRefs bool
	Now        func() time.Time
}

func NewBoardService(st store.Store, rec activity.Recorder, strictRefs bool, log *logger.Logger) *BoardService {
	return &BoardService{
		Store:      st,
		Activity:   rec,
		Log:        log,
		StrictRefs: strictRefs,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}

// checkProjectRef resolves code to a project or an admin when StrictRefs is
// set.
func (bs *BoardService) checkProjectRef(ctx context.Context, code string) error {
	if !bs.StrictRefs {
		return nil
	}
	_, err := bs.Store.FindProjectByCodeFold(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		_, err = bs.Store.FindAdminByProjectCode(ctx, code)
	}
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound("Project not found")
	}
	if err != nil {
		return apperrors.Internal("Error verifying project", err)
	}
	return nil
}

func (bs *BoardService) CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error) {
	code := strings.TrimSpace(req.ProjectCode)
	title := strings.TrimSpace(req.Title)
	if code == "" {
		return nil, apperrors.Validation("Project ID is required")
	}
	if title == "" {
		return nil, apperrors.Validation("Task title is required")
	}
	log := bs.Log.WithContext(ctx)
	if err := bs.checkProjectRef(ctx, code); err != nil {
		return nil, err
	}

	priority := strings.TrimSpace(req.Priority)
	if priority == "" {
		priority = models.DefaultTaskPriority
	}
	task := &models.Task{
		ID:              uuid.NewString(),
		ProjectCode:     code,
		Title:           title,
		Deadline:        req.Deadline,
		Status:          models.TaskStatusTodo,
		Priority:        priority,
		AssigneeName:    req.AssigneeName,
		AssigneeInitial: req.AssigneeInitial,
		CreatedAt:       bs.Now(),
	}
	if err := bs.Store.InsertTask(ctx, task); err != nil {
		log.Error("Error saving task", "error", err, "project_code", code)
		return nil, apperrors.Internal("Error creating task", err)
	}

	bs.Activity.Log(ctx, activity.Entry{
		ProjectCode: code,
		UserName:    orDefault(req.UserName, defaultTaskCreator),
		UserEmail:   req.UserEmail,
		ActionType:  models.ActionTaskCreated,
		Description: `Created task: "` + activity.Snippet(task.Title) + `"`,
	})
	return task, nil
}

func (bs *BoardService) ListTasks(ctx context.Context, code string) ([]models.Task, error) {
	tasks, err := bs.Store.ListTasks(ctx, strings.TrimSpace(code))
	if err != nil {
		bs.Log.WithContext(ctx).Error("Fetch tasks error", "error", err, "project_code", code)
		return nil, apperrors.Internal("Error fetching tasks", err)
	}
	return tasks, nil
}

// UpdateTaskStatus replaces the status. Any value is accepted; only Done
// changes the feed wording.
func (bs *BoardService) UpdateTaskStatus(ctx context.Context, id string, req UpdateTaskStatusRequest) (*models.Task, error) {
	status := strings.TrimSpace(req.Status)
	if status == "" {
		return nil, apperrors.Validation("Status is required")
	}

	task, err := bs.Store.UpdateTaskStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Task not found")
		}
		bs.Log.WithContext(ctx).Error("Error updating task status", "error", err, "task_id", id)
		return nil, apperrors.Internal("Error updating task status", err)
	}

	verb := "Updated"
	if status == models.TaskStatusDone {
		verb = "Completed"
	}
	bs.Activity.Log(ctx, activity.Entry{
		ProjectCode: task.ProjectCode,
		UserName:    orDefault(req.UserName, defaultTaskUpdater),
		UserEmail:   req.UserEmail,
		ActionType:  models.ActionTaskUpdated,
		Description: verb + ` task: "` + activity.Snippet(task.Title) + `"`,
	})
	return task, nil
}

func (bs *BoardService) CreateQuery(ctx context.Context, req CreateQueryRequest) (*models.Query, error) {
	code := strings.TrimSpace(req.ProjectCode)
	sender := strings.TrimSpace(req.SenderEmail)
	switch {
	case code == "":
		return nil, apperrors.Validation("Project ID is required")
	case strings.TrimSpace(req.Text) == "":
		return nil, apperrors.Validation("Query text is required")
	case sender == "":
		return nil, apperrors.Validation("Sender email is required")
	}
	if err := bs.checkProjectRef(ctx, code); err != nil {
		return nil, err
	}

	now := bs.Now()
	query := &models.Query{
		ID:          uuid.NewString(),
		ProjectCode: code,
		Text:        req.Text,
		SenderEmail: sender,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := bs.Store.InsertQuery(ctx, query); err != nil {
		bs.Log.WithContext(ctx).Error("Error saving query", "error", err, "project_code", code)
		return nil, apperrors.Internal("Error saving query", err)
	}

	bs.Activity.Log(ctx, activity.Entry{
		ProjectCode: code,
		UserName:    orDefault(req.UserName, models.UserNameFromEmail(sender)),
		UserEmail:   sender,
		ActionType:  models.ActionQueryAdded,
		Description: `Added a new query: "` + activity.Snippet(query.Text) + `"`,
	})
	return query, nil
}

func (bs *BoardService) ListQueries(ctx context.Context, code string) ([]models.Query, error) {
	queries, err := bs.Store.ListQueries(ctx, strings.TrimSpace(code))
	if err != nil {
		bs.Log.WithContext(ctx).Error("Fetch queries error", "error", err, "project_code", code)
		return nil, apperrors.Internal("Error fetching queries", err)
	}
	return queries, nil
}

// ToggleQuery flips the resolved flag. Only a transition into resolved is
// recorded in the feed.
func (bs *BoardService) ToggleQuery(ctx context.Context, id, actorName string) (*models.Query, error) {
	query, err := bs.Store.ToggleQueryResolved(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Query not found")
		}
		bs.Log.WithContext(ctx).Error("Error updating query", "error", err, "query_id", id)
		return nil, apperrors.Internal("Error updating query", err)
	}

	if query.IsResolved {
		bs.Activity.Log(ctx, activity.Entry{
			ProjectCode: query.ProjectCode,
			UserName:    orDefault(actorName, defaultQueryResolver),
			UserEmail:   query.SenderEmail,
			ActionType:  models.ActionQueryResolved,
			Description: `Resolved query: "` + activity.Snippet(query.Text) + `"`,
		})
	}
	return query, nil
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
