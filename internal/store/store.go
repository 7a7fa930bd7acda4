// Package store defines the record store shared by every service. Records
// reference each other only through the project-code string; no
// implementation enforces referential integrity.
package store

import (
	"context"
	"errors"

	"github.com/nikhil/togglenest/internal/models"
)

var (
	// ErrNotFound is returned when a keyed lookup matches nothing.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when an insert collides with an existing key.
	ErrConflict = errors.New("record already exists")
)

// ActivityFeedLimit caps every activity feed read.
const ActivityFeedLimit = 20

// Store is the durable record store. Every method is a single-document
// operation unless noted otherwise.
type Store interface {
	// UpsertUser inserts or updates the user keyed by u.Email and returns
	// the stored row. Empty optional fields keep their stored value.
	UpsertUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUser(ctx context.Context, email string) (*models.User, error)
	// FindAdminByProjectCode matches admins whose project code equals code
	// ignoring case.
	FindAdminByProjectCode(ctx context.Context, code string) (*models.User, error)
	// ListUsersByProjectCode matches the code exactly.
	ListUsersByProjectCode(ctx context.Context, code string) ([]models.User, error)
	// SetUserProject updates an existing user's project code and name. It is
	// a no-op when the user does not exist.
	SetUserProject(ctx context.Context, email, code, name string) error

	// InsertProject fails with ErrConflict when the code exists (exact match).
	InsertProject(ctx context.Context, p *models.Project) error
	// FindProjectByCodeFold matches the code ignoring case.
	FindProjectByCodeFold(ctx context.Context, code string) (*models.Project, error)
	// ListProjectsByAdmin returns the admin's projects, newest first.
	ListProjectsByAdmin(ctx context.Context, email string) ([]models.Project, error)
	// ListProjectsForUser returns projects the email administers or is a
	// member of, excluding excludeCode.
	ListProjectsForUser(ctx context.Context, email, excludeCode string) ([]models.Project, error)

	InsertTask(ctx context.Context, t *models.Task) error
	// ListTasks returns the project's tasks, newest first.
	ListTasks(ctx context.Context, code string) ([]models.Task, error)
	UpdateTaskStatus(ctx context.Context, id, status string) (*models.Task, error)

	InsertQuery(ctx context.Context, q *models.Query) error
	// ListQueries returns the project's queries, newest first.
	ListQueries(ctx context.Context, code string) ([]models.Query, error)
	// ToggleQueryResolved atomically flips the resolved flag and returns the
	// updated query.
	ToggleQueryResolved(ctx context.Context, id string) (*models.Query, error)

	InsertActivity(ctx context.Context, a *models.Activity) error
	// ListActivities returns at most limit entries, newest first.
	ListActivities(ctx context.Context, code string, limit int) ([]models.Activity, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Transactor is implemented by stores that can run several writes
// atomically. fn receives a Store bound to the transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(tx Store) error) error
}
