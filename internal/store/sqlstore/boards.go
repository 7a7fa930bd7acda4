package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/nikhil/togglenest/internal/models"
)

const taskColumns = `id, project_code, title, deadline, status, priority, assignee_name, assignee_initial, created_at`

func (s *Store) InsertTask(ctx context.Context, t *models.Task) error {
	_, err := s.q.ExecContext(ctx, `INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ProjectCode, t.Title, t.Deadline, t.Status, t.Priority, t.AssigneeName, t.AssigneeInitial, toMillis(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *Store) ListTasks(ctx context.Context, code string) ([]models.Task, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_code = ? ORDER BY created_at DESC`, code)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTaskStatus(ctx context.Context, id, status string) (*models.Task, error) {
	// RowsAffected is not used: MySQL reports 0 when the status is unchanged.
	if _, err := s.q.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ?`, status, id); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	t, err := scanTask(s.q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "get task")
	}
	return t, nil
}

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	var created int64
	err := row.Scan(&t.ID, &t.ProjectCode, &t.Title, &t.Deadline, &t.Status, &t.Priority,
		&t.AssigneeName, &t.AssigneeInitial, &created)
	if err != nil {
		return nil, err
	}
	t.CreatedAt = fromMillis(created)
	return &t, nil
}

const queryColumns = `id, project_code, body, sender_email, is_resolved, created_at, updated_at`

func (s *Store) InsertQuery(ctx context.Context, q *models.Query) error {
	_, err := s.q.ExecContext(ctx, `INSERT INTO queries (`+queryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.ProjectCode, q.Text, q.SenderEmail, q.IsResolved, toMillis(q.CreatedAt), toMillis(q.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert query: %w", err)
	}
	return nil
}

func (s *Store) ListQueries(ctx context.Context, code string) ([]models.Query, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+queryColumns+` FROM queries WHERE project_code = ? ORDER BY created_at DESC`, code)
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	defer rows.Close()

	queries := []models.Query{}
	for rows.Next() {
		q, err := scanQuery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan query: %w", err)
		}
		queries = append(queries, *q)
	}
	return queries, rows.Err()
}

func (s *Store) ToggleQueryResolved(ctx context.Context, id string) (*models.Query, error) {
	_, err := s.q.ExecContext(ctx, `UPDATE queries SET is_resolved = 1 - is_resolved, updated_at = ? WHERE id = ?`,
		toMillis(time.Now()), id)
	if err != nil {
		return nil, fmt.Errorf("toggle query: %w", err)
	}
	q, err := scanQuery(s.q.QueryRowContext(ctx, `SELECT `+queryColumns+` FROM queries WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "get query")
	}
	return q, nil
}

func scanQuery(row rowScanner) (*models.Query, error) {
	var q models.Query
	var created, updated int64
	if err := row.Scan(&q.ID, &q.ProjectCode, &q.Text, &q.SenderEmail, &q.IsResolved, &created, &updated); err != nil {
		return nil, err
	}
	q.CreatedAt = fromMillis(created)
	q.UpdatedAt = fromMillis(updated)
	return &q, nil
}

const activityColumns = `id, project_code, user_name, user_email, action_type, description, created_at`

func (s *Store) InsertActivity(ctx context.Context, a *models.Activity) error {
	_, err := s.q.ExecContext(ctx, `INSERT INTO activities (`+activityColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ProjectCode, a.UserName, a.UserEmail, string(a.ActionType), a.Description, toMillis(a.Timestamp))
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (s *Store) ListActivities(ctx context.Context, code string, limit int) ([]models.Activity, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+activityColumns+` FROM activities
		WHERE project_code = ? ORDER BY created_at DESC LIMIT ?`, code, limit)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	activities := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		var action string
		var created int64
		if err := rows.Scan(&a.ID, &a.ProjectCode, &a.UserName, &a.UserEmail, &action, &a.Description, &created); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.ActionType = models.ActionType(action)
		a.Timestamp = fromMillis(created)
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
