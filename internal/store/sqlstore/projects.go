package sqlstore

import (
	"context"
	"fmt"

	"github.com/nikhil/togglenest/internal/models"
	"github.com/nikhil/togglenest/internal/store"
)

const projectColumns = `code, name, admin_email, created_at`

func (s *Store) InsertProject(ctx context.Context, p *models.Project) error {
	return s.InTx(ctx, func(txs store.Store) error {
		tx := txs.(*Store)

		var exists bool
		err := tx.q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM projects WHERE code = ?)`, p.Code).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check project: %w", err)
		}
		if exists {
			return store.ErrConflict
		}

		_, err = tx.q.ExecContext(ctx, `INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?)`,
			p.Code, p.Name, p.AdminEmail, toMillis(p.CreatedAt))
		if err != nil {
			if isDuplicateKey(err) {
				return store.ErrConflict
			}
			return fmt.Errorf("insert project: %w", err)
		}

		for i, email := range p.Members {
			_, err := tx.q.ExecContext(ctx, `INSERT INTO project_members (project_code, email, position) VALUES (?, ?, ?)`,
				p.Code, email, i)
			if err != nil && !isDuplicateKey(err) {
				return fmt.Errorf("insert project member: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) FindProjectByCodeFold(ctx context.Context, code string) (*models.Project, error) {
	return s.getProjectWhere(ctx, `LOWER(code) = LOWER(?)`, code)
}

func (s *Store) getProjectWhere(ctx context.Context, where string, arg string) (*models.Project, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE `+where+` ORDER BY created_at LIMIT 1`, arg)
	p, err := scanProject(row)
	if err != nil {
		return nil, notFound(err, "get project")
	}
	if err := s.loadMembers(ctx, []*models.Project{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) ListProjectsByAdmin(ctx context.Context, email string) ([]models.Project, error) {
	return s.listProjects(ctx, `SELECT `+projectColumns+` FROM projects WHERE admin_email = ? ORDER BY created_at DESC`, email)
}

func (s *Store) ListProjectsForUser(ctx context.Context, email, excludeCode string) ([]models.Project, error) {
	return s.listProjects(ctx, `SELECT `+projectColumns+` FROM projects p
		WHERE (p.admin_email = ? OR EXISTS (
			SELECT 1 FROM project_members m WHERE m.project_code = p.code AND m.email = ?
		))
		AND p.code <> ?
		ORDER BY p.created_at DESC`, email, email, excludeCode)
}

func (s *Store) listProjects(ctx context.Context, query string, args ...any) ([]models.Project, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	var ptrs []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan project: %w", err)
		}
		ptrs = append(ptrs, p)
	}
	// Rows must be released before member lookups; SQLite runs on a single
	// connection.
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadMembers(ctx, ptrs); err != nil {
		return nil, err
	}

	projects := make([]models.Project, 0, len(ptrs))
	for _, p := range ptrs {
		projects = append(projects, *p)
	}
	return projects, nil
}

func (s *Store) loadMembers(ctx context.Context, projects []*models.Project) error {
	for _, p := range projects {
		rows, err := s.q.QueryContext(ctx, `SELECT email FROM project_members WHERE project_code = ? ORDER BY position`, p.Code)
		if err != nil {
			return fmt.Errorf("list project members: %w", err)
		}
		p.Members = []string{}
		for rows.Next() {
			var email string
			if err := rows.Scan(&email); err != nil {
				rows.Close()
				return fmt.Errorf("scan project member: %w", err)
			}
			p.Members = append(p.Members, email)
		}
		if err := rows.Close(); err != nil {
			return err
		}
		if err := rows.Err(); err != nil {
			return err
		}
	}
	return nil
}

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	var created int64
	if err := row.Scan(&p.Code, &p.Name, &p.AdminEmail, &created); err != nil {
		return nil, err
	}
	p.CreatedAt = fromMillis(created)
	return &p, nil
}
