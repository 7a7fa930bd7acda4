// Package sqlstore implements store.Store on database/sql for MySQL and
// SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/nikhil/togglenest/internal/database"
	"github.com/nikhil/togglenest/internal/models"
	"github.com/nikhil/togglenest/internal/store"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is a store.Store backed by a SQL database.
type Store struct {
	db     *sql.DB
	q      queryer
	tx     *sql.Tx
	driver string

	upsertUserQuery string
}

var (
	_ store.Store      = (*Store)(nil)
	_ store.Transactor = (*Store)(nil)
)

// New wraps an open database. driver is database.MySQL or database.SQLite.
func New(db *sql.DB, driver string) (*Store, error) {
	if driver != database.MySQL && driver != database.SQLite {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	return &Store{
		db:              db,
		q:               db,
		driver:          driver,
		upsertUserQuery: buildUpsertUserQuery(driver),
	}, nil
}

const userColumns = `email, role, position, team_name, team_size, project_name, project_code, member_role, onboarding_complete, created_at, updated_at`

// Optional profile columns keep their stored value when the new one is empty.
var keepOnEmptyColumns = []string{"position", "team_name", "team_size", "project_name", "project_code", "member_role"}

func buildUpsertUserQuery(driver string) string {
	newVal := func(col string) string { return "excluded." + col }
	oldVal := func(col string) string { return "users." + col }
	conflict := "ON CONFLICT(email) DO UPDATE SET"
	if driver == database.MySQL {
		newVal = func(col string) string { return "VALUES(" + col + ")" }
		oldVal = func(col string) string { return col }
		conflict = "ON DUPLICATE KEY UPDATE"
	}

	sets := []string{"role = " + newVal("role")}
	for _, col := range keepOnEmptyColumns {
		sets = append(sets, fmt.Sprintf("%s = COALESCE(NULLIF(%s, ''), %s)", col, newVal(col), oldVal(col)))
	}
	sets = append(sets,
		"onboarding_complete = "+newVal("onboarding_complete"),
		"updated_at = "+newVal("updated_at"),
	)

	return fmt.Sprintf(`INSERT INTO users (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) %s %s`,
		userColumns, conflict, strings.Join(sets, ", "))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var created, updated int64
	err := row.Scan(&u.Email, &u.Role, &u.Position, &u.TeamName, &u.TeamSize, &u.ProjectName,
		&u.ProjectCode, &u.MemberRole, &u.OnboardingComplete, &created, &updated)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = fromMillis(created)
	u.UpdatedAt = fromMillis(updated)
	return &u, nil
}

func (s *Store) UpsertUser(ctx context.Context, u *models.User) (*models.User, error) {
	now := u.UpdatedAt
	if now.IsZero() {
		now = time.Now()
	}
	created := u.CreatedAt
	if created.IsZero() {
		created = now
	}

	_, err := s.q.ExecContext(ctx, s.upsertUserQuery,
		u.Email, u.Role, u.Position, u.TeamName, u.TeamSize, u.ProjectName,
		u.ProjectCode, u.MemberRole, u.OnboardingComplete, toMillis(created), toMillis(now))
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return s.GetUser(ctx, u.Email)
}

func (s *Store) GetUser(ctx context.Context, email string) (*models.User, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "get user")
	}
	return u, nil
}

func (s *Store) FindAdminByProjectCode(ctx context.Context, code string) (*models.User, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users
		WHERE role = ? AND LOWER(project_code) = LOWER(?)
		ORDER BY created_at LIMIT 1`, models.RoleAdmin, code)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "find admin")
	}
	return u, nil
}

func (s *Store) ListUsersByProjectCode(ctx context.Context, code string) ([]models.User, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE project_code = ? ORDER BY created_at`, code)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *Store) SetUserProject(ctx context.Context, email, code, name string) error {
	_, err := s.q.ExecContext(ctx, `UPDATE users SET project_code = ?, project_name = ?, updated_at = ? WHERE email = ?`,
		code, name, toMillis(time.Now()), email)
	if err != nil {
		return fmt.Errorf("set user project: %w", err)
	}
	return nil
}

// InTx runs fn inside a transaction. Nested calls reuse the outer one.
func (s *Store) InTx(ctx context.Context, fn func(tx store.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // Will be ignored if transaction is committed

	txStore := &Store{db: s.db, q: tx, tx: tx, driver: s.driver, upsertUserQuery: s.upsertUserQuery}
	if err := fn(txStore); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func notFound(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isDuplicateKey recognizes unique violations from both drivers.
func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}
