package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// SQL driver names as registered with database/sql.
const (
	MySQL  = "mysql"
	SQLite = "sqlite"
)

// OpenSQL opens and pings a pooled connection for driver.
func OpenSQL(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case MySQL:
	case SQLite:
		dsn = sqliteDSN(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == SQLite {
		// SQLite serializes writers; a single connection avoids SQLITE_BUSY
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)
		db.SetConnMaxIdleTime(1 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database connection is not active: %w", err)
	}

	return db, nil
}

func sqliteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Migrate applies the schema for driver. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var stmts []string
	switch driver {
	case MySQL:
		stmts = mysqlSchema
	case SQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("unsupported sql driver %q", driver)
	}

	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migration error: %w\nSQL: %s", err, s)
		}
	}
	return nil
}
