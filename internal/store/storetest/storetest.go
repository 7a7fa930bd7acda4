// Package storetest provides a migrated SQLite store and a stepping clock
// for service and handler tests.
package storetest

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nikhil/togglenest/internal/database"
	"github.com/nikhil/togglenest/internal/store/sqlstore"
)

// NewSQLite opens a fresh SQLite store under t.TempDir and closes it when
// the test ends.
func NewSQLite(t testing.TB) *sqlstore.Store {
	t.Helper()
	ctx := context.Background()

	db, err := database.OpenSQL(ctx, database.SQLite, filepath.Join(t.TempDir(), "togglenest.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(ctx, db, database.SQLite))

	s, err := sqlstore.New(db, database.SQLite)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(ctx) })
	return s
}

// Clock returns a strictly increasing time on every call so records created
// in sequence sort deterministically.
type Clock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

func NewClock(start time.Time) *Clock {
	return &Clock{next: start, step: time.Second}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(c.step)
	return now
}
