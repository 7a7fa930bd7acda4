package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhil/togglenest/internal/cache"
	"github.com/nikhil/togglenest/internal/config"
	"github.com/nikhil/togglenest/internal/database"
)

func TestSQLTarget(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.DriverSQLite, SQLitePath: "x.db"}
	driver, dsn := sqlTarget(cfg)
	assert.Equal(t, database.SQLite, driver)
	assert.Equal(t, "x.db", dsn)

	cfg.StoreDriver = config.DriverMongo
	driver, _ = sqlTarget(cfg)
	assert.Empty(t, driver)
}

func TestMigrateAndOpenStore_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{StoreDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "app.db")}

	require.NoError(t, migrate(ctx, cfg))

	st, err := openStore(ctx, cfg)
	require.NoError(t, err)
	defer st.Close(ctx)
	assert.NoError(t, st.Ping(ctx))
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	c, closeFn, err := openCache(ctx, &config.Config{CacheDriver: config.CacheNone})
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, cache.Noop{}, c)

	c, closeFn, err = openCache(ctx, &config.Config{CacheDriver: config.CacheMemory, CacheTTL: 0})
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &cache.MemoryCache{}, c)
}

func TestRootCommand(t *testing.T) {
	cmd := rootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])
	assert.True(t, names["version"])
	assert.True(t, names["token"])
}

func TestVersionCommand(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, appName+" version "+Version+"\n", out.String())
}

func TestMissingEnvFileFails(t *testing.T) {
	cmd := rootCmd()
	cmd.SetArgs([]string{"migrate", "--env-file", filepath.Join(t.TempDir(), "missing.env")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load env file")
}
