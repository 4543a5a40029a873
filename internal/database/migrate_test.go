package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTempSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "fyyur.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countRows(t *testing.T, db *sql.DB, query string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query).Scan(&n))
	return n
}

func TestMigrateCreatesSchema(t *testing.T) {
	db := openTempSQLite(t)

	require.NoError(t, Migrate(context.Background(), db, SQLite))

	for _, table := range []string{"venues", "artists", "shows"} {
		n := countRows(t, db, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = '"+table+"'")
		assert.Equal(t, 1, n, table)
	}
	assert.Equal(t, 1, countRows(t, db, "SELECT COUNT(*) FROM schema_migrations"))
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTempSQLite(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, db, SQLite))
	require.NoError(t, Migrate(ctx, db, SQLite))

	assert.Equal(t, 1, countRows(t, db, "SELECT COUNT(*) FROM schema_migrations"))
}

func TestApplyMigrationsRunsFilesInOrder(t *testing.T) {
	db := openTempSQLite(t)
	fsys := fstest.MapFS{
		"x/002_seed.sql":   {Data: []byte("-- +migrate Up\nINSERT INTO items (id) VALUES ('a');\n-- +migrate Down\nDELETE FROM items;")},
		"x/001_create.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE items (id TEXT PRIMARY KEY);")},
	}

	require.NoError(t, ApplyMigrations(context.Background(), db, fsys, "x"))

	assert.Equal(t, 1, countRows(t, db, "SELECT COUNT(*) FROM items"))
	assert.Equal(t, 2, countRows(t, db, "SELECT COUNT(*) FROM schema_migrations"))
}

func TestSplitStatements(t *testing.T) {
	script := `
-- comment
CREATE TABLE a (
    id INTEGER
);

CREATE INDEX i ON a (id);
`
	stmts := SplitStatements(script)
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], "CREATE TABLE a")
	assert.NotContains(t, stmts[0], ";")
	assert.Equal(t, "CREATE INDEX i ON a (id)", stmts[1])
}

func TestExtractUpMigration(t *testing.T) {
	up := ExtractUpMigration("-- +migrate Up\nCREATE TABLE t (id INT);\n-- +migrate Down\nDROP TABLE t;")
	assert.Contains(t, up, "CREATE TABLE t")
	assert.NotContains(t, up, "DROP TABLE")
}
