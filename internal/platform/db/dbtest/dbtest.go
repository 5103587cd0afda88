// Package dbtest opens throwaway SQLite record stores for tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/healthnexus/nexus/internal/platform/db"
)

// Open returns a fresh record store with the schema applied. The file lives
// under t.TempDir and is closed when the test ends.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), db.DefaultPath)
	conn, err := db.Open(context.Background(), db.DriverSQLite, path)
	if err != nil {
		t.Fatalf("open record store: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.EnsureSchema(context.Background(), conn, db.DriverSQLite); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return conn
}
