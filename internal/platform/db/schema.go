package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// EnsureSchema creates the record store tables and indexes when they are
// absent. Existing tables are left untouched; there is no migration step.
func EnsureSchema(ctx context.Context, conn *sql.DB, driver string) error {
	name := "schema/sqlite.sql"
	if driver == DriverPostgres {
		name = "schema/postgres.sql"
	}
	raw, err := schemaFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	for _, stmt := range splitStatements(string(raw)) {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// splitStatements splits a schema file on ";" and drops blank statements
// and "--" comment lines.
func splitStatements(src string) []string {
	var lines []string
	for _, line := range strings.Split(src, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}
	var out []string
	for _, stmt := range strings.Split(strings.Join(lines, "\n"), ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}
