package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
)

// scripts holds the SQL migration files, applied in filename order.
//
//go:embed *.sql
var scripts embed.FS

// Run brings the schema up to date. Every applied script is recorded in
// a schema_migrations table, so reruns only apply what is new. Returns
// the number of scripts applied by this call.
func Run(ctx context.Context, db *sql.DB) (int, error) {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return 0, fmt.Errorf("ensure migrations table: %w", err)
	}

	pending, err := pendingScripts(ctx, db)
	if err != nil {
		return 0, err
	}

	for _, name := range pending {
		if err := apply(ctx, db, name); err != nil {
			return 0, fmt.Errorf("apply migration %s: %w", name, err)
		}
		slog.Info("migration applied", "script", name)
	}

	return len(pending), nil
}

// pendingScripts returns the embedded scripts not yet recorded in
// schema_migrations, sorted by filename.
func pendingScripts(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan applied migration: %w", err)
		}
		applied[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read applied migrations: %w", err)
	}

	names, err := fs.Glob(scripts, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("glob migration scripts: %w", err)
	}

	pending := names[:0]
	for _, name := range names {
		if !applied[name] {
			pending = append(pending, name)
		}
	}
	sort.Strings(pending)
	return pending, nil
}

// apply executes one script and records it, both inside one transaction.
func apply(ctx context.Context, db *sql.DB, name string) error {
	content, err := fs.ReadFile(scripts, name)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("execute sql: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
		return fmt.Errorf("record migration: %w", err)
	}

	return tx.Commit()
}
