// Package seed loads a small Hawaii climate fixture (the station/measurement
// schema and a slice of observations) into a writable SQLite database.
// Files are applied in version order (0001_name.sql, 0002_other.sql, ...) and
// recorded in a seed_versions table so re-running is a no-op.
package seed

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"regexp"
	"sort"
)

//go:embed sql/*.sql
var sqlFS embed.FS

const (
	seedDir   = "sql"
	tableName = "seed_versions"
)

// SchemaOnly stops after the schema file, leaving both tables empty.
const SchemaOnly = "0001"

var seedFileRe = regexp.MustCompile(`^(\d{4})_(.+)\.sql$`)

type step struct {
	version string
	name    string
	body    string
}

// Run applies every pending fixture file.
func Run(ctx context.Context, db *sql.DB) error {
	return RunUpTo(ctx, db, "")
}

// RunUpTo applies pending fixture files whose version is <= last. An empty
// last applies everything.
func RunUpTo(ctx context.Context, db *sql.DB, last string) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+tableName+` (
			version    TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)
	`); err != nil {
		return fmt.Errorf("ensure %s table: %w", tableName, err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return fmt.Errorf("list applied seeds: %w", err)
	}

	pending, err := pendingSteps(applied, last)
	if err != nil {
		return err
	}

	for _, s := range pending {
		if err := apply(ctx, db, s); err != nil {
			return fmt.Errorf("apply %s_%s.sql: %w", s.version, s.name, err)
		}
		slog.Info("seed applied", "version", s.version, "name", s.name)
	}
	return nil
}

func pendingSteps(applied map[string]bool, last string) ([]step, error) {
	entries, err := fs.ReadDir(sqlFS, seedDir)
	if err != nil {
		return nil, fmt.Errorf("read seed dir: %w", err)
	}

	var out []step
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := seedFileRe.FindStringSubmatch(e.Name())
		if m == nil || applied[m[1]] {
			continue
		}
		if last != "" && m[1] > last {
			continue
		}
		body, err := fs.ReadFile(sqlFS, seedDir+"/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("read seed %s: %w", e.Name(), err)
		}
		out = append(out, step{version: m[1], name: m[2], body: string(body)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM "+tableName)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close seed version rows", "error", err)
		}
	}()
	out := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out[v] = true
	}
	return out, rows.Err()
}

// apply runs one file and records it in the same transaction.
func apply(ctx context.Context, db *sql.DB, s step) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, s.body); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO "+tableName+" (version, name) VALUES (?, ?)",
		s.version, s.name,
	); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
