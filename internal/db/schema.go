package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var ErrSchema = errors.New("schema mismatch")

// Table declares a table the application reads and the columns it relies on.
// Extra columns in the dataset are ignored.
type Table struct {
	Name    string
	Columns []string
}

// RequireTables checks that every declared table exists with its required
// columns. The first mismatch is returned wrapped in ErrSchema.
func RequireTables(ctx context.Context, db *sql.DB, tables ...Table) error {
	for _, t := range tables {
		have, err := tableColumns(ctx, db, t.Name)
		if err != nil {
			return fmt.Errorf("inspect table %q: %w", t.Name, err)
		}
		if len(have) == 0 {
			return fmt.Errorf("%w: table %q not found", ErrSchema, t.Name)
		}
		for _, col := range t.Columns {
			if !have[strings.ToLower(col)] {
				return fmt.Errorf("%w: table %q has no column %q", ErrSchema, t.Name, col)
			}
		}
		slog.Debug("schema table verified", "table", t.Name, "columns", len(have))
	}
	return nil
}

func tableColumns(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close table_info rows", "error", err)
		}
	}()
	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[strings.ToLower(name)] = true
	}
	return out, rows.Err()
}
