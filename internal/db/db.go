package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"modernc.org/sqlite"

	"hawaii-climate/internal/config"
)

// drivers maps DB_DRIVER values to the concrete SQLite drivers. Both register
// themselves with database/sql under the same names on import.
var drivers = map[string]func() driver.Driver{
	config.DriverMattn:   func() driver.Driver { return &sqlite3.SQLiteDriver{} },
	config.DriverModernc: func() driver.Driver { return &sqlite.Driver{} },
}

// Open returns a pooled handle to the dataset and verifies it answers a ping.
// With cfg.LogSQL every statement is logged at debug level through the
// logging connector.
func Open(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	newDriver, ok := drivers[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("db open: unsupported driver %q", cfg.Driver)
	}

	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	if cfg.LogSQL {
		connector, err := NewLoggingConnector(newDriver(), dsn, slog.Default())
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
		db = sql.OpenDB(connector)
	} else {
		db, err = sql.Open(cfg.Driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

func buildDSN(cfg config.Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}

	path := cfg.Path
	if cfg.ReadOnly {
		// mode=ro will not create the file; report a missing one by path.
		name, _, _ := strings.Cut(strings.TrimPrefix(path, "file:"), "?")
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("sqlite dataset %s: %w", path, err)
		}
	} else if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	params := dsnParams(cfg.Driver, cfg.ReadOnly)

	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&"), nil
	}
	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&")), nil
}

// dsnParams spells the connection pragmas in each driver's DSN dialect.
func dsnParams(driverName string, readOnly bool) []string {
	if driverName == config.DriverModernc {
		params := []string{"_pragma=busy_timeout(5000)", "_pragma=foreign_keys(1)"}
		if readOnly {
			return append(params, "mode=ro", "_pragma=query_only(1)")
		}
		return append(params, "_pragma=journal_mode(WAL)")
	}

	params := []string{"_busy_timeout=5000", "_foreign_keys=on"}
	if readOnly {
		return append(params, "mode=ro", "_query_only=true")
	}
	return append(params, "_journal_mode=WAL")
}
