package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"hawaii-climate/internal/config"
	"hawaii-climate/internal/db"
	"hawaii-climate/internal/logging"
	"hawaii-climate/internal/modules/climate"
	"hawaii-climate/internal/seed"
)

const (
	appName = "climate-tools"
	version = "dev"
	usage   = `usage: %s <command>
  seed   create SQLITE_PATH if needed and load the sample dataset
  check  verify SQLITE_PATH carries the station and measurement tables
`
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(cfg, version, appName))

	ctx := context.Background()
	switch os.Args[1] {
	case "seed":
		err = runSeed(ctx, cfg)
	case "check":
		err = runCheck(ctx, cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func runSeed(ctx context.Context, cfg config.Config) error {
	cfg.ReadOnly = false
	conn, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB(conn)

	if err := seed.Run(ctx, conn); err != nil {
		return err
	}
	slog.Info("seed applied", "path", cfg.Path)
	return nil
}

func runCheck(ctx context.Context, cfg config.Config) error {
	conn, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB(conn)

	if err := db.RequireTables(ctx, conn, climate.Tables()...); err != nil {
		return err
	}
	slog.Info("dataset ok", "path", cfg.Path)
	return nil
}

func closeDB(conn *sql.DB) {
	if err := db.Close(conn); err != nil {
		slog.Error("db close", "err", err)
	}
}
