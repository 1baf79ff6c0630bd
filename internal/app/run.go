package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"hawaii-climate/internal/config"
	"hawaii-climate/internal/db"
	"hawaii-climate/internal/httpapi"
	"hawaii-climate/internal/modules/climate"
	"hawaii-climate/internal/modules/climate/views"
)

const shutdownTimeout = 10 * time.Second

// Run opens the dataset, checks it carries the climate tables and serves the
// API until ctx is cancelled or the listener fails.
func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"corsAllowedOrigins", cfg.CORSAllowedOrigins,
		"gzip", cfg.Gzip,
		"dbDriver", cfg.Driver,
		"sqlitePath", cfg.Path,
		"dsnOverride", cfg.DSN != "",
		"readOnly", cfg.ReadOnly,
		"logSQL", cfg.LogSQL,
		"maxOpenConns", cfg.MaxOpenConns,
		"maxIdleConns", cfg.MaxIdleConns,
		"connMaxLifetime", cfg.ConnMaxLifetime,
	)

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	defer func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	if err := db.RequireTables(ctx, dbConn, climate.Tables()...); err != nil {
		return fmt.Errorf("verify dataset: %w", err)
	}
	slog.Info("database connection successful")

	if err := views.LoadTemplates(); err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	router := httpapi.NewRouter(dbConn)
	climate.RegisterFeature(router, dbConn)
	srv := httpapi.NewServer(cfg, router)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http listen: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
