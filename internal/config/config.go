package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppEnv   string     `validate:"oneof=dev prod"`
	LogLevel slog.Level
	HTTPAddr string     `validate:"required"`

	// CORSAllowedOrigins is the allow-list handed to the CORS middleware; "*" allows any origin.
	CORSAllowedOrigins []string `validate:"min=1,dive,required"`
	Gzip               bool

	Driver          string `validate:"oneof=sqlite3 sqlite"`
	DSN             string
	Path            string `validate:"required_without=DSN"`
	ReadOnly        bool
	LogSQL          bool
	MaxOpenConns    int           `validate:"gte=0"`
	MaxIdleConns    int           `validate:"gte=0"`
	ConnMaxLifetime time.Duration `validate:"gte=0"`
}

// env mirrors the process environment. Typed fields fall back to the
// default tag only when the variable is unset.
type env struct {
	AppEnv             string        `envconfig:"APP_ENV"`
	LogLevel           string        `envconfig:"LOG_LEVEL"`
	HTTPAddr           string        `envconfig:"HTTP_ADDR"`
	CORSAllowedOrigins string        `envconfig:"CORS_ALLOWED_ORIGINS"`
	Gzip               bool          `envconfig:"HTTP_GZIP" default:"true"`
	Driver             string        `envconfig:"DB_DRIVER"`
	DSN                string        `envconfig:"DB_DSN"`
	Path               string        `envconfig:"SQLITE_PATH"`
	ReadOnly           bool          `envconfig:"SQLITE_READ_ONLY" default:"true"`
	LogSQL             bool          `envconfig:"DB_LOG_SQL" default:"false"`
	MaxOpenConns       int           `envconfig:"DB_MAX_OPEN_CONNS" default:"4"`
	MaxIdleConns       int           `envconfig:"DB_MAX_IDLE_CONNS" default:"4"`
	ConnMaxLifetime    time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"0s"`
}

const (
	DriverMattn   = "sqlite3"
	DriverModernc = "sqlite"
)

var ErrInvalid = errors.New("invalid configuration")

// LoadFromEnv reads the process environment, after merging a .env file from
// the working directory when one exists. Variables already set win over .env.
func LoadFromEnv() (Config, error) {
	_ = godotenv.Load()

	var e env
	if err := envconfig.Process("", &e); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	appEnv := orDefault(e.AppEnv, "dev")
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("%w: APP_ENV %q (allowed: dev, prod)", ErrInvalid, appEnv)
	}

	level, err := parseLogLevel(orDefault(e.LogLevel, "info"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		LogLevel:           level,
		HTTPAddr:           orDefault(e.HTTPAddr, ":8080"),
		CORSAllowedOrigins: splitList(orDefault(e.CORSAllowedOrigins, "*")),
		Gzip:               e.Gzip,
		Driver:             strings.ToLower(orDefault(e.Driver, DriverMattn)),
		DSN:                strings.TrimSpace(e.DSN),
		Path:               orDefault(e.Path, "Resources/hawaii.sqlite"),
		ReadOnly:           e.ReadOnly,
		LogSQL:             e.LogSQL,
		MaxOpenConns:       e.MaxOpenConns,
		MaxIdleConns:       e.MaxIdleConns,
		ConnMaxLifetime:    e.ConnMaxLifetime,
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return cfg, nil
}

func orDefault(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: LOG_LEVEL %q (allowed: debug, info, warn, error)", ErrInvalid, s)
	}
}
