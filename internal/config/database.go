package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	defaultMaxIdleConns    = 10
	defaultMaxOpenConns    = 100
	defaultConnMaxLifetime = time.Hour
	slowQueryThreshold     = 200 * time.Millisecond
	sqliteMemoryPath       = ":memory:"
)

// SetupDatabase opens the SQL database behind the "sql" document store.
// SQL statements are logged through log: every statement at debug level,
// otherwise only slow queries and errors.
func SetupDatabase(cfg *DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	if cfg == nil {
		return nil, errors.New("database config is nil")
	}
	if log == nil {
		return nil, errors.New("logger is nil")
	}

	pool, err := cfg.Pool.settings()
	if err != nil {
		return nil, err
	}
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Driver == "sqlite" && cfg.SQLite.Path == sqliteMemoryPath {
		// Each connection to an in-memory database sees its own copy.
		pool.maxOpen, pool.maxIdle = 1, 1
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newSQLLogger(log)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(pool.maxIdle)
	sqlDB.SetMaxOpenConns(pool.maxOpen)
	sqlDB.SetConnMaxLifetime(pool.lifetime)

	log.Info("database connected",
		slog.String("driver", cfg.Driver),
		slog.Int("max_idle_conns", pool.maxIdle),
		slog.Int("max_open_conns", pool.maxOpen),
		slog.Duration("conn_max_lifetime", pool.lifetime),
	)
	return db, nil
}

func openDialector(cfg *DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite":
		path := cfg.SQLite.Path
		if path != sqliteMemoryPath {
			if dir := filepath.Dir(path); dir != "" && dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, fmt.Errorf("failed to create sqlite directory %q: %w", dir, err)
				}
			}
		}
		return sqlite.Open(path), nil
	case "postgres":
		return postgres.Open(postgresDSN(&cfg.Postgres)), nil
	}
	return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
}

type poolSettings struct {
	maxIdle  int
	maxOpen  int
	lifetime time.Duration
}

// settings resolves the pool limits. Zero or blank values take the defaults.
func (p PoolConfig) settings() (poolSettings, error) {
	s := poolSettings{maxIdle: p.MaxIdleConns, maxOpen: p.MaxOpenConns, lifetime: defaultConnMaxLifetime}
	if s.maxIdle <= 0 {
		s.maxIdle = defaultMaxIdleConns
	}
	if s.maxOpen <= 0 {
		s.maxOpen = defaultMaxOpenConns
	}
	if raw := strings.TrimSpace(p.ConnMaxLifetime); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return s, fmt.Errorf("invalid pool.conn_max_lifetime %q: %w", p.ConnMaxLifetime, err)
		}
		if d <= 0 {
			return s, fmt.Errorf("invalid pool.conn_max_lifetime %q: must be positive", p.ConnMaxLifetime)
		}
		s.lifetime = d
	}
	if s.maxIdle > s.maxOpen {
		s.maxIdle = s.maxOpen
	}
	return s, nil
}

func postgresDSN(cfg *PostgresConfig) string {
	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   cfg.DBName,
	}
	if cfg.User != "" || cfg.Password != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}

	q := url.Values{}
	q.Set("application_name", "transitdesk")
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// sqlLogWriter feeds GORM's printf-style logger into slog.
type sqlLogWriter struct {
	log   *slog.Logger
	level slog.Level
}

func (w sqlLogWriter) Printf(format string, args ...any) {
	w.log.Log(context.Background(), w.level, strings.TrimSpace(fmt.Sprintf(format, args...)), slog.String("component", "sql"))
}

func newSQLLogger(log *slog.Logger) gormlogger.Interface {
	mode, level := gormlogger.Warn, slog.LevelWarn
	if log.Enabled(context.Background(), slog.LevelDebug) {
		mode, level = gormlogger.Info, slog.LevelDebug
	}
	return gormlogger.New(sqlLogWriter{log: log, level: level}, gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  mode,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
