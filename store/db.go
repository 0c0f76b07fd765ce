package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sqlHandles are the three views of one database connection: gorm for
// products, sqlx for the event log, database/sql for migrations.
type sqlHandles struct {
	gorm    *gorm.DB
	sqlx    *sqlx.DB
	raw     *sql.DB
	dialect string
	close   func() error
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}
}

// openPostgres shares one pgx pool between gorm, sqlx and goose.
func openPostgres(ctx context.Context, dsn string) (*sqlHandles, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn required for postgres store")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	raw := stdlib.OpenDBFromPool(pool)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: raw}), gormConfig())
	if err != nil {
		raw.Close()
		pool.Close()
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}
	return &sqlHandles{
		gorm:    gdb,
		sqlx:    sqlx.NewDb(raw, "pgx"),
		raw:     raw,
		dialect: "postgres",
		close: func() error {
			err := raw.Close()
			pool.Close()
			return err
		},
	}, nil
}

// openSQLite opens a single-connection SQLite database at path.
func openSQLite(ctx context.Context, path string) (*sqlHandles, error) {
	if path == "" {
		return nil, fmt.Errorf("dsn required for sqlite store")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	gdb, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	raw, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	raw.SetMaxOpenConns(1)
	if err := raw.PingContext(ctx); err != nil {
		raw.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &sqlHandles{
		gorm:    gdb,
		sqlx:    sqlx.NewDb(raw, "sqlite3"),
		raw:     raw,
		dialect: "sqlite3",
		close:   raw.Close,
	}, nil
}
