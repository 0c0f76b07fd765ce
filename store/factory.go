package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalog/domain"
)

// Config selects and parameterises a storage backend.
type Config struct {
	// Kind is one of memory (mem), file, sqlite or postgres (pg).
	Kind string
	// FilePath is the product file for the file store. Its event log is
	// written next to it.
	FilePath string
	// DSN is the postgres connection string or the sqlite database path.
	DSN string
	// AutoMigrate applies pending migrations when a SQL backend opens.
	AutoMigrate bool
}

// ErrNoSchema is returned by migration calls on backends without a schema.
var ErrNoSchema = errors.New("store has no schema to migrate")

// Backend is an opened storage backend: a product repository plus the event
// log that records what was published.
type Backend struct {
	Kind     string
	Products domain.ProductRepository
	Events   domain.EventLog

	sql *sqlHandles
}

// Open constructs a Backend by kind.
func Open(ctx context.Context, cfg Config) (*Backend, error) {
	switch strings.ToLower(cfg.Kind) {
	case "memory", "mem", "":
		return &Backend{
			Kind:     "memory",
			Products: NewMemoryProductRepository(),
			Events:   NewMemoryEventLog(),
		}, nil
	case "file":
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("file path required for file store")
		}
		repo, err := NewFileProductRepository(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Kind:     "file",
			Products: repo,
			Events:   NewFileEventLog(EventLogPath(cfg.FilePath)),
		}, nil
	case "sqlite":
		path := cfg.DSN
		if path == "" {
			path = cfg.FilePath
		}
		h, err := openSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		return newSQLBackend(ctx, "sqlite", h, cfg.AutoMigrate)
	case "postgres", "pg":
		h, err := openPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return newSQLBackend(ctx, "postgres", h, cfg.AutoMigrate)
	default:
		return nil, fmt.Errorf("unknown store kind: %s", cfg.Kind)
	}
}

func newSQLBackend(ctx context.Context, kind string, h *sqlHandles, migrate bool) (*Backend, error) {
	b := &Backend{
		Kind:     kind,
		Products: NewSQLProductRepository(h.gorm),
		Events:   NewSQLEventLog(h.sqlx, h.dialect),
		sql:      h,
	}
	if migrate {
		if err := b.MigrateUp(ctx); err != nil {
			h.close()
			return nil, err
		}
	}
	return b, nil
}

// IsSQL reports whether the backend has a database schema.
func (b *Backend) IsSQL() bool { return b.sql != nil }

func (b *Backend) MigrateUp(ctx context.Context) error {
	if b.sql == nil {
		return ErrNoSchema
	}
	return MigrateUp(ctx, b.sql.raw, b.sql.dialect)
}

func (b *Backend) MigrateDown(ctx context.Context) error {
	if b.sql == nil {
		return ErrNoSchema
	}
	return MigrateDown(ctx, b.sql.raw, b.sql.dialect)
}

func (b *Backend) SchemaVersion(ctx context.Context) (int64, error) {
	if b.sql == nil {
		return 0, ErrNoSchema
	}
	return SchemaVersion(ctx, b.sql.raw, b.sql.dialect)
}

// Close releases database connections. It is a no-op for in-process stores.
func (b *Backend) Close() error {
	if b.sql == nil {
		return nil
	}
	return b.sql.close()
}
