package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"catalog/domain"
)

// openTestSQL opens a migrated SQL backend: Postgres when TEST_POSTGRES_DSN is
// set, otherwise SQLite in a temp dir. SQLite needs cgo; the test is skipped
// when the driver is unusable.
func openTestSQL(t *testing.T) *Backend {
	t.Helper()
	ctx := context.Background()

	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		b, err := Open(ctx, Config{Kind: "postgres", DSN: dsn, AutoMigrate: true})
		if err != nil {
			t.Fatalf("open postgres: %v", err)
		}
		for _, table := range []string{"domain_events", "products"} {
			if _, err := b.sql.raw.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				t.Fatalf("clean %s: %v", table, err)
			}
		}
		t.Cleanup(func() { _ = b.Close() })
		return b
	}

	b, err := Open(ctx, Config{Kind: "sqlite", DSN: filepath.Join(t.TempDir(), "catalog.db"), AutoMigrate: true})
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestSQLProductRepository(t *testing.T) {
	testProductRepository(t, func(t *testing.T) domain.ProductRepository {
		return openTestSQL(t).Products
	})
}

func TestSQLEventLog(t *testing.T) {
	testEventLog(t, openTestSQL(t).Events)
}

func TestMigrations(t *testing.T) {
	b := openTestSQL(t)
	ctx := context.Background()

	v, err := b.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if v != 2 {
		t.Fatalf("expected schema version 2, got %d", v)
	}

	// up is idempotent
	if err := b.MigrateUp(ctx); err != nil {
		t.Fatalf("second MigrateUp failed: %v", err)
	}

	if err := b.MigrateDown(ctx); err != nil {
		t.Fatalf("MigrateDown failed: %v", err)
	}
	if v, _ := b.SchemaVersion(ctx); v != 1 {
		t.Fatalf("expected schema version 1 after down, got %d", v)
	}
	if err := b.MigrateUp(ctx); err != nil {
		t.Fatalf("MigrateUp after down failed: %v", err)
	}
}

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"plain":  "plain",
		"50%":    `50\%`,
		"a_b":    `a\_b`,
		`back\s`: `back\\s`,
	}
	for in, want := range cases {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}
