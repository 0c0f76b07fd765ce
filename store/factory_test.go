package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestOpen_MemoryAndFile(t *testing.T) {
	ctx := context.Background()

	// memory
	b, err := Open(ctx, Config{Kind: "memory"})
	if err != nil {
		t.Fatalf("Open memory failed: %v", err)
	}
	if b.Products == nil || b.Events == nil {
		t.Fatal("expected repository and event log for memory")
	}
	if b.IsSQL() {
		t.Fatal("memory backend should not be SQL")
	}
	if err := b.MigrateUp(ctx); !errors.Is(err, ErrNoSchema) {
		t.Fatalf("expected ErrNoSchema, got %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// file
	path := filepath.Join(t.TempDir(), "factory_store.json")
	b2, err := Open(ctx, Config{Kind: "file", FilePath: path})
	if err != nil {
		t.Fatalf("Open file failed: %v", err)
	}
	if _, ok := b2.Products.(*FileProductRepository); !ok {
		t.Fatalf("expected *FileProductRepository, got %T", b2.Products)
	}
	if _, ok := b2.Events.(*FileEventLog); !ok {
		t.Fatalf("expected *FileEventLog, got %T", b2.Events)
	}
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()
	cases := []Config{
		{Kind: "file"},
		{Kind: "postgres"},
		{Kind: "sqlite"},
		{Kind: "cassandra"},
	}
	for _, cfg := range cases {
		if _, err := Open(ctx, cfg); err == nil {
			t.Errorf("expected error for %+v", cfg)
		}
	}
}
