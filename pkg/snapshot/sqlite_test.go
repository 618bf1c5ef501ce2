package snapshot

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteStore_SaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "snapshots.db")

	ctx := context.Background()
	store, err := NewSQLiteStore(ctx, dbPath, "muenchen")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	original := testRecordSet()
	if err := store.Save(ctx, original); err != nil {
		t.Fatalf("Failed to save snapshot: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected snapshot to be present")
	}

	if loaded.Len() != original.Len() {
		t.Fatalf("Expected %d rows, got %d", original.Len(), loaded.Len())
	}

	// Колонки TEXT: "48.20" не должна превратиться в "48.2"
	for i := range original.Rows {
		for j := range original.Rows[i] {
			if loaded.Rows[i][j] != original.Rows[i][j] {
				t.Errorf("Cell [%d][%d] changed: %q -> %q",
					i, j, original.Rows[i][j], loaded.Rows[i][j])
			}
		}
	}
}

func TestSQLiteStore_AbsentSnapshot(t *testing.T) {
	tmpDir := t.TempDir()
	ctx := context.Background()

	store, err := NewSQLiteStore(ctx, filepath.Join(tmpDir, "empty.db"), "berlin")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Expected no error for absent table, got %v", err)
	}
	if loaded != nil {
		t.Error("Expected nil record set for absent snapshot table")
	}
}

func TestSQLiteStore_Overwrite(t *testing.T) {
	tmpDir := t.TempDir()
	ctx := context.Background()

	store, err := NewSQLiteStore(ctx, filepath.Join(tmpDir, "snapshots.db"), "muenchen")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	if err := store.Save(ctx, testRecordSet()); err != nil {
		t.Fatalf("Failed to save first snapshot: %v", err)
	}

	second := testRecordSet()
	second.Rows = second.Rows[:1]
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Failed to overwrite snapshot: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if loaded.Len() != 1 {
		t.Errorf("Expected snapshot to be replaced, got %d rows", loaded.Len())
	}
}

func TestNewSQLiteStore_TableValidation(t *testing.T) {
	tmpDir := t.TempDir()
	ctx := context.Background()
	dbPath := filepath.Join(tmpDir, "snapshots.db")

	if _, err := NewSQLiteStore(ctx, dbPath, ""); err == nil {
		t.Error("Expected error for empty table name")
	}
	if _, err := NewSQLiteStore(ctx, dbPath, "bad-name; DROP TABLE x"); err == nil {
		t.Error("Expected error for table name with special characters")
	}
}
