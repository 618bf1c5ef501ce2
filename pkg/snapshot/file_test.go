package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ruslano69/cellscan/pkg/core/record"
)

func testRecordSet() record.RecordSet {
	return record.RecordSet{
		Schema: record.ProjectedSchema(),
		Rows: [][]string{
			{"11.5", "48.1", "262", "1000", "1", "100", "-80"},
			{"11.60", "48.20", "262", "500", "6", "200", "-75"},
		},
	}
}

func TestFileStore_SaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "snapshot.csv")

	store, err := NewFileStore(FileConfig{Path: path})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
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

	// Round-trip не меняет строковое представление ячеек
	for i := range original.Rows {
		for j := range original.Rows[i] {
			if loaded.Rows[i][j] != original.Rows[i][j] {
				t.Errorf("Cell [%d][%d] changed: %q -> %q",
					i, j, original.Rows[i][j], loaded.Rows[i][j])
			}
		}
	}
}

func TestFileStore_SaveLoadCompressed(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "snapshot.csv.zst")

	store, err := NewFileStore(FileConfig{Path: path, Compress: true, CompressLevel: 3})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	ctx := context.Background()
	original := testRecordSet()

	if err := store.Save(ctx, original); err != nil {
		t.Fatalf("Failed to save compressed snapshot: %v", err)
	}

	// Сырой файл не должен быть валидным CSV
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read snapshot file: %v", err)
	}
	if strings.HasPrefix(string(raw), "lon,lat") {
		t.Error("Expected compressed payload, found plain CSV")
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load compressed snapshot: %v", err)
	}
	if loaded == nil || loaded.Len() != original.Len() {
		t.Fatal("Expected compressed snapshot to round-trip")
	}
}

func TestFileStore_AbsentSnapshot(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewFileStore(FileConfig{Path: filepath.Join(tmpDir, "missing.csv")})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	// Отсутствующий снапшот - это (nil, nil), не ошибка
	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Expected no error for absent snapshot, got %v", err)
	}
	if loaded != nil {
		t.Error("Expected nil record set for absent snapshot")
	}
}

func TestFileStore_ChecksumMismatch(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "snapshot.csv")

	store, err := NewFileStore(FileConfig{Path: path})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	ctx := context.Background()
	if err := store.Save(ctx, testRecordSet()); err != nil {
		t.Fatalf("Failed to save snapshot: %v", err)
	}

	// Портим содержимое, оставляя валидный CSV
	tampered := "lon,lat,mcc,range,net,cell,averageSignal\n0,0,262,1,1,1,-1\n"
	if err := os.WriteFile(path, []byte(tampered), 0644); err != nil {
		t.Fatalf("Failed to tamper snapshot: %v", err)
	}

	_, err = store.Load(ctx)
	if err == nil {
		t.Fatal("Expected checksum mismatch error for tampered snapshot")
	}
	if !strings.Contains(err.Error(), "checksum mismatch") {
		t.Errorf("Expected checksum mismatch message, got: %v", err)
	}
}

func TestFileStore_Overwrite(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "snapshot.csv")

	store, err := NewFileStore(FileConfig{Path: path})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	ctx := context.Background()
	if err := store.Save(ctx, testRecordSet()); err != nil {
		t.Fatalf("Failed to save first snapshot: %v", err)
	}

	second := record.RecordSet{
		Schema: record.ProjectedSchema(),
		Rows: [][]string{
			{"13.4", "52.5", "262", "800", "2", "300", "-90"},
		},
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Failed to overwrite snapshot: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if loaded.Len() != 1 {
		t.Fatalf("Expected snapshot to be replaced, got %d rows", loaded.Len())
	}
	if loaded.Rows[0][5] != "300" {
		t.Errorf("Expected replaced snapshot content, got cell %s", loaded.Rows[0][5])
	}
}

func TestNewFileStore_Validation(t *testing.T) {
	if _, err := NewFileStore(FileConfig{}); err == nil {
		t.Error("Expected error for empty snapshot path")
	}
}
