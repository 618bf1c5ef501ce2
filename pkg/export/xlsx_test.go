package export

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ruslano69/cellscan/pkg/core/record"
)

func TestToXLSX(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "cleaned.xlsx")

	rs := record.RecordSet{
		Schema: record.ProjectedSchema(),
		Rows: [][]string{
			{"11.5", "48.1", "262", "1000", "1", "100", "-80"},
			{"11.6", "48.2", "262", "500", "6", "200", "-75"},
		},
	}

	if err := ToXLSX(rs, path, "Telekom"); err != nil {
		t.Fatalf("Failed to export XLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to reopen XLSX: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Telekom" {
		t.Errorf("Expected single sheet 'Telekom', got %v", sheets)
	}

	// Header carries field name and type
	header, err := f.GetCellValue("Telekom", "A1")
	if err != nil {
		t.Fatalf("Failed to read header cell: %v", err)
	}
	if header != "lon (REAL)" {
		t.Errorf("Expected header 'lon (REAL)', got %q", header)
	}

	// Data cells
	cell, err := f.GetCellValue("Telekom", "F2")
	if err != nil {
		t.Fatalf("Failed to read data cell: %v", err)
	}
	if cell != "100" {
		t.Errorf("Expected cell value 100, got %q", cell)
	}

	rows, err := f.GetRows("Telekom")
	if err != nil {
		t.Fatalf("Failed to read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("Expected header plus 2 data rows, got %d", len(rows))
	}
}

func TestToXLSX_DefaultSheet(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "default.xlsx")

	rs := record.RecordSet{Schema: record.ProjectedSchema()}
	if err := ToXLSX(rs, path, ""); err != nil {
		t.Fatalf("Failed to export XLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to reopen XLSX: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Sheet1" {
		t.Errorf("Expected default sheet 'Sheet1', got %v", sheets)
	}
}
