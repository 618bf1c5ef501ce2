package regions

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCatalog_Resolve(t *testing.T) {
	catalog := NewCatalog()

	bounds, err := catalog.Resolve("München")
	if err != nil {
		t.Fatalf("Failed to resolve built-in region: %v", err)
	}

	if bounds.LatMin != 48.061 || bounds.LatMax != 48.248 {
		t.Errorf("Unexpected latitude bounds: %v - %v", bounds.LatMin, bounds.LatMax)
	}
	if bounds.LonMin != 11.360 || bounds.LonMax != 11.722 {
		t.Errorf("Unexpected longitude bounds: %v - %v", bounds.LonMin, bounds.LonMax)
	}
}

func TestCatalog_ResolveUnknown(t *testing.T) {
	catalog := NewCatalog()

	_, err := catalog.Resolve("Atlantis")

	var unknown *UnknownRegionError
	if !errors.As(err, &unknown) {
		t.Fatalf("Expected UnknownRegionError, got %v", err)
	}

	if unknown.Name != "Atlantis" {
		t.Errorf("Expected error to carry requested name, got %s", unknown.Name)
	}

	// Ошибка перечисляет все доступные регионы
	if len(unknown.Available) != catalog.Len() {
		t.Errorf("Expected %d available regions, got %d", catalog.Len(), len(unknown.Available))
	}
	for _, name := range []string{"Berlin", "Hamburg", "München"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("Expected error message to list %s: %s", name, err.Error())
		}
	}
}

func TestCatalog_Register(t *testing.T) {
	catalog := NewCatalog()

	bounds := Bounds{LatMin: 50.830, LatMax: 51.085, LonMin: 6.772, LonMax: 7.162}
	if err := catalog.Register("Köln", bounds); err != nil {
		t.Fatalf("Failed to register region: %v", err)
	}

	resolved, err := catalog.Resolve("Köln")
	if err != nil {
		t.Fatalf("Failed to resolve registered region: %v", err)
	}
	if resolved != bounds {
		t.Errorf("Expected registered bounds %+v, got %+v", bounds, resolved)
	}

	// Невалидные границы отклоняются
	if err := catalog.Register("Bad", Bounds{LatMin: 10, LatMax: 5, LonMin: 1, LonMax: 2}); err == nil {
		t.Error("Expected error for inverted bounds")
	}
	if err := catalog.Register("", bounds); err == nil {
		t.Error("Expected error for empty region name")
	}
}

func TestBounds_ContainsInclusive(t *testing.T) {
	bounds := Bounds{LatMin: 48.061, LatMax: 48.248, LonMin: 11.360, LonMax: 11.722}

	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"inside", 48.15, 11.5, true},
		{"lat min boundary", 48.061, 11.5, true},
		{"lat max boundary", 48.248, 11.5, true},
		{"lon min boundary", 48.15, 11.360, true},
		{"lon max boundary", 48.15, 11.722, true},
		{"corner", 48.248, 11.722, true},
		{"above lat max", 48.249, 11.5, false},
		{"below lat min", 48.060, 11.5, false},
		{"outside lon", 48.15, 13.4, false},
	}

	for _, tt := range tests {
		if got := bounds.Contains(tt.lat, tt.lon); got != tt.want {
			t.Errorf("%s: Contains(%v, %v) = %v, want %v", tt.name, tt.lat, tt.lon, got, tt.want)
		}
	}
}

func TestCatalog_LoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "regions.yaml")

	content := `regions:
  Köln:
    lat_min: 50.830
    lat_max: 51.085
    lon_min: 6.772
    lon_max: 7.162
  München:
    lat_min: 48.0
    lat_max: 48.5
    lon_min: 11.0
    lon_max: 12.0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write regions file: %v", err)
	}

	catalog := NewCatalog()
	if err := catalog.LoadYAML(path); err != nil {
		t.Fatalf("Failed to load regions file: %v", err)
	}

	if _, err := catalog.Resolve("Köln"); err != nil {
		t.Errorf("Expected loaded region to resolve: %v", err)
	}

	// Загруженный регион заменяет встроенный с тем же именем
	bounds, err := catalog.Resolve("München")
	if err != nil {
		t.Fatalf("Failed to resolve overridden region: %v", err)
	}
	if bounds.LatMax != 48.5 {
		t.Errorf("Expected overridden lat_max 48.5, got %v", bounds.LatMax)
	}
}

func TestCatalog_LoadYAMLInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "regions.yaml")

	content := `regions:
  Broken:
    lat_min: 50.0
    lat_max: 40.0
    lon_min: 6.0
    lon_max: 7.0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write regions file: %v", err)
	}

	catalog := NewCatalog()
	if err := catalog.LoadYAML(path); err == nil {
		t.Error("Expected error for region with inverted bounds")
	}
}
