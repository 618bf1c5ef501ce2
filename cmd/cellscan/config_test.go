package main

import (
	"os"
	"path/filepath"
	"testing"
)

func stringFlag(v string) *string { return &v }

func testFlags() *Flags {
	return &Flags{
		Operators: stringFlag(""),
		Provider:  stringFlag(""),
	}
}

func TestResolveOperators_ProviderFlag(t *testing.T) {
	flags := testFlags()
	flags.Provider = stringFlag("Telekom")

	ops, provider, err := ResolveOperators(flags, &Config{})
	if err != nil {
		t.Fatalf("Failed to resolve operators: %v", err)
	}

	if provider != "Telekom" {
		t.Errorf("Expected provider name to pass through, got %s", provider)
	}
	if len(ops) != 2 || !ops[1] || !ops[6] {
		t.Errorf("Expected Telekom networks {1, 6}, got %v", ops)
	}
}

func TestResolveOperators_ProviderSets(t *testing.T) {
	tests := []struct {
		provider string
		networks []int64
	}{
		{"telekom", []int64{1, 6}},
		{"vodafone", []int64{2, 4, 9}},
		{"Telefonica", []int64{3, 5, 7, 8, 11, 77}},
	}

	for _, tt := range tests {
		flags := testFlags()
		flags.Provider = stringFlag(tt.provider)

		ops, _, err := ResolveOperators(flags, &Config{})
		if err != nil {
			t.Fatalf("Failed to resolve %s: %v", tt.provider, err)
		}
		if len(ops) != len(tt.networks) {
			t.Errorf("%s: expected %d networks, got %d", tt.provider, len(tt.networks), len(ops))
		}
		for _, mnc := range tt.networks {
			if !ops[mnc] {
				t.Errorf("%s: expected MNC %d to be accepted", tt.provider, mnc)
			}
		}
	}
}

func TestResolveOperators_ExplicitListOverridesProvider(t *testing.T) {
	flags := testFlags()
	flags.Operators = stringFlag("2, 4")
	flags.Provider = stringFlag("telekom")

	ops, provider, err := ResolveOperators(flags, &Config{})
	if err != nil {
		t.Fatalf("Failed to resolve operators: %v", err)
	}

	if provider != "" {
		t.Errorf("Expected no provider name for explicit list, got %s", provider)
	}
	if len(ops) != 2 || !ops[2] || !ops[4] {
		t.Errorf("Expected explicit networks {2, 4}, got %v", ops)
	}
}

func TestResolveOperators_ConfigFallback(t *testing.T) {
	config := &Config{Provider: "vodafone"}

	ops, provider, err := ResolveOperators(testFlags(), config)
	if err != nil {
		t.Fatalf("Failed to resolve operators: %v", err)
	}
	if provider != "vodafone" {
		t.Errorf("Expected config provider, got %s", provider)
	}
	if !ops[9] {
		t.Error("Expected Vodafone network 9 to be accepted")
	}

	// Явный список в конфиге имеет приоритет над провайдером
	config = &Config{Provider: "vodafone", Operators: []int64{77}}
	ops, _, err = ResolveOperators(testFlags(), config)
	if err != nil {
		t.Fatalf("Failed to resolve operators: %v", err)
	}
	if len(ops) != 1 || !ops[77] {
		t.Errorf("Expected config operator list to win, got %v", ops)
	}
}

func TestResolveOperators_Errors(t *testing.T) {
	flags := testFlags()
	flags.Provider = stringFlag("o2")
	if _, _, err := ResolveOperators(flags, &Config{}); err == nil {
		t.Error("Expected error for unknown provider")
	}

	flags = testFlags()
	flags.Operators = stringFlag("1,abc")
	if _, _, err := ResolveOperators(flags, &Config{}); err == nil {
		t.Error("Expected error for non-numeric MNC")
	}

	if _, _, err := ResolveOperators(testFlags(), &Config{}); err == nil {
		t.Error("Expected error when nothing is configured")
	}
}

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	content := `region: München
provider: telekom
mcc: 262
snapshot:
  type: sqlite
  path: snapshots.db
  table: muenchen
broker:
  type: rabbitmq
  host: broker.local
  queue: new-cells
resultlog:
  address: 127.0.0.1:6379
  name: MUENCHEN_TELEKOM
retry:
  enabled: true
  max_attempts: 3
  strategy: exponential
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Region != "München" || config.MCC != 262 {
		t.Errorf("Unexpected cleaning defaults: %s / %d", config.Region, config.MCC)
	}
	if config.Snapshot.Type != "sqlite" || config.Snapshot.Table != "muenchen" {
		t.Errorf("Unexpected snapshot config: %+v", config.Snapshot)
	}
	if config.Broker.Type != "rabbitmq" || config.Broker.Queue != "new-cells" {
		t.Errorf("Unexpected broker config: %+v", config.Broker)
	}
	if config.ResultLog.Name != "MUENCHEN_TELEKOM" {
		t.Errorf("Unexpected resultlog config: %+v", config.ResultLog)
	}
	if !config.Retry.Enabled || config.Retry.MaxAttempts != 3 {
		t.Errorf("Unexpected retry config: %+v", config.Retry)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	// Отсутствующий конфиг - не ошибка: флаги могут нести полный прогон
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Expected missing config to yield defaults, got %v", err)
	}
	if config == nil {
		t.Fatal("Expected empty config, got nil")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	original := CreateSampleConfig()
	if err := SaveConfig(path, original); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}

	if loaded.Region != original.Region || loaded.Provider != original.Provider {
		t.Errorf("Expected config to round-trip, got %+v", loaded)
	}
	if loaded.Snapshot.Type != "file" || !loaded.Snapshot.Compress {
		t.Errorf("Unexpected snapshot config after round trip: %+v", loaded.Snapshot)
	}
}
