package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ruslano69/cellscan/pkg/publish"
	"github.com/ruslano69/cellscan/pkg/resultlog"
	"github.com/ruslano69/cellscan/pkg/sink"
)

// Config represents the main configuration structure
type Config struct {
	Region      string              `yaml:"region"`                 // Default region, e.g. München
	Provider    string              `yaml:"provider,omitempty"`     // Default provider: Telekom, Vodafone, Telefonica
	Operators   []int64             `yaml:"operators,omitempty"`    // Explicit MNC list (overrides provider)
	MCC         int64               `yaml:"mcc,omitempty"`          // Country MCC (default: 262)
	RegionsFile string              `yaml:"regions_file,omitempty"` // Extra regions YAML (merged over built-ins)
	Snapshot    SnapshotConfig      `yaml:"snapshot,omitempty"`
	Sink        sink.PostgresConfig `yaml:"sink,omitempty"`
	Broker      publish.Config      `yaml:"broker,omitempty"`
	ResultLog   resultlog.Config    `yaml:"resultlog,omitempty"`
	Retry       RetryConfig         `yaml:"retry,omitempty"`
	Audit       AuditConfig         `yaml:"audit,omitempty"`
}

// SnapshotConfig selects and configures the snapshot store
type SnapshotConfig struct {
	Type          string `yaml:"type"`                     // file, sqlite, s3
	Path          string `yaml:"path,omitempty"`           // File path (file, sqlite)
	Compress      bool   `yaml:"compress,omitempty"`       // zstd compression (file only)
	CompressLevel int    `yaml:"compress_level,omitempty"` // 1 (fastest) - 19 (best), default: 3
	Table         string `yaml:"table,omitempty"`          // Table name (sqlite)
	Bucket        string `yaml:"bucket,omitempty"`         // S3 bucket
	Key           string `yaml:"key,omitempty"`            // S3 object key
	S3Region      string `yaml:"s3_region,omitempty"`      // AWS region
	Endpoint      string `yaml:"endpoint,omitempty"`       // Custom S3 endpoint (MinIO etc.)
}

// RetryConfig for broker/redis delivery retry settings
type RetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	MaxAttempts int    `yaml:"max_attempts"`
	Strategy    string `yaml:"strategy"` // constant, linear, exponential
	InitialWait int    `yaml:"initial_wait_ms"`
	MaxWait     int    `yaml:"max_wait_ms"`
}

// AuditConfig for audit logging settings
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"` // minimal, standard
	File    string `yaml:"file,omitempty"`
	Console bool   `yaml:"console,omitempty"` // Log to console
}

// providerNetworks maps a provider name to its German MNC set
var providerNetworks = map[string][]int64{
	"telekom":    {1, 6},
	"vodafone":   {2, 4, 9},
	"telefonica": {3, 5, 7, 8, 11, 77},
}

// ProviderNames returns the known provider names, sorted
func ProviderNames() []string {
	names := make([]string, 0, len(providerNetworks))
	for name := range providerNetworks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveOperators determines the MNC set to keep. Priority:
// explicit --operators flag, --provider flag, config operators,
// config provider.
func ResolveOperators(flags *Flags, config *Config) (map[int64]bool, string, error) {
	if *flags.Operators != "" {
		ops, err := parseOperatorList(*flags.Operators)
		return ops, "", err
	}
	if *flags.Provider != "" {
		ops, err := providerOperators(*flags.Provider)
		return ops, *flags.Provider, err
	}
	if len(config.Operators) > 0 {
		ops := make(map[int64]bool, len(config.Operators))
		for _, mnc := range config.Operators {
			ops[mnc] = true
		}
		return ops, "", nil
	}
	if config.Provider != "" {
		ops, err := providerOperators(config.Provider)
		return ops, config.Provider, err
	}
	return nil, "", fmt.Errorf("no operators configured: set --provider, --operators or the config file")
}

// providerOperators looks up the MNC set for a provider name
func providerOperators(provider string) (map[int64]bool, error) {
	networks, ok := providerNetworks[strings.ToLower(provider)]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q (known: %s)",
			provider, strings.Join(ProviderNames(), ", "))
	}
	ops := make(map[int64]bool, len(networks))
	for _, mnc := range networks {
		ops[mnc] = true
	}
	return ops, nil
}

// parseOperatorList parses a comma-separated MNC list like "1,6"
func parseOperatorList(list string) (map[int64]bool, error) {
	ops := make(map[int64]bool)
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		mnc, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MNC %q in operator list: %w", part, err)
		}
		ops[mnc] = true
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("operator list is empty")
	}
	return ops, nil
}

// LoadConfig loads configuration from YAML file.
// A missing file is not an error: flags can carry a full run
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to YAML file
func SaveConfig(filename string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateSampleConfig creates a sample configuration
func CreateSampleConfig() *Config {
	return &Config{
		Region:   "München",
		Provider: "telekom",
		MCC:      262,
		Snapshot: SnapshotConfig{
			Type:          "file",
			Path:          "snapshot.csv",
			Compress:      true,
			CompressLevel: 3,
		},
		Retry: RetryConfig{
			Enabled:     true,
			MaxAttempts: 3,
			Strategy:    "exponential",
			InitialWait: 1000,
			MaxWait:     30000,
		},
		Audit: AuditConfig{
			Enabled: true,
			Level:   "standard",
			File:    "audit.log",
			Console: false,
		},
	}
}
