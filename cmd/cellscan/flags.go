package main

import "flag"

// Flags holds all command-line flags
type Flags struct {
	// Commands
	Clean    *string // Raw OpenCellid CSV to clean (file path)
	Diff     *string // First cleaned CSV for diff (second as positional arg)
	Heatmap  *string // Cleaned CSV to render as heat layer
	Circles  *string // Cleaned CSV to render as range circles
	DeltaMap *string // Old cleaned CSV for difference map (new as positional arg)

	// Cleaning Options
	Region    *string
	Provider  *string
	Operators *string // Explicit MNC list, overrides --provider
	MCC       *int

	// Snapshot Options
	Snapshot       *bool // Diff against stored snapshot and update it
	NoUpdate       *bool // Diff against snapshot without replacing it
	UpdateSnapshot *bool // Replace snapshot even when no snapshot diff requested

	// Output Options
	Output *string
	XLSX   *string
	Sheet  *string

	// Delivery Options
	Publish *bool // Publish new rows to the configured broker
	Sink    *bool // Write cleaned rows to the configured PostgreSQL sink
	Notify  *bool // Publish run result to the configured Redis

	// Misc
	Config  *string
	Version *bool
	Help    *bool
}

// ParseFlags defines and parses all command-line flags
func ParseFlags() *Flags {
	f := &Flags{}

	// Commands
	f.Clean = flag.String("clean", "", "Clean raw OpenCellid CSV file (file path)")
	f.Diff = flag.String("diff", "", "Compare two cleaned CSV files: --diff new.csv old.csv")
	f.Heatmap = flag.String("heatmap", "", "Render cleaned CSV as heat layer HTML (file path)")
	f.Circles = flag.String("circles", "", "Render cleaned CSV as range circle HTML (file path)")
	f.DeltaMap = flag.String("delta-map", "", "Render difference map: --delta-map old.csv new.csv")

	// Cleaning Options
	f.Region = flag.String("region", "", "Region to keep (overrides config), e.g. München")
	f.Provider = flag.String("provider", "", "Provider whose networks to keep: Telekom, Vodafone, Telefonica")
	f.Operators = flag.String("operators", "", "Explicit MNC list to keep, comma-separated (overrides --provider)")
	f.MCC = flag.Int("mcc", 0, "Country MCC to keep (default from config, 262 if unset)")

	// Snapshot Options
	f.Snapshot = flag.Bool("snapshot", false, "Diff cleaned rows against stored snapshot and update it")
	f.NoUpdate = flag.Bool("no-update", false, "Keep stored snapshot unchanged (use with --snapshot)")
	f.UpdateSnapshot = flag.Bool("update-snapshot", false, "Store cleaned rows as the new snapshot without diffing")

	// Output Options
	f.Output = flag.String("output", "", "Output file path (default: stdout or auto-generated)")
	f.XLSX = flag.String("xlsx", "", "Also write cleaned rows to XLSX (file path)")
	f.Sheet = flag.String("sheet", "Sheet1", "Excel sheet name for XLSX output")

	// Delivery Options
	f.Publish = flag.Bool("publish", false, "Publish new rows to the configured message broker")
	f.Sink = flag.Bool("sink", false, "Write cleaned rows to the configured PostgreSQL table")
	f.Notify = flag.Bool("notify", false, "Publish run result to the configured Redis")

	// Misc
	f.Config = flag.String("config", "config.yaml", "Configuration file path")
	f.Version = flag.Bool("version", false, "Show version information")
	f.Help = flag.Bool("help", false, "Show detailed help with examples")

	flag.Parse()

	return f
}
