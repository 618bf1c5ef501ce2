package main

import "fmt"

const version = "1.2.0"

// PrintVersion prints version information
func PrintVersion() {
	fmt.Printf("cellscan version %s\n", version)
	fmt.Println("cellscan - OpenCellid scan cleaning and diffing pipeline")
	fmt.Println("https://github.com/ruslano69/cellscan")
}

// PrintHelp prints comprehensive help information
func PrintHelp() {
	fmt.Println("cellscan - OpenCellid Scan Cleaning Command Line Interface")
	fmt.Printf("Version: %s\n\n", version)

	fmt.Println("USAGE:")
	fmt.Println("  cellscan [command] [options]")
	fmt.Println()

	fmt.Println("COMMANDS:")
	fmt.Println()

	fmt.Println("  Cleaning:")
	fmt.Println("    --clean <csv>              Clean raw OpenCellid CSV file")
	fmt.Println("    --diff <new> <old>         Compare two cleaned CSV files")
	fmt.Println()

	fmt.Println("  Map Rendering:")
	fmt.Println("    --heatmap <csv>            Render cleaned CSV as heat layer HTML")
	fmt.Println("    --circles <csv>            Render cleaned CSV as range circle HTML")
	fmt.Println("    --delta-map <old> <new>    Render old/new difference map HTML")
	fmt.Println()

	fmt.Println("OPTIONS:")
	fmt.Println()

	fmt.Println("  Cleaning:")
	fmt.Println("    --region <name>            Region to keep, e.g. München (overrides config)")
	fmt.Println("    --provider <name>          Provider networks to keep: Telekom, Vodafone, Telefonica")
	fmt.Println("    --operators <list>         Explicit MNC list, comma-separated (overrides --provider)")
	fmt.Println("    --mcc <n>                  Country MCC to keep (default: 262)")
	fmt.Println()

	fmt.Println("  Snapshot:")
	fmt.Println("    --snapshot                 Diff against stored snapshot, output only new rows,")
	fmt.Println("                               then replace the snapshot")
	fmt.Println("    --no-update                Keep the stored snapshot unchanged (use with --snapshot)")
	fmt.Println("    --update-snapshot          Store cleaned rows as the new snapshot without diffing")
	fmt.Println()

	fmt.Println("  Output:")
	fmt.Println("    --output <file>            Output file path (default: stdout)")
	fmt.Println("    --xlsx <file>              Also write result to XLSX")
	fmt.Println("    --sheet <name>             Excel sheet name (default: Sheet1)")
	fmt.Println()

	fmt.Println("  Delivery:")
	fmt.Println("    --publish                  Publish new rows to the configured broker (needs --snapshot)")
	fmt.Println("    --sink                     Write cleaned rows to the configured PostgreSQL table")
	fmt.Println("    --notify                   Publish run result to the configured Redis")
	fmt.Println()

	fmt.Println("  Misc:")
	fmt.Println("    --config <file>            Configuration file (default: config.yaml)")
	fmt.Println("    --version                  Show version information")
	fmt.Println("    --help                     Show this help message")
	fmt.Println()

	fmt.Println("EXAMPLES:")
	fmt.Println()

	fmt.Println("  # Clean a raw scan for Telekom in München")
	fmt.Println("  cellscan --clean 262.csv --region München --provider Telekom --output cleaned.csv")
	fmt.Println()

	fmt.Println("  # Clean with an explicit MNC list")
	fmt.Println("  cellscan --clean 262.csv --region Berlin --operators 2,4,9 --output cleaned.csv")
	fmt.Println()

	fmt.Println("  # Clean, diff against the stored snapshot, output only new cells")
	fmt.Println("  cellscan --clean 262.csv --snapshot --output new-cells.csv")
	fmt.Println()

	fmt.Println("  # Same, but keep the old snapshot")
	fmt.Println("  cellscan --clean 262.csv --snapshot --no-update --output new-cells.csv")
	fmt.Println()

	fmt.Println("  # Clean and export to Excel")
	fmt.Println("  cellscan --clean 262.csv --output cleaned.csv --xlsx cleaned.xlsx")
	fmt.Println()

	fmt.Println("  # Clean, publish new cells to RabbitMQ and report the run to Redis")
	fmt.Println("  cellscan --clean 262.csv --snapshot --publish --notify")
	fmt.Println()

	fmt.Println("  # Clean and load into PostgreSQL")
	fmt.Println("  cellscan --clean 262.csv --sink")
	fmt.Println()

	fmt.Println("  # Compare two cleaned files")
	fmt.Println("  cellscan --diff scan-new.csv scan-old.csv --output delta.csv")
	fmt.Println()

	fmt.Println("  # Render maps")
	fmt.Println("  cellscan --heatmap cleaned.csv --output heat.html")
	fmt.Println("  cellscan --circles cleaned.csv")
	fmt.Println("  cellscan --delta-map scan-old.csv scan-new.csv --output delta.html")
	fmt.Println()

	fmt.Println("CONFIGURATION:")
	fmt.Println()
	fmt.Println("  Configuration files use YAML format. Structure includes:")
	fmt.Println("    - region, provider, operators, mcc: cleaning defaults")
	fmt.Println("    - regions_file: extra region bounds merged over the built-ins")
	fmt.Println("    - snapshot: snapshot store (file with zstd, sqlite, s3)")
	fmt.Println("    - sink: PostgreSQL bulk load settings")
	fmt.Println("    - broker: RabbitMQ/Kafka settings for --publish")
	fmt.Println("    - resultlog: Redis settings for --notify")
	fmt.Println("    - retry: delivery retry settings")
	fmt.Println("    - audit: audit logging settings")
	fmt.Println()

	fmt.Println("FEATURES:")
	fmt.Println()
	fmt.Println("  ✅ Cleaning Pipeline: header, dropna, dedup, region, MCC, operators")
	fmt.Println("  ✅ Snapshot Stores: CSV file (zstd + XXH3), SQLite, S3")
	fmt.Println("  ✅ Diff: only rows absent from the previous scan")
	fmt.Println("  ✅ Delivery: PostgreSQL COPY, RabbitMQ, Kafka, Redis run reports")
	fmt.Println("  ✅ XLSX Export: styled Excel output")
	fmt.Println("  ✅ Maps: Leaflet heat, circle and difference HTML")
	fmt.Println("  ✅ Audit Logger: per-stage row accounting")
	fmt.Println()

	fmt.Println("DOCUMENTATION:")
	fmt.Println("  https://github.com/ruslano69/cellscan")
}
