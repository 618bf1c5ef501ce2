package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ruslano69/cellscan/cmd/cellscan/commands"
	"github.com/ruslano69/cellscan/pkg/audit"
	"github.com/ruslano69/cellscan/pkg/cleaning"
	"github.com/ruslano69/cellscan/pkg/regions"
	"github.com/ruslano69/cellscan/pkg/resultlog"
	"github.com/ruslano69/cellscan/pkg/retry"
	"github.com/ruslano69/cellscan/pkg/snapshot"
)

func main() {
	ctx := context.Background()

	// Parse flags
	flags := ParseFlags()

	// Handle version
	if *flags.Version {
		PrintVersion()
		os.Exit(0)
	}

	// Handle help
	if *flags.Help {
		PrintHelp()
		os.Exit(0)
	}

	// Load configuration
	config, err := LoadConfig(*flags.Config)
	if err != nil {
		fatal("Failed to load config: %v", err)
	}

	// Route commands
	var cmdErr error

	if *flags.Clean != "" {
		cmdErr = runClean(ctx, flags, config)
	} else if *flags.Diff != "" {
		cmdErr = commands.DiffFiles(ctx, commands.DiffOptions{
			FileNew:    *flags.Diff,
			FileOld:    requirePositional("diff", "old cleaned CSV"),
			OutputFile: *flags.Output,
		})
	} else if *flags.Heatmap != "" {
		cmdErr = commands.RenderHeatmap(ctx, commands.MapOptions{
			InputFile:  *flags.Heatmap,
			OutputFile: determineOutputFile(*flags.Output, *flags.Heatmap, "html"),
		})
	} else if *flags.Circles != "" {
		cmdErr = commands.RenderCircles(ctx, commands.MapOptions{
			InputFile:  *flags.Circles,
			OutputFile: determineOutputFile(*flags.Output, *flags.Circles, "html"),
		})
	} else if *flags.DeltaMap != "" {
		cmdErr = commands.RenderDeltaMap(ctx, commands.MapOptions{
			InputFile:  *flags.DeltaMap,
			SecondFile: requirePositional("delta-map", "new cleaned CSV"),
			OutputFile: determineOutputFile(*flags.Output, *flags.DeltaMap, "html"),
		})
	} else {
		// If no command was specified, show help
		PrintHelp()
		os.Exit(1)
	}

	// Handle errors
	if cmdErr != nil {
		fatal("Command failed: %v", cmdErr)
	}
}

// runClean assembles the clean command from flags and config
func runClean(ctx context.Context, flags *Flags, config *Config) error {
	// Region: flag overrides config
	regionName := *flags.Region
	if regionName == "" {
		regionName = config.Region
	}
	if regionName == "" {
		return fmt.Errorf("no region specified: set --region or the config file")
	}

	catalog := regions.NewCatalog()
	if config.RegionsFile != "" {
		if err := catalog.LoadYAML(config.RegionsFile); err != nil {
			return err
		}
	}
	bounds, err := catalog.Resolve(regionName)
	if err != nil {
		return err
	}

	operators, provider, err := ResolveOperators(flags, config)
	if err != nil {
		return err
	}

	mcc := int64(*flags.MCC)
	if mcc == 0 {
		mcc = config.MCC
	}
	if mcc == 0 {
		mcc = cleaning.DefaultCountryMCC
	}

	auditLogger, err := buildAuditLogger(config, regionName)
	if err != nil {
		return err
	}
	defer auditLogger.Close()

	options := commands.CleanOptions{
		InputFile:  *flags.Clean,
		Region:     regionName,
		Bounds:     bounds,
		Operators:  operators,
		CountryMCC: mcc,
		Provider:   provider,
		OutputFile: *flags.Output,
		XLSXFile:   *flags.XLSX,
		SheetName:  *flags.Sheet,
		Audit:      auditLogger,
	}

	// Snapshot store is only opened when a snapshot operation is requested
	if *flags.Snapshot || *flags.UpdateSnapshot {
		store, err := buildSnapshotStore(ctx, config.Snapshot)
		if err != nil {
			return err
		}
		defer store.Close()

		options.Store = store
		options.DiffSnapshot = *flags.Snapshot
		options.UpdateSnapshot = *flags.UpdateSnapshot ||
			(*flags.Snapshot && !*flags.NoUpdate)
	}

	if *flags.Publish {
		if config.Broker.Type == "" {
			return fmt.Errorf("--publish requires a broker section in the config file")
		}
		if !*flags.Snapshot {
			return fmt.Errorf("--publish requires --snapshot (only new rows are published)")
		}
		options.Publisher = &config.Broker
	}

	if *flags.Sink {
		if config.Sink.DSN == "" {
			return fmt.Errorf("--sink requires a sink section in the config file")
		}
		options.Sink = &config.Sink
	}

	if *flags.Notify {
		if config.ResultLog.Address == "" {
			return fmt.Errorf("--notify requires a resultlog section in the config file")
		}
		options.ResultLog = resultlog.NewRedisPublisher(config.ResultLog)
		defer options.ResultLog.Close()
	}

	if config.Retry.Enabled {
		retryer, err := retry.NewRetryer(retry.Config{
			Enabled:     true,
			MaxAttempts: config.Retry.MaxAttempts,
			Strategy:    retry.Strategy(config.Retry.Strategy),
			InitialWait: time.Duration(config.Retry.InitialWait) * time.Millisecond,
			MaxWait:     time.Duration(config.Retry.MaxWait) * time.Millisecond,
		})
		if err != nil {
			return err
		}
		options.Retryer = retryer
	}

	return commands.Clean(ctx, options)
}

// buildSnapshotStore opens the snapshot store selected by config
func buildSnapshotStore(ctx context.Context, cfg SnapshotConfig) (snapshot.Store, error) {
	switch cfg.Type {
	case "", "file":
		path := cfg.Path
		if path == "" {
			path = "snapshot.csv"
		}
		return snapshot.NewFileStore(snapshot.FileConfig{
			Path:          path,
			Compress:      cfg.Compress,
			CompressLevel: cfg.CompressLevel,
		})

	case "sqlite":
		table := cfg.Table
		if table == "" {
			table = "snapshot"
		}
		return snapshot.NewSQLiteStore(ctx, cfg.Path, table)

	case "s3":
		return snapshot.NewS3Store(ctx, snapshot.S3Config{
			Bucket:   cfg.Bucket,
			Key:      cfg.Key,
			Region:   cfg.S3Region,
			Endpoint: cfg.Endpoint,
		})

	default:
		return nil, fmt.Errorf("unsupported snapshot store type: %s (supported: file, sqlite, s3)", cfg.Type)
	}
}

// buildAuditLogger assembles the audit logger from config
func buildAuditLogger(config *Config, region string) (*audit.Logger, error) {
	if !config.Audit.Enabled {
		return audit.NewLogger(audit.NewNullAppender(), region), nil
	}

	level := audit.LevelStandard
	if config.Audit.Level == "minimal" {
		level = audit.LevelMinimal
	}

	var appenders []audit.Appender
	if config.Audit.File != "" {
		fa, err := audit.NewFileAppender(config.Audit.File, level, true)
		if err != nil {
			return nil, fmt.Errorf("failed to open audit file: %w", err)
		}
		appenders = append(appenders, fa)
	}
	if config.Audit.Console {
		appenders = append(appenders, audit.NewConsoleAppender(level))
	}
	if len(appenders) == 0 {
		return audit.NewLogger(audit.NewNullAppender(), region), nil
	}

	return audit.NewLogger(audit.NewMultiAppender(appenders...), region), nil
}

// requirePositional returns the first positional argument or exits
func requirePositional(command, what string) string {
	if flag.NArg() == 0 {
		fatal("--%s needs a second file argument (%s)", command, what)
	}
	return flag.Arg(0)
}

// determineOutputFile determines output file name
func determineOutputFile(output, baseName, ext string) string {
	if output != "" {
		return output
	}
	return baseName + "." + ext
}

// fatal prints error and exits
func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
