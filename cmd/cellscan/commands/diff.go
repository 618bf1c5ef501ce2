package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/ruslano69/cellscan/pkg/core/record"
	"github.com/ruslano69/cellscan/pkg/diff"
)

// DiffOptions - опции команды diff
type DiffOptions struct {
	FileNew    string // Очищенный CSV нового скана
	FileOld    string // Очищенный CSV прежнего скана
	OutputFile string // Куда записать новые записи (пусто = только статистика)
}

// DiffFiles сравнивает два очищенных CSV файла и выводит записи,
// которых нет в прежнем скане
func DiffFiles(ctx context.Context, options DiffOptions) error {
	newSet, err := loadCleaned(options.FileNew)
	if err != nil {
		return fmt.Errorf("failed to load new file (%s): %w", options.FileNew, err)
	}

	oldSet, err := loadCleaned(options.FileOld)
	if err != nil {
		return fmt.Errorf("failed to load old file (%s): %w", options.FileOld, err)
	}

	differ := diff.NewDiffer()
	added, stats, err := differ.NewRows(newSet, &oldSet)
	if err != nil {
		return fmt.Errorf("failed to compare files: %w", err)
	}

	fmt.Print(stats.FormatText())

	if options.OutputFile != "" {
		if err := record.WriteFile(options.OutputFile, added); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Printf("✓ Wrote %d new rows to %s\n", added.Len(), options.OutputFile)
	}

	if added.IsEmpty() {
		fmt.Println("\n✓ No new rows found")
	} else {
		fmt.Printf("\n✗ Found %d new rows\n", added.Len())
	}
	return nil
}

// loadCleaned читает очищенный CSV (с заголовком) в RecordSet
func loadCleaned(path string) (record.RecordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return record.RecordSet{}, &record.SourceLoadError{Source: path, Err: err}
	}
	defer f.Close()

	return record.Read(f, record.ProjectedSchema(), path)
}
