package commands

import (
	"context"
	"fmt"

	"github.com/ruslano69/cellscan/pkg/heatmap"
)

// MapOptions holds input/output paths for map rendering commands
type MapOptions struct {
	InputFile  string // Cleaned CSV
	SecondFile string // Second cleaned CSV (delta map only)
	OutputFile string // Target HTML file
}

// RenderHeatmap renders a cleaned CSV as a heat layer HTML map
func RenderHeatmap(ctx context.Context, options MapOptions) error {
	rs, err := loadCleaned(options.InputFile)
	if err != nil {
		return err
	}

	if err := heatmap.Heat(rs, options.OutputFile); err != nil {
		return fmt.Errorf("failed to render heatmap: %w", err)
	}

	fmt.Printf("✓ Rendered %d points to %s\n", rs.Len(), options.OutputFile)
	return nil
}

// RenderCircles renders a cleaned CSV as a range circle HTML map
func RenderCircles(ctx context.Context, options MapOptions) error {
	rs, err := loadCleaned(options.InputFile)
	if err != nil {
		return err
	}

	if err := heatmap.Circles(rs, options.OutputFile); err != nil {
		return fmt.Errorf("failed to render circle map: %w", err)
	}

	fmt.Printf("✓ Rendered %d circles to %s\n", rs.Len(), options.OutputFile)
	return nil
}

// RenderDeltaMap renders an old/new difference HTML map.
// InputFile is the old scan, SecondFile the new one
func RenderDeltaMap(ctx context.Context, options MapOptions) error {
	oldSet, err := loadCleaned(options.InputFile)
	if err != nil {
		return err
	}

	newSet, err := loadCleaned(options.SecondFile)
	if err != nil {
		return err
	}

	if err := heatmap.Difference(newSet, oldSet, options.OutputFile); err != nil {
		return fmt.Errorf("failed to render difference map: %w", err)
	}

	fmt.Printf("✓ Rendered difference of %d vs %d rows to %s\n",
		newSet.Len(), oldSet.Len(), options.OutputFile)
	return nil
}
