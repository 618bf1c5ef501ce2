package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ruslano69/cellscan/pkg/core/record"
)

// ToXLSX - write a record set to an Excel file.
//
// Creates one sheet with a styled header row. Headers show field names
// with types (e.g., "lat (REAL)"). Numeric cells are written typed so
// Excel filters and sorting work without manual conversion.
//
// Example:
//
//	err := export.ToXLSX(cleaned, "muenchen.xlsx", "Telekom")
func ToXLSX(rs record.RecordSet, filePath string, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = "Sheet1"
	}

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// Write headers
	for col, field := range rs.Schema.Fields {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		f.SetCellValue(sheetName, cell, fmt.Sprintf("%s (%s)", field.Name, field.Type))
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	// Write data rows with typed cells
	converter := record.NewConverter()
	for rowIdx, row := range rs.Rows {
		for col, field := range rs.Schema.Fields {
			if col >= len(row) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("failed to build cell name: %w", err)
			}

			tv, err := converter.ParseValue(row[col], field)
			var cellValue any
			switch {
			case err != nil || tv.IsNull:
				cellValue = ""
			case tv.IntValue != nil:
				cellValue = *tv.IntValue
			case tv.FloatValue != nil:
				cellValue = *tv.FloatValue
			default:
				cellValue = tv.RawValue
			}
			f.SetCellValue(sheetName, cell, cellValue)
		}
	}

	// Fixed column width keeps coordinates readable
	for col := range rs.Schema.Fields {
		colName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("failed to build column name: %w", err)
		}
		f.SetColWidth(sheetName, colName, colName, 15)
	}

	return f.SaveAs(filePath)
}
