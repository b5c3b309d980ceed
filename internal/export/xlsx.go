// Package export writes cross-model comparison workbooks, one sheet per
// source document.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"tradedocs/internal/comparison"
	"tradedocs/internal/schema"
)

// WriteWorkbook renders one comparison table per sheet into w. Sheet order
// follows the input order.
func WriteWorkbook(w io.Writer, tables []*comparison.Table) error {
	if len(tables) == 0 {
		return fmt.Errorf("no comparison tables to export")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, tbl := range tables {
		sheet := sheetName(tbl.SourceID, i)
		if i == 0 {
			// Rename the default sheet instead of leaving an empty Sheet1.
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("naming sheet for %s: %w", tbl.SourceID, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("adding sheet for %s: %w", tbl.SourceID, err)
		}
		if err := writeSheet(f, sheet, tbl); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, tbl *comparison.Table) error {
	header := []any{"Field", "标签"}
	for _, c := range tbl.Columns {
		header = append(header, c.Model)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header for %s: %w", tbl.SourceID, err)
	}

	for i, row := range tbl.Rows {
		cells := []any{row.Field.String(), schema.DisplayNameCN(row.Field)}
		for _, cell := range row.Cells {
			cells = append(cells, cell)
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
			return fmt.Errorf("writing row %d for %s: %w", i, tbl.SourceID, err)
		}
	}
	return nil
}

// sheetName makes a source document identifier usable as an Excel sheet
// name: the charset is restricted and the length capped at 31.
func sheetName(sourceID string, idx int) string {
	name := strings.NewReplacer(
		":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
	).Replace(sourceID)
	if len(name) > 28 {
		name = name[:28]
	}
	if name == "" {
		name = "doc"
	}
	// Suffix keeps truncated or duplicate source names distinct.
	return fmt.Sprintf("%s~%d", name, idx+1)
}
