package export

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	minColWidth = 10
	maxColWidth = 50
)

func writeXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := t.Sheet
	if sheet == "" {
		sheet = "Report"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	moneyFmt := "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return fmt.Errorf("money style: %w", err)
	}

	widths := make([]float64, len(t.Columns))
	for i, col := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
		widths[i] = float64(len(col)) + 2
	}
	if len(t.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Columns), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return err
		}
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		for c := range t.Columns {
			if c >= len(row) {
				break
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := setCell(f, sheet, cell, row[c], moneyStyle); err != nil {
				return fmt.Errorf("cell %s: %w", cell, err)
			}
			if n := float64(len(formatValue(row[c]))) + 2; n > widths[c] {
				widths[c] = n
			}
		}
	}

	for i, width := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		width = max(minColWidth, min(maxColWidth, width))
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return err
		}
	}

	_, err = f.WriteTo(w)
	return err
}

func setCell(f *excelize.File, sheet, cell string, v any, moneyStyle int) error {
	switch val := v.(type) {
	case decimal.Decimal:
		if err := f.SetCellFloat(sheet, cell, val.InexactFloat64(), 2, 64); err != nil {
			return err
		}
		return f.SetCellStyle(sheet, cell, cell, moneyStyle)
	case time.Time, *time.Time, []string, nil:
		return f.SetCellStr(sheet, cell, formatValue(val))
	default:
		return f.SetCellValue(sheet, cell, val)
	}
}
