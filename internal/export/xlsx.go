package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/klabast/wb-services/programacao/internal/week"
)

// SheetName is the single worksheet of the spreadsheet export.
const SheetName = "Programação"

// XLSX renders a spreadsheet with a header row and one row per activity.
func XLSX(wk Week) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headers := append([]string{"Data"}, CSVHeader...)
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return nil, err
		}
	}

	for i, a := range wk.Activities {
		row := i + 2
		date := ""
		if d, ok := dateOf(wk, a); ok {
			date = d.Format(week.DateLayout)
		}
		values := []any{date, a.Day.Label(), a.Time, a.Location, a.Leader, a.GroupName()}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(SheetName, "A", "F", 20); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
