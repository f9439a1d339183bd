package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SeasonRow is one event's totals for the workbook export.
type SeasonRow struct {
	EventName string
	Totals    map[string]float64
}

// WriteSeasonWorkbook exports the season grid to an xlsx file: one row per
// event, one column per team, and a totals row at the bottom.
func WriteSeasonWorkbook(path, sheetName string, teamOrder []string, rows []SeasonRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := setCell(f, sheetName, 1, 1, "Event"); err != nil {
		return err
	}
	for col, team := range teamOrder {
		if err := setCell(f, sheetName, col+2, 1, team); err != nil {
			return err
		}
	}

	totals := make(map[string]float64, len(teamOrder))
	for i, row := range rows {
		r := i + 2
		if err := setCell(f, sheetName, 1, r, row.EventName); err != nil {
			return err
		}
		for col, team := range teamOrder {
			points := row.Totals[team]
			totals[team] += points
			if err := setCell(f, sheetName, col+2, r, points); err != nil {
				return err
			}
		}
	}

	totalRow := len(rows) + 2
	if err := setCell(f, sheetName, 1, totalRow, "Season Total"); err != nil {
		return err
	}
	for col, team := range teamOrder {
		if err := setCell(f, sheetName, col+2, totalRow, totals[team]); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("bad cell coordinates (%d,%d): %w", col, row, err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}
