package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/fieldsnap/attendance/internal/models"
)

const sheetName = "Timesheet"

// WriteXLSX renders the timesheet rows for a week as an XLSX workbook with a
// single "Timesheet" sheet. Row content is identical to the CSV export.
func WriteXLSX(w io.Writer, week models.WeekData, tzAbbrev string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, row := range Rows(week, tzAbbrev) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write sheet row: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
