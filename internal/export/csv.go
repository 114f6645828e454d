package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/fieldsnap/attendance/internal/models"
)

// WriteCSV renders the timesheet rows for a week as CSV.
func WriteCSV(w io.Writer, week models.WeekData, tzAbbrev string) error {
	cw := csv.NewWriter(w)
	for _, row := range Rows(week, tzAbbrev) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
