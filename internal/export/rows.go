// Package export shapes a reconciled week into timesheet rows and renders
// them as CSV or XLSX.
package export

import (
	"math"
	"strconv"
	"time"

	"github.com/fieldsnap/attendance/internal/models"
	"github.com/fieldsnap/attendance/internal/timeutil"
)

// Rows flattens a week into export rows with the fixed column order
// (Date, Day, Clock In, Clock Out, Break (min), Total Hours), a header row
// embedding the timezone abbreviation, and a trailing Week Total row. Empty
// cells render as "-" in the clock columns; all time strings come from the
// clamped instants the engine produced.
func Rows(week models.WeekData, tzAbbrev string) [][]string {
	rows := [][]string{{
		"Date",
		"Day",
		"Clock In (" + tzAbbrev + ")",
		"Clock Out (" + tzAbbrev + ")",
		"Break (min)",
		"Total Hours",
	}}

	for _, d := range week.Days {
		clockIn := d.ClockIn
		if clockIn == "" {
			clockIn = "-"
		}
		clockOut := d.ClockOut
		if clockOut == "" {
			clockOut = "-"
		}
		rows = append(rows, []string{
			d.Date,
			d.DayName,
			clockIn,
			clockOut,
			strconv.Itoa(d.BreakMinutes),
			timeutil.FormatHours(hoursToMillis(d.TotalHours)),
		})
	}

	rows = append(rows, []string{
		"", "", "", "Week Total", "",
		timeutil.FormatHours(hoursToMillis(week.WeekTotal)),
	})
	return rows
}

func hoursToMillis(hours float64) int64 {
	return int64(math.Round(hours * float64(time.Hour/time.Millisecond)))
}

// TimezoneAbbrev returns the zone's abbreviation at the given instant, e.g.
// "MST". Abbreviations are instant-dependent because of daylight saving.
func TimezoneAbbrev(at time.Time, zone *time.Location) string {
	return at.In(zone).Format("MST")
}
