package reconcile

import (
	"math"
	"sort"

	"github.com/fieldsnap/attendance/internal/models"
	"github.com/fieldsnap/attendance/internal/timeutil"
)

// bucketize groups clamped shifts and breaks by the local calendar date of
// their (possibly clamped) start instant and emits one DayData per day of the
// window, empty days included. A day's total is its shift time net of break
// time; individual Shift.Hours stay gross. It returns the days plus the
// week's total worked milliseconds.
func bucketize(shifts, breaks []interval, w Window) ([]models.DayData, int64) {
	shiftsByDay := make(map[string][]interval)
	for _, s := range shifts {
		key := timeutil.DayKey(s.start)
		shiftsByDay[key] = append(shiftsByDay[key], s)
	}
	breakMillisByDay := make(map[string]int64)
	for _, b := range breaks {
		breakMillisByDay[timeutil.DayKey(b.start)] += b.millis()
	}

	var days []models.DayData
	var weekMillis int64
	for _, day := range timeutil.Days(w.Start, w.LastDay()) {
		key := timeutil.DayKey(day)
		dd := models.DayData{
			Date:    key,
			DayName: day.Format("Monday"),
		}

		daily := shiftsByDay[key]
		sort.SliceStable(daily, func(i, j int) bool {
			return daily[i].start.Before(daily[j].start)
		})

		var dayMillis int64
		for _, s := range daily {
			ms := s.millis()
			if ms < 0 {
				ms = 0
			}
			dayMillis += ms

			shift := models.Shift{
				ClockIn:    s.start,
				Hours:      timeutil.Hours(ms),
				InProgress: s.open,
			}
			if !s.open {
				end := s.end
				shift.ClockOut = &end
			}
			dd.Shifts = append(dd.Shifts, shift)
			if s.open {
				dd.InProgress = true
			}
		}

		if len(daily) > 0 {
			dd.ClockIn = timeutil.FormatClock(daily[0].start)
			if dd.InProgress {
				dd.ClockOut = timeutil.InProgressMarker
			} else {
				dd.ClockOut = timeutil.FormatClock(daily[len(daily)-1].end)
			}
		}

		// Breaks are unpaid: they reduce the day's total but not the
		// gross hours of the shift they interrupt.
		dayMillis -= breakMillisByDay[key]
		if dayMillis < 0 {
			dayMillis = 0
		}

		dd.TotalHours = timeutil.Hours(dayMillis)
		dd.BreakMinutes = int(math.Round(timeutil.Minutes(breakMillisByDay[key])))
		weekMillis += dayMillis
		days = append(days, dd)
	}
	return days, weekMillis
}
