package reconcile

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fieldsnap/attendance/internal/models"
	"github.com/fieldsnap/attendance/internal/timeutil"
)

// weeklyOvertimeMillis is the flat weekly regular/overtime boundary. There is
// no daily-overtime rule in this model.
const weeklyOvertimeMillis = 40 * int64(time.Hour/time.Millisecond)

// Window is an inclusive local-date reporting range, held as a half-open
// instant range: Start is local midnight of the first day and End is local
// midnight after the last day.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow parses "2006-01-02" date bounds in the given zone.
func NewWindow(startDate, endDate string, zone *time.Location) (Window, error) {
	start, err := time.ParseInLocation(timeutil.DayKeyFormat, startDate, zone)
	if err != nil {
		return Window{}, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.ParseInLocation(timeutil.DayKeyFormat, endDate, zone)
	if err != nil {
		return Window{}, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if end.Before(start) {
		return Window{}, fmt.Errorf("end date %s precedes start date %s", endDate, startDate)
	}
	return Window{Start: start, End: end.AddDate(0, 0, 1)}, nil
}

// LastDay returns local midnight of the window's last calendar day.
func (w Window) LastDay() time.Time {
	return timeutil.StartOfDay(w.End.Add(-time.Second))
}

// Engine turns an unordered stream of clock/break events into day-bucketed
// shift and break intervals for a reporting window. It is a pure batch
// transform: no state crosses invocations, so one Engine may serve concurrent
// requests for different users and windows.
type Engine struct {
	zone   *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine creates an engine reporting in the given zone. The zone is always
// explicit; the engine never consults the process-local zone, so server- and
// client-side runs agree.
func NewEngine(zone *time.Location, logger *zap.Logger) *Engine {
	return &Engine{
		zone:   zone,
		logger: logger,
		now:    time.Now,
	}
}

// SetNowFunc overrides the wall clock, used by tests and backdated reruns.
func (e *Engine) SetNowFunc(now func() time.Time) {
	e.now = now
}

// Reconcile runs the full pipeline: normalize, pair shifts and breaks, clamp
// to the window, bucket into local calendar days, infer travel, and compute
// the week totals. Orphan clock-outs and break-ends are dropped silently;
// the only fatal input condition is an unparsable timestamp.
func (e *Engine) Reconcile(raw []models.RawEvent, w Window, locations []models.LocationSample) (models.WeekData, []models.TravelSegment, error) {
	events, err := normalize(raw, e.zone)
	if err != nil {
		return models.WeekData{}, nil, err
	}

	shifts := pair(events, models.EventClockIn, models.EventClockOut, PairLatestOpen)
	shifts = closeOpenShifts(shifts, e.now().In(e.zone), w.End)
	shifts = clamp(shifts, w)

	breaks := pair(events, models.EventBreakStart, models.EventBreakEnd, PairLatestOpen)
	breaks = dropOpen(breaks)
	breaks = clamp(breaks, w)

	days, weekMillis := bucketize(shifts, breaks, w)

	regular, overtime := splitOvertime(weekMillis)
	week := models.WeekData{
		Days:          days,
		WeekTotal:     timeutil.Hours(weekMillis),
		RegularHours:  timeutil.Hours(regular),
		OvertimeHours: timeutil.Hours(overtime),
	}

	travel := inferTravel(events, normalizeSamples(locations, e.zone))

	e.logger.Debug("Reconciled window",
		zap.Int("raw_events", len(raw)),
		zap.Int("shifts", len(shifts)),
		zap.Int("breaks", len(breaks)),
		zap.Int("travel_segments", len(travel)),
		zap.Float64("week_total", week.WeekTotal),
	)
	return week, travel, nil
}

// splitOvertime applies the flat weekly threshold to a week's total millis.
func splitOvertime(weekMillis int64) (regular, overtime int64) {
	if weekMillis <= weeklyOvertimeMillis {
		return weekMillis, 0
	}
	return weeklyOvertimeMillis, weekMillis - weeklyOvertimeMillis
}
