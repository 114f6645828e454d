package reconcile_test

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fieldsnap/attendance/internal/models"
	"github.com/fieldsnap/attendance/internal/reconcile"
	"github.com/fieldsnap/attendance/internal/timeutil"
)

const eps = 1e-9

func newTestEngine(t *testing.T, zone *time.Location, now time.Time) *reconcile.Engine {
	t.Helper()
	e := reconcile.NewEngine(zone, zap.NewNop())
	e.SetNowFunc(func() time.Time { return now })
	return e
}

func rawEvent(id string, typ models.EventType, ts time.Time, project string) models.RawEvent {
	ev := models.RawEvent{
		ID:          id,
		UserID:      "user-1",
		CompanyID:   "co-1",
		Type:        typ,
		Timestamp:   ts.Format(time.RFC3339),
		EntryMethod: models.EntryManual,
	}
	if project != "" {
		ev.ProjectID = &project
	}
	return ev
}

func movingSample(ts time.Time, moving bool) models.LocationSample {
	return models.LocationSample{
		UserID:    "user-1",
		Timestamp: ts.Format(time.RFC3339),
		IsMoving:  moving,
	}
}

func mustWindow(t *testing.T, start, end string, zone *time.Location) reconcile.Window {
	t.Helper()
	w, err := reconcile.NewWindow(start, end, zone)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestDuplicateClockInKeepsLatest(t *testing.T) {
	zone := time.UTC
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, zone)
	events := []models.RawEvent{
		rawEvent("e1", models.EventClockIn, day.Add(8*time.Hour), "p1"),
		rawEvent("e2", models.EventClockIn, day.Add(9*time.Hour), "p1"),
		rawEvent("e3", models.EventClockOut, day.Add(17*time.Hour), "p1"),
	}
	w := mustWindow(t, "2026-03-02", "2026-03-02", zone)
	e := newTestEngine(t, zone, day.Add(20*time.Hour))

	week, _, err := e.Reconcile(events, w, nil)
	if err != nil {
		t.Fatal(err)
	}
	d := week.Days[0]
	if len(d.Shifts) != 1 {
		t.Fatalf("got %d shifts, want 1", len(d.Shifts))
	}
	if math.Abs(d.TotalHours-8) > eps {
		t.Errorf("totalHours = %v, want 8", d.TotalHours)
	}
	if d.ClockIn != "9:00 AM" {
		t.Errorf("clockIn = %q, want 9:00 AM", d.ClockIn)
	}
}

func TestOrphanClockOutDropped(t *testing.T) {
	zone := time.UTC
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, zone)
	events := []models.RawEvent{
		rawEvent("e1", models.EventClockOut, day.Add(17*time.Hour), "p1"),
		rawEvent("e2", models.EventBreakEnd, day.Add(12*time.Hour), "p1"),
	}
	w := mustWindow(t, "2026-03-02", "2026-03-02", zone)
	e := newTestEngine(t, zone, day.Add(20*time.Hour))

	week, _, err := e.Reconcile(events, w, nil)
	if err != nil {
		t.Fatal(err)
	}
	if week.WeekTotal != 0 {
		t.Errorf("weekTotal = %v, want 0", week.WeekTotal)
	}
	if len(week.Days[0].Shifts) != 0 {
		t.Errorf("got %d shifts, want 0", len(week.Days[0].Shifts))
	}
}

func TestOpenShiftClampsToNow(t *testing.T) {
	zone := time.UTC
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, zone)
	events := []models.RawEvent{
		rawEvent("e1", models.EventClockIn, day.Add(8*time.Hour), "p1"),
	}
	w := mustWindow(t, "2026-03-02", "2026-03-08", zone)

	// now is inside the window: shift runs clock-in -> now.
	e := newTestEngine(t, zone, day.Add(11*time.Hour+30*time.Minute))
	week, _, err := e.Reconcile(events, w, nil)
	if err != nil {
		t.Fatal(err)
	}
	d := week.Days[0]
	if math.Abs(d.TotalHours-3.5) > eps {
		t.Errorf("totalHours = %v, want 3.5", d.TotalHours)
	}
	if !d.InProgress {
		t.Error("day should be in progress")
	}
	if d.ClockOut != timeutil.InProgressMarker {
		t.Errorf("clockOut = %q, want %q", d.ClockOut, timeutil.InProgressMarker)
	}
}

func TestOpenShiftClampsToWindowEnd(t *testing.T) {
	zone := time.UTC
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, zone)
	events := []models.RawEvent{
		rawEvent("e1", models.EventClockIn, day.Add(8*time.Hour), "p1"),
	}
	w := mustWindow(t, "2026-03-02", "2026-03-02", zone)

	// now has passed the window end: shift runs clock-in -> window end.
	e := newTestEngine(t, zone, day.AddDate(0, 0, 3))
	week, _, err := e.Reconcile(events, w, nil)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(week.Days[0].TotalHours-16) > eps {
		t.Errorf("totalHours = %v, want 16", week.Days[0].TotalHours)
	}
}

func TestBreakAndShiftSameDay(t *testing.T) {
	zone, err := time.LoadLocation("America/Denver")
	if err != nil {
		t.Fatal(err)
	}
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, zone)
	events := []models.RawEvent{
		rawEvent("e1", models.EventClockIn, day.Add(8*time.Hour), "p1"),
		rawEvent("e2", models.EventBreakStart, day.Add(12*time.Hour), "p1"),
		rawEvent("e3", models.EventBreakEnd, day.Add(12*time.Hour+30*time.Minute), "p1"),
		rawEvent("e4", models.EventClockOut, day.Add(17*time.Hour), "p1"),
	}
	w := mustWindow(t, "2026-03-02", "2026-03-02", zone)
	e := newTestEngine(t, zone, day.Add(20*time.Hour))

	week, _, err := e.Reconcile(events, w, nil)
	if err != nil {
		t.Fatal(err)
	}
	d := week.Days[0]
	// Nine clocked hours minus the unpaid half-hour break.
	if math.Abs(d.TotalHours-8.5) > eps {
		t.Errorf("totalHours = %v, want 8.5", d.TotalHours)
	}
	if len(d.Shifts) != 1 || math.Abs(d.Shifts[0].Hours-9) > eps {
		t.Errorf("shift hours = %+v, want one gross 9h shift", d.Shifts)
	}
	if d.BreakMinutes != 30 {
		t.Errorf("breakMinutes = %d, want 30", d.BreakMinutes)
	}
	if d.ClockIn != "8:00 AM" {
		t.Errorf("clockIn = %q, want 8:00 AM", d.ClockIn)
	}
	if d.ClockOut != "5:00 PM" {
		t.Errorf("clockOut = %q, want 5:00 PM", d.ClockOut)
	}
	if d.DayName != "Monday" {
		t.Errorf("dayName = %q, want Monday", d.DayName)
	}
}

func TestOpenBreakProducesNothing(t *testing.T) {
	zone := time.UTC
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, zone)
	events := []models.RawEvent{
		rawEvent("e1", models.EventClockIn, day.Add(8*time.Hour), "p1"),
		rawEvent("e2", models.EventBreakStart, day.Add(12*time.Hour), "p1"),
		rawEvent("e3", models.EventClockOut, day.Add(17*time.Hour), "p1"),
	}
	w := mustWindow(t, "2026-03-02", "2026-03-02", zone)
	e := newTestEngine(t, zone, day.Add(20*time.Hour))

	week, _, err := e.Reconcile(events, w, nil)
	if err != nil {
		t.Fatal(err)
	}
	if week.Days[0].BreakMinutes != 0 {
		t.Errorf("breakMinutes = %d, want 0", week.Days[0].BreakMinutes)
	}
}

func TestOvertimeSplit(t *testing.T) {
	zone := time.UTC
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, zone)
	tests := []struct {
		name         string
		dailyHours   []float64
		wantRegular  float64
		wantOvertime float64
	}{
		{"under threshold", []float64{9.5, 9.5, 9.5, 9.5}, 38, 0},
		{"exactly threshold", []float64{8, 8, 8, 8, 8}, 40, 0},
		{"over threshold", []float64{9, 9, 9, 9, 9}, 40, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var events []models.RawEvent
			for i, h := range tt.dailyHours {
				day := monday.AddDate(0, 0, i)
				events = append(events,
					rawEvent("in", models.EventClockIn, day.Add(8*time.Hour), "p1"),
					rawEvent("out", models.EventClockOut, day.Add(8*time.Hour+time.Duration(h*float64(time.Hour))), "p1"),
				)
			}
			w := mustWindow(t, "2026-03-02", "2026-03-08", zone)
			e := newTestEngine(t, zone, monday.AddDate(0, 0, 8))

			week, _, err := e.Reconcile(events, w, nil)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(week.RegularHours-tt.wantRegular) > eps {
				t.Errorf("regular = %v, want %v", week.RegularHours, tt.wantRegular)
			}
			if math.Abs(week.OvertimeHours-tt.wantOvertime) > eps {
				t.Errorf("overtime = %v, want %v", week.OvertimeHours, tt.wantOvertime)
			}
		})
	}
}

func TestConservationAndPartition(t *testing.T) {
	zone := time.UTC
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, zone)
	events := []models.RawEvent{
		rawEvent("e1", models.EventClockIn, monday.Add(7*time.Hour), "p1"),
		rawEvent("e2", models.EventClockOut, monday.Add(15*time.Hour+17*time.Minute), "p1"),
		rawEvent("e3", models.EventClockIn, monday.AddDate(0, 0, 1).Add(6*time.Hour+42*time.Minute), "p2"),
		rawEvent("e4", models.EventClockOut, monday.AddDate(0, 0, 1).Add(14*time.Hour+3*time.Minute), "p2"),
		rawEvent("e5", models.EventClockIn, monday.AddDate(0, 0, 4).Add(9*time.Hour), "p1"),
		rawEvent("e6", models.EventClockOut, monday.AddDate(0, 0, 4).Add(13*time.Hour+29*time.Minute), "p1"),
	}
	w := mustWindow(t, "2026-03-02", "2026-03-08", zone)
	e := newTestEngine(t, zone, monday.AddDate(0, 0, 8))

	week, _, err := e.Reconcile(events, w, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(week.Days) != 7 {
		t.Fatalf("got %d days, want 7", len(week.Days))
	}
	// Day keys partition the window: consecutive, no gaps, no overlaps.
	for i, d := range week.Days {
		want := timeutil.DayKey(monday.AddDate(0, 0, i))
		if d.Date != want {
			t.Errorf("day %d key = %q, want %q", i, d.Date, want)
		}
	}

	var sumDays, sumShifts float64
	for _, d := range week.Days {
		sumDays += d.TotalHours
		for _, s := range d.Shifts {
			sumShifts += s.Hours
		}
	}
	if math.Abs(week.WeekTotal-sumDays) > eps {
		t.Errorf("weekTotal = %v, sum of days = %v", week.WeekTotal, sumDays)
	}
	if math.Abs(week.WeekTotal-sumShifts) > 1e-6 {
		t.Errorf("weekTotal = %v, sum of shifts = %v", week.WeekTotal, sumShifts)
	}
}

func TestIdempotence(t *testing.T) {
	zone := time.UTC
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, zone)
	events := []models.RawEvent{
		rawEvent("e1", models.EventClockIn, day.Add(8*time.Hour), "p1"),
		rawEvent("e2", models.EventClockOut, day.Add(12*time.Hour), "p1"),
		rawEvent("e3", models.EventClockIn, day.Add(13*time.Hour), "p2"),
	}
	samples := []models.LocationSample{
		movingSample(day.Add(12*time.Hour+10*time.Minute), true),
		movingSample(day.Add(12*time.Hour+40*time.Minute), true),
	}
	w := mustWindow(t, "2026-03-02", "2026-03-02", zone)
	e := newTestEngine(t, zone, day.Add(15*time.Hour))

	week1, travel1, err := e.Reconcile(events, w, samples)
	if err != nil {
		t.Fatal(err)
	}
	week2, travel2, err := e.Reconcile(events, w, samples)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(week1, week2) {
		t.Error("week reports differ across identical runs")
	}
	if !reflect.DeepEqual(travel1, travel2) {
		t.Error("travel segments differ across identical runs")
	}
}

func TestInputOrderIndependence(t *testing.T) {
	zone := time.UTC
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, zone)
	events := []models.RawEvent{
		rawEvent("e3", models.EventClockOut, day.Add(17*time.Hour), "p1"),
		rawEvent("e1", models.EventClockIn, day.Add(8*time.Hour), "p1"),
		rawEvent("e2", models.EventClockIn, day.Add(9*time.Hour), "p1"),
	}
	w := mustWindow(t, "2026-03-02", "2026-03-02", zone)
	e := newTestEngine(t, zone, day.Add(20*time.Hour))

	week, _, err := e.Reconcile(events, w, nil)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(week.WeekTotal-8) > eps {
		t.Errorf("weekTotal = %v, want 8 (latest clock-in wins after sorting)", week.WeekTotal)
	}
}

func TestWindowClamping(t *testing.T) {
	zone := time.UTC
	// Shift starts the day before the window and ends inside it.
	events := []models.RawEvent{
		rawEvent("e1", models.EventClockIn, time.Date(2026, 3, 1, 22, 0, 0, 0, zone), "p1"),
		rawEvent("e2", models.EventClockOut, time.Date(2026, 3, 2, 6, 0, 0, 0, zone), "p1"),
		// Entirely before the window: discarded.
		rawEvent("e3", models.EventClockIn, time.Date(2026, 2, 20, 8, 0, 0, 0, zone), "p1"),
		rawEvent("e4", models.EventClockOut, time.Date(2026, 2, 20, 16, 0, 0, 0, zone), "p1"),
	}
	w := mustWindow(t, "2026-03-02", "2026-03-08", zone)
	e := newTestEngine(t, zone, time.Date(2026, 3, 9, 0, 0, 0, 0, zone))

	week, _, err := e.Reconcile(events, w, nil)
	if err != nil {
		t.Fatal(err)
	}
	d := week.Days[0]
	if len(d.Shifts) != 1 {
		t.Fatalf("got %d shifts on first day, want 1", len(d.Shifts))
	}
	// Clipped to window start: 6 hours remain and the formatted clock-in
	// reflects the clipped instant, not the original one.
	if math.Abs(d.TotalHours-6) > eps {
		t.Errorf("totalHours = %v, want 6", d.TotalHours)
	}
	if d.ClockIn != "12:00 AM" {
		t.Errorf("clockIn = %q, want 12:00 AM", d.ClockIn)
	}
	if math.Abs(week.WeekTotal-6) > eps {
		t.Errorf("weekTotal = %v, want 6", week.WeekTotal)
	}
}

func TestParseErrorIdentifiesEvent(t *testing.T) {
	zone := time.UTC
	events := []models.RawEvent{
		{ID: "bad-7", UserID: "user-1", Type: models.EventClockIn, Timestamp: "not-a-time"},
	}
	w := mustWindow(t, "2026-03-02", "2026-03-02", zone)
	e := newTestEngine(t, zone, time.Date(2026, 3, 2, 12, 0, 0, 0, zone))

	_, _, err := e.Reconcile(events, w, nil)
	var perr *reconcile.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want *ParseError", err)
	}
	if perr.EventID != "bad-7" {
		t.Errorf("ParseError.EventID = %q, want bad-7", perr.EventID)
	}
}

func TestEmptyWindow(t *testing.T) {
	zone := time.UTC
	w := mustWindow(t, "2026-03-02", "2026-03-08", zone)
	e := newTestEngine(t, zone, time.Date(2026, 3, 9, 0, 0, 0, 0, zone))

	week, travel, err := e.Reconcile(nil, w, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(week.Days) != 7 {
		t.Fatalf("got %d days, want 7 empty days", len(week.Days))
	}
	for _, d := range week.Days {
		if d.TotalHours != 0 || d.ClockIn != "" || len(d.Shifts) != 0 {
			t.Errorf("day %s not empty: %+v", d.Date, d)
		}
	}
	if week.WeekTotal != 0 || len(travel) != 0 {
		t.Errorf("weekTotal = %v, travel = %d, want zero", week.WeekTotal, len(travel))
	}
}
