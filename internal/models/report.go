package models

import "time"

// Shift is a reconciled clock-in/clock-out interval. ClockOut is nil while
// the shift is still open; Hours is derived from the (possibly clamped)
// bounds at build time.
type Shift struct {
	ClockIn    time.Time  `json:"clockIn"`
	ClockOut   *time.Time `json:"clockOut,omitempty"`
	Hours      float64    `json:"hours"`
	InProgress bool       `json:"inProgress"`
}

// Break is a reconciled break interval. Breaks are always closed; an
// unmatched break_start produces no Break at all.
type Break struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Minutes float64   `json:"minutes"`
}

// DayData aggregates one local calendar day of a reporting window.
type DayData struct {
	Date         string  `json:"date"` // local calendar key, 2006-01-02
	DayName      string  `json:"dayName"`
	TotalHours   float64 `json:"totalHours"`
	ClockIn      string  `json:"clockIn,omitempty"`  // first shift's formatted start
	ClockOut     string  `json:"clockOut,omitempty"` // last shift's formatted end, or in-progress marker
	BreakMinutes int     `json:"breakMinutes"`
	Shifts       []Shift `json:"shifts,omitempty"`
	InProgress   bool    `json:"inProgress"`
}

// WeekData is the per-user report for a window: one DayData per calendar day
// plus the week total and its regular/overtime split.
type WeekData struct {
	Days          []DayData `json:"days"`
	WeekTotal     float64   `json:"weekTotal"`
	RegularHours  float64   `json:"regularHours"`
	OvertimeHours float64   `json:"overtimeHours"`
}

// TravelSegment is an inferred inter-project transit period. DurationHours
// spans the moving telemetry sub-window, not the full clock gap.
type TravelSegment struct {
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	DurationHours float64   `json:"durationHours"`
	FromProject   *string   `json:"fromProject,omitempty"`
	ToProject     *string   `json:"toProject,omitempty"`
}

// UserTotal is one row of the administrative cross-user view.
type UserTotal struct {
	UserID     string  `json:"userId"`
	TotalHours float64 `json:"totalHours"`
}

// WeekReport bundles the report endpoint's response.
type WeekReport struct {
	Week   WeekData        `json:"week"`
	Travel []TravelSegment `json:"travel,omitempty"`
}
