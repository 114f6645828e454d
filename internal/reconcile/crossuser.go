package reconcile

import (
	"sort"

	"github.com/fieldsnap/attendance/internal/models"
	"github.com/fieldsnap/attendance/internal/timeutil"
)

// CrossUserTotals is the administrative multi-user view. Each user's events
// are sorted chronologically and paired with LIFO-stack semantics
// (PairLIFOStack); unmatched trailing clock-ins contribute nothing. Unlike
// the per-user report there is no "now" clamping, so an employee currently on
// the clock shows fewer hours here than in their own report. Break events are
// ignored entirely at this layer. The divergence from Reconcile is
// intentional; see PairingPolicy.
func (e *Engine) CrossUserTotals(raw []models.RawEvent) ([]models.UserTotal, error) {
	events, err := normalize(raw, e.zone)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string][]event)
	for _, ev := range events {
		byUser[ev.userID] = append(byUser[ev.userID], ev)
	}

	totals := make([]models.UserTotal, 0, len(byUser))
	for userID, evs := range byUser {
		var millis int64
		for _, iv := range pair(evs, models.EventClockIn, models.EventClockOut, PairLIFOStack) {
			if iv.open {
				continue
			}
			millis += iv.millis()
		}
		totals = append(totals, models.UserTotal{
			UserID:     userID,
			TotalHours: timeutil.Hours(millis),
		})
	}

	sort.Slice(totals, func(i, j int) bool {
		return totals[i].UserID < totals[j].UserID
	})
	return totals, nil
}
