package reconcile

import (
	"fmt"
	"sort"
	"time"

	"github.com/fieldsnap/attendance/internal/models"
)

// ParseError reports a raw event whose timestamp could not be parsed. This is
// the one fatal input condition: a silently misordered event would corrupt
// every downstream total.
type ParseError struct {
	EventID string
	Value   string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("event %s: unparsable timestamp %q: %v", e.EventID, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// event is a RawEvent with its timestamp parsed and shifted into the
// reporting zone.
type event struct {
	id      string
	userID  string
	typ     models.EventType
	ts      time.Time
	project *string
}

// normalize parses every event timestamp and returns the stream sorted
// ascending by time. The sort is stable: ties keep their original relative
// order, which the duplicate-event policy downstream relies on.
func normalize(raw []models.RawEvent, zone *time.Location) ([]event, error) {
	events := make([]event, 0, len(raw))
	for _, r := range raw {
		ts, err := time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			return nil, &ParseError{EventID: r.ID, Value: r.Timestamp, Err: err}
		}
		events = append(events, event{
			id:      r.ID,
			userID:  r.UserID,
			typ:     r.Type,
			ts:      ts.In(zone),
			project: r.ProjectID,
		})
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].ts.Before(events[j].ts)
	})
	return events, nil
}

// normalizeSamples parses location telemetry sorted ascending. Malformed
// samples are skipped: missing telemetry degrades travel inference, it never
// fails a report.
func normalizeSamples(raw []models.LocationSample, zone *time.Location) []sample {
	samples := make([]sample, 0, len(raw))
	for _, r := range raw {
		ts, err := time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			continue
		}
		samples = append(samples, sample{ts: ts.In(zone), moving: r.IsMoving})
	}
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].ts.Before(samples[j].ts)
	})
	return samples
}

type sample struct {
	ts     time.Time
	moving bool
}
