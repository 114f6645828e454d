package reconcile

import (
	"time"

	"github.com/fieldsnap/attendance/internal/models"
	"github.com/fieldsnap/attendance/internal/timeutil"
)

// Travel segments shorter than a minute are GPS jitter; anything at four
// hours or beyond is a stale or multi-day gap, not a drive between sites.
const (
	minTravelMillis = int64(time.Minute / time.Millisecond)
	maxTravelMillis = 4 * int64(time.Hour/time.Millisecond)
)

// inferTravel scans the sorted event stream for a clock_out immediately
// followed by a clock_in at a different project, corroborated by movement
// telemetry inside the gap. Without at least one moving sample the gap is
// skipped; an idle lunch hour between sites is not travel. The segment
// duration spans the first through last moving sample, not the whole gap.
func inferTravel(events []event, samples []sample) []models.TravelSegment {
	var segments []models.TravelSegment
	for i := 0; i+1 < len(events); i++ {
		out := events[i]
		in := events[i+1]
		if out.typ != models.EventClockOut || in.typ != models.EventClockIn {
			continue
		}
		if !differentProjects(out.project, in.project) {
			continue
		}

		first, last, found := movingSpan(samples, out.ts, in.ts)
		if !found {
			continue
		}
		ms := last.Sub(first).Milliseconds()
		if ms <= minTravelMillis || ms >= maxTravelMillis {
			continue
		}

		segments = append(segments, models.TravelSegment{
			StartTime:     out.ts,
			EndTime:       in.ts,
			DurationHours: timeutil.Hours(ms),
			FromProject:   out.project,
			ToProject:     in.project,
		})
	}
	return segments
}

// differentProjects reports whether a gap crosses project boundaries. A gap
// with an unknown project on either side is not treated as travel; the
// inference stays conservative.
func differentProjects(a, b *string) bool {
	if a == nil || b == nil {
		return false
	}
	return *a != *b
}

// movingSpan returns the first and last moving sample timestamps within
// [from, to] inclusive.
func movingSpan(samples []sample, from, to time.Time) (first, last time.Time, found bool) {
	for _, s := range samples {
		if !s.moving || s.ts.Before(from) || s.ts.After(to) {
			continue
		}
		if !found {
			first = s.ts
			found = true
		}
		last = s.ts
	}
	return first, last, found
}

// GroupTravelByDay regroups segments by the local calendar date of their
// start for per-day reporting.
func GroupTravelByDay(segments []models.TravelSegment) map[string][]models.TravelSegment {
	grouped := make(map[string][]models.TravelSegment)
	for _, seg := range segments {
		key := timeutil.DayKey(seg.StartTime)
		grouped[key] = append(grouped[key], seg)
	}
	return grouped
}
