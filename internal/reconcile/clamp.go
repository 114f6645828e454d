package reconcile

import "time"

// closeOpenShifts synthesizes an end for a trailing open shift: the shift
// runs to "now", unless the wall clock has already passed the window end, in
// which case it runs to the window end. The interval stays marked open so
// reporting can show the in-progress marker.
func closeOpenShifts(shifts []interval, now, windowEnd time.Time) []interval {
	for i, s := range shifts {
		if !s.open {
			continue
		}
		end := now
		if end.After(windowEnd) {
			end = windowEnd
		}
		if end.Before(s.start) {
			end = s.start
		}
		shifts[i].end = end
	}
	return shifts
}

// dropOpen discards unmatched opening intervals. Breaks have no in-progress
// concept: a trailing break_start produces nothing.
func dropOpen(ivs []interval) []interval {
	out := ivs[:0]
	for _, iv := range ivs {
		if iv.open {
			continue
		}
		out = append(out, iv)
	}
	return out
}

// clamp clips every interval to [w.Start, w.End), recomputing durations from
// the clipped bounds. Intervals with no overlap are discarded outright; that
// is normal, not an error.
func clamp(ivs []interval, w Window) []interval {
	out := ivs[:0]
	for _, iv := range ivs {
		if iv.end.Before(w.Start) || !iv.start.Before(w.End) {
			continue
		}
		if iv.start.Before(w.Start) {
			iv.start = w.Start
		}
		if iv.end.After(w.End) {
			iv.end = w.End
		}
		out = append(out, iv)
	}
	return out
}
