package reconcile

import (
	"time"

	"github.com/fieldsnap/attendance/internal/models"
)

// PairingPolicy names which open interval a closing event matches. The two
// policies are deliberately distinct: the per-user report keeps only the
// latest open clock-in (a duplicate tap replaces the pointer), while the
// administrative cross-user view pairs LIFO against a stack and ignores
// anything left open. They disagree on purpose whenever duplicate or
// overlapping clock-ins exist; see CrossUserTotals.
type PairingPolicy int

const (
	// PairLatestOpen keeps a single open pointer; a newer opening event
	// overwrites it and an unmatched closing event is dropped as an orphan.
	PairLatestOpen PairingPolicy = iota
	// PairLIFOStack pushes every opening event and pops the most recent
	// unmatched one on close.
	PairLIFOStack
)

// interval is a matched open/close pair. For a trailing unmatched opening
// event, end is the zero time and open is true; callers decide whether such
// an interval is synthesized (shifts) or discarded (breaks, admin totals).
type interval struct {
	start time.Time
	end   time.Time
	open  bool
}

func (iv interval) millis() int64 {
	return iv.end.Sub(iv.start).Milliseconds()
}

// pair walks a sorted event stream matching openType against closeType under
// the given policy. Events of other types are ignored. Orphan closing events
// are silently dropped; mobile streams cannot be assumed complete.
func pair(events []event, openType, closeType models.EventType, policy PairingPolicy) []interval {
	var out []interval
	var stack []event

	for _, ev := range events {
		switch ev.typ {
		case openType:
			if policy == PairLatestOpen {
				// Keep only the most recent opening event.
				stack = stack[:0]
			}
			stack = append(stack, ev)
		case closeType:
			if len(stack) == 0 {
				continue // orphan
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			out = append(out, interval{start: open.ts, end: ev.ts})
		}
	}

	for _, open := range stack {
		out = append(out, interval{start: open.ts, open: true})
	}
	return out
}
