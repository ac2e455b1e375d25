package report

import "time"

// Filter tokens accepted by list and export endpoints
const (
	FilterToday = "today"
	FilterWeek  = "week"
	FilterMonth = "month"
	FilterAll   = "all"
)

// Window is a date range used to filter records for aggregation. Bounds
// are half-open: Start is included, End is excluded. Either bound may be
// absent; a window with no bounds matches every record.
type Window struct {
	Start    time.Time
	End      time.Time
	HasStart bool
	HasEnd   bool
}

// Unbounded returns a window that matches every record
func Unbounded() Window {
	return Window{}
}

// Contains reports whether t falls inside the window. A record exactly at
// End is excluded.
func (w Window) Contains(t time.Time) bool {
	if w.HasStart && t.Before(w.Start) {
		return false
	}
	if w.HasEnd && !t.Before(w.End) {
		return false
	}
	return true
}

// Resolve converts a filter token and a reference instant into a concrete
// window. "today" is bounded on both sides (midnight to midnight). "week"
// and "month" only bound the start: a record dated after the reference
// instant still matches, which keeps their totals covering every day up to
// now rather than a fixed span. Unknown tokens resolve to an unbounded
// window, like "all".
func Resolve(filter string, now time.Time) Window {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch filter {
	case FilterToday:
		return Window{
			Start:    midnight,
			End:      midnight.AddDate(0, 0, 1),
			HasStart: true,
			HasEnd:   true,
		}
	case FilterWeek:
		// Monday on or before the reference date (ISO week, Monday=0)
		offset := (int(now.Weekday()) + 6) % 7
		return Window{
			Start:    midnight.AddDate(0, 0, -offset),
			HasStart: true,
		}
	case FilterMonth:
		return Window{
			Start:    time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
			HasStart: true,
		}
	default:
		return Unbounded()
	}
}
