package board

import (
	"time"

	"github.com/calboard/calboard/pkg/gcal"
)

// EventRange is an event's occupied interval with an inclusive end, the form
// the day-membership test wants. All-day events arrive from the remote API
// with an exclusive end date; NormalizeRange folds that back to the last
// occupied day at 23:59:59.999.
type EventRange struct {
	Start        time.Time
	EndInclusive time.Time
	AllDay       bool
}

// NormalizeRange computes the occupied interval of an event. It returns
// ok=false for events whose endpoints carry neither a date nor a dateTime;
// such events are simply not rendered, they are not an error.
func NormalizeRange(ev gcal.Event, loc *time.Location) (EventRange, bool) {
	if ev.Start == nil || ev.End == nil {
		return EventRange{}, false
	}
	start, ok := parseEndpoint(*ev.Start, loc)
	if !ok {
		return EventRange{}, false
	}
	endExclusive, ok := parseEndpoint(*ev.End, loc)
	if !ok {
		return EventRange{}, false
	}

	r := EventRange{Start: start, AllDay: ev.Start.Date != "" && ev.End.Date != ""}
	if r.AllDay {
		last := endExclusive.AddDate(0, 0, -1)
		r.EndInclusive = endOfDay(last)
	} else {
		r.EndInclusive = endExclusive
	}
	return r, true
}

// OnDay reports whether the range touches the calendar day containing the
// given instant: the range overlaps [00:00:00.000, 23:59:59.999] of that day.
func (r EventRange) OnDay(day time.Time) bool {
	dayStart := startOfDay(day)
	dayEnd := endOfDay(day)
	return !(r.EndInclusive.Before(dayStart) || r.Start.After(dayEnd))
}

// TouchesMonth reports whether the range overlaps any day of the given month.
func (r EventRange) TouchesMonth(year int, month time.Month, loc *time.Location) bool {
	w := MonthWindow(year, month, loc)
	lastInstant := w.End.Add(-time.Millisecond)
	return !(r.EndInclusive.Before(w.Start) || r.Start.After(lastInstant))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, t.Location())
}

func parseEndpoint(e gcal.EventDateTime, loc *time.Location) (time.Time, bool) {
	if e.DateTime != "" {
		t, err := time.Parse(time.RFC3339, e.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return t.In(loc), true
	}
	if e.Date != "" {
		t, err := time.ParseInLocation("2006-01-02", e.Date, loc)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
