package board

import (
	"fmt"
	"time"

	"github.com/calboard/calboard/pkg/gcal"
)

// GridSize is the fixed number of day cells in a month view: six full weeks,
// regardless of where the month starts or how long it is.
const GridSize = 42

// MonthGrid returns the 42 consecutive dates displayed for the given month.
// The first cell is the Sunday on or before the 1st, so the grid always
// includes the leading and trailing days of the neighboring months.
func MonthGrid(year int, month time.Month, loc *time.Location) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	days := make([]time.Time, GridSize)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// ParseYearMonth parses a "YYYY-MM" label. The month may be zero-padded or
// not.
func ParseYearMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-1", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return t.Year(), t.Month(), nil
}

// FormatYearMonth is the inverse of ParseYearMonth, always zero-padded.
func FormatYearMonth(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// MonthWindow is the half-open [first of month, first of next month) interval.
func MonthWindow(year int, month time.Month, loc *time.Location) gcal.Window {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return gcal.Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// BulkWindow is the wide prefetch interval centered on the given month: from
// the first day of the month monthsBack earlier to the first day of the month
// monthsForward+1 later, half-open.
func BulkWindow(year int, month time.Month, monthsBack, monthsForward int, loc *time.Location) gcal.Window {
	anchor := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return gcal.Window{
		Start: anchor.AddDate(0, -monthsBack, 0),
		End:   anchor.AddDate(0, monthsForward+1, 0),
	}
}
