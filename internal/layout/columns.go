package layout

import (
	"iter"
	"slices"

	"github.com/roach88/gantry/internal/calendar"
)

// Columns yields column start dates from start, stepping one day, seven
// days or one calendar month, while the date is not after end. Each month
// step is taken from the previous column, so a window starting on the 31st
// walks Jan 31, Feb 29, Mar 29, ...
//
// The sequence is lazy and can be ranged over any number of times. An
// invalid zoom or an end before start yields nothing.
func Columns(zoom Zoom, start, end calendar.Date) iter.Seq[calendar.Date] {
	return func(yield func(calendar.Date) bool) {
		if !zoom.Valid() {
			return
		}
		for cur := start; !cur.After(end); cur = zoom.next(cur) {
			if !yield(cur) {
				return
			}
		}
	}
}

// ColumnList collects Columns into a slice.
func ColumnList(zoom Zoom, start, end calendar.Date) []calendar.Date {
	return slices.Collect(Columns(zoom, start, end))
}

// ColumnLabel formats a column header:
//
//	Day:   "Mar 5"
//	Week:  "Mar 5 - Mar 11"
//	Month: "Mar 2024"
func ColumnLabel(col calendar.Date, zoom Zoom) string {
	switch zoom {
	case ZoomWeek:
		return col.Format("Jan 2") + " - " + col.AddDays(6).Format("Jan 2")
	case ZoomMonth:
		return col.Format("Jan 2006")
	default:
		return col.Format("Jan 2")
	}
}

// IsCurrentPeriod reports whether today falls in the column starting at col.
func IsCurrentPeriod(col calendar.Date, zoom Zoom, today calendar.Date) bool {
	switch zoom {
	case ZoomDay:
		return col.Equal(today)
	case ZoomWeek:
		return !today.Before(col) && !today.After(col.AddDays(6))
	case ZoomMonth:
		return col.SameMonth(today)
	}
	return false
}
