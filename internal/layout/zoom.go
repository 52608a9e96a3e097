// Package layout maps a zoom level and a date window onto timeline columns,
// and work order date spans onto horizontal pixel rectangles in that grid.
//
// Everything here is a pure function of its arguments: the same inputs
// always produce the same columns and rectangles. "Today" is always passed
// in explicitly.
package layout

import (
	"fmt"

	"github.com/roach88/gantry/internal/calendar"
)

// Zoom is the time granularity of one timeline column.
type Zoom string

const (
	ZoomDay   Zoom = "day"
	ZoomWeek  Zoom = "week"
	ZoomMonth Zoom = "month"
)

// Zooms lists the zoom levels in increasing granularity.
var Zooms = []Zoom{ZoomDay, ZoomWeek, ZoomMonth}

// DefaultZoom is the zoom level the timeline opens with.
const DefaultZoom = ZoomMonth

// ParseZoom converts "day", "week" or "month" to a Zoom.
func ParseZoom(s string) (Zoom, error) {
	z := Zoom(s)
	if !z.Valid() {
		return "", fmt.Errorf("invalid zoom %q: must be one of %v", s, Zooms)
	}
	return z, nil
}

// Valid reports whether z is a known zoom level.
func (z Zoom) Valid() bool {
	switch z {
	case ZoomDay, ZoomWeek, ZoomMonth:
		return true
	}
	return false
}

// Label returns the display name ("Day", "Week", "Month").
func (z Zoom) Label() string {
	switch z {
	case ZoomDay:
		return "Day"
	case ZoomWeek:
		return "Week"
	case ZoomMonth:
		return "Month"
	}
	return string(z)
}

// next returns the start of the column after the one starting at d.
func (z Zoom) next(d calendar.Date) calendar.Date {
	switch z {
	case ZoomWeek:
		return d.AddDays(7)
	case ZoomMonth:
		return d.AddMonths(1)
	default:
		return d.AddDays(1)
	}
}

// ViewWindow returns the initial visible window for a zoom level around
// today (both ends inclusive):
//
//	Day:   today-14d .. today+14d
//	Week:  today-56d .. today+56d
//	Month: today-3mo .. today+8mo
func ViewWindow(zoom Zoom, today calendar.Date) (start, end calendar.Date) {
	switch zoom {
	case ZoomDay:
		return today.AddDays(-14), today.AddDays(14)
	case ZoomWeek:
		return today.AddDays(-56), today.AddDays(56)
	default:
		return today.AddMonths(-3), today.AddMonths(8)
	}
}
