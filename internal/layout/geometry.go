package layout

import (
	"math"

	"github.com/roach88/gantry/internal/calendar"
	"github.com/roach88/gantry/internal/model"
)

// DefaultColumnWidth is the rendered width of one column in pixels.
const DefaultColumnWidth = 114.0

// MinBarWidth keeps very short orders visible and clickable.
const MinBarWidth = 40.0

// Rect is the horizontal placement of a bar within the grid, in pixels.
type Rect struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

// totalDays is the window length in days, floored at 1 so the ratios
// below never divide by zero.
func totalDays(viewStart, viewEnd calendar.Date) int {
	return max(1, calendar.DaysBetween(viewStart, viewEnd))
}

// BarRect places order within a grid of columnCount columns of columnWidth
// pixels spanning [viewStart, viewEnd]:
//
//	left  = max(0,  startOffsetDays / totalDays * totalWidth)
//	width = max(40, durationDays    / totalDays * totalWidth)
//
// durationDays is floored at one day, so a zero-length order still gets a
// one-day (and at least 40px) bar.
func BarRect(order model.WorkOrder, viewStart, viewEnd calendar.Date, columnCount int, columnWidth float64) Rect {
	totalWidth := float64(columnCount) * columnWidth
	days := float64(totalDays(viewStart, viewEnd))

	startOffset := float64(calendar.DaysBetween(viewStart, order.StartDate))
	duration := float64(max(1, calendar.DaysBetween(order.StartDate, order.EndDate)))

	return Rect{
		Left:  math.Max(0, startOffset/days*totalWidth),
		Width: math.Max(MinBarWidth, duration/days*totalWidth),
	}
}

// TodayOffset is the x position of the today marker. It is not clamped:
// callers hide the marker when today is outside the window (see
// TodayInView).
func TodayOffset(today, viewStart, viewEnd calendar.Date, columnCount int, columnWidth float64) float64 {
	totalWidth := float64(columnCount) * columnWidth
	days := float64(totalDays(viewStart, viewEnd))
	return float64(calendar.DaysBetween(viewStart, today)) / days * totalWidth
}

// TodayInView reports whether today lies within [viewStart, viewEnd].
func TodayInView(today, viewStart, viewEnd calendar.Date) bool {
	return !today.Before(viewStart) && !today.After(viewEnd)
}

// DateAt maps an x offset within the grid back to a calendar day: the
// inverse of the layout, used to pre-fill the start date when a user
// clicks an empty cell.
//
//	dayOffset = floor(x / totalWidth * totalDays)
func DateAt(x float64, viewStart, viewEnd calendar.Date, columnCount int, columnWidth float64) calendar.Date {
	totalWidth := float64(columnCount) * columnWidth
	if totalWidth <= 0 {
		return viewStart
	}
	days := float64(totalDays(viewStart, viewEnd))
	return viewStart.AddDays(int(math.Floor(x / totalWidth * days)))
}
