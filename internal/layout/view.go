package layout

import (
	"github.com/roach88/gantry/internal/calendar"
	"github.com/roach88/gantry/internal/model"
)

// View is a rendered timeline grid: a zoom level, an inclusive date
// window and the columns generated for it.
type View struct {
	Zoom        Zoom
	Start       calendar.Date
	End         calendar.Date
	Columns     []calendar.Date
	ColumnWidth float64
}

// NewView builds the initial view for zoom around today.
// A non-positive columnWidth selects DefaultColumnWidth.
func NewView(zoom Zoom, today calendar.Date, columnWidth float64) View {
	start, end := ViewWindow(zoom, today)
	return ViewFor(zoom, start, end, columnWidth)
}

// ViewFor builds a view over an explicit window.
func ViewFor(zoom Zoom, start, end calendar.Date, columnWidth float64) View {
	if columnWidth <= 0 {
		columnWidth = DefaultColumnWidth
	}
	return View{
		Zoom:        zoom,
		Start:       start,
		End:         end,
		Columns:     ColumnList(zoom, start, end),
		ColumnWidth: columnWidth,
	}
}

// TotalWidth is the width of the whole grid in pixels.
func (v View) TotalWidth() float64 {
	return float64(len(v.Columns)) * v.ColumnWidth
}

// TotalDays is the window length in days (at least 1).
func (v View) TotalDays() int {
	return totalDays(v.Start, v.End)
}

// BarRect places order within the view.
func (v View) BarRect(order model.WorkOrder) Rect {
	return BarRect(order, v.Start, v.End, len(v.Columns), v.ColumnWidth)
}

// TodayOffset is the unclamped x position of today.
func (v View) TodayOffset(today calendar.Date) float64 {
	return TodayOffset(today, v.Start, v.End, len(v.Columns), v.ColumnWidth)
}

// TodayInView reports whether today is inside the window.
func (v View) TodayInView(today calendar.Date) bool {
	return TodayInView(today, v.Start, v.End)
}

// DateAt maps an x offset to a date.
func (v View) DateAt(x float64) calendar.Date {
	return DateAt(x, v.Start, v.End, len(v.Columns), v.ColumnWidth)
}

// Label returns the header label for column i.
func (v View) Label(i int) string {
	return ColumnLabel(v.Columns[i], v.Zoom)
}

// IsCurrent reports whether column i contains today.
func (v View) IsCurrent(i int, today calendar.Date) bool {
	return IsCurrentPeriod(v.Columns[i], v.Zoom, today)
}
