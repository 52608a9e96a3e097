// Package render draws a timeline view for a terminal and builds the JSON
// layout document consumed by other front ends.
package render

import (
	"github.com/roach88/gantry/internal/calendar"
	"github.com/roach88/gantry/internal/layout"
	"github.com/roach88/gantry/internal/model"
)

// Input is everything needed to draw one timeline.
type Input struct {
	View    layout.View
	Centers []model.WorkCenter
	Orders  []model.WorkOrder
	Today   calendar.Date
}

// visible reports whether o intersects the view window. The window's end
// day is included.
func (in Input) visible(o model.WorkOrder) bool {
	return model.Overlaps(o.StartDate, o.EndDate, in.View.Start, in.View.End.AddDays(1))
}

// rows groups the visible orders by work center, in center order. Orders
// whose work center is unknown are not drawn.
func (in Input) rows() [][]model.WorkOrder {
	index := make(map[string]int, len(in.Centers))
	for i, c := range in.Centers {
		index[c.ID] = i
	}
	rows := make([][]model.WorkOrder, len(in.Centers))
	for _, o := range in.Orders {
		i, ok := index[o.WorkCenterID]
		if !ok || !in.visible(o) {
			continue
		}
		rows[i] = append(rows[i], o)
	}
	return rows
}
