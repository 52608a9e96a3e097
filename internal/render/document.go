package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/roach88/gantry/internal/calendar"
	"github.com/roach88/gantry/internal/layout"
	"github.com/roach88/gantry/internal/model"
)

// Document is the machine-readable layout of a timeline: every column
// and every visible bar with its pixel rectangle.
type Document struct {
	Zoom        layout.Zoom   `json:"zoom"`
	Start       calendar.Date `json:"start"`
	End         calendar.Date `json:"end"`
	Today       calendar.Date `json:"today"`
	ColumnWidth float64       `json:"column_width"`
	TotalWidth  float64       `json:"total_width"`
	TotalDays   int           `json:"total_days"`

	// TodayOffset is omitted when today is outside the window.
	TodayOffset *float64 `json:"today_offset,omitempty"`

	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Column is one header cell.
type Column struct {
	Start   calendar.Date `json:"start"`
	Label   string        `json:"label"`
	Current bool          `json:"current"`
}

// Row is one work center and its bars.
type Row struct {
	WorkCenterID string `json:"work_center_id"`
	Name         string `json:"name"`
	Bars         []Bar  `json:"bars"`
}

// Bar is one work order placed on the grid.
type Bar struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Status      model.Status  `json:"status"`
	StatusLabel string        `json:"status_label"`
	Start       calendar.Date `json:"start_date"`
	End         calendar.Date `json:"end_date"`
	Left        float64       `json:"left"`
	Width       float64       `json:"width"`
}

// NewDocument lays out in.
func NewDocument(in Input) Document {
	v := in.View
	doc := Document{
		Zoom:        v.Zoom,
		Start:       v.Start,
		End:         v.End,
		Today:       in.Today,
		ColumnWidth: v.ColumnWidth,
		TotalWidth:  v.TotalWidth(),
		TotalDays:   v.TotalDays(),
		Columns:     make([]Column, len(v.Columns)),
		Rows:        make([]Row, len(in.Centers)),
	}
	if v.TodayInView(in.Today) {
		offset := v.TodayOffset(in.Today)
		doc.TodayOffset = &offset
	}
	for i, col := range v.Columns {
		doc.Columns[i] = Column{Start: col, Label: v.Label(i), Current: v.IsCurrent(i, in.Today)}
	}
	for i, orders := range in.rows() {
		row := Row{WorkCenterID: in.Centers[i].ID, Name: in.Centers[i].Name, Bars: make([]Bar, 0, len(orders))}
		for _, o := range orders {
			r := v.BarRect(o)
			row.Bars = append(row.Bars, Bar{
				ID:          o.ID,
				Name:        o.Name,
				Status:      o.Status,
				StatusLabel: o.Status.Label(),
				Start:       o.StartDate,
				End:         o.EndDate,
				Left:        r.Left,
				Width:       r.Width,
			})
		}
		doc.Rows[i] = row
	}
	return doc
}

// WriteDocument writes the layout of in as indented JSON.
func WriteDocument(w io.Writer, in Input) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(NewDocument(in)); err != nil {
		return fmt.Errorf("encode layout document: %w", err)
	}
	return nil
}
