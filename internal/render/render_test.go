package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gantry/internal/calendar"
	"github.com/roach88/gantry/internal/layout"
	"github.com/roach88/gantry/internal/model"
)

func d(s string) calendar.Date { return calendar.MustParse(s) }

func fixture() Input {
	return Input{
		View: layout.ViewFor(layout.ZoomDay, d("2024-03-01"), d("2024-03-05"), 100),
		Centers: []model.WorkCenter{
			{ID: "wc-1", Name: "Extrusion"},
			{ID: "wc-2", Name: "Assembly Line Two Long Name"},
			{ID: "wc-3", Name: "Inspection"},
		},
		Orders: []model.WorkOrder{
			{ID: "wo-1", WorkCenterID: "wc-1", Name: "Frame", Status: model.StatusOpen, StartDate: d("2024-03-01"), EndDate: d("2024-03-03")},
			{ID: "wo-2", WorkCenterID: "wc-1", Name: "Paint", Status: model.StatusBlocked, StartDate: d("2024-03-03"), EndDate: d("2024-03-04")},
			{ID: "wo-3", WorkCenterID: "wc-2", Name: "Wiring harness", Status: model.StatusInProgress, StartDate: d("2024-03-02"), EndDate: d("2024-03-05")},
			{ID: "wo-4", WorkCenterID: "wc-9", Name: "Orphan", Status: model.StatusOpen, StartDate: d("2024-03-01"), EndDate: d("2024-03-02")},
			{ID: "wo-5", WorkCenterID: "wc-1", Name: "Later", Status: model.StatusComplete, StartDate: d("2024-04-01"), EndDate: d("2024-04-05")},
			{ID: "wo-6", WorkCenterID: "wc-3", Name: "QA", Status: model.StatusComplete, StartDate: d("2024-03-04"), EndDate: d("2024-03-05")},
		},
		Today: d("2024-03-03"),
	}
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestText_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, fixture(), TextOptions{CellWidth: 8, LabelWidth: 16, NoColor: true}))
	newGoldie(t).Assert(t, "timeline_day", buf.Bytes())
}

func TestText_NoColorHasNoEscapes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, fixture(), TextOptions{NoColor: true}))
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestText_ColorUsesEscapes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, fixture(), TextOptions{}))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "Frame")
}

func TestText_TodayOutsideWindowHasNoMarker(t *testing.T) {
	in := fixture()
	in.Today = d("2025-01-01")
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, in, TextOptions{NoColor: true}))
	assert.NotContains(t, buf.String(), "^ today")
	assert.NotContains(t, buf.String(), "*")
}

func TestText_DefaultWidths(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, fixture(), TextOptions{NoColor: true}))
	lines := strings.Split(buf.String(), "\n")
	require.Greater(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[1], "Work center"+strings.Repeat(" ", defaultLabelWidth-len("Work center"))+"Mar 1"))
}

func weekFixture() Input {
	in := fixture()
	in.View = layout.ViewFor(layout.ZoomWeek, d("2024-02-28"), d("2024-03-13"), 100)
	in.Today = d("2024-03-06")
	return in
}

func TestText_WeekLabelsFitAndMarkCurrent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, weekFixture(), TextOptions{NoColor: true}))
	lines := strings.Split(buf.String(), "\n")
	require.Greater(t, len(lines), 3)
	assert.Equal(t,
		"Work center"+strings.Repeat(" ", 13)+"Feb 28 - Mar 5    Mar 6 - Mar 12*   Mar 13 - Mar 19",
		lines[1])
}

func TestText_CurrentMarkerSurvivesNarrowCells(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, weekFixture(), TextOptions{CellWidth: 8, NoColor: true}))
	lines := strings.Split(buf.String(), "\n")
	require.Greater(t, len(lines), 3)
	assert.Contains(t, lines[1], "Mar 6*")
	assert.Equal(t, 1, strings.Count(lines[1], "*"))
}

func TestDefaultCellWidth(t *testing.T) {
	assert.Equal(t, 12, DefaultCellWidth(layout.ZoomDay))
	assert.Equal(t, 18, DefaultCellWidth(layout.ZoomWeek))
	assert.Equal(t, 12, DefaultCellWidth(layout.ZoomMonth))
	assert.LessOrEqual(t, len("Dec 25 - Dec 31*"), DefaultCellWidth(layout.ZoomWeek)-1)
}

func TestBarText(t *testing.T) {
	o := model.WorkOrder{Name: "Assembly", Status: model.StatusOpen}
	assert.Equal(t, "=", string(barText(o, 1)))
	assert.Equal(t, "==", string(barText(o, 2)))
	assert.Equal(t, "=Ass=", string(barText(o, 5)))
	assert.Equal(t, "=Assembly==", string(barText(o, 11)))
	assert.Equal(t, "?x?", string(barText(model.WorkOrder{Name: "x", Status: "odd"}, 3)))
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument(fixture())

	assert.Equal(t, layout.ZoomDay, doc.Zoom)
	assert.Equal(t, 500.0, doc.TotalWidth)
	assert.Equal(t, 4, doc.TotalDays)
	require.NotNil(t, doc.TodayOffset)
	assert.Equal(t, 250.0, *doc.TodayOffset)

	require.Len(t, doc.Columns, 5)
	assert.Equal(t, Column{Start: d("2024-03-03"), Label: "Mar 3", Current: true}, doc.Columns[2])
	assert.False(t, doc.Columns[0].Current)

	require.Len(t, doc.Rows, 3)
	assert.Equal(t, "wc-1", doc.Rows[0].WorkCenterID)
	require.Len(t, doc.Rows[0].Bars, 2, "wo-5 is outside the window")
	assert.Equal(t, Bar{
		ID: "wo-2", Name: "Paint", Status: model.StatusBlocked, StatusLabel: "Blocked",
		Start: d("2024-03-03"), End: d("2024-03-04"), Left: 250, Width: 125,
	}, doc.Rows[0].Bars[1])

	for _, row := range doc.Rows {
		for _, bar := range row.Bars {
			assert.NotEqual(t, "wo-4", bar.ID, "orphans are not drawn")
		}
	}
}

func TestNewDocument_EmptyRowHasEmptyBars(t *testing.T) {
	in := fixture()
	in.Orders = nil
	doc := NewDocument(in)
	for _, row := range doc.Rows {
		assert.NotNil(t, row.Bars)
		assert.Empty(t, row.Bars)
	}
}

func TestWriteDocument(t *testing.T) {
	in := fixture()
	in.Today = d("2023-01-01")

	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, in))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "day", decoded["zoom"])
	assert.Equal(t, "2024-03-01", decoded["start"])
	assert.NotContains(t, decoded, "today_offset")
}
