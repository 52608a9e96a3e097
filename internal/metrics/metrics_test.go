package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gantry/internal/calendar"
	"github.com/roach88/gantry/internal/editor"
	"github.com/roach88/gantry/internal/model"
	"github.com/roach88/gantry/internal/store"
)

func d(s string) calendar.Date { return calendar.MustParse(s) }

func newStore() *store.Store {
	return store.New(
		[]model.WorkCenter{{ID: "wc-1", Name: "Extrusion"}},
		[]model.WorkOrder{
			{ID: "wo-1", WorkCenterID: "wc-1", Name: "Frame", Status: model.StatusOpen, StartDate: d("2024-01-01"), EndDate: d("2024-01-10")},
			{ID: "wo-2", WorkCenterID: "wc-1", Name: "Paint", Status: model.StatusBlocked, StartDate: d("2024-01-10"), EndDate: d("2024-01-20")},
		},
		store.WithIDGenerator(store.NewSequenceGenerator("wo-new-", 0)),
	)
}

func TestCollector_StoreEvents(t *testing.T) {
	_, c := NewRegistry()
	s := newStore()
	detach := c.Attach(s)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.events.WithLabelValues("snapshot")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.orders.WithLabelValues("open")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.orders.WithLabelValues("blocked")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.orders.WithLabelValues("complete")))

	s.Create(model.Draft{WorkCenterID: "wc-1", Name: "Weld", Status: model.StatusOpen, StartDate: d("2024-02-01"), EndDate: d("2024-02-02")})
	done := model.StatusComplete
	s.Update("wo-2", model.Patch{Status: &done})
	s.Delete("wo-1")

	assert.Equal(t, 1.0, testutil.ToFloat64(c.events.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.events.WithLabelValues("updated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.events.WithLabelValues("deleted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.orders.WithLabelValues("open")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.orders.WithLabelValues("blocked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.orders.WithLabelValues("complete")))

	detach()
	s.Delete("wo-2")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.events.WithLabelValues("deleted")), "detached")
}

func TestCollector_Rejections(t *testing.T) {
	_, c := NewRegistry()
	e := editor.New(newStore(), editor.WithRejectionObserver(c))

	_, err := e.Create("wc-1", editor.Form{Name: "x", Status: "open", StartDate: "2024-01-05", EndDate: "2024-01-06"})
	require.Error(t, err)
	_, err = e.Create("wc-1", editor.Form{Name: "", Status: "open", StartDate: "2024-03-01", EndDate: "2024-03-02"})
	require.Error(t, err)
	_, err = e.Edit("wo-1", editor.Form{Name: "x", Status: "open", StartDate: "2024-01-01", EndDate: "2024-01-15"})
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.rejected.WithLabelValues(string(editor.CodeOverlap))))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rejected.WithLabelValues(string(editor.CodeRequiredFields))))
	assert.Equal(t, 2, c.Rejections(string(editor.CodeOverlap)))
	assert.Equal(t, 0, c.Rejections(string(editor.CodeNotFound)))
}

func TestNewCollector_RejectionCodesStartAtZero(t *testing.T) {
	reg, _ := NewRegistry()

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, reg))
	for _, code := range editor.Codes {
		assert.Contains(t, buf.String(), `gantry_submissions_rejected_total{code="`+string(code)+`"} 0`)
	}
	n, err := testutil.GatherAndCount(reg, "gantry_submissions_rejected_total")
	require.NoError(t, err)
	assert.Equal(t, len(editor.Codes), n)
}

func TestNewCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)
	assert.Panics(t, func() { NewCollector(reg) })
}

func TestWriteText(t *testing.T) {
	reg, c := NewRegistry()
	c.Attach(newStore())
	c.ObserveRejection("OVERLAP")

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, reg))
	out := buf.String()
	assert.Contains(t, out, "# TYPE gantry_store_events_total counter")
	assert.Contains(t, out, `gantry_store_events_total{type="snapshot"} 1`)
	assert.Contains(t, out, `gantry_work_orders{status="in-progress"} 0`)
	assert.Contains(t, out, `gantry_submissions_rejected_total{code="OVERLAP"} 1`)
}
