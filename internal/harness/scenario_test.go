package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario(t *testing.T) {
	s := loadTestScenario(t, "reschedule")

	assert.Equal(t, "reschedule", s.Name)
	assert.Equal(t, "2024-03-01", s.today().String())
	require.Len(t, s.WorkCenters, 2)
	require.Len(t, s.Steps, 6)
	assert.Equal(t, Step{
		Action: ActionCreate, WorkCenter: "wc-1", Name: "Paint", Status: "open",
		Start: "+3d", End: "+8d", Expect: Expect{Error: "OVERLAP"},
	}, s.Steps[0])
	require.NotNil(t, s.Assertions[0].Count)
	assert.Equal(t, 2, *s.Assertions[0].Count)
	assert.Equal(t, []string{"wo-1", "wo-3"}, s.Assertions[5].Conflicts)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadScenario_ResolvesSeedRelativeToFile(t *testing.T) {
	s := loadTestScenario(t, "seeded")
	ds, err := s.dataset()
	require.NoError(t, err)
	require.Len(t, ds.WorkOrders, 1)
	assert.Equal(t, "2024-01-24", ds.WorkOrders[0].StartDate.String())
}

func TestParseScenario_DefaultToday(t *testing.T) {
	s, err := ParseScenario([]byte("name: x\n"))
	require.NoError(t, err)
	assert.Equal(t, defaultToday, s.today().String())
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "name: x\nflow: []\n", "flow"},
		{"missing name", "description: y\n", "name is required"},
		{"bad today", "name: x\ntoday: 2024-13-01\n", "today"},
		{"seed and inline", "name: x\nseed: a.yaml\nwork_centers: [{id: wc-1, name: A}]\n", "mutually exclusive"},
		{"unknown action", "name: x\nsteps: [{action: move}]\n", `steps[0]: unknown action "move"`},
		{"edit without id", "name: x\nsteps: [{action: edit}]\n", "edit requires id"},
		{"create with id", "name: x\nsteps: [{action: create, id: wo-1}]\n", "create does not take an id"},
		{"delete with center", "name: x\nsteps: [{action: delete, id: wo-1, work_center: wc-1}]\n", "does not take a work_center"},
		{"unknown code", "name: x\nsteps: [{action: delete, id: wo-1, expect: {error: GONE}}]\n", `unknown expected error "GONE"`},
		{"expect id on edit", "name: x\nsteps: [{action: edit, id: wo-1, expect: {id: wo-2}}]\n", "expect.id only applies to create"},
		{"at_x on edit", "name: x\nsteps: [{action: edit, id: wo-1, at_x: 10}]\n", "at_x only applies to create"},
		{"negative at_x", "name: x\nsteps: [{action: create, at_x: -1}]\n", "at_x must not be negative"},
		{"zoom without at_x", "name: x\nsteps: [{action: create, zoom: day}]\n", "zoom requires at_x"},
		{"bad zoom", "name: x\nsteps: [{action: create, at_x: 1, zoom: year}]\n", `invalid zoom "year"`},
		{"unknown assertion", "name: x\nassertions: [{type: trace_contains}]\n", `assertions[0]: unknown assertion type "trace_contains"`},
		{"count missing", "name: x\nassertions: [{type: order_count}]\n", "order_count requires count"},
		{"exists without id", "name: x\nassertions: [{type: order_exists}]\n", "order_exists requires id"},
		{"overlap incomplete", "name: x\nassertions: [{type: overlap, work_center: wc-1}]\n", "overlap requires"},
		{"bad event", "name: x\nassertions: [{type: event_count, event: moved, count: 1}]\n", `unknown event type "moved"`},
		{"bad rejection code", "name: x\nassertions: [{type: rejected, code: NOPE, count: 1}]\n", `unknown rejection code "NOPE"`},
		{"rejected without count", "name: x\nassertions: [{type: rejected, code: OVERLAP}]\n", "rejected requires code and count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
