package journal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gantry/internal/model"
)

func wo(id, center, start, end string) model.WorkOrder {
	return model.WorkOrder{ID: id, WorkCenterID: center, Name: id, Status: model.StatusOpen, StartDate: d(start), EndDate: d(end)}
}

func loadAuditFixture(t *testing.T) *Journal {
	t.Helper()
	j := openTestJournal(t)
	err := j.LoadSnapshot(context.Background(),
		[]model.WorkCenter{{ID: "wc-2", Name: "Assembly"}, {ID: "wc-1", Name: "Extrusion"}, {ID: "wc-3", Name: "Idle"}},
		[]model.WorkOrder{
			wo("wo-1", "wc-1", "2024-01-01", "2024-01-10"),
			wo("wo-2", "wc-1", "2024-01-10", "2024-01-20"), // abuts wo-1
			wo("wo-3", "wc-1", "2024-01-15", "2024-01-25"), // overlaps wo-2
			wo("wo-4", "wc-2", "2024-01-05", "2024-02-05"),
			wo("wo-5", "wc-2", "2024-01-01", "2024-03-01"), // contains wo-4
			wo("wo-6", "wc-9", "2024-01-01", "2024-01-02"), // orphan
		},
	)
	require.NoError(t, err)
	return j
}

func TestOverlaps(t *testing.T) {
	got, err := loadAuditFixture(t).Overlaps(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Conflict{
		{WorkCenterID: "wc-1", A: "wo-2", B: "wo-3", From: d("2024-01-15"), To: d("2024-01-20")},
		{WorkCenterID: "wc-2", A: "wo-4", B: "wo-5", From: d("2024-01-05"), To: d("2024-02-05")},
	}, got)
}

func TestOverlaps_AgreesWithModelPredicate(t *testing.T) {
	orders := []model.WorkOrder{
		wo("a", "wc", "2024-01-01", "2024-01-05"),
		wo("b", "wc", "2024-01-05", "2024-01-09"),
		wo("c", "wc", "2024-01-04", "2024-01-06"),
		wo("d", "wc", "2024-01-09", "2024-01-10"),
		wo("e", "wc", "2023-12-01", "2024-02-01"),
	}
	j := openTestJournal(t)
	require.NoError(t, j.LoadSnapshot(context.Background(), nil, orders))
	got, err := j.Overlaps(context.Background())
	require.NoError(t, err)

	var want int
	for i := range orders {
		for k := i + 1; k < len(orders); k++ {
			if orders[i].Overlaps(orders[k].StartDate, orders[k].EndDate) {
				want++
			}
		}
	}
	assert.Len(t, got, want)
}

func TestLoad(t *testing.T) {
	got, err := loadAuditFixture(t).Load(context.Background(), d("2024-01-08"), d("2024-02-01"))
	require.NoError(t, err)
	assert.Equal(t, []CenterLoad{
		{WorkCenterID: "wc-2", Name: "Assembly", Orders: 2, Days: 48},
		{WorkCenterID: "wc-1", Name: "Extrusion", Orders: 3, Days: 2 + 10 + 10},
		{WorkCenterID: "wc-3", Name: "Idle", Orders: 0, Days: 0},
	}, got)
}

func TestLoadSnapshot_Replaces(t *testing.T) {
	ctx := context.Background()
	j := loadAuditFixture(t)
	require.NoError(t, j.LoadSnapshot(ctx, []model.WorkCenter{{ID: "wc-1", Name: "Extrusion"}}, nil))

	conflicts, err := j.Overlaps(ctx)
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	loads, err := j.Load(ctx, d("2024-01-01"), d("2024-12-31"))
	require.NoError(t, err)
	assert.Equal(t, []CenterLoad{{WorkCenterID: "wc-1", Name: "Extrusion"}}, loads)
}

func TestLoadSnapshot_DuplicateOrderRollsBack(t *testing.T) {
	ctx := context.Background()
	j := loadAuditFixture(t)
	err := j.LoadSnapshot(ctx, nil, []model.WorkOrder{
		wo("x", "wc-1", "2024-01-01", "2024-01-02"),
		wo("x", "wc-1", "2024-01-03", "2024-01-04"),
	})
	require.Error(t, err)

	conflicts, err := j.Overlaps(ctx)
	require.NoError(t, err)
	assert.Len(t, conflicts, 2, "previous snapshot kept")
}
