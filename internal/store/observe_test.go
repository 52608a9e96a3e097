package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gantry/internal/model"
)

func draft(center, name, start, end string) model.Draft {
	return model.Draft{WorkCenterID: center, Name: name, Status: model.StatusOpen, StartDate: d(start), EndDate: d(end)}
}

func TestSubscribe_DeliversSnapshot(t *testing.T) {
	s := newTestStore(t)
	var got []Event
	s.Subscribe(func(ev Event) { got = append(got, ev) })

	require.Len(t, got, 1)
	assert.Equal(t, EventSnapshot, got[0].Type)
	assert.Empty(t, got[0].WorkOrderID)
	assert.Equal(t, []string{"wo-1", "wo-2", "wo-3"}, ids(got[0].WorkOrders))
}

func TestNotify_BeforeReturn(t *testing.T) {
	s := newTestStore(t)
	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })

	wo := s.Create(draft("wc-2", "Harness", "2024-02-01", "2024-02-08"))
	require.Len(t, events, 2)
	assert.Equal(t, EventCreated, events[1].Type)
	assert.Equal(t, wo.ID, events[1].WorkOrderID)
	assert.Contains(t, ids(events[1].WorkOrders), wo.ID)

	name := "Harness v2"
	s.Update(wo.ID, model.Patch{Name: &name})
	require.Len(t, events, 3)
	assert.Equal(t, EventUpdated, events[2].Type)

	s.Delete(wo.ID)
	require.Len(t, events, 4)
	assert.Equal(t, EventDeleted, events[3].Type)
	assert.NotContains(t, ids(events[3].WorkOrders), wo.ID)
}

func TestNotify_ObserversGetIndependentCopies(t *testing.T) {
	s := newTestStore(t)
	var second []model.WorkOrder
	s.Subscribe(func(ev Event) {
		if len(ev.WorkOrders) > 0 {
			ev.WorkOrders[0].Name = "scribbled"
		}
	})
	s.Subscribe(func(ev Event) { second = ev.WorkOrders })

	s.Delete("wo-3")
	require.NotEmpty(t, second)
	assert.Equal(t, "Frame", second[0].Name)
	got, _ := s.WorkOrder("wo-1")
	assert.Equal(t, "Frame", got.Name)
}

func TestNotify_ReentrantMutationIsDeferred(t *testing.T) {
	s := newTestStore(t)

	var order []string
	reacted := false
	s.Subscribe(func(ev Event) {
		order = append(order, "a:"+string(ev.Type)+":"+ev.WorkOrderID)
		if ev.Type == EventCreated && !reacted {
			reacted = true
			// Issued mid-delivery: must not be visible to observer b for this event.
			s.Delete("wo-1")
		}
	})
	s.Subscribe(func(ev Event) {
		order = append(order, "b:"+string(ev.Type)+":"+ev.WorkOrderID)
		if ev.Type == EventCreated {
			assert.Contains(t, ids(ev.WorkOrders), "wo-1")
		}
	})

	wo := s.Create(draft("wc-2", "Harness", "2024-02-01", "2024-02-08"))

	assert.Equal(t, []string{
		"a:snapshot:",
		"b:snapshot:",
		"a:created:" + wo.ID,
		"b:created:" + wo.ID,
		"a:deleted:wo-1",
		"b:deleted:wo-1",
	}, order)

	_, ok := s.WorkOrder("wo-1")
	assert.False(t, ok, "deferred delete applied before Create returned")
}

func TestNotify_ReentrantCreateReturnsUsableID(t *testing.T) {
	s := newTestStore(t)
	var nested model.WorkOrder
	s.Subscribe(func(ev Event) {
		if ev.Type == EventDeleted {
			nested = s.Create(draft("wc-1", "Rework", "2024-03-01", "2024-03-05"))
			_, ok := s.WorkOrder(nested.ID)
			assert.False(t, ok, "insertion is deferred until delivery completes")
		}
	})

	s.Delete("wo-2")
	require.NotEmpty(t, nested.ID)
	got, ok := s.WorkOrder(nested.ID)
	require.True(t, ok)
	assert.Equal(t, "Rework", got.Name)
}

func TestUnsubscribe(t *testing.T) {
	s := newTestStore(t)
	count := 0
	unsub := s.Subscribe(func(Event) { count++ })
	s.Delete("wo-1")
	assert.Equal(t, 2, count)

	unsub()
	unsub()
	s.Delete("wo-2")
	assert.Equal(t, 2, count)
}

func TestUnsubscribe_FromInsideObserver(t *testing.T) {
	s := newTestStore(t)
	count := 0
	var unsub func()
	unsub = s.Subscribe(func(ev Event) {
		count++
		if ev.Type == EventDeleted {
			unsub()
		}
	})
	s.Delete("wo-1")
	s.Delete("wo-2")
	assert.Equal(t, 2, count)
}

func TestDispatch_RecoversAfterObserverPanic(t *testing.T) {
	s := newTestStore(t)
	boom := true
	s.Subscribe(func(ev Event) {
		if ev.Type == EventDeleted && boom {
			boom = false
			panic("observer failure")
		}
	})

	assert.Panics(t, func() { s.Delete("wo-1") })

	// The store must accept new mutations after a failed delivery.
	s.Delete("wo-2")
	assert.Equal(t, []string{"wo-3"}, ids(s.ListWorkOrders()))
}
