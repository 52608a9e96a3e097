package store

import (
	"slices"

	"github.com/roach88/gantry/internal/model"
)

// EventType identifies what happened to the work order collection.
type EventType string

const (
	// EventSnapshot is delivered once to a new observer with the current state.
	EventSnapshot EventType = "snapshot"
	// EventCreated follows Create.
	EventCreated EventType = "created"
	// EventUpdated follows an Update of an existing order.
	EventUpdated EventType = "updated"
	// EventDeleted follows a Delete of an existing order.
	EventDeleted EventType = "deleted"
)

// Event is published to observers after each state change.
// WorkOrders is the observer's own copy of the full collection as it
// stands after the change.
type Event struct {
	Type        EventType
	WorkOrderID string // empty for EventSnapshot
	WorkOrders  []model.WorkOrder
}

// Observer receives events synchronously on the store's goroutine.
type Observer func(Event)

type subscription struct {
	id  uint64
	obs Observer
}

// Subscribe registers obs and immediately delivers an EventSnapshot with
// the current work orders. The returned function removes the observer; it
// is safe to call more than once, including from inside an observer.
func (s *Store) Subscribe(obs Observer) (unsubscribe func()) {
	s.nextObsID++
	id := s.nextObsID
	s.observers = append(s.observers, subscription{id: id, obs: obs})

	obs(Event{Type: EventSnapshot, WorkOrders: s.snapshot()})

	return func() {
		s.observers = slices.DeleteFunc(s.observers, func(sub subscription) bool {
			return sub.id == id
		})
	}
}

// publish delivers ev to the observers registered when publishing starts.
func (s *Store) publish(ev Event) {
	subs := slices.Clone(s.observers)
	for _, sub := range subs {
		ev.WorkOrders = s.snapshot()
		sub.obs(ev)
	}
}
