package store

import (
	"fmt"

	"github.com/roach88/gantry/internal/model"
)

// mutation is a queued state change. apply reports whether the state
// changed; unchanged state publishes nothing.
type mutation struct {
	kind  EventType
	id    string
	apply func() bool
}

// Create assigns a fresh id to draft, inserts it, notifies observers and
// returns the created order. It never fails and performs no validation.
//
// The id is chosen immediately, so it is valid even when Create is called
// from an observer and the insertion itself is deferred until the current
// delivery completes.
func (s *Store) Create(draft model.Draft) model.WorkOrder {
	wo := draft.WithID(s.newID())
	s.reserved[wo.ID] = struct{}{}

	s.dispatch(mutation{
		kind: EventCreated,
		id:   wo.ID,
		apply: func() bool {
			delete(s.reserved, wo.ID)
			s.orders[wo.ID] = wo
			s.orderOrder = append(s.orderOrder, wo.ID)
			s.logger.Debug("work order created", "id", wo.ID, "work_center", wo.WorkCenterID)
			return true
		},
	})
	return wo
}

// Update merges patch into the order with the given id. Unknown ids are a
// silent no-op and publish nothing.
func (s *Store) Update(id string, patch model.Patch) {
	s.dispatch(mutation{
		kind: EventUpdated,
		id:   id,
		apply: func() bool {
			cur, ok := s.orders[id]
			if !ok {
				s.logger.Debug("update ignored: unknown work order", "id", id)
				return false
			}
			s.orders[id] = patch.Apply(cur)
			s.logger.Debug("work order updated", "id", id)
			return true
		},
	})
}

// Delete removes the order with the given id. Unknown ids are a silent
// no-op and publish nothing.
func (s *Store) Delete(id string) {
	s.dispatch(mutation{
		kind: EventDeleted,
		id:   id,
		apply: func() bool {
			if _, ok := s.orders[id]; !ok {
				s.logger.Debug("delete ignored: unknown work order", "id", id)
				return false
			}
			delete(s.orders, id)
			s.removeFromOrder(id)
			s.logger.Debug("work order deleted", "id", id)
			return true
		},
	})
}

// dispatch runs m and every mutation queued while its notification is
// being delivered. Only the outermost call drains the queue; nested calls
// (from observers) enqueue and return.
func (s *Store) dispatch(m mutation) {
	s.pending = append(s.pending, m)
	if s.dispatching {
		return
	}

	s.dispatching = true
	defer func() {
		s.dispatching = false
		s.pending = nil
	}()

	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending[0] = mutation{}
		s.pending = s.pending[1:]

		if next.apply() {
			s.publish(Event{Type: next.kind, WorkOrderID: next.id})
		}
	}
}

func (s *Store) newID() string {
	for range maxIDAttempts {
		if id := s.ids.Generate(); id != "" && !s.has(id) {
			return id
		}
	}
	panic(fmt.Sprintf("store: id generator produced %d taken ids in a row", maxIDAttempts))
}
