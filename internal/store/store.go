package store

import (
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/gantry/internal/calendar"
	"github.com/roach88/gantry/internal/model"
)

// maxIDAttempts bounds how many taken ids Create will skip before giving up
// on a generator that keeps returning collisions.
const maxIDAttempts = 1 << 16

// Store is the in-memory scheduling state. See the package documentation
// for the notification and thread-safety contract.
type Store struct {
	centers     map[string]model.WorkCenter
	centerOrder []string

	orders     map[string]model.WorkOrder
	orderOrder []string

	ids    IDGenerator
	logger *slog.Logger

	observers   []subscription
	nextObsID   uint64
	pending     []mutation
	reserved    map[string]struct{}
	dispatching bool
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the id generator (default UUIDv7Generator).
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) {
		s.ids = g
	}
}

// WithLogger sets the logger used for mutation diagnostics.
// Defaults to a logger that discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// New creates a store seeded with the given work centers and work orders.
// Seed slices are copied; insertion order is preserved for listing. A
// repeated id keeps its first position and its last value.
func New(centers []model.WorkCenter, orders []model.WorkOrder, opts ...Option) *Store {
	s := &Store{
		centers:  make(map[string]model.WorkCenter, len(centers)),
		orders:   make(map[string]model.WorkOrder, len(orders)),
		reserved: make(map[string]struct{}),
		ids:      UUIDv7Generator{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, c := range centers {
		if _, ok := s.centers[c.ID]; !ok {
			s.centerOrder = append(s.centerOrder, c.ID)
		}
		s.centers[c.ID] = c
	}
	for _, o := range orders {
		if _, ok := s.orders[o.ID]; !ok {
			s.orderOrder = append(s.orderOrder, o.ID)
		}
		s.orders[o.ID] = o
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListWorkCenters returns a copy of all work centers in seed order.
func (s *Store) ListWorkCenters() []model.WorkCenter {
	out := make([]model.WorkCenter, 0, len(s.centerOrder))
	for _, id := range s.centerOrder {
		out = append(out, s.centers[id])
	}
	return out
}

// WorkCenter looks up a work center by id.
func (s *Store) WorkCenter(id string) (model.WorkCenter, bool) {
	c, ok := s.centers[id]
	return c, ok
}

// ListWorkOrders returns a copy of all work orders in insertion order.
func (s *Store) ListWorkOrders() []model.WorkOrder {
	out := make([]model.WorkOrder, 0, len(s.orderOrder))
	for _, id := range s.orderOrder {
		out = append(out, s.orders[id])
	}
	return out
}

// WorkOrder looks up a work order by id.
func (s *Store) WorkOrder(id string) (model.WorkOrder, bool) {
	o, ok := s.orders[id]
	return o, ok
}

// WorkOrdersFor returns the orders assigned to workCenterID, in insertion
// order. Unknown work centers yield an empty slice.
func (s *Store) WorkOrdersFor(workCenterID string) []model.WorkOrder {
	out := []model.WorkOrder{}
	for _, id := range s.orderOrder {
		if o := s.orders[id]; o.WorkCenterID == workCenterID {
			out = append(out, o)
		}
	}
	return out
}

// HasOverlap reports whether [start, end) intersects any order on
// workCenterID other than excludeID. Pass an empty excludeID to check
// against every order; pass the order's own id when validating an edit so
// its previous interval is ignored.
func (s *Store) HasOverlap(workCenterID string, start, end calendar.Date, excludeID string) bool {
	for _, id := range s.orderOrder {
		if s.conflicts(s.orders[id], workCenterID, start, end, excludeID) {
			return true
		}
	}
	return false
}

// Conflicts is HasOverlap without short-circuiting: it returns every
// conflicting order, in insertion order.
func (s *Store) Conflicts(workCenterID string, start, end calendar.Date, excludeID string) []model.WorkOrder {
	var out []model.WorkOrder
	for _, id := range s.orderOrder {
		if o := s.orders[id]; s.conflicts(o, workCenterID, start, end, excludeID) {
			out = append(out, o)
		}
	}
	return out
}

func (s *Store) conflicts(o model.WorkOrder, workCenterID string, start, end calendar.Date, excludeID string) bool {
	if o.WorkCenterID != workCenterID {
		return false
	}
	if excludeID != "" && o.ID == excludeID {
		return false
	}
	return o.Overlaps(start, end)
}

func (s *Store) snapshot() []model.WorkOrder {
	return s.ListWorkOrders()
}

func (s *Store) has(id string) bool {
	if _, ok := s.orders[id]; ok {
		return true
	}
	_, ok := s.reserved[id]
	return ok
}

func (s *Store) removeFromOrder(id string) {
	if i := slices.Index(s.orderOrder, id); i >= 0 {
		s.orderOrder = slices.Delete(s.orderOrder, i, i+1)
	}
}
