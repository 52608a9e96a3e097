// Package editor is the submission path for work orders: it validates
// create and edit forms against the field rules and the store's overlap
// check, and only then writes to the store.
//
// Validation runs in a fixed order and stops at the first failure:
//
//  1. required fields (name, status, start, end)
//  2. status is a known value
//  3. dates are YYYY-MM-DD
//  4. end strictly after start
//  5. no overlap with another order on the same work center
//     (an edit excludes the order being edited)
//
// A rejected submission leaves the store untouched and produces no store
// notification.
package editor

import (
	"io"
	"log/slog"

	"github.com/roach88/gantry/internal/calendar"
	"github.com/roach88/gantry/internal/model"
	"github.com/roach88/gantry/internal/store"
)

// RejectionObserver is told about every rejected submission.
type RejectionObserver interface {
	ObserveRejection(code string)
}

// Editor validates and applies submissions against a store.
type Editor struct {
	store    *store.Store
	rejected []RejectionObserver
	logger   *slog.Logger
}

// Option configures an Editor.
type Option func(*Editor)

// WithRejectionObserver registers an observer for rejected submissions.
func WithRejectionObserver(o RejectionObserver) Option {
	return func(e *Editor) {
		e.rejected = append(e.rejected, o)
	}
}

// WithLogger sets the logger. Defaults to a logger that discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = l
	}
}

// New creates an Editor over s.
func New(s *store.Store, opts ...Option) *Editor {
	e := &Editor{
		store:  s,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Create validates f as a new order on workCenterID and, if it passes,
// adds it to the store.
func (e *Editor) Create(workCenterID string, f Form) (model.WorkOrder, error) {
	if workCenterID == "" {
		return model.WorkOrder{}, e.reject(requiredError("work_center"))
	}
	if _, ok := e.store.WorkCenter(workCenterID); !ok {
		return model.WorkOrder{}, e.reject(workCenterNotFoundError(workCenterID))
	}

	p, verr := e.validate(workCenterID, "", f)
	if verr != nil {
		return model.WorkOrder{}, e.reject(verr)
	}

	wo := e.store.Create(model.Draft{
		WorkCenterID: workCenterID,
		Name:         p.name,
		Status:       p.status,
		StartDate:    p.start,
		EndDate:      p.end,
	})
	e.logger.Debug("work order created", "id", wo.ID, "work_center", workCenterID)
	return wo, nil
}

// Edit validates f as the new state of order id and, if it passes,
// updates the store. The order stays on its work center.
func (e *Editor) Edit(id string, f Form) (model.WorkOrder, error) {
	existing, ok := e.store.WorkOrder(id)
	if !ok {
		return model.WorkOrder{}, e.reject(notFoundError(id))
	}

	p, verr := e.validate(existing.WorkCenterID, id, f)
	if verr != nil {
		return model.WorkOrder{}, e.reject(verr)
	}

	e.store.Update(id, model.Patch{
		Name:      &p.name,
		Status:    &p.status,
		StartDate: &p.start,
		EndDate:   &p.end,
	})
	updated, _ := e.store.WorkOrder(id)
	e.logger.Debug("work order updated", "id", id)
	return updated, nil
}

// Delete removes order id. It reports whether the order existed; deleting
// an unknown id is not an error.
func (e *Editor) Delete(id string) bool {
	_, ok := e.store.WorkOrder(id)
	e.store.Delete(id)
	return ok
}

// Check runs the overlap rule alone for [start, end) on workCenterID,
// returning the conflicting orders.
func (e *Editor) Check(workCenterID string, start, end calendar.Date, excludeID string) []model.WorkOrder {
	return e.store.Conflicts(workCenterID, start, end, excludeID)
}

func (e *Editor) validate(workCenterID, excludeID string, f Form) (parsed, *ValidationError) {
	p, verr := f.parse()
	if verr != nil {
		return parsed{}, verr
	}
	if e.store.HasOverlap(workCenterID, p.start, p.end, excludeID) {
		return parsed{}, overlapError(e.store.Conflicts(workCenterID, p.start, p.end, excludeID))
	}
	return p, nil
}

func (e *Editor) reject(verr *ValidationError) error {
	e.logger.Debug("submission rejected", "code", string(verr.Code), "field", verr.Field)
	for _, o := range e.rejected {
		o.ObserveRejection(string(verr.Code))
	}
	return verr
}
