// Package model defines the scheduling entities shared by every other
// package: work centers, work orders and their statuses.
//
// This package contains type definitions and pure helpers only; it imports
// nothing internal except calendar. All JSON tags use snake_case.
package model

import (
	"fmt"

	"github.com/roach88/gantry/internal/calendar"
)

// Status is the lifecycle state of a work order.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusComplete   Status = "complete"
	StatusBlocked    Status = "blocked"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusComplete, StatusBlocked}

var statusLabels = map[Status]string{
	StatusOpen:       "Open",
	StatusInProgress: "In progress",
	StatusComplete:   "Complete",
	StatusBlocked:    "Blocked",
}

// ParseStatus converts a wire name ("open", "in-progress", ...) to a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q: must be one of %v", s, Statuses)
	}
	return st, nil
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human-readable label, or the raw value if unknown.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// WorkCenter is a named resource that work orders are scheduled on.
// Work centers are seeded once and never mutated.
type WorkCenter struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WorkOrder is a scheduled job on exactly one work center.
// The interval it occupies is half-open: [StartDate, EndDate).
type WorkOrder struct {
	ID           string        `json:"id"`
	WorkCenterID string        `json:"work_center_id"`
	Name         string        `json:"name"`
	Status       Status        `json:"status"`
	StartDate    calendar.Date `json:"start_date"`
	EndDate      calendar.Date `json:"end_date"`
}

// Overlaps reports whether the order's interval intersects [start, end).
func (w WorkOrder) Overlaps(start, end calendar.Date) bool {
	return Overlaps(start, end, w.StartDate, w.EndDate)
}

// Draft is a work order that has not been assigned an id yet.
type Draft struct {
	WorkCenterID string        `json:"work_center_id"`
	Name         string        `json:"name"`
	Status       Status        `json:"status"`
	StartDate    calendar.Date `json:"start_date"`
	EndDate      calendar.Date `json:"end_date"`
}

// WithID materialises the draft as a WorkOrder.
func (d Draft) WithID(id string) WorkOrder {
	return WorkOrder{
		ID:           id,
		WorkCenterID: d.WorkCenterID,
		Name:         d.Name,
		Status:       d.Status,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
	}
}

// Patch holds a partial update. Nil fields are left unchanged.
type Patch struct {
	WorkCenterID *string        `json:"work_center_id,omitempty"`
	Name         *string        `json:"name,omitempty"`
	Status       *Status        `json:"status,omitempty"`
	StartDate    *calendar.Date `json:"start_date,omitempty"`
	EndDate      *calendar.Date `json:"end_date,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.WorkCenterID == nil && p.Name == nil && p.Status == nil &&
		p.StartDate == nil && p.EndDate == nil
}

// Apply returns w with the patch's fields merged in. The id never changes.
func (p Patch) Apply(w WorkOrder) WorkOrder {
	if p.WorkCenterID != nil {
		w.WorkCenterID = *p.WorkCenterID
	}
	if p.Name != nil {
		w.Name = *p.Name
	}
	if p.Status != nil {
		w.Status = *p.Status
	}
	if p.StartDate != nil {
		w.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		w.EndDate = *p.EndDate
	}
	return w
}

// Overlaps is the half-open interval test used for scheduling conflicts:
// [aStart, aEnd) and [bStart, bEnd) overlap iff aStart < bEnd and aEnd > bStart.
// Intervals that only touch (aEnd == bStart) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd calendar.Date) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
