package editor

import (
	"strings"

	"github.com/roach88/gantry/internal/calendar"
	"github.com/roach88/gantry/internal/model"
)

// DefaultDuration is the length in days of a newly created order.
const DefaultDuration = 7

// Form holds the raw values of the create/edit panel. Dates are ISO
// strings so that unparseable input can be reported instead of lost.
type Form struct {
	Name      string `json:"name" yaml:"name"`
	Status    string `json:"status" yaml:"status"`
	StartDate string `json:"start_date" yaml:"start_date"`
	EndDate   string `json:"end_date" yaml:"end_date"`
}

// NewCreateForm returns the defaults for a click on an empty cell at
// initial: status open, a one-week span starting that day.
func NewCreateForm(initial calendar.Date) Form {
	return Form{
		Status:    string(model.StatusOpen),
		StartDate: initial.String(),
		EndDate:   initial.AddDays(DefaultDuration).String(),
	}
}

// NewEditForm prefills the form from an existing order.
func NewEditForm(o model.WorkOrder) Form {
	return Form{
		Name:      o.Name,
		Status:    string(o.Status),
		StartDate: o.StartDate.String(),
		EndDate:   o.EndDate.String(),
	}
}

// parsed is a form that passed the field-level rules.
type parsed struct {
	name   string
	status model.Status
	start  calendar.Date
	end    calendar.Date
}

// parse applies the field rules in order: required fields, status, date
// syntax, end after start. The first failure wins.
func (f Form) parse() (parsed, *ValidationError) {
	name := strings.TrimSpace(f.Name)
	fields := []struct{ name, value string }{
		{"name", name},
		{"status", strings.TrimSpace(f.Status)},
		{"start_date", strings.TrimSpace(f.StartDate)},
		{"end_date", strings.TrimSpace(f.EndDate)},
	}
	for _, fld := range fields {
		if fld.value == "" {
			return parsed{}, requiredError(fld.name)
		}
	}

	status, err := model.ParseStatus(strings.TrimSpace(f.Status))
	if err != nil {
		return parsed{}, statusError(f.Status)
	}
	start, err := calendar.Parse(strings.TrimSpace(f.StartDate))
	if err != nil {
		return parsed{}, dateError("start_date", f.StartDate)
	}
	end, err := calendar.Parse(strings.TrimSpace(f.EndDate))
	if err != nil {
		return parsed{}, dateError("end_date", f.EndDate)
	}
	if !end.After(start) {
		return parsed{}, endBeforeStartError()
	}
	return parsed{name: name, status: status, start: start, end: end}, nil
}
