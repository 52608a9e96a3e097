package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/gantry/internal/calendar"
	"github.com/roach88/gantry/internal/editor"
	"github.com/roach88/gantry/internal/journal"
	"github.com/roach88/gantry/internal/layout"
	"github.com/roach88/gantry/internal/metrics"
	"github.com/roach88/gantry/internal/model"
	"github.com/roach88/gantry/internal/seed"
	"github.com/roach88/gantry/internal/store"
)

// Outcome of a step that was accepted.
const OutcomeOK = "ok"

// StepOutcome records what one step did.
type StepOutcome struct {
	Step    int    `json:"step"`
	Action  string `json:"action"`
	ID      string `json:"id,omitempty"`
	Outcome string `json:"outcome"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every step met its expectation and every
	// assertion held.
	Pass bool `json:"pass"`

	// Steps has one outcome per step, in order.
	Steps []StepOutcome `json:"steps"`

	// Events is the journal of store notifications, snapshot first.
	Events []journal.Record `json:"events"`

	// Errors describes each failed expectation or assertion.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepOutcome{},
		Events: []journal.Record{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// Option configures Run.
type Option func(*runner)

// WithLogger sets the logger passed to the store, editor and journal.
func WithLogger(l *slog.Logger) Option {
	return func(r *runner) {
		r.logger = l
	}
}

type runner struct {
	scenario  *Scenario
	today     calendar.Date
	store     *store.Store
	editor    *editor.Editor
	journal   *journal.Journal
	collector *metrics.Collector
	logger    *slog.Logger
}

// Run executes a scenario and returns its result.
//
// Each run gets a fresh store with sequential ids ("wo-1", "wo-2", ...
// skipping ids the seed already uses), an in-memory journal recording
// every notification, and its own metrics registry. An error is returned
// only when the scenario cannot be executed at all; failed expectations
// are reported in the Result.
func Run(s *Scenario, opts ...Option) (*Result, error) {
	r := &runner{
		scenario: s,
		today:    s.today(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}

	ds, err := s.dataset()
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	j, err := journal.Open(journal.MemoryPath, journal.WithLogger(r.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer j.Close()
	r.journal = j

	r.store = store.New(ds.WorkCenters, ds.WorkOrders,
		store.WithIDGenerator(store.NewSequenceGenerator("wo-", 0)),
		store.WithLogger(r.logger),
	)

	ctx := context.Background()
	rec := j.Record(ctx, r.store)
	defer rec.Stop()

	_, r.collector = metrics.NewRegistry()
	detach := r.collector.Attach(r.store)
	defer detach()

	r.editor = editor.New(r.store,
		editor.WithRejectionObserver(r.collector),
		editor.WithLogger(r.logger),
	)

	result := NewResult()
	for i, step := range s.Steps {
		out := r.execute(i, step)
		result.Steps = append(result.Steps, out)
		if msg := checkExpect(i, step, out); msg != "" {
			result.AddError(msg)
		}
	}

	if err := rec.Err(); err != nil {
		return nil, fmt.Errorf("failed to journal events: %w", err)
	}

	for i, a := range s.Assertions {
		if err := r.evaluate(ctx, a); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d] %s: %v", i, a.Type, err))
		}
	}

	events, err := j.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	result.Events = events

	r.logger.Debug("scenario finished", "name", s.Name, "pass", result.Pass, "events", len(events))
	return result, nil
}

func (r *runner) execute(i int, step Step) StepOutcome {
	out := StepOutcome{Step: i + 1, Action: step.Action, Outcome: OutcomeOK}

	switch step.Action {
	case ActionCreate:
		var form editor.Form
		if step.AtX != nil {
			form = editor.NewCreateForm(r.clicked(step))
		}
		wo, err := r.editor.Create(step.WorkCenter, r.override(form, step))
		if err != nil {
			out.Outcome = outcomeOf(err)
			return out
		}
		out.ID = wo.ID

	case ActionEdit:
		out.ID = step.ID
		var form editor.Form
		if existing, ok := r.store.WorkOrder(step.ID); ok {
			form = editor.NewEditForm(existing)
		}
		if _, err := r.editor.Edit(step.ID, r.override(form, step)); err != nil {
			out.Outcome = outcomeOf(err)
		}

	case ActionDelete:
		out.ID = step.ID
		if !r.editor.Delete(step.ID) {
			out.Outcome = string(editor.CodeNotFound)
		}
	}
	return out
}

// clicked maps the step's grid x offset to the day under it.
func (r *runner) clicked(step Step) calendar.Date {
	zoom := layout.DefaultZoom
	if step.Zoom != "" {
		zoom = layout.Zoom(step.Zoom)
	}
	return layout.NewView(zoom, r.today, 0).DateAt(*step.AtX)
}

// override replaces the form fields the step sets.
func (r *runner) override(form editor.Form, step Step) editor.Form {
	if step.Name != "" {
		form.Name = step.Name
	}
	if step.Status != "" {
		form.Status = step.Status
	}
	if step.Start != "" {
		form.StartDate = r.date(step.Start)
	}
	if step.End != "" {
		form.EndDate = r.date(step.End)
	}
	return form
}

// date resolves a date expression against the scenario's today. Input
// that is not an expression is returned as is for the editor to reject.
func (r *runner) date(expr string) string {
	d, err := seed.ResolveDate(expr, r.today)
	if err != nil {
		return expr
	}
	return d.String()
}

func outcomeOf(err error) string {
	if code := editor.CodeOf(err); code != "" {
		return string(code)
	}
	return err.Error()
}

func checkExpect(i int, step Step, out StepOutcome) string {
	want := OutcomeOK
	if step.Expect.Error != "" {
		want = step.Expect.Error
	}
	if out.Outcome != want {
		return fmt.Sprintf("steps[%d] %s: expected %s, got %s", i, step.Action, want, out.Outcome)
	}
	if step.Expect.ID != "" && out.ID != step.Expect.ID {
		return fmt.Sprintf("steps[%d] %s: expected id %s, got %s", i, step.Action, step.Expect.ID, out.ID)
	}
	return ""
}

func (r *runner) evaluate(ctx context.Context, a Assertion) error {
	switch a.Type {
	case AssertOrderCount:
		orders := r.store.ListWorkOrders()
		if a.WorkCenter != "" {
			orders = r.store.WorkOrdersFor(a.WorkCenter)
		}
		if len(orders) != *a.Count {
			return fmt.Errorf("expected %d orders, got %d", *a.Count, len(orders))
		}

	case AssertOrderExists:
		o, ok := r.store.WorkOrder(a.ID)
		if !ok {
			return fmt.Errorf("order %s does not exist", a.ID)
		}
		return r.matchOrder(o, a)

	case AssertOrderAbsent:
		if _, ok := r.store.WorkOrder(a.ID); ok {
			return fmt.Errorf("order %s exists", a.ID)
		}

	case AssertOverlap:
		start, err := seed.ResolveDate(a.Start, r.today)
		if err != nil {
			return err
		}
		end, err := seed.ResolveDate(a.End, r.today)
		if err != nil {
			return err
		}
		var got []string
		for _, o := range r.editor.Check(a.WorkCenter, start, end, a.Exclude) {
			got = append(got, o.ID)
		}
		want := slices.Clone(a.Conflicts)
		slices.Sort(got)
		slices.Sort(want)
		if !slices.Equal(got, want) {
			return fmt.Errorf("expected conflicts %v, got %v", want, got)
		}

	case AssertEventCount:
		n, err := r.journal.CountEvents(ctx, store.EventType(a.Event))
		if err != nil {
			return err
		}
		if n != *a.Count {
			return fmt.Errorf("expected %d events, got %d", *a.Count, n)
		}

	case AssertRejected:
		if n := r.collector.Rejections(a.Code); n != *a.Count {
			return fmt.Errorf("expected %d %s rejections, got %d", *a.Count, a.Code, n)
		}

	default:
		return errors.New("unknown assertion type")
	}
	return nil
}

func (r *runner) matchOrder(o model.WorkOrder, a Assertion) error {
	if a.WorkCenter != "" && o.WorkCenterID != a.WorkCenter {
		return fmt.Errorf("work_center: expected %s, got %s", a.WorkCenter, o.WorkCenterID)
	}
	if a.Name != "" && o.Name != a.Name {
		return fmt.Errorf("name: expected %q, got %q", a.Name, o.Name)
	}
	if a.Status != "" && string(o.Status) != a.Status {
		return fmt.Errorf("status: expected %s, got %s", a.Status, o.Status)
	}
	if a.Start != "" {
		if want := r.date(a.Start); o.StartDate.String() != want {
			return fmt.Errorf("start: expected %s, got %s", want, o.StartDate)
		}
	}
	if a.End != "" {
		if want := r.date(a.End); o.EndDate.String() != want {
			return fmt.Errorf("end: expected %s, got %s", want, o.EndDate)
		}
	}
	return nil
}
