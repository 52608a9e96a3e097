package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/gantry/internal/calendar"
	"github.com/roach88/gantry/internal/editor"
	"github.com/roach88/gantry/internal/layout"
	"github.com/roach88/gantry/internal/seed"
	"github.com/roach88/gantry/internal/store"
)

// Scenario is a scheduling session defined in YAML: a starting dataset,
// a list of edits with their expected outcomes, and assertions on the
// final state.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// Today anchors relative dates (ISO, default 2024-01-01).
	Today string `yaml:"today,omitempty"`

	// Seed is a seed file path, resolved relative to the scenario file.
	// Mutually exclusive with inline WorkCenters/WorkOrders.
	Seed string `yaml:"seed,omitempty"`

	WorkCenters []seed.CenterEntry `yaml:"work_centers,omitempty"`
	WorkOrders  []seed.OrderEntry  `yaml:"work_orders,omitempty"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// dir is the directory of the scenario file, for Seed resolution.
	dir string
}

// Step actions.
const (
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// Step is one submission to the editor.
//
// Start and End accept the same expressions as seed files (ISO, today,
// +Nd, -Nw, +Nm). Anything else is passed through verbatim so that date
// validation itself can be exercised.
type Step struct {
	Action     string `yaml:"action"`
	ID         string `yaml:"id,omitempty"`
	WorkCenter string `yaml:"work_center,omitempty"`
	Name       string `yaml:"name,omitempty"`
	Status     string `yaml:"status,omitempty"`
	Start      string `yaml:"start,omitempty"`
	End        string `yaml:"end,omitempty"`

	// AtX makes a create a click on the grid at this x offset (pixels) of
	// the initial view for Zoom (default month). The form starts from the
	// click defaults; fields set on the step override them.
	AtX  *float64 `yaml:"at_x,omitempty"`
	Zoom string   `yaml:"zoom,omitempty"`

	Expect Expect `yaml:"expect,omitempty"`
}

// Expect is the outcome a step must have. An empty Error means success;
// otherwise it names a rejection code such as OVERLAP.
type Expect struct {
	Error string `yaml:"error,omitempty"`

	// ID, when set on a create, is the id the new order must receive.
	ID string `yaml:"id,omitempty"`
}

// Assertion types.
const (
	AssertOrderCount  = "order_count"
	AssertOrderExists = "order_exists"
	AssertOrderAbsent = "order_absent"
	AssertOverlap     = "overlap"
	AssertEventCount  = "event_count"
	AssertRejected    = "rejected"
)

// Assertion is a check on the state after every step has run.
//
//   - order_count: Count orders, on WorkCenter when set.
//   - order_exists: order ID exists; Name, Status, Start and End must match when set.
//   - order_absent: order ID does not exist.
//   - overlap: checking [Start, End) on WorkCenter, excluding Exclude,
//     conflicts with exactly Conflicts (empty means free).
//   - event_count: Count journaled events of type Event ("" counts all).
//   - rejected: Count submissions were rejected with Code.
type Assertion struct {
	Type       string   `yaml:"type"`
	ID         string   `yaml:"id,omitempty"`
	WorkCenter string   `yaml:"work_center,omitempty"`
	Name       string   `yaml:"name,omitempty"`
	Status     string   `yaml:"status,omitempty"`
	Start      string   `yaml:"start,omitempty"`
	End        string   `yaml:"end,omitempty"`
	Exclude    string   `yaml:"exclude,omitempty"`
	Conflicts  []string `yaml:"conflicts,omitempty"`
	Event      string   `yaml:"event,omitempty"`
	Code       string   `yaml:"code,omitempty"`
	Count      *int     `yaml:"count,omitempty"`
}

const defaultToday = "2024-01-01"

// LoadScenario reads a scenario from a YAML file.
// Unknown fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.dir = filepath.Dir(path)
	return s, nil
}

// ParseScenario decodes and validates a scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Today != "" {
		if _, err := calendar.Parse(s.Today); err != nil {
			return fmt.Errorf("today: %w", err)
		}
	}
	if s.Seed != "" && (len(s.WorkCenters) > 0 || len(s.WorkOrders) > 0) {
		return fmt.Errorf("seed and inline work_centers/work_orders are mutually exclusive")
	}
	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateStep(step Step) error {
	switch step.Action {
	case ActionCreate:
		if step.ID != "" {
			return fmt.Errorf("create does not take an id (use expect.id)")
		}
	case ActionEdit, ActionDelete:
		if step.ID == "" {
			return fmt.Errorf("%s requires id", step.Action)
		}
		if step.WorkCenter != "" {
			return fmt.Errorf("%s does not take a work_center", step.Action)
		}
	default:
		return fmt.Errorf("unknown action %q (valid: create, edit, delete)", step.Action)
	}
	if step.AtX != nil {
		if step.Action != ActionCreate {
			return fmt.Errorf("at_x only applies to create")
		}
		if *step.AtX < 0 {
			return fmt.Errorf("at_x must not be negative")
		}
	}
	if step.Zoom != "" {
		if step.AtX == nil {
			return fmt.Errorf("zoom requires at_x")
		}
		if _, err := layout.ParseZoom(step.Zoom); err != nil {
			return err
		}
	}
	if step.Expect.Error != "" && !slices.Contains(editor.Codes, editor.Code(step.Expect.Error)) {
		return fmt.Errorf("unknown expected error %q", step.Expect.Error)
	}
	if step.Expect.ID != "" && step.Action != ActionCreate {
		return fmt.Errorf("expect.id only applies to create")
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertOrderCount:
		if a.Count == nil {
			return fmt.Errorf("order_count requires count")
		}
	case AssertOrderExists, AssertOrderAbsent:
		if a.ID == "" {
			return fmt.Errorf("%s requires id", a.Type)
		}
	case AssertOverlap:
		if a.WorkCenter == "" || a.Start == "" || a.End == "" {
			return fmt.Errorf("overlap requires work_center, start and end")
		}
	case AssertEventCount:
		if a.Count == nil {
			return fmt.Errorf("event_count requires count")
		}
		switch store.EventType(a.Event) {
		case "", store.EventSnapshot, store.EventCreated, store.EventUpdated, store.EventDeleted:
		default:
			return fmt.Errorf("unknown event type %q", a.Event)
		}
	case AssertRejected:
		if a.Count == nil || a.Code == "" {
			return fmt.Errorf("rejected requires code and count")
		}
		if !slices.Contains(editor.Codes, editor.Code(a.Code)) {
			return fmt.Errorf("unknown rejection code %q", a.Code)
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

// today returns the scenario's anchor date.
func (s *Scenario) today() calendar.Date {
	if s.Today == "" {
		return calendar.MustParse(defaultToday)
	}
	return calendar.MustParse(s.Today)
}

// dataset resolves the scenario's starting work centers and orders.
func (s *Scenario) dataset() (seed.Dataset, error) {
	if s.Seed != "" {
		path := s.Seed
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.dir, path)
		}
		return seed.Load(path, s.today())
	}
	f := &seed.File{WorkCenters: s.WorkCenters, WorkOrders: s.WorkOrders}
	if f.WorkCenters == nil {
		f.WorkCenters = []seed.CenterEntry{}
	}
	if f.WorkOrders == nil {
		f.WorkOrders = []seed.OrderEntry{}
	}
	if err := f.Validate(s.Name); err != nil {
		return seed.Dataset{}, err
	}
	return f.Resolve(s.Name, s.today())
}
