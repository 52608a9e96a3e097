// Package seed loads the initial work center and work order dataset from
// YAML.
//
// A seed file looks like:
//
//	work_centers:
//	  - {id: wc-1, name: Genesis Hardware}
//	work_orders:
//	  - {id: wo-1, name: Dintrix Ltd, work_center: wc-1, status: complete, start: -2m, end: -1m}
//
// Dates are ISO (YYYY-MM-DD), "today", or signed offsets from today in
// days, weeks or calendar months ("+5d", "-2w", "+1m"). Files are decoded
// strictly, checked against an embedded CUE schema, then checked for
// duplicate ids and inverted date ranges.
package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/gantry/internal/calendar"
	"github.com/roach88/gantry/internal/model"
)

//go:embed sample.yaml
var sampleYAML []byte

// File is the decoded, unresolved form of a seed file.
type File struct {
	WorkCenters []CenterEntry `yaml:"work_centers" json:"work_centers"`
	WorkOrders  []OrderEntry  `yaml:"work_orders" json:"work_orders"`
}

// CenterEntry is one work center in a seed file.
type CenterEntry struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// OrderEntry is one work order in a seed file. Start and End are date
// expressions, resolved against today by Resolve.
type OrderEntry struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	WorkCenter string `yaml:"work_center" json:"work_center"`
	Status     string `yaml:"status" json:"status"`
	Start      string `yaml:"start" json:"start"`
	End        string `yaml:"end" json:"end"`
}

// Dataset is a resolved seed, ready to hand to store.New.
type Dataset struct {
	WorkCenters []model.WorkCenter
	WorkOrders  []model.WorkOrder
}

// Error reports every problem found in a seed file.
type Error struct {
	Source   string
	Problems []string
}

func (e *Error) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("seed %s: %s", e.Source, e.Problems[0])
	}
	return fmt.Sprintf("seed %s: %d problems:\n  %s", e.Source, len(e.Problems), strings.Join(e.Problems, "\n  "))
}

// Parse decodes a seed file strictly: unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if f.WorkCenters == nil {
		f.WorkCenters = []CenterEntry{}
	}
	if f.WorkOrders == nil {
		f.WorkOrders = []OrderEntry{}
	}
	return &f, nil
}

// Validate checks the file against the schema and for duplicate ids.
// It returns an *Error listing every problem.
func (f *File) Validate(source string) error {
	problems := schemaProblems(f)
	problems = append(problems, duplicateProblems(f)...)
	if len(problems) > 0 {
		return &Error{Source: source, Problems: problems}
	}
	return nil
}

func duplicateProblems(f *File) []string {
	var problems []string
	seen := make(map[string]bool, len(f.WorkCenters))
	for _, c := range f.WorkCenters {
		if seen[c.ID] {
			problems = append(problems, fmt.Sprintf("duplicate work center id %q", c.ID))
		}
		seen[c.ID] = true
	}
	seen = make(map[string]bool, len(f.WorkOrders))
	for _, o := range f.WorkOrders {
		if seen[o.ID] {
			problems = append(problems, fmt.Sprintf("duplicate work order id %q", o.ID))
		}
		seen[o.ID] = true
	}
	return problems
}

// Resolve turns date expressions into dates relative to today. Orders
// whose end is not after their start are reported as problems.
func (f *File) Resolve(source string, today calendar.Date) (Dataset, error) {
	ds := Dataset{
		WorkCenters: make([]model.WorkCenter, 0, len(f.WorkCenters)),
		WorkOrders:  make([]model.WorkOrder, 0, len(f.WorkOrders)),
	}
	for _, c := range f.WorkCenters {
		ds.WorkCenters = append(ds.WorkCenters, model.WorkCenter{ID: c.ID, Name: c.Name})
	}

	var problems []string
	for _, o := range f.WorkOrders {
		status, err := model.ParseStatus(o.Status)
		if err != nil {
			problems = append(problems, fmt.Sprintf("work order %s: %v", o.ID, err))
			continue
		}
		start, err := ResolveDate(o.Start, today)
		if err != nil {
			problems = append(problems, fmt.Sprintf("work order %s: start: %v", o.ID, err))
			continue
		}
		end, err := ResolveDate(o.End, today)
		if err != nil {
			problems = append(problems, fmt.Sprintf("work order %s: end: %v", o.ID, err))
			continue
		}
		if !end.After(start) {
			problems = append(problems, fmt.Sprintf("work order %s: end %s is not after start %s", o.ID, end, start))
			continue
		}
		ds.WorkOrders = append(ds.WorkOrders, model.WorkOrder{
			ID:           o.ID,
			WorkCenterID: o.WorkCenter,
			Name:         o.Name,
			Status:       status,
			StartDate:    start,
			EndDate:      end,
		})
	}
	if len(problems) > 0 {
		return Dataset{}, &Error{Source: source, Problems: problems}
	}
	return ds, nil
}

// LoadBytes parses, validates and resolves a seed in one step.
func LoadBytes(source string, data []byte, today calendar.Date) (Dataset, error) {
	f, err := Parse(data)
	if err != nil {
		return Dataset{}, fmt.Errorf("seed %s: %w", source, err)
	}
	if err := f.Validate(source); err != nil {
		return Dataset{}, err
	}
	return f.Resolve(source, today)
}

// Load reads a seed file from disk.
func Load(path string, today calendar.Date) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("reading seed: %w", err)
	}
	return LoadBytes(path, data, today)
}

// Builtin returns the embedded sample dataset resolved against today.
func Builtin(today calendar.Date) Dataset {
	ds, err := LoadBytes("builtin", sampleYAML, today)
	if err != nil {
		panic(fmt.Sprintf("builtin seed is invalid: %v", err))
	}
	return ds
}

// BuiltinYAML returns the raw embedded sample, for export.
func BuiltinYAML() []byte {
	return bytes.Clone(sampleYAML)
}

var offsetPattern = regexp.MustCompile(`^([+-]?)([0-9]+)([dwm])$`)

// ErrBadDate is wrapped by ResolveDate failures.
var ErrBadDate = errors.New("invalid date expression")

// ResolveDate evaluates a date expression against today.
func ResolveDate(expr string, today calendar.Date) (calendar.Date, error) {
	expr = strings.TrimSpace(expr)
	if expr == "today" {
		return today, nil
	}
	if m := offsetPattern.FindStringSubmatch(expr); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return calendar.Date{}, fmt.Errorf("%w %q: %v", ErrBadDate, expr, err)
		}
		if m[1] == "-" {
			n = -n
		}
		switch m[3] {
		case "d":
			return today.AddDays(n), nil
		case "w":
			return today.AddDays(7 * n), nil
		default:
			return today.AddMonths(n), nil
		}
	}
	d, err := calendar.Parse(expr)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("%w %q: want YYYY-MM-DD, today or +/-N(d|w|m)", ErrBadDate, expr)
	}
	return d, nil
}
