package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/gantry/internal/journal"
)

// Trace renders a result deterministically: one canonical JSON line per
// journal event, then one per step outcome. Sequence numbers and ids are
// deterministic, so equal sessions produce identical bytes.
func Trace(r *Result) ([]byte, error) {
	var buf bytes.Buffer
	for _, ev := range r.Events {
		line, err := journal.MarshalCanonical(ev)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", ev.Seq, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	for _, out := range r.Steps {
		line, err := journal.MarshalCanonical(out)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", out.Step, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// GoldenPath returns the golden file for a scenario file:
// <dir>/golden/<name>.golden.
func GoldenPath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	name := strings.TrimSuffix(filepath.Base(scenarioFile), filepath.Ext(scenarioFile))
	return filepath.Join(dir, "golden", name+".golden")
}

// WriteGolden stores the trace of r at path, creating the directory.
func WriteGolden(path string, r *Result) error {
	data, err := Trace(r)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// CompareGolden reports whether the trace of r matches the file at path.
func CompareGolden(path string, r *Result) (bool, error) {
	want, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	got, err := Trace(r)
	if err != nil {
		return false, err
	}
	return bytes.Equal(got, want), nil
}

// RunWithGolden runs a scenario, fails t if it does not pass, and compares
// its trace with testdata/golden/<name>.golden.
//
// To regenerate: go test ./internal/harness -run TestName -update
func RunWithGolden(t *testing.T, s *Scenario) *Result {
	t.Helper()

	result, err := Run(s)
	if err != nil {
		t.Fatalf("scenario %s failed to run: %v", s.Name, err)
	}
	if !result.Pass {
		t.Fatalf("scenario %s failed:\n  %s", s.Name, strings.Join(result.Errors, "\n  "))
	}
	AssertGolden(t, s.Name, result)
	return result
}

// AssertGolden compares the trace of r against a goldie fixture.
func AssertGolden(t *testing.T, name string, r *Result) {
	t.Helper()

	data, err := Trace(r)
	if err != nil {
		t.Fatalf("failed to render trace: %v", err)
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
