package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/linkcheck/internal/checker"
	"github.com/roach88/linkcheck/internal/resolve"
)

// Scenario defines one consistency check and its expected result.
type Scenario struct {
	// Name uniquely identifies this scenario and its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Manifest is the CUE manifest declaring the adapters.
	Manifest string `yaml:"manifest"`

	// RuntimeDir overrides the manifest's directory of interpreted sources.
	RuntimeDir string `yaml:"runtime_dir,omitempty"`

	// Exclude lists identifiers hidden from the dynamic path.
	Exclude []string `yaml:"exclude,omitempty"`

	// Expect is the required outcome.
	Expect Expectation `yaml:"expect"`

	// Assertions validate the check trace.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Expectation specifies the required report values.
// Only Outcome is mandatory; nil fields are not checked.
type Expectation struct {
	Outcome string `yaml:"outcome"`
	Status  *int   `yaml:"status,omitempty"`
	Static  *bool  `yaml:"static,omitempty"`
	Dynamic *bool  `yaml:"dynamic,omitempty"`
}

// Assertion validates the trace of a check.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Path is "static" or "dynamic" (trace_contains, trace_order, trace_count).
	Path string `yaml:"path,omitempty"`

	// Adapter optionally narrows trace_contains to one adapter.
	Adapter string `yaml:"adapter,omitempty"`

	// Identifier is the capability identifier (trace_contains, trace_count).
	Identifier string `yaml:"identifier,omitempty"`

	// Identifiers is the expected order (trace_order).
	Identifiers []string `yaml:"identifiers,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// Stage is the expected failure stage (failure_stage).
	Stage string `yaml:"stage,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFailureStage  = "failure_stage"
)

// LoadScenario reads and validates a scenario YAML file. Relative manifest
// and runtime_dir paths are resolved against the file's directory.
// Unknown fields are rejected so typos do not silently pass.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	if scenario.Manifest != "" && !filepath.IsAbs(scenario.Manifest) {
		scenario.Manifest = filepath.Join(base, scenario.Manifest)
	}
	if scenario.RuntimeDir != "" && !filepath.IsAbs(scenario.RuntimeDir) {
		scenario.RuntimeDir = filepath.Join(base, scenario.RuntimeDir)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks required fields and assertion shapes.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Manifest == "" {
		return fmt.Errorf("manifest is required")
	}
	if _, err := os.Stat(s.Manifest); os.IsNotExist(err) {
		return fmt.Errorf("manifest not found: %s", s.Manifest)
	}

	if s.Expect.Outcome == "" {
		return fmt.Errorf("expect.outcome is required")
	}
	outcome, err := checker.ParseOutcome(s.Expect.Outcome)
	if err != nil {
		return fmt.Errorf("expect.outcome: %w", err)
	}
	if s.Expect.Status != nil && *s.Expect.Status != checker.ExitStatus(outcome) {
		return fmt.Errorf("expect.status %d contradicts outcome %s (status %d)",
			*s.Expect.Status, outcome, checker.ExitStatus(outcome))
	}

	for i, name := range s.Exclude {
		if name == "" {
			return fmt.Errorf("exclude[%d]: identifier is required", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains, AssertTraceOrder, AssertTraceCount:
		if a.Path != string(checker.PathStatic) && a.Path != string(checker.PathDynamic) {
			return fmt.Errorf("assertions[%d]: path must be %q or %q for %s",
				index, checker.PathStatic, checker.PathDynamic, a.Type)
		}
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Identifier == "" {
			return fmt.Errorf("assertions[%d]: identifier is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Identifiers) == 0 {
			return fmt.Errorf("assertions[%d]: identifiers list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Identifier == "" {
			return fmt.Errorf("assertions[%d]: identifier is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFailureStage:
		if _, err := resolve.ParseStage(a.Stage); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
