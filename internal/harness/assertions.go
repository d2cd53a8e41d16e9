package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/linkcheck/internal/checker"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Steps    []checker.Step
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, s := range e.Steps {
		switch s.Phase {
		case checker.PhaseStaticEval, checker.PhaseDynamicEval:
			fmt.Fprintf(&buf, "  [%d] %s %s/%s = %t", s.Seq, s.Path, s.Adapter, s.Identifier, s.Value)
			if s.Stage != "" {
				fmt.Fprintf(&buf, " (%s)", s.Stage)
			}
			buf.WriteByte('\n')
		default:
			fmt.Fprintf(&buf, "  [%d] %s\n", s.Seq, s.Phase)
		}
	}
	return buf.String()
}

// EvaluateAssertions runs every assertion and returns failure messages.
func EvaluateAssertions(rep *checker.Report, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(rep, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(rep *checker.Report, a Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		return assertTraceContains(rep.Steps, a)
	case AssertTraceOrder:
		return assertTraceOrder(rep.Steps, a)
	case AssertTraceCount:
		return assertTraceCount(rep.Steps, a)
	case AssertFailureStage:
		return assertFailureStage(rep, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// onPath returns the evaluation steps of one resolution path.
func onPath(steps []checker.Step, path string) []checker.Step {
	var out []checker.Step
	for _, s := range steps {
		if string(s.Path) == path && (s.Phase == checker.PhaseStaticEval || s.Phase == checker.PhaseDynamicEval) {
			out = append(out, s)
		}
	}
	return out
}

func assertTraceContains(steps []checker.Step, a Assertion) error {
	for _, s := range onPath(steps, a.Path) {
		if s.Identifier == a.Identifier && (a.Adapter == "" || s.Adapter == a.Adapter) {
			return nil
		}
	}
	expected := fmt.Sprintf("%s step for %s", a.Path, a.Identifier)
	if a.Adapter != "" {
		expected += " in adapter " + a.Adapter
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Steps:    steps,
	}
}

// assertTraceOrder checks identifiers appear in order on a path.
// Intervening steps are allowed.
func assertTraceOrder(steps []checker.Step, a Assertion) error {
	positions := make(map[string]int)
	for i, s := range onPath(steps, a.Path) {
		if _, seen := positions[s.Identifier]; !seen {
			positions[s.Identifier] = i + 1
		}
	}

	for _, id := range a.Identifiers {
		if positions[id] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all identifiers present: %v", a.Identifiers),
				Actual:   fmt.Sprintf("missing identifier: %s", id),
				Steps:    steps,
			}
		}
	}
	for i := 1; i < len(a.Identifiers); i++ {
		prev, curr := a.Identifiers[i-1], a.Identifiers[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("identifiers in order: %v", a.Identifiers),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Steps: steps,
			}
		}
	}
	return nil
}

func assertTraceCount(steps []checker.Step, a Assertion) error {
	count := 0
	for _, s := range onPath(steps, a.Path) {
		if s.Identifier == a.Identifier {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%s appears %d times on %s path", a.Identifier, a.Count, a.Path),
			Actual:   fmt.Sprintf("appears %d times", count),
			Steps:    steps,
		}
	}
	return nil
}

func assertFailureStage(rep *checker.Report, a Assertion) error {
	if string(rep.FailureStage) == a.Stage {
		return nil
	}
	actual := "no dynamic failure"
	if rep.FailureStage != "" {
		actual = string(rep.FailureStage)
	}
	return &AssertionError{
		Type:     AssertFailureStage,
		Expected: a.Stage,
		Actual:   actual,
		Steps:    rep.Steps,
	}
}
