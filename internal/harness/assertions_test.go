package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/linkcheck/internal/checker"
	"github.com/roach88/linkcheck/internal/resolve"
)

func sampleReport() *checker.Report {
	return &checker.Report{
		Outcome:      checker.DynamicResolutionFailed,
		Static:       true,
		FailureStage: resolve.StageNameResolution,
		Steps: []checker.Step{
			{Seq: 1, Phase: checker.PhaseStaticEval, Path: checker.PathStatic, Adapter: "A", Identifier: "stubs.Dependency", Value: true},
			{Seq: 2, Phase: checker.PhaseStaticEval, Path: checker.PathStatic, Adapter: "B", Identifier: "stubs.Dependency", Value: true},
			{Seq: 3, Phase: checker.PhaseDynamicEval, Path: checker.PathDynamic, Adapter: "A", Identifier: "stubs.RuntimeDependency", Value: true},
			{Seq: 4, Phase: checker.PhaseDynamicEval, Path: checker.PathDynamic, Adapter: "B", Identifier: "runtimeonly.UnwantedDependency", Stage: resolve.StageNameResolution},
			{Seq: 5, Phase: checker.PhaseCompare},
			{Seq: 6, Phase: checker.PhaseReport, Outcome: checker.DynamicResolutionFailed, Status: 42},
		},
	}
}

func TestAssertTraceContains(t *testing.T) {
	rep := sampleReport()

	assert.Empty(t, EvaluateAssertions(rep, []Assertion{
		{Type: AssertTraceContains, Path: "static", Identifier: "stubs.Dependency"},
		{Type: AssertTraceContains, Path: "static", Adapter: "B", Identifier: "stubs.Dependency"},
		{Type: AssertTraceContains, Path: "dynamic", Identifier: "runtimeonly.UnwantedDependency"},
	}))

	errs := EvaluateAssertions(rep, []Assertion{
		{Type: AssertTraceContains, Path: "dynamic", Identifier: "stubs.Dependency"},
		{Type: AssertTraceContains, Path: "static", Adapter: "C", Identifier: "stubs.Dependency"},
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "assertions[0]")
	assert.Contains(t, errs[0], "not found in trace")
	assert.Contains(t, errs[1], "in adapter C")
}

func TestAssertTraceOrder(t *testing.T) {
	rep := sampleReport()

	assert.Empty(t, EvaluateAssertions(rep, []Assertion{{
		Type:        AssertTraceOrder,
		Path:        "dynamic",
		Identifiers: []string{"stubs.RuntimeDependency", "runtimeonly.UnwantedDependency"},
	}}))

	errs := EvaluateAssertions(rep, []Assertion{{
		Type:        AssertTraceOrder,
		Path:        "dynamic",
		Identifiers: []string{"runtimeonly.UnwantedDependency", "stubs.RuntimeDependency"},
	}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "should be before")

	errs = EvaluateAssertions(rep, []Assertion{{
		Type:        AssertTraceOrder,
		Path:        "static",
		Identifiers: []string{"stubs.Dependency", "stubs.RuntimeDependency"},
	}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "missing identifier: stubs.RuntimeDependency")
}

func TestAssertTraceCount(t *testing.T) {
	rep := sampleReport()

	assert.Empty(t, EvaluateAssertions(rep, []Assertion{
		{Type: AssertTraceCount, Path: "static", Identifier: "stubs.Dependency", Count: 2},
		{Type: AssertTraceCount, Path: "dynamic", Identifier: "stubs.Dependency", Count: 0},
	}))

	errs := EvaluateAssertions(rep, []Assertion{
		{Type: AssertTraceCount, Path: "static", Identifier: "stubs.Dependency", Count: 1},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "appears 2 times")
}

func TestAssertFailureStage(t *testing.T) {
	rep := sampleReport()
	assert.Empty(t, EvaluateAssertions(rep, []Assertion{{Type: AssertFailureStage, Stage: "NAME_RESOLUTION"}}))

	rep.FailureStage = ""
	errs := EvaluateAssertions(rep, []Assertion{{Type: AssertFailureStage, Stage: "NAME_RESOLUTION"}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Actual: no dynamic failure")
}

func TestAssertionError_IncludesTrace(t *testing.T) {
	err := &AssertionError{
		Type:     AssertTraceCount,
		Expected: "one",
		Actual:   "two",
		Steps:    sampleReport().Steps,
	}
	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: trace_count")
	assert.Contains(t, msg, "[4] dynamic B/runtimeonly.UnwantedDependency = false (NAME_RESOLUTION)")
	assert.Contains(t, msg, "[6] REPORT")
}

func TestEvaluateAssertions_UnknownType(t *testing.T) {
	errs := EvaluateAssertions(sampleReport(), []Assertion{{Type: "trace_absent"}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `unknown assertion type "trace_absent"`)
}
