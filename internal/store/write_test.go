package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/linkcheck/internal/checker"
	"github.com/roach88/linkcheck/internal/resolve"
	"github.com/roach88/linkcheck/internal/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func consistentReport() *checker.Report {
	return &checker.Report{
		Outcome: checker.ConsistentTrue,
		Static:  true,
		Dynamic: true,
		Steps: []checker.Step{
			{Seq: 1, Phase: checker.PhaseStaticEval, Path: checker.PathStatic, Adapter: "LibraryUsingWanted", Identifier: "stubs.Dependency", Value: true},
			{Seq: 2, Phase: checker.PhaseDynamicEval, Path: checker.PathDynamic, Adapter: "LibraryUsingWanted", Identifier: "stubs.RuntimeDependency", Value: true},
			{Seq: 3, Phase: checker.PhaseCompare, Value: true},
			{Seq: 4, Phase: checker.PhaseReport, Outcome: checker.ConsistentTrue, Status: 0},
		},
	}
}

func failedReport() *checker.Report {
	failure := &resolve.Error{Stage: resolve.StageNameResolution, Name: "runtimeonly.UnwantedDependency", Err: errors.New("excluded")}
	return &checker.Report{
		Outcome:      checker.DynamicResolutionFailed,
		Static:       true,
		Failure:      failure,
		FailureStage: resolve.StageNameResolution,
		Steps: []checker.Step{
			{Seq: 1, Phase: checker.PhaseStaticEval, Path: checker.PathStatic, Adapter: "LibraryUsingUnwanted", Identifier: "stubs.Dependency", Value: true},
			{Seq: 2, Phase: checker.PhaseDynamicEval, Path: checker.PathDynamic, Adapter: "LibraryUsingUnwanted", Identifier: "runtimeonly.UnwantedDependency", Stage: resolve.StageNameResolution, Error: failure.Error()},
			{Seq: 3, Phase: checker.PhaseCompare},
			{Seq: 4, Phase: checker.PhaseReport, Outcome: checker.DynamicResolutionFailed, Status: 42},
		},
	}
}

func TestWriteReport(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ids := testutil.NewSequentialIDGenerator("")

	rep := failedReport()
	run, err := s.WriteReport(ctx, ids.Generate(), "builtin", rep)
	require.NoError(t, err)

	digest, err := rep.Digest()
	require.NoError(t, err)

	assert.Equal(t, int64(1), run.Seq)
	assert.Equal(t, "run-0001", run.ID)
	assert.Equal(t, "DYNAMIC_RESOLUTION_FAILED", run.Outcome)
	assert.Equal(t, 42, run.Status)
	assert.Equal(t, "NAME_RESOLUTION", run.FailureStage)
	assert.Contains(t, run.Failure, "excluded")
	assert.Equal(t, digest, run.Digest)
}

func TestWriteReport_DuplicateID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.WriteReport(ctx, "run-0001", "builtin", consistentReport())
	require.NoError(t, err)

	_, err = s.WriteReport(ctx, "run-0001", "builtin", consistentReport())
	require.Error(t, err)

	// The failed transaction left nothing behind.
	runs, err := s.ListRuns(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
