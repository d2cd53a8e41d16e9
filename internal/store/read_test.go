package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/linkcheck/internal/checker"
	"github.com/roach88/linkcheck/internal/resolve"
	"github.com/roach88/linkcheck/internal/testutil"
)

func seedRuns(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	ids := testutil.NewSequentialIDGenerator("")
	for _, rep := range []*checker.Report{consistentReport(), failedReport(), consistentReport()} {
		_, err := s.WriteReport(ctx, ids.Generate(), "manifests/probe.cue", rep)
		require.NoError(t, err)
	}
}

func TestListRuns(t *testing.T) {
	s := openTestStore(t)
	seedRuns(t, s)
	ctx := context.Background()

	runs, err := s.ListRuns(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"run-0001", "run-0002", "run-0003"}, []string{runs[0].ID, runs[1].ID, runs[2].ID})
	assert.Nil(t, runs[0].Steps)

	failed, err := s.ListRuns(ctx, ListOptions{Outcome: string(checker.DynamicResolutionFailed)})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "run-0002", failed[0].ID)

	recent, err := s.ListRuns(ctx, ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "run-0002", recent[0].ID)
	assert.Equal(t, "run-0003", recent[1].ID)
}

func TestListRuns_Empty(t *testing.T) {
	s := openTestStore(t)

	runs, err := s.ListRuns(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestReadRun(t *testing.T) {
	s := openTestStore(t)
	seedRuns(t, s)

	run, err := s.ReadRun(context.Background(), "run-0002")
	require.NoError(t, err)

	assert.Equal(t, int64(2), run.Seq)
	assert.Equal(t, "manifests/probe.cue", run.Source)
	assert.True(t, run.Static)
	assert.False(t, run.Dynamic)

	// Steps round-trip exactly, including stage and error text.
	assert.Equal(t, failedReport().Steps, run.Steps)
	assert.Equal(t, resolve.StageNameResolution, run.Steps[1].Stage)
}

func TestReadRun_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.ReadRun(context.Background(), "run-9999")
	require.ErrorIs(t, err, ErrRunNotFound)
	assert.Contains(t, err.Error(), "run-9999")
}

func TestCountByOutcome(t *testing.T) {
	s := openTestStore(t)
	seedRuns(t, s)

	counts, err := s.CountByOutcome(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"CONSISTENT_TRUE":           2,
		"DYNAMIC_RESOLUTION_FAILED": 1,
	}, counts)
}
