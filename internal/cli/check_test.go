package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/linkcheck/internal/capability/runtimeonly"
	"github.com/roach88/linkcheck/internal/checker"
	"github.com/roach88/linkcheck/internal/resolve"
	"github.com/roach88/linkcheck/internal/store"
	"github.com/roach88/linkcheck/internal/testutil"
)

const testdataDir = "../harness/testdata"

// checkJSON mirrors CLIResponse with a typed payload.
type checkJSON struct {
	Status string      `json:"status"`
	Data   CheckResult `json:"data"`
	Error  *CLIError   `json:"error"`
}

func executeCheck(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCheckBuiltin(t *testing.T) {
	out, err := executeCheck(t, "text")
	require.NoError(t, err)
	assert.Equal(t, ExitSuccess, GetExitCode(err))

	assert.Contains(t, out, "Source: builtin")
	assert.Contains(t, out, "LibraryUsingUnwanted[0] runtimeonly.UnwantedDependency = true")
	assert.Contains(t, out, "CONSISTENT_TRUE (status 0)")
}

func TestCheckExcludedDependency(t *testing.T) {
	out, err := executeCheck(t, "text", "--exclude", runtimeonly.UnwantedDependencyName)
	require.Error(t, err)
	assert.Equal(t, checker.StatusDynamicResolutionFailed, GetExitCode(err))
	assert.Contains(t, err.Error(), "DYNAMIC_RESOLUTION_FAILED")

	assert.Contains(t, out, "NAME_RESOLUTION")
	assert.Contains(t, out, "Failure:")
}

func TestCheckJSON(t *testing.T) {
	out, err := executeCheck(t, "json")
	require.NoError(t, err)

	var resp checkJSON
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	assert.Equal(t, SourceBuiltin, resp.Data.Source)
	assert.Equal(t, string(checker.ConsistentTrue), resp.Data.Outcome)
	assert.True(t, resp.Data.Static)
	assert.True(t, resp.Data.Dynamic)
	assert.Len(t, resp.Data.Digest, 64)
	assert.NotEmpty(t, resp.Data.Steps)
}

func TestCheckJSONFailure(t *testing.T) {
	out, err := executeCheck(t, "json", "--exclude", runtimeonly.UnwantedDependencyName)
	require.Error(t, err)
	assert.Equal(t, 42, GetExitCode(err))

	var resp checkJSON
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(checker.DynamicResolutionFailed), resp.Error.Code)
	assert.Equal(t, "exit status 42", resp.Error.Message)
	assert.Equal(t, string(resolve.StageNameResolution), resp.Data.FailureStage)
	assert.False(t, resp.Data.Dynamic)
}

func TestCheckManifestOutcomes(t *testing.T) {
	tests := []struct {
		manifest string
		status   int
		outcome  checker.Outcome
	}{
		{"probe.cue", 0, checker.ConsistentTrue},
		{"disabled.cue", 1, checker.ConsistentFalse},
		{"mismatch.cue", 17, checker.Inconsistent},
		{"priority.cue", 42, checker.DynamicResolutionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.manifest, func(t *testing.T) {
			path := filepath.Join(testdataDir, "manifests", tt.manifest)
			out, err := executeCheck(t, "text", "--manifest", path)
			assert.Equal(t, tt.status, GetExitCode(err))
			assert.Contains(t, out, "Source: "+path)
			assert.Contains(t, out, string(tt.outcome))
		})
	}
}

func TestCheckInterpretedManifest(t *testing.T) {
	out, err := executeCheck(t, "text", "--manifest", filepath.Join(testdataDir, "manifests", "interpreted.cue"))
	require.NoError(t, err)
	assert.Contains(t, out, "late.Dependency = true")
	assert.Contains(t, out, "CONSISTENT_TRUE")
}

func TestCheckRuntimeDirFlagOverridesManifest(t *testing.T) {
	// interpreted.cue points at testdata/runtime; an empty directory hides late.Dependency.
	out, err := executeCheck(t, "text",
		"--manifest", filepath.Join(testdataDir, "manifests", "interpreted.cue"),
		"--runtime-dir", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, 42, GetExitCode(err))
	assert.Contains(t, out, "NAME_RESOLUTION")
}

func TestCheckMissingManifest(t *testing.T) {
	_, err := executeCheck(t, "text", "--manifest", "/nonexistent/probe.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load manifest")
}

func TestCheckRecordsRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})

	opts := &CheckOptions{
		RootOptions: &RootOptions{Format: "text"},
		Exclude:     []string{runtimeonly.UnwantedDependencyName},
		Database:    dbPath,
		IDGenerator: testutil.NewSequentialIDGenerator(""),
	}
	err := runCheck(context.Background(), opts, cmd)
	assert.Equal(t, 42, GetExitCode(err))
	assert.Contains(t, buf.String(), "Run: run-0001")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	run, err := st.ReadRun(context.Background(), "run-0001")
	require.NoError(t, err)
	assert.Equal(t, SourceBuiltin, run.Source)
	assert.Equal(t, string(checker.DynamicResolutionFailed), run.Outcome)
	assert.Equal(t, 42, run.Status)
	assert.Equal(t, string(resolve.StageNameResolution), run.FailureStage)
	assert.NotEmpty(t, run.Steps)
}

func TestCheckCustomRegistry(t *testing.T) {
	// A registry that knows nothing fails on the first dynamic binding.
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})

	opts := &CheckOptions{
		RootOptions: &RootOptions{Format: "text"},
		Registry:    resolve.NewRegistry(),
	}
	err := runCheck(context.Background(), opts, cmd)
	assert.Equal(t, 42, GetExitCode(err))
	assert.Contains(t, buf.String(), "stubs.RuntimeDependency = false NAME_RESOLUTION")
}
