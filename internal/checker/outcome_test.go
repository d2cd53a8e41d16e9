package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitStatus(t *testing.T) {
	tests := []struct {
		outcome Outcome
		status  int
	}{
		{ConsistentTrue, 0},
		{ConsistentFalse, 1},
		{Inconsistent, 17},
		{DynamicResolutionFailed, 42},
		{Outcome("UNKNOWN"), 42},
		{Outcome(""), 42},
	}
	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			assert.Equal(t, tt.status, ExitStatus(tt.outcome))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		static, dynamic, failed bool
		want                    Outcome
	}{
		{true, true, false, ConsistentTrue},
		{false, false, false, ConsistentFalse},
		{true, false, false, Inconsistent},
		{false, true, false, Inconsistent},
		{true, true, true, DynamicResolutionFailed},
		{true, false, true, DynamicResolutionFailed},
		{false, false, true, DynamicResolutionFailed},
		{false, true, true, DynamicResolutionFailed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.static, tt.dynamic, tt.failed),
			"static=%t dynamic=%t failed=%t", tt.static, tt.dynamic, tt.failed)
	}
}

func TestParseOutcome(t *testing.T) {
	for _, o := range Outcomes {
		got, err := ParseOutcome(string(o))
		require.NoError(t, err)
		assert.Equal(t, o, got)
	}

	_, err := ParseOutcome("consistent_true")
	assert.Error(t, err)
}
