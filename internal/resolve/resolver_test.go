package resolve

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	err := &Error{Stage: StageOperationLookup, Name: "stubs.Dependency", Op: "Doit", Err: errors.New("missing")}
	assert.Equal(t, "OPERATION_LOOKUP: stubs.Dependency.Doit: missing", err.Error())

	bare := &Error{Stage: StageNameResolution, Name: "stubs.Gone"}
	assert.Equal(t, "NAME_RESOLUTION: stubs.Gone", bare.Error())
}

func TestStageOf_Wrapped(t *testing.T) {
	cause := errors.New("root cause")
	err := fmt.Errorf("adapter A binding 0: %w", constructionFailed("x.Y", cause))

	stage, ok := StageOf(err)
	require.True(t, ok)
	assert.Equal(t, StageConstruction, stage)
	assert.True(t, IsStage(err, StageConstruction))
	assert.False(t, IsNotFound(err))
	assert.ErrorIs(t, err, cause)

	_, ok = StageOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestParseStage(t *testing.T) {
	for _, s := range Stages {
		got, err := ParseStage(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStage("LINKING")
	assert.Error(t, err)
}

func TestChain_FirstKnownResolverWins(t *testing.T) {
	first := NewRegistry()
	first.Register("test.Shared", func() *constant { return &constant{v: false} })
	second := NewRegistry()
	second.Register("test.Shared", func() *constant { return &constant{v: true} })
	second.Register("test.OnlySecond", func() *constant { return &constant{v: true} })

	chain := Chain{first, second}

	ok, err := Call(chain, "test.Shared", "Doit")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Call(chain, "test.OnlySecond", "Doit")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestChain_DoesNotRetryPastNameResolution(t *testing.T) {
	first := NewRegistry()
	first.Register("test.Broken", func() (*constant, error) { return nil, errors.New("broken") })
	second := NewRegistry()
	second.Register("test.Broken", func() *constant { return &constant{v: true} })

	_, err := Call(Chain{first, second}, "test.Broken", "Doit")
	assert.True(t, IsStage(err, StageConstruction))
}

func TestChain_UnknownEverywhere(t *testing.T) {
	_, err := Call(Chain{NewRegistry(), NewRegistry()}, "test.Nowhere", "Doit")
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "not provided by any of 2 resolvers")

	_, err = Chain{}.Invoke(Instance{name: "x.Y"}, "Doit")
	assert.True(t, IsStage(err, StageInvocation))
}

func TestHide(t *testing.T) {
	r := NewRegistry()
	r.Register("test.Kept", func() *constant { return &constant{v: true} })
	r.Register("test.Dropped", func() *constant { return &constant{v: true} })

	hidden := Hide(r, "test.Dropped")

	ok, err := Call(hidden, "test.Kept", "Doit")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = Call(hidden, "test.Dropped", "Doit")
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, errExcluded)

	assert.Same(t, r, Hide(r))
}

func TestDefault_IsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}
