package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/linkcheck/internal/resolve"
)

type fixed bool

func (f fixed) Doit() bool { return bool(f) }

type counting struct {
	calls *int
	v     bool
}

func (c counting) Doit() bool {
	*c.calls++
	return c.v
}

func testResolver() *resolve.Registry {
	r := resolve.NewRegistry()
	r.Register("test.True", func() fixed { return true })
	r.Register("test.False", func() fixed { return false })
	return r
}

func TestStaticCombined(t *testing.T) {
	a := New("Lib",
		Binding{Static: fixed(true), Dynamic: "test.True"},
		Binding{Static: fixed(false), Dynamic: "test.False"},
	)
	assert.False(t, a.StaticCombined())

	b := New("Lib", Binding{Static: fixed(true), Dynamic: "test.True"})
	assert.True(t, b.StaticCombined())
}

func TestEvaluateStatic_NoShortCircuit(t *testing.T) {
	calls := 0
	a := New("Lib",
		Binding{Static: counting{calls: &calls, v: false}},
		Binding{Static: counting{calls: &calls, v: true}},
		Binding{Static: counting{calls: &calls, v: false}},
	)

	evals := a.EvaluateStatic()
	assert.Equal(t, 3, calls)
	require.Len(t, evals, 3)
	assert.False(t, Combine(evals))
}

func TestEvaluateStatic_Labels(t *testing.T) {
	a := New("Lib",
		Binding{Static: fixed(true), StaticName: "stubs.Dependency"},
		Binding{Static: fixed(true)},
	)
	evals := a.EvaluateStatic()
	assert.Equal(t, "stubs.Dependency", evals[0].Identifier)
	assert.Equal(t, "adapter.fixed", evals[1].Identifier)
	assert.Equal(t, "Lib", evals[1].Adapter)
	assert.Equal(t, 1, evals[1].Binding)
}

func TestDynamicCombined(t *testing.T) {
	r := testResolver()

	ok, err := New("Lib", Binding{Dynamic: "test.True"}, Binding{Dynamic: "test.True"}).DynamicCombined(r)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = New("Lib", Binding{Dynamic: "test.False"}, Binding{Dynamic: "test.True"}).DynamicCombined(r)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEvaluateDynamic_ContinuesPastFalse(t *testing.T) {
	evals, err := New("Lib",
		Binding{Dynamic: "test.False"},
		Binding{Dynamic: "test.True"},
	).EvaluateDynamic(testResolver())

	require.NoError(t, err)
	require.Len(t, evals, 2)
	assert.Equal(t, "test.True", evals[1].Identifier)
	assert.True(t, evals[1].Value)
}

func TestEvaluateDynamic_StopsAtFirstError(t *testing.T) {
	evals, err := New("Lib",
		Binding{Dynamic: "test.True"},
		Binding{Dynamic: "test.Missing"},
		Binding{Dynamic: "test.False"},
	).EvaluateDynamic(testResolver())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "adapter Lib binding 1")
	assert.True(t, resolve.IsStage(err, resolve.StageNameResolution))

	require.Len(t, evals, 2)
	assert.Error(t, evals[1].Err)
	assert.False(t, evals[1].Value)

	ok, err := New("Lib", Binding{Dynamic: "test.Missing"}).DynamicCombined(testResolver())
	require.Error(t, err)
	assert.False(t, ok)
}

func TestEvaluateDynamic_Op(t *testing.T) {
	a := New("Lib", Binding{Dynamic: "test.True"})
	a.Op = "Run"

	_, err := a.EvaluateDynamic(testResolver())
	assert.True(t, resolve.IsStage(err, resolve.StageOperationLookup))
}

func TestCombine_Empty(t *testing.T) {
	assert.True(t, Combine(nil))
}
