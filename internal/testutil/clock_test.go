package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicClock_StartsAtZero(t *testing.T) {
	clock := NewDeterministicClock()
	assert.Equal(t, int64(0), clock.Current())
}

func TestDeterministicClock_NextIsMonotonic(t *testing.T) {
	clock := NewDeterministicClock()

	assert.Equal(t, int64(1), clock.Next())
	assert.Equal(t, int64(2), clock.Next())
	assert.Equal(t, int64(3), clock.Next())
	assert.Equal(t, int64(3), clock.Current())
}

func TestDeterministicClock_ResetReplaysSequence(t *testing.T) {
	clock := NewDeterministicClock()
	first := []int64{clock.Next(), clock.Next()}

	clock.Reset()
	second := []int64{clock.Next(), clock.Next()}

	assert.Equal(t, first, second)
}

func TestDeterministicClock_Concurrent(t *testing.T) {
	clock := NewDeterministicClock()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Next()
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(50), clock.Current())
}

func TestSequentialIDGenerator(t *testing.T) {
	gen := NewSequentialIDGenerator("")
	assert.Equal(t, "run-0001", gen.Generate())
	assert.Equal(t, "run-0002", gen.Generate())

	custom := NewSequentialIDGenerator("scenario")
	assert.Equal(t, "scenario-0001", custom.Generate())
}
