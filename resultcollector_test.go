package decisionengine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustStubResult(t *testing.T, name string, depth int, ratio float64) System {
	t.Helper()
	sys, err := newStubResultRoot(name, depth, ratio)
	require.NoError(t, err)
	return sys
}

func TestResultCollector_KeepsBestN(t *testing.T) {
	c, err := NewResultCollector(2)
	require.NoError(t, err)

	low := mustStubResult(t, "low", 0, 0.1)
	mid := mustStubResult(t, "mid", 1, 0.5)
	high := mustStubResult(t, "high", 2, 0.9)

	require.NoError(t, c.Push(low, mid, high))
	require.Equal(t, 2, c.Len())

	snapshot := c.Snapshot()
	require.Equal(t, high, snapshot[0])
	require.Equal(t, mid, snapshot[1])
}

func TestResultCollector_RejectsNil(t *testing.T) {
	c, err := NewResultCollector(1)
	require.NoError(t, err)
	require.Error(t, c.Push(nil))
}

func TestResultCollector_RejectsNonResultKind(t *testing.T) {
	c, err := NewResultCollector(1)
	require.NoError(t, err)
	require.Error(t, c.Push(sysAt(t, "working", 0, 0.5)))
}

func TestResultCollector_ConcurrentPush(t *testing.T) {
	c, err := NewResultCollector(5)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			sys := mustStubResult(t, "x", i, float64(i)/20.0)
			_ = c.Push(sys)
		}()
	}
	wg.Wait()
	require.Equal(t, 5, c.Len())
}

func TestResultCollector_Finalize(t *testing.T) {
	c, err := NewResultCollector(3)
	require.NoError(t, err)
	require.NoError(t, c.Push(mustStubResult(t, "a", 0, 0.5)))

	policy := NewDefaultPolicy(WithFinalize(func(results []System) ([]System, error) {
		return results[:0], nil
	}))
	out, err := c.Finalize(policy)
	require.NoError(t, err)
	require.Empty(t, out)

	out, err = c.Finalize(nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
}
