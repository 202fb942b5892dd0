package decisionengine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func sysAt(t *testing.T, name string, depth int, ratio float64) System {
	t.Helper()
	result := NewResult(nil, []ConditionResult{mustCR("req", 1)}, []ConditionResult{mustCR("pref", ratio)})
	score := NewScore().ExtendResult(result, true)
	committedScore, err := score.Commit()
	require.NoError(t, err)
	index, err := NewIndex().Extend(uint64(depth)).Commit()
	require.NoError(t, err)
	sys, err := NewWorkingConcrete(committedScore, index, stubWorking{name: name, maxDepth: depth + 1})
	require.NoError(t, err)
	return sys
}

func TestBoundedMerge_RejectsInvalidInput(t *testing.T) {
	_, _, err := BoundedMerge(context.Background(), nil, 1, nil, nil)
	require.Error(t, err)

	_, _, err = BoundedMerge(context.Background(), [][]System{{sysAt(t, "a", 0, 1)}}, 0, nil, nil)
	require.Error(t, err)

	_, _, err = BoundedMerge(context.Background(), [][]System{{nil}}, 1, nil, nil)
	require.Error(t, err)
}

func TestBoundedMerge_MergesAndBounds(t *testing.T) {
	a := sysAt(t, "a", 0, 0.9)
	b := sysAt(t, "b", 1, 0.1)
	c := sysAt(t, "c", 2, 0.5)

	merged, removed, err := BoundedMerge(context.Background(), [][]System{{a, b}, {c}}, 2, nil, nil)
	require.NoError(t, err)
	require.Len(t, merged, 2)
	require.Equal(t, a, merged[0])

	for i := 1; i < len(merged); i++ {
		require.False(t, Less(merged[i], merged[i-1]))
	}

	var leftover int
	for _, r := range removed {
		leftover += len(r)
	}
	require.Equal(t, 1, leftover)
}

func TestBoundedMerge_RescoreInvokedPerSystem(t *testing.T) {
	a := sysAt(t, "a", 0, 0.1)
	b := sysAt(t, "b", 1, 0.2)

	var rescored int
	rescore := func(ctx context.Context, s System) error {
		rescored++
		return nil
	}

	merged, _, err := BoundedMerge(context.Background(), [][]System{{a, b}}, 5, rescore, nil)
	require.NoError(t, err)
	require.Len(t, merged, 2)
	require.Equal(t, 2, rescored)
}

func TestBoundedMerge_RescoreErrorPropagates(t *testing.T) {
	a := sysAt(t, "a", 0, 0.1)
	boom := errTest("boom")
	rescore := func(ctx context.Context, s System) error { return boom }

	_, _, err := BoundedMerge(context.Background(), [][]System{{a}}, 1, rescore, nil)
	require.ErrorIs(t, err, boom)
}

type errTest string

func (e errTest) Error() string { return string(e) }
