package decisionengine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWorkingConcrete_RejectsPendingScore(t *testing.T) {
	pending := NewScore().ExtendResult(NewResult(nil, []ConditionResult{mustCR("req", 1)}, nil), true)
	_, err := NewWorkingConcrete(pending, NewIndex(), stubWorking{name: "x", maxDepth: 1})
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindInvalidArgument, kind)
}

func TestWorkingCalculated_Commit(t *testing.T) {
	calc, err := newStubCalculatedWorking("a", 1, 2, []ConditionResult{mustCR("req", 1)}, nil)
	require.NoError(t, err)

	committed, err := calc.(Calculated).Commit()
	require.NoError(t, err)
	require.Equal(t, Working, committed.Kind())
	require.Equal(t, Concrete, committed.Completion())
}

func TestGenerateChildren_EnforcesBounds(t *testing.T) {
	root, err := newStubWorkingRoot("root", 3)
	require.NoError(t, err)

	children, err := root.(Working).GenerateChildren(2)
	require.NoError(t, err)
	require.Len(t, children, 2)

	_, err = root.(Working).GenerateChildren(0)
	require.Error(t, err)
}

func TestCompareSystem_ScoreDominates(t *testing.T) {
	hi, err := newStubCalculatedWorking("a", 1, 3, []ConditionResult{mustCR("req", 1)}, []ConditionResult{mustCR("pref", 1)})
	require.NoError(t, err)
	lo, err := newStubCalculatedWorking("a", 1, 3, []ConditionResult{mustCR("req", 1)}, []ConditionResult{mustCR("pref", 0)})
	require.NoError(t, err)

	require.True(t, Less(hi, lo))
	require.False(t, Less(lo, hi))
}

func TestUpdateScore_PreservesCompletionInvariant(t *testing.T) {
	sys, err := NewWorkingConcrete(NewScore(), NewIndex(), stubWorking{name: "a", maxDepth: 1})
	require.NoError(t, err)

	pendingScore := NewScore().ExtendResult(NewResult(nil, []ConditionResult{mustCR("req", 1)}, nil), true)
	err = sys.UpdateScore(pendingScore)
	require.Error(t, err)

	committedScore, err := pendingScore.Commit()
	require.NoError(t, err)
	require.NoError(t, sys.UpdateScore(committedScore))
}
