package decisionengine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndex_ExtendCommit(t *testing.T) {
	root := NewIndex()
	require.False(t, root.HasSuffix())
	require.Equal(t, 0, root.Depth())

	pending := root.Extend(3)
	require.True(t, pending.HasSuffix())
	require.Equal(t, 1, pending.Depth())

	committed, err := pending.Commit()
	require.NoError(t, err)
	require.False(t, committed.HasSuffix())
	require.Equal(t, 1, committed.Depth())

	var values []uint64
	committed.Enumerate(func(v uint64) bool {
		values = append(values, v)
		return true
	})
	require.Equal(t, []uint64{3}, values)
}

func TestIndex_CommitOnCommittedFails(t *testing.T) {
	root := NewIndex()
	_, err := root.Commit()
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindInvalidOperation, kind)
}

func TestIndex_CopyOnPendingFails(t *testing.T) {
	pending := NewIndex().Extend(1)
	_, err := pending.Copy()
	require.Error(t, err)
}

func TestCompareIndex(t *testing.T) {
	tests := []struct {
		name string
		a, b Index
		want int // sign only
	}{
		{
			name: "equal empty",
			a:    NewIndex(),
			b:    NewIndex(),
			want: 0,
		},
		{
			name: "shorter prefix wins on tie",
			a:    NewIndex(),
			b:    mustCommit(t, NewIndex().Extend(0)),
			want: 1,
		},
		{
			name: "smaller first value is greater (reverse-lexicographic)",
			a:    mustCommit(t, NewIndex().Extend(0)),
			b:    mustCommit(t, NewIndex().Extend(1)),
			want: 1,
		},
		{
			name: "larger first value is less",
			a:    mustCommit(t, NewIndex().Extend(5)),
			b:    mustCommit(t, NewIndex().Extend(1)),
			want: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareIndex(tt.a, tt.b)
			require.Equal(t, tt.want, sign(got))
			// antisymmetry
			require.Equal(t, -sign(got), sign(CompareIndex(tt.b, tt.a)))
		})
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func mustCommit(t *testing.T, idx Index) Index {
	t.Helper()
	committed, err := idx.Commit()
	require.NoError(t, err)
	return committed
}
