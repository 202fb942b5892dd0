package decisionengine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy_Defaults(t *testing.T) {
	p := NewDefaultPolicy()
	require.False(t, p.ContinueProcessingSystemsWithFailures())
	require.True(t, p.IsDeterministic())
	require.Equal(t, DefaultMaxConcurrentTasks, p.NumConcurrentTasks())
	require.Equal(t, DefaultMaxPendingSystems, p.MaxNumPendingSystems(nil))
	require.Equal(t, DefaultMaxChildrenPerGeneration, p.MaxNumChildrenPerGeneration(nil))
	require.Equal(t, DefaultMaxIterationsPerRound, p.MaxNumIterationsPerRound(nil))

	_, ok := p.FingerprinterFactory()
	require.False(t, ok)
}

func TestDefaultPolicy_Options(t *testing.T) {
	p := NewDefaultPolicy(
		WithContinueOnFailures(true),
		WithNumConcurrentTasks(8),
		WithMaxPendingSystems(16),
		WithMaxChildrenPerGeneration(4),
		WithMaxIterationsPerRound(2),
		WithFingerprinterFactory(NoopFingerprinterFactory()),
	)
	require.True(t, p.ContinueProcessingSystemsWithFailures())
	require.Equal(t, 8, p.NumConcurrentTasks())
	require.Equal(t, 16, p.MaxNumPendingSystems(nil))
	require.Equal(t, 4, p.MaxNumChildrenPerGeneration(nil))
	require.Equal(t, 2, p.MaxNumIterationsPerRound(nil))

	factory, ok := p.FingerprinterFactory()
	require.True(t, ok)
	f, err := factory.Create()
	require.NoError(t, err)
	require.True(t, IsNoop(f))
}

func TestDefaultPolicy_IgnoresNonPositiveOverrides(t *testing.T) {
	p := NewDefaultPolicy(WithNumConcurrentTasks(0), WithMaxPendingSystems(-1))
	require.Equal(t, DefaultMaxConcurrentTasks, p.NumConcurrentTasks())
	require.Equal(t, DefaultMaxPendingSystems, p.MaxNumPendingSystems(nil))
}

func TestDefaultPolicy_FinalizeDefaultsToIdentity(t *testing.T) {
	p := NewDefaultPolicy()
	root, err := newStubWorkingRoot("a", 1)
	require.NoError(t, err)

	out, err := p.Finalize([]System{root})
	require.NoError(t, err)
	require.Equal(t, []System{root}, out)
}
