package decisionengine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type rejectAllFingerprinter struct{}

func (rejectAllFingerprinter) ShouldProcess(System) bool { return false }

func TestNoopFingerprinter_AlwaysProcesses(t *testing.T) {
	f := NoopFingerprinter()
	require.True(t, IsNoop(f))

	root, err := newStubWorkingRoot("a", 1)
	require.NoError(t, err)
	require.True(t, f.ShouldProcess(root))
}

func TestIsNoop_FalseForOtherImplementations(t *testing.T) {
	require.False(t, IsNoop(rejectAllFingerprinter{}))
}

func TestNoopFingerprinterFactory_Create(t *testing.T) {
	f, err := NoopFingerprinterFactory().Create()
	require.NoError(t, err)
	require.True(t, IsNoop(f))
}
