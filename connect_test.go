package wfst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConnectRemovesUnreachableAndDeadStates checks spec.md's connect
// contract: only states on some start->final path survive.
func TestConnectRemovesUnreachableAndDeadStates(t *testing.T) {
	f := NewVectorFst[TropicalWeight]()
	s0, s1, dead, unreachable := f.AddState(), f.AddState(), f.AddState(), f.AddState()
	require.NoError(t, f.SetStart(s0))
	require.NoError(t, f.EmplaceTr(s0, 1, 1, 1, s1))
	require.NoError(t, f.SetFinal(s1, 0))
	// dead: reachable from start but cannot reach any final state.
	require.NoError(t, f.EmplaceTr(s0, 2, 2, 1, dead))
	_ = unreachable // never referenced by any transition or the start state

	require.NoError(t, Connect[TropicalWeight](f))

	assert.Equal(t, 2, f.NumStates())
	assert.True(t, f.Properties().Has(Connected))
}

func TestConnectNoopWhenAlreadyConnected(t *testing.T) {
	f := NewVectorFst[TropicalWeight]()
	s0, s1 := f.AddState(), f.AddState()
	require.NoError(t, f.SetStart(s0))
	require.NoError(t, f.EmplaceTr(s0, 1, 1, 1, s1))
	require.NoError(t, f.SetFinal(s1, 0))

	require.NoError(t, Connect[TropicalWeight](f))
	assert.Equal(t, 2, f.NumStates())
}
