package wfst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAndUpdatePropertiesDetectsAcceptor(t *testing.T) {
	f := NewVectorFst[TropicalWeight]()
	s0, s1 := f.AddState(), f.AddState()
	require.NoError(t, f.SetStart(s0))
	require.NoError(t, f.EmplaceTr(s0, labelA, labelA, 1, s1))

	got := f.ComputeAndUpdateProperties(Acceptor)
	assert.True(t, got.Has(Acceptor))
}

func TestComputeAndUpdatePropertiesDetectsNonAcceptor(t *testing.T) {
	f := NewVectorFst[TropicalWeight]()
	s0, s1 := f.AddState(), f.AddState()
	require.NoError(t, f.SetStart(s0))
	require.NoError(t, f.EmplaceTr(s0, labelA, labelB, 1, s1))

	got := f.ComputeAndUpdateProperties(Acceptor)
	assert.False(t, got.Has(Acceptor))
}

func TestComputeAndUpdatePropertiesDetectsEpsilonFree(t *testing.T) {
	f := NewVectorFst[TropicalWeight]()
	s0, s1 := f.AddState(), f.AddState()
	require.NoError(t, f.SetStart(s0))
	require.NoError(t, f.EmplaceTr(s0, Epsilon, Epsilon, 1, s1))

	got := f.ComputeAndUpdateProperties(EpsilonFree | IEpsilonFree | OEpsilonFree)
	assert.False(t, got.Has(EpsilonFree))
	assert.False(t, got.Has(IEpsilonFree))
	assert.False(t, got.Has(OEpsilonFree))
}

func TestComputeAndUpdatePropertiesDetectsDeterminism(t *testing.T) {
	f := NewVectorFst[TropicalWeight]()
	s0, s1, s2 := f.AddState(), f.AddState(), f.AddState()
	require.NoError(t, f.SetStart(s0))
	require.NoError(t, f.EmplaceTr(s0, labelA, labelA, 1, s1))
	require.NoError(t, f.EmplaceTr(s0, labelA, labelB, 1, s2))

	got := f.ComputeAndUpdateProperties(IDeterministic | ODeterministic)
	assert.False(t, got.Has(IDeterministic))
	assert.True(t, got.Has(ODeterministic))
}

// TestAddTrInvalidatesComputedProperties checks spec.md §9's property
// maintenance contract: a mutation that might falsify a bit clears it
// rather than leaving a stale true value lying around.
func TestAddTrInvalidatesComputedProperties(t *testing.T) {
	f := NewVectorFst[TropicalWeight]()
	s0, s1 := f.AddState(), f.AddState()
	require.NoError(t, f.SetStart(s0))
	require.NoError(t, f.EmplaceTr(s0, labelA, labelA, 1, s1))

	got := f.ComputeAndUpdateProperties(Acyclic | TopSorted | Acceptor)
	require.True(t, got.Has(Acyclic))

	require.NoError(t, f.EmplaceTr(s1, labelA, labelA, 1, s0))
	assert.False(t, f.Properties().Has(Acyclic))
}
