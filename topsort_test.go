package wfst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTopSortAcyclicUnchanged is spec.md scenario S4: an already-acyclic,
// already-sorted WFST is left with the same transition multiset and gains
// the TOP_SORTED bit.
func TestTopSortAcyclicUnchanged(t *testing.T) {
	f := NewVectorFst[TropicalWeight]()
	s0, s1, s2 := f.AddState(), f.AddState(), f.AddState()
	require.NoError(t, f.SetStart(s0))
	require.NoError(t, f.EmplaceTr(s0, 1, 1, 1, s1))
	require.NoError(t, f.EmplaceTr(s1, 2, 2, 1, s2))
	require.NoError(t, f.SetFinal(s2, 0))

	before := map[StateId][]Tr[TropicalWeight]{}
	for s := 0; s < f.NumStates(); s++ {
		trs, err := f.GetTrs(StateId(s))
		require.NoError(t, err)
		before[StateId(s)] = append([]Tr[TropicalWeight](nil), trs...)
	}

	require.NoError(t, TopSort[TropicalWeight](f))

	for s := 0; s < f.NumStates(); s++ {
		trs, err := f.GetTrs(StateId(s))
		require.NoError(t, err)
		assert.Equal(t, before[StateId(s)], trs)
	}
	assert.True(t, f.Properties().Has(TopSorted))
}

func TestTopSortCyclicReturnsPropertyViolation(t *testing.T) {
	f := NewVectorFst[TropicalWeight]()
	s0, s1 := f.AddState(), f.AddState()
	require.NoError(t, f.SetStart(s0))
	require.NoError(t, f.EmplaceTr(s0, 1, 1, 1, s1))
	require.NoError(t, f.EmplaceTr(s1, 1, 1, 1, s0))

	err := TopSort[TropicalWeight](f)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPropertyViolation)
}

func TestTopSortReordersOutOfOrderStates(t *testing.T) {
	f := NewVectorFst[TropicalWeight]()
	// Built out of topological order: state 0 only reachable from state 1.
	s0, s1 := f.AddState(), f.AddState()
	require.NoError(t, f.SetStart(s1))
	require.NoError(t, f.EmplaceTr(s1, 1, 1, 1, s0))
	require.NoError(t, f.SetFinal(s0, 0))

	require.NoError(t, TopSort[TropicalWeight](f))
	assert.True(t, f.Properties().Has(TopSorted))

	start, ok := f.Start()
	require.True(t, ok)
	trs, err := f.GetTrs(start)
	require.NoError(t, err)
	require.Len(t, trs, 1)
	_, final, err := f.FinalWeight(trs[0].NextState)
	require.NoError(t, err)
	assert.True(t, final)
}
