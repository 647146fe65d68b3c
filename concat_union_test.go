package wfst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAAcceptor(t *testing.T) *VectorFst[TropicalWeight] {
	t.Helper()
	f := NewVectorFst[TropicalWeight]()
	s0, s1 := f.AddState(), f.AddState()
	require.NoError(t, f.SetStart(s0))
	require.NoError(t, f.EmplaceTr(s0, labelA, labelA, 1, s1))
	require.NoError(t, f.SetFinal(s1, 0))
	return f
}

func buildBAcceptor(t *testing.T) *VectorFst[TropicalWeight] {
	t.Helper()
	f := NewVectorFst[TropicalWeight]()
	s0, s1 := f.AddState(), f.AddState()
	require.NoError(t, f.SetStart(s0))
	require.NoError(t, f.EmplaceTr(s0, labelB, labelB, 1, s1))
	require.NoError(t, f.SetFinal(s1, 0))
	return f
}

func TestConcatChainsLanguages(t *testing.T) {
	dst := buildAAcceptor(t)
	src := buildBAcceptor(t)
	origStates := dst.NumStates()

	require.NoError(t, Concat[TropicalWeight](dst, src))

	assert.Equal(t, origStates+src.NumStates(), dst.NumStates())

	// The original final state of dst is no longer final and instead has
	// an epsilon transition into the copied src.
	_, final, err := dst.FinalWeight(1)
	require.NoError(t, err)
	assert.False(t, final)

	trs, err := dst.GetTrs(1)
	require.NoError(t, err)
	require.Len(t, trs, 1)
	assert.Equal(t, Epsilon, trs[0].Ilabel)
}

func TestUnionAddsFreshStartWithBothBranches(t *testing.T) {
	dst := buildAAcceptor(t)
	src := buildBAcceptor(t)
	origStart, _ := dst.Start()
	origN := dst.NumStates()

	require.NoError(t, Union[TropicalWeight](dst, src))

	newStart, ok := dst.Start()
	require.True(t, ok)
	assert.NotEqual(t, origStart, newStart)

	trs, err := dst.GetTrs(newStart)
	require.NoError(t, err)
	require.Len(t, trs, 2)

	targets := map[StateId]bool{trs[0].NextState: true, trs[1].NextState: true}
	assert.True(t, targets[origStart])
	assert.Equal(t, origN+src.NumStates()+1, dst.NumStates())
}
