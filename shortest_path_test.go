package wfst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestShortestPathS6 is spec.md scenario S6: ShortestPath(n=1, unique=true)
// on the determinized result of S5 yields a linear two-transition WFST
// spelling "a b" with total weight 5.
func TestShortestPathS6(t *testing.T) {
	src := buildS5Wfsa(t)
	dfst, err := Determinize[TropicalWeight](src, DeterminizeOptions[TropicalWeight]{})
	require.NoError(t, err)

	best, err := ShortestPath[TropicalWeight](dfst, 1, true)
	require.NoError(t, err)

	start, ok := best.Start()
	require.True(t, ok)

	trs, err := best.GetTrs(start)
	require.NoError(t, err)
	require.Len(t, trs, 1)
	assert.Equal(t, labelA, trs[0].Ilabel)

	mid := trs[0].NextState
	trs2, err := best.GetTrs(mid)
	require.NoError(t, err)
	require.Len(t, trs2, 1)
	assert.Equal(t, labelB, trs2[0].Ilabel)

	final := trs2[0].NextState
	w, isFinal, err := best.FinalWeight(final)
	require.NoError(t, err)
	require.True(t, isFinal)

	total := trs[0].Weight.Times(trs2[0].Weight).Times(w)
	assert.Equal(t, TropicalWeight(5), total)
}

// TestShortestPathRejectsNonPathSemiring checks spec.md §7's
// UnsupportedSemiring gate: ShortestPath over a semiring without the Path
// property should fail fast rather than search and return a wrong answer.
func TestShortestPathRejectsNonPathSemiring(t *testing.T) {
	f := NewVectorFst[ProbabilityWeight]()
	s0 := f.AddState()
	require.NoError(t, f.SetStart(s0))
	require.NoError(t, f.SetFinal(s0, 1))

	_, err := ShortestPath[ProbabilityWeight](f, 1, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedSemiring)
}
