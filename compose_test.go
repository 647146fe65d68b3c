package wfst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const labelX Label = 3

// TestComposeChainsTransducers builds a: (a:x)/2 and b: (x:y)/3, and
// checks their composition accepts a:y with weight 5 (Tropical Times = +).
func TestComposeChainsTransducers(t *testing.T) {
	a := NewVectorFst[TropicalWeight]()
	a0, a1 := a.AddState(), a.AddState()
	require.NoError(t, a.SetStart(a0))
	require.NoError(t, a.EmplaceTr(a0, labelA, labelX, 2, a1))
	require.NoError(t, a.SetFinal(a1, 0))

	b := NewVectorFst[TropicalWeight]()
	b0, b1 := b.AddState(), b.AddState()
	require.NoError(t, b.SetStart(b0))
	require.NoError(t, b.EmplaceTr(b0, labelX, labelB, 3, b1))
	require.NoError(t, b.SetFinal(b1, 0))

	composed, err := Compose[TropicalWeight](a, b)
	require.NoError(t, err)

	start, ok := composed.Start()
	require.True(t, ok)
	trs, err := composed.GetTrs(start)
	require.NoError(t, err)
	require.Len(t, trs, 1)
	assert.Equal(t, labelA, trs[0].Ilabel)
	assert.Equal(t, labelB, trs[0].Olabel)
	assert.Equal(t, TropicalWeight(5), trs[0].Weight)

	w, final, err := composed.FinalWeight(trs[0].NextState)
	require.NoError(t, err)
	require.True(t, final)
	assert.Equal(t, TropicalWeight(0), w)
}

// TestComposeNoMatchingLabelsProducesEmptyLanguage checks that composing
// two transducers with no shared mid-alphabet yields no accepting path.
func TestComposeNoMatchingLabelsProducesEmptyLanguage(t *testing.T) {
	a := NewVectorFst[TropicalWeight]()
	a0, a1 := a.AddState(), a.AddState()
	require.NoError(t, a.SetStart(a0))
	require.NoError(t, a.EmplaceTr(a0, labelA, labelX, 1, a1))
	require.NoError(t, a.SetFinal(a1, 0))

	b := NewVectorFst[TropicalWeight]()
	b0, b1 := b.AddState(), b.AddState()
	require.NoError(t, b.SetStart(b0))
	require.NoError(t, b.EmplaceTr(b0, labelB, labelB, 1, b1))
	require.NoError(t, b.SetFinal(b1, 0))

	composed, err := Compose[TropicalWeight](a, b)
	require.NoError(t, err)

	start, ok := composed.Start()
	require.True(t, ok)
	trs, err := composed.GetTrs(start)
	require.NoError(t, err)
	assert.Len(t, trs, 0)
}
