package wfst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrSortOrdersEveryState(t *testing.T) {
	f := NewVectorFst[TropicalWeight]()
	s0, s1 := f.AddState(), f.AddState()
	require.NoError(t, f.EmplaceTr(s0, 3, 0, 1, s1))
	require.NoError(t, f.EmplaceTr(s0, 1, 0, 1, s1))
	require.NoError(t, f.EmplaceTr(s1, 2, 0, 1, s0))
	require.NoError(t, f.EmplaceTr(s1, 1, 0, 1, s0))

	require.NoError(t, TrSort[TropicalWeight](f, ILabelCompare[TropicalWeight]))

	trs0, err := f.GetTrs(s0)
	require.NoError(t, err)
	require.Len(t, trs0, 2)
	assert.Equal(t, Label(1), trs0[0].Ilabel)
	assert.Equal(t, Label(3), trs0[1].Ilabel)

	trs1, err := f.GetTrs(s1)
	require.NoError(t, err)
	require.Len(t, trs1, 2)
	assert.Equal(t, Label(1), trs1[0].Ilabel)
	assert.Equal(t, Label(2), trs1[1].Ilabel)
}
