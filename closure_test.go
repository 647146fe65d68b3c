package wfst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSingleTrTransducer(t *testing.T) *VectorFst[TropicalWeight] {
	t.Helper()
	f := NewVectorFst[TropicalWeight]()
	s0, s1 := f.AddState(), f.AddState()
	require.NoError(t, f.SetStart(s0))
	require.NoError(t, f.EmplaceTr(s0, 1, 1, 2, s1))
	require.NoError(t, f.SetFinal(s1, 0))
	return f
}

func TestClosureStarAcceptsEmptyString(t *testing.T) {
	f := buildSingleTrTransducer(t)
	require.NoError(t, Closure[TropicalWeight](f, ClosureStar))

	start, ok := f.Start()
	require.True(t, ok)
	_, final, err := f.FinalWeight(start)
	require.NoError(t, err)
	assert.True(t, final, "ClosureStar's new start state must itself be final")
}

func TestClosurePlusDoesNotAcceptEmptyString(t *testing.T) {
	f := buildSingleTrTransducer(t)
	origStart, _ := f.Start()

	require.NoError(t, Closure[TropicalWeight](f, ClosurePlus))

	start, ok := f.Start()
	require.True(t, ok)
	assert.Equal(t, origStart, start, "ClosurePlus keeps the original start state")
	_, final, err := f.FinalWeight(start)
	require.NoError(t, err)
	assert.False(t, final)
}

func TestClosureLoopsFinalStateBackToStart(t *testing.T) {
	f := buildSingleTrTransducer(t)
	origStart, _ := f.Start()
	require.NoError(t, Closure[TropicalWeight](f, ClosurePlus))

	// The original final state (s1) should now have an epsilon loop back
	// to the original start state.
	trs, err := f.GetTrs(1)
	require.NoError(t, err)
	found := false
	for _, tr := range trs {
		if tr.Ilabel == Epsilon && tr.Olabel == Epsilon && tr.NextState == origStart {
			found = true
		}
	}
	assert.True(t, found)
}
