package wfst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildS1TropicalGraph builds scenario S1's three-state graph:
// 0->1 weight 3, 0->2 weight 5, 1->2 weight 1. The S2 test builds the
// same shape with its own weights.
func buildS1TropicalGraph(t *testing.T) *VectorFst[TropicalWeight] {
	t.Helper()
	f := NewVectorFst[TropicalWeight]()
	s0, s1, s2 := f.AddState(), f.AddState(), f.AddState()
	require.NoError(t, f.SetStart(s0))
	require.NoError(t, f.EmplaceTr(s0, 1, 1, 3, s1))
	require.NoError(t, f.EmplaceTr(s0, 1, 1, 5, s2))
	require.NoError(t, f.EmplaceTr(s1, 1, 1, 1, s2))
	return f
}

// TestShortestDistanceS1Tropical is spec.md scenario S1.
func TestShortestDistanceS1Tropical(t *testing.T) {
	f := buildS1TropicalGraph(t)
	start, ok := f.Start()
	require.True(t, ok)

	d, err := SingleSourceShortestDistance[TropicalWeight](f, start, ShortestDistanceOptions{})
	require.NoError(t, err)
	require.Len(t, d, 3)
	assert.Equal(t, TropicalWeight(0), d[0])
	assert.Equal(t, TropicalWeight(3), d[1])
	assert.Equal(t, TropicalWeight(4), d[2])
}

// TestShortestDistanceS2Integer is spec.md scenario S2: same graph shape,
// weights 18, 21, 55, and the (+, x) IntegerWeight semiring.
func TestShortestDistanceS2Integer(t *testing.T) {
	f := NewVectorFst[IntegerWeight]()
	s0, s1, s2 := f.AddState(), f.AddState(), f.AddState()
	require.NoError(t, f.SetStart(s0))
	require.NoError(t, f.EmplaceTr(s0, 1, 1, 18, s1))
	require.NoError(t, f.EmplaceTr(s0, 1, 1, 21, s2))
	require.NoError(t, f.EmplaceTr(s1, 1, 1, 55, s2))

	d, err := SingleSourceShortestDistance[IntegerWeight](f, 0, ShortestDistanceOptions{})
	require.NoError(t, err)
	require.Len(t, d, 3)
	assert.Equal(t, IntegerWeight(1), d[0])
	assert.Equal(t, IntegerWeight(18), d[1])
	assert.Equal(t, IntegerWeight(21+18*55), d[2])
	assert.Equal(t, IntegerWeight(1011), d[2])
}

// TestShortestDistanceUnreachableStateIsZero covers spec.md's universal
// invariant that an unreachable state's shortest distance is the
// semiring's Zero.
func TestShortestDistanceUnreachableStateIsZero(t *testing.T) {
	f := NewVectorFst[TropicalWeight]()
	s0, s1 := f.AddState(), f.AddState()
	f.AddState() // s2 stays unreachable from s0
	require.NoError(t, f.SetStart(s0))
	require.NoError(t, f.EmplaceTr(s0, 1, 1, 2, s1))

	d, err := SingleSourceShortestDistance[TropicalWeight](f, 0, ShortestDistanceOptions{})
	require.NoError(t, err)
	assert.True(t, d[2].ApproxEqual(TropicalWeight(0).Zero(), 1e-6))
}

func TestShortestDistanceNotConvergentWithMaxRelax(t *testing.T) {
	f := NewVectorFst[TropicalWeight]()
	s0, s1 := f.AddState(), f.AddState()
	require.NoError(t, f.SetStart(s0))
	require.NoError(t, f.EmplaceTr(s0, 1, 1, 1, s1))
	require.NoError(t, f.EmplaceTr(s1, 1, 1, 1, s0))

	_, err := SingleSourceShortestDistance[TropicalWeight](f, 0, ShortestDistanceOptions{MaxRelax: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConvergent)
}
