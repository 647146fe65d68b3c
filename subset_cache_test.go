package wfst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubsetCacheFindOrInsertDedupesIdenticalSubsets(t *testing.T) {
	c := newSubsetCache[TropicalWeight](0.001)

	a := subset[TropicalWeight]{{state: 0, residual: 1}, {state: 1, residual: 2}}
	b := subset[TropicalWeight]{{state: 0, residual: 1}, {state: 1, residual: 2}}

	id1, created1 := c.FindOrInsert(a)
	assert.True(t, created1)

	id2, created2 := c.FindOrInsert(b)
	assert.False(t, created2)
	assert.Equal(t, id1, id2)
}

func TestSubsetCacheDistinguishesDifferentSubsets(t *testing.T) {
	c := newSubsetCache[TropicalWeight](0.001)

	a := subset[TropicalWeight]{{state: 0, residual: 1}}
	b := subset[TropicalWeight]{{state: 1, residual: 1}}

	id1, _ := c.FindOrInsert(a)
	id2, _ := c.FindOrInsert(b)
	assert.NotEqual(t, id1, id2)
}

func TestSubsetCacheSubsetRecoversCanonicalSet(t *testing.T) {
	c := newSubsetCache[TropicalWeight](0.001)
	a := subset[TropicalWeight]{{state: 5, residual: 3}}
	id, _ := c.FindOrInsert(a)

	got := c.Subset(id)
	require.Len(t, got, 1)
	assert.Equal(t, StateId(5), got[0].state)
	assert.Equal(t, TropicalWeight(3), got[0].residual)
}

// TestSubsetCacheGrowsPastThreshold exercises the resize path (grow),
// checking all previously inserted subsets remain findable afterward.
func TestSubsetCacheGrowsPastThreshold(t *testing.T) {
	c := newSubsetCache[TropicalWeight](0.001)
	var ids []StateId
	for i := 0; i < 50; i++ {
		s := subset[TropicalWeight]{{state: StateId(i), residual: TropicalWeight(i)}}
		id, created := c.FindOrInsert(s)
		require.True(t, created)
		ids = append(ids, id)
	}
	for i := 0; i < 50; i++ {
		s := subset[TropicalWeight]{{state: StateId(i), residual: TropicalWeight(i)}}
		id, created := c.FindOrInsert(s)
		assert.False(t, created)
		assert.Equal(t, ids[i], id)
	}
}
