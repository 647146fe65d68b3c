package wfst

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingOp is a trivial two-state LazyOp (0 -> 1 on labelA, 1 final)
// that counts how many times each Compute* method actually runs its body,
// to verify LazyFst memoizes rather than recomputing on every call.
type countingOp struct {
	trsCalls   map[StateId]int
	finalCalls map[StateId]int
}

func newCountingOp() *countingOp {
	return &countingOp{trsCalls: map[StateId]int{}, finalCalls: map[StateId]int{}}
}

func (op *countingOp) ComputeStart() (StateId, bool, error) { return 0, true, nil }

func (op *countingOp) ComputeFinalWeight(s StateId) (TropicalWeight, bool, error) {
	op.finalCalls[s]++
	if s == 1 {
		return 0, true, nil
	}
	return 0, false, nil
}

func (op *countingOp) ComputeTrs(s StateId) ([]Tr[TropicalWeight], error) {
	op.trsCalls[s]++
	if s == 0 {
		return []Tr[TropicalWeight]{NewTr[TropicalWeight](labelA, labelA, 1, 1)}, nil
	}
	return nil, nil
}

func (op *countingOp) InputSymbols() *SymbolTable  { return nil }
func (op *countingOp) OutputSymbols() *SymbolTable { return nil }

func TestLazyFstMemoizesTrsAndFinalWeight(t *testing.T) {
	op := newCountingOp()
	lf := NewLazyFst[TropicalWeight](op)

	for i := 0; i < 3; i++ {
		_, err := lf.GetTrs(0)
		require.NoError(t, err)
		_, _, err = lf.FinalWeight(1)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, op.trsCalls[0])
	assert.Equal(t, 1, op.finalCalls[1])
}

func TestComputeMaterializesLazyFstIntoVectorFst(t *testing.T) {
	op := newCountingOp()
	lf := NewLazyFst[TropicalWeight](op)

	out, err := Compute[TropicalWeight](lf)
	require.NoError(t, err)

	assert.Equal(t, 2, out.NumStates())
	start, ok := out.Start()
	require.True(t, ok)
	trs, err := out.GetTrs(start)
	require.NoError(t, err)
	require.Len(t, trs, 1)

	_, final, err := out.FinalWeight(trs[0].NextState)
	require.NoError(t, err)
	assert.True(t, final)
}

// TestLazyFstConcurrentReadsAreSafe exercises the sync-safety contract
// lazy_fst.go documents: the cache mutex serializes concurrent
// GetTrs/FinalWeight callers against the same LazyFst, so this is safe
// to run under -race even though countingOp's own bookkeeping maps are
// not independently synchronized.
func TestLazyFstConcurrentReadsAreSafe(t *testing.T) {
	op := newCountingOp()
	lf := NewLazyFst[TropicalWeight](op)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := lf.GetTrs(0)
			assert.NoError(t, err)
			_, _, err = lf.FinalWeight(1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, op.trsCalls[0])
	assert.Equal(t, 1, op.finalCalls[1])
}
