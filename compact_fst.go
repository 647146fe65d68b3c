package wfst

import (
	"sort"

	"github.com/cespare/xxhash/v2"
)

// This file implements the immutable compact WFST component (spec.md §4.3):
// two frozen, read-only representations of a WFST built once from an
// ExpandedFst and never mutated again, trading VectorFst's per-state
// []Tr[W] (O(n) label lookup) for faster per-state label lookup. Both are
// grounded directly on the teacher's two interchangeable n-gram
// back-off storage strategies — sorted.go's binary-searched array
// (SortedFst) and hashed.go/probing_impl.go's open-addressed bucket table
// (HashedFst) — generalized from "one StateWeight per (state, word)" to
// "the full []Tr[W] per (state, ilabel)", since a WFST's ilabel is not
// deterministic the way fslm's transition function is.

// --- SortedFst ---

// sortedState holds one state's transitions, sorted by Ilabel, plus its
// final weight. Multiple transitions may share an ilabel (a WFST need not
// be deterministic), so the transitions for one ilabel form a contiguous
// run of trs rather than one entry per label, found by binary search
// exactly like sorted.go's findNext.
type sortedState[W Weight[W]] struct {
	trs      []Tr[W] // sorted by Ilabel
	final    W
	finalSet bool
}

// SortedFst is a compact WFST whose per-state transitions are sorted by
// Ilabel and looked up by binary search, grounded on sorted.go's Sorted
// model (its []WordStateWeight binary search over findNext, generalized
// from a single-result lookup to "the contiguous run of transitions
// sharing this ilabel").
type SortedFst[W Weight[W]] struct {
	states []sortedState[W]
	start  StateId
	isyms  *SymbolTable
	osyms  *SymbolTable
	props  FstProperties
}

var _ ExpandedFst[TropicalWeight] = (*SortedFst[TropicalWeight])(nil)

// NewSortedFst freezes src into a SortedFst. src's transitions need not
// already be tr-sorted; NewSortedFst sorts its own copy per state.
func NewSortedFst[W Weight[W]](src ExpandedFst[W]) (*SortedFst[W], error) {
	n := src.NumStates()
	f := &SortedFst[W]{
		states: make([]sortedState[W], n),
		isyms:  src.InputSymbols(),
		osyms:  src.OutputSymbols(),
		props:  src.Properties(),
	}
	if s, ok := src.Start(); ok {
		f.start = s
	} else {
		f.start = NoStateId
	}
	for s := 0; s < n; s++ {
		trs, err := src.GetTrs(StateId(s))
		if err != nil {
			return nil, err
		}
		cp := append([]Tr[W](nil), trs...)
		sort.SliceStable(cp, func(i, j int) bool { return ILabelCompare(cp[i], cp[j]) < 0 })
		f.states[s].trs = cp
		w, ok, err := src.FinalWeight(StateId(s))
		if err != nil {
			return nil, err
		}
		f.states[s].final, f.states[s].finalSet = w, ok
	}
	return f, nil
}

func (f *SortedFst[W]) Start() (StateId, bool) {
	if f.start == NoStateId {
		var zero StateId
		return zero, false
	}
	return f.start, true
}

func (f *SortedFst[W]) FinalWeight(s StateId) (W, bool, error) {
	if err := f.checkState("FinalWeight", s); err != nil {
		var zero W
		return zero, false, err
	}
	st := &f.states[s]
	return st.final, st.finalSet, nil
}

func (f *SortedFst[W]) NumTrs(s StateId) (int, error) {
	if err := f.checkState("NumTrs", s); err != nil {
		return 0, err
	}
	return len(f.states[s].trs), nil
}

func (f *SortedFst[W]) GetTrs(s StateId) ([]Tr[W], error) {
	if err := f.checkState("GetTrs", s); err != nil {
		return nil, err
	}
	return f.states[s].trs, nil
}

// FindByLabel returns the contiguous run of transitions at s whose Ilabel
// equals label, via binary search over the sorted run — the generalized
// analogue of sorted.go's findNext, which returned (at most) one
// StateWeight per word since fslm's transition function is deterministic.
func (f *SortedFst[W]) FindByLabel(s StateId, label Label) ([]Tr[W], error) {
	if err := f.checkState("FindByLabel", s); err != nil {
		return nil, err
	}
	trs := f.states[s].trs
	lo := sort.Search(len(trs), func(i int) bool { return trs[i].Ilabel >= label })
	hi := lo
	for hi < len(trs) && trs[hi].Ilabel == label {
		hi++
	}
	return trs[lo:hi], nil
}

func (f *SortedFst[W]) InputSymbols() *SymbolTable  { return f.isyms }
func (f *SortedFst[W]) OutputSymbols() *SymbolTable { return f.osyms }
func (f *SortedFst[W]) Properties() FstProperties   { return f.props }
func (f *SortedFst[W]) NumStates() int              { return len(f.states) }

func (f *SortedFst[W]) checkState(op string, s StateId) error {
	if int(s) >= len(f.states) {
		return newErr(op, StateNotFound, "state %d out of range [0, %d)", s, len(f.states))
	}
	return nil
}

// --- HashedFst ---

// trBucket is one open-addressing slot: Used distinguishes an empty slot
// from a stored (Ilabel, transition-run) pair, since label 0 is Epsilon
// and thus a valid key (unlike xqwEntry's word.NIL sentinel in the
// teacher, whose key space excludes its own "unused" marker).
type trBucket[W Weight[W]] struct {
	label Label
	trs   []Tr[W]
	used  bool
}

// hashedState is one state's open-addressed label->transitions table,
// grounded on probing_impl.go's xqwBuckets linear-probing scheme.
type hashedState[W Weight[W]] struct {
	buckets  []trBucket[W]
	final    W
	finalSet bool
}

func (b *hashedState[W]) start(label Label) int {
	return int(xxhash.Sum64(labelKeyBytes(label)) % uint64(len(b.buckets)))
}

func labelKeyBytes(label Label) []byte {
	var buf [4]byte
	buf[0] = byte(label)
	buf[1] = byte(label >> 8)
	buf[2] = byte(label >> 16)
	buf[3] = byte(label >> 24)
	return buf[:]
}

func (b *hashedState[W]) find(label Label) []Tr[W] {
	if len(b.buckets) == 0 {
		return nil
	}
	i := b.start(label)
	for {
		e := &b.buckets[i]
		if !e.used {
			return nil
		}
		if e.label == label {
			return e.trs
		}
		i++
		if i == len(b.buckets) {
			i = 0
		}
	}
}

func (b *hashedState[W]) insert(label Label, trs []Tr[W]) {
	i := b.start(label)
	for {
		e := &b.buckets[i]
		if !e.used {
			e.used = true
			e.label = label
			e.trs = trs
			return
		}
		i++
		if i == len(b.buckets) {
			i = 0
		}
	}
}

// HashedFst is a compact WFST whose per-state transitions are grouped by
// Ilabel into an open-addressed bucket table with linear probing,
// grounded on hashed.go's Hashed model and probing_impl.go/
// probing_params.go's xqwMap/xqwBuckets (same linear-probing Find/
// nextAvailable shape), generalized from a single StateWeight per word to
// a []Tr[W] run per ilabel, and from the teacher's bespoke WordIdHash to
// github.com/cespare/xxhash/v2 (the pack-wide hash of choice, see
// DESIGN.md) since Label is a plain uint32 rather than a pointer-sized id
// whose low bits the teacher's fast-hash was tuned for.
type HashedFst[W Weight[W]] struct {
	states []hashedState[W]
	start  StateId
	isyms  *SymbolTable
	osyms  *SymbolTable
	props  FstProperties
}

var _ ExpandedFst[TropicalWeight] = (*HashedFst[TropicalWeight])(nil)

// bucketLoadFactor mirrors newXqwMap's default maxUsed of 0.8.
const bucketLoadFactor = 0.8

// NewHashedFst freezes src into a HashedFst. scale, like DumpHashed's
// scale parameter, multiplies the per-state distinct-ilabel count to pick
// the bucket table size; scale <= 1 defaults to 1.5.
func NewHashedFst[W Weight[W]](src ExpandedFst[W], scale float64) (*HashedFst[W], error) {
	if scale <= 1 {
		scale = 1.5
	}
	n := src.NumStates()
	f := &HashedFst[W]{
		states: make([]hashedState[W], n),
		isyms:  src.InputSymbols(),
		osyms:  src.OutputSymbols(),
		props:  src.Properties(),
	}
	if s, ok := src.Start(); ok {
		f.start = s
	} else {
		f.start = NoStateId
	}
	for s := 0; s < n; s++ {
		trs, err := src.GetTrs(StateId(s))
		if err != nil {
			return nil, err
		}
		groups := groupByIlabel(trs)
		numBuckets := int(float64(len(groups))*scale) + 1
		if numBuckets < 2 {
			numBuckets = 2
		}
		hs := &f.states[s]
		hs.buckets = make([]trBucket[W], numBuckets)
		for label, run := range groups {
			hs.insert(label, run)
		}
		w, ok, err := src.FinalWeight(StateId(s))
		if err != nil {
			return nil, err
		}
		hs.final, hs.finalSet = w, ok
	}
	return f, nil
}

func groupByIlabel[W Weight[W]](trs []Tr[W]) map[Label][]Tr[W] {
	groups := make(map[Label][]Tr[W])
	for _, tr := range trs {
		groups[tr.Ilabel] = append(groups[tr.Ilabel], tr)
	}
	return groups
}

func (f *HashedFst[W]) Start() (StateId, bool) {
	if f.start == NoStateId {
		var zero StateId
		return zero, false
	}
	return f.start, true
}

func (f *HashedFst[W]) FinalWeight(s StateId) (W, bool, error) {
	if err := f.checkState("FinalWeight", s); err != nil {
		var zero W
		return zero, false, err
	}
	st := &f.states[s]
	return st.final, st.finalSet, nil
}

func (f *HashedFst[W]) NumTrs(s StateId) (int, error) {
	if err := f.checkState("NumTrs", s); err != nil {
		return 0, err
	}
	n := 0
	for _, b := range f.states[s].buckets {
		if b.used {
			n += len(b.trs)
		}
	}
	return n, nil
}

// GetTrs materializes all transitions at s by walking its bucket table;
// unlike SortedFst, there is no single contiguous backing array to slice.
func (f *HashedFst[W]) GetTrs(s StateId) ([]Tr[W], error) {
	if err := f.checkState("GetTrs", s); err != nil {
		return nil, err
	}
	var out []Tr[W]
	for _, b := range f.states[s].buckets {
		if b.used {
			out = append(out, b.trs...)
		}
	}
	return out, nil
}

// FindByLabel returns the transitions at s whose Ilabel equals label in
// O(1) expected time via the bucket table, the HashedFst analogue of
// SortedFst.FindByLabel and of hashed.go's Hashed.NextI lookup.
func (f *HashedFst[W]) FindByLabel(s StateId, label Label) ([]Tr[W], error) {
	if err := f.checkState("FindByLabel", s); err != nil {
		return nil, err
	}
	return f.states[s].find(label), nil
}

func (f *HashedFst[W]) InputSymbols() *SymbolTable  { return f.isyms }
func (f *HashedFst[W]) OutputSymbols() *SymbolTable { return f.osyms }
func (f *HashedFst[W]) Properties() FstProperties   { return f.props }
func (f *HashedFst[W]) NumStates() int              { return len(f.states) }

func (f *HashedFst[W]) checkState(op string, s StateId) error {
	if int(s) >= len(f.states) {
		return newErr(op, StateNotFound, "state %d out of range [0, %d)", s, len(f.states))
	}
	return nil
}
