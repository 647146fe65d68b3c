package wfst

import (
	"fmt"
	"sort"

	"github.com/golang/glog"
)

// vectorState is one state's mutable storage: its final weight (finalSet
// distinguishes "not final" from "final with the semiring's Zero weight")
// and its outgoing transitions, kept in a plain slice the way builder.go
// keeps per-state transitions in a slice-indexed-by-StateId structure
// (there b.transitions[p], here fst.states[s].trs).
type vectorState[W Weight[W]] struct {
	final    W
	finalSet bool
	trs      []Tr[W]
}

// VectorFst is the mutable, in-memory WFST: a growable slice of states,
// each owning its own transition slice. This is the workhorse construction
// target for every algorithm in this package (spec.md §4.2 "the mutable
// vector WFST"), grounded on builder.go's Builder — same slice-of-states
// shape, same "append a new zero-value state, mutate it in place" style —
// generalized from Builder's single fixed (word, backoff) transition model
// to arbitrary semiring-weighted labeled transitions.
type VectorFst[W Weight[W]] struct {
	states  []vectorState[W]
	start   StateId
	isyms   *SymbolTable
	osyms   *SymbolTable
	props   FstProperties
}

// NewVectorFst returns an empty WFST with no states and no start state.
func NewVectorFst[W Weight[W]]() *VectorFst[W] {
	return &VectorFst[W]{start: NoStateId}
}

var _ MutableFst[TropicalWeight] = (*VectorFst[TropicalWeight])(nil)

// --- Fst ---

func (f *VectorFst[W]) Start() (StateId, bool) {
	if f.start == NoStateId {
		var zero StateId
		return zero, false
	}
	return f.start, true
}

func (f *VectorFst[W]) FinalWeight(s StateId) (W, bool, error) {
	if err := f.checkState("FinalWeight", s); err != nil {
		var zero W
		return zero, false, err
	}
	st := &f.states[s]
	return st.final, st.finalSet, nil
}

func (f *VectorFst[W]) NumTrs(s StateId) (int, error) {
	if err := f.checkState("NumTrs", s); err != nil {
		return 0, err
	}
	return len(f.states[s].trs), nil
}

func (f *VectorFst[W]) GetTrs(s StateId) ([]Tr[W], error) {
	if err := f.checkState("GetTrs", s); err != nil {
		return nil, err
	}
	return f.states[s].trs, nil
}

func (f *VectorFst[W]) InputSymbols() *SymbolTable  { return f.isyms }
func (f *VectorFst[W]) OutputSymbols() *SymbolTable { return f.osyms }
func (f *VectorFst[W]) Properties() FstProperties   { return f.props }

// --- ExpandedFst / Allocable ---

func (f *VectorFst[W]) NumStates() int { return len(f.states) }

func (f *VectorFst[W]) AddStates(n int) {
	if n <= 0 {
		return
	}
	if cap(f.states)-len(f.states) < n {
		grown := make([]vectorState[W], len(f.states), len(f.states)+n)
		copy(grown, f.states)
		f.states = grown
	}
	for i := 0; i < n; i++ {
		f.states = append(f.states, vectorState[W]{})
	}
	f.props = f.props.Clear(propsInvalidatedByAddState)
}

// --- MutableFst ---

func (f *VectorFst[W]) AddState() StateId {
	s := StateId(len(f.states))
	f.states = append(f.states, vectorState[W]{})
	f.props = f.props.Clear(propsInvalidatedByAddState)
	return s
}

func (f *VectorFst[W]) SetStart(s StateId) error {
	if err := f.checkState("SetStart", s); err != nil {
		return err
	}
	f.start = s
	f.props = f.props.Clear(Connected)
	return nil
}

func (f *VectorFst[W]) UnsetStart() { f.start = NoStateId }

func (f *VectorFst[W]) SetFinal(s StateId, w W) error {
	if err := f.checkState("SetFinal", s); err != nil {
		return err
	}
	f.states[s].final = w
	f.states[s].finalSet = true
	return nil
}

func (f *VectorFst[W]) DeleteFinalWeight(s StateId) error {
	if err := f.checkState("DeleteFinalWeight", s); err != nil {
		return err
	}
	var zero W
	f.states[s].final = zero
	f.states[s].finalSet = false
	return nil
}

func (f *VectorFst[W]) TakeFinalWeight(s StateId) (W, bool, error) {
	w, ok, err := f.FinalWeight(s)
	if err != nil {
		return w, false, err
	}
	if ok {
		_ = f.DeleteFinalWeight(s)
	}
	return w, ok, nil
}

func (f *VectorFst[W]) AddTr(s StateId, tr Tr[W]) error {
	if err := f.checkState("AddTr", s); err != nil {
		return err
	}
	if int(tr.NextState) >= len(f.states) {
		return newErr("AddTr", StateNotFound, "nextstate %d out of range [0, %d)", tr.NextState, len(f.states))
	}
	f.states[s].trs = append(f.states[s].trs, tr)
	f.props = f.props.Clear(propsInvalidatedByAddTr)
	return nil
}

func (f *VectorFst[W]) EmplaceTr(s StateId, ilabel, olabel Label, w W, nextstate StateId) error {
	return f.AddTr(s, NewTr(ilabel, olabel, w, nextstate))
}

func (f *VectorFst[W]) PopTrs(s StateId) ([]Tr[W], error) {
	if err := f.checkState("PopTrs", s); err != nil {
		return nil, err
	}
	trs := f.states[s].trs
	f.states[s].trs = nil
	f.props = f.props.Clear(propsInvalidatedByTrEdit)
	return trs, nil
}

func (f *VectorFst[W]) DeleteTrs(s StateId) error {
	_, err := f.PopTrs(s)
	return err
}

// DelState removes state s, renumbering every state after it down by one
// and fixing up every reference (start, every tr.NextState). Per spec.md's
// resolved Open Question, repeated single-state deletion is O(states *
// trs); DelStates below is the batch-safe alternative.
func (f *VectorFst[W]) DelState(s StateId) error {
	return f.DelStates([]StateId{s})
}

// DelStates removes every state named in states (duplicates tolerated,
// matching rustfst's del_states semantics of "a set of state ids"), in one
// renumbering pass. Dedup happens here, not at the caller, which is the
// resolved Open Question for "what happens when a StateId is named twice."
func (f *VectorFst[W]) DelStates(states []StateId) error {
	doomed := make(map[StateId]bool, len(states))
	for _, s := range states {
		if err := f.checkState("DelStates", s); err != nil {
			return err
		}
		doomed[s] = true
	}
	if len(doomed) == 0 {
		return nil
	}

	oldToNew := make([]StateId, len(f.states))
	next := StateId(0)
	for old := range f.states {
		if doomed[StateId(old)] {
			oldToNew[old] = NoStateId
			continue
		}
		oldToNew[old] = next
		next++
	}

	kept := make([]vectorState[W], 0, next)
	for old, st := range f.states {
		if doomed[StateId(old)] {
			continue
		}
		filtered := st.trs[:0:0]
		for _, tr := range st.trs {
			if doomed[tr.NextState] {
				continue
			}
			tr.NextState = oldToNew[tr.NextState]
			filtered = append(filtered, tr)
		}
		st.trs = filtered
		kept = append(kept, st)
	}
	f.states = kept

	if f.start != NoStateId {
		if doomed[f.start] {
			f.start = NoStateId
		} else {
			f.start = oldToNew[f.start]
		}
	}
	f.props = f.props.Clear(propsInvalidatedByDelState)
	return nil
}

func (f *VectorFst[W]) DelAllStates() {
	f.states = nil
	f.start = NoStateId
	f.props = noProperties
}

func (f *VectorFst[W]) SortTrs(s StateId, cmp TrCompare[W]) error {
	if err := f.checkState("SortTrs", s); err != nil {
		return err
	}
	trs := f.states[s].trs
	sort.SliceStable(trs, func(i, j int) bool { return cmp(trs[i], trs[j]) < 0 })
	f.props = f.props.Clear(IDeterministic | ODeterministic)
	return nil
}

// UniqueTrs removes exactly-equal duplicate transitions at s (same ilabel,
// olabel, weight, and nextstate), preserving first-seen order.
func (f *VectorFst[W]) UniqueTrs(s StateId) error {
	if err := f.checkState("UniqueTrs", s); err != nil {
		return err
	}
	trs := f.states[s].trs
	out := trs[:0]
	seen := make(map[Tr[W]]bool, len(trs))
	for _, tr := range trs {
		if seen[tr] {
			continue
		}
		seen[tr] = true
		out = append(out, tr)
	}
	f.states[s].trs = out
	return nil
}

// SumTrs merges transitions at s that share (ilabel, olabel, nextstate),
// adding their weights with Plus. Grounded on rustfst's state_map
// sum-arcs-mapper semantics.
func (f *VectorFst[W]) SumTrs(s StateId) error {
	if err := f.checkState("SumTrs", s); err != nil {
		return err
	}
	trs := f.states[s].trs
	type key struct {
		il, ol Label
		ns     StateId
	}
	order := make([]key, 0, len(trs))
	merged := make(map[key]W, len(trs))
	for _, tr := range trs {
		k := key{tr.Ilabel, tr.Olabel, tr.NextState}
		if w, ok := merged[k]; ok {
			merged[k] = w.Plus(tr.Weight)
		} else {
			merged[k] = tr.Weight
			order = append(order, k)
		}
	}
	out := make([]Tr[W], 0, len(order))
	for _, k := range order {
		out = append(out, NewTr(k.il, k.ol, merged[k], k.ns))
	}
	f.states[s].trs = out
	f.props = f.props.Clear(propsInvalidatedByTrEdit)
	return nil
}

func (f *VectorFst[W]) SetInputSymbols(t *SymbolTable)  { f.isyms = t }
func (f *VectorFst[W]) SetOutputSymbols(t *SymbolTable) { f.osyms = t }

func (f *VectorFst[W]) TakeInputSymbols() *SymbolTable {
	t := f.isyms
	f.isyms = nil
	return t
}

func (f *VectorFst[W]) TakeOutputSymbols() *SymbolTable {
	t := f.osyms
	f.osyms = nil
	return t
}

func (f *VectorFst[W]) SetProperties(p FstProperties) { f.props = p }

func (f *VectorFst[W]) SetPropertiesWithMask(p, mask FstProperties) {
	f.props = f.props.Clear(mask).With(p & mask)
}

func (f *VectorFst[W]) ComputeAndUpdateProperties(mask FstProperties) FstProperties {
	computed := computeProperties[W](f, mask)
	f.SetPropertiesWithMask(computed, mask)
	if glog.V(2) {
		glog.Infof("VectorFst.ComputeAndUpdateProperties: mask=%b -> %b", mask, computed)
	}
	return computed
}

func (f *VectorFst[W]) checkState(op string, s StateId) error {
	if int(s) >= len(f.states) {
		return newErr(op, StateNotFound, "state %d out of range [0, %d)", s, len(f.states))
	}
	return nil
}

// Graphviz writes a DOT-format dump, one line per transition plus one per
// final state, in builder.go's Graphviz style.
func (f *VectorFst[W]) Graphviz(w interface{ Write([]byte) (int, error) }) {
	fmt.Fprintln(w, "digraph {")
	for s, st := range f.states {
		for _, tr := range st.trs {
			il, ol := f.symbolOf(f.isyms, tr.Ilabel), f.symbolOf(f.osyms, tr.Olabel)
			fmt.Fprintf(w, "  %d -> %d [label=%q]\n", s, tr.NextState, fmt.Sprintf("%s:%s/%s", il, ol, tr.Weight.String()))
		}
		if st.finalSet {
			fmt.Fprintf(w, "  %d [shape=doublecircle,label=%q]\n", s, fmt.Sprintf("%d/%s", s, st.final.String()))
		}
	}
	fmt.Fprintln(w, "}")
}

func (f *VectorFst[W]) symbolOf(t *SymbolTable, l Label) string {
	if t == nil {
		return fmt.Sprintf("%d", l)
	}
	return t.Symbol(l)
}
