package wfst

// This file defines the capability traits spec.md §4.1/§6 calls for: "core
// read, state iteration, transition iteration, expanded (num_states),
// mutable, allocable, serializable." Go has no trait objects, so each
// capability is its own interface and algorithms take the narrowest one
// they need — the idiomatic Go analogue of the teacher's Design Notes §9
// "interface/capability object passed alongside a data pointer."

// Fst is the core read-only capability: start state, final weights, and
// per-state transitions. Every WFST value in this package — VectorFst,
// SortedFst, HashedFst, and LazyFst — implements it.
type Fst[W Weight[W]] interface {
	// Start returns the start state, or false if none is set.
	Start() (StateId, bool)
	// FinalWeight returns the final weight of s (false if s is not final),
	// or an error if s does not exist.
	FinalWeight(s StateId) (W, bool, error)
	// NumTrs returns len(GetTrs(s)) without necessarily materializing the
	// slice, matching spec.md testable property 2.
	NumTrs(s StateId) (int, error)
	// GetTrs returns s's outgoing transitions, in the order significant to
	// composition and tr-sort-dependent algorithms (spec.md §5 "Ordering").
	GetTrs(s StateId) ([]Tr[W], error)
	InputSymbols() *SymbolTable
	OutputSymbols() *SymbolTable
	// Properties returns the currently-committed property bits. It never
	// computes new ones (see ComputeAndUpdateProperties on MutableFst).
	Properties() FstProperties
}

// ExpandedFst additionally knows its total state count, which a lazily
// materialized WFST (LazyFst, before being fully explored) cannot offer.
type ExpandedFst[W Weight[W]] interface {
	Fst[W]
	NumStates() int
}

// Allocable is the bulk-preallocation capability used by algorithms that
// know their output size in advance (e.g. concat/union's appendFst and
// Reverse).
type Allocable[W Weight[W]] interface {
	ExpandedFst[W]
	AddStates(n int)
}

// TrCompare is the total order SortTrs needs. Implementations return
// negative/zero/positive exactly like cmp.Compare.
type TrCompare[W Weight[W]] func(a, b Tr[W]) int

// ILabelCompare and OLabelCompare are the two canonical comparators used
// throughout the algorithm suite (composition's matcher, determinization's
// grouping), named directly after rustfst's tr_sort.rs ilabel_compare /
// olabel_compare (see SPEC_FULL.md Supplement).
func ILabelCompare[W Weight[W]](a, b Tr[W]) int {
	switch {
	case a.Ilabel < b.Ilabel:
		return -1
	case a.Ilabel > b.Ilabel:
		return 1
	default:
		return 0
	}
}

func OLabelCompare[W Weight[W]](a, b Tr[W]) int {
	switch {
	case a.Olabel < b.Olabel:
		return -1
	case a.Olabel > b.Olabel:
		return 1
	default:
		return 0
	}
}

// MutableFst is the builder surface spec.md §4.1 specifies: every fallible
// operation returns an error when a referenced state does not exist.
// VectorFst is the sole implementation (spec.md names it "the mutable
// in-memory WFST").
type MutableFst[W Weight[W]] interface {
	Allocable[W]

	AddState() StateId
	SetStart(s StateId) error
	UnsetStart()
	SetFinal(s StateId, w W) error
	DeleteFinalWeight(s StateId) error
	TakeFinalWeight(s StateId) (W, bool, error)

	AddTr(s StateId, tr Tr[W]) error
	EmplaceTr(s StateId, ilabel, olabel Label, w W, nextstate StateId) error
	PopTrs(s StateId) ([]Tr[W], error)
	DeleteTrs(s StateId) error

	DelState(s StateId) error
	DelStates(states []StateId) error
	DelAllStates()

	SortTrs(s StateId, cmp TrCompare[W]) error
	UniqueTrs(s StateId) error
	SumTrs(s StateId) error

	SetInputSymbols(t *SymbolTable)
	SetOutputSymbols(t *SymbolTable)
	TakeInputSymbols() *SymbolTable
	TakeOutputSymbols() *SymbolTable

	SetProperties(p FstProperties)
	SetPropertiesWithMask(p, mask FstProperties)
	ComputeAndUpdateProperties(mask FstProperties) FstProperties
}

// Serializable is the capability trait spec.md §4.1 names but whose wire
// format (the binary WFST interchange format) is explicitly out of scope
// (§1 Out of scope). What remains in scope is the capability itself: a Go-
// native encoding (gob, via encoding.BinaryMarshaler) good enough for
// caching a frozen WFST in memory or across a process boundary that both
// ends run this package, grounded on hashed.go/sorted.go/model.go's
// MarshalBinary/UnmarshalBinary gob pair (their mmap-based on-disk layout
// is the part explicitly out of scope and was not carried forward, see
// DESIGN.md).
type Serializable interface {
	MarshalBinary() ([]byte, error)
	UnmarshalBinary(data []byte) error
}
