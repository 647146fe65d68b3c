package wfst

// Compose implements transducer composition (spec.md §4 compose(a, b):
// "Standard filter-based composition for transducers with matching inner
// alphabet"), expanded lazily through the same LazyFst machinery
// determinize.go uses — spec.md §4.6 names composition as LazyFst's
// motivating example directly ("A LazyFst composes two objects..."). No
// composition.rs body was present in the retrieved original_source/ set;
// the three-state epsilon filter below (0 = both sides may still take an
// ε move, 1 = only a's ε moves are allowed, 2 = only b's) is the standard
// Mohri composition filter that avoids the redundant-path explosion a
// naive ε×ε product would produce, referenced only by name in spec.md's
// compose row.
type composeFilter uint8

const (
	filterBoth composeFilter = iota
	filterAOnly
	filterBOnly
)

// composeState is the lazily-discovered state space: a pair of operand
// states plus the filter phase.
type composeState struct {
	a, b   StateId
	filter composeFilter
}

type composeOp[W Weight[W]] struct {
	a, b  ExpandedFst[W]
	ids   map[composeState]StateId
	rev   []composeState
	isyms *SymbolTable
	osyms *SymbolTable
}

// NewComposeFst returns the lazy composition of a and b: its language is
// every (ilabel-string, olabel-string) pair such that a maps
// ilabel-string to some mid-string and b maps that mid-string to
// olabel-string.
func NewComposeFst[W Weight[W]](a, b ExpandedFst[W]) *LazyFst[W] {
	op := &composeOp[W]{
		a: a, b: b,
		ids:   make(map[composeState]StateId),
		isyms: a.InputSymbols(),
		osyms: b.OutputSymbols(),
	}
	return NewLazyFst[W](op)
}

func (op *composeOp[W]) InputSymbols() *SymbolTable  { return op.isyms }
func (op *composeOp[W]) OutputSymbols() *SymbolTable { return op.osyms }

func (op *composeOp[W]) idFor(cs composeState) StateId {
	if id, ok := op.ids[cs]; ok {
		return id
	}
	id := StateId(len(op.rev))
	op.ids[cs] = id
	op.rev = append(op.rev, cs)
	return id
}

func (op *composeOp[W]) ComputeStart() (StateId, bool, error) {
	sa, okA := op.a.Start()
	sb, okB := op.b.Start()
	if !okA || !okB {
		var zero StateId
		return zero, false, nil
	}
	return op.idFor(composeState{sa, sb, filterBoth}), true, nil
}

func (op *composeOp[W]) ComputeFinalWeight(s StateId) (W, bool, error) {
	cs := op.rev[s]
	wa, finalA, err := op.a.FinalWeight(cs.a)
	if err != nil || !finalA {
		var zero W
		return zero, false, err
	}
	wb, finalB, err := op.b.FinalWeight(cs.b)
	if err != nil || !finalB {
		var zero W
		return zero, false, err
	}
	return wa.Times(wb), true, nil
}

func (op *composeOp[W]) ComputeTrs(s StateId) ([]Tr[W], error) {
	cs := op.rev[s]
	var out []Tr[W]

	trsA, err := op.a.GetTrs(cs.a)
	if err != nil {
		return nil, err
	}
	trsB, err := op.b.GetTrs(cs.b)
	if err != nil {
		return nil, err
	}

	// Non-epsilon match: a's olabel equals b's ilabel, both non-epsilon.
	for _, ta := range trsA {
		if ta.Olabel == Epsilon {
			continue
		}
		for _, tb := range trsB {
			if tb.Ilabel != ta.Olabel {
				continue
			}
			next := op.idFor(composeState{ta.NextState, tb.NextState, filterBoth})
			out = append(out, NewTr(ta.Ilabel, tb.Olabel, ta.Weight.Times(tb.Weight), next))
		}
	}

	// a's epsilon move: consume nothing on b's side. Disallowed once the
	// filter has committed to b-only epsilon moves.
	if cs.filter != filterBOnly {
		for _, ta := range trsA {
			if ta.Olabel != Epsilon {
				continue
			}
			next := op.idFor(composeState{ta.NextState, cs.b, filterAOnly})
			out = append(out, NewTr(ta.Ilabel, Epsilon, ta.Weight, next))
		}
	}

	// b's epsilon move: consume nothing on a's side. Disallowed once the
	// filter has committed to a-only epsilon moves.
	if cs.filter != filterAOnly {
		for _, tb := range trsB {
			if tb.Ilabel != Epsilon {
				continue
			}
			next := op.idFor(composeState{cs.a, tb.NextState, filterBOnly})
			out = append(out, NewTr(Epsilon, tb.Olabel, tb.Weight, next))
		}
	}

	return out, nil
}

// Compose fully materializes the composition of a and b into a VectorFst.
func Compose[W Weight[W]](a, b ExpandedFst[W]) (*VectorFst[W], error) {
	return Compute(NewComposeFst[W](a, b))
}
