package wfst

// This file implements ε-removal (spec.md §4 epsilon_removal: "Eliminate
// ε-transitions preserving weights; uses ε-closure distances"). No
// epsilon_removal.rs body was present in the retrieved original_source/
// set (only its name in src/algorithms/mod.rs), so the construction
// follows the standard Mohri/Pereira ε-removal algorithm spec.md's prose
// names directly: for each state, compute the ⊕-summed weighted
// ε-closure (reusing shortest_distance.go's relaxation, restricted to a
// view exposing only ε:ε transitions), then replace every state's
// transitions with the non-ε transitions reachable through that closure,
// each weighted by the closure weight ⊗ the original transition weight.

// epsilonOnlyView presents fst but hides every non-ε:ε transition, so
// SingleSourceShortestDistance run against it computes exactly the
// ε-closure weights epsilon removal needs.
type epsilonOnlyView[W Weight[W]] struct {
	fst ExpandedFst[W]
}

func (v epsilonOnlyView[W]) Start() (StateId, bool)            { return v.fst.Start() }
func (v epsilonOnlyView[W]) FinalWeight(s StateId) (W, bool, error) { return v.fst.FinalWeight(s) }
func (v epsilonOnlyView[W]) InputSymbols() *SymbolTable         { return v.fst.InputSymbols() }
func (v epsilonOnlyView[W]) OutputSymbols() *SymbolTable        { return v.fst.OutputSymbols() }
func (v epsilonOnlyView[W]) Properties() FstProperties          { return noProperties }
func (v epsilonOnlyView[W]) NumStates() int                     { return v.fst.NumStates() }

func (v epsilonOnlyView[W]) NumTrs(s StateId) (int, error) {
	trs, err := v.GetTrs(s)
	return len(trs), err
}

func (v epsilonOnlyView[W]) GetTrs(s StateId) ([]Tr[W], error) {
	all, err := v.fst.GetTrs(s)
	if err != nil {
		return nil, err
	}
	var eps []Tr[W]
	for _, tr := range all {
		if tr.Ilabel == Epsilon && tr.Olabel == Epsilon {
			eps = append(eps, tr)
		}
	}
	return eps, nil
}

var _ ExpandedFst[TropicalWeight] = epsilonOnlyView[TropicalWeight]{}

// RemoveEpsilon returns a new WFST language-equivalent (weight-preserving)
// to src but with every ε:ε transition eliminated.
func RemoveEpsilon[W Weight[W]](src ExpandedFst[W], opts ShortestDistanceOptions) (*VectorFst[W], error) {
	n := src.NumStates()
	out := NewVectorFst[W]()
	out.AddStates(n)

	epsView := epsilonOnlyView[W]{fst: src}

	for s := 0; s < n; s++ {
		closure, err := SingleSourceShortestDistance[W](epsView, StateId(s), opts)
		if err != nil {
			return nil, err
		}

		var finalAcc W
		finalAcc = finalAcc.Zero()
		anyFinal := false

		for r := 0; r < n; r++ {
			cw := closure[r]
			var zero W
			if cw == zero.Zero() {
				continue
			}
			if fw, final, ferr := src.FinalWeight(StateId(r)); ferr == nil && final {
				anyFinal = true
				finalAcc = finalAcc.Plus(cw.Times(fw))
			}
			trs, terr := src.GetTrs(StateId(r))
			if terr != nil {
				return nil, terr
			}
			for _, tr := range trs {
				if tr.Ilabel == Epsilon && tr.Olabel == Epsilon {
					continue
				}
				if err := out.EmplaceTr(StateId(s), tr.Ilabel, tr.Olabel, cw.Times(tr.Weight), tr.NextState); err != nil {
					return nil, err
				}
			}
		}
		if anyFinal {
			if err := out.SetFinal(StateId(s), finalAcc); err != nil {
				return nil, err
			}
		}
	}

	if start, ok := src.Start(); ok {
		if err := out.SetStart(start); err != nil {
			return nil, err
		}
	}
	out.SetInputSymbols(src.InputSymbols())
	out.SetOutputSymbols(src.OutputSymbols())
	out.SetPropertiesWithMask(EpsilonFree|IEpsilonFree|OEpsilonFree, EpsilonFree|IEpsilonFree|OEpsilonFree)
	return out, nil
}
