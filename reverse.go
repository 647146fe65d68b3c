package wfst

// Reverse returns a new WFST recognizing the reversal of src's language
// (spec.md §4 reverse: "reverses transitions, swaps start/final roles").
// Every transition s --(i,o,w)--> t in src becomes t --(i,o,w)--> s in
// the result; src's final states become the result's start-reachable
// states via ε-transitions from a fresh start state (weighted with their
// final weight), and src's start state becomes the result's sole final
// state (weight One). This is the standard single-initial-state
// automaton reversal; no reverse.rs body was present in the retrieved
// original_source/ set, so the construction follows spec.md's prose
// description directly, in the same MutableFst-primitive style as
// Closure/Concat/Union.
func Reverse[W Weight[W]](src ExpandedFst[W]) (*VectorFst[W], error) {
	out := NewVectorFst[W]()
	n := src.NumStates()
	out.AddStates(n)

	var one W
	one = one.One()

	for s := 0; s < n; s++ {
		trs, err := src.GetTrs(StateId(s))
		if err != nil {
			return nil, err
		}
		for _, tr := range trs {
			if err := out.EmplaceTr(tr.NextState, tr.Ilabel, tr.Olabel, tr.Weight, StateId(s)); err != nil {
				return nil, err
			}
		}
	}

	newStart := out.AddState()
	if err := out.SetStart(newStart); err != nil {
		return nil, err
	}
	for s := 0; s < n; s++ {
		w, final, err := src.FinalWeight(StateId(s))
		if err != nil {
			return nil, err
		}
		if final {
			if err := out.EmplaceTr(newStart, Epsilon, Epsilon, w, StateId(s)); err != nil {
				return nil, err
			}
		}
	}

	if oldStart, ok := src.Start(); ok {
		if err := out.SetFinal(oldStart, one); err != nil {
			return nil, err
		}
	}

	out.SetInputSymbols(src.InputSymbols())
	out.SetOutputSymbols(src.OutputSymbols())
	return out, nil
}
