package wfst

// PushType selects which side of the WFST accumulates the redistributed
// weight mass, per spec.md §4 weight_pushing: "Redistribute weights
// toward start or final side; leaves language unchanged."
type PushType int

const (
	// PushToInitial redistributes weight so that, informally, the
	// shortest distance from each state to a final state becomes the
	// semiring's One wherever reachable — the classic Mohri (2002)
	// weight-pushing construction.
	PushToInitial PushType = iota
	// PushToFinal is the mirror construction using forward distance from
	// the start state instead of backward distance to the final states.
	PushToFinal
)

// WeightPush reweights every transition and final weight of fst in place
// using a shortest-distance potential, preserving every accepted string
// and its total weight (only the per-edge weight split changes). For
// PushToInitial, the start state's potential is carried by an epsilon
// transition from a fresh start state, added only when that potential is
// not One. No weight_pushing.rs/reweight.rs body was present
// in the retrieved original_source/ set; implemented from the textbook
// Mohri weight-pushing definition spec.md's row names directly, using the
// semiring Divide capability the determinization engine (determinize.go)
// already requires.
func WeightPush[W DeterminizableWeight[W]](fst MutableFst[W], which PushType, opts ShortestDistanceOptions) error {
	n := fst.NumStates()
	var potential []W
	var err error
	switch which {
	case PushToInitial:
		potential, err = backwardPotential[W](fst)
	case PushToFinal:
		potential, err = ShortestDistance[W](fst, opts)
	}
	if err != nil {
		return err
	}

	for s := 0; s < n; s++ {
		ps := potential[s]
		trs, err := fst.PopTrs(StateId(s))
		if err != nil {
			return err
		}
		for _, tr := range trs {
			pt := potential[tr.NextState]
			var combined W
			var newWeight W
			var ok bool
			switch which {
			case PushToInitial:
				combined = tr.Weight.Times(pt)
				newWeight, ok = combined.Divide(ps)
			case PushToFinal:
				combined = ps.Times(tr.Weight)
				newWeight, ok = combined.Divide(pt)
			}
			if !ok {
				newWeight = tr.Weight
			}
			if err := fst.EmplaceTr(StateId(s), tr.Ilabel, tr.Olabel, newWeight, tr.NextState); err != nil {
				return err
			}
		}

		w, final, ferr := fst.FinalWeight(StateId(s))
		if ferr != nil {
			return ferr
		}
		if final {
			var newFinal W
			var ok bool
			switch which {
			case PushToInitial:
				newFinal, ok = w.Divide(ps)
			case PushToFinal:
				newFinal = ps.Times(w)
				ok = true
			}
			if ok {
				if err := fst.SetFinal(StateId(s), newFinal); err != nil {
					return err
				}
			}
		}
	}
	if which == PushToInitial {
		if start, ok := fst.Start(); ok && potential[start] != potential[start].One() {
			newStart := fst.AddState()
			if err := fst.EmplaceTr(newStart, Epsilon, Epsilon, potential[start], start); err != nil {
				return err
			}
			if err := fst.SetStart(newStart); err != nil {
				return err
			}
		}
	}
	return nil
}
