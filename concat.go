package wfst

// Concat rewrites dst in place to recognize the concatenation of dst's
// language followed by src's language (spec.md §4 concat(a, b)): src's
// states are copied into dst, every one of dst's original final states
// gains an ε-transition (weight One) to src's (copied) start state and
// loses its own final status, and dst's final states become src's
// (copied) final states. No original_source/ file for concat.rs was
// present in the retrieved set; the construction follows the standard
// two-automaton concatenation spec.md's Testable Properties section
// implies, expressed with this package's MutableFst primitives the way
// Closure (closure.go) is.
func Concat[W Weight[W]](dst MutableFst[W], src ExpandedFst[W]) error {
	n := dst.NumStates()
	srcStart, srcHasStart := src.Start()

	oldFinals := make([]StateId, 0)
	for s := 0; s < n; s++ {
		_, final, err := dst.FinalWeight(StateId(s))
		if err != nil {
			return err
		}
		if final {
			oldFinals = append(oldFinals, StateId(s))
		}
	}

	offset, err := appendFst(dst, src)
	if err != nil {
		return err
	}

	var one W
	one = one.One()
	if srcHasStart {
		for _, s := range oldFinals {
			if err := dst.DeleteFinalWeight(s); err != nil {
				return err
			}
			if err := dst.EmplaceTr(s, Epsilon, Epsilon, one, offset+srcStart); err != nil {
				return err
			}
		}
	}

	dst.SetPropertiesWithMask(noProperties, allProperties)
	return nil
}

// appendFst copies every state, transition, and final weight of src into
// dst, returning the StateId offset applied (dst's original NumStates()).
// Shared by Concat and Union.
func appendFst[W Weight[W]](dst MutableFst[W], src ExpandedFst[W]) (StateId, error) {
	offset := StateId(dst.NumStates())
	n := src.NumStates()
	dst.AddStates(n)
	for s := 0; s < n; s++ {
		w, final, err := src.FinalWeight(StateId(s))
		if err != nil {
			return 0, err
		}
		if final {
			if err := dst.SetFinal(offset+StateId(s), w); err != nil {
				return 0, err
			}
		}
		trs, err := src.GetTrs(StateId(s))
		if err != nil {
			return 0, err
		}
		for _, tr := range trs {
			if err := dst.EmplaceTr(offset+StateId(s), tr.Ilabel, tr.Olabel, tr.Weight, offset+tr.NextState); err != nil {
				return 0, err
			}
		}
	}
	return offset, nil
}
