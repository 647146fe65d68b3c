package wfst

// Invert swaps Ilabel and Olabel on every transition of fst, in place.
// Grounded on original_source/src/algorithms/inversion.rs's invert,
// translated from direct arc-field mutation (arcs_iter_mut) to this
// package's pop/rebuild MutableFst surface, since Tr values here are
// immutable-by-convention (tr.go) rather than mutated through a live
// iterator.
func Invert[W Weight[W]](fst MutableFst[W]) error {
	n := fst.NumStates()
	for s := 0; s < n; s++ {
		trs, err := fst.PopTrs(StateId(s))
		if err != nil {
			return err
		}
		for i := range trs {
			trs[i].Ilabel, trs[i].Olabel = trs[i].Olabel, trs[i].Ilabel
		}
		for _, tr := range trs {
			if err := fst.AddTr(StateId(s), tr); err != nil {
				return err
			}
		}
	}
	isyms, osyms := fst.TakeInputSymbols(), fst.TakeOutputSymbols()
	fst.SetInputSymbols(osyms)
	fst.SetOutputSymbols(isyms)
	return nil
}
