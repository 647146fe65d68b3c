package wfst

// TrSort sorts each state's transitions by cmp, stably. Grounded
// verbatim on rustfst/src/algorithms/tr_sort.rs's tr_sort (the per-state
// loop calling sort_trs_unchecked); ILabelCompare/OLabelCompare (fst.go)
// are that file's ilabel_compare/olabel_compare, the two comparators
// composition's matcher and determinization's grouping rely on.
func TrSort[W Weight[W]](fst MutableFst[W], cmp TrCompare[W]) error {
	n := fst.NumStates()
	for s := 0; s < n; s++ {
		if err := fst.SortTrs(StateId(s), cmp); err != nil {
			return err
		}
	}
	return nil
}
