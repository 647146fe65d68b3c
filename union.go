package wfst

// Union rewrites dst in place to recognize the union of dst's and src's
// languages (spec.md §4 union: "fresh start state"): a new start state is
// added with ε-transitions (weight One) to both dst's original start and
// src's (copied) start, replacing dst's own start state designation.
// Grounded the same way Concat is (appendFst, shared below), no
// original_source/ union.rs body having been retrieved.
func Union[W Weight[W]](dst MutableFst[W], src ExpandedFst[W]) error {
	oldStart, hadStart := dst.Start()

	offset, err := appendFst(dst, src)
	if err != nil {
		return err
	}
	srcStart, srcHasStart := src.Start()

	newStart := dst.AddState()
	var one W
	one = one.One()
	if hadStart {
		if err := dst.EmplaceTr(newStart, Epsilon, Epsilon, one, oldStart); err != nil {
			return err
		}
	}
	if srcHasStart {
		if err := dst.EmplaceTr(newStart, Epsilon, Epsilon, one, offset+srcStart); err != nil {
			return err
		}
	}
	if err := dst.SetStart(newStart); err != nil {
		return err
	}

	dst.SetPropertiesWithMask(noProperties, allProperties)
	return nil
}
