package wfst

// TopSort renumbers fst's states into topological order in place (no-op,
// property bit confirmed, if fst is already top-sorted), returning
// ErrPropertyViolation without mutating fst if it is cyclic. Grounded on
// spec.md §4's `top_sort` contract and exercised the way
// rustfst/src/tests_openfst/algorithms/topsort.rs's test_topsort checks
// it: acyclic in, TOP_SORTED out; cyclic in, untouched out.
func TopSort[W Weight[W]](fst MutableFst[W]) error {
	n := fst.NumStates()

	indegree := make([]int, n)
	allTrs := make([][]Tr[W], n)
	for s := 0; s < n; s++ {
		trs, err := fst.GetTrs(StateId(s))
		if err != nil {
			return err
		}
		allTrs[s] = trs
		for _, tr := range trs {
			indegree[tr.NextState]++
		}
	}

	queue := make([]StateId, 0, n)
	for s := 0; s < n; s++ {
		if indegree[s] == 0 {
			queue = append(queue, StateId(s))
		}
	}
	order := make([]StateId, 0, n)
	ind := append([]int(nil), indegree...)
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		order = append(order, s)
		for _, tr := range allTrs[s] {
			ind[tr.NextState]--
			if ind[tr.NextState] == 0 {
				queue = append(queue, tr.NextState)
			}
		}
	}

	if len(order) != n {
		return newErr("TopSort", PropertyViolation, "fst is cyclic, cannot be topologically sorted")
	}

	oldToNew := make([]StateId, n)
	for newId, old := range order {
		oldToNew[old] = StateId(newId)
	}

	alreadySorted := true
	for old, newId := range oldToNew {
		if StateId(old) != newId {
			alreadySorted = false
			break
		}
	}
	if alreadySorted {
		fst.SetPropertiesWithMask(Acyclic|TopSorted, Acyclic|TopSorted)
		return nil
	}

	finals := make([]struct {
		w  W
		ok bool
	}, n)
	for s := 0; s < n; s++ {
		w, ok, err := fst.FinalWeight(StateId(s))
		if err != nil {
			return err
		}
		finals[s].w, finals[s].ok = w, ok
	}
	start, hasStart := fst.Start()

	isyms, osyms := fst.TakeInputSymbols(), fst.TakeOutputSymbols()
	fst.DelAllStates()
	fst.AddStates(n)
	fst.SetInputSymbols(isyms)
	fst.SetOutputSymbols(osyms)

	for old := 0; old < n; old++ {
		newId := oldToNew[old]
		if finals[old].ok {
			if err := fst.SetFinal(newId, finals[old].w); err != nil {
				return err
			}
		}
		for _, tr := range allTrs[old] {
			if err := fst.EmplaceTr(newId, tr.Ilabel, tr.Olabel, tr.Weight, oldToNew[tr.NextState]); err != nil {
				return err
			}
		}
	}
	if hasStart {
		if err := fst.SetStart(oldToNew[start]); err != nil {
			return err
		}
	}

	fst.SetPropertiesWithMask(Acyclic|TopSorted, Acyclic|TopSorted)
	return nil
}
