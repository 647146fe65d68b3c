package wfst

// Isomorphic decides whether a and b are isomorphic modulo state
// renaming and transition reordering (spec.md §4 isomorphic(a, b):
// "canonical traversal with weight approximate-equality"). No
// isomorphic.rs body was present in the retrieved original_source/ set;
// the algorithm below — a simultaneous DFS from each WFST's start state,
// building the renaming bijection on first contact with each pair of
// states and rejecting on any later contradiction — is the standard
// graph-isomorphism-by-synchronized-traversal approach the spec's prose
// names directly. delta is the weight tolerance passed to ApproxEqual.
func Isomorphic[W Weight[W]](a, b ExpandedFst[W], delta float32) (bool, error) {
	if !sameSymbolTable(a.InputSymbols(), b.InputSymbols()) || !sameSymbolTable(a.OutputSymbols(), b.OutputSymbols()) {
		return false, newErr("Isomorphic", PropertyViolation, "operands carry different symbol tables")
	}
	if a.NumStates() != b.NumStates() {
		return false, nil
	}
	startA, okA := a.Start()
	startB, okB := b.Start()
	if okA != okB {
		return false, nil
	}
	if !okA {
		return a.NumStates() == 0 && b.NumStates() == 0, nil
	}

	aToB := make(map[StateId]StateId)
	bToA := make(map[StateId]StateId)

	var visit func(sa, sb StateId) (bool, error)
	visit = func(sa, sb StateId) (bool, error) {
		if mapped, ok := aToB[sa]; ok {
			return mapped == sb, nil
		}
		if _, ok := bToA[sb]; ok {
			return false, nil
		}
		aToB[sa] = sb
		bToA[sb] = sa

		wa, finalA, err := a.FinalWeight(sa)
		if err != nil {
			return false, err
		}
		wb, finalB, err := b.FinalWeight(sb)
		if err != nil {
			return false, err
		}
		if finalA != finalB {
			return false, nil
		}
		if finalA && !wa.ApproxEqual(wb, delta) {
			return false, nil
		}

		trsA, err := a.GetTrs(sa)
		if err != nil {
			return false, err
		}
		trsB, err := b.GetTrs(sb)
		if err != nil {
			return false, err
		}
		if len(trsA) != len(trsB) {
			return false, nil
		}

		matchedB := make([]bool, len(trsB))
		for _, ta := range trsA {
			found := -1
			for j, tb := range trsB {
				if matchedB[j] {
					continue
				}
				if ta.Ilabel == tb.Ilabel && ta.Olabel == tb.Olabel && ta.Weight.ApproxEqual(tb.Weight, delta) {
					found = j
					break
				}
			}
			if found == -1 {
				return false, nil
			}
			matchedB[found] = true
			ok, err := visit(ta.NextState, trsB[found].NextState)
			if err != nil || !ok {
				return ok, err
			}
		}
		return true, nil
	}

	return visit(startA, startB)
}

// sameSymbolTable reports whether two (possibly nil) symbol tables hold the
// same symbols under the same ids. Both nil counts as agreement (unlabeled
// WFSTs); one nil and the other set, or tables whose contents differ, does
// not — isomorphism is only meaningful when both operands are drawn from
// the same alphabet. The cosmetic Name is not compared.
func sameSymbolTable(a, b *SymbolTable) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Len() != b.Len() {
		return false
	}
	for id := 0; id < a.Len(); id++ {
		if a.Symbol(Label(id)) != b.Symbol(Label(id)) {
			return false
		}
	}
	return true
}
