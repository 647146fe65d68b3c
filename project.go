package wfst

// ProjectType selects which label side Project copies onto the other.
type ProjectType int

const (
	// ProjectInput copies Ilabel onto Olabel (the result is an acceptor
	// over the input alphabet).
	ProjectInput ProjectType = iota
	// ProjectOutput copies Olabel onto Ilabel (acceptor over the output
	// alphabet).
	ProjectOutput
)

// Project makes fst an acceptor by copying one label side onto the other,
// per spec.md §4 project(type). Grounded on the same arc-field-mutation
// style as Invert (original_source/src/algorithms/inversion.rs), since
// rustfst's projection.rs module was named in mod.rs but not retrieved in
// full.
func Project[W Weight[W]](fst MutableFst[W], which ProjectType) error {
	n := fst.NumStates()
	for s := 0; s < n; s++ {
		trs, err := fst.PopTrs(StateId(s))
		if err != nil {
			return err
		}
		for i := range trs {
			switch which {
			case ProjectInput:
				trs[i].Olabel = trs[i].Ilabel
			case ProjectOutput:
				trs[i].Ilabel = trs[i].Olabel
			}
		}
		for _, tr := range trs {
			if err := fst.AddTr(StateId(s), tr); err != nil {
				return err
			}
		}
	}
	switch which {
	case ProjectInput:
		fst.SetOutputSymbols(fst.InputSymbols())
	case ProjectOutput:
		fst.SetInputSymbols(fst.OutputSymbols())
	}
	fst.SetPropertiesWithMask(Acceptor, Acceptor)
	return nil
}
