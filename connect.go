package wfst

import "github.com/golang/glog"

// Connect removes every state not on some path from the start state to a
// final state (spec.md §4 connect: "Preserves language"), grounded on the
// teacher's verbosity-gated reporting style (builder.go's
// Builder.prune logs before/after state counts via glog.V(1)) generalized
// from "prune immediately-backing-off states" to "prune states failing
// reachability or co-reachability."
func Connect[W Weight[W]](fst MutableFst[W]) error {
	n := fst.NumStates()
	reachable := make([]bool, n)
	start, ok := fst.Start()
	if ok {
		stack := []StateId{start}
		reachable[start] = true
		for len(stack) > 0 {
			s := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			trs, err := fst.GetTrs(s)
			if err != nil {
				return err
			}
			for _, tr := range trs {
				if !reachable[tr.NextState] {
					reachable[tr.NextState] = true
					stack = append(stack, tr.NextState)
				}
			}
		}
	}

	// Co-reachable: can this state reach a final state? Build the reverse
	// adjacency and flood from every final state.
	rev := make([][]StateId, n)
	for s := 0; s < n; s++ {
		trs, err := fst.GetTrs(StateId(s))
		if err != nil {
			return err
		}
		for _, tr := range trs {
			rev[tr.NextState] = append(rev[tr.NextState], StateId(s))
		}
	}
	coReachable := make([]bool, n)
	var stack []StateId
	for s := 0; s < n; s++ {
		_, final, err := fst.FinalWeight(StateId(s))
		if err != nil {
			return err
		}
		if final {
			coReachable[s] = true
			stack = append(stack, StateId(s))
		}
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range rev[s] {
			if !coReachable[p] {
				coReachable[p] = true
				stack = append(stack, p)
			}
		}
	}

	var doomed []StateId
	for s := 0; s < n; s++ {
		if !reachable[s] || !coReachable[s] {
			doomed = append(doomed, StateId(s))
		}
	}
	if glog.V(1) {
		glog.Infof("connect: removing %d of %d states", len(doomed), n)
	}
	if len(doomed) == 0 {
		fst.SetPropertiesWithMask(Connected, Connected)
		return nil
	}
	if err := fst.DelStates(doomed); err != nil {
		return err
	}
	fst.SetPropertiesWithMask(Connected, Connected)
	return nil
}
