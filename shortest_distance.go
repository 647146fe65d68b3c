package wfst

// This file implements shortest distance (spec.md §4.4), a FIFO-queue
// relaxation grounded verbatim on
// original_source/src/algorithms/single_source_shortest_distance.rs: for
// idempotent or k-closed semirings the queue drains in a bounded number
// of relaxations; for general semirings on a cyclic WFST it is only
// guaranteed to converge if the weights quantize towards a fixed point,
// which is why NotConvergent exists as an escape hatch (see MaxRelax
// below — not present in the original, added per spec.md §7's requirement
// that iterative algorithms have a bailout).

// ShortestDistanceOptions bounds the relaxation loop. The original
// algorithm has no such bound because Rust's test corpus never exercises
// a non-terminating case; this package's spec requires one (spec.md §7
// NotConvergent).
type ShortestDistanceOptions struct {
	// MaxRelax caps the number of queue pops before giving up with
	// ErrNotConvergent. 0 means unbounded.
	MaxRelax int
}

// SingleSourceShortestDistance computes, for every state, the ⊕-sum of
// the weights of all paths from source to that state. States unreachable
// from source get the semiring's Zero. Matches
// single_source_shortest_distance.rs's doctest scenario exactly (S1/S2 in
// spec.md's testable properties).
func SingleSourceShortestDistance[W Weight[W]](fst ExpandedFst[W], source StateId, opts ShortestDistanceOptions) ([]W, error) {
	n := fst.NumStates()
	d := make([]W, n)
	r := make([]W, n)
	for i := range d {
		var zero W
		d[i] = zero.Zero()
		r[i] = zero.Zero()
	}
	if int(source) >= n {
		return d, nil
	}

	var one W
	one = one.One()
	d[source] = one
	r[source] = one

	queue := []StateId{source}
	queued := map[StateId]bool{source: true}
	relax := 0

	for len(queue) > 0 {
		if opts.MaxRelax > 0 && relax >= opts.MaxRelax {
			return nil, newErr("SingleSourceShortestDistance", NotConvergent,
				"exceeded MaxRelax=%d relaxations", opts.MaxRelax)
		}
		relax++

		s := queue[0]
		queue = queue[1:]
		queued[s] = false
		r2 := r[s]
		var zero W
		r[s] = zero.Zero()

		trs, err := fst.GetTrs(s)
		if err != nil {
			return nil, err
		}
		for _, tr := range trs {
			cand := r2.Times(tr.Weight)
			next := d[tr.NextState].Plus(cand)
			if next != d[tr.NextState] {
				d[tr.NextState] = next
				r[tr.NextState] = r[tr.NextState].Plus(cand)
				if !queued[tr.NextState] {
					queue = append(queue, tr.NextState)
					queued[tr.NextState] = true
				}
			}
		}
	}
	return d, nil
}

// ShortestDistance computes the shortest distance from fst's start state
// to every state, or a vector of Zero if fst has no start state.
func ShortestDistance[W Weight[W]](fst ExpandedFst[W], opts ShortestDistanceOptions) ([]W, error) {
	start, ok := fst.Start()
	if !ok {
		n := fst.NumStates()
		d := make([]W, n)
		for i := range d {
			var zero W
			d[i] = zero.Zero()
		}
		return d, nil
	}
	return SingleSourceShortestDistance(fst, start, opts)
}
