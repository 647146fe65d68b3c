package wfst

import "github.com/golang/glog"

// FstProperties is the bitset of structural facts spec.md §3/§9 describes
// as "both a computed cache and a commitment": once a bit is set it must
// truly hold, and any mutation that might invalidate a bit must either
// clear it or re-prove it. Modeled on rustfst's FstProperties
// (mutable_fst.rs's compute_and_update_properties), generalized from a
// single opaque bitset to named Go bits.
type FstProperties uint32

const (
	Acyclic FstProperties = 1 << iota
	TopSorted
	IDeterministic
	ODeterministic
	EpsilonFree
	IEpsilonFree
	OEpsilonFree
	Acceptor
	UnweightedCycles
	Connected

	noProperties FstProperties = 0
	allProperties = Acyclic | TopSorted | IDeterministic | ODeterministic |
		EpsilonFree | IEpsilonFree | OEpsilonFree | Acceptor | UnweightedCycles | Connected
)

// Has reports whether every bit in mask is set.
func (p FstProperties) Has(mask FstProperties) bool { return p&mask == mask }

// Clear returns p with every bit in mask unset.
func (p FstProperties) Clear(mask FstProperties) FstProperties { return p &^ mask }

// With returns p with every bit in mask set.
func (p FstProperties) With(mask FstProperties) FstProperties { return p | mask }

// mutationInvalidates is the mask of bits a given mutation kind might
// falsify; callers of the mutable WFST clear these unconditionally unless
// they have separately re-proved the bit (spec.md §4.1 "Property
// maintenance"). Grounded in rustfst's per-method property masks
// documented throughout mutable_fst.rs ("Be careful as this function
// doesn't update the FstProperties").
var (
	propsInvalidatedByAddState   = Acyclic | TopSorted | Connected | UnweightedCycles
	propsInvalidatedByAddTr      = Acyclic | TopSorted | IDeterministic | ODeterministic |
		EpsilonFree | IEpsilonFree | OEpsilonFree | Acceptor | UnweightedCycles | Connected
	propsInvalidatedByDelState   = allProperties
	propsInvalidatedByTrEdit     = propsInvalidatedByAddTr
)

// computeProperties re-derives the bits named in mask by direct
// inspection of fst, returning the subset of mask that holds. Connected
// and UnweightedCycles are not inspected and are never reported as
// holding. This backs
// MutableFst.ComputeAndUpdateProperties; algorithms should call that once
// rather than guessing at individual bits, per spec.md §9.
func computeProperties[W Weight[W]](fst ExpandedFst[W], mask FstProperties) FstProperties {
	var result FstProperties
	n := fst.NumStates()

	if mask.Has(Acceptor) {
		acceptor := true
	loopAcceptor:
		for s := StateId(0); int(s) < n; s++ {
			trs, err := fst.GetTrs(s)
			if err != nil {
				acceptor = false
				break
			}
			for _, tr := range trs {
				if tr.Ilabel != tr.Olabel {
					acceptor = false
					break loopAcceptor
				}
			}
		}
		if acceptor {
			result |= Acceptor
		}
	}

	if mask.Has(EpsilonFree) || mask.Has(IEpsilonFree) || mask.Has(OEpsilonFree) {
		iFree, oFree := true, true
		for s := StateId(0); int(s) < n; s++ {
			trs, err := fst.GetTrs(s)
			if err != nil {
				iFree, oFree = false, false
				break
			}
			for _, tr := range trs {
				if tr.Ilabel == Epsilon {
					iFree = false
				}
				if tr.Olabel == Epsilon {
					oFree = false
				}
			}
		}
		if iFree {
			result |= IEpsilonFree
		}
		if oFree {
			result |= OEpsilonFree
		}
		if iFree && oFree {
			result |= EpsilonFree
		}
	}

	if mask.Has(IDeterministic) || mask.Has(ODeterministic) {
		iDet, oDet := true, true
		for s := StateId(0); int(s) < n; s++ {
			trs, err := fst.GetTrs(s)
			if err != nil {
				iDet, oDet = false, false
				break
			}
			seenI := map[Label]bool{}
			seenO := map[Label]bool{}
			for _, tr := range trs {
				if seenI[tr.Ilabel] {
					iDet = false
				}
				seenI[tr.Ilabel] = true
				if seenO[tr.Olabel] {
					oDet = false
				}
				seenO[tr.Olabel] = true
			}
		}
		if iDet {
			result |= IDeterministic
		}
		if oDet {
			result |= ODeterministic
		}
	}

	if mask.Has(Acyclic) || mask.Has(TopSorted) {
		acyclic, topSorted := detectAcyclicTopSorted(fst)
		if acyclic {
			result |= Acyclic
			if topSorted {
				result |= TopSorted
			}
		}
	}

	if glog.V(2) {
		glog.Infof("computeProperties: requested %b, holds %b", mask, result)
	}
	return result & mask
}

// detectAcyclicTopSorted does one DFS-based check: acyclic iff no back
// edge; top-sorted iff every transition goes from a lower to a higher (or
// equal, only for self-loops which are themselves cycles and thus excluded
// by acyclicity) numbered state, which is the definition top_sort's result
// satisfies (see topsort.go).
func detectAcyclicTopSorted[W Weight[W]](fst ExpandedFst[W]) (acyclic, topSorted bool) {
	n := fst.NumStates()
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]uint8, n)
	acyclic = true
	topSorted = true

	var visit func(s StateId)
	visit = func(s StateId) {
		color[s] = gray
		trs, err := fst.GetTrs(s)
		if err == nil {
			for _, tr := range trs {
				if tr.NextState <= s {
					topSorted = false
				}
				switch color[tr.NextState] {
				case white:
					visit(tr.NextState)
				case gray:
					acyclic = false
				}
			}
		}
		color[s] = black
	}
	for s := StateId(0); int(s) < n; s++ {
		if color[s] == white {
			visit(s)
		}
	}
	if !acyclic {
		topSorted = false
	}
	return acyclic, topSorted
}
