package wfst

import (
	"sort"

	"github.com/golang/glog"
)

// This file is the determinization engine (spec.md §4.5), grounded on
// rustfst's DeterminizeFsaOp/DeterminizeFsa (determinize_fsa.rs):
// weighted subset construction lazily expanded through a LazyFst, with a
// CommonDivisor strategy object factoring out residual weight per output
// transition exactly as the original's CommonDivisor trait does. Like the
// original, this only determinizes acceptors (Ilabel == Olabel); a
// transducer must first be run through a label-pairing encode step,
// which is outside the algorithm set this package ships (see spec.md
// Non-goals).

// CommonDivisor factors a set of weights sharing an output label into one
// divisor weight, the residual each contributing NFA path keeps after
// dividing it out. Grounded on rustfst's CommonDivisor trait
// (algorithms/determinize/divisors.rs, referenced from determinize_fsa.rs).
type CommonDivisor[W DeterminizableWeight[W]] interface {
	Divisor(weights []W) W
}

// DefaultCommonDivisor takes Plus across the weights, the natural choice
// for idempotent semirings (Tropical, Boolean) where Plus is already a
// selection (min/or) rather than an accumulation: Plus of
// the candidates is exactly "the best of them," which is what every path
// through the determinized output should keep on its transition and push
// any excess into the residual.
type DefaultCommonDivisor[W DeterminizableWeight[W]] struct{}

func (DefaultCommonDivisor[W]) Divisor(weights []W) W {
	if len(weights) == 0 {
		var zero W
		return zero
	}
	d := weights[0]
	for _, w := range weights[1:] {
		d = d.Plus(w)
	}
	return d
}

// DeterminizeOptions configures the determinization engine.
type DeterminizeOptions[W DeterminizableWeight[W]] struct {
	// Divisor picks the CommonDivisor strategy; nil defaults to
	// DefaultCommonDivisor.
	Divisor CommonDivisor[W]
	// Delta is the quantization tolerance used to canonicalize subset
	// keys; 0 defaults to defaultQuantizeDelta.
	Delta float32
	// MaxStates bounds the number of output states the engine will
	// materialize before giving up with ErrNotConvergent. 0 means
	// unbounded, which is only safe to request when the input is known to
	// satisfy the twins property (spec.md Open Question resolution #1).
	MaxStates int
}

type determinizeOp[W DeterminizableWeight[W]] struct {
	src     ExpandedFst[W]
	divisor CommonDivisor[W]
	delta   float32
	maxN    int
	cache   *subsetCache[W]
	distance []W // out_dist: ⊗-product of the divisors on the path that first reached each output state, indexed by StateId
}

// NewDeterminizeFsa builds the lazy determinized view of src, which must
// be an acceptor (a MutableFst can be checked first with
// ComputeAndUpdateProperties(Acceptor); NewDeterminizeFsa itself does not re-derive it to stay O(1) to
// construct, matching the original's laziness).
func NewDeterminizeFsa[W DeterminizableWeight[W]](src ExpandedFst[W], opts DeterminizeOptions[W]) *LazyFst[W] {
	if opts.Divisor == nil {
		opts.Divisor = DefaultCommonDivisor[W]{}
	}
	if opts.Delta == 0 {
		opts.Delta = defaultQuantizeDelta
	}
	op := &determinizeOp[W]{
		src:     src,
		divisor: opts.Divisor,
		delta:   opts.Delta,
		maxN:    opts.MaxStates,
		cache:   newSubsetCache[W](opts.Delta),
	}
	lf := NewLazyFst[W](op)
	lf.SetKnownProperties(IDeterministic | EpsilonFree | IEpsilonFree)
	return lf
}

func (op *determinizeOp[W]) InputSymbols() *SymbolTable  { return op.src.InputSymbols() }
func (op *determinizeOp[W]) OutputSymbols() *SymbolTable { return op.src.OutputSymbols() }

func (op *determinizeOp[W]) ComputeStart() (StateId, bool, error) {
	start, ok := op.src.Start()
	if !ok {
		var zero StateId
		return zero, false, nil
	}
	var one W
	one = one.One()
	set := subset[W]{{state: start, residual: one}}
	id, _ := op.cache.FindOrInsert(set)
	op.growDistance(id, one)
	return id, true, nil
}

func (op *determinizeOp[W]) ComputeFinalWeight(s StateId) (W, bool, error) {
	set := op.cache.Subset(s)
	var acc W
	acc = acc.Zero()
	anyFinal := false
	for _, e := range set {
		fw, ok, err := op.src.FinalWeight(e.state)
		if err != nil {
			var z W
			return z, false, err
		}
		if !ok {
			continue
		}
		anyFinal = true
		acc = acc.Plus(e.residual.Times(fw))
	}
	return acc, anyFinal, nil
}

func (op *determinizeOp[W]) ComputeTrs(s StateId) ([]Tr[W], error) {
	set := op.cache.Subset(s)

	type group struct {
		weights []W
		dest    []subsetElement[W]
	}
	groups := map[Label]*group{}
	var order []Label

	for _, e := range set {
		trs, err := op.src.GetTrs(e.state)
		if err != nil {
			return nil, err
		}
		for _, tr := range trs {
			g, ok := groups[tr.Ilabel]
			if !ok {
				g = &group{}
				groups[tr.Ilabel] = g
				order = append(order, tr.Ilabel)
			}
			w := e.residual.Times(tr.Weight)
			g.weights = append(g.weights, w)
			g.dest = append(g.dest, subsetElement[W]{state: tr.NextState, residual: w})
		}
	}

	out := make([]Tr[W], 0, len(order))
	for _, label := range order {
		g := groups[label]
		divisor := op.divisor.Divisor(g.weights)
		nextSet := make(subset[W], 0, len(g.dest))
		byState := map[StateId]W{}
		var stateOrder []StateId
		for _, d := range g.dest {
			residual, ok := d.residual.Divide(divisor)
			if !ok {
				return nil, newErr("ComputeTrs", UnsupportedSemiring,
					"weight %s is not divisible by common divisor %s", d.residual.String(), divisor.String())
			}
			if acc, seen := byState[d.state]; seen {
				byState[d.state] = acc.Plus(residual)
			} else {
				byState[d.state] = residual
				stateOrder = append(stateOrder, d.state)
			}
		}
		sort.Slice(stateOrder, func(i, j int) bool { return stateOrder[i] < stateOrder[j] })
		for _, st := range stateOrder {
			nextSet = append(nextSet, subsetElement[W]{state: st, residual: byState[st]})
		}

		nextId, created := op.cache.FindOrInsert(nextSet)
		if created {
			if op.maxN > 0 && int(nextId)+1 > op.maxN {
				return nil, newErr("ComputeTrs", NotConvergent,
					"determinization exceeded MaxStates=%d", op.maxN)
			}
			op.growDistance(nextId, op.distance[s].Times(divisor))
			if glog.V(1) {
				glog.Infof("determinize: materialized state %d (subset size %d)", nextId, len(nextSet))
			}
		}
		out = append(out, NewTr(label, label, divisor, nextId))
	}
	return out, nil
}

func (op *determinizeOp[W]) growDistance(id StateId, w W) {
	for int(id) >= len(op.distance) {
		var zero W
		op.distance = append(op.distance, zero.Zero())
	}
	op.distance[id] = w
}

// Determinize runs the determinization engine to completion and returns
// a fully materialized VectorFst, the Go analogue of
// DeterminizeFsa::compute. src must be an acceptor.
func Determinize[W DeterminizableWeight[W]](src ExpandedFst[W], opts DeterminizeOptions[W]) (*VectorFst[W], error) {
	dfst, _, err := DeterminizeWithDistance(src, opts)
	return dfst, err
}

// DeterminizeWithDistance additionally returns the out-distance vector:
// distance[s] is the divisor weight accumulated on the path that first
// discovered output state s, matching DeterminizeFsa::compute_with_distance
// / out_dist exactly (SPEC_FULL.md Supplement).
func DeterminizeWithDistance[W DeterminizableWeight[W]](src ExpandedFst[W], opts DeterminizeOptions[W]) (*VectorFst[W], []W, error) {
	if opts.Divisor == nil {
		opts.Divisor = DefaultCommonDivisor[W]{}
	}
	if opts.Delta == 0 {
		opts.Delta = defaultQuantizeDelta
	}
	lf := NewDeterminizeFsa[W](src, opts)
	op := lf.op.(*determinizeOp[W])
	dfst, err := Compute(lf)
	if err != nil {
		return nil, nil, err
	}
	return dfst, op.distance, nil
}
