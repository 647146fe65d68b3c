package wfst

import (
	"flag"
	"math"
	"strconv"
)

// WeightProperties describes the static algebraic facts a weight type
// advertises about its semiring. Unlike FstProperties (properties.go),
// these never change: they are a fact about the type, not a particular
// value.
type WeightProperties uint8

const (
	// Commutative means a.Plus(b) == b.Plus(a) for all a, b (true of every
	// semiring in this package; kept explicit since algorithms like
	// isomorphic testing care).
	Commutative WeightProperties = 1 << iota
	// Idempotent means a.Plus(a) == a; this (or acyclicity) is what makes
	// SingleSourceShortestDistance terminate on a cyclic WFST.
	Idempotent
	// Path means Plus selects a single best operand rather than summing
	// mass (e.g. min in Tropical). ShortestPath requires this.
	Path
)

// Weight is the algebraic interface every semiring value type implements.
// W is the concrete weight type itself (e.g. TropicalWeight implements
// Weight[TropicalWeight]); this curiously-recurring shape is how Go
// generics express "operations return Self" without an associated-type
// mechanism.
type Weight[W any] interface {
	comparable

	Plus(b W) W
	Times(b W) W
	Zero() W
	One() W
	ApproxEqual(b W, delta float32) bool
	Properties() WeightProperties
	String() string
}

// WeaklyDivisible is the optional capability required by determinization:
// Divide(b) returns c such that b.Times(c) == a (for a.Divide(b)), when a
// left-inverse exists. ok is false when no inverse exists (e.g. dividing by
// the semiring's zero).
type WeaklyDivisible[W any] interface {
	Divide(b W) (c W, ok bool)
}

// Quantizable bins floating-point weights into finite equivalence classes so
// they can be used as hash keys. This is a prerequisite for determinization
// (see subset_cache.go) exactly as spec'd: without it floating point drift
// would prevent the subset construction from converging on repeated states.
type Quantizable[W any] interface {
	Quantize(delta float32) W
}

// DeterminizableWeight bundles the capabilities the determinization engine
// needs. Spelled out as its own interface so determinize.go has one
// constraint to name instead of three.
type DeterminizableWeight[W any] interface {
	Weight[W]
	WeaklyDivisible[W]
	Quantizable[W]
}

const defaultQuantizeDelta = float32(1e-6)

// TropicalWeight is the min-plus semiring: Plus = min, Times = +, Zero =
// +Inf, One = 0. Has the path property. The workhorse of shortest-path
// speech and text pipelines.
type TropicalWeight float32

func (w TropicalWeight) Plus(b TropicalWeight) TropicalWeight {
	if w < b {
		return w
	}
	return b
}
func (w TropicalWeight) Times(b TropicalWeight) TropicalWeight { return w + b }
func (w TropicalWeight) Zero() TropicalWeight                  { return TropicalWeight(math.Inf(1)) }
func (w TropicalWeight) One() TropicalWeight                   { return 0 }
func (w TropicalWeight) ApproxEqual(b TropicalWeight, delta float32) bool {
	return approxEqualFloat(float32(w), float32(b), delta)
}
func (w TropicalWeight) Properties() WeightProperties { return Commutative | Idempotent | Path }
func (w TropicalWeight) String() string                { return formatWeight(float32(w)) }
func (w TropicalWeight) Divide(b TropicalWeight) (TropicalWeight, bool) {
	if math.IsInf(float64(b), 1) {
		return 0, false
	}
	return w - b, true
}
func (w TropicalWeight) Quantize(delta float32) TropicalWeight {
	return TropicalWeight(quantizeFloat(float32(w), delta))
}

// Set implements flag.Value, following basic.go's Weight.Set so a
// TropicalWeight can be supplied as a command-line flag default the way
// fslm.log0 was.
func (w *TropicalWeight) Set(s string) error {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return err
	}
	*w = TropicalWeight(f)
	return nil
}

var _ flag.Value = (*TropicalWeight)(nil)

// LogWeight is the log semiring: Plus = -log(e^-a + e^-b), Times = +.
// Unlike Tropical it sums probability mass rather than selecting a best
// path, so it does not have the path property.
type LogWeight float32

func (w LogWeight) Plus(b LogWeight) LogWeight {
	if math.IsInf(float64(w), 1) {
		return b
	}
	if math.IsInf(float64(b), 1) {
		return w
	}
	// log(e^-a + e^-b) computed in a numerically stable way.
	if w < b {
		w, b = b, w
	}
	return LogWeight(float64(b) - math.Log1p(math.Exp(float64(b)-float64(w))))
}
func (w LogWeight) Times(b LogWeight) LogWeight { return w + b }
func (w LogWeight) Zero() LogWeight             { return LogWeight(math.Inf(1)) }
func (w LogWeight) One() LogWeight              { return 0 }
func (w LogWeight) ApproxEqual(b LogWeight, delta float32) bool {
	return approxEqualFloat(float32(w), float32(b), delta)
}
func (w LogWeight) Properties() WeightProperties { return Commutative }
func (w LogWeight) String() string                { return formatWeight(float32(w)) }
func (w LogWeight) Divide(b LogWeight) (LogWeight, bool) {
	if math.IsInf(float64(b), 1) {
		return 0, false
	}
	return w - b, true
}
func (w LogWeight) Quantize(delta float32) LogWeight {
	return LogWeight(quantizeFloat(float32(w), delta))
}

// ProbabilityWeight is the ordinary (+, x) probability semiring.
type ProbabilityWeight float32

func (w ProbabilityWeight) Plus(b ProbabilityWeight) ProbabilityWeight  { return w + b }
func (w ProbabilityWeight) Times(b ProbabilityWeight) ProbabilityWeight { return w * b }
func (w ProbabilityWeight) Zero() ProbabilityWeight                    { return 0 }
func (w ProbabilityWeight) One() ProbabilityWeight                     { return 1 }
func (w ProbabilityWeight) ApproxEqual(b ProbabilityWeight, delta float32) bool {
	return approxEqualFloat(float32(w), float32(b), delta)
}
func (w ProbabilityWeight) Properties() WeightProperties { return Commutative }
func (w ProbabilityWeight) String() string                { return formatWeight(float32(w)) }
func (w ProbabilityWeight) Divide(b ProbabilityWeight) (ProbabilityWeight, bool) {
	if b == 0 {
		return 0, false
	}
	return w / b, true
}
func (w ProbabilityWeight) Quantize(delta float32) ProbabilityWeight {
	return ProbabilityWeight(quantizeFloat(float32(w), delta))
}

// BooleanWeight is the (∨, ∧) semiring used for unweighted acceptors.
type BooleanWeight bool

func (w BooleanWeight) Plus(b BooleanWeight) BooleanWeight  { return w || b }
func (w BooleanWeight) Times(b BooleanWeight) BooleanWeight { return w && b }
func (w BooleanWeight) Zero() BooleanWeight                 { return false }
func (w BooleanWeight) One() BooleanWeight                  { return true }
func (w BooleanWeight) ApproxEqual(b BooleanWeight, _ float32) bool {
	return w == b
}
func (w BooleanWeight) Properties() WeightProperties { return Commutative | Idempotent | Path }
func (w BooleanWeight) String() string {
	if w {
		return "1"
	}
	return "0"
}
func (w BooleanWeight) Divide(b BooleanWeight) (BooleanWeight, bool) {
	if !b {
		return false, false
	}
	return w, true
}
func (w BooleanWeight) Quantize(_ float32) BooleanWeight { return w }

// IntegerWeight is the (+, x) counting semiring over integers: Plus = sum,
// Times = product, Zero = 0, One = 1. spec.md §4.2 glosses this family as
// "plus = min, times = +, used for counting/distance", but spec.md
// scenario S2 and original_source/src/algorithms/single_source_shortest_distance.rs's
// doctest (which S2 is lifted from verbatim, down to the 18/21/55 weights)
// both exercise sum-times-product arithmetic (S2 expects
// 21 + 18*55 = 1011, not min(21, 18+55)). Per this module's rule for
// resolving spec ambiguity against the original, IntegerWeight follows the
// original's (+, x) definition so the S2 scenario holds as specified; it
// therefore lacks the path property (Plus sums rather than selects a best
// operand).
type IntegerWeight int64

func (w IntegerWeight) Plus(b IntegerWeight) IntegerWeight  { return w + b }
func (w IntegerWeight) Times(b IntegerWeight) IntegerWeight { return w * b }
func (w IntegerWeight) Zero() IntegerWeight                 { return 0 }
func (w IntegerWeight) One() IntegerWeight                  { return 1 }
func (w IntegerWeight) ApproxEqual(b IntegerWeight, _ float32) bool {
	return w == b
}
func (w IntegerWeight) Properties() WeightProperties { return Commutative }
func (w IntegerWeight) String() string                { return strconv.FormatInt(int64(w), 10) }
func (w IntegerWeight) Divide(b IntegerWeight) (IntegerWeight, bool) {
	if b == 0 {
		return 0, false
	}
	q := w / b
	if q*b != w {
		return 0, false
	}
	return q, true
}
func (w IntegerWeight) Quantize(_ float32) IntegerWeight { return w }

func approxEqualFloat(a, b, delta float32) bool {
	if math.IsInf(float64(a), 1) && math.IsInf(float64(b), 1) {
		return true
	}
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= delta
}

func quantizeFloat(w, delta float32) float32 {
	if delta <= 0 {
		delta = defaultQuantizeDelta
	}
	if math.IsInf(float64(w), 1) {
		return w
	}
	return float32(math.Floor(float64(w/delta)+0.5)) * delta
}

// formatWeight mirrors basic.go's Weight.String: shortest round-trippable
// representation at 32-bit precision.
func formatWeight(f float32) string {
	if math.IsInf(float64(f), 1) {
		return "Infinity"
	}
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}
