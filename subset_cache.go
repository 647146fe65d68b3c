package wfst

import "github.com/cespare/xxhash/v2"

// subsetElement is one (state, residual weight) pair inside a weighted
// subset during determinization, the Go analogue of rustfst's
// WeightedSubsetElement.
type subsetElement[W Weight[W]] struct {
	state    StateId
	residual W
}

// subset is a canonicalized weighted subset: sorted by state id so that
// two equal subsets (same states, same residuals after quantization)
// produce identical keys regardless of discovery order.
type subset[W Weight[W]] []subsetElement[W]

// canonicalKey renders the subset into a byte string suitable for hashing
// and equality comparison, quantizing each residual weight first so that
// two subsets differing only by floating-point noise below delta collapse
// to one state — the same role rustfst's WeightedSubset::hash plays via
// Quantize before hashing.
func (s subset[W]) canonicalKey(delta float32) []byte {
	buf := make([]byte, 0, len(s)*12)
	var scratch [4]byte
	putU32 := func(v uint32) {
		scratch[0] = byte(v)
		scratch[1] = byte(v >> 8)
		scratch[2] = byte(v >> 16)
		scratch[3] = byte(v >> 24)
		buf = append(buf, scratch[:]...)
	}
	for _, e := range s {
		putU32(uint32(e.state))
		q := any(e.residual)
		if dq, ok := q.(interface{ Quantize(float32) W }); ok {
			buf = append(buf, dq.Quantize(delta).String()...)
		} else {
			buf = append(buf, e.residual.String()...)
		}
	}
	return buf
}

// subsetCacheEntry is one open-addressing slot: used distinguishes an
// empty slot from a stored (key hash, subset, canonical StateId) triple.
// Grounded directly on probing_impl.go's xqwEntry/xqwBuckets linear
// probing, generalized from a fixed word.Id key to a variable-length,
// explicitly-hashed subset key (via github.com/cespare/xxhash/v2, since
// the teacher's WordIdHash fast-hash assumes a fixed-width integer key
// and subsets here are not, see DESIGN.md).
type subsetCacheEntry[W Weight[W]] struct {
	used    bool
	keyHash uint64
	key     []byte
	set     subset[W]
	state   StateId
}

// subsetCache is the canonical subset -> StateId map the determinization
// engine consults before materializing a new output state, the structural
// analogue of rustfst's SimpleHashMapCache but keyed by weighted subset
// rather than by StateId, since determinization's whole job is deciding
// whether a newly computed subset is one already seen under a different
// name.
type subsetCache[W Weight[W]] struct {
	buckets   []subsetCacheEntry[W]
	numUsed   int
	threshold int
	delta     float32
	nextState StateId
	sets      []subset[W] // index: StateId -> its canonical subset, for ComputeTrs lookups
}

func newSubsetCache[W Weight[W]](delta float32) *subsetCache[W] {
	return &subsetCache[W]{
		buckets:   initSubsetBuckets[W](4),
		threshold: 3,
		delta:     delta,
	}
}

func initSubsetBuckets[W Weight[W]](n int) []subsetCacheEntry[W] {
	return make([]subsetCacheEntry[W], n)
}

// FindOrInsert returns the canonical StateId for set, allocating a fresh
// one (and growing the table, doubling past the 75% load-factor
// threshold, same policy as newXqwMap's default maxUsed=0.8 rounded to a
// simpler constant since subset keys are far larger than a single word.Id)
// if set has not been seen before. created reports whether a new state
// was allocated.
func (c *subsetCache[W]) FindOrInsert(set subset[W]) (id StateId, created bool) {
	key := set.canonicalKey(c.delta)
	h := xxhash.Sum64(key)
	if id, ok := c.find(h, key); ok {
		return id, false
	}
	if c.numUsed >= c.threshold {
		c.grow(len(c.buckets) * 2)
	}
	id = c.nextState
	c.nextState++
	c.insert(h, key, set, id)
	return id, true
}

// Subset returns the canonical subset a previously assigned StateId maps
// to, used by the determinization ComputeTrs implementation to recover
// "which NFA states does this output state stand for."
func (c *subsetCache[W]) Subset(id StateId) subset[W] {
	if int(id) >= len(c.sets) {
		return nil
	}
	return c.sets[id]
}

func (c *subsetCache[W]) find(h uint64, key []byte) (StateId, bool) {
	if len(c.buckets) == 0 {
		return 0, false
	}
	i := int(h % uint64(len(c.buckets)))
	for {
		e := &c.buckets[i]
		if !e.used {
			return 0, false
		}
		if e.keyHash == h && bytesEqual(e.key, key) {
			return e.state, true
		}
		i++
		if i == len(c.buckets) {
			i = 0
		}
	}
}

func (c *subsetCache[W]) insert(h uint64, key []byte, set subset[W], id StateId) {
	i := int(h % uint64(len(c.buckets)))
	for {
		e := &c.buckets[i]
		if !e.used {
			e.used, e.keyHash, e.key, e.set, e.state = true, h, key, set, id
			c.numUsed++
			for int(id) >= len(c.sets) {
				c.sets = append(c.sets, nil)
			}
			c.sets[id] = set
			return
		}
		i++
		if i == len(c.buckets) {
			i = 0
		}
	}
}

func (c *subsetCache[W]) grow(numBuckets int) {
	old := c.buckets
	c.buckets = initSubsetBuckets[W](numBuckets)
	c.numUsed = 0
	c.threshold = numBuckets * 3 / 4
	for _, e := range old {
		if e.used {
			c.insertNoCount(e.keyHash, e.key, e.state)
		}
	}
}

func (c *subsetCache[W]) insertNoCount(h uint64, key []byte, id StateId) {
	i := int(h % uint64(len(c.buckets)))
	for {
		e := &c.buckets[i]
		if !e.used {
			e.used, e.keyHash, e.key, e.state = true, h, key, id
			c.numUsed++
			return
		}
		i++
		if i == len(c.buckets) {
			i = 0
		}
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
