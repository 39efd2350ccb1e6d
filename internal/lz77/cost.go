package lz77

import "math"

// costModel gives the back-reference search a cheap way to compare a
// candidate match's cost against the literals it would replace,
// without the real per-context histograms (those do not exist yet at
// LZ77 time — building them is downstream of this pass). It is built
// from a single pass over the token values, the same "fast
// preliminary histogram" compromise the reference's LZ77 cost
// estimator makes for the same reason.
type costModel struct {
	counts map[uint32]uint32
	total  uint32
}

func newCostModel(data []uint32) *costModel {
	cm := &costModel{counts: make(map[uint32]uint32, len(data)/2+1)}
	for _, v := range data {
		cm.counts[v]++
		cm.total++
	}
	return cm
}

// literalCost estimates the bits a single literal value would cost
// under the preliminary histogram; unseen values (impossible here,
// since the model is built from the same data) fall back to a flat
// one-count estimate rather than -log2(0).
func (cm *costModel) literalCost(v uint32) float64 {
	if cm.total == 0 {
		return 8
	}
	c := cm.counts[v]
	if c == 0 {
		c = 1
	}
	return -math.Log2(float64(c) / float64(cm.total+1))
}

// literalsCost sums literalCost over a run, the baseline a match
// covering that same run is compared against.
func (cm *costModel) literalsCost(data []uint32) float64 {
	var total float64
	for _, v := range data {
		total += cm.literalCost(v)
	}
	return total
}

// symbolCost estimates the hybrid-uint token cost of a length or
// distance value that will itself become a token in a
// not-yet-built histogram: log2(v+2) as a flat proxy for "symbol plus
// raw bits", cheap enough to evaluate inside the match-search inner
// loop.
func symbolCost(v int) float64 {
	if v < 0 {
		v = 0
	}
	return math.Log2(float64(v) + 2)
}

// addSymbolPenalty is the spec's add_symbol_penalty(context) term: a
// flat cost standing in for the overhead of introducing length and
// distance contexts alongside the literal one, since this package
// does not model per-context acceptance costs beyond the single
// stream it is searching.
const addSymbolPenalty = 2.0

// matchCost is cost(length-symbol) + cost(distance-symbol) +
// add_symbol_penalty(context) from spec.md §4.8's acceptance rule.
func matchCost(length, distance int) float64 {
	return symbolCost(length-MinMatchLength) + symbolCost(distance-1) + addSymbolPenalty
}
