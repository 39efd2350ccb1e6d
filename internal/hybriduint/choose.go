package hybriduint

import "math"

// Method selects how ChooseConfig searches for a per-context
// hybrid-uint split, mirroring the reference's HybridUintMethod enum.
type Method int

const (
	// MethodBest brute-forces a wide candidate catalogue and keeps
	// whichever config minimizes the estimated token-stream cost.
	// Slowest, highest quality; this is ChooseConfig's original
	// (and still default) behavior.
	MethodBest Method = iota
	// MethodFast brute-forces a small four-entry catalogue instead of
	// the full one, trading search thoroughness for speed.
	MethodFast
	// MethodNone skips the search entirely and returns the zero
	// Config, which is the same split as New(0, 0, 0). Mirrors the
	// reference leaving uint_config untouched.
	MethodNone
	// MethodContextMap always returns New(2, 0, 1), the split the
	// reference uses for context-map streams themselves.
	MethodContextMap
	// Method000 always returns New(0, 0, 0): 0 is token 0, and every
	// other value's token is only its size class (1 + floor(log2 v)),
	// with all bits below its leading one emitted raw.
	Method000
)

// bestCandidates is the reference's kBest catalogue: every split worth
// trying when search cost doesn't matter, from direct single-token
// coding up through splits tuned for particular tail shapes.
var bestCandidates = []Config{
	New(4, 2, 0), New(4, 1, 0), New(4, 2, 1), New(4, 2, 2), New(4, 1, 2),
	New(5, 2, 0), New(5, 1, 0), New(5, 2, 1), New(5, 2, 2), New(5, 1, 2),
	New(3, 2, 0), New(3, 1, 0), New(3, 2, 1), New(3, 1, 2),
	New(4, 1, 3), New(5, 1, 4), New(5, 2, 3), New(6, 1, 5), New(6, 2, 4), New(6, 0, 0),
	New(0, 0, 0), New(2, 0, 1), New(7, 0, 0), New(8, 0, 0), New(9, 0, 0),
	New(10, 0, 0), New(11, 0, 0), New(12, 0, 0),
}

// fastCandidates is the reference's kFast catalogue: a handful of
// splits covering the common cases without the kBest sweep.
var fastCandidates = []Config{
	New(4, 2, 0), New(4, 1, 2), New(0, 0, 0), New(2, 0, 1),
}

// ChooseConfig picks a hybrid-uint split for values under method. For
// MethodBest and MethodFast this brute-forces the matching candidate
// catalogue, picking whichever minimizes the total number of bits
// splitting would cost over values (each value's token-alphabet entropy
// contribution plus its raw-bit count), the same way ans.ChooseMethod
// prices competing shifts before committing to one. A candidate that
// maps any value to a token at or above maxTokenAlphabet is never
// picked. MethodNone, MethodContextMap, and Method000 return a fixed
// config with no search.
func ChooseConfig(values []uint32, method Method) Config {
	switch method {
	case MethodNone:
		return Config{}
	case MethodContextMap:
		return New(2, 0, 1)
	case Method000:
		return New(0, 0, 0)
	case MethodFast:
		return bruteForce(fastCandidates, values)
	default:
		return bruteForce(bestCandidates, values)
	}
}

func bruteForce(candidates []Config, values []uint32) Config {
	best := candidates[0]
	bestCost := math.Inf(1)
	for _, cfg := range candidates {
		cost := estimateCost(cfg, values)
		if cost < bestCost {
			bestCost = cost
			best = cfg
		}
	}
	return best
}

// maxTokenAlphabet is the 8-bit ANS alphabet size; estimateCost prices a
// candidate that produces a token at or above it as +Inf.
const maxTokenAlphabet = 1 << 8

func estimateCost(cfg Config, values []uint32) float64 {
	counts := map[uint32]uint32{}
	var rawBits float64
	for _, v := range values {
		token, nbits, _ := cfg.Encode(v)
		if token >= maxTokenAlphabet {
			return math.Inf(1)
		}
		counts[token]++
		rawBits += float64(nbits)
	}
	if len(values) == 0 {
		return 0
	}
	var total uint32
	for _, c := range counts {
		total += c
	}
	var entropy float64
	for _, c := range counts {
		p := float64(c) / float64(total)
		entropy -= float64(c) * math.Log2(p)
	}
	return entropy + rawBits
}
