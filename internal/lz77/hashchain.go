// Package lz77 finds back-references over the token stream before it
// reaches the histogram and entropy-coding stages: repeated runs of
// symbols are replaced by a (length, distance) pair, shrinking the
// alphabet the downstream histogram has to model.
package lz77

// MinMatchLength is the shortest run worth replacing with a back
// reference; shorter matches cost more to encode as a length/distance
// pair than as literals.
const MinMatchLength = 3

// hashBits sizes the hash table. windowSize is not read by the match
// search: BestMatch bounds its walk by maxChainHops, not by distance.
const (
	hashBits   = 15
	hashSize   = 1 << hashBits
	windowSize = 1 << 20
)

func hash3(a, b, c uint32) uint32 {
	h := a*506832829 + b*2654435761 + c*2246822519
	return h >> (32 - hashBits)
}

// HashChain indexes a symbol sequence by its length-3 prefixes so a
// match search can jump directly to candidate positions instead of
// scanning the whole history, mirroring the teacher's hash-chain match
// finder generalized from byte pixels to arbitrary uint32 symbols.
//
// Runs of identical values (most commonly zero, the fill value of
// sparse residual streams) all hash to the same bucket and would
// otherwise dominate and starve the general chain's hop budget without
// ever producing a better match than "the previous run of the same
// value" — so zero runs are tracked separately in zeroHead/zeroPrev,
// a dedicated chain over only the positions that begin a zero run.
type HashChain struct {
	data []uint32
	head []int32 // hashSize entries, most recent position for a hash, or -1
	prev []int32 // one entry per position, previous position sharing the same hash, or -1

	zeroHead int32   // most recent position starting a zero run, or -1
	zeroPrev []int32 // one entry per zero-run-start position, or -1
}

// NewHashChain indexes data for match search.
func NewHashChain(data []uint32) *HashChain {
	hc := &HashChain{
		data:     data,
		head:     make([]int32, hashSize),
		prev:     make([]int32, len(data)),
		zeroHead: -1,
		zeroPrev: make([]int32, len(data)),
	}
	for i := range hc.head {
		hc.head[i] = -1
	}
	for i := range data {
		hc.prev[i] = -1
		hc.zeroPrev[i] = -1
	}
	for i := 0; i+2 < len(data); i++ {
		h := hash3(data[i], data[i+1], data[i+2])
		hc.prev[i] = hc.head[h]
		hc.head[h] = int32(i)
		if data[i] == 0 && (i == 0 || data[i-1] != 0) {
			hc.zeroPrev[i] = hc.zeroHead
			hc.zeroHead = int32(i)
		}
	}
	return hc
}

// matchLength returns how many consecutive symbols starting at a and b
// agree, capped at maxLen.
func (hc *HashChain) matchLength(a, b, maxLen int) int {
	n := 0
	data := hc.data
	for n < maxLen && data[a+n] == data[b+n] {
		n++
	}
	return n
}

// BestMatch searches the chain for the longest match ending at or
// before pos-1 that extends forward from pos, subject to maxChainHops
// link traversals (bounding worst-case search time the way the
// teacher's match finder bounds its own chain walk). It returns the
// match length and distance (pos - matchPos); length is 0 if nothing
// at least MinMatchLength long was found.
//
// When pos holds a zero, the dedicated zero-run chain is consulted
// first: any earlier zero-run start is an equally valid
// match source (the run's value never varies), so the nearest one is
// always at least as good as anything the general chain's hop budget
// would find and costs a single lookup instead of a walk.
func (hc *HashChain) BestMatch(pos int, maxChainHops int) (length, distance int) {
	if pos+2 >= len(hc.data) {
		return 0, 0
	}
	if hc.data[pos] == 0 {
		cand := hc.zeroHead
		for cand >= 0 && int(cand) >= pos {
			cand = hc.zeroPrev[cand]
		}
		if cand >= 0 {
			l := hc.matchLength(int(cand), pos, len(hc.data)-pos)
			if l >= MinMatchLength {
				// The nearest zero-run start is the cheapest distance to
				// encode; it matches at least as far as min(its own run
				// length, the current run's length), which in practice
				// covers the whole current run unless an unrelated
				// non-zero value interrupts it sooner than a farther
				// candidate would.
				length, distance = l, pos-int(cand)
			}
		}
	}

	h := hash3(hc.data[pos], hc.data[pos+1], hc.data[pos+2])
	cand := hc.head[h]
	maxLen := len(hc.data) - pos
	hops := 0
	for cand >= 0 && hops < maxChainHops {
		// head/prev link insertion order, which need not be position
		// order relative to pos: the chain is built once over the whole
		// sequence before any query, so a bucket's head can sit past pos
		// for queries made against an earlier position. Such a candidate
		// is not a valid backward reference (and matchLength would read
		// past the end of data using it), so it is skipped rather than
		// matched.
		if int(cand) < pos {
			l := hc.matchLength(int(cand), pos, maxLen)
			if l > length && l >= MinMatchLength {
				length = l
				distance = pos - int(cand)
			}
		}
		cand = hc.prev[cand]
		hops++
	}
	return length, distance
}
