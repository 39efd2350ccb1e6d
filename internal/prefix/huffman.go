// Package prefix builds canonical, length-limited Huffman codes for the
// entropy coder's prefix-code path: an alternative to ANS chosen when a
// histogram's context favors simplicity or decode speed over ratio.
package prefix

import (
	"container/heap"
	"sort"
)

// MaxCodeLength bounds how deep the canonical code tree may go; codes
// longer than this get redistributed by the length-limiting pass.
const MaxCodeLength = 15

// node is one entry of the Huffman merge heap: either a leaf (symbol
// set to its index, left/right -1) or an internal node.
type node struct {
	freq        uint32
	symbol      int
	left, right int
}

type nodeHeap struct {
	nodes []node
	idx   []int // indices into nodes, heap-ordered by (freq, insertion order)
}

func (h nodeHeap) Len() int { return len(h.idx) }
func (h nodeHeap) Less(i, j int) bool {
	a, b := h.nodes[h.idx[i]], h.nodes[h.idx[j]]
	if a.freq != b.freq {
		return a.freq < b.freq
	}
	return h.idx[i] < h.idx[j]
}
func (h nodeHeap) Swap(i, j int) { h.idx[i], h.idx[j] = h.idx[j], h.idx[i] }
func (h *nodeHeap) Push(x interface{}) {
	h.idx = append(h.idx, x.(int))
}
func (h *nodeHeap) Pop() interface{} {
	old := h.idx
	n := len(old)
	item := old[n-1]
	h.idx = old[:n-1]
	return item
}

// BuildLengths runs the standard Huffman-tree construction over counts
// (length entries, any of which may be zero) and returns the code
// length for every symbol, clamped to MaxCodeLength via Kraft-sum
// redistribution when the natural tree would exceed it.
func BuildLengths(counts []uint32) []uint8 {
	lengths := make([]uint8, len(counts))

	var present []int
	for s, c := range counts {
		if c > 0 {
			present = append(present, s)
		}
	}
	if len(present) == 0 {
		return lengths
	}
	if len(present) == 1 {
		lengths[present[0]] = 1
		return lengths
	}

	nodes := make([]node, 0, 2*len(present))
	h := &nodeHeap{}
	for _, s := range present {
		idx := len(nodes)
		nodes = append(nodes, node{freq: counts[s], symbol: s, left: -1, right: -1})
		h.nodes = nodes
		heap.Push(h, idx)
	}

	for h.Len() > 1 {
		a := heap.Pop(h).(int)
		b := heap.Pop(h).(int)
		idx := len(nodes)
		nodes = append(nodes, node{freq: nodes[a].freq + nodes[b].freq, symbol: -1, left: a, right: b})
		h.nodes = nodes
		heap.Push(h, idx)
	}
	root := heap.Pop(h).(int)

	var walk func(idx int, depth int)
	walk = func(idx int, depth int) {
		n := nodes[idx]
		if n.symbol >= 0 {
			d := depth
			if d == 0 {
				d = 1
			}
			lengths[n.symbol] = uint8(d)
			return
		}
		walk(n.left, depth+1)
		walk(n.right, depth+1)
	}
	walk(root, 0)

	limitLengths(lengths, present)
	return lengths
}

// limitLengths enforces MaxCodeLength by repeatedly borrowing from the
// shortest present code to shorten the longest one, the standard
// package-merge-free length-limiting technique: each swap keeps the
// Kraft sum non-increasing, so the result stays a valid prefix code.
func limitLengths(lengths []uint8, present []int) {
	over := false
	for _, s := range present {
		if lengths[s] > MaxCodeLength {
			over = true
			break
		}
	}
	if !over {
		return
	}
	for {
		// kraft = sum(2^-len); a valid code has kraft <= 1.
		var kraftNum, kraftDen uint64 = 0, 1 << MaxCodeLength
		for _, s := range present {
			l := lengths[s]
			if l > MaxCodeLength {
				l = MaxCodeLength
			}
			kraftNum += uint64(1) << uint(MaxCodeLength-l)
		}
		if kraftNum <= kraftDen {
			for _, s := range present {
				if lengths[s] > MaxCodeLength {
					lengths[s] = MaxCodeLength
				}
			}
			break
		}
		// Find the longest code and the shortest code strictly below
		// MaxCodeLength; lengthen the shortest, shorten the longest.
		longest, shortest := -1, -1
		for _, s := range present {
			if longest == -1 || lengths[s] > lengths[longest] {
				longest = s
			}
			if lengths[s] < MaxCodeLength && (shortest == -1 || lengths[s] < lengths[shortest]) {
				shortest = s
			}
		}
		if shortest == -1 || longest == -1 || longest == shortest {
			for _, s := range present {
				if lengths[s] > MaxCodeLength {
					lengths[s] = MaxCodeLength
				}
			}
			break
		}
		lengths[longest]--
		lengths[shortest]++
	}
}

// CodeTable holds the canonical codes derived from a length table:
// Lengths[s] is the bit length and Codes[s] the bit pattern, written
// MSB-first within its length.
type CodeTable struct {
	Lengths []uint8
	Codes   []uint16
}

// Canonicalize assigns canonical codes to lengths: symbols are ordered
// by (length, symbol index) and codes increment across each length,
// shifting left when length increases, matching the canonical
// construction used by DEFLATE-family and VP8L/JPEG XL prefix codes.
func Canonicalize(lengths []uint8) CodeTable {
	t := CodeTable{Lengths: lengths, Codes: make([]uint16, len(lengths))}
	type entry struct {
		symbol int
		length uint8
	}
	var entries []entry
	for s, l := range lengths {
		if l > 0 {
			entries = append(entries, entry{s, l})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].length != entries[j].length {
			return entries[i].length < entries[j].length
		}
		return entries[i].symbol < entries[j].symbol
	})

	var code uint16
	prevLen := uint8(0)
	for _, e := range entries {
		code <<= uint(e.length - prevLen)
		t.Codes[e.symbol] = code
		code++
		prevLen = e.length
	}
	return t
}

// kCodeLengthRepeatSmall, kCodeLengthRepeatZero1 and
// kCodeLengthRepeatZero2 are the three RLE escape symbols appended after
// the real code-length alphabet when transmitting a code-length
// sequence: repeat the previous length 3-6 times, or repeat a zero run
// 3-10 / 11-138 times.
const (
	kCodeLengthRepeatSmall = 16 // repeat previous non-zero length, 3-6 times
	kCodeLengthRepeatZero1 = 17 // repeat zero, 3-10 times
	kCodeLengthRepeatZero2 = 18 // repeat zero, 11-138 times
)

// LengthToken is one emitted symbol of an RLE-compressed code-length
// sequence: Symbol is the literal length or one of the repeat escapes
// above, and Extra/ExtraBits carry the escape's repeat count.
type LengthToken struct {
	Symbol    int
	Extra     int
	ExtraBits int
}

// EncodeLengths compresses a code-length sequence with the same
// run-length scheme DEFLATE-family codecs use to transmit their own
// code-length alphabet: literal lengths, a short non-zero repeat, and
// two zero-run ranges.
func EncodeLengths(lengths []uint8) []LengthToken {
	var out []LengthToken
	i := 0
	for i < len(lengths) {
		l := lengths[i]
		runLen := 1
		for i+runLen < len(lengths) && lengths[i+runLen] == l {
			runLen++
		}
		if l == 0 {
			n := runLen
			for n > 0 {
				switch {
				case n < 3:
					out = append(out, LengthToken{Symbol: 0})
					n--
				case n <= 10:
					out = append(out, LengthToken{Symbol: kCodeLengthRepeatZero1, Extra: n - 3, ExtraBits: 3})
					n = 0
				default:
					take := n
					if take > 138 {
						take = 138
					}
					out = append(out, LengthToken{Symbol: kCodeLengthRepeatZero2, Extra: take - 11, ExtraBits: 7})
					n -= take
				}
			}
		} else {
			out = append(out, LengthToken{Symbol: int(l)})
			n := runLen - 1
			for n > 0 {
				take := n
				if take > 6 {
					take = 6
				}
				if take < 3 {
					for k := 0; k < take; k++ {
						out = append(out, LengthToken{Symbol: int(l)})
					}
				} else {
					out = append(out, LengthToken{Symbol: kCodeLengthRepeatSmall, Extra: take - 3, ExtraBits: 2})
				}
				n -= take
			}
		}
		i += runLen
	}
	return out
}
