package serialize

import (
	"errors"

	"github.com/deepteams/jxlentropy/internal/ans"
	"github.com/deepteams/jxlentropy/internal/prefix"
)

// ErrEncodingRejected is returned when a cluster's histogram cannot be
// represented in the chosen code (EncodeCounts' RLE run-length field
// would overflow). Per the reference's own contract, this is a hard
// failure the caller must propagate, never a signal to silently retry
// with a flatter code.
var ErrEncodingRejected = errors.New("serialize: histogram cannot be encoded")

// EncodeANSHistogram picks the cheapest quantization shift for counts
// via ans.ChooseMethod, then serializes the normalized histogram
// (small-tree, flat, or general path) to w. It returns the normalized
// counts (summing to ans.TabSize, or nil for the flat-code method) so
// the caller can build the matching alias table for the token body
// without re-running method selection.
func EncodeANSHistogram(w ans.Sink, counts []uint32, strategy ans.Strategy) (normalized []uint32, flat bool, err error) {
	method, _ := ans.ChooseMethod(counts, strategy)
	if method == 0 {
		if err := ans.EncodeFlatHistogram(len(counts), w); err != nil {
			return nil, true, err
		}
		return nil, true, nil
	}
	shift := method - 1
	normalized = make([]uint32, len(counts))
	copy(normalized, counts)
	omitPos, numSymbols, symbols, ok := ans.NormalizeCounts(normalized, len(normalized), shift)
	if !ok {
		return nil, false, ErrEncodingRejected
	}
	encOK, werr := ans.EncodeCounts(normalized, len(normalized), omitPos, numSymbols, shift, symbols, w)
	if werr != nil {
		return nil, false, werr
	}
	if !encOK {
		return nil, false, ErrEncodingRejected
	}
	return normalized, false, nil
}

// prefixLengthAlphabet is the number of symbols the code-length RLE
// stream can emit: 0..15 literal lengths plus the three RLE escapes.
// This codebase writes that small alphabet with a fixed-width code
// instead of the teacher's second canonical Huffman layer over the
// length alphabet itself — a deliberate simplification, since a
// length-of-lengths code only pays for itself on very large alphabets
// and this format's MaxCodeLength bound keeps the literal range small.
const prefixLengthAlphabet = 19
const prefixLengthSymbolBits = 5

// EncodePrefixHistogram builds a canonical, length-limited Huffman
// code for counts and serializes its code-length sequence (RLE
// compressed per prefix.EncodeLengths) to w. It does not serialize the
// codes themselves: those are implied by the lengths via canonical
// assignment, exactly as a DEFLATE-family decoder reconstructs them.
func EncodePrefixHistogram(w ans.Sink, counts []uint32) error {
	lengths := prefix.BuildLengths(counts)
	tokens := prefix.EncodeLengths(lengths)
	if err := w.Write(16, uint64(len(tokens))); err != nil {
		return err
	}
	for _, tk := range tokens {
		if err := w.Write(prefixLengthSymbolBits, uint64(tk.Symbol)); err != nil {
			return err
		}
		if tk.ExtraBits > 0 {
			if err := w.Write(tk.ExtraBits, uint64(tk.Extra)); err != nil {
				return err
			}
		}
	}
	return nil
}
