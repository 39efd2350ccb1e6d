package jxlentropy

import (
	"github.com/deepteams/jxlentropy/internal/ans"
	"github.com/deepteams/jxlentropy/internal/histogram"
	"github.com/deepteams/jxlentropy/internal/hybriduint"
	"github.com/deepteams/jxlentropy/internal/lz77"
)

// ANSHistogramStrategy controls how thoroughly BuildAndEncodeHistograms
// searches quantization shifts when choosing each cluster's ANS
// method; it mirrors ans.Strategy one-for-one so callers never need to
// import the internal package themselves.
type ANSHistogramStrategy = ans.Strategy

const (
	Precise     = ans.Precise
	Approximate = ans.Approximate
	Fast        = ans.Fast
)

// LZ77Method picks which of the back-reference pre-pass's modes to
// run, mirroring lz77.Method so callers never need to import the
// internal package themselves.
type LZ77Method = lz77.Method

const (
	LZ77None    = lz77.None
	LZ77RLE     = lz77.RLE
	LZ77Greedy  = lz77.Greedy
	LZ77Optimal = lz77.Optimal
)

// HybridUintMethod picks how hybriduint.ChooseConfig searches for a
// per-context split, mirroring hybriduint.Method one-for-one.
type HybridUintMethod = hybriduint.Method

const (
	HybridUintBest       = hybriduint.MethodBest
	HybridUintFast       = hybriduint.MethodFast
	HybridUintNone       = hybriduint.MethodNone
	HybridUintContextMap = hybriduint.MethodContextMap
	HybridUintK000       = hybriduint.Method000
)

// ClusteringType picks how thoroughly histogram.Cluster searches for
// merges, mirroring histogram.ClusteringType one-for-one.
type ClusteringType = histogram.ClusteringType

const (
	ClusteringBest    = histogram.ClusteringBest
	ClusteringFast    = histogram.ClusteringFast
	ClusteringFastest = histogram.ClusteringFastest
)

// HistogramParams configures one call to BuildAndEncodeHistograms.
type HistogramParams struct {
	// ANSStrategy picks how many quantization shifts are tried per
	// cluster before settling on the cheapest.
	ANSStrategy ANSHistogramStrategy

	// UsePrefixCode selects canonical Huffman coding over ANS for every
	// cluster in this call. Mixing the two within one call is not
	// supported, matching the reference's per-call (not per-cluster)
	// use_prefix_code flag. InitializeGlobalState, if set, may override
	// this value; see its doc comment.
	UsePrefixCode bool

	// LZ77Enabled runs the back-reference pre-pass over the token
	// stream before histogram construction. The pass is still subject
	// to the enable rule internally (lz77.Run): setting this true
	// requests the attempt, not the outcome — a pass whose estimated
	// bit_decrease doesn't clear the threshold leaves the token stream
	// unchanged regardless.
	LZ77Enabled bool

	// LZ77Method selects which pre-pass mode to run when LZ77Enabled is
	// set: LZ77RLE, LZ77Greedy, or LZ77Optimal (currently an alias for
	// LZ77Greedy; see internal/lz77's doc comments). Zero value is
	// LZ77None, so HistogramParams{} alone leaves LZ77 off even before
	// LZ77Enabled is checked.
	LZ77Method LZ77Method

	// DistanceMultiplier is the row stride used to map small special
	// back-reference distances to short codes; 0 disables special
	// distance codes entirely (the token stream has no 2D structure).
	DistanceMultiplier int

	// MaxClusters bounds how many distinct code tables contexts may be
	// collapsed into; 0 uses histogram.MaxClusters.
	MaxClusters int

	// StreamingMode forces LogAlphaSize to 8 for wire-format stability
	// across chunk boundaries, per the reference's own streaming_mode
	// behavior (enc_ans.cc), instead of deriving it from the data. It
	// also skips HybridUintMethod's search entirely (see
	// BuildAndEncodeHistograms), matching the reference short-circuiting
	// ChooseUintConfigs under streaming_mode.
	StreamingMode bool

	// HybridUintMethod picks how thoroughly each context's hybrid-uint
	// split is searched. Zero value is HybridUintBest.
	HybridUintMethod HybridUintMethod

	// ClusteringType picks how thoroughly histogram clustering searches
	// for merges. Zero value is ClusteringBest.
	ClusteringType ClusteringType

	// ForceHuffman forces UsePrefixCode on for this call, overriding the
	// value above, matching the reference's force_huffman.
	ForceHuffman bool

	// InitializeGlobalState recomputes UsePrefixCode from the stream
	// itself instead of trusting the caller's value: prefix coding is
	// forced on when ForceHuffman is set, the stream has fewer than 100
	// tokens, ClusteringType is ClusteringFastest, or every context's
	// histogram turns out to carry only one distinct symbol (entropy
	// zero) once built.
	InitializeGlobalState bool

	// AddMissingSymbols visits every symbol in each context's alphabet
	// against that context's histogram before building it, so every
	// symbol has at least minimal representation even if the stream
	// never produced it — mirroring the reference's add_missing_symbols,
	// used when a decoder must be able to resolve any symbol in range
	// regardless of what this particular stream exercised.
	AddMissingSymbols bool

	// AddFixedHistograms appends one extra, flat histogram over the
	// full alphabet to the encoded model, unreferenced by any context's
	// entry in the context map: a static fallback table later streams
	// sharing this model may be pointed at, mirroring the reference's
	// add_fixed_histograms.
	AddFixedHistograms bool
}

// DefaultHistogramParams returns the configuration used when a caller
// doesn't need to tune the strategy: a precise ANS search, LZ77
// enabled, the full hybrid-uint and clustering searches, no streaming
// constraint.
func DefaultHistogramParams() HistogramParams {
	return HistogramParams{
		ANSStrategy:      Precise,
		LZ77Enabled:      true,
		LZ77Method:       LZ77Greedy,
		HybridUintMethod: HybridUintBest,
		ClusteringType:   ClusteringBest,
	}
}
