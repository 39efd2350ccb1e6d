package jxlentropy

import (
	"sync"

	"github.com/deepteams/jxlentropy/internal/histogram"
	"github.com/deepteams/jxlentropy/internal/hybriduint"
)

// EncoderState owns the per-context scratch slices one call to
// BuildAndEncodeHistograms needs: the values routed to each context, the
// hybrid-uint token streams built from them, the chosen config and
// histogram per context. It generalizes the teacher's pooled
// lossless.Encoder (internal/lossless/encode.go's
// acquireEncoder/releaseEncoder) from one VP8L image encode to one
// entropy-coding call: both reuse a fixed set of scratch containers
// across repeated calls instead of allocating a fresh set every time.
type EncoderState struct {
	perContextValues [][]uint32
	tokenStreams     [][]uint32
	uintConfigs      []hybriduint.Config
	histos           []*histogram.Histogram
	lzValues         []uint32
}

var encoderStatePool = sync.Pool{
	New: func() any { return &EncoderState{} },
}

// acquireEncoderState returns an EncoderState from the pool, sized for
// numContexts (the count known before the LZ77 pre-pass may add its own
// length/distance contexts). growContexts resizes it again once the
// final context count is known.
func acquireEncoderState(numContexts int) *EncoderState {
	st := encoderStatePool.Get().(*EncoderState)
	st.lzValues = st.lzValues[:0]
	st.growContexts(numContexts)
	return st
}

// releaseEncoderState drops references to this call's token data so it
// can be collected, then returns st to the pool.
func releaseEncoderState(st *EncoderState) {
	for i := range st.perContextValues {
		st.perContextValues[i] = st.perContextValues[i][:0]
	}
	for i := range st.tokenStreams {
		st.tokenStreams[i] = st.tokenStreams[i][:0]
	}
	for i := range st.histos {
		st.histos[i] = nil
	}
	st.lzValues = st.lzValues[:0]
	encoderStatePool.Put(st)
}

// growContexts resizes every per-context slice to totalContexts,
// reusing backing arrays when the pooled state is already large enough.
func (st *EncoderState) growContexts(totalContexts int) {
	if cap(st.perContextValues) >= totalContexts {
		st.perContextValues = st.perContextValues[:totalContexts]
		for i := range st.perContextValues {
			st.perContextValues[i] = st.perContextValues[i][:0]
		}
	} else {
		grown := make([][]uint32, totalContexts)
		copy(grown, st.perContextValues)
		st.perContextValues = grown
	}
	if cap(st.tokenStreams) >= totalContexts {
		st.tokenStreams = st.tokenStreams[:totalContexts]
		for i := range st.tokenStreams {
			st.tokenStreams[i] = st.tokenStreams[i][:0]
		}
	} else {
		grown := make([][]uint32, totalContexts)
		copy(grown, st.tokenStreams)
		st.tokenStreams = grown
	}
	if cap(st.uintConfigs) >= totalContexts {
		st.uintConfigs = st.uintConfigs[:totalContexts]
	} else {
		st.uintConfigs = make([]hybriduint.Config, totalContexts)
	}
	if cap(st.histos) >= totalContexts {
		st.histos = st.histos[:totalContexts]
		for i := range st.histos {
			st.histos[i] = nil
		}
	} else {
		st.histos = make([]*histogram.Histogram, totalContexts)
	}
}

// lzScratch returns a uint32 slice of length n backed by st's reusable
// LZ77 scratch buffer, the values array applyLZ77 flattens tokens into
// before handing them to the back-reference search.
func (st *EncoderState) lzScratch(n int) []uint32 {
	if cap(st.lzValues) >= n {
		st.lzValues = st.lzValues[:n]
	} else {
		st.lzValues = make([]uint32, n)
	}
	return st.lzValues
}
