package jxlentropy

import (
	"github.com/deepteams/jxlentropy/internal/ans"
	"github.com/deepteams/jxlentropy/internal/bitio"
	"github.com/deepteams/jxlentropy/internal/serialize"
)

// Model is the serialized histogram/context-map state WriteTokens
// encodes a token stream against; it is what BuildAndEncodeHistograms
// returns via EncodedStream.Model for later streaming calls.
type Model = serialize.Model

// BitSink is the destination WriteTokens writes a token stream's
// entropy-coded bytes into, matching the shape bitio.Writer and every
// other bit-accumulating destination in this package already
// implement. A caller in streaming mode supplies its own sink (for
// example a bitio.Writer per group) rather than reusing the one a
// prior BuildAndEncodeHistograms call produced internally.
type BitSink = ans.Sink

// BitWriter is the concrete little-endian bit accumulator WriteTokens
// and BuildAndEncodeHistograms use internally; exported so a caller
// assembling its own multi-section bitstream can construct one
// directly instead of writing its own BitSink implementation.
type BitWriter = bitio.Writer

// NewBitWriter constructs a BitWriter with an initial buffer sized for
// expectedSize bytes.
func NewBitWriter(expectedSize int) *BitWriter {
	return bitio.NewWriter(expectedSize)
}
