package jxlentropy

// Token is one value of the stream this package encodes: a context
// index selecting which histogram/cluster governs its distribution,
// together with either a raw integer value or, when IsLZ77Length is
// set, a back-reference length emitted by the LZ77 pre-pass. Both kinds
// are hybrid-uint split under their context's configuration.
type Token struct {
	Context      int
	Value        uint32
	IsLZ77Length bool
}
