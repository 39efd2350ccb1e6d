package serialize

import (
	"github.com/deepteams/jxlentropy/internal/ans"
	"github.com/deepteams/jxlentropy/internal/histogram"
	"github.com/deepteams/jxlentropy/internal/hybriduint"
)

// Model is everything needed to decode the token stream that follows
// it: which cluster each context maps to, the per-cluster histograms,
// and the hybrid-uint split used to turn raw integers into tokens.
type Model struct {
	UsePrefixCode bool
	LogAlphaSize  int
	Strategy      ans.Strategy
	ContextMap    []uint16
	Clusters      []*histogram.Histogram
	UintConfigs   []hybriduint.Config

	// NormalizedCounts and Flat are filled in by Encode: for each
	// cluster, the counts actually used for its code (summing to
	// ans.TabSize) and whether the flat code was chosen instead. The
	// token-body writer needs these to build the matching alias table;
	// they are meaningless when UsePrefixCode is set.
	NormalizedCounts [][]uint32
	Flat             []bool
}

// EncodeContextMap writes one cluster index per context. Each index is
// written in a fixed field wide enough to cover numClusters, rather
// than the teacher's move-to-front-plus-RLE context map transform:
// context counts here are small enough (bounded by the number of
// token contexts a single entropy-coding call models) that the
// transform's payoff rarely clears its own overhead.
func EncodeContextMap(w ans.Sink, contextMap []uint16, numClusters int) error {
	fieldBits := ceilLog2Nonzero(uint32(numClusters))
	if fieldBits == 0 {
		fieldBits = 1
	}
	for _, c := range contextMap {
		if err := w.Write(fieldBits, uint64(c)); err != nil {
			return err
		}
	}
	return nil
}

// Encode writes the full model header to w: a marker bit for the code
// kind, the hybrid-uint config table, the context map, and every
// cluster's histogram.
func (m *Model) Encode(w ans.Sink) error {
	if err := w.Write(1, boolBit(m.UsePrefixCode)); err != nil {
		return err
	}
	if !m.UsePrefixCode {
		if err := w.Write(4, uint64(m.LogAlphaSize-1)); err != nil {
			return err
		}
	}
	if err := EncodeUintConfigs(w, m.UintConfigs, m.LogAlphaSize); err != nil {
		return err
	}
	if err := w.Write(8, uint64(len(m.Clusters))); err != nil {
		return err
	}
	if err := EncodeContextMap(w, m.ContextMap, len(m.Clusters)); err != nil {
		return err
	}
	m.NormalizedCounts = make([][]uint32, len(m.Clusters))
	m.Flat = make([]bool, len(m.Clusters))
	for i, c := range m.Clusters {
		if m.UsePrefixCode {
			if err := EncodePrefixHistogram(w, c.Counts); err != nil {
				return err
			}
			continue
		}
		normalized, flat, err := EncodeANSHistogram(w, c.Counts, m.Strategy)
		if err != nil {
			return err
		}
		m.NormalizedCounts[i] = normalized
		m.Flat[i] = flat
	}
	return nil
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
