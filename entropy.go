// Package jxlentropy implements the entropy-coding core of a JPEG
// XL-style image codec: hybrid-uint integer splitting, histogram
// construction and clustering into shared context tables, ANS coding
// with alias-table sampling (or canonical prefix coding as a
// simpler alternative), and an LZ77-style back-reference pre-pass
// over the token stream.
package jxlentropy

import (
	"fmt"

	"github.com/deepteams/jxlentropy/internal/ans"
	"github.com/deepteams/jxlentropy/internal/bitio"
	"github.com/deepteams/jxlentropy/internal/histogram"
	"github.com/deepteams/jxlentropy/internal/hybriduint"
	"github.com/deepteams/jxlentropy/internal/lz77"
	"github.com/deepteams/jxlentropy/internal/prefix"
	"github.com/deepteams/jxlentropy/internal/serialize"
)

// prefixMaxBits bounds log_alpha_size when UsePrefixCode is set,
// mirroring the reference's PREFIX_MAX_BITS; the non-prefix bound is
// 8, enforced separately below.
const prefixMaxBits = 15

// EncodedStream is the output of BuildAndEncodeHistograms: a model
// header describing every cluster's code, and the token data split
// into the entropy-coded symbol stream and the uncoded raw-bit
// tail each hybrid-uint split produces. Model and ContextMap are
// retained so a caller running in streaming mode can pass them to
// WriteTokens directly for later groups, without rebuilding
// histograms.
type EncodedStream struct {
	Header      []byte
	TokenStream []byte
	RawBits     []byte
	Model       *Model
	ContextMap  []uint16
}

// BuildAndEncodeHistograms is the package's main entry point: it runs
// the optional LZ77 pre-pass, splits every token's value through a
// per-context hybrid-uint configuration, builds and clusters one
// histogram per context, serializes the resulting model, and writes
// this call's own token stream against it via WriteTokens. Streaming
// mode's later groups should call WriteTokens directly against the
// returned Model and ContextMap rather than calling this function
// again, which would rebuild the histograms from scratch.
func BuildAndEncodeHistograms(tokens []Token, numContexts int, params HistogramParams) (*EncodedStream, error) {
	if numContexts <= 0 {
		return nil, fmt.Errorf("jxlentropy: numContexts must be positive, got %d", numContexts)
	}

	lengthContext, distanceContext := numContexts, numContexts+1
	totalContexts := numContexts
	processed := tokens
	st := acquireEncoderState(numContexts)
	defer releaseEncoderState(st)
	if params.LZ77Enabled {
		processed, totalContexts = applyLZ77(st, tokens, numContexts, params.LZ77Method, params.DistanceMultiplier, lengthContext, distanceContext)
	}
	st.growContexts(totalContexts)

	perContextValues := st.perContextValues
	for _, t := range processed {
		perContextValues[t.Context] = append(perContextValues[t.Context], t.Value)
	}

	uintConfigs := st.uintConfigs
	for ctx, values := range perContextValues {
		uintConfigs[ctx] = chooseUintConfig(values, params.HybridUintMethod, params.StreamingMode)
	}

	logAlphaSize := 5
	tokenStreams := st.tokenStreams
	distinctTokens := make([]map[uint32]struct{}, totalContexts)
	for _, t := range processed {
		cfg := uintConfigs[t.Context]
		tok, _, _ := cfg.Encode(t.Value)
		tokenStreams[t.Context] = append(tokenStreams[t.Context], tok)
		for tok >= uint32(1)<<uint(logAlphaSize) {
			logAlphaSize++
		}
		if params.InitializeGlobalState {
			if distinctTokens[t.Context] == nil {
				distinctTokens[t.Context] = map[uint32]struct{}{}
			}
			distinctTokens[t.Context][tok] = struct{}{}
		}
	}

	usePrefixCode := params.UsePrefixCode
	if params.ForceHuffman {
		usePrefixCode = true
	}
	if params.InitializeGlobalState {
		usePrefixCode = params.ForceHuffman || len(processed) < 100 || params.ClusteringType == ClusteringFastest
		if !usePrefixCode {
			allSingleton := true
			for _, symbols := range distinctTokens {
				if len(symbols) > 1 {
					allSingleton = false
					break
				}
			}
			usePrefixCode = allSingleton
		}
	}

	maxLogAlphaSize := 8
	if usePrefixCode {
		maxLogAlphaSize = prefixMaxBits
	}
	if logAlphaSize > maxLogAlphaSize {
		logAlphaSize = maxLogAlphaSize
	}
	if params.StreamingMode {
		logAlphaSize = 8
	}
	// Every token is below 1<<logAlphaSize here, so a context whose split
	// exceeds logAlphaSize only saw values below 1<<logAlphaSize, and
	// New(logAlphaSize, 0, 0) gives them the same tokens while staying
	// within the range the config table can serialize.
	for ctx, cfg := range uintConfigs {
		if cfg.SplitExponent > logAlphaSize {
			uintConfigs[ctx] = hybriduint.New(logAlphaSize, 0, 0)
		}
	}

	alphabetSize := 1 << logAlphaSize
	histos := st.histos
	for ctx, toks := range tokenStreams {
		h := histogram.New(alphabetSize)
		for _, tok := range toks {
			if int(tok) < alphabetSize {
				h.Add(tok)
			}
		}
		if params.AddMissingSymbols {
			for sym := 0; sym < alphabetSize; sym++ {
				h.Add(uint32(sym))
			}
		}
		histos[ctx] = h
	}

	maxClusters := params.MaxClusters
	if maxClusters <= 0 {
		maxClusters = histogram.MaxClusters
	}
	clusters, contextMap := histogram.Cluster(histos, maxClusters, params.ClusteringType)

	if params.AddFixedHistograms {
		clusters = append(clusters, flatFixedHistogram(alphabetSize))
	}

	model := &serialize.Model{
		UsePrefixCode: usePrefixCode,
		LogAlphaSize:  logAlphaSize,
		Strategy:      params.ANSStrategy,
		ContextMap:    contextMap,
		Clusters:      clusters,
		UintConfigs:   uintConfigs,
	}

	header := bitio.NewWriter(256)
	if err := model.Encode(header); err != nil {
		header.Release()
		return nil, err
	}

	bodyWriter := bitio.NewWriter(len(processed))
	extraBits, err := WriteTokens(processed, model, contextMap, 0, bodyWriter)
	if err != nil {
		header.Release()
		bodyWriter.Release()
		return nil, err
	}

	return &EncodedStream{
		Header:      header.Finish(),
		TokenStream: bodyWriter.Finish(),
		RawBits:     extraBits,
		Model:       model,
		ContextMap:  contextMap,
	}, nil
}

// chooseUintConfig picks a context's hybrid-uint split. Streaming mode
// skips the brute-force search for MethodBest and MethodFast, matching
// the reference's ChooseUintConfigs returning early under
// streaming_mode: the zero Config is used instead, so log_alpha_size
// stays wire-stable across chunk boundaries rather than being chosen
// per group.
func chooseUintConfig(values []uint32, method hybriduint.Method, streaming bool) hybriduint.Config {
	if streaming && (method == hybriduint.MethodBest || method == hybriduint.MethodFast) {
		return hybriduint.Config{}
	}
	return hybriduint.ChooseConfig(values, method)
}

// flatFixedHistogram builds the extra, unreferenced histogram
// AddFixedHistograms appends to a model: a flat distribution over the
// full alphabet, matching the reference's CreateFlatHistogram table.
func flatFixedHistogram(alphabetSize int) *histogram.Histogram {
	h := histogram.New(alphabetSize)
	for sym := 0; sym < alphabetSize; sym++ {
		h.Add(uint32(sym))
	}
	return h
}

// WriteTokens writes one stream's tokens against a previously built
// Model and context map, returning the uncoded raw-bit tail each
// hybrid-uint split produced (the spec's extra_bits). This is the
// entry point streaming mode uses to append later groups' tokens to
// a model built once from an earlier group: contextOffset is added to
// every token's Context before it is used to index model.UintConfigs
// and contextMap, letting a later group renumber its own local
// contexts onto the contexts a shared model already knows about
// (0 reuses the original numbering directly, the common case).
//
// WriteTokens is also what BuildAndEncodeHistograms itself calls for
// the group that triggered the model build, so both lifecycle paths
// (build-then-write, and reuse-then-write) run through one encoder.
func WriteTokens(tokens []Token, model *Model, contextMap []uint16, contextOffset int, bitSink BitSink) (extraBits []byte, err error) {
	if model == nil {
		return nil, fmt.Errorf("jxlentropy: WriteTokens: model is nil")
	}

	shifted := make([]Token, len(tokens))
	for i, t := range tokens {
		shifted[i] = Token{Context: t.Context + contextOffset, Value: t.Value, IsLZ77Length: t.IsLZ77Length}
	}

	rawWriter := bitio.NewWriter(len(tokens) + 1)
	for _, t := range shifted {
		cfg := model.UintConfigs[t.Context]
		_, nbits, raw := cfg.Encode(t.Value)
		if nbits == 0 {
			continue
		}
		if err := rawWriter.Write(nbits, uint64(raw)); err != nil {
			rawWriter.Release()
			return nil, err
		}
	}
	if rawWriter.Err() != nil {
		err := rawWriter.Err()
		rawWriter.Release()
		return nil, err
	}

	var tokenBytes []byte
	if model.UsePrefixCode {
		tokenBytes, err = encodePrefixBody(shifted, model.UintConfigs, contextMap, model.Clusters)
	} else {
		tokenBytes, err = encodeANSBody(shifted, model.UintConfigs, contextMap, model.Clusters, model, model.LogAlphaSize)
	}
	if err != nil {
		rawWriter.Release()
		return nil, err
	}

	for _, b := range tokenBytes {
		if err := bitSink.Write(8, uint64(b)); err != nil {
			rawWriter.Release()
			return nil, err
		}
	}
	return rawWriter.Finish(), nil
}

func encodeANSBody(processed []Token, uintConfigs []hybriduint.Config, contextMap []uint16, clusters []*histogram.Histogram, model *serialize.Model, logAlphaSize int) ([]byte, error) {
	infos := make([][]ans.SymbolInfo, len(clusters))
	for i, normalized := range model.NormalizedCounts {
		if model.Flat[i] || normalized == nil {
			flatCounts := make([]uint32, len(clusters[i].Counts))
			n := len(flatCounts)
			if n == 0 {
				continue
			}
			base := ans.TabSize / uint32(n)
			for j := range flatCounts {
				flatCounts[j] = base
			}
			flatCounts[0] += ans.TabSize - base*uint32(n)
			_, infos[i] = ans.BuildAliasTable(flatCounts, logAlphaSize)
			continue
		}
		_, infos[i] = ans.BuildAliasTable(normalized, logAlphaSize)
	}

	w := ans.AcquireWriter()
	defer ans.ReleaseWriter(w)
	for i := len(processed) - 1; i >= 0; i-- {
		t := processed[i]
		cluster := contextMap[t.Context]
		tok, _, _ := uintConfigs[t.Context].Encode(t.Value)
		if int(tok) >= len(infos[cluster]) || infos[cluster][tok].Freq == 0 {
			return nil, fmt.Errorf("jxlentropy: %w: token %d absent from cluster %d's histogram", ErrInternalInvariant, tok, cluster)
		}
		w.PushSymbol(infos[cluster][tok])
	}
	return w.Finish(), nil
}

func encodePrefixBody(processed []Token, uintConfigs []hybriduint.Config, contextMap []uint16, clusters []*histogram.Histogram) ([]byte, error) {
	tables := make([]prefix.CodeTable, len(clusters))
	for i, c := range clusters {
		tables[i] = prefix.Canonicalize(prefix.BuildLengths(c.Counts))
	}
	w := bitio.NewWriter(len(processed))
	for _, t := range processed {
		cluster := contextMap[t.Context]
		tok, _, _ := uintConfigs[t.Context].Encode(t.Value)
		table := tables[cluster]
		if int(tok) >= len(table.Lengths) || table.Lengths[tok] == 0 {
			return nil, fmt.Errorf("jxlentropy: %w: token %d absent from cluster %d's code", ErrInternalInvariant, tok, cluster)
		}
		if err := w.Write(int(table.Lengths[tok]), uint64(table.Codes[tok])); err != nil {
			return nil, err
		}
	}
	if w.Err() != nil {
		return nil, w.Err()
	}
	return w.Finish(), nil
}

// applyLZ77 runs the back-reference pre-pass over the token values
// (ignoring context grouping the way a single raster-scan pass would)
// and, if the pass's bit_decrease clears lz77.Run's enable-rule
// threshold, rewrites matches into a length token in lengthContext and
// a distance token in distanceContext, returning the new context
// count. If the pass doesn't clear the threshold (or method is
// lz77.None), tokens is returned unchanged alongside the original
// numContexts, satisfying "when disabled, token stream is
// byte-identical to the input" for both the explicit-off and the
// enable-rule-rejected case alike.
func applyLZ77(st *EncoderState, tokens []Token, numContexts int, method lz77.Method, distanceMultiplier, lengthContext, distanceContext int) ([]Token, int) {
	values := st.lzScratch(len(tokens))
	for i, t := range tokens {
		values[i] = t.Value
	}
	lzTokens, applied, _ := lz77.Run(values, method, lz77.MinMatchLength)
	if !applied {
		return tokens, numContexts
	}

	out := make([]Token, 0, len(lzTokens))
	pos := 0
	for _, lt := range lzTokens {
		if !lt.IsMatch {
			out = append(out, tokens[pos])
			pos++
			continue
		}
		out = append(out, Token{Context: lengthContext, Value: uint32(lt.Length - lz77.MinMatchLength), IsLZ77Length: true})
		out = append(out, Token{Context: distanceContext, Value: uint32(lz77.EncodeDistance(lt.Distance, distanceMultiplier))})
		pos += lt.Length
	}
	return out, numContexts + 2
}
