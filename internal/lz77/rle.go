package lz77

// rleParse implements the spec's RLE pre-pass mode: a stretch of values
// that repeats the value just before it is replaced by a single
// (length, distance=1) reference when doing so is cheaper than emitting
// it as literals, so a run's first element stays a literal and the rest
// of the run copies it. RLE is tried
// as its own mode, distinct from the general hash-chain search,
// because a run has exactly one useful match source (the element
// immediately preceding it) — there is nothing for a hash chain to
// search, and no lazy lookahead can do better than "take the whole
// run or none of it".
func rleParse(data []uint32, minLength int, cm *costModel) (tokens []Token, literalBits, codedBits float64) {
	if len(data) == 0 {
		return nil, 0, 0
	}
	i := 0
	for i < len(data) {
		runLen := 0
		for i > 0 && i+runLen < len(data) && data[i+runLen] == data[i-1] {
			runLen++
		}
		if runLen >= minLength {
			lit := cm.literalsCost(data[i : i+runLen])
			// Distance 1: the element immediately preceding the run,
			// the special distance (−1, 0)'s generalized sequential
			// form in this package's 1D distance model.
			match := matchCost(runLen, 1)
			if match <= lit {
				tokens = append(tokens, Token{IsMatch: true, Length: runLen, Distance: 1})
				literalBits += lit
				codedBits += match
				i += runLen
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
