package ans

// kLogCountBitLengths/kLogCountSymbols is the static Huffman code used
// to transmit each bin's log2(count) (offset by one so -1, the "this is
// the omitted balancing bin" placeholder used before the real value is
// substituted, maps to index 0). The last entry is the RLE escape.
var kLogCountBitLengths = [LogTabSize + 2]uint8{
	5, 4, 4, 4, 4, 4, 3, 3, 3, 3, 3, 6, 7, 7,
}
var kLogCountSymbols = [LogTabSize + 2]uint16{
	17, 11, 15, 3, 9, 7, 4, 2, 5, 6, 0, 33, 1, 65,
}

// kMinReps is the minimum run length worth spending the RLE escape
// symbol plus a StoreVarLenUint8 length on.
const kMinReps = 4

// storeVarLenUint8 writes n (0..255) as a presence bit followed by a
// bit-length-prefixed remainder, matching StoreVarLenUint8.
func storeVarLenUint8(n uint32, w Sink) error {
	if n == 0 {
		return w.Write(1, 0)
	}
	if err := w.Write(1, 1); err != nil {
		return err
	}
	nbits := floorLog2(n)
	if err := w.Write(3, uint64(nbits)); err != nil {
		return err
	}
	return w.Write(nbits, uint64(n-(uint32(1)<<uint(nbits))))
}

// storeVarLenUint16 is storeVarLenUint8's wider counterpart, used for
// alphabet sizes that can exceed 255.
func storeVarLenUint16(n uint32, w Sink) error {
	if n == 0 {
		return w.Write(1, 0)
	}
	if err := w.Write(1, 1); err != nil {
		return err
	}
	nbits := floorLog2(n)
	if err := w.Write(4, uint64(nbits)); err != nil {
		return err
	}
	return w.Write(nbits, uint64(n-(uint32(1)<<uint(nbits))))
}

// EncodeCounts serializes a normalized histogram's counts (as produced
// by NormalizeCounts) to w: the small-tree marker path for one or two
// symbols, or the general path's Elias-gamma-like shift code followed
// by RLE-compressed, Huffman-coded logcounts and precision refinement
// bits. It returns false when the histogram cannot be represented (the
// RLE run-length field would overflow its 8-bit budget), mirroring the
// hard EncodeCounts/false contract: callers must treat that as a fatal
// encode error, not retry with a flatter code.
func EncodeCounts(counts []uint32, alphabetSize, omitPos, numSymbols, shift int, symbols [MaxNumSymbolsForSmallCode]int, w Sink) (bool, error) {
	if numSymbols <= 2 {
		if err := w.Write(1, 1); err != nil {
			return false, err
		}
		if numSymbols == 0 {
			if err := w.Write(1, 0); err != nil {
				return false, err
			}
			if err := storeVarLenUint8(0, w); err != nil {
				return false, err
			}
		} else {
			if err := w.Write(1, uint64(numSymbols-1)); err != nil {
				return false, err
			}
			for i := 0; i < numSymbols; i++ {
				if err := storeVarLenUint8(uint32(symbols[i]), w); err != nil {
					return false, err
				}
			}
		}
		if numSymbols == 2 {
			if err := w.Write(LogTabSize, uint64(counts[symbols[0]])); err != nil {
				return false, err
			}
		}
		return true, nil
	}

	if err := w.Write(1, 0); err != nil { // not small tree
		return false, err
	}
	if err := w.Write(1, 0); err != nil { // not flat
		return false, err
	}

	upperBoundLog := floorLog2(LogTabSize + 1)
	log := floorLog2(uint32(shift + 1))
	if err := w.Write(log, uint64((1<<uint(log))-1)); err != nil {
		return false, err
	}
	if log != upperBoundLog {
		if err := w.Write(1, 0); err != nil {
			return false, err
		}
	}
	if err := w.Write(log, uint64(((1<<uint(log))-1)&(shift+1))); err != nil {
		return false, err
	}

	same := make([]int, alphabetSize)
	last := 0
	for i := 1; i < alphabetSize; i++ {
		if i == omitPos || i == omitPos+1 || counts[i] != counts[last] {
			same[last] = i - last
			last = i
		}
	}
	var length int
	if counts[last] != 0 {
		same[last] = alphabetSize - last
		length = alphabetSize
	} else {
		length = last
	}

	if length-3 > 255 {
		return false, nil
	}
	if err := storeVarLenUint8(uint32(length-3), w); err != nil {
		return false, err
	}

	logcounts := make([]int, length)
	for i := range logcounts {
		logcounts[i] = -1
	}
	omitLog := 9
	for i := 0; i < length; i++ {
		if i != omitPos && counts[i] > 0 {
			logcounts[i] = floorLog2(counts[i])
			bump := logcounts[i]
			if i < omitPos {
				bump++
			}
			if bump > omitLog {
				omitLog = bump
			}
		}
	}
	logcounts[omitPos] = omitLog

	for i := 0; i < length; i++ {
		if err := w.Write(int(kLogCountBitLengths[logcounts[i]+1]), uint64(kLogCountSymbols[logcounts[i]+1])); err != nil {
			return false, err
		}
		if same[i] > kMinReps {
			if err := w.Write(int(kLogCountBitLengths[LogTabSize+1]), uint64(kLogCountSymbols[LogTabSize+1])); err != nil {
				return false, err
			}
			if err := storeVarLenUint8(uint32(same[i]-kMinReps-1), w); err != nil {
				return false, err
			}
			i += same[i] - 1
		}
	}

	if shift != 0 {
		for i := 0; i < length; i++ {
			if logcounts[i] > 0 && i != omitPos {
				bitcount := populationCountPrecision(logcounts[i], shift)
				dropBits := logcounts[i] - bitcount
				if err := w.Write(bitcount, uint64((counts[i]>>uint(dropBits))-(uint32(1)<<uint(bitcount)))); err != nil {
					return false, err
				}
			}
			if same[i] > kMinReps {
				i += same[i] - 1
			}
		}
	}
	return true, nil
}

// EncodeFlatHistogram serializes the flat-code marker and alphabet
// size for a histogram whose method is the uniform code.
func EncodeFlatHistogram(alphabetSize int, w Sink) error {
	if err := w.Write(1, 0); err != nil { // not small tree
		return err
	}
	if err := w.Write(1, 1); err != nil { // flat
		return err
	}
	return storeVarLenUint8(uint32(alphabetSize-1), w)
}

// EncodeCountsSize returns the number of bits EncodeCounts would emit
// for this histogram, without materializing them, using a sink that
// only counts. ok mirrors EncodeCounts' own success return.
func EncodeCountsSize(counts []uint32, omitPos, numSymbols, shift int, symbols [MaxNumSymbolsForSmallCode]int) (bits float64, ok bool) {
	s := &sizeSink{}
	encOK, err := EncodeCounts(counts, len(counts), omitPos, numSymbols, shift, symbols, s)
	if err != nil || !encOK {
		return 0, false
	}
	return float64(s.bits), true
}
