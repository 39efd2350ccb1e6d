package ans

import "testing"

func sumCounts(c []uint32) uint32 {
	var s uint32
	for _, v := range c {
		s += v
	}
	return s
}

func TestNormalizeCountsSumsToTabSize(t *testing.T) {
	cases := [][]uint32{
		{100, 1, 1, 1},
		{1, 1},
		{5000, 1, 1, 1, 1, 1, 1, 1},
		{1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024, 2048},
		{1000000, 1, 1},
	}
	for _, freqs := range cases {
		counts := make([]uint32, len(freqs))
		copy(counts, freqs)
		omitPos, numSymbols, _, ok := NormalizeCounts(counts, len(counts), 0)
		if !ok {
			t.Fatalf("NormalizeCounts(%v) failed", freqs)
		}
		if numSymbols <= 1 {
			continue
		}
		if got := sumCounts(counts); got != TabSize {
			t.Fatalf("freqs=%v: counts sum to %d, want %d", freqs, got, TabSize)
		}
		if counts[omitPos] == 0 {
			t.Fatalf("freqs=%v: balancing bin %d has zero count", freqs, omitPos)
		}
		for i, c := range counts {
			if freqs[i] > 0 && c == 0 {
				t.Fatalf("freqs=%v: symbol %d had nonzero input but zero output count", freqs, i)
			}
			if freqs[i] == 0 && c != 0 {
				t.Fatalf("freqs=%v: symbol %d had zero input but nonzero output count", freqs, i)
			}
		}
	}
}

func TestNormalizeCountsEmptyAndSingleSymbol(t *testing.T) {
	counts := []uint32{0, 0, 0}
	_, numSymbols, _, ok := NormalizeCounts(counts, len(counts), 0)
	if !ok || numSymbols != 0 {
		t.Fatalf("empty histogram: got numSymbols=%d ok=%v", numSymbols, ok)
	}

	counts = []uint32{0, 42, 0}
	omitPos, numSymbols, _, ok := NormalizeCounts(counts, len(counts), 0)
	if !ok || numSymbols != 1 || omitPos != 1 || counts[1] != TabSize {
		t.Fatalf("single-symbol histogram: omitPos=%d numSymbols=%d counts=%v ok=%v", omitPos, numSymbols, counts, ok)
	}
}

func TestNormalizeCountsNearGeometric(t *testing.T) {
	// A pathological near-geometric distribution: most of the mass in one
	// symbol, a long thin tail of singleton counts.
	freqs := make([]uint32, 200)
	freqs[0] = 1 << 20
	for i := 1; i < len(freqs); i++ {
		freqs[i] = 1
	}
	counts := make([]uint32, len(freqs))
	copy(counts, freqs)
	omitPos, numSymbols, _, ok := NormalizeCounts(counts, len(counts), 0)
	if !ok {
		t.Fatal("NormalizeCounts failed on near-geometric histogram")
	}
	if numSymbols != 200 {
		t.Fatalf("expected 200 symbols, got %d", numSymbols)
	}
	if got := sumCounts(counts); got != TabSize {
		t.Fatalf("counts sum to %d, want %d", got, TabSize)
	}
	_ = omitPos
}

func TestChooseMethodPrefersCheaperShift(t *testing.T) {
	histogram := make([]uint32, 16)
	histogram[0] = 900
	for i := 1; i < 16; i++ {
		histogram[i] = 10
	}
	method, cost := ChooseMethod(histogram, Precise)
	if cost <= 0 {
		t.Fatalf("expected positive cost estimate, got %v", cost)
	}
	_ = method
}

func TestEncodeCountsSmallTreeRoundTrip(t *testing.T) {
	counts := make([]uint32, 4)
	counts[0], counts[2] = 1, 1
	omitPos, numSymbols, symbols, ok := NormalizeCounts(counts, len(counts), 0)
	if !ok || numSymbols != 2 {
		t.Fatalf("expected 2-symbol small tree, got numSymbols=%d ok=%v", numSymbols, ok)
	}
	bits, ok := EncodeCountsSize(counts, omitPos, numSymbols, 0, symbols)
	if !ok || bits <= 0 {
		t.Fatalf("EncodeCountsSize failed: bits=%v ok=%v", bits, ok)
	}
}

func TestBuildAliasTableCoversEveryStateSlot(t *testing.T) {
	counts := make([]uint32, 8)
	copy(counts, []uint32{4096 - 7, 1, 1, 1, 1, 1, 1, 1})
	table, info := BuildAliasTable(counts, 3)
	seen := make([]uint32, len(counts))
	for i := uint32(0); i < TabSize; i++ {
		s := table.Lookup(i)
		seen[s]++
	}
	for s, c := range counts {
		if seen[s] != c {
			t.Fatalf("symbol %d: alias table covers %d slots, want %d", s, seen[s], c)
		}
	}
	for s, inf := range info {
		if uint32(len(inf.ReverseMap)) != counts[s] {
			t.Fatalf("symbol %d: reverse map has %d entries, want %d", s, len(inf.ReverseMap), counts[s])
		}
	}
}

func TestWriterProducesNonEmptyStream(t *testing.T) {
	counts := make([]uint32, 4)
	copy(counts, []uint32{2048, 1024, 1024, 0})
	_, info := BuildAliasTable(counts, 2)
	w := NewWriter()
	tokens := []int{0, 1, 2, 0, 1, 0}
	for i := len(tokens) - 1; i >= 0; i-- {
		w.PushSymbol(info[tokens[i]])
	}
	out := w.Finish()
	if len(out) < 4 {
		t.Fatalf("expected at least the flushed state bytes, got %d bytes", len(out))
	}
}
