package serialize

import (
	"testing"

	"github.com/deepteams/jxlentropy/internal/ans"
	"github.com/deepteams/jxlentropy/internal/histogram"
	"github.com/deepteams/jxlentropy/internal/hybriduint"
)

type countingSink struct{ bits int64 }

func (s *countingSink) Write(nBits int, _ uint64) error {
	s.bits += int64(nBits)
	return nil
}

func TestEncodeUintConfigWritesBits(t *testing.T) {
	s := &countingSink{}
	cfg := hybriduint.New(4, 2, 0)
	if err := EncodeUintConfig(s, cfg, 8); err != nil {
		t.Fatalf("EncodeUintConfig failed: %v", err)
	}
	if s.bits <= 0 {
		t.Fatal("expected positive bit count")
	}
}

func TestEncodeUintConfigSplitEqualsLogAlphaSkipsFields(t *testing.T) {
	withSplit := &countingSink{}
	cfg := hybriduint.New(8, 0, 0)
	if err := EncodeUintConfig(withSplit, cfg, 8); err != nil {
		t.Fatal(err)
	}
	other := &countingSink{}
	cfg2 := hybriduint.New(4, 2, 1)
	if err := EncodeUintConfig(other, cfg2, 8); err != nil {
		t.Fatal(err)
	}
	if withSplit.bits >= other.bits {
		t.Fatalf("split_exponent==logAlphaSize should skip msb/lsb fields: got %d bits vs %d for the general case", withSplit.bits, other.bits)
	}
}

func TestEncodeANSHistogramRoundTripsNormalizedCounts(t *testing.T) {
	s := &countingSink{}
	counts := make([]uint32, 8)
	counts[0] = 1
	counts[1] = 1
	normalized, flat, err := EncodeANSHistogram(s, counts, ans.Fast)
	if err != nil {
		t.Fatalf("unexpected error for a small valid histogram: %v", err)
	}
	if flat {
		return
	}
	var sum uint32
	for _, c := range normalized {
		sum += c
	}
	if sum != ans.TabSize {
		t.Fatalf("normalized counts sum to %d, want %d", sum, ans.TabSize)
	}
}

func TestEncodePrefixHistogramRoundTripsLength(t *testing.T) {
	s := &countingSink{}
	counts := []uint32{100, 1, 1, 1, 50, 1, 1}
	if err := EncodePrefixHistogram(s, counts); err != nil {
		t.Fatalf("EncodePrefixHistogram failed: %v", err)
	}
	if s.bits <= 0 {
		t.Fatal("expected positive bit count")
	}
}

func TestModelEncodeFullRoundTrip(t *testing.T) {
	h1 := histogram.New(8)
	h1.AddN(0, 100)
	h1.AddN(1, 10)
	h2 := histogram.New(8)
	h2.AddN(2, 50)
	h2.AddN(3, 5)

	m := &Model{
		UsePrefixCode: false,
		LogAlphaSize:  8,
		Strategy:      ans.Fast,
		ContextMap:    []uint16{0, 1, 0},
		Clusters:      []*histogram.Histogram{h1, h2},
		UintConfigs:   []hybriduint.Config{hybriduint.New(4, 2, 0), hybriduint.New(4, 2, 0)},
	}
	s := &countingSink{}
	if err := m.Encode(s); err != nil {
		t.Fatalf("Model.Encode failed: %v", err)
	}
	if s.bits <= 0 {
		t.Fatal("expected positive bit count for a non-trivial model")
	}
}

func TestModelEncodePrefixCode(t *testing.T) {
	h1 := histogram.New(4)
	h1.AddN(0, 10)
	h1.AddN(1, 1)

	m := &Model{
		UsePrefixCode: true,
		LogAlphaSize:  8,
		ContextMap:    []uint16{0},
		Clusters:      []*histogram.Histogram{h1},
		UintConfigs:   []hybriduint.Config{hybriduint.New(4, 2, 0)},
	}
	s := &countingSink{}
	if err := m.Encode(s); err != nil {
		t.Fatalf("Model.Encode (prefix) failed: %v", err)
	}
	if s.bits <= 0 {
		t.Fatal("expected positive bit count")
	}
}
