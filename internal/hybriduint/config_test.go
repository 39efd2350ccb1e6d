package hybriduint

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	configs := []Config{
		New(4, 2, 0),
		New(4, 0, 0),
		New(8, 2, 2),
		New(2, 0, 1),
		New(0, 0, 0),
		New(8, 4, 4),
	}
	for _, c := range configs {
		for v := uint32(0); v < 1<<20; v += 37 {
			token, nbits, raw := c.Encode(v)
			if nbits != c.NBits(token) {
				t.Fatalf("config %+v value %d: nbits mismatch %d vs NBits()=%d", c, v, nbits, c.NBits(token))
			}
			got := c.Decode(token, raw)
			if got != v {
				t.Fatalf("config %+v: Decode(Encode(%d)) = %d", c, v, got)
			}
		}
	}
}

func TestSmallValuesPassThrough(t *testing.T) {
	c := New(4, 2, 0)
	for v := uint32(0); v < 16; v++ {
		token, nbits, raw := c.Encode(v)
		if token != v || nbits != 0 || raw != 0 {
			t.Fatalf("value %d below split should pass through unchanged, got token=%d nbits=%d raw=%d", v, token, nbits, raw)
		}
	}
}

func TestRawBitsNeverExceedsValueWidth(t *testing.T) {
	// The raw-bits field only ever holds the low-order bits left over
	// after the token's msb/lsb digits are carved out of v, so its width
	// can never exceed v's own bit-length.
	c := New(4, 2, 0)
	for v := uint32(1); v < 1<<16; v += 13 {
		_, nbits, _ := c.Encode(v)
		need := 0
		for x := v; x > 0; x >>= 1 {
			need++
		}
		if nbits > need {
			t.Fatalf("value %d: nbits %d exceeds bit-length %d of value itself", v, nbits, need)
		}
	}
}
