package ans

// Sink receives the bits EncodeCounts emits, in the same (nBits, value)
// shape as internal/bitio.Writer.Write, so the real serializer can wire
// a bitio.Writer in directly and the cost estimator can wire in a
// sink that only counts.
type Sink interface {
	Write(nBits int, bits uint64) error
}

// sizeSink counts emitted bits without retaining them, used by
// ChooseMethod to price a candidate shift before committing to it.
type sizeSink struct {
	bits int64
}

func (s *sizeSink) Write(nBits int, _ uint64) error {
	s.bits += int64(nBits)
	return nil
}
