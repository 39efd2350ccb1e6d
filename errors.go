package jxlentropy

import (
	"errors"

	"github.com/deepteams/jxlentropy/internal/bitio"
	"github.com/deepteams/jxlentropy/internal/serialize"
)

// ErrEncodingRejected is returned when a cluster's histogram cannot be
// represented in the chosen code. This is the same hard-failure
// contract the reference encoder uses: EncodeHistograms propagates it
// rather than silently falling back to a flatter code, and so does
// this package.
var ErrEncodingRejected = serialize.ErrEncodingRejected

// ErrReservationExceeded is returned when a bit-budgeted write (a
// length-prefixed sub-section written through bitio.Writer.WithMaxBits)
// exceeds its reservation.
var ErrReservationExceeded = bitio.ErrOverflow

// ErrInternalInvariant indicates a bug in this package: an invariant
// the encoding algorithm depends on (a histogram's counts summing to
// the normalized table size, a non-empty balancing bin) did not hold.
// It should never surface from correct input.
var ErrInternalInvariant = errors.New("jxlentropy: internal invariant violated")
