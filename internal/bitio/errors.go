package bitio

import "errors"

// ErrOverflow is returned (wrapped) when a WithMaxBits reservation is
// exceeded. The writer is rewound to the start of the reservation before
// this error is returned, so no partial sub-encoding is ever committed.
var ErrOverflow = errors.New("bitio: reservation exceeded")
