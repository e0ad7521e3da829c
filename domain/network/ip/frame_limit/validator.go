// Package framelimit bounds the payload length (bytes) of one tunnelled frame,
// not including the 2-byte envelope prefix.
package framelimit

import (
	"errors"
	"fmt"
)

// MaxFrameSize is the largest frame read from the device or carried in an envelope.
const MaxFrameSize = 2000

var (
	ErrZeroCap        = errors.New("frame cap must be > 0")
	ErrCapExceeded    = errors.New("frame cap exceeded")
	ErrNegativeLength = errors.New("negative length is not allowed")
)

type Cap int // bytes

// DefaultCap is the session-wide MaxFrameSize cap.
var DefaultCap = Cap(MaxFrameSize)

func NewCap(n int) (Cap, error) {
	if n <= 0 {
		return 0, ErrZeroCap
	}
	return Cap(n), nil
}

// ValidateLen reports whether n bytes fit under the cap. Errors wrap
// ErrNegativeLength or ErrCapExceeded.
func (c Cap) ValidateLen(n int) error {
	if n < 0 {
		return ErrNegativeLength
	}
	if n > int(c) {
		return fmt.Errorf("%w: %d > %d", ErrCapExceeded, n, int(c))
	}
	return nil
}
