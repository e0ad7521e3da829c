package framing

import (
	"errors"
	"fmt"

	"powertun/application/network/connection"
)

var (
	// ErrTruncatedEnvelope is returned when a stream ends inside an envelope.
	ErrTruncatedEnvelope = errors.New("truncated envelope")
	// ErrMalformedDatagram is returned for a datagram that is not exactly one envelope.
	ErrMalformedDatagram = fmt.Errorf("malformed datagram: %w", connection.ErrFrameDropped)
)
