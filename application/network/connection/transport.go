package connection

import (
	"context"
	"errors"
	"io"

	"powertun/domain/session"
)

// ErrFrameDropped marks a per-frame datagram failure that must not end the session.
var ErrFrameDropped = errors.New("frame dropped")

// Transport is the established network side of a session. Write sends one
// frame as one envelope, Read returns the payload of one envelope.
type Transport interface {
	io.ReadWriteCloser
	// Fd is the socket descriptor watched by the readiness wait.
	Fd() int
	Protocol() session.Protocol
}

// Factory establishes the transport for a configured session.
type Factory interface {
	EstablishConnection(ctx context.Context) (Transport, error)
}
