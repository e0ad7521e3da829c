package tun

import (
	"io"

	"powertun/domain/session"
)

// Device is an allocated virtual interface. Read returns exactly one frame,
// Write delivers exactly one frame.
type Device interface {
	io.ReadWriteCloser
	// Name is the interface name assigned by the host.
	Name() string
	// Fd is the descriptor watched by the readiness wait.
	Fd() int
}

// Manager allocates virtual interfaces.
type Manager interface {
	Allocate(kind session.DeviceKind, requestedName string) (Device, error)
}
