//go:build linux

package ioctl

import (
	"os"

	"powertun/domain/session"
)

type Contract interface {
	// CreateInterface attaches a new TUN or TAP interface and returns its
	// control file together with the name the kernel assigned.
	CreateInterface(kind session.DeviceKind, name string) (*os.File, string, error)
}
