//go:build linux

package ioctl

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"powertun/domain/session"
)

const DefaultTunPath = "/dev/net/tun"

// ErrOpenControlPath marks a failure to open the clone device itself, as
// opposed to the kernel rejecting the interface request.
var ErrOpenControlPath = errors.New("failed to open tun control path")

// IfReq mirrors struct ifreq as used by TUNSETIFF.
type IfReq struct {
	Name  [unix.IFNAMSIZ]byte
	Flags uint16
	pad   [22]byte
}

type Wrapper struct {
	commander Commander
	tunPath   string
}

func NewWrapper(commander Commander, tunPath string) Contract {
	return &Wrapper{
		commander: commander,
		tunPath:   tunPath,
	}
}

func (w *Wrapper) CreateInterface(kind session.DeviceKind, name string) (*os.File, string, error) {
	flags, err := flagsFor(kind)
	if err != nil {
		return nil, "", err
	}
	if len(name) >= unix.IFNAMSIZ {
		return nil, "", fmt.Errorf("interface name %q exceeds %d bytes", name, unix.IFNAMSIZ-1)
	}

	tun, err := os.OpenFile(w.tunPath, os.O_RDWR, 0)
	if err != nil {
		return nil, "", fmt.Errorf("%w %s: %w", ErrOpenControlPath, w.tunPath, err)
	}

	var req IfReq
	copy(req.Name[:], name)
	req.Flags = flags

	if err := w.commander.SetInterface(tun.Fd(), &req); err != nil {
		_ = tun.Close()
		return nil, "", fmt.Errorf("ioctl TUNSETIFF failed for %q: %w", name, err)
	}

	return tun, unix.ByteSliceToString(req.Name[:]), nil
}

func flagsFor(kind session.DeviceKind) (uint16, error) {
	switch kind {
	case session.TUN:
		return unix.IFF_TUN | unix.IFF_NO_PI, nil
	case session.TAP:
		return unix.IFF_TAP | unix.IFF_NO_PI, nil
	default:
		return 0, fmt.Errorf("unsupported device kind: %v", kind)
	}
}
