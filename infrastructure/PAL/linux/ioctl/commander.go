//go:build linux

package ioctl

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Commander issues the TUNSETIFF request against an open clone device. The
// kernel writes the assigned interface name back into req.
type Commander interface {
	SetInterface(fd uintptr, req *IfReq) error
}

type LinuxIoctlCommander struct{}

func NewLinuxIoctlCommander() Commander {
	return LinuxIoctlCommander{}
}

func (LinuxIoctlCommander) SetInterface(fd uintptr, req *IfReq) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(unix.TUNSETIFF), uintptr(unsafe.Pointer(req)))
	if errno != 0 {
		return errno
	}
	return nil
}

// CommanderFunc adapts a plain function to Commander.
type CommanderFunc func(fd uintptr, req *IfReq) error

func (f CommanderFunc) SetInterface(fd uintptr, req *IfReq) error {
	return f(fd, req)
}
