//go:build linux

package network

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// ReuseAddrListenConfig sets SO_REUSEADDR on every socket it creates so a
// restarted server can rebind its port immediately.
func ReuseAddrListenConfig() net.ListenConfig {
	return net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			if err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			}); err != nil {
				return err
			}
			return sockErr
		},
	}
}
