package network

import (
	"errors"
	"fmt"
	"syscall"
)

var ErrNoDescriptor = errors.New("connection exposes no file descriptor")

// DescriptorOf returns the socket descriptor behind conn without duplicating
// it and without switching it to blocking mode. The descriptor stays owned by
// conn.
func DescriptorOf(conn any) (int, error) {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return -1, ErrNoDescriptor
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return -1, fmt.Errorf("failed to access raw connection: %w", err)
	}
	fd := -1
	if err := raw.Control(func(descriptor uintptr) {
		fd = int(descriptor)
	}); err != nil {
		return -1, fmt.Errorf("failed to read descriptor: %w", err)
	}
	return fd, nil
}
