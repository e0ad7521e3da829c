//go:build linux

package epoll

import (
	"errors"
	"io"
	"os"
	"runtime"
	"sync/atomic"

	"golang.org/x/sys/unix"

	application "powertun/application/network/tun"
)

// tun wraps a TUN/TAP file descriptor and performs Read/Write with raw
// syscalls on a non-blocking duplicate, parking in epoll(7) on EAGAIN.
type tun struct {
	fd      int // duplicated and owned by this wrapper
	epollFd int // epoll instance fd
	name    string
	closed  atomic.Bool

	// single-entry events array to avoid allocations
	events [1]unix.EpollEvent
}

// NewDevice takes ownership of f on success: it will close f before returning.
// On error, ownership remains with the caller (f is not closed).
func NewDevice(f *os.File, name string) (application.Device, error) {
	if f == nil {
		return nil, errors.New("nil file")
	}
	orig := int(f.Fd())

	dup, err := unix.Dup(orig)
	if err != nil {
		return nil, err
	}

	// O_NONBLOCK is shared with f's descriptor, which is closed below.
	if err := unix.SetNonblock(dup, true); err != nil {
		_ = unix.Close(dup)
		return nil, err
	}
	if _, err := unix.FcntlInt(uintptr(dup), unix.F_SETFD, unix.FD_CLOEXEC); err != nil {
		_ = unix.Close(dup)
		return nil, err
	}

	ep, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		_ = unix.Close(dup)
		return nil, err
	}

	w := &tun{fd: dup, epollFd: ep, name: name}

	ev := unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(w.fd),
	}
	if err := unix.EpollCtl(w.epollFd, unix.EPOLL_CTL_ADD, w.fd, &ev); err != nil {
		_ = unix.Close(w.epollFd)
		_ = unix.Close(w.fd)
		return nil, err
	}

	_ = f.Close()
	runtime.KeepAlive(f)
	return w, nil
}

// Read reads a single frame (or less if buffer is smaller).
func (w *tun) Read(p []byte) (int, error) {
	if w.closed.Load() {
		return 0, io.ErrClosedPipe
	}
	for {
		n, err := unix.Read(w.fd, p)
		if err == nil {
			if n == 0 && len(p) > 0 {
				return 0, io.EOF
			}
			return n, nil
		}
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN):
			if waitErr := w.wait(unix.EPOLLIN); waitErr != nil {
				return 0, waitErr
			}
			continue
		case errors.Is(err, unix.EBADF):
			return 0, io.ErrClosedPipe
		default:
			return 0, err
		}
	}
}

// Write writes one frame. A device accepts whole frames, so a short write
// is reported rather than continued.
func (w *tun) Write(p []byte) (int, error) {
	if w.closed.Load() {
		return 0, io.ErrClosedPipe
	}
	for {
		n, err := unix.Write(w.fd, p)
		if err == nil {
			if n != len(p) {
				return n, io.ErrShortWrite
			}
			return n, nil
		}
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN):
			if waitErr := w.wait(unix.EPOLLOUT); waitErr != nil {
				return 0, waitErr
			}
			continue
		case errors.Is(err, unix.EBADF):
			return 0, io.ErrClosedPipe
		default:
			return 0, err
		}
	}
}

// Close closes both the epoll instance and the owned duplicated fd.
func (w *tun) Close() error {
	if !w.closed.CompareAndSwap(false, true) {
		return nil
	}
	return errors.Join(unix.Close(w.epollFd), unix.Close(w.fd))
}

func (w *tun) Name() string { return w.name }

func (w *tun) Fd() int { return w.fd }

// wait arms the epoll registration for mask and blocks until it fires.
// HUP/ERR wake it as well; the retried syscall then reports the condition.
func (w *tun) wait(mask uint32) error {
	ev := unix.EpollEvent{Events: mask, Fd: int32(w.fd)}
	if err := unix.EpollCtl(w.epollFd, unix.EPOLL_CTL_MOD, w.fd, &ev); err != nil {
		return err
	}
	for {
		n, err := unix.EpollWait(w.epollFd, w.events[:], -1)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
	}
}
