//go:build linux

package epoll

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"powertun/application/network/forwarding"
)

// Poller is a level-triggered epoll(7) reactor over the device and network
// descriptors. An eventfd registered alongside them lets context
// cancellation interrupt a blocked Wait.
type Poller struct {
	epollFd   int
	wakeFd    int
	deviceFd  int
	networkFd int
	events    [3]unix.EpollEvent

	mu     sync.Mutex
	closed bool
}

func NewPoller(deviceFd, networkFd int) (*Poller, error) {
	if deviceFd < 0 || networkFd < 0 || deviceFd == networkFd {
		return nil, fmt.Errorf("invalid descriptors: device=%d network=%d", deviceFd, networkFd)
	}

	ep, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll_create1: %w", err)
	}
	wake, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		_ = unix.Close(ep)
		return nil, fmt.Errorf("eventfd: %w", err)
	}

	p := &Poller{epollFd: ep, wakeFd: wake, deviceFd: deviceFd, networkFd: networkFd}
	for _, fd := range []int{deviceFd, networkFd, wake} {
		ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
		if err := unix.EpollCtl(ep, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
			_ = unix.Close(wake)
			_ = unix.Close(ep)
			return nil, fmt.Errorf("epoll_ctl add fd %d: %w", fd, err)
		}
	}
	return p, nil
}

// Wait blocks without timeout until at least one descriptor is readable or
// has hung up. EINTR restarts the wait.
func (p *Poller) Wait(ctx context.Context) (forwarding.Readiness, error) {
	if err := ctx.Err(); err != nil {
		return forwarding.Readiness{}, err
	}
	stop := context.AfterFunc(ctx, p.wake)
	defer stop()

	for {
		n, err := unix.EpollWait(p.epollFd, p.events[:], -1)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return forwarding.Readiness{}, fmt.Errorf("epoll_wait: %w", err)
		}

		var ready forwarding.Readiness
		woken := false
		for _, ev := range p.events[:n] {
			switch int(ev.Fd) {
			case p.deviceFd:
				ready.Device = true
			case p.networkFd:
				ready.Network = true
			case p.wakeFd:
				woken = true
			}
		}
		if woken {
			p.drain()
			if err := ctx.Err(); err != nil {
				return forwarding.Readiness{}, err
			}
		}
		if ready.Device || ready.Network {
			return ready, nil
		}
	}
}

func (p *Poller) wake() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	var one [8]byte
	binary.NativeEndian.PutUint64(one[:], 1)
	_, _ = unix.Write(p.wakeFd, one[:])
}

func (p *Poller) drain() {
	var counter [8]byte
	_, _ = unix.Read(p.wakeFd, counter[:])
}

// Close releases the epoll instance and the eventfd. The watched
// descriptors belong to their owners and stay open.
func (p *Poller) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return errors.Join(unix.Close(p.wakeFd), unix.Close(p.epollFd))
}

type PollerFactory struct{}

func NewPollerFactory() forwarding.PollerFactory {
	return PollerFactory{}
}

func (PollerFactory) NewPoller(deviceFd, networkFd int) (forwarding.Poller, error) {
	return NewPoller(deviceFd, networkFd)
}
