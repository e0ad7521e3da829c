package tun_device

import (
	"errors"
	"os"
	"syscall"

	"github.com/songgao/water"

	"powertun/application/logging"
	"powertun/application/network/tun"
	"powertun/domain/session"
	"powertun/infrastructure/PAL/linux/tun/epoll"
)

// WaterManager allocates interfaces through songgao/water and then drives
// the returned descriptor like the kernel backend does.
type WaterManager struct {
	policy       OpenPolicy
	logger       logging.Logger
	newInterface func(water.Config) (*water.Interface, error)
}

func NewWaterManager(policy OpenPolicy, logger logging.Logger) tun.Manager {
	return &WaterManager{
		policy:       policy,
		logger:       logger,
		newInterface: water.New,
	}
}

func (m *WaterManager) Allocate(kind session.DeviceKind, requestedName string) (tun.Device, error) {
	config := water.Config{DeviceType: water.TUN}
	switch kind {
	case session.TUN:
	case session.TAP:
		config.DeviceType = water.TAP
	default:
		return nil, session.NewDeviceError("attach", requestedName, errors.New("unsupported device kind"))
	}
	config.Name = requestedName

	// water returns the bare errno when /dev/net/tun cannot be opened and
	// an *os.SyscallError when the ioctl is rejected.
	retryable := func(err error) bool {
		var sysErr *os.SyscallError
		if errors.As(err, &sysErr) {
			return false
		}
		var errno syscall.Errno
		return errors.As(err, &errno)
	}
	ifce, err := openWithRetry(m.policy, m.logger, retryable, func() (*water.Interface, error) {
		return m.newInterface(config)
	})
	if err != nil {
		if retryable(err) {
			return nil, session.NewDeviceError("open", requestedName, err)
		}
		return nil, session.NewDeviceError("attach", requestedName, err)
	}

	name := ifce.Name()
	if name == "" {
		name = requestedName
	}
	file, ok := ifce.ReadWriteCloser.(*os.File)
	if !ok {
		_ = ifce.Close()
		return nil, session.NewDeviceError("configure", name, errors.New("water interface is not backed by a file"))
	}

	device, err := epoll.NewDevice(file, name)
	if err != nil {
		_ = ifce.Close()
		return nil, session.NewDeviceError("configure", name, err)
	}
	m.logger.Printf("%s interface %s attached (water)", kind, device.Name())
	return device, nil
}
