package tun_device

import (
	"errors"
	"os"

	"powertun/application/logging"
	"powertun/application/network/tun"
	"powertun/domain/session"
	"powertun/infrastructure/PAL/linux/ioctl"
	"powertun/infrastructure/PAL/linux/tun/epoll"
)

// KernelManager allocates interfaces with TUNSETIFF on /dev/net/tun.
type KernelManager struct {
	contract ioctl.Contract
	policy   OpenPolicy
	logger   logging.Logger
}

func NewKernelManager(contract ioctl.Contract, policy OpenPolicy, logger logging.Logger) tun.Manager {
	return &KernelManager{
		contract: contract,
		policy:   policy,
		logger:   logger,
	}
}

type attachedFile struct {
	file *os.File
	name string
}

func (m *KernelManager) Allocate(kind session.DeviceKind, requestedName string) (tun.Device, error) {
	attached, err := openWithRetry(m.policy, m.logger, isControlPathError, func() (attachedFile, error) {
		file, name, err := m.contract.CreateInterface(kind, requestedName)
		return attachedFile{file: file, name: name}, err
	})
	if err != nil {
		if isControlPathError(err) {
			return nil, session.NewDeviceError("open", requestedName, err)
		}
		return nil, session.NewDeviceError("attach", requestedName, err)
	}

	device, err := epoll.NewDevice(attached.file, attached.name)
	if err != nil {
		_ = attached.file.Close()
		return nil, session.NewDeviceError("configure", attached.name, err)
	}
	m.logger.Printf("%s interface %s attached", kind, device.Name())
	return device, nil
}

func isControlPathError(err error) bool {
	return errors.Is(err, ioctl.ErrOpenControlPath)
}
