package tun_device

import (
	"fmt"

	"powertun/application/logging"
	"powertun/application/network/tun"
	"powertun/domain/session"
	"powertun/infrastructure/PAL/linux/ioctl"
)

// NewManager returns the device manager for the configured backend.
func NewManager(config session.Config, logger logging.Logger) (tun.Manager, error) {
	policy := NewOpenPolicy(config.DeviceOpenAttempts, config.DeviceOpenBackoff)
	switch config.DeviceBackend {
	case session.KernelBackend, "":
		contract := ioctl.NewWrapper(ioctl.NewLinuxIoctlCommander(), ioctl.DefaultTunPath)
		return NewKernelManager(contract, policy, logger), nil
	case session.WaterBackend:
		return NewWaterManager(policy, logger), nil
	default:
		return nil, session.NewConfigurationError(fmt.Sprintf("unknown device backend %q", config.DeviceBackend), nil)
	}
}
