package session

import (
	"fmt"

	"powertun/application/logging"
	"powertun/application/network/connection"
	"powertun/application/network/forwarding"
	"powertun/application/network/tun"
	"powertun/domain/mode"
	"powertun/domain/session"
	"powertun/infrastructure/PAL/linux/epoll"
	"powertun/infrastructure/network/tcp"
	"powertun/infrastructure/network/udp"
	"powertun/infrastructure/tun_device"
)

type AppDependencies interface {
	Configuration() session.Config
	Logger() logging.Logger
	DeviceManager() tun.Manager
	ConnectionFactory() connection.Factory
	PollerFactory() forwarding.PollerFactory
}

type Dependencies struct {
	configuration     session.Config
	logger            logging.Logger
	deviceManager     tun.Manager
	connectionFactory connection.Factory
	pollerFactory     forwarding.PollerFactory
}

// NewDependencies wires the Linux implementations selected by configuration.
func NewDependencies(configuration session.Config, logger logging.Logger) (AppDependencies, error) {
	deviceManager, err := tun_device.NewManager(configuration, logger)
	if err != nil {
		return nil, err
	}
	factory, err := NewConnectionFactory(configuration, logger)
	if err != nil {
		return nil, err
	}
	return &Dependencies{
		configuration:     configuration,
		logger:            logger,
		deviceManager:     deviceManager,
		connectionFactory: factory,
		pollerFactory:     epoll.NewPollerFactory(),
	}, nil
}

// NewConnectionFactory picks the transport by role and protocol.
func NewConnectionFactory(configuration session.Config, logger logging.Logger) (connection.Factory, error) {
	switch {
	case configuration.Role == mode.Client && configuration.Protocol == session.TCP:
		return tcp.NewClientConnectionFactory(configuration, logger), nil
	case configuration.Role == mode.Server && configuration.Protocol == session.TCP:
		return tcp.NewServerConnectionFactory(configuration, logger), nil
	case configuration.Role == mode.Client && configuration.Protocol == session.UDP:
		return udp.NewClientConnectionFactory(configuration, logger), nil
	case configuration.Role == mode.Server && configuration.Protocol == session.UDP:
		return udp.NewServerConnectionFactory(configuration, logger), nil
	default:
		return nil, session.NewConfigurationError(
			fmt.Sprintf("no transport for role %s over %s", configuration.Role, configuration.Protocol), nil)
	}
}

func (d *Dependencies) Configuration() session.Config {
	return d.configuration
}

func (d *Dependencies) Logger() logging.Logger {
	return d.logger
}

func (d *Dependencies) DeviceManager() tun.Manager {
	return d.deviceManager
}

func (d *Dependencies) ConnectionFactory() connection.Factory {
	return d.connectionFactory
}

func (d *Dependencies) PollerFactory() forwarding.PollerFactory {
	return d.pollerFactory
}
