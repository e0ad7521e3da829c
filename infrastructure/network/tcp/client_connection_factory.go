package tcp

import (
	"context"
	"net"

	"powertun/application/logging"
	"powertun/application/network/connection"
	"powertun/domain/session"
	"powertun/infrastructure/network"
	"powertun/infrastructure/network/framing"
)

type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// ClientConnectionFactory connects once to the configured peer. A failed
// connect is final.
type ClientConnectionFactory struct {
	config session.Config
	dialer Dialer
	logger logging.Logger
}

func NewClientConnectionFactory(config session.Config, logger logging.Logger) connection.Factory {
	return NewClientConnectionFactoryWithDialer(config, &net.Dialer{Timeout: config.DialTimeout()}, logger)
}

func NewClientConnectionFactoryWithDialer(
	config session.Config,
	dialer Dialer,
	logger logging.Logger,
) connection.Factory {
	return &ClientConnectionFactory{
		config: config,
		dialer: dialer,
		logger: logger,
	}
}

func (f *ClientConnectionFactory) EstablishConnection(ctx context.Context) (connection.Transport, error) {
	endpoint := f.config.PeerEndpoint()
	conn, err := f.dialer.DialContext(ctx, "tcp", endpoint)
	if err != nil {
		return nil, session.NewTransportError("connect", endpoint, err)
	}

	fd, err := network.DescriptorOf(conn)
	if err != nil {
		_ = conn.Close()
		return nil, session.NewTransportError("connect", endpoint, err)
	}

	f.logger.Printf("connected to %s from %s", conn.RemoteAddr(), conn.LocalAddr())
	return network.NewFramedTransport(framing.NewLengthPrefixFramingAdapter(conn), fd, session.TCP), nil
}
