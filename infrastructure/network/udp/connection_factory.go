package udp

import (
	"context"
	"net"

	"powertun/application/logging"
	"powertun/application/network/connection"
	"powertun/domain/session"
	"powertun/infrastructure/network"
	"powertun/infrastructure/network/framing"
)

// ServerConnectionFactory binds the listen port. There is no handshake: the
// peer becomes known when its first datagram arrives.
type ServerConnectionFactory struct {
	config   session.Config
	logger   logging.Logger
	onListen func(net.Addr)
}

type ServerOption func(*ServerConnectionFactory)

// WithListenHook is called with the bound address once the socket is ready.
func WithListenHook(hook func(net.Addr)) ServerOption {
	return func(f *ServerConnectionFactory) {
		f.onListen = hook
	}
}

func NewServerConnectionFactory(
	config session.Config,
	logger logging.Logger,
	opts ...ServerOption,
) connection.Factory {
	f := &ServerConnectionFactory{config: config, logger: logger}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *ServerConnectionFactory) EstablishConnection(ctx context.Context) (connection.Transport, error) {
	endpoint := f.config.ListenEndpoint()
	lc := network.ReuseAddrListenConfig()
	pc, err := lc.ListenPacket(ctx, "udp", endpoint)
	if err != nil {
		return nil, session.NewTransportError("bind", endpoint, err)
	}
	conn := pc.(*net.UDPConn)

	fd, err := network.DescriptorOf(conn)
	if err != nil {
		_ = conn.Close()
		return nil, session.NewTransportError("bind", endpoint, err)
	}

	f.logger.Printf("listening on %s (udp), peer is learned from the first datagram", conn.LocalAddr())
	if f.onListen != nil {
		f.onListen(conn.LocalAddr())
	}

	codec := framing.NewDatagramFramingAdapter(NewServerEndpoint(conn, f.logger))
	return network.NewFramedTransport(codec, fd, session.UDP), nil
}

// ClientConnectionFactory opens a local socket and fixes the configured peer
// as the only destination and accepted source.
type ClientConnectionFactory struct {
	config session.Config
	logger logging.Logger
}

func NewClientConnectionFactory(config session.Config, logger logging.Logger) connection.Factory {
	return &ClientConnectionFactory{config: config, logger: logger}
}

func (f *ClientConnectionFactory) EstablishConnection(_ context.Context) (connection.Transport, error) {
	endpoint := f.config.PeerEndpoint()
	addr, err := net.ResolveUDPAddr("udp", endpoint)
	if err != nil {
		return nil, session.NewTransportError("resolve", endpoint, err)
	}
	peer := canonical(addr.AddrPort())

	family := "udp6"
	if peer.Addr().Is4() {
		family = "udp4"
	}
	conn, err := net.ListenUDP(family, nil)
	if err != nil {
		return nil, session.NewTransportError("socket", endpoint, err)
	}

	fd, err := network.DescriptorOf(conn)
	if err != nil {
		_ = conn.Close()
		return nil, session.NewTransportError("socket", endpoint, err)
	}

	f.logger.Printf("sending to %s from %s (udp)", peer, conn.LocalAddr())
	codec := framing.NewDatagramFramingAdapter(NewClientEndpoint(conn, peer))
	return network.NewFramedTransport(codec, fd, session.UDP), nil
}
