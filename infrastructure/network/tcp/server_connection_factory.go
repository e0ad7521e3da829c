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

// ServerConnectionFactory accepts exactly one connection, then stops
// listening so later connection attempts are refused.
type ServerConnectionFactory struct {
	config   session.Config
	logger   logging.Logger
	onListen func(net.Addr)
}

type ServerOption func(*ServerConnectionFactory)

// WithListenHook is called with the bound address before accepting.
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
	f := &ServerConnectionFactory{
		config: config,
		logger: logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *ServerConnectionFactory) EstablishConnection(ctx context.Context) (connection.Transport, error) {
	endpoint := f.config.ListenEndpoint()
	lc := network.ReuseAddrListenConfig()
	listener, err := lc.Listen(ctx, "tcp", endpoint)
	if err != nil {
		return nil, session.NewTransportError("listen", endpoint, err)
	}
	defer func() {
		_ = listener.Close()
	}()

	f.logger.Printf("listening on %s (tcp), waiting for one peer", listener.Addr())
	if f.onListen != nil {
		f.onListen(listener.Addr())
	}

	stop := context.AfterFunc(ctx, func() {
		_ = listener.Close()
	})
	defer stop()

	conn, err := listener.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, session.NewTransportError("accept", listener.Addr().String(), err)
	}

	fd, err := network.DescriptorOf(conn)
	if err != nil {
		_ = conn.Close()
		return nil, session.NewTransportError("accept", listener.Addr().String(), err)
	}

	f.logger.Printf("accepted peer %s", conn.RemoteAddr())
	return network.NewFramedTransport(framing.NewLengthPrefixFramingAdapter(conn), fd, session.TCP), nil
}
