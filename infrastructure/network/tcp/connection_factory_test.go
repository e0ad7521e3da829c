package tcp

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"powertun/application/network/connection"
	"powertun/domain/mode"
	"powertun/domain/session"
)

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
func (nopLogger) Debugf(string, ...any) {}

func serverConfig() session.Config {
	c := session.DefaultConfig()
	c.InterfaceName = "tun0"
	c.ListenAddress = "127.0.0.1"
	c.Port = 0
	return c
}

func clientConfig(port int) session.Config {
	c := session.DefaultConfig()
	c.InterfaceName = "tun1"
	c.Role = mode.Client
	c.PeerAddress = "127.0.0.1"
	c.Port = port
	return c
}

// establishPair runs a server factory and a client factory against each other.
func establishPair(t *testing.T) (server, client connection.Transport) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	addrCh := make(chan net.Addr, 1)
	serverFactory := NewServerConnectionFactory(serverConfig(), nopLogger{}, WithListenHook(func(a net.Addr) {
		addrCh <- a
	}))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		server, err = serverFactory.EstablishConnection(gctx)
		return err
	})
	g.Go(func() error {
		var addr net.Addr
		select {
		case addr = <-addrCh:
		case <-gctx.Done():
			return gctx.Err()
		}
		var err error
		client, err = NewClientConnectionFactory(clientConfig(addr.(*net.TCPAddr).Port), nopLogger{}).EstablishConnection(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		t.Fatalf("establish: %v", err)
	}
	t.Cleanup(func() {
		_ = server.Close()
		_ = client.Close()
	})
	return server, client
}

func TestTCP_EstablishAndExchangeFrames(t *testing.T) {
	server, client := establishPair(t)

	if server.Protocol() != session.TCP || client.Protocol() != session.TCP {
		t.Fatal("expected TCP transports")
	}
	if server.Fd() < 0 || client.Fd() < 0 {
		t.Fatal("expected valid descriptors")
	}

	frames := [][]byte{bytes.Repeat([]byte{0xAB}, 100), bytes.Repeat([]byte{0xCD}, 2000), {}}
	for _, f := range frames {
		if _, err := client.Write(f); err != nil {
			t.Fatalf("client write: %v", err)
		}
	}
	buf := make([]byte, 2000)
	for i, want := range frames {
		n, err := server.Read(buf)
		if err != nil {
			t.Fatalf("server read %d: %v", i, err)
		}
		if !bytes.Equal(buf[:n], want) {
			t.Fatalf("frame %d mismatch: %d bytes, want %d", i, n, len(want))
		}
	}

	reply := []byte("pong")
	if _, err := server.Write(reply); err != nil {
		t.Fatalf("server write: %v", err)
	}
	n, err := client.Read(buf)
	if err != nil || !bytes.Equal(buf[:n], reply) {
		t.Fatalf("client read = %q, %v", buf[:n], err)
	}
}

func TestTCP_PeerCloseIsEOF(t *testing.T) {
	server, client := establishPair(t)

	if err := client.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	_, err := server.Read(make([]byte, 2000))
	if err == nil || err.Error() != "EOF" {
		t.Fatalf("expected bare EOF, got %v", err)
	}
}

func TestTCP_ServerAcceptsOnlyOnePeer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	addrCh := make(chan net.Addr, 1)
	factory := NewServerConnectionFactory(serverConfig(), nopLogger{}, WithListenHook(func(a net.Addr) {
		addrCh <- a
	}))

	done := make(chan error, 1)
	var server connection.Transport
	go func() {
		var err error
		server, err = factory.EstablishConnection(ctx)
		done <- err
	}()

	addr := <-addrCh
	first, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("first dial: %v", err)
	}
	defer func() { _ = first.Close() }()
	if err := <-done; err != nil {
		t.Fatalf("establish: %v", err)
	}
	defer func() { _ = server.Close() }()

	second, err := net.DialTimeout("tcp", addr.String(), time.Second)
	if err == nil {
		_ = second.Close()
		t.Fatal("second connection must be refused once the session is established")
	}
}

func TestTCP_ServerCancelledWhileAccepting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	factory := NewServerConnectionFactory(serverConfig(), nopLogger{}, WithListenHook(func(net.Addr) {
		cancel()
	}))

	_, err := factory.EstablishConnection(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestTCP_ServerListenFailure(t *testing.T) {
	c := serverConfig()
	c.ListenAddress = "192.0.2.1" // TEST-NET-1, never local

	_, err := NewServerConnectionFactory(c, nopLogger{}).EstablishConnection(context.Background())
	var trErr *session.TransportError
	if !errors.As(err, &trErr) || trErr.Op != "listen" {
		t.Fatalf("expected listen TransportError, got %v", err)
	}
}

func TestTCP_ClientConnectRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()

	_, err = NewClientConnectionFactory(clientConfig(port), nopLogger{}).EstablishConnection(context.Background())
	var trErr *session.TransportError
	if !errors.As(err, &trErr) || trErr.Op != "connect" {
		t.Fatalf("expected connect TransportError, got %v", err)
	}
}

type failingDialer struct{ err error }

func (d failingDialer) DialContext(context.Context, string, string) (net.Conn, error) {
	return nil, d.err
}

func TestTCP_ClientUsesInjectedDialer(t *testing.T) {
	boom := errors.New("no route to host")
	f := NewClientConnectionFactoryWithDialer(clientConfig(6666), failingDialer{err: boom}, nopLogger{})

	_, err := f.EstablishConnection(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected dialer error, got %v", err)
	}
	if err.Error() != "transport error: connect 127.0.0.1:6666: no route to host" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
